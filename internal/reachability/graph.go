package reachability

import (
	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/model"
)

// Classification is the reachability verdict for one component
type Classification struct {
	Status   string
	Evidence []string
}

// Analyzer classifies SBOM components by combining the source scan with
// a traversal of the declared dependency graph
type Analyzer struct {
	logger *zap.SugaredLogger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(logger *zap.SugaredLogger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze scans the source tree under root and classifies every SBOM
// component as direct, transitive, or no_evidence. An absent root is a
// silent skip that classifies everything as no_evidence against an
// empty scan.
func (a *Analyzer) Analyze(root string, doc *sbom.Document) (map[string]Classification, error) {
	names := make([]string, 0, len(doc.Components))
	for _, comp := range doc.Components {
		if comp.Name != "" {
			names = append(names, comp.Name)
		}
	}

	evidence, err := scanSource(root, names)
	if err != nil {
		return nil, err
	}

	reachable := traverse(doc.Dependencies, evidence)

	results := map[string]Classification{}
	for _, comp := range doc.Components {
		if comp.Name == "" {
			continue
		}
		switch {
		case len(evidence[comp.Name]) > 0:
			results[comp.Name] = Classification{Status: model.ReachabilityDirect, Evidence: evidence[comp.Name]}
		case reachable[comp.Name]:
			results[comp.Name] = Classification{Status: model.ReachabilityTransitive}
		default:
			results[comp.Name] = Classification{Status: model.ReachabilityNoEvidence}
		}
	}

	a.logger.Infow("Reachability analysis complete",
		"root", root, "components", len(results), "direct", len(evidence))

	return results, nil
}

// traverse breadth-first walks the declared dependency edges from every
// package with direct-import evidence and returns the full reachable set
func traverse(edges map[string][]string, evidence map[string][]string) map[string]bool {
	reachable := map[string]bool{}

	var queue []string
	for name := range evidence {
		if !reachable[name] {
			reachable[name] = true
			queue = append(queue, name)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range edges[current] {
			if !reachable[dep] {
				reachable[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	return reachable
}
