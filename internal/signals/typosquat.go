package signals

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/model"
	"github.com/ortelius/vexmgt-backend/util"
)

// detectTyposquats flags component names at edit distance exactly 1 from
// a golden package name. Names on the golden list are trusted as-is, and
// golden candidates whose length differs by more than 2 are skipped
// before computing the distance.
func detectTyposquats(components []sbom.Component, rules *Rules) []Finding {
	var findings []Finding

	for _, comp := range components {
		if comp.Name == "" || util.Contains(rules.GoldenPackages, comp.Name) {
			continue
		}

		for _, golden := range rules.GoldenPackages {
			diff := len(comp.Name) - len(golden)
			if diff < -2 || diff > 2 {
				continue
			}

			if levenshtein.ComputeDistance(comp.Name, golden) == 1 {
				findings = append(findings, Finding{
					ID:       findingID(KindTyposquat, comp.Name, golden),
					Kind:     KindTyposquat,
					Summary:  fmt.Sprintf("Possible typosquat: %s resembles %s", comp.Name, golden),
					Details: fmt.Sprintf("Component %q is one edit away from the well-known package %q. "+
						"Verify the dependency is the intended package.", comp.Name, golden),
					Severity:      model.NamedSeverity("HIGH"),
					ComponentName: comp.Name,
					ComponentPurl: comp.Purl,
					Target:        golden,
				})
				break
			}
		}
	}

	return findings
}
