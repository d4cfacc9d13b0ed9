package signals

import (
	"context"

	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/model"
)

// VulnerabilityRepo is the persistence surface the detector needs
type VulnerabilityRepo interface {
	FindByID(ctx context.Context, id string) (*model.Vulnerability, error)
	Save(ctx context.Context, vuln *model.Vulnerability) error
}

// StatementEnsurer creates the missing VEX statement for a finding
type StatementEnsurer interface {
	EnsureStatement(ctx context.Context, product *model.Product, vulnID, componentPurl string, severity model.Severity) (statementKey string, created bool, err error)
}

// Detector runs the three supply-chain heuristics over an SBOM and
// persists their findings as synthetic advisories
type Detector struct {
	rules      *Rules
	vulns      VulnerabilityRepo
	statements StatementEnsurer
	logger     *zap.SugaredLogger
}

// NewDetector creates a detector with the given rule lists
func NewDetector(rules *Rules, vulns VulnerabilityRepo, statements StatementEnsurer, logger *zap.SugaredLogger) *Detector {
	return &Detector{
		rules:      rules,
		vulns:      vulns,
		statements: statements,
		logger:     logger,
	}
}

// Scan runs all detectors and returns their findings without touching
// storage
func (d *Detector) Scan(doc *sbom.Document, productKey string) []Finding {
	var findings []Finding
	findings = append(findings, detectTyposquats(doc.Components, d.rules)...)
	findings = append(findings, detectMalicious(doc.Components, d.rules)...)
	findings = append(findings, detectProvenance(doc, productKey)...)
	return findings
}

// Persist stores each finding whose deterministic ID is not already
// present and ensures a VEX statement exists for it. It returns the
// number of findings and the keys of any statements it created.
func (d *Detector) Persist(ctx context.Context, product *model.Product, findings []Finding) (int, []string, error) {
	var createdKeys []string

	for _, finding := range findings {
		existing, err := d.vulns.FindByID(ctx, finding.ID)
		if err != nil {
			return 0, nil, err
		}
		if existing == nil {
			if err := d.vulns.Save(ctx, finding.Vulnerability()); err != nil {
				return 0, nil, err
			}
			d.logger.Infow("Persisted supply-chain finding",
				"id", finding.ID, "kind", finding.Kind, "component", finding.ComponentName)
		}

		key, created, err := d.statements.EnsureStatement(ctx, product, finding.ID, finding.ComponentPurl, finding.Severity)
		if err != nil {
			return 0, nil, err
		}
		if created {
			createdKeys = append(createdKeys, key)
		}
	}

	return len(findings), createdKeys, nil
}
