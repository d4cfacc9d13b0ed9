package advisory

import (
	"context"

	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/model"
)

// osvBatchSize is the maximum number of queries per querybatch call
const osvBatchSize = 1000

// StatementEnsurer creates the missing VEX statement for a finding.
// Created is false when the (product, vulnerability, component) triple
// already had a statement.
type StatementEnsurer interface {
	EnsureStatement(ctx context.Context, product *model.Product, vulnID, componentPurl string, severity model.Severity) (statementKey string, created bool, err error)
}

// Publisher announces statement changes to downstream consumers
type Publisher interface {
	PublishStatementsChanged(ctx context.Context, productKey, org, action string, statementKeys []string) error
}

// Correlator matches SBOM components against an advisory source and
// materializes the findings. It talks to scoring only through the
// statements-changed event, never directly.
type Correlator struct {
	source     Source
	vulns      VulnerabilityRepo
	statements StatementEnsurer
	publisher  Publisher
	logger     *zap.SugaredLogger
}

// NewCorrelator creates a correlator
func NewCorrelator(source Source, vulns VulnerabilityRepo, statements StatementEnsurer, publisher Publisher, logger *zap.SugaredLogger) *Correlator {
	return &Correlator{
		source:     source,
		vulns:      vulns,
		statements: statements,
		publisher:  publisher,
		logger:     logger,
	}
}

// Result summarizes one correlation run
type Result struct {
	// Findings maps each queried purl to its advisories
	Findings          map[string][]model.Vulnerability
	StatementsCreated int
}

// Correlate queries the advisory source for every component with a purl,
// upserts the vulnerability records, and ensures a VEX statement exists
// for each finding. A failed batch is logged and treated as empty so one
// source outage does not fail the whole ingestion.
func (c *Correlator) Correlate(ctx context.Context, product *model.Product, components []sbom.Component) (*Result, error) {
	purls := dedupePurls(components)

	result := &Result{Findings: map[string][]model.Vulnerability{}}

	for start := 0; start < len(purls); start += osvBatchSize {
		end := start + osvBatchSize
		if end > len(purls) {
			end = len(purls)
		}

		findings, err := c.source.BatchQuery(ctx, purls[start:end])
		if err != nil {
			c.logger.Warnw("Advisory batch failed, treating as empty",
				"product", product.Key, "batch_start", start, "error", err)
			continue
		}

		for purl, vulns := range findings {
			result.Findings[purl] = append(result.Findings[purl], vulns...)
		}
	}

	var createdKeys []string

	for purl, vulns := range result.Findings {
		for i := range vulns {
			vuln := &vulns[i]

			if err := c.upsertVulnerability(ctx, vuln); err != nil {
				return nil, err
			}

			key, created, err := c.statements.EnsureStatement(ctx, product, vuln.ID, purl, vuln.Severity)
			if err != nil {
				return nil, err
			}
			if created {
				createdKeys = append(createdKeys, key)
			}
		}
	}

	result.StatementsCreated = len(createdKeys)

	if len(createdKeys) > 0 && c.publisher != nil {
		if err := c.publisher.PublishStatementsChanged(ctx, product.Key, product.Org, "correlated", createdKeys); err != nil {
			c.logger.Warnw("Failed to publish statements-changed event",
				"product", product.Key, "error", err)
		}
	}

	return result, nil
}

// upsertVulnerability writes the record only when it is new or its
// content actually changed, keeping re-ingestion idempotent
func (c *Correlator) upsertVulnerability(ctx context.Context, vuln *model.Vulnerability) error {
	existing, err := c.vulns.FindByID(ctx, vuln.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Equal(vuln) {
			return nil
		}
		vuln.Key = existing.Key
	}
	return c.vulns.Save(ctx, vuln)
}

// dedupePurls extracts the distinct non-empty purls from the component
// list, preserving first-seen order
func dedupePurls(components []sbom.Component) []string {
	seen := map[string]bool{}
	var purls []string
	for _, comp := range components {
		if comp.Purl == "" || seen[comp.Purl] {
			continue
		}
		seen[comp.Purl] = true
		purls = append(purls, comp.Purl)
	}
	return purls
}
