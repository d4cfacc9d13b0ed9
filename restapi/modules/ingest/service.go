// Package ingest implements the SBOM ingestion pipeline: validation,
// advisory correlation, signal detection, and optional reachability
// analysis.
package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/internal/advisory"
	"github.com/ortelius/vexmgt-backend/internal/reachability"
	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/internal/signals"
	"github.com/ortelius/vexmgt-backend/internal/vex"
	"github.com/ortelius/vexmgt-backend/internal/workspace"
	"github.com/ortelius/vexmgt-backend/model"
)

// ProductGetter loads the product owning the ingested SBOM
type ProductGetter interface {
	FindByKey(ctx context.Context, key string) (*model.Product, error)
}

// Service runs the ingestion pipeline for one SBOM. Concurrent
// ingestions for the same product are not serialized; the persisted
// state is last-write-wins.
type Service struct {
	products   ProductGetter
	correlator *advisory.Correlator
	detector   *signals.Detector
	workspace  *workspace.Provider
	analyzer   *reachability.Analyzer
	store      *vex.Store
	publisher  vex.Publisher
	logger     *zap.SugaredLogger
}

// NewService wires the pipeline
func NewService(products ProductGetter, correlator *advisory.Correlator, detector *signals.Detector,
	provider *workspace.Provider, analyzer *reachability.Analyzer, store *vex.Store,
	publisher vex.Publisher, logger *zap.SugaredLogger) *Service {
	return &Service{
		products:   products,
		correlator: correlator,
		detector:   detector,
		workspace:  provider,
		analyzer:   analyzer,
		store:      store,
		publisher:  publisher,
		logger:     logger,
	}
}

// ProcessSBOMIngestion validates the SBOM, correlates its components
// against the advisory source, runs the supply-chain detectors, and,
// when a source tree is available, applies reachability analysis.
func (s *Service) ProcessSBOMIngestion(ctx context.Context, req model.IngestRequest) (*model.IngestResult, error) {
	product, err := s.products.FindByKey(ctx, req.ProductKey)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.NewNotFoundError("product", req.ProductKey)
	}

	doc, err := sbom.Validate(req.SBOM)
	if err != nil {
		return nil, err
	}

	correlation, err := s.correlator.Correlate(ctx, product, doc.Components)
	if err != nil {
		return nil, err
	}

	findings := s.detector.Scan(doc, product.Key)
	signalCount, signalKeys, err := s.detector.Persist(ctx, product, findings)
	if err != nil {
		return nil, err
	}
	if len(signalKeys) > 0 && s.publisher != nil {
		if err := s.publisher.PublishStatementsChanged(ctx, product.Key, product.Org, "correlated", signalKeys); err != nil {
			s.logger.Warnw("Failed to publish signal statements event",
				"product", product.Key, "error", err)
		}
	}

	result := &model.IngestResult{
		ProductKey:        product.Key,
		Components:        len(doc.Components),
		Vulnerabilities:   countVulnerabilities(correlation.Findings),
		Signals:           signalCount,
		StatementsCreated: correlation.StatementsCreated + len(signalKeys),
	}

	root, cleanup := s.workspace.Resolve(req.SourcePath, product.SourceURL)
	defer cleanup()

	if root != "" {
		classes, err := s.analyzer.Analyze(root, doc)
		if err != nil {
			return nil, err
		}

		if _, err := s.store.ApplyReachability(ctx, product, classesByPurl(doc, classes)); err != nil {
			return nil, err
		}
		result.ReachabilityRan = true
	}

	s.logger.Infow("SBOM ingestion complete",
		"product", product.Key,
		"components", result.Components,
		"vulnerabilities", result.Vulnerabilities,
		"signals", result.Signals,
		"statements_created", result.StatementsCreated,
		"reachability", result.ReachabilityRan)

	return result, nil
}

// classesByPurl rekeys the name-keyed reachability verdicts by the purl
// the statements reference
func classesByPurl(doc *sbom.Document, classes map[string]reachability.Classification) map[string]reachability.Classification {
	byPurl := map[string]reachability.Classification{}
	for _, comp := range doc.Components {
		if comp.Purl == "" {
			continue
		}
		if c, ok := classes[comp.Name]; ok {
			byPurl[comp.Purl] = c
		}
	}
	return byPurl
}

func countVulnerabilities(findings map[string][]model.Vulnerability) int {
	seen := map[string]bool{}
	for _, vulns := range findings {
		for _, vuln := range vulns {
			seen[vuln.ID] = true
		}
	}
	return len(seen)
}
