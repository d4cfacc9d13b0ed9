package scoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/model"
)

// ProductRepo is the persistence surface for recomputed scores
type ProductRepo interface {
	FindByKey(ctx context.Context, key string) (*model.Product, error)
	SaveScores(ctx context.Context, productKey string, riskScore, complianceScore int, grade string) error
}

// StatementStore loads a product's statements and writes their scored
// copies back
type StatementStore interface {
	FindByProduct(ctx context.Context, productKey string) ([]model.VexStatement, error)
	Save(ctx context.Context, statement *model.VexStatement) error
}

// VulnGetter loads a vulnerability record by advisory ID
type VulnGetter interface {
	FindByID(ctx context.Context, id string) (*model.Vulnerability, error)
}

// Recomputer refreshes a product's persisted risk and compliance scores
// whenever its statements change. It subscribes to statements-changed
// events rather than being called by the correlator or the VEX store
// directly.
type Recomputer struct {
	products   ProductRepo
	statements StatementStore
	vulns      VulnGetter
	logger     *zap.SugaredLogger
}

// NewRecomputer creates a recomputer
func NewRecomputer(products ProductRepo, statements StatementStore, vulns VulnGetter, logger *zap.SugaredLogger) *Recomputer {
	return &Recomputer{
		products:   products,
		statements: statements,
		vulns:      vulns,
		logger:     logger,
	}
}

// PublishStatementsChanged makes the recomputer usable as an in-process
// event subscriber
func (r *Recomputer) PublishStatementsChanged(ctx context.Context, productKey, org, action string, statementKeys []string) error {
	return r.Recompute(ctx, productKey)
}

// Recompute recalculates and persists both scores for one product. The
// aggregate risk is the maximum per-vulnerability score across affected
// statements, 0 when none are affected.
func (r *Recomputer) Recompute(ctx context.Context, productKey string) error {
	product, err := r.products.FindByKey(ctx, productKey)
	if err != nil {
		return err
	}
	if product == nil {
		return model.NewNotFoundError("product", productKey)
	}

	statements, err := r.statements.FindByProduct(ctx, productKey)
	if err != nil {
		return err
	}

	riskScore := 0
	for i := range statements {
		statement := &statements[i]

		score := 0
		if statement.Status == model.StatusAffected {
			vuln, err := r.vulns.FindByID(ctx, statement.VulnID)
			if err != nil {
				return err
			}
			if vuln == nil {
				// Score from the denormalized severity when the advisory
				// record is gone
				vuln = &model.Vulnerability{ID: statement.VulnID, Severity: statement.Severity}
			}

			score = RiskScore(vuln, product)
			if score > riskScore {
				riskScore = score
			}
		}

		// Persist the per-statement score only when it moved
		if statement.RiskScore != score {
			now := time.Now()
			statement.RiskScore = score
			statement.LastScoredAt = &now
			if err := r.statements.Save(ctx, statement); err != nil {
				return err
			}
		}
	}

	complianceScore := ComplianceScore(statements)
	grade := ComplianceGrade(complianceScore)

	if err := r.products.SaveScores(ctx, productKey, riskScore, complianceScore, grade); err != nil {
		return err
	}

	r.logger.Infow("Recomputed product scores",
		"product", productKey, "risk", riskScore, "compliance", complianceScore, "grade", grade)

	return nil
}
