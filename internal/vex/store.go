// Package vex owns the lifecycle of VEX statements: creation, operator
// updates, bulk revisions, the reachability policy side effect, and the
// audit trail behind all of them.
package vex

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/internal/identity"
	"github.com/ortelius/vexmgt-backend/internal/reachability"
	"github.com/ortelius/vexmgt-backend/model"
)

// SystemActor is recorded on audit entries for automated transitions
const SystemActor = "system"

// StatementQuery selects a page of statements by product or org. A
// non-nil Viewer additionally restricts the page to the orgs that
// viewer belongs to.
type StatementQuery struct {
	ProductKey string
	Org        string
	Status     string
	Viewer     *model.User
	Limit      int
	Offset     int
}

// StatementRepo is the persistence surface for statements
type StatementRepo interface {
	FindByKey(ctx context.Context, key string) (*model.VexStatement, error)
	FindByTriple(ctx context.Context, productKey, vulnID, componentPurl string) (*model.VexStatement, error)
	FindByProduct(ctx context.Context, productKey string) ([]model.VexStatement, error)
	Save(ctx context.Context, statement *model.VexStatement) error
	Query(ctx context.Context, q StatementQuery) ([]model.VexStatement, int, error)
}

// AuditRepo appends to the audit trail. Entries are never updated.
type AuditRepo interface {
	Append(ctx context.Context, entry *model.AuditEntry) error
}

// Publisher announces statement changes to downstream consumers
type Publisher interface {
	PublishStatementsChanged(ctx context.Context, productKey, org, action string, statementKeys []string) error
}

// Store is the single owner of statement state transitions
type Store struct {
	statements StatementRepo
	audit      AuditRepo
	identity   identity.Resolver
	publisher  Publisher
	logger     *zap.SugaredLogger
}

// NewStore creates a statement store
func NewStore(statements StatementRepo, audit AuditRepo, resolver identity.Resolver, publisher Publisher, logger *zap.SugaredLogger) *Store {
	return &Store{
		statements: statements,
		audit:      audit,
		identity:   resolver,
		publisher:  publisher,
		logger:     logger,
	}
}

// EnsureStatement creates the statement for a (product, vulnerability,
// component) triple if it does not exist yet. Re-correlation of an
// existing triple keeps the statement but refreshes its denormalized
// severity when the advisory's severity moved, so grading never runs
// on a stale copy.
func (s *Store) EnsureStatement(ctx context.Context, product *model.Product, vulnID, componentPurl string, severity model.Severity) (string, bool, error) {
	existing, err := s.statements.FindByTriple(ctx, product.Key, vulnID, componentPurl)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		if severity.Kind != model.SeverityKindUnknown && !existing.Severity.Equal(severity) {
			existing.Severity = severity
			existing.UpdatedAt = time.Now()
			if err := s.statements.Save(ctx, existing); err != nil {
				return "", false, err
			}
			s.publish(ctx, product.Key, product.Org, "severity_refreshed", []string{existing.Key})
		}
		return existing.Key, false, nil
	}

	statement := model.NewVexStatement(product.Key, product.Org, vulnID, componentPurl)
	statement.Key = uuid.New().String()
	statement.Severity = severity

	if err := s.statements.Save(ctx, statement); err != nil {
		return "", false, err
	}

	return statement.Key, true, nil
}

// Update applies one patch to one statement. The actor must belong to
// the statement's org; observed changes to status, justification, or
// expiry are audited and announced.
func (s *Store) Update(ctx context.Context, actor, key string, patch model.StatementPatch) (*model.VexStatement, error) {
	statement, err := s.statements.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if statement == nil {
		return nil, model.NewNotFoundError("statement", key)
	}

	authorized, err := s.identity.Authorized(ctx, actor, statement.Org)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, model.NewAuthorizationError(actor, "org "+statement.Org)
	}

	changes, err := statement.ApplyUpdate(patch)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return statement, nil
	}

	if err := s.writeAudited(ctx, statement, actor, "updated", changes, ""); err != nil {
		return nil, err
	}

	s.publish(ctx, statement.ProductKey, statement.Org, "updated", []string{statement.Key})

	return statement, nil
}

// BulkUpdate applies one patch to many statements. Statements the actor
// is not authorized for are silently dropped; the call fails only when
// the authorized subset is empty. Per-record validation failures skip
// the record, so partial success is expected.
func (s *Store) BulkUpdate(ctx context.Context, actor string, keys []string, patch model.StatementPatch) ([]model.VexStatement, error) {
	var authorizedStatements []*model.VexStatement

	for _, key := range keys {
		statement, err := s.statements.FindByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if statement == nil {
			s.logger.Debugw("Bulk update skipping unknown statement", "key", key)
			continue
		}

		authorized, err := s.identity.Authorized(ctx, actor, statement.Org)
		if err != nil {
			return nil, err
		}
		if !authorized {
			s.logger.Debugw("Bulk update dropping unauthorized statement",
				"key", key, "actor", actor, "org", statement.Org)
			continue
		}

		authorizedStatements = append(authorizedStatements, statement)
	}

	if len(authorizedStatements) == 0 {
		return nil, model.NewAuthorizationError(actor, "any of the requested statements")
	}

	var updated []model.VexStatement
	changedByProduct := map[string][]string{}
	orgByProduct := map[string]string{}

	for _, statement := range authorizedStatements {
		changes, err := statement.ApplyUpdate(patch)
		if err != nil {
			s.logger.Warnw("Bulk update skipping invalid record",
				"key", statement.Key, "error", err)
			continue
		}
		if len(changes) == 0 {
			updated = append(updated, *statement)
			continue
		}

		if err := s.writeAudited(ctx, statement, actor, "bulk_updated", changes, ""); err != nil {
			return nil, err
		}

		updated = append(updated, *statement)
		changedByProduct[statement.ProductKey] = append(changedByProduct[statement.ProductKey], statement.Key)
		orgByProduct[statement.ProductKey] = statement.Org
	}

	for productKey, changedKeys := range changedByProduct {
		s.publish(ctx, productKey, orgByProduct[productKey], "bulk_updated", changedKeys)
	}

	return updated, nil
}

// Query returns one page of statements
func (s *Store) Query(ctx context.Context, q StatementQuery) (*model.StatementsPage, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	statements, total, err := s.statements.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	return &model.StatementsPage{
		Statements: statements,
		Total:      total,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}, nil
}

// ApplyReachability records reachability verdicts on every statement of
// the product, keyed by component purl, running the auto-transition
// policy with the system actor. It returns the number of statements
// whose disposition changed.
func (s *Store) ApplyReachability(ctx context.Context, product *model.Product, byPurl map[string]reachability.Classification) (int, error) {
	statements, err := s.statements.FindByProduct(ctx, product.Key)
	if err != nil {
		return 0, err
	}

	var changedKeys []string

	for i := range statements {
		statement := &statements[i]

		c, ok := byPurl[statement.ComponentPurl]
		if !ok {
			continue
		}

		changes, err := reachability.ApplyPolicy(statement, c)
		if err != nil {
			s.logger.Warnw("Reachability policy rejected",
				"key", statement.Key, "error", err)
			continue
		}

		if len(changes) > 0 {
			detail := "auto-transition after " + c.Status + " reachability verdict"
			if err := s.writeAudited(ctx, statement, SystemActor, "reachability", changes, detail); err != nil {
				return 0, err
			}
			changedKeys = append(changedKeys, statement.Key)
		} else if err := s.statements.Save(ctx, statement); err != nil {
			return 0, err
		}
	}

	if len(changedKeys) > 0 {
		s.publish(ctx, product.Key, product.Org, "reachability", changedKeys)
	}

	return len(changedKeys), nil
}

// writeAudited persists the statement and its audit entry together.
// Audit append failure fails the operation so the trail never lags the
// state.
func (s *Store) writeAudited(ctx context.Context, statement *model.VexStatement, actor, action string, changes map[string]model.FieldChange, detail string) error {
	if err := s.statements.Save(ctx, statement); err != nil {
		return err
	}
	return s.audit.Append(ctx, model.NewAuditEntry(statement.Key, actor, action, changes, detail))
}

func (s *Store) publish(ctx context.Context, productKey, org, action string, keys []string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStatementsChanged(ctx, productKey, org, action, keys); err != nil {
		s.logger.Warnw("Failed to publish statements-changed event",
			"product", productKey, "action", action, "error", err)
	}
}
