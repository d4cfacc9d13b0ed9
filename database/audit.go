package database

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/ortelius/vexmgt-backend/model"
)

// AuditRepo appends to the audit_log collection. There is deliberately
// no update or delete surface.
type AuditRepo struct {
	db DBConnection
}

// NewAuditRepo creates the repository
func NewAuditRepo(db DBConnection) *AuditRepo {
	return &AuditRepo{db: db}
}

// Append writes one audit entry
func (r *AuditRepo) Append(ctx context.Context, entry *model.AuditEntry) error {
	query := `INSERT @doc INTO audit_log`
	bindVars := map[string]interface{}{"doc": entry}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}

// FindByStatement returns the audit trail of one statement, oldest first
func (r *AuditRepo) FindByStatement(ctx context.Context, statementKey string) ([]model.AuditEntry, error) {
	query := `
		FOR a IN audit_log
			FILTER a.statement_key == @statementKey
			SORT a.created_at ASC
			RETURN a
	`
	bindVars := map[string]interface{}{"statementKey": statementKey}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var entries []model.AuditEntry
	for cursor.HasMore() {
		var entry model.AuditEntry
		if _, err := cursor.ReadDocument(ctx, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
