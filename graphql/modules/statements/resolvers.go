// Package statements implements the resolvers for VEX statement queries.
package statements

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/ortelius/vexmgt-backend/database"
	"github.com/ortelius/vexmgt-backend/internal/vex"
	"github.com/ortelius/vexmgt-backend/model"
)

// ResolveStatements fetches one page of statements with optional filters
func ResolveStatements(db database.DBConnection, productKey, org, status string, limit, offset int) (interface{}, error) {
	if limit <= 0 {
		limit = 50
	}

	repo := database.NewStatementRepo(db)
	rows, total, err := repo.Query(context.Background(), vex.StatementQuery{
		ProductKey: productKey,
		Org:        org,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	statements := make([]map[string]interface{}, 0, len(rows))
	for i := range rows {
		statements = append(statements, statementToMap(&rows[i]))
	}

	return map[string]interface{}{
		"statements": statements,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	}, nil
}

// ResolveProductRisk fetches the current scores of one product
func ResolveProductRisk(db database.DBConnection, key string) (interface{}, error) {
	product, err := database.NewProductRepo(db).FindByKey(context.Background(), key)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	return map[string]interface{}{
		"product_key":      product.Key,
		"name":             product.Name,
		"org":              product.Org,
		"risk_score":       product.RiskScore,
		"compliance_score": product.ComplianceScore,
		"compliance_grade": product.ComplianceGrade,
	}, nil
}

// ResolveAuditTrail fetches the audit history of one statement
func ResolveAuditTrail(db database.DBConnection, statementKey string) (interface{}, error) {
	entries, err := database.NewAuditRepo(db).FindByStatement(context.Background(), statementKey)
	if err != nil {
		return nil, err
	}

	trail := make([]map[string]interface{}, 0, len(entries))
	for i := range entries {
		trail = append(trail, auditEntryToMap(&entries[i]))
	}
	return trail, nil
}

// ResolveStatusBreakdown counts a product's statements per status
func ResolveStatusBreakdown(db database.DBConnection, productKey string) (interface{}, error) {
	query := `
		FOR s IN vex_statement
			FILTER s.product_key == @productKey
			COLLECT status = s.status WITH COUNT INTO count
			SORT count DESC
			RETURN { status: status, count: count }
	`
	bindVars := map[string]interface{}{"productKey": productKey}

	cursor, err := db.Database.Query(context.Background(), query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var breakdown []map[string]interface{}
	for cursor.HasMore() {
		var row struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
		}
		if _, err := cursor.ReadDocument(context.Background(), &row); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, map[string]interface{}{
			"status": row.Status,
			"count":  row.Count,
		})
	}
	return breakdown, nil
}

func statementToMap(s *model.VexStatement) map[string]interface{} {
	return map[string]interface{}{
		"key":            s.Key,
		"product_key":    s.ProductKey,
		"org":            s.Org,
		"vuln_id":        s.VulnID,
		"component_purl": s.ComponentPurl,
		"status":         s.Status,
		"justification":  s.Justification,
		"reachability":   s.Reachability,
		"risk_score":     s.RiskScore,
		"created_at":     s.CreatedAt.Format(time.RFC3339),
		"updated_at":     s.UpdatedAt.Format(time.RFC3339),
	}
}

func auditEntryToMap(entry *model.AuditEntry) map[string]interface{} {
	changes := make([]map[string]interface{}, 0, len(entry.Changes))
	for field, change := range entry.Changes {
		changes = append(changes, map[string]interface{}{
			"field": field,
			"old":   stringifyValue(change.Old),
			"new":   stringifyValue(change.New),
		})
	}

	return map[string]interface{}{
		"entry_id":      entry.EntryID,
		"statement_key": entry.StatementKey,
		"actor":         entry.Actor,
		"action":        entry.Action,
		"detail":        entry.Detail,
		"created_at":    entry.CreatedAt.Format(time.RFC3339),
		"changes":       changes,
	}
}

func stringifyValue(v interface{}) string {
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}
