package database

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/ortelius/vexmgt-backend/internal/vex"
	"github.com/ortelius/vexmgt-backend/model"
)

// StatementRepo persists VEX statements in the vex_statement collection.
// The collection carries a unique persistent index over
// (product_key, vuln_id, component_purl).
type StatementRepo struct {
	db DBConnection
}

// NewStatementRepo creates the repository
func NewStatementRepo(db DBConnection) *StatementRepo {
	return &StatementRepo{db: db}
}

// FindByKey returns one statement by key, or nil when absent
func (r *StatementRepo) FindByKey(ctx context.Context, key string) (*model.VexStatement, error) {
	query := `
		FOR s IN vex_statement
			FILTER s._key == @key
			LIMIT 1
			RETURN s
	`
	return r.queryOne(ctx, query, map[string]interface{}{"key": key})
}

// FindByTriple returns the statement for a (product, vulnerability,
// component) triple, or nil when absent
func (r *StatementRepo) FindByTriple(ctx context.Context, productKey, vulnID, componentPurl string) (*model.VexStatement, error) {
	query := `
		FOR s IN vex_statement
			FILTER s.product_key == @productKey
			   AND s.vuln_id == @vulnId
			   AND s.component_purl == @componentPurl
			LIMIT 1
			RETURN s
	`
	bindVars := map[string]interface{}{
		"productKey":    productKey,
		"vulnId":        vulnID,
		"componentPurl": componentPurl,
	}
	return r.queryOne(ctx, query, bindVars)
}

// FindByProduct returns every statement of a product
func (r *StatementRepo) FindByProduct(ctx context.Context, productKey string) ([]model.VexStatement, error) {
	query := `
		FOR s IN vex_statement
			FILTER s.product_key == @productKey
			RETURN s
	`
	bindVars := map[string]interface{}{"productKey": productKey}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var statements []model.VexStatement
	for cursor.HasMore() {
		var statement model.VexStatement
		if _, err := cursor.ReadDocument(ctx, &statement); err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}
	return statements, nil
}

// Save upserts one statement by key
func (r *StatementRepo) Save(ctx context.Context, statement *model.VexStatement) error {
	query := `
		UPSERT { _key: @key }
		INSERT @doc
		UPDATE @doc
		IN vex_statement
	`
	bindVars := map[string]interface{}{
		"key": statement.Key,
		"doc": statement,
	}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}

// Query returns one page of statements plus the unpaged total
func (r *StatementRepo) Query(ctx context.Context, q vex.StatementQuery) ([]model.VexStatement, int, error) {
	filter := " FILTER s.objtype == 'VexStatement'"
	bindVars := map[string]interface{}{}

	if q.ProductKey != "" {
		filter += " AND s.product_key == @productKey"
		bindVars["productKey"] = q.ProductKey
	}
	if q.Org != "" {
		filter += " AND s.org == @org"
		bindVars["org"] = q.Org
	}
	if q.Status != "" {
		filter += " AND s.status == @status"
		bindVars["status"] = q.Status
	}
	if q.Viewer != nil {
		if orgFilter := q.Viewer.GetOrgFilter("s"); orgFilter != "" {
			filter += orgFilter
			bindVars["userOrgs"] = q.Viewer.Orgs
		}
	}

	countQuery := "FOR s IN vex_statement" + filter + " COLLECT WITH COUNT INTO total RETURN total"

	cursor, err := r.db.Database.Query(ctx, countQuery, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, 0, err
	}

	total := 0
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &total); err != nil {
			cursor.Close()
			return nil, 0, err
		}
	}
	cursor.Close()

	pageBindVars := map[string]interface{}{}
	for k, v := range bindVars {
		pageBindVars[k] = v
	}
	pageBindVars["offset"] = q.Offset
	pageBindVars["limit"] = q.Limit

	pageQuery := "FOR s IN vex_statement" + filter +
		" SORT s.created_at DESC LIMIT @offset, @limit RETURN s"

	cursor, err = r.db.Database.Query(ctx, pageQuery, &arangodb.QueryOptions{BindVars: pageBindVars})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close()

	var statements []model.VexStatement
	for cursor.HasMore() {
		var statement model.VexStatement
		if _, err := cursor.ReadDocument(ctx, &statement); err != nil {
			return nil, 0, err
		}
		statements = append(statements, statement)
	}

	return statements, total, nil
}

func (r *StatementRepo) queryOne(ctx context.Context, query string, bindVars map[string]interface{}) (*model.VexStatement, error) {
	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}

	var statement model.VexStatement
	if _, err := cursor.ReadDocument(ctx, &statement); err != nil {
		return nil, err
	}
	return &statement, nil
}
