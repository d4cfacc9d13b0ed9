package database

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/ortelius/vexmgt-backend/model"
)

// ProductRepo persists products and their recomputed scores
type ProductRepo struct {
	db DBConnection
}

// NewProductRepo creates the repository
func NewProductRepo(db DBConnection) *ProductRepo {
	return &ProductRepo{db: db}
}

// FindByKey returns one product by key, or nil when absent
func (r *ProductRepo) FindByKey(ctx context.Context, key string) (*model.Product, error) {
	query := `
		FOR p IN product
			FILTER p._key == @key
			LIMIT 1
			RETURN p
	`
	bindVars := map[string]interface{}{"key": key}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}

	var product model.Product
	if _, err := cursor.ReadDocument(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Save upserts one product by key
func (r *ProductRepo) Save(ctx context.Context, product *model.Product) error {
	query := `
		UPSERT { _key: @key }
		INSERT @doc
		UPDATE @doc
		IN product
	`
	bindVars := map[string]interface{}{
		"key": product.Key,
		"doc": product,
	}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}

// SaveScores updates only the recomputed score fields of a product
func (r *ProductRepo) SaveScores(ctx context.Context, productKey string, riskScore, complianceScore int, grade string) error {
	query := `
		UPDATE @key WITH {
			risk_score: @riskScore,
			compliance_score: @complianceScore,
			compliance_grade: @grade,
			updated_at: @updatedAt
		} IN product
	`
	bindVars := map[string]interface{}{
		"key":             productKey,
		"riskScore":       riskScore,
		"complianceScore": complianceScore,
		"grade":           grade,
		"updatedAt":       time.Now(),
	}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}
