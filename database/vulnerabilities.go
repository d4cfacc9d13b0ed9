// Package database - Arango-backed repositories for the vexmgt entities
package database

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/ortelius/vexmgt-backend/model"
	"github.com/ortelius/vexmgt-backend/util"
)

// VulnerabilityRepo persists advisory records in the vulnerability collection
type VulnerabilityRepo struct {
	db DBConnection
}

// NewVulnerabilityRepo creates the repository
func NewVulnerabilityRepo(db DBConnection) *VulnerabilityRepo {
	return &VulnerabilityRepo{db: db}
}

// FindByID returns the record for an advisory ID, or nil when absent
func (r *VulnerabilityRepo) FindByID(ctx context.Context, id string) (*model.Vulnerability, error) {
	query := `
		FOR v IN vulnerability
			FILTER v.id == @id
			LIMIT 1
			RETURN v
	`
	bindVars := map[string]interface{}{"id": id}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}

	var vuln model.Vulnerability
	if _, err := cursor.ReadDocument(ctx, &vuln); err != nil {
		return nil, err
	}
	return &vuln, nil
}

// Save upserts the record keyed by its sanitized advisory ID
func (r *VulnerabilityRepo) Save(ctx context.Context, vuln *model.Vulnerability) error {
	if vuln.Key == "" {
		vuln.Key = util.SanitizeKey(vuln.ID)
	}

	query := `
		UPSERT { _key: @key }
		INSERT @doc
		UPDATE @doc
		IN vulnerability
	`
	bindVars := map[string]interface{}{
		"key": vuln.Key,
		"doc": vuln,
	}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}
