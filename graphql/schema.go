// Package graphql assembles the root schema from the per-module query
// fields.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/ortelius/vexmgt-backend/database"
	"github.com/ortelius/vexmgt-backend/graphql/modules/statements"
)

var dbConnection database.DBConnection

// InitDB stores the database connection the resolvers run against
func InitDB(db database.DBConnection) {
	dbConnection = db
}

// CreateSchema builds the root query schema. InitDB must be called
// first.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}

	for name, field := range statements.GetQueryFields(dbConnection) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}
