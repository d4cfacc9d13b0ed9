// Package statements defines the GraphQL queries for VEX statements.
package statements

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/vexmgt-backend/database"
)

// GetQueryFields returns the statement queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Paged statement listing with optional filters
		"statements": &graphql.Field{
			Type: StatementsPageType,
			Args: graphql.FieldConfigArgument{
				"product_key": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				"org":         &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				"status":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				"offset":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				productKey := p.Args["product_key"].(string)
				org := p.Args["org"].(string)
				status := p.Args["status"].(string)
				limit := p.Args["limit"].(int)
				offset := p.Args["offset"].(int)
				return ResolveStatements(db, productKey, org, status, limit, offset)
			},
		},
		// Current risk and compliance scores of one product
		"productRisk": &graphql.Field{
			Type: ProductRiskType,
			Args: graphql.FieldConfigArgument{
				"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				key := p.Args["key"].(string)
				return ResolveProductRisk(db, key)
			},
		},
		// Full audit history of one statement, oldest first
		"auditTrail": &graphql.Field{
			Type: graphql.NewList(AuditEntryType),
			Args: graphql.FieldConfigArgument{
				"statement_key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				key := p.Args["statement_key"].(string)
				return ResolveAuditTrail(db, key)
			},
		},
		// Statement counts per status for one product
		"statusBreakdown": &graphql.Field{
			Type: graphql.NewList(StatusBreakdownType),
			Args: graphql.FieldConfigArgument{
				"product_key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				productKey := p.Args["product_key"].(string)
				return ResolveStatusBreakdown(db, productKey)
			},
		},
	}
}
