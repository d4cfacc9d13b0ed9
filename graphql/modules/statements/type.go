// Package statements defines the GraphQL types for VEX statement
// queries.
package statements

import (
	"github.com/graphql-go/graphql"
)

// VexStatementType represents one statement row
var VexStatementType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VexStatement",
	Fields: graphql.Fields{
		"key":            &graphql.Field{Type: graphql.String},
		"product_key":    &graphql.Field{Type: graphql.String},
		"org":            &graphql.Field{Type: graphql.String},
		"vuln_id":        &graphql.Field{Type: graphql.String},
		"component_purl": &graphql.Field{Type: graphql.String},
		"status":         &graphql.Field{Type: graphql.String},
		"justification":  &graphql.Field{Type: graphql.String},
		"reachability":   &graphql.Field{Type: graphql.String},
		"risk_score":     &graphql.Field{Type: graphql.Int},
		"created_at":     &graphql.Field{Type: graphql.String},
		"updated_at":     &graphql.Field{Type: graphql.String},
	},
})

// StatementsPageType represents one page of statement results
var StatementsPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StatementsPage",
	Fields: graphql.Fields{
		"statements": &graphql.Field{Type: graphql.NewList(VexStatementType)},
		"total":      &graphql.Field{Type: graphql.Int},
		"limit":      &graphql.Field{Type: graphql.Int},
		"offset":     &graphql.Field{Type: graphql.Int},
	},
})

// ProductRiskType represents a product's current scores
var ProductRiskType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductRisk",
	Fields: graphql.Fields{
		"product_key":      &graphql.Field{Type: graphql.String},
		"name":             &graphql.Field{Type: graphql.String},
		"org":              &graphql.Field{Type: graphql.String},
		"risk_score":       &graphql.Field{Type: graphql.Int},
		"compliance_score": &graphql.Field{Type: graphql.Int},
		"compliance_grade": &graphql.Field{Type: graphql.String},
	},
})

// FieldChangeType represents one audited field transition
var FieldChangeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FieldChange",
	Fields: graphql.Fields{
		"field": &graphql.Field{Type: graphql.String},
		"old":   &graphql.Field{Type: graphql.String},
		"new":   &graphql.Field{Type: graphql.String},
	},
})

// AuditEntryType represents one audit trail entry
var AuditEntryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuditEntry",
	Fields: graphql.Fields{
		"entry_id":      &graphql.Field{Type: graphql.String},
		"statement_key": &graphql.Field{Type: graphql.String},
		"actor":         &graphql.Field{Type: graphql.String},
		"action":        &graphql.Field{Type: graphql.String},
		"detail":        &graphql.Field{Type: graphql.String},
		"created_at":    &graphql.Field{Type: graphql.String},
		"changes":       &graphql.Field{Type: graphql.NewList(FieldChangeType)},
	},
})

// StatusBreakdownType represents per-status statement counts for one
// product
var StatusBreakdownType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StatusBreakdown",
	Fields: graphql.Fields{
		"status": &graphql.Field{Type: graphql.String},
		"count":  &graphql.Field{Type: graphql.Int},
	},
})
