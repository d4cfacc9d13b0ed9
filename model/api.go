// Package model - API types for combining models in API requests/responses
package model

import (
	"encoding/json"
	"time"
)

// IngestRequest carries one SBOM for a product through the pipeline
type IngestRequest struct {
	ProductKey string          `json:"product_key"`
	SBOM       json.RawMessage `json:"sbom"`
	// Optional local path overriding the product's source URL for
	// reachability analysis
	SourcePath string `json:"source_path,omitempty"`
}

// IngestResult summarizes one pipeline run
type IngestResult struct {
	ProductKey        string `json:"product_key"`
	Components        int    `json:"components"`
	Vulnerabilities   int    `json:"vulnerabilities"`
	Signals           int    `json:"signals"`
	StatementsCreated int    `json:"statements_created"`
	ReachabilityRan   bool   `json:"reachability_ran"`
}

// StatementUpdateRequest is the PATCH body for a single statement
type StatementUpdateRequest struct {
	Actor         string     `json:"actor"`
	Status        *string    `json:"status,omitempty"`
	Justification *string    `json:"justification,omitempty"`
	Expiry        *time.Time `json:"expiry,omitempty"`
}

// BulkUpdateRequest applies one patch to many statements
type BulkUpdateRequest struct {
	Actor         string     `json:"actor"`
	StatementKeys []string   `json:"statement_keys"`
	Status        *string    `json:"status,omitempty"`
	Justification *string    `json:"justification,omitempty"`
	Expiry        *time.Time `json:"expiry,omitempty"`
}

// StatementsPage is one page of statement query results
type StatementsPage struct {
	Statements []VexStatement `json:"statements"`
	Total      int            `json:"total"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// ProductRiskResponse reports a product's current scores
type ProductRiskResponse struct {
	ProductKey      string `json:"product_key"`
	RiskScore       int    `json:"risk_score"`
	ComplianceScore int    `json:"compliance_score"`
	ComplianceGrade string `json:"compliance_grade"`
}
