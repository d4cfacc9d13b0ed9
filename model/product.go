// Package model - products and their deployment context
package model

import "time"

// Environment values recognized by the risk multiplier
const (
	EnvironmentProduction = "production"
	EnvironmentStaging    = "staging"
)

// Business criticality tiers recognized by the risk multiplier
const (
	CriticalityCritical = "CRITICAL"
	CriticalityHigh     = "HIGH"
	CriticalityMedium   = "MEDIUM"
	CriticalityLow      = "LOW"
)

// Product represents one deployable unit whose SBOMs are ingested and
// whose statements are graded. The context fields feed the risk
// multiplier; the score fields are recomputed on every statement change.
type Product struct {
	Key  string `json:"_key,omitempty"`
	Name string `json:"name"`
	Org  string `json:"org"`

	Environment    string `json:"environment"` // production, staging, or other
	Criticality    string `json:"criticality"` // CRITICAL, HIGH, MEDIUM, LOW
	InternetFacing bool   `json:"internet_facing"`

	// Optional source location for reachability analysis, either a
	// local path or a clonable git URL
	SourceURL string `json:"source_url,omitempty"`

	ComplianceScore int    `json:"compliance_score"`
	ComplianceGrade string `json:"compliance_grade,omitempty"`
	RiskScore       int    `json:"risk_score"`

	ObjType   string    `json:"objtype"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProduct creates a product with default values
func NewProduct(name, org string) *Product {
	now := time.Now()
	return &Product{
		Name:        name,
		Org:         org,
		Criticality: CriticalityMedium,
		ObjType:     "Product",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
