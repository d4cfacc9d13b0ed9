// Package model provides data models for the vexmgt system.
package model

import (
	"reflect"
	"time"
)

// Vulnerability represents one advisory record, keyed by its globally
// unique advisory ID. Records are created by the correlator or a signal
// detector, never deleted, and updated only by re-ingestion of the same
// advisory ID (idempotent upsert).
type Vulnerability struct {
	Key     string `json:"_key,omitempty"`
	ID      string `json:"id"` // advisory ID, e.g. "GHSA-...", "CVE-...", "SIG-TYPO-..."
	Summary string `json:"summary,omitempty"`
	Details string `json:"details,omitempty"`

	Severity Severity `json:"severity"`

	Aliases    []string `json:"aliases,omitempty"`
	References []string `json:"references,omitempty"`

	EpssScore      *float64 `json:"epss_score,omitempty"`
	EpssPercentile *float64 `json:"epss_percentile,omitempty"`
	IsKev          bool     `json:"is_kev"`

	HasFix  bool    `json:"has_fix"`
	FixedIn *string `json:"fixed_in,omitempty"`

	// Display enrichment computed at ingestion time from a CVSS vector
	// severity (never consulted by the risk engine)
	CvssBaseScore  float64 `json:"cvss_base_score,omitempty"`
	SeverityRating string  `json:"severity_rating,omitempty"`

	Modified time.Time `json:"modified"`
	ObjType  string    `json:"objtype"`
}

// NewVulnerability creates a vulnerability record with default values
func NewVulnerability(id string) *Vulnerability {
	return &Vulnerability{
		ID:       id,
		Severity: UnknownSeverity(),
		ObjType:  "Vulnerability",
	}
}

// Equal reports whether two records carry identical advisory content.
// Database bookkeeping (_key) is ignored so re-ingestion of an unchanged
// advisory can skip the external write.
func (v *Vulnerability) Equal(other *Vulnerability) bool {
	if other == nil {
		return false
	}
	a := *v
	b := *other
	a.Key = ""
	b.Key = ""
	return reflect.DeepEqual(a, b)
}
