// Package model - VEX statement lifecycle for exploitability dispositions
package model

import (
	"time"
)

// VEX statement statuses. UnderInvestigation is the only initial state;
// once a statement leaves it, it moves freely among the other three and
// never returns.
const (
	StatusUnderInvestigation = "under_investigation"
	StatusAffected           = "affected"
	StatusNotAffected        = "not_affected"
	StatusFixed              = "fixed"
)

// Reachability classifications produced by static import analysis
const (
	ReachabilityUnknown    = "unknown"
	ReachabilityDirect     = "direct"
	ReachabilityTransitive = "transitive"
	ReachabilityNoEvidence = "no_evidence"
)

// ValidStatus reports whether s is a known statement status
func ValidStatus(s string) bool {
	switch s {
	case StatusUnderInvestigation, StatusAffected, StatusNotAffected, StatusFixed:
		return true
	}
	return false
}

// VexStatement records one exploitability disposition for a
// (product, vulnerability, component) triple. Exactly one statement
// exists per triple; statements are updated in place and never deleted.
type VexStatement struct {
	Key           string `json:"_key,omitempty"`
	ProductKey    string `json:"product_key"`
	Org           string `json:"org"` // denormalized from the product for scoped queries
	VulnID        string `json:"vuln_id"`
	ComponentPurl string `json:"component_purl"` // base purl, empty for project-wide findings

	Status           string     `json:"status"`
	Justification    string     `json:"justification,omitempty"`
	ImpactEvaluation string     `json:"impact_evaluation,omitempty"`
	Expiry           *time.Time `json:"expiry,omitempty"`

	// Severity is denormalized from the vulnerability record so grading
	// can run from statements alone
	Severity Severity `json:"severity"`

	Reachability  string     `json:"reachability,omitempty"`
	EvidenceFiles []string   `json:"evidence_files,omitempty"`
	RiskScore     int        `json:"risk_score"`
	LastScoredAt  *time.Time `json:"last_scored_at,omitempty"`

	ObjType   string    `json:"objtype"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewVexStatement creates a statement in the initial state
func NewVexStatement(productKey, org, vulnID, componentPurl string) *VexStatement {
	now := time.Now()
	return &VexStatement{
		ProductKey:    productKey,
		Org:           org,
		VulnID:        vulnID,
		ComponentPurl: componentPurl,
		Status:        StatusUnderInvestigation,
		Reachability:  ReachabilityUnknown,
		ObjType:       "VexStatement",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// StatementPatch carries the caller-mutable statement fields. Nil means
// leave the field unchanged.
type StatementPatch struct {
	Status        *string    `json:"status,omitempty"`
	Justification *string    `json:"justification,omitempty"`
	Expiry        *time.Time `json:"expiry,omitempty"`
}

// ApplyUpdate applies a patch to the statement, enforcing the lifecycle
// rules, and returns the per-field changes that were actually observed.
// An empty change map means the patch was a no-op.
func (s *VexStatement) ApplyUpdate(patch StatementPatch) (map[string]FieldChange, error) {
	if patch.Status != nil {
		if !ValidStatus(*patch.Status) {
			return nil, NewValidationError("status", "unknown status "+*patch.Status)
		}
		if *patch.Status == StatusUnderInvestigation && s.Status != StatusUnderInvestigation {
			return nil, NewValidationError("status", "cannot return to under_investigation")
		}
	}

	// not_affected requires a justification, either already on the
	// statement or supplied in the same patch
	targetStatus := s.Status
	if patch.Status != nil {
		targetStatus = *patch.Status
	}
	targetJustification := s.Justification
	if patch.Justification != nil {
		targetJustification = *patch.Justification
	}
	if targetStatus == StatusNotAffected && targetJustification == "" {
		return nil, NewValidationError("justification", "not_affected requires a justification")
	}

	changes := map[string]FieldChange{}

	if patch.Status != nil && *patch.Status != s.Status {
		changes["status"] = FieldChange{Old: s.Status, New: *patch.Status}
		s.Status = *patch.Status
	}
	if patch.Justification != nil && *patch.Justification != s.Justification {
		changes["justification"] = FieldChange{Old: s.Justification, New: *patch.Justification}
		s.Justification = *patch.Justification
	}
	if patch.Expiry != nil && !timePtrEqual(patch.Expiry, s.Expiry) {
		changes["expiry"] = FieldChange{Old: s.Expiry, New: patch.Expiry}
		s.Expiry = patch.Expiry
	}

	if len(changes) > 0 {
		s.UpdatedAt = time.Now()
	}

	return changes, nil
}

// ActiveRisk reports whether the statement still counts against the
// product's compliance score
func (s *VexStatement) ActiveRisk() bool {
	return s.Status != StatusNotAffected && s.Status != StatusFixed
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
