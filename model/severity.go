// Package model provides data models for the vexmgt system.
package model

import (
	"strings"
)

// SeverityKind discriminates the representations an advisory source may use
// for severity: a plain CVSS number, a CVSS vector string, or a named tier.
type SeverityKind string

const (
	// SeverityKindNumeric is a plain CVSS base score (0-10).
	SeverityKindNumeric SeverityKind = "numeric"
	// SeverityKindNamed is a tier name such as CRITICAL or MODERATE.
	SeverityKindNamed SeverityKind = "named"
	// SeverityKindVector is a CVSS vector string (e.g. "CVSS:3.1/AV:N/...").
	SeverityKindVector SeverityKind = "vector"
	// SeverityKindUnknown is used when the source supplied nothing usable.
	SeverityKindUnknown SeverityKind = "unknown"
)

// Severity is a tagged union over the three severity representations.
// It is never silently coerced; all scoring goes through BaseScore/Tier
// so that risk scoring and compliance grading share one normalization.
type Severity struct {
	Kind     SeverityKind `json:"kind"`
	Score    float64      `json:"score,omitempty"`
	TierName string       `json:"tier,omitempty"`
	Vector   string       `json:"vector,omitempty"`
}

// NumericSeverity creates a Severity from a plain CVSS base score
func NumericSeverity(score float64) Severity {
	return Severity{Kind: SeverityKindNumeric, Score: score}
}

// NamedSeverity creates a Severity from a tier name (case-insensitive)
func NamedSeverity(tier string) Severity {
	return Severity{Kind: SeverityKindNamed, TierName: strings.ToUpper(strings.TrimSpace(tier))}
}

// VectorSeverity creates a Severity from a CVSS vector string
func VectorSeverity(vector string) Severity {
	return Severity{Kind: SeverityKindVector, Vector: vector}
}

// UnknownSeverity creates the zero severity
func UnknownSeverity() Severity {
	return Severity{Kind: SeverityKindUnknown}
}

// namedTierScores maps tier names to approximate base scores on the 0-10 scale
var namedTierScores = map[string]float64{
	"CRITICAL": 9.5,
	"HIGH":     8.0,
	"MEDIUM":   5.5,
	"MODERATE": 5.5,
	"LOW":      2.0,
}

// BaseScore normalizes any severity representation to the 0-10 scale.
// A numeric score is used directly. A CVSS vector is scored heuristically
// by counting how many of the three impact metrics (C/I/A) are High.
// A named tier maps to a fixed approximate value. Anything else scores 0.
func (s Severity) BaseScore() float64 {
	switch s.Kind {
	case SeverityKindNumeric:
		return s.Score
	case SeverityKindVector:
		return vectorImpactScore(s.Vector)
	case SeverityKindNamed:
		return namedTierScores[s.TierName]
	default:
		return 0
	}
}

// vectorImpactScore estimates a base score from the impact portion of a
// CVSS vector without a full parse: 3 High impacts -> 9.8, 2 -> 8.5,
// 1 -> 7.0, none -> 5.0
func vectorImpactScore(vector string) float64 {
	highImpacts := 0
	for _, metric := range []string{"C:H", "I:H", "A:H"} {
		if strings.Contains(vector, metric) {
			highImpacts++
		}
	}

	switch highImpacts {
	case 3:
		return 9.8
	case 2:
		return 8.5
	case 1:
		return 7.0
	default:
		return 5.0
	}
}

// Tier returns the normalized severity rating derived from BaseScore.
// Thresholds match the CVSS qualitative rating scale used throughout
// the database_specific enrichment.
func (s Severity) Tier() string {
	score := s.BaseScore()
	switch {
	case score == 0:
		return "NONE"
	case score < 4.0:
		return "LOW"
	case score < 7.0:
		return "MEDIUM"
	case score < 9.0:
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// Equal reports whether two severities are field-identical
func (s Severity) Equal(other Severity) bool {
	return s == other
}
