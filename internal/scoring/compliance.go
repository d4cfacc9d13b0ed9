package scoring

import (
	"github.com/ortelius/vexmgt-backend/model"
)

// ComplianceScore grades a product from its statements. Statements whose
// status is not_affected or fixed carry no active risk and are excluded;
// the rest deduct by normalized severity tier from a starting score of
// 100, clamped at 0.
func ComplianceScore(statements []model.VexStatement) int {
	score := 100

	for _, statement := range statements {
		if !statement.ActiveRisk() {
			continue
		}

		switch statement.Severity.Tier() {
		case "CRITICAL":
			score -= 20
		case "HIGH":
			score -= 10
		case "MEDIUM":
			score -= 2
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

// ComplianceGrade maps a compliance score to its letter grade
func ComplianceGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
