package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ortelius/vexmgt-backend/model"
)

func statementWith(status string, severity model.Severity) model.VexStatement {
	s := model.NewVexStatement("prod-1", "acme", "CVE-2024-1111", "pkg:npm/left-pad")
	s.Status = status
	s.Severity = severity
	return *s
}

func TestComplianceScoreEmptyIsPerfect(t *testing.T) {
	assert.Equal(t, 100, ComplianceScore(nil))
}

func TestComplianceScoreDeductsByTier(t *testing.T) {
	statements := []model.VexStatement{
		statementWith(model.StatusAffected, model.NumericSeverity(9.8)),           // CRITICAL -20
		statementWith(model.StatusUnderInvestigation, model.NumericSeverity(7.5)), // HIGH -10
		statementWith(model.StatusAffected, model.NumericSeverity(5.0)),           // MEDIUM -2
		statementWith(model.StatusAffected, model.NumericSeverity(2.0)),           // LOW, no deduction
	}

	assert.Equal(t, 68, ComplianceScore(statements))
}

func TestComplianceScoreIgnoresResolvedStatements(t *testing.T) {
	statements := []model.VexStatement{
		statementWith(model.StatusNotAffected, model.NumericSeverity(9.8)),
		statementWith(model.StatusFixed, model.NumericSeverity(9.8)),
		statementWith(model.StatusAffected, model.NumericSeverity(9.8)),
	}

	// Only the affected CRITICAL deducts
	assert.Equal(t, 80, ComplianceScore(statements))
}

func TestComplianceScoreUsesNormalizedSeverity(t *testing.T) {
	statements := []model.VexStatement{
		// MODERATE normalizes to 5.5 and deducts as MEDIUM
		statementWith(model.StatusAffected, model.NamedSeverity("MODERATE")),
		// A two-high-impact vector normalizes to 8.5 and deducts as HIGH
		statementWith(model.StatusAffected, model.VectorSeverity("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:N")),
	}

	assert.Equal(t, 88, ComplianceScore(statements))
}

func TestComplianceScoreClampedAtZero(t *testing.T) {
	var statements []model.VexStatement
	for i := 0; i < 8; i++ {
		statements = append(statements, statementWith(model.StatusAffected, model.NumericSeverity(9.5)))
	}

	assert.Equal(t, 0, ComplianceScore(statements))
}

func TestComplianceGradeBoundaries(t *testing.T) {
	assert.Equal(t, "A", ComplianceGrade(100))
	assert.Equal(t, "A", ComplianceGrade(90))
	assert.Equal(t, "B", ComplianceGrade(89))
	assert.Equal(t, "B", ComplianceGrade(80))
	assert.Equal(t, "C", ComplianceGrade(79))
	assert.Equal(t, "C", ComplianceGrade(70))
	assert.Equal(t, "D", ComplianceGrade(69))
	assert.Equal(t, "D", ComplianceGrade(60))
	assert.Equal(t, "F", ComplianceGrade(59))
	assert.Equal(t, "F", ComplianceGrade(0))
}

func TestComplianceGradeForSingleCriticalFinding(t *testing.T) {
	statements := []model.VexStatement{
		statementWith(model.StatusAffected, model.NamedSeverity("CRITICAL")),
	}

	score := ComplianceScore(statements)
	assert.Equal(t, 80, score)
	assert.Equal(t, "B", ComplianceGrade(score))
}
