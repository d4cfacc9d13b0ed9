package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewVexStatementInitialState(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")

	assert.Equal(t, StatusUnderInvestigation, s.Status)
	assert.Equal(t, ReachabilityUnknown, s.Reachability)
	assert.Equal(t, "VexStatement", s.ObjType)
	assert.Equal(t, "acme", s.Org)
}

func TestApplyUpdateRejectsUnknownStatus(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")

	_, err := s.ApplyUpdate(StatementPatch{Status: strPtr("resolved")})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "status", validation.Field)
	assert.Equal(t, StatusUnderInvestigation, s.Status)
}

func TestApplyUpdateRejectsReturnToUnderInvestigation(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")

	_, err := s.ApplyUpdate(StatementPatch{Status: strPtr(StatusAffected)})
	require.NoError(t, err)

	_, err = s.ApplyUpdate(StatementPatch{Status: strPtr(StatusUnderInvestigation)})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, StatusAffected, s.Status)
}

func TestApplyUpdateNotAffectedRequiresJustification(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")

	_, err := s.ApplyUpdate(StatementPatch{Status: strPtr(StatusNotAffected)})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "justification", validation.Field)
	assert.Equal(t, StatusUnderInvestigation, s.Status)
}

func TestApplyUpdateNotAffectedWithJustificationInSamePatch(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")

	changes, err := s.ApplyUpdate(StatementPatch{
		Status:        strPtr(StatusNotAffected),
		Justification: strPtr("vulnerable code path not present"),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusNotAffected, s.Status)
	assert.Len(t, changes, 2)
	assert.Equal(t, StatusUnderInvestigation, changes["status"].Old)
	assert.Equal(t, StatusNotAffected, changes["status"].New)
}

func TestApplyUpdateNotAffectedWithExistingJustification(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")
	s.Justification = "library used only at build time"

	_, err := s.ApplyUpdate(StatementPatch{Status: strPtr(StatusNotAffected)})
	require.NoError(t, err)
	assert.Equal(t, StatusNotAffected, s.Status)
}

func TestApplyUpdateNoOpReturnsEmptyChanges(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")
	_, err := s.ApplyUpdate(StatementPatch{Status: strPtr(StatusAffected)})
	require.NoError(t, err)

	changes, err := s.ApplyUpdate(StatementPatch{Status: strPtr(StatusAffected)})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestApplyUpdateRecordsExpiryChange(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	changes, err := s.ApplyUpdate(StatementPatch{Expiry: &expiry})
	require.NoError(t, err)

	require.Contains(t, changes, "expiry")
	assert.Nil(t, changes["expiry"].Old)
	require.NotNil(t, s.Expiry)
	assert.True(t, s.Expiry.Equal(expiry))
}

func TestApplyUpdateFreeMovementAmongNonInitialStates(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")
	s.Justification = "exploit requires local access"

	for _, status := range []string{StatusAffected, StatusNotAffected, StatusFixed, StatusAffected} {
		_, err := s.ApplyUpdate(StatementPatch{Status: strPtr(status)})
		require.NoError(t, err)
		assert.Equal(t, status, s.Status)
	}
}

func TestActiveRisk(t *testing.T) {
	s := NewVexStatement("prod-1", "acme", "CVE-2024-1234", "pkg:npm/lodash")
	assert.True(t, s.ActiveRisk())

	s.Status = StatusAffected
	assert.True(t, s.ActiveRisk())

	s.Status = StatusNotAffected
	assert.False(t, s.ActiveRisk())

	s.Status = StatusFixed
	assert.False(t, s.ActiveRisk())
}
