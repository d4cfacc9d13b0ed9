package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseScoreNumeric(t *testing.T) {
	assert.Equal(t, 7.5, NumericSeverity(7.5).BaseScore())
	assert.Equal(t, 0.0, NumericSeverity(0).BaseScore())
}

func TestBaseScoreVectorImpactCounts(t *testing.T) {
	tests := []struct {
		name     string
		vector   string
		expected float64
	}{
		{"three high impacts", "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8},
		{"two high impacts", "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:N", 8.5},
		{"one high impact", "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:L/A:N", 7.0},
		{"no high impacts", "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:L/I:L/A:N", 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VectorSeverity(tt.vector).BaseScore())
		})
	}
}

func TestBaseScoreNamedTiers(t *testing.T) {
	assert.Equal(t, 9.5, NamedSeverity("CRITICAL").BaseScore())
	assert.Equal(t, 8.0, NamedSeverity("HIGH").BaseScore())
	assert.Equal(t, 5.5, NamedSeverity("MEDIUM").BaseScore())
	assert.Equal(t, 5.5, NamedSeverity("MODERATE").BaseScore())
	assert.Equal(t, 2.0, NamedSeverity("LOW").BaseScore())

	// Tier names are normalized on construction
	assert.Equal(t, 8.0, NamedSeverity("  high ").BaseScore())

	// Unrecognized tiers score zero
	assert.Equal(t, 0.0, NamedSeverity("SEVERE").BaseScore())
}

func TestBaseScoreUnknown(t *testing.T) {
	assert.Equal(t, 0.0, UnknownSeverity().BaseScore())
}

func TestTierThresholds(t *testing.T) {
	assert.Equal(t, "NONE", UnknownSeverity().Tier())
	assert.Equal(t, "LOW", NumericSeverity(3.9).Tier())
	assert.Equal(t, "MEDIUM", NumericSeverity(4.0).Tier())
	assert.Equal(t, "MEDIUM", NumericSeverity(6.9).Tier())
	assert.Equal(t, "HIGH", NumericSeverity(7.0).Tier())
	assert.Equal(t, "HIGH", NumericSeverity(8.9).Tier())
	assert.Equal(t, "CRITICAL", NumericSeverity(9.0).Tier())
	assert.Equal(t, "CRITICAL", NumericSeverity(10.0).Tier())
}

func TestNamedSeverityWireFormat(t *testing.T) {
	severity := NamedSeverity("high")
	assert.Equal(t, "HIGH", severity.TierName)

	raw, err := json.Marshal(severity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"named","tier":"HIGH"}`, string(raw))

	var decoded Severity
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "HIGH", decoded.Tier())
}

func TestTierFollowsNormalizedScore(t *testing.T) {
	// A MODERATE tier normalizes to 5.5 and therefore grades as MEDIUM
	assert.Equal(t, "MEDIUM", NamedSeverity("MODERATE").Tier())

	// A full-impact vector normalizes to 9.8 and grades as CRITICAL
	assert.Equal(t, "CRITICAL", VectorSeverity("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H").Tier())
}
