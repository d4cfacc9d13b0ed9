package util

import (
	"testing"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "acme-checkout", SanitizeKey("acme checkout"))
	assert.Equal(t, "a-b", SanitizeKey("a/b"))
	assert.Equal(t, "CVE-2024-1234", SanitizeKey(" CVE-2024-1234 "))
	assert.Equal(t, "pkg", SanitizeKey("[pkg]"))
}

func TestCleanPURLStripsQualifiers(t *testing.T) {
	cleaned, err := CleanPURL("pkg:pypi/urllib3@1.26.0?extension=tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "pkg:pypi/urllib3@1.26.0", cleaned)
}

func TestGetBasePURLStripsVersion(t *testing.T) {
	base, err := GetBasePURL("pkg:npm/express@4.18.2")
	require.NoError(t, err)
	assert.Equal(t, "pkg:npm/express", base)

	base, err = GetBasePURL("pkg:apk/wolfi/glibc@2.42-r4")
	require.NoError(t, err)
	assert.Equal(t, "pkg:apk/wolfi/glibc", base)
}

func TestEcosystemToPurlType(t *testing.T) {
	assert.Equal(t, "npm", EcosystemToPurlType("npm"))
	assert.Equal(t, "pypi", EcosystemToPurlType("PyPI"))
	assert.Equal(t, "apk", EcosystemToPurlType("Wolfi"))
	assert.Equal(t, "apk", EcosystemToPurlType("Chainguard"))
	assert.Equal(t, "golang", EcosystemToPurlType("Go"))
	// Case-insensitive fallback
	assert.Equal(t, "pypi", EcosystemToPurlType("pypi"))
	// Unknown ecosystems pass through lowercased
	assert.Equal(t, "custom", EcosystemToPurlType("Custom"))
}

func TestIsVersionAffectedExplicitVersions(t *testing.T) {
	affected := models.Affected{
		Versions: []string{"1.2.3", "1.2.4"},
	}

	assert.True(t, IsVersionAffected("1.2.3", affected))
	assert.False(t, IsVersionAffected("1.2.5", affected))
}

func TestIsVersionAffectedSemverRange(t *testing.T) {
	affected := models.Affected{
		Ranges: []models.Range{{
			Type: models.RangeSemVer,
			Events: []models.Event{
				{Introduced: "0"},
				{Fixed: "2.0.0"},
			},
		}},
	}

	assert.True(t, IsVersionAffected("1.5.0", affected))
	assert.False(t, IsVersionAffected("2.0.0", affected))
	assert.False(t, IsVersionAffected("2.1.0", affected))
}

func TestIsVersionAffectedRequiresBothBounds(t *testing.T) {
	// A range with only an introduced event cannot be evaluated reliably
	affected := models.Affected{
		Ranges: []models.Range{{
			Type: models.RangeSemVer,
			Events: []models.Event{
				{Introduced: "1.0.0"},
			},
		}},
	}

	assert.False(t, IsVersionAffected("1.5.0", affected))
}

func TestIsVersionAffectedAny(t *testing.T) {
	allAffected := []models.Affected{
		{Versions: []string{"1.0.0"}},
		{Versions: []string{"2.0.0", "2.0.1"}},
	}

	assert.True(t, IsVersionAffectedAny("2.0.1", allAffected))
	assert.False(t, IsVersionAffectedAny("3.0.0", allAffected))
	assert.False(t, IsVersionAffectedAny("3.0.0", nil))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
	assert.True(t, IsNotEmpty("x"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "a"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains(nil, "a"))
}
