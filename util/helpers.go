// Package util provides utility functions for working with Package URLs (PURLs),
// version comparisons for vulnerability checking, and extracting metadata from the environment.
//
//revive:disable-next-line:var-naming
package util

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	npm "github.com/aquasecurity/go-npm-version/pkg"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/google/osv-scanner/pkg/models"
	"github.com/package-url/packageurl-go"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// Contains checks if a string slice contains an item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// CleanPURL removes qualifiers (after ?) but preserves the subpath (after #)
// to maintain module identity (e.g. #v2)
func CleanPURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	// Qualifiers are intentionally omitted to clean the string
	cleaned := packageurl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		Version:   parsed.Version,
		Subpath:   parsed.Subpath,
	}

	return strings.ToLower(cleaned.ToString()), nil
}

// GetBasePURL removes the version component from a PURL to create a base package identifier.
// Used for matching advisory PURLs with SBOM component PURLs.
// Example: pkg:apk/wolfi/glibc@2.42-r4 -> pkg:apk/wolfi/glibc
func GetBasePURL(purlStr string) (string, error) {
	return GetStandardBasePURL(purlStr)
}

// ============================================================================
// CENTRALIZED PURL STANDARDIZATION - SINGLE SOURCE OF TRUTH
// ============================================================================

// EcosystemToPurlType converts OSV ecosystem to PURL type
func EcosystemToPurlType(ecosystem string) string {
	mapping := map[string]string{
		"npm":        "npm",
		"PyPI":       "pypi",
		"Maven":      "maven",
		"Go":         "golang",
		"NuGet":      "nuget",
		"RubyGems":   "gem",
		"crates.io":  "cargo",
		"Packagist":  "composer",
		"Pub":        "pub",
		"CocoaPods":  "cocoapods",
		"Hex":        "hex",
		"Alpine":     "apk",
		"Wolfi":      "apk",
		"Chainguard": "apk",
		"Debian":     "deb",
		"Ubuntu":     "deb",
	}

	// Try exact match first
	if purlType, exists := mapping[ecosystem]; exists {
		return purlType
	}

	// Fallback: try case-insensitive
	for key, value := range mapping {
		if strings.EqualFold(key, ecosystem) {
			return value
		}
	}

	// Last resort: return lowercase ecosystem
	return strings.ToLower(ecosystem)
}

// GetBasePURLFromComponents constructs a standardized base PURL from ecosystem and package name.
// Example: ("Wolfi", "wolfi", "glibc") -> "pkg:apk/wolfi/glibc"
func GetBasePURLFromComponents(ecosystem, namespace, name string) string {
	purlType := EcosystemToPurlType(ecosystem)

	var basePurl string
	if namespace != "" {
		basePurl = fmt.Sprintf("pkg:%s/%s/%s", purlType, namespace, name)
	} else {
		basePurl = fmt.Sprintf("pkg:%s/%s", purlType, name)
	}

	return strings.ToLower(basePurl)
}

// GetStandardBasePURL extracts a standardized base PURL (no version/qualifiers).
// Example: "pkg:apk/wolfi/glibc@2.42-r4" -> "pkg:apk/wolfi/glibc"
func GetStandardBasePURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	// Normalize the ecosystem using our mapping
	normalizedType := EcosystemToPurlType(parsed.Type)

	base := packageurl.PackageURL{
		Type:      normalizedType,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		// Version, Qualifiers, Subpath intentionally omitted
	}

	return strings.ToLower(base.ToString()), nil
}

// ParsePURL parses a PURL string and returns the parsed PackageURL
func ParsePURL(purlStr string) (*packageurl.PackageURL, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// IsVersionAffected checks if a version is affected by OSV ranges
// Uses ecosystem-specific version parsers for accurate comparison
func IsVersionAffected(version string, affected models.Affected) bool {
	// Check specific versions list
	if len(affected.Versions) > 0 {
		for _, v := range affected.Versions {
			if version == v {
				return true
			}
		}
	}

	// Check version ranges
	if len(affected.Ranges) > 0 {
		for _, vrange := range affected.Ranges {
			// Only handle SEMVER and ECOSYSTEM types
			if vrange.Type != models.RangeEcosystem && vrange.Type != models.RangeSemVer {
				continue
			}

			ecosystem := ""
			if affected.Package.Ecosystem != "" {
				ecosystem = string(affected.Package.Ecosystem)
			}

			if isVersionInRange(version, vrange, ecosystem) {
				return true
			}
		}
	}

	return false
}

// isVersionInRange checks if a version falls within an OSV range.
// Requires both a lower and an upper boundary to avoid false positives;
// OSV's "0" introduced value means "from the beginning".
func isVersionInRange(version string, vrange models.Range, ecosystem string) bool {
	// Try ecosystem-specific parsers first
	switch strings.ToLower(ecosystem) {
	case "npm":
		return isVersionInRangeNPM(version, vrange)
	case "pypi":
		return isVersionInRangePython(version, vrange)
	}

	// Fall back to semver parsing with coercion (handles Maven and others)
	v, err := semver.NewVersion(version)
	if err != nil {
		return isVersionInRangeString(version, vrange)
	}

	var introduced, fixed, lastAffected *semver.Version

	for _, event := range vrange.Events {
		if event.Introduced != "" {
			if event.Introduced == "0" {
				introduced = semver.MustParse("0.0.0")
			} else {
				if parsed, err := semver.NewVersion(event.Introduced); err == nil {
					introduced = parsed
				} else {
					log.Printf("WARNING: Failed to parse introduced version '%s': %v", event.Introduced, err)
				}
			}
		}
		if event.Fixed != "" {
			if parsed, err := semver.NewVersion(event.Fixed); err == nil {
				fixed = parsed
			} else {
				log.Printf("WARNING: Failed to parse fixed version '%s': %v", event.Fixed, err)
			}
		}
		if event.LastAffected != "" {
			if parsed, err := semver.NewVersion(event.LastAffected); err == nil {
				lastAffected = parsed
			} else {
				log.Printf("WARNING: Failed to parse last_affected version '%s': %v", event.LastAffected, err)
			}
		}
	}

	hasLowerBound := introduced != nil
	hasUpperBound := fixed != nil || lastAffected != nil

	if !hasLowerBound || !hasUpperBound {
		// Incomplete range data - cannot reliably determine if version is affected
		log.Printf("WARNING: Incomplete range data for version %s (hasLowerBound=%v, hasUpperBound=%v)",
			version, hasLowerBound, hasUpperBound)
		return false
	}

	if v.LessThan(introduced) {
		return false // Version is before the introduced version
	}

	if fixed != nil && !v.LessThan(fixed) {
		return false // Version is at or after the fixed version
	}

	if lastAffected != nil && v.GreaterThan(lastAffected) {
		return false // Version is after the last affected version
	}

	return true
}

// isVersionInRangeNPM uses npm-specific version comparison
func isVersionInRangeNPM(version string, vrange models.Range) bool {
	v, err := npm.NewVersion(version)
	if err != nil {
		return isVersionInRangeString(version, vrange)
	}

	var introduced, fixed, lastAffected npm.Version

	hasIntroduced := false
	hasFixed := false
	hasLastAffected := false

	for _, event := range vrange.Events {
		if event.Introduced != "" {
			if event.Introduced == "0" {
				if intro, err := npm.NewVersion("0.0.0"); err == nil {
					introduced = intro
					hasIntroduced = true
				}
			} else {
				if intro, err := npm.NewVersion(event.Introduced); err == nil {
					introduced = intro
					hasIntroduced = true
				} else {
					log.Printf("WARNING: Failed to parse npm introduced version '%s': %v", event.Introduced, err)
				}
			}
		}
		if event.Fixed != "" {
			if fix, err := npm.NewVersion(event.Fixed); err == nil {
				fixed = fix
				hasFixed = true
			} else {
				log.Printf("WARNING: Failed to parse npm fixed version '%s': %v", event.Fixed, err)
			}
		}
		if event.LastAffected != "" {
			if last, err := npm.NewVersion(event.LastAffected); err == nil {
				lastAffected = last
				hasLastAffected = true
			} else {
				log.Printf("WARNING: Failed to parse npm last_affected version '%s': %v", event.LastAffected, err)
			}
		}
	}

	hasLowerBound := hasIntroduced
	hasUpperBound := hasFixed || hasLastAffected

	if !hasLowerBound || !hasUpperBound {
		log.Printf("WARNING: Incomplete npm range data for version %s (hasLowerBound=%v, hasUpperBound=%v)",
			version, hasLowerBound, hasUpperBound)
		return false
	}

	if hasIntroduced && v.LessThan(introduced) {
		return false
	}

	if hasFixed && !v.LessThan(fixed) {
		return false
	}

	if hasLastAffected && v.GreaterThan(lastAffected) {
		return false
	}

	return true
}

// isVersionInRangePython uses PEP 440 version comparison for Python packages
func isVersionInRangePython(version string, vrange models.Range) bool {
	v, err := pep440.Parse(version)
	if err != nil {
		return isVersionInRangeString(version, vrange)
	}

	var introduced, fixed, lastAffected pep440.Version

	hasIntroduced := false
	hasFixed := false
	hasLastAffected := false

	for _, event := range vrange.Events {
		if event.Introduced != "" {
			if event.Introduced == "0" {
				if intro, err := pep440.Parse("0.0.0"); err == nil {
					introduced = intro
					hasIntroduced = true
				}
			} else {
				if intro, err := pep440.Parse(event.Introduced); err == nil {
					introduced = intro
					hasIntroduced = true
				} else {
					log.Printf("WARNING: Failed to parse python introduced version '%s': %v", event.Introduced, err)
				}
			}
		}
		if event.Fixed != "" {
			if fix, err := pep440.Parse(event.Fixed); err == nil {
				fixed = fix
				hasFixed = true
			} else {
				log.Printf("WARNING: Failed to parse python fixed version '%s': %v", event.Fixed, err)
			}
		}
		if event.LastAffected != "" {
			if last, err := pep440.Parse(event.LastAffected); err == nil {
				lastAffected = last
				hasLastAffected = true
			} else {
				log.Printf("WARNING: Failed to parse python last_affected version '%s': %v", event.LastAffected, err)
			}
		}
	}

	hasLowerBound := hasIntroduced
	hasUpperBound := hasFixed || hasLastAffected

	if !hasLowerBound || !hasUpperBound {
		log.Printf("WARNING: Incomplete python range data for version %s (hasLowerBound=%v, hasUpperBound=%v)",
			version, hasLowerBound, hasUpperBound)
		return false
	}

	if hasIntroduced && v.LessThan(introduced) {
		return false
	}

	if hasFixed && !v.LessThan(fixed) {
		return false
	}

	if hasLastAffected && v.GreaterThan(lastAffected) {
		return false
	}

	return true
}

// isVersionInRangeString performs string-based comparison as fallback
func isVersionInRangeString(version string, vrange models.Range) bool {
	hasIntroduced := false
	hasFixed := false
	hasLastAffected := false

	for _, event := range vrange.Events {
		if event.Introduced != "" {
			hasIntroduced = true
		}
		if event.Fixed != "" {
			hasFixed = true
		}
		if event.LastAffected != "" {
			hasLastAffected = true
		}
	}

	hasLowerBound := hasIntroduced
	hasUpperBound := hasFixed || hasLastAffected

	if !hasLowerBound || !hasUpperBound {
		log.Printf("WARNING: Incomplete range data for string version %s (hasLowerBound=%v, hasUpperBound=%v)",
			version, hasLowerBound, hasUpperBound)
		return false
	}

	for _, event := range vrange.Events {
		// Simple string comparison for non-semver versions
		if event.Introduced != "" {
			if event.Introduced == "0" {
				// "0" means from the beginning, so no lower bound check needed
				continue
			}
			if version < event.Introduced {
				return false
			}
		}
		if event.Fixed != "" {
			if version >= event.Fixed {
				return false
			}
		}
		if event.LastAffected != "" {
			if version > event.LastAffected {
				return false
			}
		}
	}
	return true
}
