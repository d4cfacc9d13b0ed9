package signals

import (
	"fmt"
	"strings"

	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/model"
)

// detectMalicious flags components on the known-malicious list (CRITICAL)
// or whose name/description contains a suspicious keyword (HIGH). The
// first rule that matches wins per component.
func detectMalicious(components []sbom.Component, rules *Rules) []Finding {
	var findings []Finding

	for _, comp := range components {
		if comp.Name == "" {
			continue
		}

		if finding, ok := matchMalicious(comp, rules); ok {
			findings = append(findings, finding)
		}
	}

	return findings
}

func matchMalicious(comp sbom.Component, rules *Rules) (Finding, bool) {
	for _, name := range rules.MaliciousPackages {
		if comp.Name == name {
			return Finding{
				ID:      findingID(KindMalicious, comp.Name, name),
				Kind:    KindMalicious,
				Summary: fmt.Sprintf("Known malicious package: %s", comp.Name),
				Details: fmt.Sprintf("Component %q matches the known-malicious package list. "+
					"Remove it and audit anything that depended on it.", comp.Name),
				Severity:      model.NamedSeverity("CRITICAL"),
				ComponentName: comp.Name,
				ComponentPurl: comp.Purl,
				Target:        name,
			}, true
		}
	}

	haystack := strings.ToLower(comp.Name + " " + comp.Description)
	for _, keyword := range rules.SuspiciousKeywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return Finding{
				ID:      findingID(KindMalicious, comp.Name, keyword),
				Kind:    KindMalicious,
				Summary: fmt.Sprintf("Suspicious package signal: %s", comp.Name),
				Details: fmt.Sprintf("Component %q matches the suspicious keyword %q in its name or description.",
					comp.Name, keyword),
				Severity:      model.NamedSeverity("HIGH"),
				ComponentName: comp.Name,
				ComponentPurl: comp.Purl,
				Target:        keyword,
			}, true
		}
	}

	return Finding{}, false
}
