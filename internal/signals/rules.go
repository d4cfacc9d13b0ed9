// Package signals synthesizes advisory records from supply-chain
// heuristics: typosquatting, known-malicious names, and missing SBOM
// provenance.
package signals

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/ortelius/vexmgt-backend/util"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rules holds the curated lists the detectors match against
type Rules struct {
	GoldenPackages     []string `yaml:"golden_packages"`
	MaliciousPackages  []string `yaml:"malicious_packages"`
	SuspiciousKeywords []string `yaml:"suspicious_keywords"`
}

// LoadRules returns the embedded rule lists, or the file named by
// SIGNAL_RULES_PATH when set
func LoadRules() (*Rules, error) {
	raw := defaultRulesYAML

	if path := util.GetEnvDefault("SIGNAL_RULES_PATH", ""); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read signal rules from %s: %w", path, err)
		}
		raw = content
	}

	var rules Rules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse signal rules: %w", err)
	}

	return &rules, nil
}
