// Package scoring computes per-vulnerability risk scores, per-product
// aggregates, and compliance grades from VEX statements.
package scoring

import (
	"math"

	"github.com/ortelius/vexmgt-backend/model"
)

// ContextMultiplier derives the product-context multiplier applied to
// every base severity score. MEDIUM criticality is neutral.
func ContextMultiplier(product *model.Product) float64 {
	multiplier := 1.0

	switch product.Environment {
	case model.EnvironmentProduction:
		multiplier += 0.5
	case model.EnvironmentStaging:
		multiplier += 0.1
	}

	if product.InternetFacing {
		multiplier += 0.2
	}

	switch product.Criticality {
	case model.CriticalityCritical:
		multiplier += 0.3
	case model.CriticalityHigh:
		multiplier += 0.1
	case model.CriticalityLow:
		multiplier -= 0.1
	}

	return multiplier
}

// RiskScore computes the 0-100 risk score for one vulnerability in the
// context of one product. Order matters: base times multiplier, then the
// known-exploited floor, then EPSS scaling, then rounding and clamping.
func RiskScore(vuln *model.Vulnerability, product *model.Product) int {
	static := vuln.Severity.BaseScore() * ContextMultiplier(product)

	// Known-exploited vulnerabilities never score below 90 before EPSS
	if vuln.IsKev && static*10 < 90 {
		static = 9.0
	}

	if vuln.EpssScore != nil {
		static *= 1 + *vuln.EpssScore*5
	}

	final := int(math.Round(static * 10))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	return final
}
