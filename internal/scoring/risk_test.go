package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ortelius/vexmgt-backend/model"
)

func floatPtr(f float64) *float64 { return &f }

func baseProduct() *model.Product {
	product := model.NewProduct("checkout", "acme")
	return product
}

func TestContextMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.Product)
		expected float64
	}{
		{"defaults are neutral", func(_ *model.Product) {}, 1.0},
		{"production", func(p *model.Product) { p.Environment = model.EnvironmentProduction }, 1.5},
		{"staging", func(p *model.Product) { p.Environment = model.EnvironmentStaging }, 1.1},
		{"internet facing", func(p *model.Product) { p.InternetFacing = true }, 1.2},
		{"critical tier", func(p *model.Product) { p.Criticality = model.CriticalityCritical }, 1.3},
		{"high tier", func(p *model.Product) { p.Criticality = model.CriticalityHigh }, 1.1},
		{"low tier", func(p *model.Product) { p.Criticality = model.CriticalityLow }, 0.9},
		{"worst case stacks", func(p *model.Product) {
			p.Environment = model.EnvironmentProduction
			p.InternetFacing = true
			p.Criticality = model.CriticalityCritical
		}, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := baseProduct()
			tt.mutate(product)
			assert.InDelta(t, tt.expected, ContextMultiplier(product), 0.0001)
		})
	}
}

func TestRiskScoreBaseTimesMultiplier(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0001")
	vuln.Severity = model.NumericSeverity(8.0)

	product := baseProduct()
	product.Environment = model.EnvironmentProduction

	// 8.0 * 1.5 = 12.0, scaled to 120, clamped to 100
	assert.Equal(t, 100, RiskScore(vuln, product))

	product = baseProduct()
	// 8.0 * 1.0 = 8.0 -> 80
	assert.Equal(t, 80, RiskScore(vuln, product))
}

func TestRiskScoreKevFloor(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0002")
	vuln.Severity = model.NumericSeverity(2.0)
	vuln.IsKev = true

	// A known-exploited LOW still lands at 90
	assert.Equal(t, 90, RiskScore(vuln, baseProduct()))
}

func TestRiskScoreKevFloorNotAppliedAbove90(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0003")
	vuln.Severity = model.NumericSeverity(9.8)
	vuln.IsKev = true

	// 9.8 * 10 = 98, already past the floor
	assert.Equal(t, 98, RiskScore(vuln, baseProduct()))
}

func TestRiskScoreEpssScaling(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0004")
	vuln.Severity = model.NumericSeverity(4.0)
	vuln.EpssScore = floatPtr(0.5)

	// 4.0 * (1 + 0.5*5) = 14.0, clamped to 100
	assert.Equal(t, 100, RiskScore(vuln, baseProduct()))

	vuln.EpssScore = floatPtr(0.1)
	// 4.0 * 1.5 = 6.0 -> 60
	assert.Equal(t, 60, RiskScore(vuln, baseProduct()))
}

func TestRiskScoreEpssAppliesAfterKevFloor(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0005")
	vuln.Severity = model.NumericSeverity(1.0)
	vuln.IsKev = true
	vuln.EpssScore = floatPtr(0.02)

	// Floor lifts static to 9.0, then 9.0 * 1.1 = 9.9 -> 99
	assert.Equal(t, 99, RiskScore(vuln, baseProduct()))
}

func TestRiskScoreUnknownSeverityIsZero(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0006")

	assert.Equal(t, 0, RiskScore(vuln, baseProduct()))
}

func TestRiskScoreClampedToHundred(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0007")
	vuln.Severity = model.NumericSeverity(10.0)
	vuln.EpssScore = floatPtr(0.97)

	product := baseProduct()
	product.Environment = model.EnvironmentProduction
	product.InternetFacing = true
	product.Criticality = model.CriticalityCritical

	assert.Equal(t, 100, RiskScore(vuln, product))
}

func TestRiskScoreMonotonicInContext(t *testing.T) {
	vuln := model.NewVulnerability("CVE-2024-0008")
	vuln.Severity = model.NumericSeverity(5.0)

	quiet := baseProduct()
	quiet.Criticality = model.CriticalityLow

	loud := baseProduct()
	loud.Environment = model.EnvironmentProduction
	loud.InternetFacing = true

	assert.Less(t, RiskScore(vuln, quiet), RiskScore(vuln, loud))
}
