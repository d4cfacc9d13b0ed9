// Package advisory correlates SBOM components against vulnerability
// databases and materializes the results as vulnerability records and
// VEX statements.
package advisory

import (
	"context"

	"github.com/ortelius/vexmgt-backend/model"
)

// Source answers batched advisory lookups for package URLs. Keys in the
// result map are the exact purls that were queried; purls with no known
// advisories are simply absent. Implementations must not retry
// internally; callers bound the call with the context.
type Source interface {
	BatchQuery(ctx context.Context, purls []string) (map[string][]model.Vulnerability, error)
}

// VulnerabilityRepo is the narrow persistence surface the correlator
// needs for advisory records
type VulnerabilityRepo interface {
	FindByID(ctx context.Context, id string) (*model.Vulnerability, error)
	Save(ctx context.Context, vuln *model.Vulnerability) error
}
