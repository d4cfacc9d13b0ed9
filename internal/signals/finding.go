package signals

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ortelius/vexmgt-backend/model"
)

// Signal kinds, used both in finding IDs and summaries
const (
	KindTyposquat  = "TYPO"
	KindMalicious  = "MAL"
	KindProvenance = "PROV"
)

// Finding is one synthetic advisory produced by a detector
type Finding struct {
	ID            string
	Kind          string
	Summary       string
	Details       string
	Severity      model.Severity
	ComponentName string
	// ComponentPurl is empty for project-wide findings (provenance)
	ComponentPurl string
	// Target names the golden package or rule that matched
	Target string
}

// findingID derives a deterministic advisory ID from the finding
// content, so re-ingesting the same SBOM never duplicates records
func findingID(kind, subject, target string) string {
	sum := sha256.Sum256([]byte(kind + "|" + subject + "|" + target))
	return fmt.Sprintf("SIG-%s-%s", kind, hex.EncodeToString(sum[:])[:12])
}

// Vulnerability converts the finding into a persistable advisory record
func (f Finding) Vulnerability() *model.Vulnerability {
	vuln := model.NewVulnerability(f.ID)
	vuln.Summary = f.Summary
	vuln.Details = f.Details
	vuln.Severity = f.Severity
	return vuln
}
