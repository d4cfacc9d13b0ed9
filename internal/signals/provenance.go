package signals

import (
	"fmt"

	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/model"
)

// detectProvenance emits one project-wide finding when the SBOM carries
// no document-level signature. The finding is component-less; its
// statement attaches to the product rather than any single package.
func detectProvenance(doc *sbom.Document, productKey string) []Finding {
	if doc.Signed {
		return nil
	}

	return []Finding{{
		ID:      findingID(KindProvenance, productKey, "unsigned-sbom"),
		Kind:    KindProvenance,
		Summary: "SBOM is not signed",
		Details: fmt.Sprintf("The SBOM ingested for product %s carries no document-level signature, "+
			"so its contents cannot be attributed to a publisher.", productKey),
		Severity: model.NamedSeverity("MEDIUM"),
	}}
}
