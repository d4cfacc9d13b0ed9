package reachability

import (
	"github.com/ortelius/vexmgt-backend/model"
)

// NoEvidenceJustification is the system justification attached when a
// statement is auto-resolved by the reachability policy
const NoEvidenceJustification = "component not imported in source code"

// ApplyPolicy records the reachability verdict on the statement and, when
// the component has no evidence and the statement is still under
// investigation, auto-transitions it to not_affected. This is the only
// place reachability mutates disposition; the returned changes feed the
// audit trail.
func ApplyPolicy(statement *model.VexStatement, c Classification) (map[string]model.FieldChange, error) {
	statement.Reachability = c.Status
	statement.EvidenceFiles = c.Evidence

	if c.Status == model.ReachabilityNoEvidence && statement.Status == model.StatusUnderInvestigation {
		status := model.StatusNotAffected
		justification := NoEvidenceJustification
		return statement.ApplyUpdate(model.StatementPatch{
			Status:        &status,
			Justification: &justification,
		})
	}

	return map[string]model.FieldChange{}, nil
}
