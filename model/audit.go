// Package model - append-only audit trail for statement changes
package model

import (
	"time"

	"github.com/google/uuid"
)

// FieldChange records one field's old and new value inside an audit entry
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// AuditEntry is one append-only record of who changed a statement, what
// operation drove the change, and the per-field diff. Entries are never
// updated or deleted.
type AuditEntry struct {
	Key          string                 `json:"_key,omitempty"`
	EntryID      string                 `json:"entry_id"`
	StatementKey string                 `json:"statement_key"`
	Actor        string                 `json:"actor"`  // username, or "system" for automated transitions
	Action       string                 `json:"action"` // updated, bulk_updated, reachability
	Changes      map[string]FieldChange `json:"changes"`
	Detail       string                 `json:"detail,omitempty"` // free-text context for the change
	ObjType      string                 `json:"objtype"`
	CreatedAt    time.Time              `json:"created_at"`
}

// NewAuditEntry creates an audit entry for a set of observed changes
func NewAuditEntry(statementKey, actor, action string, changes map[string]FieldChange, detail string) *AuditEntry {
	return &AuditEntry{
		EntryID:      uuid.New().String(),
		StatementKey: statementKey,
		Actor:        actor,
		Action:       action,
		Changes:      changes,
		Detail:       detail,
		ObjType:      "AuditEntry",
		CreatedAt:    time.Now(),
	}
}
