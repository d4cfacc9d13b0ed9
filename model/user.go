// Package model provides data models for the vexmgt system.
package model

import (
	"time"
)

// User represents an identity directory record. The directory is
// maintained by an external identity system; this service only reads it
// to answer org-membership questions.
type User struct {
	Key       string    `json:"_key,omitempty"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"` // admin, editor, viewer
	Orgs      []string  `json:"orgs"` // orgs the user can act on
	IsActive  bool      `json:"is_active"`
	ObjType   string    `json:"objtype"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new user with default values
func NewUser(username, role string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Role:      role,
		Orgs:      []string{}, // empty = global access
		IsActive:  true,
		ObjType:   "User",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasOrgAccess checks if user has access to a specific org
func (u *User) HasOrgAccess(org string) bool {
	// Empty orgs = global access
	if len(u.Orgs) == 0 {
		return true
	}

	for _, userOrg := range u.Orgs {
		if userOrg == org {
			return true
		}
	}

	return false
}

// GetOrgFilter returns AQL filter clause for org-scoped queries.
// alias is the document alias in the AQL query (e.g., "s" for
// "FOR s IN vex_statement").
func (u *User) GetOrgFilter(alias string) string {
	// No orgs = global access, no filter needed
	if len(u.Orgs) == 0 {
		return ""
	}

	return " AND " + alias + ".org IN @userOrgs"
}

// CanWrite returns true if user can change statements
func (u *User) CanWrite() bool {
	return u.Role == "admin" || u.Role == "editor"
}
