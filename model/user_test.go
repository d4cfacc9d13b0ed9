package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserDefaults(t *testing.T) {
	user := NewUser("alice", "editor")

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "editor", user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.Orgs)
	assert.Equal(t, "User", user.ObjType)
}

func TestHasOrgAccess(t *testing.T) {
	scoped := NewUser("alice", "editor")
	scoped.Orgs = []string{"acme", "initech"}

	assert.True(t, scoped.HasOrgAccess("acme"))
	assert.False(t, scoped.HasOrgAccess("globex"))

	// Empty org list means global access
	global := NewUser("root", "admin")
	assert.True(t, global.HasOrgAccess("globex"))
}

func TestGetOrgFilter(t *testing.T) {
	scoped := NewUser("alice", "editor")
	scoped.Orgs = []string{"acme"}
	assert.Equal(t, " AND s.org IN @userOrgs", scoped.GetOrgFilter("s"))

	global := NewUser("root", "admin")
	assert.Empty(t, global.GetOrgFilter("s"))
}

func TestCanWrite(t *testing.T) {
	assert.True(t, NewUser("a", "admin").CanWrite())
	assert.True(t, NewUser("e", "editor").CanWrite())
	assert.False(t, NewUser("v", "viewer").CanWrite())
}
