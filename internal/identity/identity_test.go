package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortelius/vexmgt-backend/model"
)

type memDirectory struct {
	users map[string]*model.User
}

func (m *memDirectory) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return m.users[username], nil
}

func newDirectory() *memDirectory {
	editor := model.NewUser("alice", "editor")
	editor.Orgs = []string{"acme"}

	viewer := model.NewUser("victor", "viewer")
	viewer.Orgs = []string{"acme"}

	admin := model.NewUser("root", "admin")

	inactive := model.NewUser("ghost", "editor")
	inactive.IsActive = false

	return &memDirectory{users: map[string]*model.User{
		"alice":  editor,
		"victor": viewer,
		"root":   admin,
		"ghost":  inactive,
	}}
}

func TestDirectoryResolverEditorInOrg(t *testing.T) {
	resolver := NewDirectoryResolver(newDirectory())

	ok, err := resolver.Authorized(context.Background(), "alice", "acme")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.Authorized(context.Background(), "alice", "globex")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectoryResolverViewerCannotWrite(t *testing.T) {
	resolver := NewDirectoryResolver(newDirectory())

	ok, err := resolver.Authorized(context.Background(), "victor", "acme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectoryResolverAdminHasGlobalAccess(t *testing.T) {
	resolver := NewDirectoryResolver(newDirectory())

	for _, org := range []string{"acme", "globex"} {
		ok, err := resolver.Authorized(context.Background(), "root", org)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestDirectoryResolverUnknownAndInactive(t *testing.T) {
	resolver := NewDirectoryResolver(newDirectory())

	ok, err := resolver.Authorized(context.Background(), "nobody", "acme")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = resolver.Authorized(context.Background(), "ghost", "acme")
	require.NoError(t, err)
	assert.False(t, ok)
}
