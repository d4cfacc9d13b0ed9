// Package identity answers org-membership questions for statement
// authorization. The directory itself is maintained by an external
// identity system.
package identity

import (
	"context"

	"github.com/ortelius/vexmgt-backend/model"
)

// Resolver reports whether an actor may act on resources of an org
type Resolver interface {
	Authorized(ctx context.Context, actor, org string) (bool, error)
}

// UserRepo is the directory lookup the default resolver needs
type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// DirectoryResolver resolves membership from the local user directory.
// Unknown or inactive users are never authorized; statement changes
// additionally require a writing role. A user with an empty org list
// has global access.
type DirectoryResolver struct {
	users UserRepo
}

// NewDirectoryResolver creates a resolver backed by the user directory
func NewDirectoryResolver(users UserRepo) *DirectoryResolver {
	return &DirectoryResolver{users: users}
}

// Authorized implements Resolver
func (r *DirectoryResolver) Authorized(ctx context.Context, actor, org string) (bool, error) {
	user, err := r.users.FindByUsername(ctx, actor)
	if err != nil {
		return false, err
	}
	if user == nil || !user.IsActive {
		return false, nil
	}
	if !user.CanWrite() {
		return false, nil
	}
	return user.HasOrgAccess(org), nil
}
