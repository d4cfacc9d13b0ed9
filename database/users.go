package database

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/ortelius/vexmgt-backend/model"
)

// UserRepo reads the identity directory
type UserRepo struct {
	db DBConnection
}

// NewUserRepo creates the repository
func NewUserRepo(db DBConnection) *UserRepo {
	return &UserRepo{db: db}
}

// FindByUsername returns one user by username, or nil when absent
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		FOR u IN user
			FILTER u.username == @username
			LIMIT 1
			RETURN u
	`
	bindVars := map[string]interface{}{"username": username}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, nil
	}

	var user model.User
	if _, err := cursor.ReadDocument(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Save upserts one user by key
func (r *UserRepo) Save(ctx context.Context, user *model.User) error {
	query := `
		UPSERT { username: @username }
		INSERT @doc
		UPDATE @doc
		IN user
	`
	bindVars := map[string]interface{}{
		"username": user.Username,
		"doc":      user,
	}

	cursor, err := r.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}
