package db

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type userRecord struct {
	ID           surrealmodels.RecordID `json:"id,omitempty"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	PasswordHash string                 `json:"password_hash"`
	CreatedAt    int64                  `json:"created_at"`
}

func (r *userRecord) toModel() (*models.User, error) {
	id, err := recordIDString(r.ID)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:           id,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}, nil
}

// CreateUser stores a new user. Returns ErrAlreadyExists when the email is
// taken (unique index).
func (c *Client) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	results, err := surrealdb.Query[[]userRecord](ctx, c.db, `
		CREATE type::record("user", $id) CONTENT {
			name: $name,
			email: $email,
			password_hash: $password_hash,
			created_at: $created_at
		}
	`, map[string]any{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create user: empty result")
	}
	return (*results)[0].Result[0].toModel()
}

// GetUserByEmail retrieves a user by email. Returns nil if not found.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	results, err := surrealdb.Query[[]userRecord](ctx, c.db, `
		SELECT * FROM user WHERE email = $email LIMIT 1
	`, map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return (*results)[0].Result[0].toModel()
}

// GetUserByID retrieves a user by ID. Returns nil if not found.
func (c *Client) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	results, err := surrealdb.Query[[]userRecord](ctx, c.db, `
		SELECT * FROM type::record("user", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return (*results)[0].Result[0].toModel()
}
