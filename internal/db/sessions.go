package db

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type sessionRecord struct {
	ID        surrealmodels.RecordID `json:"id,omitempty"`
	UserID    string                 `json:"user_id"`
	CreatedAt int64                  `json:"created_at"`
	ExpiresAt int64                  `json:"expires_at"`
}

func (r *sessionRecord) toModel() (*models.Session, error) {
	id, err := recordIDString(r.ID)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		ID:        id,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}, nil
}

// PutSession stores or overwrites a session.
func (c *Client) PutSession(ctx context.Context, s models.Session) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("session", $id) CONTENT {
			user_id: $user_id,
			created_at: $created_at,
			expires_at: $expires_at
		}
	`, map[string]any{
		"id":         s.ID,
		"user_id":    s.UserID,
		"created_at": s.CreatedAt,
		"expires_at": s.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("put session: %w", wrapQueryError(err))
	}
	return nil
}

// GetSession retrieves a session by ID. Returns nil if not found. Expiry is
// the caller's concern; expired sessions are returned as stored.
func (c *Client) GetSession(ctx context.Context, id string) (*models.Session, error) {
	results, err := surrealdb.Query[[]sessionRecord](ctx, c.db, `
		SELECT * FROM type::record("session", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get session: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return (*results)[0].Result[0].toModel()
}

// DeleteSession removes a session. Deleting an absent session is not an
// error.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE type::record("session", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete session: %w", wrapQueryError(err))
	}
	return nil
}
