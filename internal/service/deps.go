// Package service implements KeyMap's application logic: the per-turn chat
// pipeline, account/session handling and project management. Services
// depend on small interfaces satisfied by the db client and the llm model.
package service

import (
	"context"

	"github.com/raphaelgruber/keymap/internal/models"
)

// ProjectRepository is the project storage boundary. Implementations have
// whole-document semantics: ReplaceProject overwrites the stored record and
// refreshes its update time.
type ProjectRepository interface {
	CreateProject(ctx context.Context, title, userID string) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjectsByUser(ctx context.Context, userID string) ([]models.Project, error)
	ReplaceProject(ctx context.Context, p *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	AppendProjectMessage(ctx context.Context, id string, msg models.Message) (*models.Project, error)
	SetProjectSchema(ctx context.Context, id string, schema models.Schema) (*models.Project, error)
}

// UserRepository stores accounts. Lookups return (nil, nil) when no user
// matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SessionRepository stores login sessions. GetSession returns (nil, nil)
// when no session matches; expiry is checked by the caller.
type SessionRepository interface {
	PutSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// TextGenerator is the generative-AI boundary.
type TextGenerator interface {
	// SchemaCompletion returns a raw completion expected to carry a schema.
	SchemaCompletion(ctx context.Context, history []models.Message) (string, error)
	// ChatReply returns the assistant's conversational answer.
	ChatReply(ctx context.Context, history []models.Message) (string, error)
}
