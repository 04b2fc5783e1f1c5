package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/raphaelgruber/keymap/internal/db"
	"github.com/raphaelgruber/keymap/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory stand-in for the db client, mirroring its
// lookup semantics: ErrNotFound for projects, (nil, nil) for users and
// sessions.
type fakeStore struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	users    map[string]*models.User
	sessions map[string]models.Session

	failSetSchema bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: map[string]*models.Project{},
		users:    map[string]*models.User{},
		sessions: map[string]models.Session{},
	}
}

func (f *fakeStore) CreateProject(_ context.Context, title, userID string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.NewProject(title, userID)
	f.projects[p.ID] = p
	return clone(p), nil
}

func (f *fakeStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("get project %s: %w", id, db.ErrNotFound)
	}
	return clone(p), nil
}

func (f *fakeStore) ListProjectsByUser(_ context.Context, userID string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Project{}
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, *clone(p))
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceProject(_ context.Context, p *models.Project) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[p.ID]; !ok {
		return nil, fmt.Errorf("replace project %s: %w", p.ID, db.ErrNotFound)
	}
	p.UpdatedAt = time.Now().UnixMilli()
	f.projects[p.ID] = clone(p)
	return clone(p), nil
}

func (f *fakeStore) DeleteProject(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return fmt.Errorf("delete project %s: %w", id, db.ErrNotFound)
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeStore) AppendProjectMessage(ctx context.Context, id string, msg models.Message) (*models.Project, error) {
	p, err := f.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Messages = append(p.Messages, msg)
	return f.ReplaceProject(ctx, p)
}

func (f *fakeStore) SetProjectSchema(ctx context.Context, id string, schema models.Schema) (*models.Project, error) {
	if f.failSetSchema {
		return nil, fmt.Errorf("set schema: store unavailable")
	}
	p, err := f.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Schema = &schema
	return f.ReplaceProject(ctx, p)
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("create user: %w", db.ErrAlreadyExists)
		}
	}
	u := *user
	f.users[u.ID] = &u
	return &u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *fakeStore) PutSession(_ context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func clone(p *models.Project) *models.Project {
	out := *p
	out.Messages = append([]models.Message{}, p.Messages...)
	if p.Schema != nil {
		sc := *p.Schema
		sc.Tables = append([]models.SchemaTable{}, p.Schema.Tables...)
		out.Schema = &sc
	}
	return &out
}

// fakeGenerator returns scripted completions.
type fakeGenerator struct {
	schemaCompletion string
	schemaErr        error
	chatReply        string
	chatErr          error

	schemaCalls int
	chatCalls   int
}

func (g *fakeGenerator) SchemaCompletion(context.Context, []models.Message) (string, error) {
	g.schemaCalls++
	if g.schemaErr != nil {
		return "", g.schemaErr
	}
	return g.schemaCompletion, nil
}

func (g *fakeGenerator) ChatReply(context.Context, []models.Message) (string, error) {
	g.chatCalls++
	if g.chatErr != nil {
		return "", g.chatErr
	}
	return g.chatReply, nil
}
