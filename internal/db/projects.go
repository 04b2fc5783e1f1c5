package db

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// projectRecord is the stored shape of a project. Messages and schema are
// nested documents replaced together with the record.
type projectRecord struct {
	ID        surrealmodels.RecordID `json:"id,omitempty"`
	Title     string                 `json:"title"`
	CreatedAt int64                  `json:"created_at"`
	UpdatedAt int64                  `json:"updated_at"`
	Messages  []models.Message       `json:"messages"`
	Schema    *models.Schema         `json:"schema,omitempty"`
	UserID    string                 `json:"user_id,omitempty"`
}

func (r *projectRecord) toModel() (*models.Project, error) {
	id, err := recordIDString(r.ID)
	if err != nil {
		return nil, err
	}
	p := &models.Project{
		ID:        id,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Messages:  r.Messages,
		Schema:    r.Schema,
		UserID:    r.UserID,
	}
	if p.Messages == nil {
		p.Messages = []models.Message{}
	}
	return p, nil
}

func projectContent(p *models.Project) map[string]any {
	content := map[string]any{
		"title":      p.Title,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
		"messages":   p.Messages,
		"user_id":    p.UserID,
	}
	if p.Schema != nil {
		content["schema"] = p.Schema
	}
	return content
}

// CreateProject stores a new project and returns the stored state.
func (c *Client) CreateProject(ctx context.Context, title, userID string) (*models.Project, error) {
	p := models.NewProject(title, userID)

	results, err := surrealdb.Query[[]projectRecord](ctx, c.db, `
		CREATE type::record("project", $id) CONTENT $content
	`, map[string]any{
		"id":      p.ID,
		"content": projectContent(p),
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create project: empty result")
	}
	return (*results)[0].Result[0].toModel()
}

// GetProject retrieves a project by ID. Returns ErrNotFound if absent.
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	results, err := surrealdb.Query[[]projectRecord](ctx, c.db, `
		SELECT * FROM type::record("project", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get project: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get project %s: %w", id, ErrNotFound)
	}
	return (*results)[0].Result[0].toModel()
}

// ListProjectsByUser returns all projects owned by userID, most recently
// updated first.
func (c *Client) ListProjectsByUser(ctx context.Context, userID string) ([]models.Project, error) {
	results, err := surrealdb.Query[[]projectRecord](ctx, c.db, `
		SELECT * FROM project WHERE user_id = $user_id ORDER BY updated_at DESC
	`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", wrapQueryError(err))
	}

	projects := []models.Project{}
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			p, err := (*results)[0].Result[i].toModel()
			if err != nil {
				return nil, err
			}
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

// ReplaceProject overwrites the whole stored document and refreshes
// updated_at. Last writer wins; there is no version check.
func (c *Client) ReplaceProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	p.UpdatedAt = time.Now().UnixMilli()

	results, err := surrealdb.Query[[]projectRecord](ctx, c.db, `
		UPSERT type::record("project", $id) CONTENT $content
	`, map[string]any{
		"id":      p.ID,
		"content": projectContent(p),
	})
	if err != nil {
		return nil, fmt.Errorf("replace project: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("replace project %s: %w", p.ID, ErrNotFound)
	}
	return (*results)[0].Result[0].toModel()
}

// DeleteProject removes a project. Returns ErrNotFound if absent.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if _, err := c.GetProject(ctx, id); err != nil {
		return err
	}
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE type::record("project", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete project: %w", wrapQueryError(err))
	}
	return nil
}

// AppendProjectMessage appends a message to the transcript and returns the
// updated project.
func (c *Client) AppendProjectMessage(ctx context.Context, id string, msg models.Message) (*models.Project, error) {
	p, err := c.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Messages = append(p.Messages, msg)
	return c.ReplaceProject(ctx, p)
}

// SetProjectSchema replaces the project's schema and returns the updated
// project.
func (c *Client) SetProjectSchema(ctx context.Context, id string, schema models.Schema) (*models.Project, error) {
	p, err := c.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Schema = &schema
	return c.ReplaceProject(ctx, p)
}
