package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/keymap/internal/db"
	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/raphaelgruber/keymap/internal/schema"
)

var (
	// ErrProjectNotFound indicates the project ID matches no stored project.
	ErrProjectNotFound = errors.New("project not found")

	// ErrForbidden indicates the requester does not own the project.
	ErrForbidden = errors.New("no permission for this project")

	// ErrNoSchema indicates an export was requested before any schema was
	// generated.
	ErrNoSchema = errors.New("project has no schema")
)

// ProjectService manages projects: CRUD with ownership checks, the
// read-only share view and schema export.
type ProjectService struct {
	projects ProjectRepository
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(projects ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{projects: projects, logger: logger}
}

// List returns the requester's projects, most recently updated first.
func (s *ProjectService) List(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projects.ListProjectsByUser(ctx, userID)
}

// Create starts a new project. userID may be empty for anonymous projects.
func (s *ProjectService) Create(ctx context.Context, title, userID string) (*models.Project, error) {
	project, err := s.projects.CreateProject(ctx, title, userID)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.logger.Info("project created", "project", project.ID, "user", userID)
	return project, nil
}

// Get loads a project the requester may access.
func (s *ProjectService) Get(ctx context.Context, id, requesterID string) (*models.Project, error) {
	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.OwnedBy(requesterID) {
		return nil, ErrForbidden
	}
	return project, nil
}

// ProjectUpdate carries the mutable project attributes. Nil fields are left
// unchanged.
type ProjectUpdate struct {
	Title *string `json:"title"`
}

// Update applies a partial update and returns the stored result.
func (s *ProjectService) Update(ctx context.Context, id, requesterID string, update ProjectUpdate) (*models.Project, error) {
	project, err := s.Get(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil && *update.Title != "" {
		project.Title = *update.Title
	}

	updated, err := s.projects.ReplaceProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

// Delete removes a project the requester owns.
func (s *ProjectService) Delete(ctx context.Context, id, requesterID string) error {
	if _, err := s.Get(ctx, id, requesterID); err != nil {
		return err
	}
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	s.logger.Info("project deleted", "project", id)
	return nil
}

// ShareView is the read-only payload behind a share link: no transcript, no
// owner, just the schema plus the edges to draw.
type ShareView struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Schema        *models.Schema        `json:"schema,omitempty"`
	Relationships []schema.Relationship `json:"relationships"`
}

// View builds the share payload. No ownership check: share links are
// accessible to anyone holding the project ID.
func (s *ProjectService) View(ctx context.Context, id string) (*ShareView, error) {
	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &ShareView{
		ID:            project.ID,
		Title:         project.Title,
		Schema:        project.Schema,
		Relationships: []schema.Relationship{},
	}
	if project.Schema != nil {
		view.Relationships = schema.InferRelationships(*project.Schema)
	}
	return view, nil
}

// Export returns the schema code as a downloadable file: the suggested
// filename and the newline-normalized code.
func (s *ProjectService) Export(ctx context.Context, id string) (filename, code string, err error) {
	project, err := s.load(ctx, id)
	if err != nil {
		return "", "", err
	}
	if project.Schema == nil {
		return "", "", ErrNoSchema
	}

	ext := ".sql"
	if project.Schema.Type == models.SchemaTypeNoSQL {
		ext = ".txt"
	}
	return slugify(project.Title) + ext, models.NormalizeCode(project.Schema.Code), nil
}

func (s *ProjectService) load(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("project %s: %w", id, ErrProjectNotFound)
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	return project, nil
}

// slugify turns a project title into a safe filename stem.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "schema"
	}
	return slug
}
