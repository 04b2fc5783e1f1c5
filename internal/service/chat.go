package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/keymap/internal/db"
	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/raphaelgruber/keymap/internal/schema"
)

// fallbackReply is returned when the model cannot produce a chat response.
const fallbackReply = "I'm sorry, I encountered an error processing your request. Could you please try again?"

// ChatService runs chat turns: append the user message, reconcile the
// project schema against the message intent, and produce a reply.
type ChatService struct {
	projects   ProjectRepository
	generator  TextGenerator
	genTimeout time.Duration
	logger     *slog.Logger
}

// NewChatService creates a ChatService. genTimeout bounds each model call.
func NewChatService(projects ProjectRepository, generator TextGenerator, genTimeout time.Duration, logger *slog.Logger) *ChatService {
	return &ChatService{
		projects:   projects,
		generator:  generator,
		genTimeout: genTimeout,
		logger:     logger,
	}
}

// TurnResult is the outcome of one chat turn. Schema is the project's
// schema after reconciliation, nil when none exists yet.
type TurnResult struct {
	Reply  string         `json:"response"`
	Schema *models.Schema `json:"schema,omitempty"`
}

// SendMessage runs one turn against a stored project. Storage failures on
// the user message or the reply abort the turn; a failed schema generation
// or schema write does not, the previous schema simply stays in place.
func (s *ChatService) SendMessage(ctx context.Context, projectID, message string) (*TurnResult, error) {
	project, err := s.projects.AppendProjectMessage(ctx, projectID, models.NewMessage(message, true))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
		}
		return nil, fmt.Errorf("append user message: %w", err)
	}

	current := project.Schema
	if s.shouldRegenerate(project.Schema, message) {
		generated := s.generateSchema(ctx, project.Messages)
		updated, err := s.projects.SetProjectSchema(ctx, projectID, generated)
		if err != nil {
			s.logger.Error("failed to store generated schema",
				"project", projectID, "error", err)
		} else {
			current = updated.Schema
		}
	}

	reply := s.reply(ctx, project.Messages)
	if _, err := s.projects.AppendProjectMessage(ctx, projectID, models.NewMessage(reply, false)); err != nil {
		return nil, fmt.Errorf("append reply: %w", err)
	}

	return &TurnResult{Reply: reply, Schema: current}, nil
}

// shouldRegenerate decides whether this turn replaces the project schema.
// Without a stored schema only an explicit generation request triggers;
// with one, softer update phrasing does too.
func (s *ChatService) shouldRegenerate(current *models.Schema, message string) bool {
	if schema.IsGenerationRequest(message) {
		return true
	}
	return current != nil && schema.IsUpdateRequest(message)
}

// GuestResult is the outcome of a stateless guest turn: nothing is stored,
// the caller keeps the transcript.
type GuestResult struct {
	Reply    string           `json:"response"`
	Messages []models.Message `json:"messages"`
	Schema   *models.Schema   `json:"schema,omitempty"`
}

// GuestTurn runs one turn over a caller-held transcript. A schema is only
// produced on an explicit generation request and is returned, not stored.
func (s *ChatService) GuestTurn(ctx context.Context, transcript []models.Message, message string) *GuestResult {
	history := make([]models.Message, 0, len(transcript)+2)
	history = append(history, transcript...)
	history = append(history, models.NewMessage(message, true))

	var generated *models.Schema
	if schema.IsGenerationRequest(message) {
		sc := s.generateSchema(ctx, history)
		generated = &sc
	}

	reply := s.reply(ctx, history)
	history = append(history, models.NewMessage(reply, false))

	return &GuestResult{Reply: reply, Messages: history, Schema: generated}
}

// Transcript returns a project's messages.
func (s *ChatService) Transcript(ctx context.Context, projectID string) ([]models.Message, error) {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
		}
		return nil, err
	}
	return project.Messages, nil
}

// generateSchema asks the model for a schema and recovers it through the
// extraction chain. Model failure lands on the static fallback, so the
// result is always usable.
func (s *ChatService) generateSchema(ctx context.Context, history []models.Message) models.Schema {
	ctx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	completion, err := s.generator.SchemaCompletion(ctx, history)
	if err != nil {
		s.logger.Warn("schema completion failed, using fallback schema", "error", err)
		return schema.Fallback()
	}
	return schema.Extract(completion, s.logger)
}

func (s *ChatService) reply(ctx context.Context, history []models.Message) string {
	ctx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	reply, err := s.generator.ChatReply(ctx, history)
	if err != nil {
		s.logger.Warn("chat completion failed", "error", err)
		return fallbackReply
	}
	return reply
}
