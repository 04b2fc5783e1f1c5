package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is one schema-design conversation: the transcript, the current
// schema (nil until first generated) and the owning user. UserID is empty
// for projects created without a session.
type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
	Messages  []Message `json:"messages"`
	Schema    *Schema   `json:"schema,omitempty"`
	UserID    string    `json:"userId,omitempty"`
}

// DefaultProjectTitle is used when a project is created without a title.
const DefaultProjectTitle = "New Project"

// NewProject creates an empty project owned by userID (may be empty).
func NewProject(title, userID string) *Project {
	if title == "" {
		title = DefaultProjectTitle
	}
	now := time.Now().UnixMilli()
	return &Project{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
		UserID:    userID,
	}
}

// OwnedBy reports whether userID may read and modify the project.
// Ownerless projects are accessible to anyone who knows the ID.
func (p *Project) OwnedBy(userID string) bool {
	return p.UserID == "" || p.UserID == userID
}
