// Package models defines the KeyMap domain types: chat messages, designed
// schemas, projects, users and sessions.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single chat turn. Messages are append-only: once stored on a
// project they are never edited, only removed together with the project.
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	IsUser    bool   `json:"isUser"`
	Timestamp int64  `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and a millisecond timestamp.
func NewMessage(content string, isUser bool) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		IsUser:    isUser,
		Timestamp: time.Now().UnixMilli(),
	}
}
