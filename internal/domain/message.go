// Package domain contains core domain types for the FOLIO application.
package domain

import (
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks a message typed by the visitor.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by the assistant,
	// including recovered failure messages.
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation transcript.
// Messages are immutable once created and append-only within a session.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}
