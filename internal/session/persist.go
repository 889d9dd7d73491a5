package session

import (
	"context"

	"github.com/folioai/folio/internal/domain"
)

// StorageKey is the fixed key under which the serialized
// {sessions, currentSessionId} tuple is stored, regardless of driver.
const StorageKey = "chat-storage"

// Persister is the durable storage boundary for session state. Drivers
// store one JSON blob under StorageKey.
type Persister interface {
	// Save writes the full state blob.
	Save(ctx context.Context, state *domain.SessionState) error

	// Load reads the state blob. A missing blob returns (nil, nil).
	Load(ctx context.Context) (*domain.SessionState, error)

	// Close releases driver resources.
	Close() error
}
