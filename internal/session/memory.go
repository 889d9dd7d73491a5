package session

import (
	"context"
	"sync"

	"github.com/folioai/folio/internal/domain"
)

// MemoryPersister keeps the state blob in memory. Useful for tests and
// for running without durable storage.
type MemoryPersister struct {
	mu    sync.Mutex
	state *domain.SessionState
}

// NewMemoryPersister creates an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// Save implements Persister.
func (p *MemoryPersister) Save(_ context.Context, state *domain.SessionState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state.Clone()
	return nil
}

// Load implements Persister.
func (p *MemoryPersister) Load(_ context.Context) (*domain.SessionState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return nil, nil
	}
	return p.state.Clone(), nil
}

// Close implements Persister. The blob is kept so a store can be
// reconstructed over the same persister.
func (p *MemoryPersister) Close() error {
	return nil
}
