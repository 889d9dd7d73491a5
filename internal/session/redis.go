package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/folioai/folio/internal/domain"
)

// redisKeyPrefix namespaces the blob in shared Redis deployments.
const redisKeyPrefix = "folio:"

// RedisPersister stores the session blob under a single Redis key.
// A zero TTL means the key never expires.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersister verifies connectivity and returns the persister.
func NewRedisPersister(ctx context.Context, addr string, ttl time.Duration) (*RedisPersister, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return &RedisPersister{client: client, ttl: ttl}, nil
}

// Save implements Persister.
func (p *RedisPersister) Save(ctx context.Context, state *domain.SessionState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := p.client.Set(ctx, redisKeyPrefix+StorageKey, blob, p.ttl).Err(); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

// Load implements Persister.
func (p *RedisPersister) Load(ctx context.Context) (*domain.SessionState, error) {
	blob, err := p.client.Get(ctx, redisKeyPrefix+StorageKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &state, nil
}

// Close implements Persister.
func (p *RedisPersister) Close() error {
	return p.client.Close()
}
