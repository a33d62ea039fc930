package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
)

// ErrNoSnapshot is returned when no persisted cart exists for a session.
var ErrNoSnapshot = errors.New("no cart snapshot")

// Snapshotter persists the cart item list (never the IsOpen flag) between
// requests. Snapshots are written after every mutation, last write wins.
type Snapshotter interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartLineItem, error)
	Save(ctx context.Context, sessionID string, items []domain.CartLineItem) error
	Delete(ctx context.Context, sessionID string) error
}

const snapshotKeyPrefix = "oskaz:cart:"

// Abandoned carts age out eventually; every active mutation refreshes the TTL.
const snapshotTTL = 90 * 24 * time.Hour

// RedisSnapshotter stores cart snapshots as JSON arrays of line items under
// a fixed key namespace.
type RedisSnapshotter struct {
	client *redis.Client
}

func NewRedisSnapshotter(client *redis.Client) *RedisSnapshotter {
	return &RedisSnapshotter{client: client}
}

func (r *RedisSnapshotter) Load(ctx context.Context, sessionID string) ([]domain.CartLineItem, error) {
	data, err := r.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot failed: %w", err)
	}
	return items, nil
}

func (r *RedisSnapshotter) Save(ctx context.Context, sessionID string, items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKey(sessionID), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSnapshotter) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func snapshotKey(sessionID string) string {
	return snapshotKeyPrefix + sessionID
}

// MemorySnapshotter keeps snapshots in process memory. Used in tests and as
// a fallback when Redis is not configured.
type MemorySnapshotter struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemorySnapshotter() *MemorySnapshotter {
	return &MemorySnapshotter{items: make(map[string][]byte)}
}

func (m *MemorySnapshotter) Load(_ context.Context, sessionID string) ([]domain.CartLineItem, error) {
	m.mu.RLock()
	data, ok := m.items[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNoSnapshot
	}
	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot failed: %w", err)
	}
	return items, nil
}

func (m *MemorySnapshotter) Save(_ context.Context, sessionID string, items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}
	m.mu.Lock()
	m.items[sessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemorySnapshotter) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.items, sessionID)
	m.mu.Unlock()
	return nil
}
