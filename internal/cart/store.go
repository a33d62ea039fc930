package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/domain"
)

// EventType identifies a cart notification.
type EventType string

const (
	// EventItemAdded fires after an item lands in the cart. Dropped adds
	// (stock ceiling) emit nothing.
	EventItemAdded EventType = "item_added"
)

// Event is a user-facing cart notification. OpenCart hints that the UI
// should offer opening the cart flyout.
type Event struct {
	Type      EventType
	SessionID string
	Item      domain.CartLineItem
	Message   string
	OpenCart  bool
}

// Subscriber receives cart events. Subscribers are called synchronously in
// dispatch order, on the mutating goroutine.
type Subscriber func(Event)

// Store owns every session's cart. It is the single writer: all transitions
// go through its mutex, are applied as pure reductions on domain.Cart, and
// the resulting item list is persisted before the call returns. Reads hand
// out value snapshots, so any number of readers is fine.
type Store struct {
	mu        sync.Mutex
	carts     map[string]domain.Cart
	snapshots Snapshotter
	subs      []Subscriber
	logger    *zap.Logger
}

func NewStore(snapshots Snapshotter, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		carts:     make(map[string]domain.Cart),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Subscribe registers a notification subscriber.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Get returns the current cart snapshot for a session, hydrating from
// persisted storage on first access.
func (s *Store) Get(ctx context.Context, sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx, sessionID)
}

// AddItem adds an item (or bumps its quantity) and persists the result.
// Adds that would exceed the line's stock ceiling leave the cart unchanged
// and emit no event.
func (s *Store) AddItem(ctx context.Context, sessionID string, item domain.CartLineItem, quantity int) domain.Cart {
	s.mu.Lock()
	before := s.current(ctx, sessionID)
	after := before.AddItem(item, quantity)
	dropped := after.TotalItems == before.TotalItems
	if !dropped {
		s.commit(ctx, sessionID, after)
	}
	subs := s.subs
	s.mu.Unlock()

	if !dropped {
		line, _ := after.Line(item.ID)
		event := Event{
			Type:      EventItemAdded,
			SessionID: sessionID,
			Item:      line,
			Message:   "Added to cart",
			OpenCart:  true,
		}
		for _, fn := range subs {
			fn(event)
		}
	}
	return after
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func (s *Store) RemoveItem(ctx context.Context, sessionID, id string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	after := s.current(ctx, sessionID).RemoveItem(id)
	s.commit(ctx, sessionID, after)
	return after
}

// UpdateQuantity sets a line's quantity; non-positive values remove the line.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, id string, quantity int) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	after := s.current(ctx, sessionID).UpdateQuantity(id, quantity)
	s.commit(ctx, sessionID, after)
	return after
}

// Clear empties the cart and drops its snapshot. The IsOpen flag is kept.
func (s *Store) Clear(ctx context.Context, sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	after := s.current(ctx, sessionID).Clear()
	s.carts[sessionID] = after
	if err := s.snapshots.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("cart snapshot delete failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return after
}

// SetOpen sets the flyout visibility flag. Not persisted.
func (s *Store) SetOpen(ctx context.Context, sessionID string, open bool) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	after := s.current(ctx, sessionID).WithOpen(open)
	s.carts[sessionID] = after
	return after
}

// Toggle flips the flyout visibility flag. Not persisted.
func (s *Store) Toggle(ctx context.Context, sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	after := s.current(ctx, sessionID).Toggle()
	s.carts[sessionID] = after
	return after
}

// current returns the in-memory cart, hydrating from the snapshot store on
// first access. A malformed snapshot is discarded with a log line only.
func (s *Store) current(ctx context.Context, sessionID string) domain.Cart {
	if cached, ok := s.carts[sessionID]; ok {
		return cached
	}
	items, err := s.snapshots.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		s.logger.Warn("discarding unreadable cart snapshot", zap.String("session_id", sessionID), zap.Error(err))
		items = nil
	}
	hydrated := domain.NewCartFromItems(items)
	s.carts[sessionID] = hydrated
	return hydrated
}

// commit stores the new state and writes the snapshot. Snapshot write
// failures are logged, not surfaced: the in-memory cart stays authoritative
// for the session's lifetime.
func (s *Store) commit(ctx context.Context, sessionID string, c domain.Cart) {
	s.carts[sessionID] = c
	if err := s.snapshots.Save(ctx, sessionID, c.Items); err != nil {
		s.logger.Warn("cart snapshot write failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
