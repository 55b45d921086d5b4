// Package snapshotstore keeps order mementos in memory. Snapshots are a
// short-lived safety net rather than durable state, so a bounded in-process
// store is sufficient; restarting the service starts the histories over.
package snapshotstore

import (
	"context"
	"sync"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/errs"
)

// DefaultHistoryLimit bounds how many mementos one order retains.
const DefaultHistoryLimit = 10

// Store implements ports.SnapshotStore with per-order bounded histories.
// Every save appends, so the same tag may appear more than once; a save on a
// full history evicts the oldest memento.
type Store struct {
	mu      sync.RWMutex
	byOrder map[string][]*order.Memento
	limit   int
}

// NewStore creates a snapshot store with the given per-order history limit.
// Limits below 1 fall back to DefaultHistoryLimit.
func NewStore(limit int) *Store {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &Store{
		byOrder: make(map[string][]*order.Memento),
		limit:   limit,
	}
}

// Save stores a memento under its order and tag.
func (s *Store) Save(_ context.Context, memento *order.Memento) error {
	if memento == nil {
		return errs.NewValueIsRequiredError("memento")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := memento.OrderID().String()
	history := append(s.byOrder[key], memento)
	if len(history) > s.limit {
		history = history[1:]
	}
	s.byOrder[key] = history

	return nil
}

// Restore retrieves the memento stored under the given tag. When the tag
// appears more than once, the oldest surviving match wins.
func (s *Store) Restore(_ context.Context, orderID kernel.UUID, tag string) (*order.Memento, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, memento := range s.byOrder[orderID.String()] {
		if memento.Tag() == tag {
			return memento, nil
		}
	}

	return nil, errs.NewObjectNotFoundError("tag", tag)
}

// Latest retrieves the most recently saved memento for the order.
func (s *Store) Latest(_ context.Context, orderID kernel.UUID) (*order.Memento, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byOrder[orderID.String()]
	if len(history) == 0 {
		return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
	}

	return history[len(history)-1], nil
}

// History lists the order's memento summaries, oldest first.
func (s *Store) History(_ context.Context, orderID kernel.UUID) ([]order.MementoSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byOrder[orderID.String()]
	summaries := make([]order.MementoSummary, 0, len(history))
	for _, memento := range history {
		summaries = append(summaries, memento.Summary())
	}

	return summaries, nil
}

// Prune drops every memento taken before the cutoff and returns how many
// were removed. Orders whose whole history ages out disappear from the
// store.
func (s *Store) Prune(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, history := range s.byOrder {
		kept := history[:0]
		for _, memento := range history {
			if memento.TakenAt().Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, memento)
		}
		if len(kept) == 0 {
			delete(s.byOrder, key)
			continue
		}
		s.byOrder[key] = kept
	}

	return removed, nil
}
