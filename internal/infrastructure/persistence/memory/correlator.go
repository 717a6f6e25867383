// Package memory keeps the process-local order correlation state.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
)

var (
	_ application.OrderCorrelator = (*LastOrderSlot)(nil)
	_ application.OrderCorrelator = (*OrderStore)(nil)
)

// LastOrderSlot holds the id of the most recently created order, whoever created it.
// A verification always checks against that id, so interleaved checkouts from
// different payers overwrite each other. The mutex only keeps the slot race-free.
type LastOrderSlot struct {
	mu      sync.RWMutex
	orderID string
}

func NewLastOrderSlot() *LastOrderSlot {
	return &LastOrderSlot{}
}

func (s *LastOrderSlot) Remember(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	s.orderID = order.ID
	s.mu.Unlock()
	return nil
}

// Resolve ignores requestedID and returns the last order id, empty if none was created.
func (s *LastOrderSlot) Resolve(_ context.Context, _ string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderID, nil
}

// OrderStore keeps orders by id until they expire; verification must name the order it pays.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	ttl    time.Duration
	now    func() time.Time
}

func NewOrderStore(ttl time.Duration) *OrderStore {
	return &OrderStore{
		orders: make(map[string]*domain.Order),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *OrderStore) Remember(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()
	return nil
}

func (s *OrderStore) Resolve(_ context.Context, requestedID string) (string, error) {
	if requestedID == "" {
		return "", domain.ErrOrderNotFound
	}

	s.mu.RLock()
	order, ok := s.orders[requestedID]
	s.mu.RUnlock()

	if !ok || s.expired(order, s.now()) {
		return "", domain.ErrOrderNotFound
	}
	return order.ID, nil
}

// Sweep drops expired orders and reports how many were removed.
func (s *OrderStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, order := range s.orders {
		if s.expired(order, now) {
			delete(s.orders, id)
			removed++
		}
	}
	return removed
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *OrderStore) expired(order *domain.Order, now time.Time) bool {
	return now.Sub(order.CreatedAt) >= s.ttl
}
