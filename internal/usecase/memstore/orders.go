// Package memstore holds in-memory implementations of the domain ports. They
// keep the same guard and uniqueness semantics as the postgres repositories
// and back the usecase tests.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type Orders struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	// UpdateHook runs before each guarded update; tests use it to inject races.
	UpdateHook func(orderID string)
}

func NewOrders(orders ...*domain.Order) *Orders {
	s := &Orders{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		s.orders[o.ID] = clone(o)
	}
	return s
}

func clone(o *domain.Order) *domain.Order {
	c := *o
	return &c
}

func (s *Orders) Put(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = clone(order)
}

func (s *Orders) CreateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return fmt.Errorf("order number %s already used", order.OrderNumber)
		}
	}
	s.orders[order.ID] = clone(order)
	return nil
}

func (s *Orders) GetOrderByID(_ context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order: %w", domain.ErrNotFound)
	}
	return clone(o), nil
}

func (s *Orders) ExistsOrderNumber(_ context.Context, orderNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s *Orders) FindByPaymentIntentID(_ context.Context, id string) (*domain.Order, error) {
	return s.find(func(o *domain.Order) bool { return o.PaymentIntentID == id })
}

func (s *Orders) FindByCheckoutSessionID(_ context.Context, id string) (*domain.Order, error) {
	return s.find(func(o *domain.Order) bool { return o.CheckoutSessionID == id })
}

func (s *Orders) find(match func(*domain.Order) bool) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if match(o) {
			return clone(o), nil
		}
	}
	return nil, fmt.Errorf("order: %w", domain.ErrNotFound)
}

func (s *Orders) UpdateGuarded(_ context.Context, orderID string, guard domain.OrderGuard, changes domain.OrderChanges) error {
	if s.UpdateHook != nil {
		s.UpdateHook(orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if len(guard.PaymentStatuses) > 0 && !slices.Contains(guard.PaymentStatuses, o.PaymentStatus) {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrInvalidTransition)
	}
	if len(guard.EscrowStatuses) > 0 && !slices.Contains(guard.EscrowStatuses, o.EscrowStatus) {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrInvalidTransition)
	}

	if changes.PaymentStatus != nil {
		o.PaymentStatus = *changes.PaymentStatus
	}
	if changes.EscrowStatus != nil {
		o.EscrowStatus = *changes.EscrowStatus
	}
	if changes.TrackingStage != nil {
		o.TrackingStage = *changes.TrackingStage
	}
	if changes.PaymentConfirmedAt != nil {
		t := *changes.PaymentConfirmedAt
		o.PaymentConfirmedAt = &t
	}
	if changes.EscrowFundedAt != nil {
		t := *changes.EscrowFundedAt
		o.EscrowFundedAt = &t
	}
	if changes.EscrowReleasedAt != nil {
		t := *changes.EscrowReleasedAt
		o.EscrowReleasedAt = &t
	}
	if changes.TrackingUpdatedAt != nil {
		t := *changes.TrackingUpdatedAt
		o.TrackingUpdatedAt = &t
	}
	if changes.CheckoutSessionID != nil {
		o.CheckoutSessionID = *changes.CheckoutSessionID
	}
	if changes.PaymentIntentID != nil {
		o.PaymentIntentID = *changes.PaymentIntentID
	}
	if changes.ChargeID != nil {
		o.ChargeID = *changes.ChargeID
	}
	if changes.TransferID != nil {
		o.TransferID = *changes.TransferID
	}
	return nil
}

func (s *Orders) ListReleasable(_ context.Context, limit int) ([]*domain.Order, error) {
	out := s.sorted(func(o *domain.Order) bool {
		return o.PaymentStatus == domain.PaymentDepositPaid && o.EscrowStatus == domain.EscrowFunded
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Orders) ListForDerivation(_ context.Context) ([]*domain.Order, error) {
	return s.sorted(func(o *domain.Order) bool { return o.TrackingStage != domain.StageCancelled }), nil
}

func (s *Orders) sorted(match func(*domain.Order) bool) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Order
	for _, o := range s.orders {
		if match(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
