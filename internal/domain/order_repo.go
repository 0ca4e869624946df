package domain

import "context"

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	ExistsOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Order, error)
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (*Order, error)
	// UpdateGuarded writes changes only if the row still matches guard.
	// It returns ErrInvalidTransition when no row matched.
	UpdateGuarded(ctx context.Context, orderID string, guard OrderGuard, changes OrderChanges) error
	// ListReleasable returns funded, deposit-paid orders oldest first.
	ListReleasable(ctx context.Context, limit int) ([]*Order, error)
	ListForDerivation(ctx context.Context) ([]*Order, error)
}
