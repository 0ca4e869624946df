package domain

import "context"

// Party is a farmer or buyer as seen by the escrow engine.
type Party struct {
	ID              string
	FullName        string
	PhoneNumber     string
	Email           string
	PayoutAccountID string
}

type PartyDirectory interface {
	FindByID(ctx context.Context, id string) (*Party, error)
}
