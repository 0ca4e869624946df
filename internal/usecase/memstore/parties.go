package memstore

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type Parties map[string]*domain.Party

func NewParties(parties ...*domain.Party) Parties {
	p := make(Parties)
	for _, party := range parties {
		p[party.ID] = party
	}
	return p
}

func (p Parties) FindByID(_ context.Context, id string) (*domain.Party, error) {
	party, ok := p[id]
	if !ok {
		return nil, fmt.Errorf("party %s: %w", id, domain.ErrNotFound)
	}
	c := *party
	return &c, nil
}
