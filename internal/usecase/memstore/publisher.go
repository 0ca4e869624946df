package memstore

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// Publisher records events instead of sending them.
type Publisher struct {
	mu       sync.Mutex
	Escrow   []domain.EscrowLifecycleEvent
	Disputes []domain.DisputeLifecycleEvent
}

func (p *Publisher) PublishEscrowEvent(_ context.Context, event domain.EscrowLifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Escrow = append(p.Escrow, event)
}

func (p *Publisher) PublishDisputeEvent(_ context.Context, event domain.DisputeLifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Disputes = append(p.Disputes, event)
}

func (p *Publisher) EscrowTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Escrow))
	for i, e := range p.Escrow {
		out[i] = e.Type
	}
	return out
}

func (p *Publisher) DisputeTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Disputes))
	for i, e := range p.Disputes {
		out[i] = e.Type
	}
	return out
}
