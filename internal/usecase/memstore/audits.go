package memstore

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/google/uuid"
)

// Audits is append-only, like the table it stands in for.
type Audits struct {
	mu   sync.Mutex
	rows []domain.PayoutAudit
}

func NewAudits() *Audits {
	return &Audits{}
}

func (s *Audits) Record(_ context.Context, audit *domain.PayoutAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if audit.ID == "" {
		audit.ID = uuid.NewString()
	}
	s.rows = append(s.rows, *audit)
	return nil
}

func (s *Audits) ListByOrderID(_ context.Context, orderID string) ([]*domain.PayoutAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PayoutAudit
	for i := range s.rows {
		if s.rows[i].OrderID == orderID {
			row := s.rows[i]
			out = append(out, &row)
		}
	}
	return out, nil
}

func (s *Audits) All() []domain.PayoutAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PayoutAudit(nil), s.rows...)
}
