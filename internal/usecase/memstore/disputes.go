package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// Disputes enforces the same partial unique keys as the disputes table.
type Disputes struct {
	mu       sync.Mutex
	disputes map[string]*domain.Dispute
	order    []string
}

func NewDisputes() *Disputes {
	return &Disputes{disputes: make(map[string]*domain.Dispute)}
}

func cloneDispute(d *domain.Dispute) *domain.Dispute {
	c := *d
	c.Events = append([]domain.DisputeEvent(nil), d.Events...)
	if d.OrderID != nil {
		id := *d.OrderID
		c.OrderID = &id
	}
	return &c
}

func (s *Disputes) conflicts(d *domain.Dispute, ignoreID string) bool {
	for id, existing := range s.disputes {
		if id == ignoreID {
			continue
		}
		if d.OrderID != nil {
			if existing.OrderID != nil && *existing.OrderID == *d.OrderID &&
				existing.AnomalyType == d.AnomalyType && existing.Status.Open() && d.Status.Open() {
				return true
			}
			continue
		}
		if d.Source == domain.SourceSystem && existing.OrderID == nil && existing.Source == domain.SourceSystem &&
			existing.HubID == d.HubID && existing.Commodity == d.Commodity && existing.Issue == d.Issue {
			return true
		}
	}
	return false
}

func (s *Disputes) insert(d *domain.Dispute) {
	s.disputes[d.ID] = cloneDispute(d)
	s.order = append(s.order, d.ID)
}

func (s *Disputes) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.disputes)), nil
}

func (s *Disputes) InsertIgnoreConflicts(_ context.Context, disputes []*domain.Dispute) ([]*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var inserted []*domain.Dispute
	for _, d := range disputes {
		if s.conflicts(d, "") {
			continue
		}
		s.insert(d)
		inserted = append(inserted, d)
	}
	return inserted, nil
}

func (s *Disputes) Create(_ context.Context, d *domain.Dispute, event *domain.DisputeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts(d, "") {
		return domain.ErrDuplicateOpenDispute
	}
	stored := cloneDispute(d)
	stored.Events = append(stored.Events, *event)
	s.disputes[d.ID] = stored
	s.order = append(s.order, d.ID)
	return nil
}

func (s *Disputes) FindOpenByOrder(_ context.Context, orderID string, anomaly domain.AnomalyType) (*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		d := s.disputes[id]
		if d.OrderID != nil && *d.OrderID == orderID && d.AnomalyType == anomaly && d.Status.Open() {
			return cloneDispute(d), nil
		}
	}
	return nil, fmt.Errorf("open dispute: %w", domain.ErrNotFound)
}

func (s *Disputes) GetByID(_ context.Context, disputeID string) (*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.disputes[disputeID]
	if !ok {
		return nil, fmt.Errorf("dispute %s: %w", disputeID, domain.ErrNotFound)
	}
	return cloneDispute(d), nil
}

func (s *Disputes) Apply(_ context.Context, d *domain.Dispute, event *domain.DisputeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.disputes[d.ID]
	if !ok {
		return fmt.Errorf("dispute %s: %w", d.ID, domain.ErrNotFound)
	}
	candidate := cloneDispute(stored)
	candidate.Status = d.Status
	if s.conflicts(candidate, d.ID) {
		return domain.ErrDuplicateOpenDispute
	}
	stored.Status = d.Status
	stored.Severity = d.Severity
	stored.LastActionAt = d.LastActionAt
	stored.UpdatedAt = d.UpdatedAt
	stored.Events = append(stored.Events, *event)
	return nil
}

func (s *Disputes) List(_ context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*domain.Dispute
	for _, id := range s.order {
		d := s.disputes[id]
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		if filter.AnomalyType != nil && d.AnomalyType != *filter.AnomalyType {
			continue
		}
		if filter.Severity != nil && d.Severity != *filter.Severity {
			continue
		}
		if filter.OrderID != nil && (d.OrderID == nil || *d.OrderID != *filter.OrderID) {
			continue
		}
		c := cloneDispute(d)
		c.Events = nil
		matched = append(matched, c)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := min(start+limit, len(matched))
	return matched[start:end], total, nil
}

func (s *Disputes) ListOpenByOrder(_ context.Context, orderID string) ([]*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Dispute
	for _, id := range s.order {
		d := s.disputes[id]
		if d.OrderID != nil && *d.OrderID == orderID && d.Status.Open() {
			out = append(out, cloneDispute(d))
		}
	}
	return out, nil
}
