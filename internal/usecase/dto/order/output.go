package orderdto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type CheckoutOutput struct {
	Order   *domain.Order
	Session *domain.CheckoutSession
}

// SummaryOutput is the buyer-facing read model of one order.
type SummaryOutput struct {
	Order        *domain.Order
	PayoutAudits []*domain.PayoutAudit
	OpenDisputes []*domain.Dispute
	Timeline     []TimelineEntry
}

type TimelineEntry struct {
	Label string
	At    string
}
