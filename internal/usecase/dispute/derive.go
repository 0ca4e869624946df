package dispute

import (
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/google/uuid"
)

const (
	inspectionWarnAfter   = 24 * time.Hour
	inspectionBreachAfter = 48 * time.Hour
	hubBacklogThreshold   = 3
)

// Anomaly is what Classify found for one order.
type Anomaly struct {
	Type       domain.AnomalyType
	Severity   domain.Severity
	Issue      string
	Confidence float64
}

// Classify applies the derivation precedence and returns at most one anomaly:
// payment reconciliation first, then inspection SLA, then the quality sample.
func Classify(order *domain.Order, now time.Time, sampler QualitySampler) *Anomaly {
	if order.TrackingStage == domain.StageCancelled {
		return nil
	}
	if order.EscrowStatus == domain.EscrowReleaseFailed || order.PaymentStatus == domain.PaymentFailed {
		return &Anomaly{
			Type:       domain.AnomalyPaymentReconciliation,
			Severity:   domain.SeverityHigh,
			Issue:      fmt.Sprintf("Payment reconciliation needed (payment %s, escrow %s)", order.PaymentStatus, order.EscrowStatus),
			Confidence: 0.95,
		}
	}
	if order.TrackingStage != domain.StageHubInspection {
		return nil
	}

	age := order.TrackingAge(now)
	switch {
	case age > inspectionBreachAfter:
		return &Anomaly{
			Type:       domain.AnomalyInspectionSLA,
			Severity:   domain.SeverityHigh,
			Issue:      "Hub inspection exceeded 48h",
			Confidence: 0.9,
		}
	case age > inspectionWarnAfter:
		return &Anomaly{
			Type:       domain.AnomalyInspectionSLA,
			Severity:   domain.SeverityMedium,
			Issue:      "Hub inspection exceeded 24h",
			Confidence: 0.75,
		}
	}

	if sampler.Sampled(order.ID) {
		return &Anomaly{
			Type:       domain.AnomalyQualityVariance,
			Severity:   domain.SeverityLow,
			Issue:      "Grade variance flagged during hub inspection",
			Confidence: 0.55,
		}
	}
	return nil
}

// Derive turns the current order set into seed disputes. Each order yields at
// most one order-level dispute; a hub and commodity with a backlog of stale
// inspections also yields one hub-level dispute.
func Derive(orders []*domain.Order, now time.Time, sampler QualitySampler) []*domain.Dispute {
	var out []*domain.Dispute
	type hubKey struct{ hubID, commodity string }
	backlog := make(map[hubKey][]*domain.Order)

	for _, order := range orders {
		anomaly := Classify(order, now, sampler)
		if anomaly != nil {
			orderID := order.ID
			out = append(out, newSystemDispute(&orderID, order, anomaly, now))
		}
		if order.HubID != "" && order.TrackingStage == domain.StageHubInspection && order.TrackingAge(now) > inspectionWarnAfter {
			key := hubKey{order.HubID, order.Commodity}
			backlog[key] = append(backlog[key], order)
		}
	}

	keys := make([]hubKey, 0, len(backlog))
	for key := range backlog {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].hubID == keys[j].hubID {
			return keys[i].commodity < keys[j].commodity
		}
		return keys[i].hubID < keys[j].hubID
	})
	for _, key := range keys {
		stale := backlog[key]
		if len(stale) < hubBacklogThreshold {
			continue
		}
		out = append(out, newSystemDispute(nil, stale[0], &Anomaly{
			Type:       domain.AnomalyInspectionSLA,
			Severity:   domain.SeverityHigh,
			Issue:      "Hub inspection backlog over 24h",
			Confidence: 0.8,
		}, now))
	}
	return out
}

func newSystemDispute(orderID *string, order *domain.Order, anomaly *Anomaly, now time.Time) *domain.Dispute {
	d := &domain.Dispute{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		HubID:           order.HubID,
		HubName:         order.HubName,
		Region:          order.Region,
		Commodity:       order.Commodity,
		Issue:           anomaly.Issue,
		AnomalyType:     anomaly.Type,
		Severity:        anomaly.Severity,
		Status:          domain.DisputePendingReview,
		ConfidenceScore: anomaly.Confidence,
		Source:          domain.SourceSystem,
		LastActionAt:    &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	d.Events = []domain.DisputeEvent{{
		ID:         uuid.NewString(),
		DisputeID:  d.ID,
		Action:     domain.ActionCreate,
		ActorRole:  domain.SourceSystem,
		Message:    anomaly.Issue,
		NextStatus: domain.DisputePendingReview,
		CreatedAt:  now,
	}}
	return d
}
