package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPayoutCountsAmountOnlyForMovedMoney(t *testing.T) {
	m := NewEscrowMetrics(prometheus.NewRegistry())

	m.RecordPayout("momo", "stub", "submitted", "", "RWF", 60000, 10*time.Millisecond)
	m.RecordPayout("card", "live", "failed", "PROVIDER_REJECTED", "RWF", 60000, 10*time.Millisecond)

	assert.Equal(t, 60000.0, testutil.ToFloat64(m.PayoutAmountTotal.WithLabelValues("momo", "RWF")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PayoutAmountTotal.WithLabelValues("card", "RWF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PayoutAttemptsTotal.WithLabelValues("card", "live", "failed", "PROVIDER_REJECTED")))
}

func TestRecordDisputeEscalatedLabels(t *testing.T) {
	m := NewEscrowMetrics(prometheus.NewRegistry())

	m.RecordDisputeEscalated(false)
	m.RecordDisputeEscalated(true)
	m.RecordDisputeEscalated(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DisputesEscalatedTotal.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DisputesEscalatedTotal.WithLabelValues("true")))
}
