package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    EscrowStatus
		event   EscrowEvent
		want    EscrowStatus
		wantErr bool
	}{
		{"fund", EscrowAwaitingPayment, EscrowEventFunded, EscrowFunded, false},
		{"release", EscrowFunded, EscrowEventReleased, EscrowReleased, false},
		{"fail release", EscrowFunded, EscrowEventReleaseFailed, EscrowReleaseFailed, false},
		{"retry release", EscrowReleaseFailed, EscrowEventReleased, EscrowReleased, false},
		{"released is terminal", EscrowReleased, EscrowEventReleased, EscrowReleased, true},
		{"no release before funding", EscrowAwaitingPayment, EscrowEventReleased, EscrowAwaitingPayment, true},
		{"no refund", EscrowReleased, EscrowEventFunded, EscrowReleased, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextEscrowStatus(tt.from, tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaymentTransitions(t *testing.T) {
	got, err := NextPaymentStatus(PaymentFailed, PaymentEventConfirmed)
	require.NoError(t, err)
	assert.Equal(t, PaymentDepositPaid, got)

	_, err = NextPaymentStatus(PaymentDepositPaid, PaymentEventFailed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSourcesMatchTransitionTable(t *testing.T) {
	assert.ElementsMatch(t, []EscrowStatus{EscrowFunded, EscrowReleaseFailed}, EscrowSources(EscrowEventReleased))
	assert.ElementsMatch(t, []EscrowStatus{EscrowAwaitingPayment}, EscrowSources(EscrowEventFunded))
	assert.ElementsMatch(t, []PaymentStatus{PaymentPending, PaymentFailed}, PaymentSources(PaymentEventConfirmed))
}

func TestNextDisputeStatus(t *testing.T) {
	next, err := NextDisputeStatus(DisputePendingReview, ActionEscalate)
	require.NoError(t, err)
	assert.Equal(t, DisputePendingEscalation, next)

	next, err = NextDisputeStatus(DisputeDismissed, ActionComment)
	require.NoError(t, err)
	assert.Equal(t, DisputeDismissed, next)

	next, err = NextDisputeStatus(DisputeResolved, ActionReopen)
	require.NoError(t, err)
	assert.Equal(t, DisputeUnderReview, next)

	_, err = NextDisputeStatus(DisputeResolved, ActionDismiss)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = NextDisputeStatus(DisputeUnderReview, ReviewAction("approve"))
	assert.ErrorIs(t, err, ErrUnsupportedAction)
}

func TestPayoutEligible(t *testing.T) {
	o := &Order{PaymentStatus: PaymentDepositPaid, EscrowStatus: EscrowFunded}
	assert.True(t, o.PayoutEligible())
	o.EscrowStatus = EscrowReleaseFailed
	assert.True(t, o.PayoutEligible())
	o.EscrowStatus = EscrowReleased
	assert.False(t, o.PayoutEligible())
	o = &Order{PaymentStatus: PaymentPending, EscrowStatus: EscrowFunded}
	assert.False(t, o.PayoutEligible())
}
