package domain

import "fmt"

type PaymentEvent string

const (
	PaymentEventConfirmed PaymentEvent = "payment_confirmed"
	PaymentEventFailed    PaymentEvent = "payment_failed"
)

type EscrowEvent string

const (
	EscrowEventFunded        EscrowEvent = "escrow_funded"
	EscrowEventReleased      EscrowEvent = "escrow_released"
	EscrowEventReleaseFailed EscrowEvent = "escrow_release_failed"
)

type paymentEdge struct {
	from  PaymentStatus
	event PaymentEvent
}

type escrowEdge struct {
	from  EscrowStatus
	event EscrowEvent
}

var paymentTransitions = map[paymentEdge]PaymentStatus{
	{PaymentPending, PaymentEventConfirmed}: PaymentDepositPaid,
	{PaymentFailed, PaymentEventConfirmed}:  PaymentDepositPaid,
	{PaymentPending, PaymentEventFailed}:    PaymentFailed,
	{PaymentFailed, PaymentEventFailed}:     PaymentFailed,
}

var escrowTransitions = map[escrowEdge]EscrowStatus{
	{EscrowAwaitingPayment, EscrowEventFunded}:      EscrowFunded,
	{EscrowFunded, EscrowEventReleased}:             EscrowReleased,
	{EscrowReleaseFailed, EscrowEventReleased}:      EscrowReleased,
	{EscrowFunded, EscrowEventReleaseFailed}:        EscrowReleaseFailed,
	{EscrowReleaseFailed, EscrowEventReleaseFailed}: EscrowReleaseFailed,
}

// NextPaymentStatus applies one payment event. Any edge not listed above is an
// InvalidTransition.
func NextPaymentStatus(current PaymentStatus, event PaymentEvent) (PaymentStatus, error) {
	next, ok := paymentTransitions[paymentEdge{current, event}]
	if !ok {
		return current, fmt.Errorf("%w: payment %s on %s", ErrInvalidTransition, event, current)
	}
	return next, nil
}

// NextEscrowStatus applies one escrow event. released is terminal.
func NextEscrowStatus(current EscrowStatus, event EscrowEvent) (EscrowStatus, error) {
	next, ok := escrowTransitions[escrowEdge{current, event}]
	if !ok {
		return current, fmt.Errorf("%w: escrow %s on %s", ErrInvalidTransition, event, current)
	}
	return next, nil
}

// PaymentSources lists the states from which the event is legal; guarded
// updates use it as their WHERE predicate.
func PaymentSources(event PaymentEvent) []PaymentStatus {
	var out []PaymentStatus
	for _, s := range []PaymentStatus{PaymentPending, PaymentDepositPaid, PaymentFailed} {
		if _, ok := paymentTransitions[paymentEdge{s, event}]; ok {
			out = append(out, s)
		}
	}
	return out
}

func EscrowSources(event EscrowEvent) []EscrowStatus {
	var out []EscrowStatus
	for _, s := range []EscrowStatus{EscrowAwaitingPayment, EscrowFunded, EscrowReleased, EscrowReleaseFailed} {
		if _, ok := escrowTransitions[escrowEdge{s, event}]; ok {
			out = append(out, s)
		}
	}
	return out
}
