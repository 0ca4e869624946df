package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/jaevor/go-nanoid"
)

// CardRail transfers the escrowed deposit to the farmer's connected account,
// linked to the original charge through the transfer group.
type CardRail struct {
	Cards domain.CardProcessor
	Now   func() time.Time
	refs  func() string
}

func NewCardRail(cards domain.CardProcessor) *CardRail {
	return &CardRail{Cards: cards, Now: time.Now, refs: mustGenerator(12)}
}

func (r *CardRail) Execute(ctx context.Context, order *domain.Order, farmer *domain.Party) domain.PayoutOutcome {
	outcome := domain.PayoutOutcome{
		Provider:      domain.ProviderCardProcessor,
		Method:        domain.MethodCard,
		PaymentRail:   domain.RailCardTransfer,
		ExecutionMode: domain.ModeLive,
		Amount:        order.PayoutAmount(),
		Currency:      order.Currency,
	}
	if !r.Cards.Enabled() {
		return fail(outcome, r.Now, domain.NewPayoutError(domain.ErrProviderDisabled, domain.CodeProviderDisabled,
			"card processor is not configured"))
	}
	if farmer.PayoutAccountID == "" {
		return fail(outcome, r.Now, domain.NewPayoutError(domain.ErrPayoutNotConfigured, domain.CodePayoutNotConfigured,
			"farmer has no linked payout account"))
	}

	req := domain.TransferRequest{
		Amount:             order.PayoutAmount(),
		Currency:           order.Currency,
		DestinationAccount: farmer.PayoutAccountID,
		SourceCharge:       order.ChargeID,
		TransferGroup:      order.TransferGroup,
		OrderID:            order.ID,
		IdempotencyKey:     fmt.Sprintf("payout_%s_%s", order.ID, r.refs()),
	}
	outcome.ProviderRequest = req

	transfer, err := r.Cards.CreateTransfer(ctx, req)
	outcome.ProcessedAt = r.Now().UTC()
	if err != nil {
		outcome.Status = domain.PayoutFailed
		outcome.Err = err
		return outcome
	}

	outcome.OK = true
	outcome.Status = domain.PayoutSucceeded
	outcome.ExternalReference = transfer.ID
	outcome.ProviderResponse = transfer.Raw
	return outcome
}

// MobileMoneyRail pays out to the farmer's phone. With no live endpoint it
// runs in stub mode: the payout is reported submitted and never confirmed.
type MobileMoneyRail struct {
	Method   domain.PaymentMethod
	Provider domain.MobileMoneyProvider
	Now      func() time.Time
	refs     func() string
}

func NewMobileMoneyRail(method domain.PaymentMethod, provider domain.MobileMoneyProvider) *MobileMoneyRail {
	return &MobileMoneyRail{Method: method, Provider: provider, Now: time.Now, refs: mustGenerator(8)}
}

// Reference builds the local idempotency key mm_payout_<provider>_<millis>_<random>.
func (r *MobileMoneyRail) Reference() string {
	return fmt.Sprintf("mm_payout_%s_%d_%s", r.Method, r.Now().UnixMilli(), r.refs())
}

func (r *MobileMoneyRail) Execute(ctx context.Context, order *domain.Order, farmer *domain.Party) domain.PayoutOutcome {
	outcome := domain.PayoutOutcome{
		Provider:      domain.ProviderMobileMoney,
		Method:        r.Method,
		PaymentRail:   domain.RailMobileMoney,
		ExecutionMode: domain.ModeStub,
		Amount:        order.PayoutAmount(),
		Currency:      order.Currency,
	}
	if r.Provider != nil && r.Provider.Live() {
		outcome.ExecutionMode = domain.ModeLive
	}
	if farmer.PhoneNumber == "" {
		return fail(outcome, r.Now, domain.NewPayoutError(domain.ErrPayoutNotConfigured, domain.CodePayoutNotConfigured,
			"farmer has no mobile money number"))
	}

	req := domain.MobileMoneyPayoutRequest{
		Provider:    string(r.Method),
		Reference:   r.Reference(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		PhoneNumber: farmer.PhoneNumber,
		FullName:    farmer.FullName,
		Amount:      order.PayoutAmount(),
		Currency:    order.Currency,
		Narration:   fmt.Sprintf("Escrow release %s", order.OrderNumber),
	}
	outcome.ProviderRequest = req
	outcome.ExternalReference = req.Reference

	if outcome.ExecutionMode == domain.ModeStub {
		outcome.OK = true
		outcome.Status = domain.PayoutSubmitted
		outcome.ProcessedAt = r.Now().UTC()
		return outcome
	}

	result, err := r.Provider.SubmitPayout(ctx, req)
	outcome.ProcessedAt = r.Now().UTC()
	if err != nil {
		outcome.Status = domain.PayoutFailed
		outcome.Err = err
		return outcome
	}
	outcome.OK = true
	outcome.Status = domain.PayoutSubmitted
	outcome.ExternalReference = result.ExternalReference
	outcome.ProviderResponse = result.Raw
	return outcome
}

// BankRail never moves money; bank payouts are reconciled by hand.
type BankRail struct {
	Now func() time.Time
}

func NewBankRail() *BankRail {
	return &BankRail{Now: time.Now}
}

func (r *BankRail) Execute(_ context.Context, order *domain.Order, _ *domain.Party) domain.PayoutOutcome {
	return domain.PayoutOutcome{
		Skipped:       true,
		Status:        domain.PayoutManualRequired,
		Provider:      domain.ProviderBank,
		Method:        domain.MethodBank,
		PaymentRail:   domain.RailBankTransfer,
		ExecutionMode: domain.ModeLive,
		Amount:        order.PayoutAmount(),
		Currency:      order.Currency,
		ProcessedAt:   r.Now().UTC(),
	}
}

func fail(outcome domain.PayoutOutcome, now func() time.Time, err error) domain.PayoutOutcome {
	outcome.Status = domain.PayoutFailed
	outcome.Err = err
	outcome.ProcessedAt = now().UTC()
	return outcome
}

func mustGenerator(length int) func() string {
	gen, err := nanoid.CustomASCII("abcdefghijklmnopqrstuvwxyz0123456789", length)
	if err != nil {
		panic(err)
	}
	return gen
}
