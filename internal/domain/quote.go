package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quote holds the money fields fixed at order creation.
type Quote struct {
	TotalPrice     decimal.Decimal
	DepositPercent decimal.Decimal
	DepositAmount  decimal.Decimal
	BalanceDue     decimal.Decimal
	ServiceFee     decimal.Decimal
	InsuranceFee   decimal.Decimal
	AmountDueToday decimal.Decimal
}

type QuoteRules struct {
	DepositPercent    decimal.Decimal
	ServiceFeeRate    decimal.Decimal
	ServiceFeeMinimum decimal.Decimal
	InsuranceFee      decimal.Decimal
}

// ComputeQuote is pure: the same total, currency and rules always give the same quote.
// Rounding follows the currency's minor unit so zero-decimal currencies stay whole.
func ComputeQuote(total decimal.Decimal, currency string, rules QuoteRules) (Quote, error) {
	if !total.IsPositive() {
		return Quote{}, fmt.Errorf("%w: total price must be positive", ErrInvalidInput)
	}
	if rules.DepositPercent.IsNegative() || rules.DepositPercent.GreaterThan(decimal.NewFromInt(1)) {
		return Quote{}, fmt.Errorf("%w: deposit percent %s outside [0,1]", ErrInvalidInput, rules.DepositPercent)
	}
	places := CurrencyPlaces(currency)

	deposit := total.Mul(rules.DepositPercent).Round(places)
	fee := decimal.Max(rules.ServiceFeeMinimum, total.Mul(rules.ServiceFeeRate).Round(places))
	insurance := rules.InsuranceFee.Round(places)

	return Quote{
		TotalPrice:     total,
		DepositPercent: rules.DepositPercent,
		DepositAmount:  deposit,
		BalanceDue:     total.Sub(deposit),
		ServiceFee:     fee,
		InsuranceFee:   insurance,
		AmountDueToday: deposit.Add(fee).Add(insurance),
	}, nil
}
