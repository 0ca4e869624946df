package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRules() QuoteRules {
	return QuoteRules{
		DepositPercent:    decimal.RequireFromString("0.60"),
		ServiceFeeRate:    decimal.RequireFromString("0.01"),
		ServiceFeeMinimum: decimal.NewFromInt(5000),
		InsuranceFee:      decimal.Zero,
	}
}

func TestComputeQuoteDefaults(t *testing.T) {
	q, err := ComputeQuote(decimal.NewFromInt(100000), "RWF", defaultRules())
	require.NoError(t, err)

	assert.True(t, q.DepositAmount.Equal(decimal.NewFromInt(60000)), q.DepositAmount.String())
	assert.True(t, q.ServiceFee.Equal(decimal.NewFromInt(5000)), q.ServiceFee.String())
	assert.True(t, q.AmountDueToday.Equal(decimal.NewFromInt(65000)), q.AmountDueToday.String())
	assert.True(t, q.BalanceDue.Equal(decimal.NewFromInt(40000)), q.BalanceDue.String())
}

func TestComputeQuotePercentageFeeAboveMinimum(t *testing.T) {
	q, err := ComputeQuote(decimal.NewFromInt(2000000), "RWF", defaultRules())
	require.NoError(t, err)
	assert.True(t, q.ServiceFee.Equal(decimal.NewFromInt(20000)))
	assert.True(t, q.AmountDueToday.Equal(decimal.NewFromInt(1220000)))
}

func TestComputeQuoteRoundsToCurrency(t *testing.T) {
	rules := defaultRules()
	rules.ServiceFeeMinimum = decimal.Zero

	rwf, err := ComputeQuote(decimal.RequireFromString("1001"), "RWF", rules)
	require.NoError(t, err)
	assert.Equal(t, "601", rwf.DepositAmount.String())

	usd, err := ComputeQuote(decimal.RequireFromString("10.01"), "USD", rules)
	require.NoError(t, err)
	assert.Equal(t, "6.01", usd.DepositAmount.String())
	assert.Equal(t, "4", usd.BalanceDue.String())
}

func TestComputeQuoteRejectsBadInput(t *testing.T) {
	_, err := ComputeQuote(decimal.Zero, "RWF", defaultRules())
	assert.ErrorIs(t, err, ErrInvalidInput)

	rules := defaultRules()
	rules.DepositPercent = decimal.RequireFromString("1.5")
	_, err = ComputeQuote(decimal.NewFromInt(100), "RWF", rules)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(65000), ToMinorUnits(decimal.NewFromInt(65000), "rwf"))
	assert.Equal(t, int64(1999), ToMinorUnits(decimal.RequireFromString("19.99"), "USD"))
}
