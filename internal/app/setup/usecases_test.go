package setup

import (
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRulesFromConfig(t *testing.T) {
	rules := QuoteRules(config.Quote{DepositPercent: 0.6, ServiceFeeRate: 0.01, ServiceFeeMinimum: 5000})

	assert.True(t, rules.DepositPercent.Equal(decimal.RequireFromString("0.6")))

	quote, err := domain.ComputeQuote(decimal.NewFromInt(100000), "RWF", rules)
	require.NoError(t, err)
	assert.Equal(t, "60000", quote.DepositAmount.String())
	assert.Equal(t, "65000", quote.AmountDueToday.String())
}
