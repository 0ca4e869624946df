package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
)

const (
	orderNumberPrefix   = "AGR-"
	orderNumberAttempts = 5
	orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	fallbackSuffixLen   = 4
)

type orderNumberChecker interface {
	ExistsOrderNumber(ctx context.Context, orderNumber string) (bool, error)
}

// OrderNumberGenerator hands out human-readable order numbers. A collision
// budget of five random draws is followed by a timestamp-suffixed fallback.
type OrderNumberGenerator struct {
	repo   orderNumberChecker
	random func() string
	now    func() time.Time
}

func NewOrderNumberGenerator(repo orderNumberChecker) *OrderNumberGenerator {
	random, err := nanoid.CustomASCII(orderNumberAlphabet, 10)
	if err != nil {
		panic(err)
	}
	return &OrderNumberGenerator{repo: repo, random: random, now: time.Now}
}

func (g *OrderNumberGenerator) Next(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		candidate := orderNumberPrefix + g.random()
		exists, err := g.repo.ExistsOrderNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		slog.Warn("order number collision", "candidate", candidate, "attempt", attempt)
	}
	// go-nanoid never returns for lengths under 5, so the suffix is cut from a full draw
	return fmt.Sprintf("%s%d-%s", orderNumberPrefix, g.now().UnixMilli(), g.random()[:fallbackSuffixLen]), nil
}
