package dispute

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

// Seed derives disputes from order state once, when the store is empty.
// Concurrent seeders are safe: conflicting rows are dropped by the unique keys.
func (uc *DefaultDisputeUsecase) Seed(ctx context.Context) (*disputedto.SeedOutput, error) {
	count, err := uc.DisputeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		slog.Debug("dispute store already populated, skipping seed", "disputes", count)
		return &disputedto.SeedOutput{Skipped: true}, nil
	}

	orders, err := uc.OrderRepo.ListForDerivation(ctx)
	if err != nil {
		return nil, err
	}
	derived := Derive(orders, uc.now(), uc.Sampler)
	if len(derived) == 0 {
		return &disputedto.SeedOutput{}, nil
	}

	inserted, err := uc.DisputeRepo.InsertIgnoreConflicts(ctx, derived)
	if err != nil {
		return nil, err
	}
	created := int64(len(inserted))
	if uc.Metrics != nil {
		for _, d := range inserted {
			uc.Metrics.RecordDisputeCreated(string(d.AnomalyType), domain.SourceSystem)
		}
	}
	slog.Info("disputes seeded", "orders", len(orders), "derived", len(derived), "created", created)
	return &disputedto.SeedOutput{Created: created}, nil
}
