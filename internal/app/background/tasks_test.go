package background

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	releasedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/release"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReleases struct {
	release.ReleaseUsecase
	limits   []int
	triggers []string
}

func (r *recordingReleases) ReleaseBatch(_ context.Context, limit int, trigger string) (*releasedto.BatchReport, error) {
	r.limits = append(r.limits, limit)
	r.triggers = append(r.triggers, trigger)
	return &releasedto.BatchReport{}, nil
}

type countingSeeder struct {
	dispute.DisputeUsecase
	calls int
}

func (s *countingSeeder) Seed(context.Context) (*disputedto.SeedOutput, error) {
	s.calls++
	return &disputedto.SeedOutput{Created: 3}, nil
}

func TestScheduledReleaseUsesSchedulerTrigger(t *testing.T) {
	releases := &recordingReleases{}
	bt := NewBackgroundTasks(releases, &countingSeeder{}, "@every 1h", 25)

	bt.runRelease(context.Background())

	assert.Equal(t, []int{25}, releases.limits)
	assert.Equal(t, []string{release.TriggerScheduler}, releases.triggers)
}

func TestReleaseSkippedAfterShutdown(t *testing.T) {
	releases := &recordingReleases{}
	bt := NewBackgroundTasks(releases, &countingSeeder{}, "@every 1h", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bt.runRelease(ctx)

	assert.Empty(t, releases.limits)
}

func TestStartAll(t *testing.T) {
	bt := NewBackgroundTasks(&recordingReleases{}, &countingSeeder{}, "", 10)
	require.NoError(t, bt.StartAll(context.Background()))

	bt = NewBackgroundTasks(&recordingReleases{}, &countingSeeder{}, "not a schedule", 10)
	assert.Error(t, bt.StartAll(context.Background()))

	bt = NewBackgroundTasks(&recordingReleases{}, &countingSeeder{}, "@every 1h", 10)
	require.NoError(t, bt.StartAll(context.Background()))
	bt.Stop()
}

func TestSeedDisputes(t *testing.T) {
	seeder := &countingSeeder{}
	bt := NewBackgroundTasks(&recordingReleases{}, seeder, "", 10)
	bt.SeedDisputes(context.Background())
	assert.Equal(t, 1, seeder.calls)
}
