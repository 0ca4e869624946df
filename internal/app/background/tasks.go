package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/release"
	"github.com/robfig/cron/v3"
)

const runTimeout = 10 * time.Minute

// BackgroundTasks owns the scheduled release batch and the boot-time dispute seed.
type BackgroundTasks struct {
	ReleaseUsecase release.ReleaseUsecase
	DisputeUsecase dispute.DisputeUsecase
	Schedule       string
	BatchLimit     int

	cron *cron.Cron
}

func NewBackgroundTasks(releaseUC release.ReleaseUsecase, disputeUC dispute.DisputeUsecase, schedule string, batchLimit int) *BackgroundTasks {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	return &BackgroundTasks{
		ReleaseUsecase: releaseUC,
		DisputeUsecase: disputeUC,
		Schedule:       schedule,
		BatchLimit:     batchLimit,
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(logger), cron.Recover(logger))),
	}
}

// StartAll registers the release job when a schedule is configured. An empty
// schedule leaves releases to operators and buyers.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	if bt.Schedule == "" {
		slog.Info("release schedule not configured, scheduled releases disabled")
		return nil
	}
	if _, err := bt.cron.AddFunc(bt.Schedule, func() { bt.runRelease(ctx) }); err != nil {
		return err
	}
	slog.Info("scheduled release batch", "schedule", bt.Schedule, "limit", bt.BatchLimit)
	bt.cron.Start()
	return nil
}

// Stop waits for a running batch to finish.
func (bt *BackgroundTasks) Stop() {
	<-bt.cron.Stop().Done()
}

func (bt *BackgroundTasks) runRelease(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	report, err := bt.ReleaseUsecase.ReleaseBatch(ctx, bt.BatchLimit, release.TriggerScheduler)
	if err != nil {
		slog.Error("scheduled release batch failed", "error", err)
		return
	}
	if report.Failed > 0 {
		slog.Warn("scheduled release batch had failures", "released", report.Released, "failed", report.Failed, "skipped", report.Skipped)
	}
}

// SeedDisputes derives disputes from order state once at boot.
func (bt *BackgroundTasks) SeedDisputes(ctx context.Context) {
	out, err := bt.DisputeUsecase.Seed(ctx)
	if err != nil {
		slog.Error("dispute seed failed", "error", err)
		return
	}
	if !out.Skipped {
		slog.Info("dispute seed finished", "created", out.Created)
	}
}
