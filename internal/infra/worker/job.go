package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"customer-offers/internal/usecase/campaign"
)

// CampaignRunner runs one campaign over every active product.
// *campaign.Service satisfies it.
type CampaignRunner interface {
	Run(ctx context.Context) (*campaign.Stats, error)
}

// CampaignJob is the cron entry that runs a campaign under a deadline and
// records the outcome in WorkerMetrics. At most one campaign runs at a time,
// whether started by the scheduler or directly.
type CampaignJob struct {
	runner  CampaignRunner
	timeout time.Duration
	metrics *WorkerMetrics
	logger  *slog.Logger

	mu      sync.Mutex
	running chan struct{} // closed when the current run returns
	stopped bool
}

// NewCampaignJob creates a CampaignJob.
func NewCampaignJob(runner CampaignRunner, timeout time.Duration, metrics *WorkerMetrics, logger *slog.Logger) *CampaignJob {
	return &CampaignJob{runner: runner, timeout: timeout, metrics: metrics, logger: logger}
}

// Run executes one campaign. It never panics the scheduler: failures are
// logged and counted.
func (j *CampaignJob) Run() {
	j.mu.Lock()
	if j.stopped || j.running != nil {
		stopped := j.stopped
		j.mu.Unlock()
		j.metrics.RecordJobRun("skipped")
		j.logger.Warn("campaign skipped", slog.Bool("stopped", stopped))
		return
	}
	done := make(chan struct{})
	j.running = done
	j.mu.Unlock()
	defer func() {
		j.mu.Lock()
		j.running = nil
		j.mu.Unlock()
		close(done)
	}()

	start := time.Now()
	j.metrics.RecordJobRun("started")
	j.logger.Info("campaign started")

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	stats, err := j.runner.Run(ctx)
	j.metrics.RecordJobDuration(time.Since(start).Seconds())
	if err != nil {
		j.metrics.RecordJobRun("failure")
		j.logger.Error("campaign failed", slog.Any("error", err))
		return
	}

	j.metrics.RecordJobRun("success")
	j.metrics.RecordProductsProcessed(stats.Products)
	j.metrics.RecordOffersPrepared(stats.Offers)
	j.metrics.RecordLastSuccess()

	j.logger.Info("campaign completed",
		slog.Int("products", stats.Products),
		slog.Int64("offers", stats.Offers),
		slog.Int64("empty", stats.Empty),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
}

// Stop prevents further runs and waits for the current one to return, or
// for ctx to expire.
func (j *CampaignJob) Stop(ctx context.Context) error {
	j.mu.Lock()
	j.stopped = true
	done := j.running
	j.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewScheduler registers job on cfg.CronSchedule in cfg's timezone.
// Overlapping runs are skipped rather than queued. The returned scheduler
// is not started.
func NewScheduler(cfg *WorkerConfig, job *CampaignJob, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddJob(cfg.CronSchedule, cron.FuncJob(job.Run)); err != nil {
		return nil, err
	}
	logger.Info("campaign scheduled",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))
	return c, nil
}
