package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/logging"
)

// Warmer fills the state metadata cache.
type Warmer interface {
	WarmCache(ctx context.Context) (int, error)
}

// CacheWarmer re-runs Warmer on a fixed interval, so a store that was down
// at startup fills the cache once it is back.
type CacheWarmer struct {
	scheduler gocron.Scheduler
	warmer    Warmer
	log       *zap.Logger
	runs      atomic.Int64
}

// NewCacheWarmer schedules w every interval, starting immediately once Start is called.
func NewCacheWarmer(w Warmer, interval time.Duration, log *zap.Logger) (*CacheWarmer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("cache warm interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	c := &CacheWarmer{
		scheduler: scheduler,
		warmer:    w,
		log:       logging.OrNop(log).Named("jobs"),
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { c.run(context.Background()) }),
		gocron.WithName("cache_warm"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule cache warm job: %w", err)
	}
	return c, nil
}

func (c *CacheWarmer) run(ctx context.Context) {
	c.runs.Add(1)
	added, err := c.warmer.WarmCache(ctx)
	if err != nil {
		c.log.Warn("cache warm failed", zap.Error(err))
		return
	}
	if added > 0 {
		c.log.Info("cache warm added entries", zap.Int("added", added))
	}
}

// Runs reports how many times the job has fired.
func (c *CacheWarmer) Runs() int64 { return c.runs.Load() }

// Start starts the scheduler.
func (c *CacheWarmer) Start() {
	c.scheduler.Start()
	c.log.Info("cache warm job started")
}

// Stop shuts the scheduler down, waiting for a running warm to finish.
func (c *CacheWarmer) Stop() error {
	return c.scheduler.Shutdown()
}
