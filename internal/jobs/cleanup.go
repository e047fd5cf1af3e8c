package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type CleanupService struct {
	jobService JobService
	interval   time.Duration
	maxAge     time.Duration
	log        zerolog.Logger
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func NewCleanupService(jobService JobService, interval, maxAge time.Duration, log zerolog.Logger) *CleanupService {
	return &CleanupService{
		jobService: jobService,
		interval:   interval,
		maxAge:     maxAge,
		log:        log.With().Str("component", "cleanup").Logger(),
		stopCh:     make(chan struct{}),
	}
}

// Start bloque jusqu'à l'annulation du contexte ou l'appel à Stop
func (c *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.Info().Dur("interval", c.interval).Dur("max_age", c.maxAge).Msg("Cleanup service started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("Cleanup service stopped due to context cancellation")
			return
		case <-c.stopCh:
			c.log.Info().Msg("Cleanup service stopped")
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce évince immédiatement les jobs expirés
func (c *CleanupService) RunOnce(ctx context.Context) int64 {
	deleted, err := c.jobService.CleanupOldJobs(ctx, c.maxAge)
	if err != nil {
		c.log.Error().Err(err).Msg("Cleanup error")
		return 0
	}
	if deleted > 0 {
		c.log.Info().Int64("deleted", deleted).Msg("Cleanup completed")
	}
	return deleted
}

func (c *CleanupService) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}
