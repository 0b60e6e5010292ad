package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pruner deletes audit entries older than days across all organisations.
type Pruner interface {
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// Retention runs audit log pruning on a cron schedule.
type Retention struct {
	cron    *cron.Cron
	pruner  Pruner
	days    int
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRetention schedules pruning of entries older than days at spec (standard
// five-field cron). Start must be called to begin running.
func NewRetention(pruner Pruner, days int, spec string, logger zerolog.Logger) (*Retention, error) {
	r := &Retention{
		cron:    cron.New(),
		pruner:  pruner,
		days:    days,
		timeout: 5 * time.Minute,
		logger:  logger.With().Str("component", "retention").Logger(),
	}
	if _, err := r.cron.AddFunc(spec, r.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}
	return r, nil
}

// RunOnce prunes immediately. Errors are logged; the next run retries.
func (r *Retention) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	n, err := r.pruner.PruneOlderThan(ctx, r.days)
	if err != nil {
		r.logger.Error().Err(err).Int("deleted", n).Msg("retention run failed")
		return
	}
	r.logger.Info().Int("deleted", n).Dur("took", time.Since(start)).Msg("retention run complete")
}

func (r *Retention) Start() {
	r.cron.Start()
	r.logger.Info().Int("days", r.days).Msg("retention scheduler started")
}

// Stop waits for a running job to finish or ctx to end.
func (r *Retention) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}
