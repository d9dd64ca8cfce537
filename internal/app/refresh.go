package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher requests a new quote on a cron schedule.
type Refresher struct {
	cron     *cron.Cron
	schedule string
	ctx      context.Context
	logger   *slog.Logger
}

// NewRefresher parses a standard cron spec or descriptor such as "@every 5m"
// and schedules refresh on it. A dropped refresh is logged and skipped.
func NewRefresher(schedule string, refresh func(context.Context) bool, logger *slog.Logger) (*Refresher, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing refresh schedule %q: %w", schedule, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	r := &Refresher{
		cron:     cron.New(),
		schedule: schedule,
		ctx:      context.Background(),
		logger:   logger.With(slog.String("component", "app.Refresher")),
	}

	r.cron.Schedule(sched, cron.FuncJob(func() {
		ctx := r.ctx
		if !refresh(ctx) {
			r.logger.DebugContext(ctx, "scheduled refresh dropped")
		}
	}))

	return r, nil
}

// Start runs the schedule until ctx is done or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.ctx = ctx
	r.logger.InfoContext(ctx, "refresh schedule started", slog.String("schedule", r.schedule))
	r.cron.Start()

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
