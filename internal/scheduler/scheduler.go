package scheduler

import (
	"context"
	"fmt"
	"time"

	"ferryapp/internal/utils"
)

type expirer interface {
	ExpirePendingBookings(ctx context.Context) (int, error)
}

// Scheduler runs the expiration sweep on a fixed interval until its
// context is cancelled.
type Scheduler struct {
	Sweep    expirer
	Interval time.Duration
}

func New(sweep expirer, interval time.Duration) Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return Scheduler{Sweep: sweep, Interval: interval}
}

func (s Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	utils.LogEvent("", "scheduler", "start", fmt.Sprintf("interval=%s", s.Interval))

	for {
		select {
		case <-ctx.Done():
			utils.LogEvent("", "scheduler", "stop", "context cancelled")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s Scheduler) tick(ctx context.Context) {
	count, err := s.Sweep.ExpirePendingBookings(ctx)
	if err != nil {
		utils.LogEvent("", "scheduler", "sweep", "error: "+err.Error())
		return
	}
	if count > 0 {
		utils.LogEvent("", "scheduler", "sweep", fmt.Sprintf("expired=%d", count))
	}
}
