package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingExpirer struct {
	ticks atomic.Int32
}

func (c *countingExpirer) ExpirePendingBookings(ctx context.Context) (int, error) {
	c.ticks.Add(1)
	return 0, nil
}

func TestSchedulerTicksUntilCancelled(t *testing.T) {
	sweep := &countingExpirer{}
	s := New(sweep, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sweep.ticks.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("scheduler never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop on cancel")
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(&countingExpirer{}, 0)
	if s.Interval != time.Minute {
		t.Fatalf("expected default interval 1m, got %s", s.Interval)
	}
}
