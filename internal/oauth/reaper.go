package oauth

import (
	"context"
	"time"

	"linkmcp/pkg/logging"
)

// Sweepable is a store the reaper can clear expired entries from.
type Sweepable interface {
	SweepExpired() int
}

// Reaper periodically removes expired entries from the TTL-bound stores.
// It is owned by the process lifecycle and stops when its context is
// cancelled.
type Reaper struct {
	interval time.Duration
	stores   map[string]Sweepable
}

// NewReaper creates a reaper sweeping the named stores every interval.
func NewReaper(interval time.Duration, stores map[string]Sweepable) *Reaper {
	return &Reaper{interval: interval, stores: stores}
}

// Run sweeps on a fixed interval until ctx is cancelled. It blocks, so run
// it in its own goroutine.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-ctx.Done():
			logging.Debug("OAuth", "Reaper stopped")
			return
		}
	}
}

func (r *Reaper) sweep() {
	for name, store := range r.stores {
		if removed := store.SweepExpired(); removed > 0 {
			logging.Debug("OAuth", "Swept %d expired entries from %s", removed, name)
		}
	}
}
