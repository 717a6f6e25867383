package worker

import (
	"context"
	"log/slog"
	"time"
)

// Sweepable drops entries that expired before now and reports how many went.
type Sweepable interface {
	Sweep(now time.Time) int
}

// SweepWorker periodically evicts expired rate-limit windows and orders so
// in-memory stores do not grow without bound.
type SweepWorker struct {
	targets  map[string]Sweepable
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewSweepWorker(interval time.Duration, logger *slog.Logger) *SweepWorker {
	return &SweepWorker{
		targets:  make(map[string]Sweepable),
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Add registers a store under a name used in logs. Call before Start.
func (w *SweepWorker) Add(name string, target Sweepable) {
	w.targets[name] = target
}

func (w *SweepWorker) Start(ctx context.Context) {
	if len(w.targets) == 0 {
		return
	}

	w.logger.Info("sweep worker started", "interval", w.interval, "targets", len(w.targets))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopping")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SweepWorker) sweep() int {
	now := w.now()
	total := 0

	for name, target := range w.targets {
		removed := target.Sweep(now)
		if removed > 0 {
			w.logger.Debug("swept expired entries", "store", name, "removed", removed)
		}
		total += removed
	}

	return total
}
