package service

import (
	"context"
	"log"
	"time"
)

// OverdueWatcher periodically runs the overdue scanner and logs holds
// past their threshold, so overdue assets show up in the server log even
// when no dashboard is polling. It runs as a background goroutine and is
// safe to stop via its context or the Stop method.
//
// An interval of 0 disables the watcher entirely.
type OverdueWatcher struct {
	scanner  *OverdueScanner
	interval time.Duration
	logger   *log.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewOverdueWatcher creates a watcher but does not start it.
// Call Start to begin the background loop.
func NewOverdueWatcher(scanner *OverdueScanner, interval time.Duration, logger *log.Logger) *OverdueWatcher {
	return &OverdueWatcher{
		scanner:  scanner,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the background loop. It runs an immediate sweep on
// startup, then repeats on the configured interval. The loop exits when
// ctx is cancelled or Stop is called.
func (w *OverdueWatcher) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Printf("overdue watcher disabled (interval=0)")
		close(w.done)
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)

	go w.loop(ctx)

	w.logger.Printf("overdue watcher started (interval=%s)", w.interval)
}

// Stop signals the watcher to exit and waits for it to finish.
func (w *OverdueWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.done
}

func (w *OverdueWatcher) loop(ctx context.Context) {
	defer close(w.done)

	// Sweep immediately on startup to surface any backlog.
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *OverdueWatcher) sweep(ctx context.Context) {
	alerts, err := w.scanner.Scan(ctx, time.Now().UTC())
	if err != nil {
		w.logger.Printf("overdue sweep error: %v", err)
		return
	}
	for _, a := range alerts {
		w.logger.Printf("overdue: asset=%s class=%s holder=%s out for %s",
			a.Transaction.AssetID, a.Transaction.AssetClass,
			a.Transaction.HolderOutID, a.Display)
	}
}
