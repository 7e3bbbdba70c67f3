// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often expired sessions are purged when the
// caller does not configure an interval.
const DefaultSweepInterval = 10 * time.Minute

// Sweeper periodically removes expired sessions from storage.
type Sweeper struct {
	store    *SessionStore
	interval time.Duration
	logger   *slog.Logger
	onSwept  func(count int64)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a session sweeper. interval <= 0 uses
// DefaultSweepInterval. onSwept, if non-nil, is called after each cycle
// that removed at least one session (typically to record a metric).
func NewSweeper(store *SessionStore, interval time.Duration, onSwept func(count int64)) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   slog.Default(),
		onSwept:  onSwept,
	}
}

// RunOnce executes a single sweep cycle.
func (w *Sweeper) RunOnce(ctx context.Context) error {
	count, err := w.store.Sweep(ctx)
	if err != nil {
		w.logger.Error("session sweep failed", "error", err)
		return err
	}
	if count > 0 {
		w.logger.Info("swept expired sessions", "count", count)
		if w.onSwept != nil {
			w.onSwept(count)
		}
	}
	return nil
}

// Start begins periodic sweeping until Stop is called or ctx is cancelled.
func (w *Sweeper) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the sweeper and waits for the sweep goroutine to exit.
func (w *Sweeper) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Sweeper) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately so restarts do not leave stale rows around
	// for a full interval.
	//nolint:errcheck // RunOnce logs its own failures
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			//nolint:errcheck // RunOnce logs its own failures
			w.RunOnce(ctx)
		}
	}
}
