package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/smartcity/corridor/internal/domain"
)

// PublishObserver is notified after every publish attempt
type PublishObserver interface {
	Published(sink string, elapsed time.Duration, err error)
}

// Refresher regenerates the dashboard on a fixed cadence and pushes
// each snapshot to every configured publisher.
type Refresher struct {
	svc        *DashboardService
	publishers []SnapshotPublisher
	interval   time.Duration
	timeout    time.Duration
	log        *slog.Logger
	obs        PublishObserver

	wg sync.WaitGroup
}

// NewRefresher creates a new refresher
func NewRefresher(
	svc *DashboardService,
	publishers []SnapshotPublisher,
	interval, timeout time.Duration,
	log *slog.Logger,
	obs PublishObserver,
) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = interval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{
		svc:        svc,
		publishers: publishers,
		interval:   interval,
		timeout:    timeout,
		log:        log,
		obs:        obs,
	}
}

// Start publishes one snapshot immediately and then one per interval
// until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	t := time.NewTicker(r.interval)
	r.log.Info("refresh loop started", "interval", r.interval.String(), "publishers", len(r.publishers))
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer t.Stop()
		_ = r.Tick(ctx)
		for {
			select {
			case <-t.C:
				_ = r.Tick(ctx)
			case <-ctx.Done():
				r.log.Info("refresh loop stopped")
				return
			}
		}
	}()
}

// Wait blocks until the refresh loop has exited.
// Call during graceful shutdown after cancelling the Start context.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

// Tick builds one snapshot and publishes it to every sink concurrently.
// A failing sink does not stop the others; all failures are returned joined.
func (r *Refresher) Tick(ctx context.Context) error {
	snap := domain.Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: r.svc.now(),
		Dashboard:   r.svc.GetDashboardData(),
	}
	if len(r.publishers) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// sinks fail independently: each error is kept per sink and joined,
	// so the group never cancels or short-circuits the others
	errs := make([]error, len(r.publishers))
	var g errgroup.Group
	for i, p := range r.publishers {
		g.Go(func() error {
			start := time.Now()
			err := p.Publish(ctx, snap)
			if r.obs != nil {
				r.obs.Published(p.Name(), time.Since(start), err)
			}
			if err != nil {
				r.log.Error("snapshot publish failed", "sink", p.Name(), "snapshot", snap.ID, "err", err)
				errs[i] = err
				return nil
			}
			r.log.Debug("snapshot published", "sink", p.Name(), "snapshot", snap.ID)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
