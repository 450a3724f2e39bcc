package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/domain"
)

// Refresher is satisfied by the dashboard use case.
type Refresher interface {
	Refresh(ctx context.Context) (domain.Snapshot, error)
}

// RefreshScheduler reloads the dashboard on a fixed interval so readers
// are served from memory.
type RefreshScheduler struct {
	target   Refresher
	interval time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewRefreshScheduler returns nil when interval is zero, leaving refreshes on demand.
func NewRefreshScheduler(target Refresher, interval, timeout time.Duration, logger *zap.Logger) *RefreshScheduler {
	if target == nil || interval <= 0 {
		return nil
	}
	if interval < time.Second {
		interval = time.Second
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &RefreshScheduler{
		target:   target,
		interval: interval,
		timeout:  timeout,
		logger:   logger.Named("refresh"),
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	rs.cron.Schedule(Every(interval), cron.FuncJob(rs.run))
	return rs
}

func (rs *RefreshScheduler) Start() {
	if rs == nil {
		return
	}
	rs.cron.Start()
	rs.logger.Info("scheduled refresh started", zap.Duration("interval", rs.interval))
}

func (rs *RefreshScheduler) Stop(ctx context.Context) {
	if rs == nil {
		return
	}
	stopCtx := rs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rs.logger.Info("scheduled refresh stopped")
}

func (rs *RefreshScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()
	// failures are logged by the dashboard and the previous snapshot stays published
	_, _ = rs.target.Refresh(ctx)
}
