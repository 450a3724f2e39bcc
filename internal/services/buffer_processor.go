package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/internal/infrastructure/buffer"
	"github.com/fastygo/orderflow-dashboard/repository"
)

// ConnectionHealth abstracts the connection monitor.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how often the buffer is drained and how long
// undeliverable snapshots are kept.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays buffered snapshots into the history database.
type BufferProcessor struct {
	store   *buffer.Store
	monitor ConnectionHealth
	history repository.SnapshotRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
	now     func() time.Time
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	history repository.SnapshotRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval < time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:   store,
		monitor: monitor,
		history: history,
		logger:  logger.Named("buffer"),
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
		now:     time.Now,
	}

	bp.cron.Schedule(Every(cfg.Interval), cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	}))
	_, _ = bp.cron.AddFunc("@hourly", func() {
		if err := bp.Cleanup(); err != nil {
			bp.logger.Error("buffer cleanup failed", zap.Error(err))
		}
	})

	return bp
}

func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain to finish or ctx to expire.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain writes one batch of buffered snapshots to the history database.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (history offline)")
		return nil
	}

	items, err := bp.store.Peek(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := bp.persist(ctx, item); err != nil {
			bp.logger.Error("failed to persist buffered snapshot",
				zap.String("item_id", item.ID),
				zap.Int("retries", item.Retries),
				zap.Error(err))

			if item.Retries+1 >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffered snapshot (max retries reached)", zap.String("item_id", item.ID))
				if err := bp.store.Remove(item); err != nil {
					bp.logger.Warn("failed to remove buffer item", zap.Error(err))
				}
				continue
			}
			if _, err := bp.store.Retry(item); err != nil {
				bp.logger.Error("failed to update buffer item", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge persisted buffer item", zap.Error(err))
		}
	}
	return nil
}

// Enqueue tries to persist immediately and falls back to the local buffer.
func (bp *BufferProcessor) Enqueue(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.monitor == nil || bp.monitor.IsOnline() {
		err := bp.persist(ctx, item)
		if err == nil {
			return nil
		}
		bp.logger.Warn("immediate persist failed, buffering", zap.String("item_id", item.ID), zap.Error(err))
	}
	return bp.store.Enqueue(item)
}

// Cleanup drops buffered snapshots older than the retention window.
func (bp *BufferProcessor) Cleanup() error {
	if bp == nil || bp.store == nil {
		return nil
	}
	removed, err := bp.store.Cleanup(bp.now().Add(-bp.cfg.Retention))
	if err != nil {
		return err
	}
	if removed > 0 {
		bp.logger.Info("expired buffered snapshots removed", zap.Int("count", removed))
	}
	return nil
}

func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) persist(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if bp.history == nil {
		return fmt.Errorf("history repository not configured")
	}
	snapshot, err := item.Snapshot()
	if err != nil {
		return err
	}
	return bp.history.Save(ctx, snapshot)
}
