package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/logger"
	"github.com/fastygo/orderflow-dashboard/repository"
	"github.com/fastygo/orderflow-dashboard/usecase"
)

// Source is the read side of the upstream API needed for one load cycle.
type Source interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// State is what the dashboard endpoint renders: the published snapshot plus
// whether the most recent load cycle failed.
type State struct {
	Snapshot  domain.Snapshot
	Stale     bool
	LastError string
	FailedAt  time.Time
}

type UseCase struct {
	source   Source
	cache    repository.SnapshotCache
	recorder usecase.SnapshotRecorder
	history  repository.SnapshotRepository
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	current  domain.Snapshot
	lastErr  error
	failedAt time.Time
	loadMu   sync.Mutex
}

// Option customises optional collaborators.
type Option func(*UseCase)

func WithCache(cache repository.SnapshotCache) Option {
	return func(uc *UseCase) { uc.cache = cache }
}

func WithRecorder(recorder usecase.SnapshotRecorder) Option {
	return func(uc *UseCase) { uc.recorder = recorder }
}

func WithHistory(history repository.SnapshotRepository) Option {
	return func(uc *UseCase) { uc.history = history }
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

func New(source Source, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		source: source,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Refresh runs one load cycle. The three collections are fetched
// concurrently; if any fetch fails the cycle is abandoned and the previously
// published snapshot stays in place.
func (uc *UseCase) Refresh(ctx context.Context) (domain.Snapshot, error) {
	log := logger.WithRequestID(ctx, uc.logger)
	started := uc.now()

	var (
		customers []domain.Customer
		products  []domain.Product
		orders    []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = uc.source.ListCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = uc.source.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = uc.source.ListOrders(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		uc.mu.Lock()
		previous := uc.current
		superseded := started.Before(previous.ComputedAt)
		if !superseded {
			uc.lastErr = err
			uc.failedAt = uc.now()
		}
		uc.mu.Unlock()

		if superseded {
			log.Warn("dashboard load cycle failed after a newer cycle published",
				zap.Time("started_at", started),
				zap.Time("previous_computed_at", previous.ComputedAt),
				zap.Error(err))
			return previous, err
		}
		log.Error("dashboard load cycle failed; keeping previous snapshot",
			zap.Time("previous_computed_at", previous.ComputedAt),
			zap.Error(err))
		return previous, err
	}

	snapshot := domain.Snapshot{
		ID:         uuid.NewString(),
		Stats:      domain.Aggregate(customers, products, orders),
		ComputedAt: uc.now().UTC(),
	}

	uc.mu.Lock()
	uc.current = snapshot
	uc.lastErr = nil
	uc.failedAt = time.Time{}
	uc.mu.Unlock()

	log.Info("dashboard snapshot published",
		zap.String("snapshot_id", snapshot.ID),
		zap.Int("customers", len(customers)),
		zap.Int("products", len(products)),
		zap.Int("orders", len(orders)),
		zap.Duration("elapsed", uc.now().Sub(started)))

	uc.publish(ctx, log, &snapshot)
	return snapshot, nil
}

// Current returns the last published snapshot; zero before the first success.
func (uc *UseCase) Current() domain.Snapshot {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.current
}

// State returns the published snapshot with the outcome of the latest cycle.
func (uc *UseCase) State() State {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	state := State{Snapshot: uc.current, Stale: uc.lastErr != nil, FailedAt: uc.failedAt}
	if uc.lastErr != nil {
		state.LastError = uc.lastErr.Error()
	}
	return state
}

// Stats performs the initial load when nothing has been published yet and
// then returns the current state. A failed initial load is logged by Refresh
// and reported through State.Stale rather than as an error.
func (uc *UseCase) Stats(ctx context.Context) State {
	if uc.Current().IsZero() {
		uc.loadMu.Lock()
		if uc.Current().IsZero() {
			_, _ = uc.Refresh(ctx)
		}
		uc.loadMu.Unlock()
	}
	return uc.State()
}

// Warm seeds the published snapshot from the shared cache, or from the
// newest history row when the cache is disabled or empty, so a restarted
// replica serves the last known numbers before its first load cycle.
func (uc *UseCase) Warm(ctx context.Context) bool {
	last, origin := uc.lastKnown(ctx)
	if last == nil {
		return false
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.current.IsZero() && !last.ComputedAt.After(uc.current.ComputedAt) {
		return false
	}
	uc.current = *last
	uc.logger.Info("dashboard warmed",
		zap.String("snapshot_id", last.ID),
		zap.String("origin", origin),
		zap.Time("computed_at", last.ComputedAt))
	return true
}

func (uc *UseCase) lastKnown(ctx context.Context) (*domain.Snapshot, string) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx)
		if err == nil {
			return cached, "cache"
		}
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
	}
	if uc.history != nil {
		latest, err := uc.history.Latest(ctx)
		if err == nil {
			return latest, "history"
		}
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Warn("snapshot history read failed", zap.Error(err))
		}
	}
	return nil, ""
}

// History lists previously published snapshots, newest first.
func (uc *UseCase) History(ctx context.Context, filter repository.SnapshotFilter) ([]domain.Snapshot, error) {
	if uc.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return uc.history.List(ctx, filter)
}

func (uc *UseCase) publish(ctx context.Context, log *zap.Logger, snapshot *domain.Snapshot) {
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, snapshot); err != nil {
			log.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	if uc.recorder != nil {
		if err := uc.recorder.RecordSnapshot(ctx, snapshot); err != nil {
			log.Warn("snapshot history write failed", zap.Error(err))
		}
	}
}
