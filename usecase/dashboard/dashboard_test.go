package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/repository"
)

type fakeSource struct {
	customers []domain.Customer
	products  []domain.Product
	orders    []domain.Order

	customersErr error
	productsErr  error
	ordersErr    error

	calls atomic.Int32
}

func (f *fakeSource) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	f.calls.Add(1)
	return f.customers, f.customersErr
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.calls.Add(1)
	return f.products, f.productsErr
}

func (f *fakeSource) ListOrders(ctx context.Context) ([]domain.Order, error) {
	f.calls.Add(1)
	return f.orders, f.ordersErr
}

type fakeCache struct {
	mu       sync.Mutex
	snapshot *domain.Snapshot
	setErr   error
}

func (c *fakeCache) Get(ctx context.Context) (*domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	copied := *c.snapshot
	return &copied, nil
}

func (c *fakeCache) Set(ctx context.Context, snapshot *domain.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	copied := *snapshot
	c.snapshot = &copied
	return nil
}

type fakeRecorder struct {
	recorded []domain.Snapshot
	err      error
}

func (r *fakeRecorder) RecordSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.recorded = append(r.recorded, *snapshot)
	return nil
}

type fakeHistory struct {
	snapshots []domain.Snapshot
	filter    repository.SnapshotFilter
}

func (h *fakeHistory) Save(ctx context.Context, snapshot *domain.Snapshot) error { return nil }

func (h *fakeHistory) Latest(ctx context.Context) (*domain.Snapshot, error) {
	if len(h.snapshots) == 0 {
		return nil, domain.ErrSnapshotNotFound
	}
	latest := h.snapshots[0]
	return &latest, nil
}

func (h *fakeHistory) List(ctx context.Context, filter repository.SnapshotFilter) ([]domain.Snapshot, error) {
	h.filter = filter
	return h.snapshots, nil
}

func sampleSource() *fakeSource {
	return &fakeSource{
		customers: []domain.Customer{{ID: 1, Active: true}, {ID: 2}, {ID: 3, Deleted: true}},
		products:  []domain.Product{{ID: 1, QuantityInStock: 2}, {ID: 2, QuantityInStock: 50}},
		orders: []domain.Order{
			{Status: domain.OrderPending, TotalAmount: decimal.NewFromInt(100)},
			{Status: domain.OrderCancelled, TotalAmount: decimal.NewFromInt(50)},
			{Status: domain.OrderDelivered, TotalAmount: decimal.NewFromInt(200)},
		},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	source := sampleSource()
	cache := &fakeCache{}
	recorder := &fakeRecorder{}
	uc := New(source, nil, WithCache(cache), WithRecorder(recorder), WithClock(fixedClock()))

	snapshot, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if source.calls.Load() != 3 {
		t.Fatalf("expected three fetches, got %d", source.calls.Load())
	}

	want := domain.Stats{
		TotalCustomers:   2,
		ActiveCustomers:  1,
		TotalProducts:    2,
		LowStockProducts: 1,
		TotalOrders:      3,
		PendingOrders:    1,
		DeliveredOrders:  1,
		CancelledOrders:  1,
		TotalRevenue:     decimal.NewFromInt(300),
	}
	if !snapshot.Stats.Equal(want) {
		t.Fatalf("stats: got %+v, want %+v", snapshot.Stats, want)
	}
	if snapshot.ID == "" || snapshot.ComputedAt.IsZero() {
		t.Fatalf("snapshot metadata missing: %+v", snapshot)
	}
	if uc.Current().ID != snapshot.ID {
		t.Fatalf("current snapshot not published")
	}
	if cache.snapshot == nil || cache.snapshot.ID != snapshot.ID {
		t.Fatalf("cache not written")
	}
	if len(recorder.recorded) != 1 {
		t.Fatalf("history not recorded")
	}
	if uc.State().Stale {
		t.Fatalf("state should not be stale after success")
	}
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	source := sampleSource()
	uc := New(source, nil, WithClock(fixedClock()))

	first, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	source.customers = append(source.customers, domain.Customer{ID: 9, Active: true})
	source.ordersErr = errors.New("connection refused")

	got, err := uc.Refresh(context.Background())
	if err == nil {
		t.Fatalf("expected failure")
	}
	if got.ID != first.ID || !got.Stats.Equal(first.Stats) {
		t.Fatalf("expected previous snapshot back, got %+v", got)
	}
	if current := uc.Current(); current.ID != first.ID || !current.Stats.Equal(first.Stats) {
		t.Fatalf("published snapshot changed after failure: %+v", current)
	}

	state := uc.State()
	if !state.Stale || state.LastError == "" || state.FailedAt.IsZero() {
		t.Fatalf("expected stale state, got %+v", state)
	}
}

func TestRefreshFailureBeforeFirstSuccessLeavesZeroStats(t *testing.T) {
	source := sampleSource()
	source.productsErr = errors.New("timeout")
	recorder := &fakeRecorder{}
	uc := New(source, nil, WithRecorder(recorder))

	if _, err := uc.Refresh(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}
	if !uc.Current().IsZero() || !uc.Current().Stats.Equal(domain.Stats{}) {
		t.Fatalf("expected zero snapshot, got %+v", uc.Current())
	}
	if len(recorder.recorded) != 0 {
		t.Fatalf("failed cycle must not be recorded")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	uc := New(sampleSource(), nil)
	first, _ := uc.Refresh(context.Background())
	second, _ := uc.Refresh(context.Background())
	if !first.Stats.Equal(second.Stats) {
		t.Fatalf("expected equal stats, got %+v and %+v", first.Stats, second.Stats)
	}
}

func TestPublishErrorsDoNotFailRefresh(t *testing.T) {
	cache := &fakeCache{setErr: errors.New("redis down")}
	recorder := &fakeRecorder{err: errors.New("postgres down")}
	uc := New(sampleSource(), nil, WithCache(cache), WithRecorder(recorder))

	if _, err := uc.Refresh(context.Background()); err != nil {
		t.Fatalf("side-channel errors must not fail the cycle: %v", err)
	}
	if uc.Current().IsZero() {
		t.Fatalf("snapshot should be published")
	}
}

func TestStatsRunsInitialLoadOnce(t *testing.T) {
	source := sampleSource()
	uc := New(source, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.Stats(context.Background())
		}()
	}
	wg.Wait()

	if calls := source.calls.Load(); calls != 3 {
		t.Fatalf("expected a single load cycle, got %d fetches", calls)
	}
	if state := uc.Stats(context.Background()); state.Snapshot.Stats.TotalOrders != 3 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestStatsReportsStaleOnInitialFailure(t *testing.T) {
	source := sampleSource()
	source.customersErr = errors.New("boom")
	uc := New(source, nil)

	state := uc.Stats(context.Background())
	if !state.Stale || !state.Snapshot.IsZero() {
		t.Fatalf("expected stale zero state, got %+v", state)
	}
}

func TestWarmFromCache(t *testing.T) {
	cached := domain.Snapshot{
		ID:         "cached",
		Stats:      domain.Stats{TotalOrders: 4, TotalRevenue: decimal.NewFromInt(10)},
		ComputedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	cache := &fakeCache{snapshot: &cached}
	source := sampleSource()
	uc := New(source, nil, WithCache(cache))

	if !uc.Warm(context.Background()) {
		t.Fatalf("expected warm to succeed")
	}
	if uc.Current().ID != "cached" {
		t.Fatalf("unexpected current %+v", uc.Current())
	}

	uc.Stats(context.Background())
	if source.calls.Load() != 0 {
		t.Fatalf("warm snapshot should satisfy the initial load")
	}
}

func TestWarmWithoutCache(t *testing.T) {
	uc := New(sampleSource(), nil)
	if uc.Warm(context.Background()) {
		t.Fatalf("warm without cache should be a no-op")
	}
	empty := New(sampleSource(), nil, WithCache(&fakeCache{}))
	if empty.Warm(context.Background()) {
		t.Fatalf("warm with empty cache should be a no-op")
	}
}

func TestWarmFallsBackToHistory(t *testing.T) {
	stored := domain.Snapshot{
		ID:         "from-history",
		Stats:      domain.Stats{TotalOrders: 9, TotalRevenue: decimal.NewFromInt(90)},
		ComputedAt: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	history := &fakeHistory{snapshots: []domain.Snapshot{stored}}

	for name, opts := range map[string][]Option{
		"no cache":    {WithHistory(history)},
		"empty cache": {WithHistory(history), WithCache(&fakeCache{})},
	} {
		t.Run(name, func(t *testing.T) {
			uc := New(sampleSource(), nil, opts...)
			if !uc.Warm(context.Background()) {
				t.Fatalf("expected warm from history")
			}
			if uc.Current().ID != "from-history" || uc.Current().Stats.TotalOrders != 9 {
				t.Fatalf("unexpected current %+v", uc.Current())
			}
		})
	}

	cached := domain.Snapshot{ID: "cached", ComputedAt: stored.ComputedAt.Add(time.Hour)}
	uc := New(sampleSource(), nil, WithHistory(history), WithCache(&fakeCache{snapshot: &cached}))
	if !uc.Warm(context.Background()) || uc.Current().ID != "cached" {
		t.Fatalf("cache should win over history, got %+v", uc.Current())
	}

	empty := New(sampleSource(), nil, WithHistory(&fakeHistory{}))
	if empty.Warm(context.Background()) {
		t.Fatalf("warm with empty history should be a no-op")
	}
}

// gatedSource blocks the first orders fetch until release is closed and then
// fails it; later fetches succeed immediately.
type gatedSource struct {
	*fakeSource
	entered chan struct{}
	release chan struct{}
	first   atomic.Bool
}

func (g *gatedSource) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if g.first.CompareAndSwap(false, true) {
		close(g.entered)
		<-g.release
		return nil, errors.New("read timeout")
	}
	return g.fakeSource.ListOrders(ctx)
}

func TestLateFailureOfOlderCycleDoesNotMarkStale(t *testing.T) {
	source := &gatedSource{
		fakeSource: sampleSource(),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	var tick atomic.Int64
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return base.Add(time.Duration(tick.Add(1)) * time.Second) }
	uc := New(source, nil, WithClock(clock))

	slow := make(chan error, 1)
	go func() {
		_, err := uc.Refresh(context.Background())
		slow <- err
	}()
	<-source.entered

	fresh, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("newer cycle: %v", err)
	}
	close(source.release)
	if err := <-slow; err == nil {
		t.Fatalf("older cycle should report its failure")
	}

	state := uc.State()
	if state.Stale || state.LastError != "" {
		t.Fatalf("superseded failure marked the dashboard stale: %+v", state)
	}
	if state.Snapshot.ID != fresh.ID {
		t.Fatalf("published snapshot changed: %+v", state.Snapshot)
	}
}

func TestHistory(t *testing.T) {
	uc := New(sampleSource(), nil)
	if _, err := uc.History(context.Background(), repository.SnapshotFilter{}); !errors.Is(err, domain.ErrHistoryDisabled) {
		t.Fatalf("expected ErrHistoryDisabled, got %v", err)
	}

	history := &fakeHistory{snapshots: []domain.Snapshot{{ID: "a"}, {ID: "b"}}}
	uc = New(sampleSource(), nil, WithHistory(history))
	got, err := uc.History(context.Background(), repository.SnapshotFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 2 || history.filter.Limit != 2 || history.filter.Offset != 4 {
		t.Fatalf("unexpected history result %v filter %+v", got, history.filter)
	}
}
