package buffer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot(id string, revenue int64) *domain.Snapshot {
	return &domain.Snapshot{
		ID:         id,
		Stats:      domain.Stats{TotalOrders: 2, TotalRevenue: decimal.NewFromInt(revenue)},
		ComputedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEnqueuePeekOldestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"b", "a", "c"} {
		item, err := NewSnapshotItem(testSnapshot(id, int64(i)))
		if err != nil {
			t.Fatalf("item: %v", err)
		}
		item.QueuedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Enqueue(item); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	items, err := store.Peek(2)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("unexpected order: %+v", items)
	}

	snapshot, err := items[0].Snapshot()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !snapshot.Stats.TotalRevenue.Equal(decimal.Zero) || snapshot.Stats.TotalOrders != 2 {
		t.Fatalf("payload mismatch: %+v", snapshot)
	}

	if err := store.Remove(items[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if size, _ := store.Size(); size != 2 {
		t.Fatalf("size after remove = %d", size)
	}
}

func TestRetryKeepsPosition(t *testing.T) {
	store := openTestStore(t)
	item, _ := NewSnapshotItem(testSnapshot("s1", 10))
	if err := store.Enqueue(item); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	items, _ := store.Peek(10)
	updated, err := store.Retry(items[0])
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if updated.Retries != 1 {
		t.Fatalf("retries = %d", updated.Retries)
	}

	items, _ = store.Peek(10)
	if len(items) != 1 || items[0].Retries != 1 {
		t.Fatalf("expected single retried item, got %+v", items)
	}
}

func TestCleanupDropsExpired(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	old, _ := NewSnapshotItem(testSnapshot("old", 1))
	old.QueuedAt = now.Add(-48 * time.Hour)
	fresh, _ := NewSnapshotItem(testSnapshot("fresh", 2))
	fresh.QueuedAt = now

	for _, item := range []Item{old, fresh} {
		if err := store.Enqueue(item); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	removed, err := store.Cleanup(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	items, _ := store.Peek(10)
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Fatalf("unexpected survivors: %+v", items)
	}
}

func TestSnapshotRejectsOtherEntities(t *testing.T) {
	item := Item{ID: "x", Entity: "order"}
	if _, err := item.Snapshot(); err == nil {
		t.Fatalf("expected error for non-snapshot item")
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	if err := store.Enqueue(Item{}); err == nil {
		t.Fatalf("expected error on nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}
