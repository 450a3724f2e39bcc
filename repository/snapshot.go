package repository

import (
	"context"

	"github.com/fastygo/orderflow-dashboard/domain"
)

type SnapshotFilter struct {
	Limit  int
	Offset int
}

// SnapshotRepository stores the history of published dashboard snapshots.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	Latest(ctx context.Context) (*domain.Snapshot, error)
	List(ctx context.Context, filter SnapshotFilter) ([]domain.Snapshot, error)
}

// SnapshotCache shares the latest snapshot across replicas.
type SnapshotCache interface {
	Get(ctx context.Context) (*domain.Snapshot, error)
	Set(ctx context.Context, snapshot *domain.Snapshot) error
}
