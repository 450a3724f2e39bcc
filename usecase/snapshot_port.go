package usecase

import (
	"context"

	"github.com/fastygo/orderflow-dashboard/domain"
)

// SnapshotRecorder abstracts history persistence so the dashboard stays storage-agnostic.
type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context, snapshot *domain.Snapshot) error
}
