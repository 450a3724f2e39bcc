package services

import (
	"context"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/internal/infrastructure/buffer"
	"github.com/fastygo/orderflow-dashboard/usecase"
)

// SnapshotRecorder routes published snapshots through the buffer processor.
type SnapshotRecorder struct {
	processor *BufferProcessor
}

func NewSnapshotRecorder(processor *BufferProcessor) *SnapshotRecorder {
	return &SnapshotRecorder{processor: processor}
}

func (r *SnapshotRecorder) RecordSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if r.processor == nil || snapshot == nil {
		return domain.ErrInvalidPayload
	}
	item, err := buffer.NewSnapshotItem(snapshot)
	if err != nil {
		return err
	}
	return r.processor.Enqueue(ctx, item)
}

var _ usecase.SnapshotRecorder = (*SnapshotRecorder)(nil)
