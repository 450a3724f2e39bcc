package buffer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/orderflow-dashboard/domain"
)

// EntitySnapshot marks a buffered dashboard snapshot awaiting persistence.
const EntitySnapshot = "snapshot"

// Item is a write that could not reach the history database.
type Item struct {
	ID       string          `json:"id"`
	Entity   string          `json:"entity"`
	Payload  json.RawMessage `json:"payload"`
	Retries  int             `json:"retries"`
	QueuedAt time.Time       `json:"queued_at"`

	key []byte
}

// NewSnapshotItem wraps a snapshot for buffering. The snapshot ID is reused
// so a replayed insert stays idempotent.
func NewSnapshotItem(snapshot *domain.Snapshot) (Item, error) {
	if snapshot == nil {
		return Item{}, domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:      snapshot.ID,
		Entity:  EntitySnapshot,
		Payload: payload,
	}, nil
}

// Snapshot decodes the payload of a snapshot item.
func (i Item) Snapshot() (*domain.Snapshot, error) {
	if i.Entity != EntitySnapshot {
		return nil, fmt.Errorf("buffer item %s holds %q, not a snapshot", i.ID, i.Entity)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(i.Payload, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (i *Item) normalize(now time.Time) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.QueuedAt.IsZero() {
		i.QueuedAt = now
	}
}

// itemKey orders the bucket by queue time so batches drain oldest first.
func itemKey(item Item) []byte {
	return []byte(fmt.Sprintf("%020d_%s", item.QueuedAt.UnixNano(), item.ID))
}
