package redis

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/repository"
)

const latestSnapshotKey = "dashboard:snapshot:latest"

type snapshotCache struct {
	client *redislib.Client
	key    string
	ttl    time.Duration
}

// NewSnapshotCache creates a Redis-backed cache for the latest dashboard snapshot.
func NewSnapshotCache(client *redislib.Client, ttl time.Duration) repository.SnapshotCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &snapshotCache{
		client: client,
		key:    latestSnapshotKey,
		ttl:    ttl,
	}
}

func (c *snapshotCache) Get(ctx context.Context) (*domain.Snapshot, error) {
	result, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(result, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *snapshotCache) Set(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.IsZero() {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, payload, c.ttl).Err()
}
