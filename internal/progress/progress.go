// Package progress tracks live ingestion progress in Redis so the API can
// report how far a batch has gotten while the pipeline is still running.
// Entries expire on their own; the durable record lives in Postgres.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "concierge:ingest:progress:"
	defaultTTL = 24 * time.Hour
)

// Snapshot is the slim JSON stored per batch.
type Snapshot struct {
	BatchID   string    `json:"batch_id"`
	Phase     string    `json:"phase"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker implements ingest.ProgressSink over Redis.
type Tracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTracker(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb, ttl: defaultTTL}
}

// Update overwrites the snapshot for a batch.
func (t *Tracker) Update(ctx context.Context, batchID, phase string, processed, total int) error {
	snap := Snapshot{
		BatchID:   batchID,
		Phase:     phase,
		Processed: processed,
		Total:     total,
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := t.rdb.Set(ctx, keyPrefix+batchID, data, t.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET progress: %w", err)
	}
	return nil
}

// Get returns the snapshot for a batch, or (nil, nil) when none is stored.
func (t *Tracker) Get(ctx context.Context, batchID string) (*Snapshot, error) {
	data, err := t.rdb.Get(ctx, keyPrefix+batchID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET progress: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &snap, nil
}

// Clear drops the snapshot once a batch reaches a terminal state.
func (t *Tracker) Clear(ctx context.Context, batchID string) error {
	return t.rdb.Del(ctx, keyPrefix+batchID).Err()
}
