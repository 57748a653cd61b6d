package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultSnapshotKey = "carpool:snapshot"

// RedisGateway stores the snapshot under a single key. SET replaces the
// value atomically, matching the whole-document overwrite contract.
type RedisGateway struct {
	client *redis.Client
	key    string
}

// NewRedisGateway creates a gateway backed by client. An empty key selects
// the default.
func NewRedisGateway(client *redis.Client, key string) *RedisGateway {
	if key == "" {
		key = defaultSnapshotKey
	}
	return &RedisGateway{client: client, key: key}
}

// Load reads the snapshot key. A missing key yields an empty document.
func (g *RedisGateway) Load(ctx context.Context) (*Document, error) {
	data, err := g.client.Get(ctx, g.key).Bytes()
	if err == redis.Nil {
		return &Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot key: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot key: %w", err)
	}
	return &doc, nil
}

// Save overwrites the snapshot key. The snapshot is authoritative state,
// not a cache, so it never expires.
func (g *RedisGateway) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := g.client.Set(ctx, g.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot key: %w", err)
	}
	return nil
}
