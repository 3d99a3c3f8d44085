package intake

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers document fingerprints so the same scan is not digitized
// twice. Remember is check-and-set: it reports whether the fingerprint was
// already known and records it if not.
type Deduper interface {
	Remember(ctx context.Context, fingerprint string) (alreadySeen bool, err error)
}

// MemoryDeduper keeps fingerprints in process memory. Suitable for a single
// instance; deployments with several replicas share a RedisDeduper instead.
type MemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryDeduper builds an empty in-memory index.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{seen: make(map[string]struct{})}
}

func (d *MemoryDeduper) Remember(_ context.Context, fingerprint string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[fingerprint]; ok {
		return true, nil
	}
	d.seen[fingerprint] = struct{}{}
	return false, nil
}

// RedisDeduper shares the fingerprint index across instances.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

const redisKeyPrefix = "fra:doc:"

// NewRedisDeduper builds a redis-backed index. Entries expire after ttl;
// zero means they are kept indefinitely.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Remember(ctx context.Context, fingerprint string) (bool, error) {
	// SETNX is the atomic check-and-set; a false result means the key
	// already existed.
	stored, err := d.client.SetNX(ctx, redisKeyPrefix+fingerprint, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !stored, nil
}

type noopDeduper struct{}

func (noopDeduper) Remember(context.Context, string) (bool, error) { return false, nil }
