package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"tespell/internal/model"
)

const (
	defaultRedisPrefix = "tespell:model"
	redisBatchSize     = 1000
)

// RedisStore keeps a model in a Redis hash (word → count) next to a small
// metadata hash. A new model is written under a staging key and renamed over
// the live one, so readers see either the old or the new model.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps client. An empty prefix uses "tespell:model".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func newRedisClient(cfg Config) *redis.Client {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func (rs *RedisStore) countsKey() string  { return rs.prefix + ":counts" }
func (rs *RedisStore) stagingKey() string { return rs.prefix + ":counts:staging" }
func (rs *RedisStore) metaKey() string    { return rs.prefix + ":meta" }

// Save replaces the stored model with m.
func (rs *RedisStore) Save(ctx context.Context, m *model.Model) error {
	staging := rs.stagingKey()
	if err := rs.client.Del(ctx, staging).Err(); err != nil {
		return fmt.Errorf("clearing staging key: %w", err)
	}

	pipe := rs.client.Pipeline()
	n := 0
	for w, c := range m.All() {
		pipe.HSet(ctx, staging, w, c)
		n++
		if n%redisBatchSize == 0 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("writing counts: %w", err)
			}
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing counts: %w", err)
	}

	_, err := rs.client.TxPipelined(ctx, func(tx redis.Pipeliner) error {
		if m.Len() == 0 {
			tx.Del(ctx, rs.countsKey())
		} else {
			tx.Rename(ctx, staging, rs.countsKey())
		}
		tx.HSet(ctx, rs.metaKey(), "threshold", m.Threshold(), "words", m.Len(), "total", m.Total())
		return nil
	})
	if err != nil {
		return fmt.Errorf("publishing model: %w", err)
	}
	return nil
}

// Load reads the whole hash into a model.
func (rs *RedisStore) Load(ctx context.Context) (*model.Model, error) {
	meta, err := rs.client.HGetAll(ctx, rs.metaKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading model metadata: %w", err)
	}
	if len(meta) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rs.metaKey())
	}
	threshold, err := strconv.Atoi(meta["threshold"])
	if err != nil {
		return nil, fmt.Errorf("%w: threshold %q", ErrMalformedModel, meta["threshold"])
	}

	raw, err := rs.client.HGetAll(ctx, rs.countsKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("reading counts: %w", err)
	}
	counts := make(map[string]int64, len(raw))
	for w, v := range raw {
		c, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: count of %q: %v", ErrMalformedModel, w, err)
		}
		counts[w] = c
	}
	return decode(counts, threshold)
}

func (rs *RedisStore) Close() error { return rs.client.Close() }
