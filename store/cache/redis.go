package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	PoolSize     int
	MinIdleConns int
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		KeyPrefix:    "fundoo:",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// redisEnvelope carries the cached value together with its absolute deadline.
// Redis itself only knows a single TTL, which we use for the sliding window;
// the absolute cap is enforced on read.
type redisEnvelope struct {
	Value      []byte `json:"v"`
	AbsoluteAt int64  `json:"abs"`
	SlidingSec int64  `json:"sld,omitempty"`
}

// RedisStore is a Redis-backed Store implementation for multi-instance
// deployments where evictions must be shared across processes.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis store and verifies connectivity.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg = DefaultRedisConfig()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "fundoo:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	slog.Info("redis cache connected", "addr", cfg.Addr)

	return &RedisStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	fullKey := r.fullKey(key)
	data, err := r.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to get cache value", "key", key, "error", err)
		}
		return nil, false
	}

	var envelope redisEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		slog.Warn("failed to unmarshal cache value", "key", key, "error", err)
		return nil, false
	}

	now := time.Now().Unix()
	if now >= envelope.AbsoluteAt {
		// Redis TTL kept the entry alive through sliding renewals; the
		// absolute cap has to be enforced here.
		r.client.Del(ctx, fullKey)
		return nil, false
	}

	if envelope.SlidingSec > 0 {
		ttl := envelope.SlidingSec
		if remaining := envelope.AbsoluteAt - now; remaining < ttl {
			ttl = remaining
		}
		if err := r.client.Expire(ctx, fullKey, time.Duration(ttl)*time.Second).Err(); err != nil {
			slog.Warn("failed to renew cache ttl", "key", key, "error", err)
		}
	}

	return envelope.Value, true
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, policy TTLPolicy) error {
	if policy.Absolute <= 0 {
		policy = DefaultTTLPolicy()
	}

	envelope := redisEnvelope{
		Value:      value,
		AbsoluteAt: time.Now().Add(policy.Absolute).Unix(),
	}
	ttl := policy.Absolute
	if policy.Sliding > 0 && policy.Sliding < policy.Absolute {
		envelope.SlidingSec = int64(policy.Sliding / time.Second)
		ttl = policy.Sliding
	}

	data, err := json.Marshal(&envelope)
	if err != nil {
		return errors.Wrap(err, "failed to marshal cache value")
	}
	if err := r.client.Set(ctx, r.fullKey(key), data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to set cache value %s", key)
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.fullKey(key)).Err(); err != nil {
		return errors.Wrapf(err, "failed to remove cache value %s", key)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) fullKey(key string) string {
	return r.keyPrefix + key
}

var _ Store = (*RedisStore)(nil)
