package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// Cache is a JSON value cache.  Keys are namespaced by the client prefix.
type Cache struct {
	client     *Client
	logger     logging.Logger
	defaultTTL time.Duration
	group      singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithDefaultTTL sets the TTL used when a call passes zero.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.defaultTTL = ttl }
}

// NewCache creates a cache over client.
func NewCache(client *Client, log logging.Logger, opts ...CacheOption) *Cache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &Cache{
		client:     client,
		logger:     log.Named("cache"),
		defaultTTL: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// jitterTTL spreads expiries by +/- 10%.
func jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get decodes the value at key into dest.  A missing key is ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	rdb, err := c.client.Universal()
	if err != nil {
		return err
	}
	data, err := rdb.Get(ctx, c.client.Key(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache").WithDetail("key=" + key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached value").WithDetail("key=" + key)
	}
	return nil
}

// Set encodes value and stores it with ttl, or the default TTL when ttl is
// zero.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	rdb, err := c.client.Universal()
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed
	}
	if err := rdb.Set(ctx, c.client.Key(key), data, jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write cache").WithDetail("key=" + key)
	}
	return nil
}

// Delete removes keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	rdb, err := c.client.Universal()
	if err != nil {
		return err
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.client.Key(k)
	}
	if err := rdb.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete from cache")
	}
	return nil
}

// GetOrSet reads key into dest; on a miss it calls loader once per key
// across concurrent callers, stores the result and decodes it into dest.
// Loader errors are returned unchanged and nothing is cached.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != ErrCacheMiss {
		return err
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			c.logger.Warn("Failed to set cache in GetOrSet", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(val)
	if err != nil {
		return ErrSerializationFailed
	}
	return json.Unmarshal(data, dest)
}

// DeleteByPrefix removes every key starting with prefix and returns the
// number removed.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	rdb, err := c.client.Universal()
	if err != nil {
		return 0, err
	}
	var (
		deleted int64
		cursor  uint64
	)
	match := c.client.Key(prefix) + "*"
	for {
		keys, next, err := rdb.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to scan cache keys")
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cache keys")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

//Personal.AI order the ending
