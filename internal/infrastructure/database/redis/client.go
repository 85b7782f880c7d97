// Package redis provides the Redis client, the search response cache and the
// distributed lock that serialises feed ingestion across workers.
package redis

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// DefaultKeyPrefix namespaces every key written by this package.
const DefaultKeyPrefix = "juris:"

var (
	ErrClientClosed     = errors.New(errors.ErrCodeCacheError, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

// Client wraps a redis.UniversalClient.  A comma-separated Addr selects a
// cluster client.
type Client struct {
	rdb    redis.UniversalClient
	prefix string
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects and pings the server.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(&cfg)

	addrs := strings.Split(cfg.Addr, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        addrs,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	client := NewClientWithUniversal(rdb, cfg.KeyPrefix, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis connection failed").WithDetail("addr=" + cfg.Addr)
	}

	log.Info("Redis client connected",
		logging.String("addr", cfg.Addr),
		logging.Int("db", cfg.DB),
		logging.Bool("cluster", client.IsCluster()),
	)
	return client, nil
}

// NewClientWithUniversal wraps an existing client.  Tests use it with
// miniredis or redismock.
func NewClientWithUniversal(rdb redis.UniversalClient, prefix string, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Client{rdb: rdb, prefix: prefix, logger: log.Named("redis")}
}

func applyDefaults(cfg *config.RedisConfig) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10 * runtime.GOMAXPROCS(0)
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = 2
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
}

// Key returns key under the client's prefix.
func (c *Client) Key(parts ...string) string {
	return c.prefix + strings.Join(parts, ":")
}

// Prefix returns the key prefix.
func (c *Client) Prefix() string { return c.prefix }

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// Close closes the client once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.rdb.Close()
	if err == nil {
		c.logger.Info("Closed Redis client")
	} else {
		c.logger.Error("Failed to close Redis client", logging.Err(err))
	}
	return err
}

// Universal returns the wrapped client, or ErrClientClosed.
func (c *Client) Universal() (redis.UniversalClient, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	return c.rdb, nil
}

// IsCluster reports whether the client talks to a cluster.
func (c *Client) IsCluster() bool {
	_, ok := c.rdb.(*redis.ClusterClient)
	return ok
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

//Personal.AI order the ending
