package redis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

var ErrLockNotAcquired = errors.New(errors.ErrCodeLockNotAcquired, "lock not acquired")

// Lock is a distributed mutex.
type Lock interface {
	// Lock retries until the lock is acquired, the retry budget is spent or
	// ctx ends.
	Lock(ctx context.Context) error
	// TryLock makes a single attempt.
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) error
}

type lockOptions struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
	watchdog   bool
}

// LockOption configures a lock.
type LockOption func(*lockOptions)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(o *lockOptions) { o.ttl = ttl }
}

func WithRetryDelay(d time.Duration) LockOption {
	return func(o *lockOptions) { o.retryDelay = d }
}

// WithRetryCount bounds Lock attempts.  Zero retries until ctx ends.
func WithRetryCount(n int) LockOption {
	return func(o *lockOptions) { o.retryCount = n }
}

// WithWatchdog extends the lease every ttl/3 while the lock is held.
func WithWatchdog(enabled bool) LockOption {
	return func(o *lockOptions) { o.watchdog = enabled }
}

// LockFactory creates locks under the client's key prefix.
type LockFactory struct {
	client     *Client
	logger     logging.Logger
	defaultTTL time.Duration
}

// NewLockFactory creates a factory.  ttl <= 0 defaults to 30s.
func NewLockFactory(client *Client, ttl time.Duration, log logging.Logger) *LockFactory {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LockFactory{client: client, logger: log.Named("lock"), defaultTTL: ttl}
}

// NewMutex returns a mutex keyed by name.
func (f *LockFactory) NewMutex(name string, opts ...LockOption) Lock {
	o := lockOptions{
		ttl:        f.defaultTTL,
		retryDelay: 100 * time.Millisecond,
		retryCount: 0,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &redisMutex{
		client: f.client,
		key:    f.client.Key("lock", name),
		owner:  uuid.NewString(),
		opts:   o,
		logger: f.logger.With(logging.String("lock", name)),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// redisMutex
// ─────────────────────────────────────────────────────────────────────────────

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type redisMutex struct {
	client *Client
	key    string
	owner  string
	opts   lockOptions
	logger logging.Logger

	mu      sync.Mutex
	stopDog chan struct{}
	dogDone chan struct{}
}

func (m *redisMutex) TryLock(ctx context.Context) (bool, error) {
	rdb, err := m.client.Universal()
	if err != nil {
		return false, err
	}
	ok, err := rdb.SetNX(ctx, m.key, m.owner, m.opts.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to acquire lock").WithDetail("key=" + m.key)
	}
	if ok {
		m.acquired()
	}
	return ok, nil
}

func (m *redisMutex) Lock(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if m.opts.retryCount > 0 && attempt+1 >= m.opts.retryCount {
			return ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return ErrLockNotAcquired
		case <-time.After(m.opts.retryDelay):
		}
	}
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	m.stopWatchdog()

	rdb, err := m.client.Universal()
	if err != nil {
		return err
	}
	n, err := unlockScript.Run(ctx, rdb, []string{m.key}, m.owner).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock").WithDetail("key=" + m.key)
	}

	if n == 0 {
		return ErrLockNotAcquired
	}
	return nil
}

func (m *redisMutex) Extend(ctx context.Context, ttl time.Duration) error {
	rdb, err := m.client.Universal()
	if err != nil {
		return err
	}
	n, err := extendScript.Run(ctx, rdb, []string{m.key}, m.owner, ttl.Milliseconds()).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to extend lock").WithDetail("key=" + m.key)
	}
	if n == 0 {
		return ErrLockNotAcquired
	}
	return nil
}

func (m *redisMutex) acquired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opts.watchdog || m.stopDog != nil {
		return
	}
	m.stopDog = make(chan struct{})
	m.dogDone = make(chan struct{})
	go m.watchdog(m.stopDog, m.dogDone)
}

func (m *redisMutex) watchdog(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.opts.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.opts.ttl/3)
			err := m.Extend(ctx, m.opts.ttl)
			cancel()
			if err != nil {
				m.logger.Warn("Lock watchdog failed to extend lease", logging.Err(err))
				return
			}
		}
	}
}

func (m *redisMutex) stopWatchdog() {
	m.mu.Lock()
	stop, done := m.stopDog, m.dogDone
	m.stopDog, m.dogDone = nil, nil
	m.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

//Personal.AI order the ending
