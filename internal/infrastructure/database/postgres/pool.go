package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// poolUsageWarn is the acquired/max ratio above which health checks warn.
const poolUsageWarn = 0.8

// PoolHealthCheck pings p and, for a *pgxpool.Pool, warns when the pool is
// nearly exhausted.
func PoolHealthCheck(p Pinger, log logging.Logger) func(ctx context.Context) error {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
		}
		pool, ok := p.(*pgxpool.Pool)
		if !ok {
			return nil
		}
		stat := pool.Stat()
		if stat.MaxConns() > 0 {
			usage := float64(stat.AcquiredConns()) / float64(stat.MaxConns())
			if usage > poolUsageWarn {
				log.Warn("High database connection pool usage",
					logging.Int("acquired", int(stat.AcquiredConns())),
					logging.Int("max", int(stat.MaxConns())),
					logging.Float64("usage", usage),
				)
			}
		}
		return nil
	}
}

// PoolConfig maps cfg onto pgxpool settings.  Zero values fall back to the
// same defaults as Connection.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid database configuration").
			WithDetailf("host=%s port=%d", cfg.Host, cfg.Port)
	}
	pc.MaxConns = int32(orInt(cfg.MaxOpenConns, defaultMaxOpenConns))
	pc.MaxConnLifetime = orDuration(cfg.ConnMaxLifetime, defaultConnMaxLifetime)
	pc.MaxConnIdleTime = orDuration(cfg.ConnMaxIdleTime, defaultConnMaxIdleTime)
	return pc, nil
}

// NewPool opens the pgx pool the feed repository runs on and verifies it
// with a ping.  Migrations go through Connection because golang-migrate
// drives database/sql.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*pgxpool.Pool, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed").
			WithDetailf("host=%s port=%d", cfg.Host, cfg.Port)
	}

	log.Info("Opened PostgreSQL connection pool",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
		logging.Int("max_conns", int(pc.MaxConns)),
	)
	return pool, nil
}

//Personal.AI order the ending
