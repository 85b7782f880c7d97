package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/postgres"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/redis"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed/file"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/internal/infrastructure/storage/minio"
	"github.com/turtacn/JurisCompare/internal/interfaces/http/handlers"
)

// infrastructure holds the optional backends of the API server.
type infrastructure struct {
	pg     *pgxpool.Pool
	repo   *repositories.FeedRepository
	redis  *redis.Client
	cache  *redis.Cache
	minio  *minio.Client
	source comparative.FeedSource
	// files is set for the file source and drives the watcher.
	files *file.Source
	log   logging.Logger
}

func newInfrastructure(cfg *config.Config, logger logging.Logger) (*infrastructure, error) {
	infra := &infrastructure{log: logger}

	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(context.Background(), cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		infra.pg = pool
		infra.repo = repositories.NewFeedRepository(pool, logger)
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.redis = client
		infra.cache = redis.NewCache(client, logger, redis.WithDefaultTTL(cfg.Engine.SearchCacheTTL))
	}

	switch cfg.Feed.Source {
	case config.FeedSourcePostgres:
		infra.source = infra.repo
	case config.FeedSourceMinIO:
		client, err := minio.NewClient(cfg.MinIO, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.minio = client
		infra.source = minio.NewFeedSource(client, cfg.Feed.RulesObject, cfg.Feed.DecisionsObject, logger)
	default:
		infra.files = file.NewSource(cfg.Feed.RulesPath, cfg.Feed.DecisionsPath, logger)
		infra.source = infra.files
	}
	return infra, nil
}

// serviceOptions wires the cache, the decision sink and metrics.
func (i *infrastructure) serviceOptions(metrics *prometheus.AppMetrics) []comparative.Option {
	var opts []comparative.Option
	if i.cache != nil {
		opts = append(opts, comparative.WithSearchCache(i.cache))
	}
	if i.repo != nil {
		opts = append(opts, comparative.WithDecisionSink(i.repo))
	}
	if metrics != nil {
		opts = append(opts, comparative.WithMetrics(metrics))
	}
	return opts
}

func (i *infrastructure) healthChecks() []handlers.HealthChecker {
	var checks []handlers.HealthChecker
	if i.pg != nil {
		checks = append(checks, handlers.NewCheck("postgres", postgres.PoolHealthCheck(i.pg, i.log)))
	}
	if i.redis != nil {
		checks = append(checks, handlers.NewCheck("redis", i.redis.Ping))
	}
	if i.minio != nil {
		checks = append(checks, handlers.NewCheck("minio", i.minio.HealthCheck))
	}
	return checks
}

func (i *infrastructure) Close() {
	if i.minio != nil {
		_ = i.minio.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.pg != nil {
		i.pg.Close()
	}
}

//Personal.AI order the ending
