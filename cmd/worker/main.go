// Worker entry point for JurisCompare.  The worker consumes the rule and
// decision ingest topics into PostgreSQL and announces snapshot rebuilds.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/turtacn/JurisCompare/internal/application/ingest"
	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/postgres"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/redis"
	"github.com/turtacn/JurisCompare/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/internal/infrastructure/scheduler"
	httpserver "github.com/turtacn/JurisCompare/internal/interfaces/http"
	"github.com/turtacn/JurisCompare/internal/interfaces/http/handlers"
	"github.com/turtacn/JurisCompare/internal/interfaces/http/middleware"
)

var version = "dev"

const (
	defaultHealthPort = 8081
	maxRetries        = 3
	retryBackoff      = time.Second
	maxRetryBackoff   = 4 * time.Second
	topicSetupTimeout = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: JURIS_* environment only)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port of the /healthz and /metrics endpoint (0 disables it)")
	migrate := flag.Bool("migrate", false, "apply pending schema migrations before consuming")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*configPath, *healthPort, *migrate); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, healthPort int, migrate bool) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled || !cfg.Database.Enabled {
		return fmt.Errorf("the worker requires kafka.enabled and database.enabled")
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
		ServiceName: "juris-worker",
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting JurisCompare worker",
		logging.String("version", version),
		logging.Strings("topics", []string{cfg.Kafka.RulesTopic, cfg.Kafka.DecisionsTopic}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, metrics, err := newMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	// PostgreSQL.  golang-migrate needs a database/sql handle, the
	// repository runs on pgx.
	if migrate {
		conn, err := postgres.NewConnection(cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		err = conn.RunMigrations(cfg.Database.MigrationPath)
		_ = conn.Close()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	repo := repositories.NewFeedRepository(pool, logger)

	checks := []handlers.HealthChecker{handlers.NewCheck("postgres", postgres.PoolHealthCheck(pool, logger))}
	opts := []ingest.Option{ingest.WithMetrics(metrics)}

	// Redis lock, so that replicas never interleave upserts.
	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rc.Close()
		opts = append(opts, ingest.WithLocker(redis.NewLockFactory(rc, cfg.Redis.LockTTL, logger), ingest.DefaultLockName))
		checks = append(checks, handlers.NewCheck("redis", rc.Ping))
	} else {
		logger.Warn("redis disabled; run a single worker replica")
	}

	// Kafka
	if err := ensureTopics(ctx, cfg.Kafka, logger); err != nil {
		logger.Warn("topic setup failed; relying on broker auto-creation", logging.Err(err))
	}
	producer, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	svc := ingest.NewService(repo, producer, cfg.Kafka.RebuildTopic, logger, opts...)

	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.GroupID,
		[]string{cfg.Kafka.RulesTopic, cfg.Kafka.DecisionsTopic}, logger,
		kafka.WithRetry(maxRetries, retryBackoff, maxRetryBackoff),
		kafka.WithDeadLetter(producer, kafka.TopicDeadLetter))
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	svc.Subscribe(consumer, cfg.Kafka.RulesTopic, cfg.Kafka.DecisionsTopic)
	if err := consumer.Start(ctx); err != nil {
		return err
	}
	defer consumer.Close()

	// Scheduled rebuilds reach every API server through the rebuild topic.
	if cfg.Feed.ReloadCron != "" {
		sched := scheduler.New(logger)
		if err := sched.Add("snapshot-rebuild", cfg.Feed.ReloadCron, func(ctx context.Context) error {
			return svc.RequestRebuild(ctx, "cron")
		}); err != nil {
			return err
		}
		sched.Start(ctx)
		defer sched.Stop(context.Background())
	}

	var healthSrv *httpserver.Server
	if healthPort > 0 {
		healthSrv = newHealthServer(cfg, healthPort, collector, checks, logger)
		go func() {
			if err := healthSrv.Start(); err != nil {
				logger.Error("health server error", logging.Err(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if healthSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Stop(shutdownCtx); err != nil {
			logger.Error("health server shutdown error", logging.Err(err))
		}
	}
	m := consumer.Metrics()
	logger.Info("JurisCompare worker stopped",
		logging.Int64("processed", m.MessagesProcessed.Load()),
		logging.Int64("failed", m.MessagesFailed.Load()),
		logging.Int64("dead_lettered", m.MessagesDeadLettered.Load()))
	return nil
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()
	ctx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
	defer cancel()
	return tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg))
}

func newMetrics(cfg config.MetricsConfig, logger logging.Logger) (prometheus.MetricsCollector, *prometheus.AppMetrics, error) {
	if !cfg.Enabled {
		return nil, prometheus.NewNoopAppMetrics(), nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Namespace,
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: %w", err)
	}
	return collector, prometheus.NewAppMetrics(collector), nil
}

// newHealthServer serves the probes and metrics of the worker.
func newHealthServer(cfg *config.Config, port int, collector prometheus.MetricsCollector, checks []handlers.HealthChecker, logger logging.Logger) *httpserver.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	handlers.NewHealthHandler(version, nil, checks...).RegisterRoutes(r)
	if collector != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(collector.Handler()))
	}

	serverCfg := cfg.Server
	serverCfg.HTTPPort = port
	return httpserver.NewServer(serverCfg, r, logger)
}

//Personal.AI order the ending
