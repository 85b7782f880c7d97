// API server entry point for JurisCompare.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/application/ingest"
	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed/file"
	"github.com/turtacn/JurisCompare/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/internal/infrastructure/scheduler"
	grpcserver "github.com/turtacn/JurisCompare/internal/interfaces/grpc"
	httpserver "github.com/turtacn/JurisCompare/internal/interfaces/http"
	"github.com/turtacn/JurisCompare/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const readinessInterval = 2 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: JURIS_* environment only)")
	flag.Parse()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
		ServiceName: cfg.Log.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting JurisCompare API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("feed_source", cfg.Feed.Source),
		logging.Int("http_port", cfg.Server.HTTPPort),
		logging.Int("grpc_port", cfg.Server.GRPCPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, metrics, err := newMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	infra, err := newInfrastructure(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	settings, err := comparative.SettingsFromConfig(cfg.Engine, cfg.Feed)
	if err != nil {
		return err
	}
	svc := comparative.NewService(infra.source, settings, logger, infra.serviceOptions(metrics)...)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Feed.LoadTimeout)
	info, err := svc.Reload(loadCtx, comparative.TriggerStartup)
	cancel()
	if err != nil {
		return fmt.Errorf("initial snapshot load: %w", err)
	}
	logger.Info("snapshot loaded",
		logging.Uint64("generation", info.Generation),
		logging.Int("rules", info.Rules),
		logging.Int("decisions", info.Decisions))

	stopTriggers, err := startReloadTriggers(ctx, cfg, configPath, svc, infra, logger)
	if err != nil {
		return err
	}
	defer stopTriggers()

	// HTTP
	routerCfg := httpserver.RouterConfig{
		Service:       svc,
		HealthHandler: handlers.NewHealthHandler(version, svc.Ready, infra.healthChecks()...),
		Logger:        logger,
		Metrics:       metrics,
		Mode:          cfg.Server.Mode,
		MaxBodySize:   cfg.Server.MaxBodySize,
	}
	if collector != nil {
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	httpSrv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 2)
	go func() { errCh <- httpSrv.Start() }()

	// gRPC health; port 0 disables it.
	var grpcSrv *grpcserver.Server
	if cfg.Server.GRPCPort > 0 {
		grpcSrv, err = grpcserver.NewServer(cfg.Server,
			grpcserver.WithLogger(logger),
			grpcserver.WithMetrics(metrics),
			grpcserver.WithGracefulTimeout(cfg.Server.ShutdownTimeout))
		if err != nil {
			_ = httpSrv.Stop(context.Background())
			return err
		}
		grpcSrv.TrackReadiness(ctx, svc.Ready, readinessInterval)
		go func() { errCh <- grpcSrv.Start() }()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", logging.Err(err))
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	if grpcSrv != nil {
		if err := grpcSrv.Stop(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", logging.Err(err))
		}
	}
	logger.Info("API server stopped")
	return nil
}

func newMetrics(cfg config.MetricsConfig, logger logging.Logger) (prometheus.MetricsCollector, *prometheus.AppMetrics, error) {
	if !cfg.Enabled {
		return nil, prometheus.NewNoopAppMetrics(), nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Namespace,
		Subsystem:            cfg.Subsystem,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: %w", err)
	}
	return collector, prometheus.NewAppMetrics(collector), nil
}

// startReloadTriggers wires every source of snapshot reloads: the feed file
// watcher, the config file watcher, the cron schedule and the Kafka rebuild
// topic.  The returned func stops them.
func startReloadTriggers(ctx context.Context, cfg *config.Config, configPath string, svc comparative.Service, infra *infrastructure, logger logging.Logger) (func(), error) {
	var closers []func()
	stopAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	reload := func(trigger string) {
		rctx, cancel := context.WithTimeout(ctx, cfg.Feed.LoadTimeout)
		defer cancel()
		if _, err := svc.Reload(rctx, trigger); err != nil {
			logger.Warn("snapshot reload failed; keeping previous snapshot",
				logging.String("trigger", trigger), logging.Err(err))
		}
	}

	if cfg.Feed.Watch && infra.files != nil {
		w, err := file.NewWatcher(infra.files.Paths(), cfg.Feed.WatchDebounce, func() { reload(comparative.TriggerWatch) }, logger)
		if err != nil {
			return nil, err
		}
		go w.Run(ctx)
		closers = append(closers, func() { _ = w.Close() })
	}

	if configPath != "" {
		err := config.Watch(configPath, func(*config.Config) {
			logger.Info("configuration file changed; server settings apply on restart")
			reload(comparative.TriggerWatch)
		}, func(err error) {
			logger.Warn("ignoring invalid configuration change", logging.Err(err))
		})
		if err != nil {
			stopAll()
			return nil, err
		}
	}

	// With Kafka the worker owns the schedule and fans it out as rebuild
	// events; without it every server reloads on its own.
	if cfg.Feed.ReloadCron != "" && !cfg.Kafka.Enabled {
		sched := scheduler.New(logger)
		if err := sched.Add("snapshot-reload", cfg.Feed.ReloadCron, func(context.Context) error {
			reload(comparative.TriggerCron)
			return nil
		}); err != nil {
			stopAll()
			return nil, err
		}
		sched.Start(ctx)
		closers = append(closers, func() { sched.Stop(context.Background()) })
	}

	if cfg.Kafka.Enabled {
		// Each server needs every rebuild event, so it joins its own group and
		// skips events published before it started.
		rebuildCfg := cfg.Kafka
		rebuildCfg.StartOffset = "latest"
		group := cfg.Kafka.GroupID + "-api-" + uuid.NewString()[:8]
		consumer, err := kafka.NewConsumer(rebuildCfg, group, []string{cfg.Kafka.RebuildTopic}, logger)
		if err != nil {
			stopAll()
			return nil, err
		}
		consumer.Subscribe(cfg.Kafka.RebuildTopic, ingest.NewRebuildHandler(svc, logger))
		if err := consumer.Start(ctx); err != nil {
			_ = consumer.Close()
			stopAll()
			return nil, err
		}
		closers = append(closers, func() { _ = consumer.Close() })
	}

	return stopAll, nil
}

//Personal.AI order the ending
