package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultHTTPPort   = 8080
	DefaultGRPCPort   = 9090
	DefaultServerMode = "release"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultSummaryPoints = 30.0
	DefaultHoldingPoints = 20.0
	DefaultTopicPoints   = 20.0

	DefaultBetterLawCap           = 0.7
	DefaultBetterLawQualityWeight = 0.5
	DefaultApproach               = "most_significant_relationship"

	DefaultSearchCacheTTL = 5 * time.Minute

	DefaultFeedSource    = FeedSourceFile
	DefaultRulesPath     = "data/rules.yaml"
	DefaultDecisionsPath = "data/decisions.yaml"
	DefaultWatchDebounce = 500 * time.Millisecond
	DefaultLoadTimeout   = 30 * time.Second

	DefaultDBHost         = "localhost"
	DefaultDBPort         = 5432
	DefaultDBName         = "juriscompare"
	DefaultDBMaxOpenConns = 10

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "juris:"
	DefaultRedisLockTTL   = 30 * time.Second

	DefaultKafkaBroker         = "localhost:9092"
	DefaultKafkaGroupID        = "juriscompare"
	DefaultKafkaRulesTopic     = "juris.rules.ingest"
	DefaultKafkaDecisionsTopic = "juris.decisions.ingest"
	DefaultKafkaRebuildTopic   = "juris.snapshot.rebuild"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "juris-feeds"

	DefaultMetricsNamespace = "juriscompare"
	DefaultMetricsPath      = "/metrics"
)

// DefaultCourtBonus returns the default per-court-level relevance bonus.
func DefaultCourtBonus() map[string]float64 {
	return map[string]float64{
		"supreme":   30,
		"appellate": 20,
		"district":  10,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills zero-value fields in cfg.  Explicit values always win.
// Booleans cannot be defaulted this way; their defaults live in setViperDefaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = DefaultHTTPPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 20 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 4 << 20
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.ServiceName == "" {
		cfg.Log.ServiceName = "juriscompare"
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	rel := &cfg.Engine.Relevance
	if rel.SummaryPoints == 0 {
		rel.SummaryPoints = DefaultSummaryPoints
	}
	if rel.HoldingPoints == 0 {
		rel.HoldingPoints = DefaultHoldingPoints
	}
	if rel.TopicPoints == 0 {
		rel.TopicPoints = DefaultTopicPoints
	}
	if len(rel.CourtBonus) == 0 {
		rel.CourtBonus = DefaultCourtBonus()
	}
	col := &cfg.Engine.ChoiceOfLaw
	if col.BetterLawCap == 0 {
		col.BetterLawCap = DefaultBetterLawCap
	}
	if col.BetterLawQualityWeight == 0 {
		col.BetterLawQualityWeight = DefaultBetterLawQualityWeight
	}
	if col.DefaultApproach == "" {
		col.DefaultApproach = DefaultApproach
	}
	if cfg.Engine.SearchCacheTTL == 0 {
		cfg.Engine.SearchCacheTTL = DefaultSearchCacheTTL
	}

	// ── Feed ──────────────────────────────────────────────────────────────────
	if cfg.Feed.Source == "" {
		cfg.Feed.Source = DefaultFeedSource
	}
	if cfg.Feed.RulesPath == "" {
		cfg.Feed.RulesPath = DefaultRulesPath
	}
	if cfg.Feed.DecisionsPath == "" {
		cfg.Feed.DecisionsPath = DefaultDecisionsPath
	}
	if cfg.Feed.WatchDebounce == 0 {
		cfg.Feed.WatchDebounce = DefaultWatchDebounce
	}
	if cfg.Feed.LoadTimeout == 0 {
		cfg.Feed.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.Feed.RulesObject == "" {
		cfg.Feed.RulesObject = "rules.yaml"
	}
	if cfg.Feed.DecisionsObject == "" {
		cfg.Feed.DecisionsObject = "decisions.yaml"
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns / 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "file://internal/infrastructure/database/postgres/migrations"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 20
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = DefaultRedisLockTTL
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.RulesTopic == "" {
		cfg.Kafka.RulesTopic = DefaultKafkaRulesTopic
	}
	if cfg.Kafka.DecisionsTopic == "" {
		cfg.Kafka.DecisionsTopic = DefaultKafkaDecisionsTopic
	}
	if cfg.Kafka.RebuildTopic == "" {
		cfg.Kafka.RebuildTopic = DefaultKafkaRebuildTopic
	}
	if cfg.Kafka.MinBytes == 0 {
		cfg.Kafka.MinBytes = 1
	}
	if cfg.Kafka.MaxBytes == 0 {
		cfg.Kafka.MaxBytes = 10 << 20
	}
	if cfg.Kafka.MaxWait == 0 {
		cfg.Kafka.MaxWait = time.Second
	}
	if cfg.Kafka.StartOffset == "" {
		cfg.Kafka.StartOffset = "earliest"
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// setViperDefaults registers every key with viper so that AutomaticEnv can
// resolve JURIS_* overrides during Unmarshal even when no file sets the key.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", DefaultHTTPPort)
	v.SetDefault("server.grpc_port", DefaultGRPCPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_body_size", 4<<20)
	v.SetDefault("server.shutdown_timeout", 20*time.Second)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.service_name", "juriscompare")

	v.SetDefault("engine.relevance.summary_points", DefaultSummaryPoints)
	v.SetDefault("engine.relevance.holding_points", DefaultHoldingPoints)
	v.SetDefault("engine.relevance.topic_points", DefaultTopicPoints)
	v.SetDefault("engine.choice_of_law.better_law_cap", DefaultBetterLawCap)
	v.SetDefault("engine.choice_of_law.better_law_quality_weight", DefaultBetterLawQualityWeight)
	v.SetDefault("engine.choice_of_law.default_approach", DefaultApproach)
	v.SetDefault("engine.search_cache_ttl", DefaultSearchCacheTTL)

	v.SetDefault("feed.source", DefaultFeedSource)
	v.SetDefault("feed.rules_path", DefaultRulesPath)
	v.SetDefault("feed.decisions_path", DefaultDecisionsPath)
	v.SetDefault("feed.watch", false)
	v.SetDefault("feed.watch_debounce", DefaultWatchDebounce)
	v.SetDefault("feed.reload_cron", "")
	v.SetDefault("feed.load_timeout", DefaultLoadTimeout)
	v.SetDefault("feed.rules_object", "rules.yaml")
	v.SetDefault("feed.decisions_object", "decisions.yaml")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", DefaultDBHost)
	v.SetDefault("database.port", DefaultDBPort)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", DefaultDBName)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", DefaultDBMaxOpenConns)
	v.SetDefault("database.migration_path", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", DefaultRedisKeyPrefix)
	v.SetDefault("redis.lock_ttl", DefaultRedisLockTTL)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.group_id", DefaultKafkaGroupID)
	v.SetDefault("kafka.rules_topic", DefaultKafkaRulesTopic)
	v.SetDefault("kafka.decisions_topic", DefaultKafkaDecisionsTopic)
	v.SetDefault("kafka.rebuild_topic", DefaultKafkaRebuildTopic)
	v.SetDefault("kafka.start_offset", "earliest")

	v.SetDefault("minio.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", DefaultMinIOBucket)
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)
}

//Personal.AI order the ending
