// Package config defines the configuration structures for JurisCompare.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Feed source kinds.
const (
	FeedSourceFile     = "file"
	FeedSourcePostgres = "postgres"
	FeedSourceMinIO    = "minio"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP and gRPC server tunables.
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
	ServiceName string   `mapstructure:"service_name"`
}

// RelevanceConfig holds the case-law relevance point bands.
type RelevanceConfig struct {
	SummaryPoints float64 `mapstructure:"summary_points"`
	HoldingPoints float64 `mapstructure:"holding_points"`
	TopicPoints   float64 `mapstructure:"topic_points"`
	// CourtBonus is keyed by court level name (supreme, appellate, district).
	CourtBonus map[string]float64 `mapstructure:"court_bonus"`
}

// ChoiceOfLawConfig holds the analyzer's policy constants.
type ChoiceOfLawConfig struct {
	BetterLawCap           float64 `mapstructure:"better_law_cap"`
	BetterLawQualityWeight float64 `mapstructure:"better_law_quality_weight"`
	DefaultApproach        string  `mapstructure:"default_approach"`
	// ForumApproaches extends the built-in forum→approach table.  Keys are
	// jurisdiction codes (case-insensitive), values approach names.
	ForumApproaches map[string]string `mapstructure:"forum_approaches"`
}

// EngineConfig groups the tunables of the decision engine.
type EngineConfig struct {
	Relevance      RelevanceConfig   `mapstructure:"relevance"`
	ChoiceOfLaw    ChoiceOfLawConfig `mapstructure:"choice_of_law"`
	SearchCacheTTL time.Duration     `mapstructure:"search_cache_ttl"`
}

// FeedConfig selects and parameterises the bulk rule/decision feed.
type FeedConfig struct {
	Source          string        `mapstructure:"source"` // file | postgres | minio
	RulesPath       string        `mapstructure:"rules_path"`
	DecisionsPath   string        `mapstructure:"decisions_path"`
	Watch           bool          `mapstructure:"watch"`
	WatchDebounce   time.Duration `mapstructure:"watch_debounce"`
	ReloadCron      string        `mapstructure:"reload_cron"`
	LoadTimeout     time.Duration `mapstructure:"load_timeout"`
	RulesObject     string        `mapstructure:"rules_object"`
	DecisionsObject string        `mapstructure:"decisions_object"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
}

// KafkaConfig holds Kafka consumer/producer parameters.
type KafkaConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Brokers        []string      `mapstructure:"brokers"`
	GroupID        string        `mapstructure:"group_id"`
	RulesTopic     string        `mapstructure:"rules_topic"`
	DecisionsTopic string        `mapstructure:"decisions_topic"`
	RebuildTopic   string        `mapstructure:"rebuild_topic"`
	MinBytes       int           `mapstructure:"min_bytes"`
	MaxBytes       int           `mapstructure:"max_bytes"`
	MaxWait        time.Duration `mapstructure:"max_wait"`
	CommitInterval time.Duration `mapstructure:"commit_interval"`
	StartOffset    string        `mapstructure:"start_offset"` // "earliest" | "latest"
}

// MinIOConfig holds object-storage parameters.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

var knownApproaches = map[string]bool{
	"territorial":                   true,
	"most_significant_relationship": true,
	"interest_analysis":             true,
	"better_law":                    true,
	"combined_modern":               true,
}

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: server.http_port %d is out of range [1, 65535]", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("config: server.grpc_port %d is out of range [0, 65535]", c.Server.GRPCPort)
	}
	if c.Server.GRPCPort != 0 && c.Server.GRPCPort == c.Server.HTTPPort {
		return fmt.Errorf("config: server.grpc_port must differ from server.http_port")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if err := c.Engine.validate(); err != nil {
		return err
	}

	switch c.Feed.Source {
	case FeedSourceFile:
		if c.Feed.RulesPath == "" || c.Feed.DecisionsPath == "" {
			return fmt.Errorf("config: feed.rules_path and feed.decisions_path are required for the file source")
		}
	case FeedSourcePostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("config: feed.source=postgres requires database.enabled")
		}
	case FeedSourceMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("config: feed.source=minio requires minio.endpoint and minio.bucket")
		}
	default:
		return fmt.Errorf("config: feed.source %q is invalid; expected file|postgres|minio", c.Feed.Source)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("config: database.user and database.db_name are required")
		}
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
	}

	return nil
}

func (e *EngineConfig) validate() error {
	r := e.Relevance
	if r.SummaryPoints < 0 || r.HoldingPoints < 0 || r.TopicPoints < 0 {
		return fmt.Errorf("config: engine.relevance point bands must not be negative")
	}
	for level, bonus := range r.CourtBonus {
		if bonus <= 0 {
			return fmt.Errorf("config: engine.relevance.court_bonus.%s must be positive, got %v", level, bonus)
		}
	}

	col := e.ChoiceOfLaw
	if col.BetterLawCap <= 0 || col.BetterLawCap > 1 {
		return fmt.Errorf("config: engine.choice_of_law.better_law_cap %v is out of range (0, 1]", col.BetterLawCap)
	}
	if col.BetterLawQualityWeight < 0 || col.BetterLawQualityWeight >= 1 {
		return fmt.Errorf("config: engine.choice_of_law.better_law_quality_weight %v is out of range [0, 1)", col.BetterLawQualityWeight)
	}
	if !knownApproaches[col.DefaultApproach] {
		return fmt.Errorf("config: engine.choice_of_law.default_approach %q is unknown", col.DefaultApproach)
	}
	for forum, approach := range col.ForumApproaches {
		if !knownApproaches[strings.ToLower(approach)] {
			return fmt.Errorf("config: engine.choice_of_law.forum_approaches.%s: unknown approach %q", forum, approach)
		}
	}
	return nil
}

//Personal.AI order the ending
