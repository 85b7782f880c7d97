package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/JurisCompare/internal/config"
)

// validConfig returns a Config that passes Validate().
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_Defaults(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"http port zero", func(c *config.Config) { c.Server.HTTPPort = 0 }, "server.http_port"},
		{"http port too large", func(c *config.Config) { c.Server.HTTPPort = 70000 }, "server.http_port"},
		{"grpc port clash", func(c *config.Config) { c.Server.GRPCPort = c.Server.HTTPPort }, "grpc_port must differ"},
		{"bad mode", func(c *config.Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative summary points", func(c *config.Config) { c.Engine.Relevance.SummaryPoints = -1 }, "point bands"},
		{"zero court bonus", func(c *config.Config) { c.Engine.Relevance.CourtBonus["district"] = 0 }, "court_bonus.district"},
		{"cap above one", func(c *config.Config) { c.Engine.ChoiceOfLaw.BetterLawCap = 1.5 }, "better_law_cap"},
		{"quality weight one", func(c *config.Config) { c.Engine.ChoiceOfLaw.BetterLawQualityWeight = 1 }, "better_law_quality_weight"},
		{"unknown default approach", func(c *config.Config) { c.Engine.ChoiceOfLaw.DefaultApproach = "vibes" }, "default_approach"},
		{"unknown forum approach", func(c *config.Config) {
			c.Engine.ChoiceOfLaw.ForumApproaches = map[string]string{"us-ca": "vibes"}
		}, "forum_approaches"},
		{"bad feed source", func(c *config.Config) { c.Feed.Source = "ftp" }, "feed.source"},
		{"file source without path", func(c *config.Config) { c.Feed.RulesPath = "" }, "rules_path"},
		{"postgres source without database", func(c *config.Config) { c.Feed.Source = config.FeedSourcePostgres }, "database.enabled"},
		{"minio source without bucket", func(c *config.Config) {
			c.Feed.Source = config.FeedSourceMinIO
			c.MinIO.Bucket = ""
		}, "minio.bucket"},
		{"database without user", func(c *config.Config) { c.Database.Enabled = true }, "database.user"},
		{"database bad port", func(c *config.Config) {
			c.Database.Enabled = true
			c.Database.User = "juris"
			c.Database.Port = 0
		}, "database.port"},
		{"redis negative db", func(c *config.Config) {
			c.Redis.Enabled = true
			c.Redis.DB = -1
		}, "redis.db"},
		{"kafka without brokers", func(c *config.Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, "kafka.brokers"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Validate_EnabledSectionsPass(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Database.Enabled = true
	cfg.Database.User = "juris"
	cfg.Redis.Enabled = true
	cfg.Kafka.Enabled = true
	cfg.Feed.Source = config.FeedSourcePostgres
	cfg.Engine.ChoiceOfLaw.ForumApproaches = map[string]string{"us-tx": "Interest_Analysis"}
	assert.NoError(t, cfg.Validate())
}

//Personal.AI order the ending
