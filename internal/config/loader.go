package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by every setting.
const envPrefix = "JURIS"

// newViper builds a Viper instance with YAML file type, the JURIS_ env prefix,
// automatic env binding and a "." → "_" key replacer, so "feed.rules_path"
// resolves to JURIS_FEED_RULES_PATH.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

// Load reads the YAML file at configPath, merges JURIS_* overrides, applies
// defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from JURIS_* environment variables and defaults
// alone.
//
//	JURIS_<SECTION>_<FIELD>   e.g.  JURIS_FEED_SOURCE, JURIS_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrEnv loads configPath when it is non-empty and falls back to LoadFromEnv.
func LoadOrEnv(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch re-parses configPath whenever it changes and hands the new Config to
// onChange.  Changes that fail to parse or validate are reported to onError
// (when non-nil) and never reach onChange.  Watch does not block.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad wraps Load and panics on error.  main() only.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
