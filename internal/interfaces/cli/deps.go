package cli

import (
	"context"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/postgres"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/redis"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed/file"
	"github.com/turtacn/JurisCompare/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/JurisCompare/internal/infrastructure/storage/minio"
)

// EventPublisher publishes ingest envelopes.  *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, env *kafka.EventEnvelope) error
	Close() error
}

// FeedPublisher uploads raw feed files.  *minio.FeedSource satisfies it.
type FeedPublisher interface {
	Publish(ctx context.Context, rules, decisions []byte) error
}

// CachePurger drops cached entries by key prefix.  *redis.Cache satisfies it.
type CachePurger interface {
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// Migrator drives schema migrations.
type Migrator interface {
	Up(dbURL, sourceURL string) error
	Down(dbURL, sourceURL string, steps int) error
	Status(dbURL, sourceURL string) (postgres.MigrationState, error)
	Force(dbURL, sourceURL string, version int) error
}

// Dependencies are the constructors the commands use.  Nil fields fall back
// to the production implementations.
type Dependencies struct {
	NewService       func(ctx context.Context, cc *CLIContext) (comparative.Service, error)
	NewPublisher     func(cc *CLIContext) (EventPublisher, error)
	NewFeedPublisher func(ctx context.Context, cc *CLIContext) (FeedPublisher, error)
	NewCachePurger   func(ctx context.Context, cc *CLIContext) (CachePurger, func() error, error)
	Migrator         Migrator
}

func (d Dependencies) withDefaults() Dependencies {
	if d.NewService == nil {
		d.NewService = newLocalService
	}
	if d.NewPublisher == nil {
		d.NewPublisher = newKafkaPublisher
	}
	if d.NewFeedPublisher == nil {
		d.NewFeedPublisher = newMinIOPublisher
	}
	if d.NewCachePurger == nil {
		d.NewCachePurger = newRedisPurger
	}
	if d.Migrator == nil {
		d.Migrator = postgresMigrator{}
	}
	return d
}

// newLocalService loads the file feed into an in-process engine.
func newLocalService(ctx context.Context, cc *CLIContext) (comparative.Service, error) {
	settings, err := comparative.SettingsFromConfig(cc.Config.Engine, cc.Config.Feed)
	if err != nil {
		return nil, err
	}
	src := file.NewSource(cc.Config.Feed.RulesPath, cc.Config.Feed.DecisionsPath, cc.Logger)
	svc := comparative.NewService(src, settings, cc.Logger)
	if _, err := svc.Reload(ctx, comparative.TriggerStartup); err != nil {
		return nil, err
	}
	return svc, nil
}

func newKafkaPublisher(cc *CLIContext) (EventPublisher, error) {
	p, err := kafka.NewProducer(cc.Config.Kafka, cc.Logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newMinIOPublisher(_ context.Context, cc *CLIContext) (FeedPublisher, error) {
	client, err := minio.NewClient(cc.Config.MinIO, cc.Logger)
	if err != nil {
		return nil, err
	}
	return minio.NewFeedSource(client, cc.Config.Feed.RulesObject, cc.Config.Feed.DecisionsObject, cc.Logger), nil
}

func newRedisPurger(_ context.Context, cc *CLIContext) (CachePurger, func() error, error) {
	client, err := redis.NewClient(cc.Config.Redis, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewCache(client, cc.Logger), client.Close, nil
}

type postgresMigrator struct{}

func (postgresMigrator) Up(dbURL, sourceURL string) error { return postgres.MigrateUp(dbURL, sourceURL) }

func (postgresMigrator) Down(dbURL, sourceURL string, steps int) error {
	return postgres.MigrateDown(dbURL, sourceURL, steps)
}

func (postgresMigrator) Status(dbURL, sourceURL string) (postgres.MigrationState, error) {
	return postgres.Status(dbURL, sourceURL)
}

func (postgresMigrator) Force(dbURL, sourceURL string, version int) error {
	return postgres.Force(dbURL, sourceURL, version)
}

//Personal.AI order the ending
