package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Event types.
const (
	EventRulesIngested     = "rules.ingested"
	EventDecisionsIngested = "decisions.ingested"
	EventSnapshotRebuild   = "snapshot.rebuild"
)

// TopicDeadLetter receives ingest records that could not be applied.
const TopicDeadLetter = "juris.dead_letter"

// EventEnvelope wraps every event on the juris topics.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RulesIngestPayload is a partial or complete rule feed to upsert.
type RulesIngestPayload = feed.RuleFeed

// DecisionsIngestPayload is a batch of decisions to upsert.
type DecisionsIngestPayload = feed.DecisionFeed

// SnapshotRebuildPayload asks every API server to reload its snapshot.
type SnapshotRebuildPayload struct {
	Reason      string    `json:"reason"`
	Rules       int       `json:"rules,omitempty"`
	Decisions   int       `json:"decisions,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewEventEnvelope marshals payload into a fresh envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the payload into target.  Unknown fields fail.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "event payload is empty").WithDetail("event_id=" + e.EventID)
	}
	if err := feed.Decode(feed.FormatJSON, e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload").WithDetail("event_id=" + e.EventID)
	}
	return nil
}

// ToMessage renders the envelope as a record on topic.
func (e *EventEnvelope) ToMessage(topic string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return &ProducerMessage{
		Topic: topic,
		Key:   []byte(e.EventID),
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// MessageToEventEnvelope parses a consumed record.
func MessageToEventEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic management
// ─────────────────────────────────────────────────────────────────────────────

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates the juris topics.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first broker.
func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessageQueueError, "failed to dial kafka")
	}
	return NewTopicManagerWithConn(conn, logger), nil
}

// NewTopicManagerWithConn wraps an existing connection.
func NewTopicManagerWithConn(conn ConnInterface, logger logging.Logger) *TopicManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, logger: logger.Named("kafka.topics")}
}

// CreateTopic creates cfg unless it already exists.
func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 || cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "partitions and replication factor must be > 0").WithDetail("topic=" + cfg.Name)
	}
	if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
		return nil
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "retention.ms", ConfigValue: strconv.FormatInt(cfg.RetentionMs, 10)})
	}
	if cfg.CleanupPolicy != "" {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "cleanup.policy", ConfigValue: cfg.CleanupPolicy})
	}
	if err := m.conn.CreateTopics(kCfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessageQueueError, "failed to create topic").WithDetail("topic=" + cfg.Name)
	}
	m.logger.Info("Topic created", logging.String("topic", cfg.Name))
	return nil
}

// TopicExists reports whether name has partitions.
func (m *TopicManager) TopicExists(_ context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

// EnsureTopics creates every topic in topics.
func (m *TopicManager) EnsureTopics(ctx context.Context, topics []TopicConfig) error {
	for _, t := range topics {
		if err := m.CreateTopic(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the connection.
func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the juris topics named by cfg.
func DefaultTopics(cfg config.KafkaConfig) []TopicConfig {
	const day = 24 * 3600 * 1000
	return []TopicConfig{
		{Name: cfg.RulesTopic, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 30 * day},
		{Name: cfg.DecisionsTopic, NumPartitions: 6, ReplicationFactor: 1, RetentionMs: 30 * day},
		{Name: cfg.RebuildTopic, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 1 * day},
		{Name: TopicDeadLetter, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 90 * day},
	}
}

//Personal.AI order the ending
