// Package kafka carries the feed ingestion and snapshot rebuild event streams
// over segmentio/kafka-go.
package kafka

import (
	"context"
	"time"
)

// Message is a consumed record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// ProducerMessage is a record to publish.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message.  A returned error triggers a retry.
type Handler func(ctx context.Context, msg *Message) error

// TopicConfig describes a topic to create.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
}

//Personal.AI order the ending
