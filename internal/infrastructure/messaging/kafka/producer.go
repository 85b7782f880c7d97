package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

var (
	ErrProducerClosed = errors.New(errors.ErrCodeMessageQueueError, "producer closed")
)

// defaultMaxMessageBytes bounds a single record.
const defaultMaxMessageBytes = 4 << 20

// ProducerMetrics holds producer counters.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes records.
type Producer struct {
	writer          WriterInterface
	logger          logging.Logger
	maxMessageBytes int
	closed          atomic.Bool
	metrics         *ProducerMetrics
}

// NewProducer creates a producer for cfg.Brokers.  Records are keyed with
// the hash balancer so one key stays on one partition.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  4,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		RequiredAcks: kafka.RequireAll,
		Transport:    &kafka.Transport{DialTimeout: 10 * time.Second},
	}
	return NewProducerWithWriter(writer, logger), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w WriterInterface, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{
		writer:          w,
		logger:          logger.Named("kafka.producer"),
		maxMessageBytes: defaultMaxMessageBytes,
		metrics:         &ProducerMetrics{},
	}
}

// Publish writes a single record.
func (p *Producer) Publish(ctx context.Context, msg *ProducerMessage) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if msg == nil || msg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if len(msg.Value) == 0 {
		return errors.New(errors.ErrCodeValidation, "value required")
	}
	if len(msg.Value) > p.maxMessageBytes {
		return errors.New(errors.ErrCodeValidation, "message too large").
			WithDetailf("size=%d max=%d", len(msg.Value), p.maxMessageBytes)
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.ErrCodeMessageQueueError, "publish failed").WithDetail("topic=" + msg.Topic)
	}

	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(msg.Value)))
	p.logger.Debug("Message published",
		logging.String("topic", msg.Topic),
		logging.Duration("latency", time.Since(start)))
	return nil
}

// PublishEvent wraps env into a record on topic.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, env *EventEnvelope) error {
	msg, err := env.ToMessage(topic)
	if err != nil {
		return err
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	return p.Publish(ctx, msg)
}

// Metrics returns the current counters.
func (p *Producer) Metrics() (sent, failed, bytes int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load(), p.metrics.BytesSent.Load()
}

// Close closes the producer once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed", logging.Int64("sent", p.metrics.MessagesSent.Load()))
	return err
}

func toKafkaMessage(msg *ProducerMessage) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
		Time:    ts,
	}
}

//Personal.AI order the ending
