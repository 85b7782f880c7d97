package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
)

// ConsumerMetrics holds consumer counters.
type ConsumerMetrics struct {
	MessagesConsumed     atomic.Int64
	MessagesProcessed    atomic.Int64
	MessagesFailed       atomic.Int64
	MessagesRetried      atomic.Int64
	MessagesDeadLettered atomic.Int64
	Lag                  atomic.Int64
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithRetry sets the handler retry budget and the initial backoff, which
// doubles up to maxBackoff.
func WithRetry(maxRetries int, backoff, maxBackoff time.Duration) ConsumerOption {
	return func(c *Consumer) {
		c.maxRetries = maxRetries
		c.backoff = backoff
		c.maxBackoff = maxBackoff
	}
}

// WithDeadLetter republishes messages that exhaust their retries to topic.
func WithDeadLetter(p *Producer, topic string) ConsumerOption {
	return func(c *Consumer) {
		c.deadLetter = p
		c.deadLetterTopic = topic
	}
}

// Consumer dispatches records to per-topic handlers and commits each record
// once it has been handled or dead-lettered.
type Consumer struct {
	reader  ReaderInterface
	groupID string
	logger  logging.Logger

	handlers map[string]Handler
	mu       sync.RWMutex

	maxRetries      int
	backoff         time.Duration
	maxBackoff      time.Duration
	deadLetter      *Producer
	deadLetterTopic string
	fetchBackoff    time.Duration

	running   atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	metrics   *ConsumerMetrics
}

// NewConsumer creates a group consumer for topics.
func NewConsumer(cfg config.KafkaConfig, groupID string, topics []string, logger logging.Logger, opts ...ConsumerOption) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if groupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "kafka group id required")
	}
	if len(topics) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "at least one topic required")
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        groupID,
		GroupTopics:    topics,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        cfg.MaxWait,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafka.FirstOffset,
		Dialer:         &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true},
	}
	if cfg.StartOffset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}
	if readerCfg.MinBytes == 0 {
		readerCfg.MinBytes = 1
	}
	if readerCfg.MaxBytes == 0 {
		readerCfg.MaxBytes = 10 << 20
	}

	return NewConsumerWithReader(kafka.NewReader(readerCfg), groupID, logger, opts...), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r ReaderInterface, groupID string, logger logging.Logger, opts ...ConsumerOption) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Consumer{
		reader:       r,
		groupID:      groupID,
		logger:       logger.Named("kafka.consumer"),
		handlers:     make(map[string]Handler),
		maxRetries:   3,
		backoff:      time.Second,
		maxBackoff:   30 * time.Second,
		fetchBackoff: time.Second,
		metrics:      &ConsumerMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers handler for topic.
func (c *Consumer) Subscribe(topic string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	c.logger.Info("Subscribed to topic", logging.String("topic", topic))
}

// Start runs the consume loop in the background until ctx ends or Close.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("Kafka consumer started", logging.String("group", c.groupID))
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		c.metrics.MessagesConsumed.Add(1)
		if m.HighWaterMark > 0 {
			c.metrics.Lag.Store(m.HighWaterMark - m.Offset - 1)
		}

		msg := fromKafkaMessage(m)

		c.mu.RLock()
		handler, ok := c.handlers[m.Topic]
		c.mu.RUnlock()

		if !ok {
			c.logger.Warn("No handler for topic", logging.String("topic", m.Topic))
		} else if err := c.processMessage(ctx, msg, handler); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.metrics.MessagesFailed.Add(1)
		} else {
			c.metrics.MessagesProcessed.Add(1)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("CommitMessages failed", logging.Err(err))
		}
	}
}

// processMessage runs handler with retries.  When retries are exhausted the
// message is dead-lettered if configured and the handler error returned.
func (c *Consumer) processMessage(ctx context.Context, msg *Message, handler Handler) error {
	err := handler(ctx, msg)
	if err == nil {
		return nil
	}

	backoff := c.backoff
	for i := 0; i < c.maxRetries; i++ {
		c.metrics.MessagesRetried.Add(1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if err = handler(ctx, msg); err == nil {
			return nil
		}
		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}

	c.logger.Error("Message processing failed after retries",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Err(err))

	if c.deadLetter != nil && c.deadLetterTopic != "" {
		headers := make(map[string]string, len(msg.Headers)+2)
		for k, v := range msg.Headers {
			headers[k] = v
		}
		headers["original_topic"] = msg.Topic
		headers["error_message"] = err.Error()
		dl := &ProducerMessage{Topic: c.deadLetterTopic, Key: msg.Key, Value: msg.Value, Headers: headers}
		if dlErr := c.deadLetter.Publish(ctx, dl); dlErr != nil {
			c.logger.Error("Failed to send to dead letter topic", logging.Err(dlErr))
		} else {
			c.metrics.MessagesDeadLettered.Add(1)
		}
	}
	return err
}

// Metrics returns the consumer counters.
func (c *Consumer) Metrics() *ConsumerMetrics { return c.metrics }

// Close stops the loop and closes the reader once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.running.Swap(false) {
			c.cancel()
			c.wg.Wait()
		}
		err = c.reader.Close()
		c.logger.Info("Kafka consumer closed",
			logging.Int64("consumed", c.metrics.MessagesConsumed.Load()))
	})
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

//Personal.AI order the ending
