// Package ingest persists feed batches arriving on the ingest topics and
// asks every API server to rebuild its snapshot afterwards.
package ingest

import (
	"context"
	"time"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/redis"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Feed kinds, used as metric labels and rebuild reasons.
const (
	KindRules     = "rules"
	KindDecisions = "decisions"
)

// DefaultLockName serialises writers across worker replicas.
const DefaultLockName = "ingest"

// eventSource identifies the worker on published envelopes.
const eventSource = "juris-worker"

// FeedStore persists feed batches.  *repositories.FeedRepository satisfies it.
type FeedStore interface {
	UpsertRules(ctx context.Context, f *feed.RuleFeed) error
	UpsertDecisions(ctx context.Context, ps []caselaw.DecisionParams) (int, error)
}

// Publisher publishes rebuild envelopes.  *kafka.Producer satisfies it.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, env *kafka.EventEnvelope) error
}

// Locker hands out distributed mutexes.  *redis.LockFactory satisfies it.
type Locker interface {
	NewMutex(name string, opts ...redis.LockOption) redis.Lock
}

// Result summarises one ingested batch.
type Result struct {
	Kind      string `json:"kind"`
	Rules     int    `json:"rules,omitempty"`
	Decisions int    `json:"decisions,omitempty"`
	// RebuildRequested is false when publishing the rebuild event failed;
	// the batch is still persisted.
	RebuildRequested bool `json:"rebuild_requested"`
}

// Option configures a Service.
type Option func(*Service)

// WithLocker serialises ingestion under a distributed lock.
func WithLocker(l Locker, name string) Option {
	return func(s *Service) {
		s.locker = l
		if name != "" {
			s.lockName = name
		}
	}
}

// WithMetrics records ingest counters.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service validates, persists and announces feed batches.
type Service struct {
	store        FeedStore
	publisher    Publisher
	rebuildTopic string
	locker       Locker
	lockName     string
	metrics      *prometheus.AppMetrics
	logger       logging.Logger
	now          func() time.Time
}

// NewService creates a Service.  A nil publisher disables rebuild events.
func NewService(store FeedStore, publisher Publisher, rebuildTopic string, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		store:        store,
		publisher:    publisher,
		rebuildTopic: rebuildTopic,
		lockName:     DefaultLockName,
		logger:       logger.Named("ingest"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Batches
// ─────────────────────────────────────────────────────────────────────────────

// IngestRules validates rf, upserts it and requests a rebuild.  A feed that
// does not build a catalog is rejected before anything is written.
func (s *Service) IngestRules(ctx context.Context, rf *feed.RuleFeed) (*Result, error) {
	if rf == nil {
		return nil, errors.New(errors.ErrCodeValidation, "rule feed is nil")
	}
	if _, _, err := rf.Catalog(); err != nil {
		s.record(KindRules, len(rf.Rules), err)
		return nil, err
	}

	res := &Result{Kind: KindRules, Rules: len(rf.Rules)}
	err := s.withLock(ctx, func(ctx context.Context) error {
		return s.store.UpsertRules(ctx, rf)
	})
	s.record(KindRules, len(rf.Rules), err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("rule feed ingested",
		logging.Int("rules", len(rf.Rules)),
		logging.Int("jurisdictions", len(rf.Jurisdictions)))
	res.RebuildRequested = s.requestRebuild(ctx, &kafka.SnapshotRebuildPayload{Reason: KindRules, Rules: res.Rules})
	return res, nil
}

// IngestDecisions validates df, upserts it and requests a rebuild.  Every
// decision must index; duplicate ids within the batch are rejected.
func (s *Service) IngestDecisions(ctx context.Context, df *feed.DecisionFeed) (*Result, error) {
	if df == nil {
		return nil, errors.New(errors.ErrCodeValidation, "decision feed is nil")
	}
	params, err := df.Params()
	if err == nil {
		_, err = caselaw.Build(params)
	}
	if err != nil {
		s.record(KindDecisions, len(df.Decisions), err)
		return nil, err
	}

	var n int
	err = s.withLock(ctx, func(ctx context.Context) error {
		var uerr error
		n, uerr = s.store.UpsertDecisions(ctx, params)
		return uerr
	})
	s.record(KindDecisions, n, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("decision feed ingested", logging.Int("decisions", n))
	res := &Result{Kind: KindDecisions, Decisions: n}
	res.RebuildRequested = s.requestRebuild(ctx, &kafka.SnapshotRebuildPayload{Reason: KindDecisions, Decisions: n})
	return res, nil
}

// RequestRebuild publishes a rebuild event without ingesting anything.
func (s *Service) RequestRebuild(ctx context.Context, reason string) error {
	if s.publisher == nil || s.rebuildTopic == "" {
		return errors.New(errors.ErrCodeServiceUnavailable, "rebuild publishing is not configured")
	}
	return s.publishRebuild(ctx, &kafka.SnapshotRebuildPayload{Reason: reason})
}

func (s *Service) requestRebuild(ctx context.Context, p *kafka.SnapshotRebuildPayload) bool {
	if s.publisher == nil || s.rebuildTopic == "" {
		return false
	}
	if err := s.publishRebuild(ctx, p); err != nil {
		s.logger.Warn("failed to publish rebuild event", logging.String("reason", p.Reason), logging.Err(err))
		return false
	}
	return true
}

func (s *Service) publishRebuild(ctx context.Context, p *kafka.SnapshotRebuildPayload) error {
	p.RequestedAt = s.now().UTC()
	env, err := kafka.NewEventEnvelope(kafka.EventSnapshotRebuild, eventSource, p)
	if err != nil {
		return err
	}
	return s.publisher.PublishEvent(ctx, s.rebuildTopic, p.Reason, env)
}

func (s *Service) withLock(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	mu := s.locker.NewMutex(s.lockName, redis.WithWatchdog(true))
	if err := mu.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		if err := mu.Unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release ingest lock", logging.Err(err))
		}
	}()
	return fn(ctx)
}

func (s *Service) record(kind string, n int, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil && n == 0 {
		n = 1
	}
	prometheus.RecordFeedIngest(s.metrics, kind, n, err)
	if err != nil {
		prometheus.RecordError(s.metrics, "ingest", string(errors.GetCode(err)))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Kafka handlers
// ─────────────────────────────────────────────────────────────────────────────

// HandleRules is the kafka.Handler of the rules ingest topic.
func (s *Service) HandleRules(ctx context.Context, msg *kafka.Message) error {
	var rf kafka.RulesIngestPayload
	if err := decodeEnvelope(msg, kafka.EventRulesIngested, &rf); err != nil {
		return err
	}
	_, err := s.IngestRules(ctx, &rf)
	return err
}

// HandleDecisions is the kafka.Handler of the decisions ingest topic.
func (s *Service) HandleDecisions(ctx context.Context, msg *kafka.Message) error {
	var df kafka.DecisionsIngestPayload
	if err := decodeEnvelope(msg, kafka.EventDecisionsIngested, &df); err != nil {
		return err
	}
	_, err := s.IngestDecisions(ctx, &df)
	return err
}

// Subscribe registers the handlers on c for the configured topics.
func (s *Service) Subscribe(c *kafka.Consumer, rulesTopic, decisionsTopic string) {
	c.Subscribe(rulesTopic, s.HandleRules)
	c.Subscribe(decisionsTopic, s.HandleDecisions)
}

func decodeEnvelope(msg *kafka.Message, eventType string, target interface{}) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return err
	}
	if env.EventType != eventType {
		return errors.Newf(errors.ErrCodeValidation, "unexpected event type %q on %s", env.EventType, msg.Topic)
	}
	return env.DecodePayload(target)
}

//Personal.AI order the ending
