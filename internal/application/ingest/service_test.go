package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/internal/infrastructure/database/redis"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/internal/testutil"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

const rebuildTopic = "juris.snapshot.rebuild"

// ─────────────────────────────────────────────────────────────────────────────
// Doubles
// ─────────────────────────────────────────────────────────────────────────────

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpsertRules(ctx context.Context, f *feed.RuleFeed) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockStore) UpsertDecisions(ctx context.Context, ps []caselaw.DecisionParams) (int, error) {
	args := m.Called(ctx, ps)
	return args.Int(0), args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	keys   []string
	envs   []*kafka.EventEnvelope
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, env *kafka.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.envs = append(p.envs, env)
	return nil
}

func (p *recordingPublisher) rebuild(t *testing.T, i int) kafka.SnapshotRebuildPayload {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.Greater(t, len(p.envs), i)
	assert.Equal(t, kafka.EventSnapshotRebuild, p.envs[i].EventType)
	var out kafka.SnapshotRebuildPayload
	require.NoError(t, p.envs[i].DecodePayload(&out))
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func validRules() *feed.RuleFeed {
	return &feed.RuleFeed{
		Jurisdictions: []feed.JurisdictionRecord{
			{Code: "US-CA", Name: "California", Tradition: "common_law"},
			{Code: "US-AL", Name: "Alabama", Tradition: "common_law"},
		},
		Rules: []feed.RuleRecord{
			{Jurisdiction: "US-CA", Topic: "comparative_negligence", Kind: "threshold",
				Threshold: &rule.Threshold{Name: "pure", Cutoff: 100, Unit: "percent"}},
			{Jurisdiction: "US-AL", Topic: "comparative_negligence", Kind: "threshold",
				Threshold: &rule.Threshold{Name: "contributory", Cutoff: 0, Unit: "percent"}},
		},
	}
}

func validDecisions() *feed.DecisionFeed {
	return &feed.DecisionFeed{Decisions: []feed.DecisionRecord{
		{
			ID: "ca-sc-1975-li", CaseNumber: "S.F. 23061", Date: "1975-03-31", CourtLevel: "supreme",
			Summary:  "Pure comparative negligence adopted.",
			Holdings: []caselaw.Holding{{Issue: "contributory negligence", Conclusion: "pure comparative negligence"}},
		},
		{
			ID: "ny-coa-1963-babcock", CaseNumber: "12 N.Y.2d 473", Date: "1963-05-09", CourtLevel: "supreme",
			Summary:  "Most significant relationship governs.",
			Holdings: []caselaw.Holding{{Issue: "guest statute", Conclusion: "greatest concern applies"}},
		},
	}}
}

func newMetrics(t *testing.T) (*prometheus.AppMetrics, func() string) {
	t.Helper()
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "juris"}, nil)
	require.NoError(t, err)
	scrape := func() string {
		w := httptest.NewRecorder()
		c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return w.Body.String()
	}
	return prometheus.NewAppMetrics(c), scrape
}

func envelopeMessage(t *testing.T, topic, eventType string, payload interface{}) *kafka.Message {
	t.Helper()
	env, err := kafka.NewEventEnvelope(eventType, "test", payload)
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return &kafka.Message{Topic: topic, Value: data}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestIngestRules_PersistsAndRequestsRebuild(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	rf := validRules()
	store.On("UpsertRules", mock.Anything, rf).Return(nil)
	pub := &recordingPublisher{}
	m, scrape := newMetrics(t)

	svc := NewService(store, pub, rebuildTopic, nil, WithMetrics(m))
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.IngestRules(context.Background(), rf)
	require.NoError(t, err)
	assert.Equal(t, &Result{Kind: KindRules, Rules: 2, RebuildRequested: true}, res)
	store.AssertExpectations(t)

	assert.Equal(t, []string{rebuildTopic}, pub.topics)
	assert.Equal(t, []string{KindRules}, pub.keys)
	p := pub.rebuild(t, 0)
	assert.Equal(t, KindRules, p.Reason)
	assert.Equal(t, 2, p.Rules)
	assert.True(t, fixed.Equal(p.RequestedAt))

	assert.Contains(t, scrape(), `juris_feed_ingest_total{kind="rules",status="success"} 2`)
}

func TestIngestRules_InvalidFeedNotPersisted(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	pub := &recordingPublisher{}
	m, scrape := newMetrics(t)
	svc := NewService(store, pub, rebuildTopic, nil, WithMetrics(m))

	rf := validRules()
	rf.Rules = append(rf.Rules, feed.RuleRecord{Jurisdiction: "XX", Topic: "comparative_negligence", Kind: "threshold",
		Threshold: &rule.Threshold{Name: "pure", Cutoff: 100}})

	_, err := svc.IngestRules(context.Background(), rf)
	require.Error(t, err)
	store.AssertNotCalled(t, "UpsertRules", mock.Anything, mock.Anything)
	assert.Empty(t, pub.envs)
	assert.Contains(t, scrape(), `juris_feed_ingest_total{kind="rules",status="error"} 3`)

	_, err = svc.IngestRules(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestIngestRules_StoreError(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("UpsertRules", mock.Anything, mock.Anything).Return(errors.New(errors.ErrCodeDatabaseError, "tx failed"))
	pub := &recordingPublisher{}
	svc := NewService(store, pub, rebuildTopic, nil)

	_, err := svc.IngestRules(context.Background(), validRules())
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
	assert.Empty(t, pub.envs)
}

func TestIngestDecisions(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("UpsertDecisions", mock.Anything, mock.MatchedBy(func(ps []caselaw.DecisionParams) bool {
		return len(ps) == 2 && ps[0].ID == "ca-sc-1975-li" && ps[0].Date.Year() == 1975
	})).Return(2, nil)
	pub := &recordingPublisher{}
	svc := NewService(store, pub, rebuildTopic, nil)

	res, err := svc.IngestDecisions(context.Background(), validDecisions())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Decisions)
	assert.True(t, res.RebuildRequested)
	assert.Equal(t, 2, pub.rebuild(t, 0).Decisions)
	store.AssertExpectations(t)
}

func TestIngestDecisions_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]func(df *feed.DecisionFeed){
		"bad date":     func(df *feed.DecisionFeed) { df.Decisions[0].Date = "31/03/1975" },
		"duplicate id": func(df *feed.DecisionFeed) { df.Decisions[1].ID = df.Decisions[0].ID },
		"no summary":   func(df *feed.DecisionFeed) { df.Decisions[0].Summary = "" },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := new(mockStore)
			svc := NewService(store, &recordingPublisher{}, rebuildTopic, nil)
			df := validDecisions()
			mutate(df)

			_, err := svc.IngestDecisions(context.Background(), df)
			require.Error(t, err)
			store.AssertNotCalled(t, "UpsertDecisions", mock.Anything, mock.Anything)
		})
	}
}

func TestIngest_PublishFailureKeepsBatch(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("UpsertRules", mock.Anything, mock.Anything).Return(nil)
	pub := &recordingPublisher{err: errors.New(errors.ErrCodeMessageQueueError, "broker down")}
	logger := testutil.NewMockLogger()
	svc := NewService(store, pub, rebuildTopic, logger)

	res, err := svc.IngestRules(context.Background(), validRules())
	require.NoError(t, err)
	assert.False(t, res.RebuildRequested)
	assert.True(t, logger.HasMessage("warn", "failed to publish rebuild event"))
}

func TestIngest_NoPublisher(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("UpsertRules", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(store, nil, rebuildTopic, nil)

	res, err := svc.IngestRules(context.Background(), validRules())
	require.NoError(t, err)
	assert.False(t, res.RebuildRequested)

	err = svc.RequestRebuild(context.Background(), "cron")
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestRequestRebuild(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	svc := NewService(new(mockStore), pub, rebuildTopic, nil)
	require.NoError(t, svc.RequestRebuild(context.Background(), "cron"))
	assert.Equal(t, "cron", pub.rebuild(t, 0).Reason)
	assert.Equal(t, []string{"cron"}, pub.keys)
}

func newLockFactory(t *testing.T) (*redis.LockFactory, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { _ = rdb.Close() })
	client := redis.NewClientWithUniversal(rdb, "juris:", logging.NewNopLogger())
	return redis.NewLockFactory(client, time.Minute, nil), mr
}

func TestIngest_HoldsLockWhileWriting(t *testing.T) {
	t.Parallel()

	factory, mr := newLockFactory(t)
	store := new(mockStore)
	var heldDuringWrite bool
	store.On("UpsertRules", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		heldDuringWrite = mr.Exists("juris:lock:ingest")
	}).Return(nil)

	svc := NewService(store, nil, "", nil, WithLocker(factory, ""))
	_, err := svc.IngestRules(context.Background(), validRules())
	require.NoError(t, err)
	assert.True(t, heldDuringWrite)
	assert.False(t, mr.Exists("juris:lock:ingest"))
}

func TestIngest_LockContended(t *testing.T) {
	t.Parallel()

	factory, _ := newLockFactory(t)
	holder := factory.NewMutex("ingest")
	require.NoError(t, holder.Lock(context.Background()))
	defer func() { _ = holder.Unlock(context.Background()) }()

	store := new(mockStore)
	svc := NewService(store, nil, "", nil, WithLocker(factory, "ingest"))
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err := svc.IngestRules(ctx, validRules())
	assert.ErrorIs(t, err, redis.ErrLockNotAcquired)
	store.AssertNotCalled(t, "UpsertRules", mock.Anything, mock.Anything)
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

func TestHandleRules(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("UpsertRules", mock.Anything, mock.MatchedBy(func(f *feed.RuleFeed) bool {
		return len(f.Rules) == 2 && f.Jurisdictions[0].Code == "US-CA"
	})).Return(nil)
	svc := NewService(store, nil, "", nil)

	msg := envelopeMessage(t, "juris.rules.ingest", kafka.EventRulesIngested, validRules())
	require.NoError(t, svc.HandleRules(context.Background(), msg))
	store.AssertExpectations(t)
}

func TestHandleDecisions(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("UpsertDecisions", mock.Anything, mock.Anything).Return(2, nil)
	svc := NewService(store, nil, "", nil)

	msg := envelopeMessage(t, "juris.decisions.ingest", kafka.EventDecisionsIngested, validDecisions())
	require.NoError(t, svc.HandleDecisions(context.Background(), msg))
	store.AssertExpectations(t)
}

func TestHandlers_RejectBadMessages(t *testing.T) {
	t.Parallel()

	svc := NewService(new(mockStore), nil, "", nil)
	ctx := context.Background()

	err := svc.HandleRules(ctx, &kafka.Message{Topic: "juris.rules.ingest"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	err = svc.HandleRules(ctx, &kafka.Message{Topic: "juris.rules.ingest", Value: []byte("{not json")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))

	wrongType := envelopeMessage(t, "juris.rules.ingest", kafka.EventDecisionsIngested, validDecisions())
	err = svc.HandleRules(ctx, wrongType)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

// ─────────────────────────────────────────────────────────────────────────────
// Rebuild
// ─────────────────────────────────────────────────────────────────────────────

type mockReloader struct {
	mock.Mock
}

func (m *mockReloader) Reload(ctx context.Context, trigger string) (*comparative.SnapshotInfo, error) {
	args := m.Called(ctx, trigger)
	info, _ := args.Get(0).(*comparative.SnapshotInfo)
	return info, args.Error(1)
}

func TestRebuildHandler(t *testing.T) {
	t.Parallel()

	r := new(mockReloader)
	r.On("Reload", mock.Anything, comparative.TriggerEvent).Return(&comparative.SnapshotInfo{Generation: 4}, nil).Once()
	logger := testutil.NewMockLogger()
	h := NewRebuildHandler(r, logger)

	msg := envelopeMessage(t, rebuildTopic, kafka.EventSnapshotRebuild, kafka.SnapshotRebuildPayload{Reason: "rules"})
	require.NoError(t, h(context.Background(), msg))
	r.AssertExpectations(t)

	gen, ok := logger.FieldValue("snapshot rebuilt", "generation")
	require.True(t, ok)
	assert.EqualValues(t, 4, gen)
}

func TestRebuildHandler_SkipsForeignAndMalformed(t *testing.T) {
	t.Parallel()

	r := new(mockReloader)
	h := NewRebuildHandler(r, nil)
	ctx := context.Background()

	assert.NoError(t, h(ctx, &kafka.Message{Value: []byte("garbage")}))
	assert.NoError(t, h(ctx, envelopeMessage(t, rebuildTopic, kafka.EventRulesIngested, validRules())))
	r.AssertNotCalled(t, "Reload", mock.Anything, mock.Anything)
}

func TestRebuildHandler_ReloadErrorRetries(t *testing.T) {
	t.Parallel()

	r := new(mockReloader)
	r.On("Reload", mock.Anything, comparative.TriggerEvent).Return(nil, errors.New(errors.ErrCodeFeedUnavailable, "feed down"))
	h := NewRebuildHandler(r, nil)

	msg := envelopeMessage(t, rebuildTopic, kafka.EventSnapshotRebuild, kafka.SnapshotRebuildPayload{Reason: "cron"})
	err := h(context.Background(), msg)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFeedUnavailable))
}

//Personal.AI order the ending
