// Package comparative is the application service over the decision engine.
// It owns the published snapshot and is the only writer of the case law
// index.
package comparative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/choiceoflaw"
	"github.com/turtacn/JurisCompare/internal/domain/comparison"
	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Reload triggers.
const (
	TriggerStartup = "startup"
	TriggerManual  = "manual"
	TriggerWatch   = "watch"
	TriggerCron    = "cron"
	TriggerEvent   = "event"
)

// FeedSource supplies the bulk rule and decision feeds.
type FeedSource interface {
	LoadRules(ctx context.Context) (*feed.RuleFeed, error)
	LoadDecisions(ctx context.Context) ([]caselaw.DecisionParams, error)
}

// SearchCache memoises search hits.  redis.Cache satisfies it.
type SearchCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// DecisionSink persists decisions added at runtime so that the next reload
// keeps them.
type DecisionSink interface {
	SaveDecision(ctx context.Context, p caselaw.DecisionParams) error
}

// Service defines the application operations of the decision engine.
type Service interface {
	Compare(ctx context.Context, topic string, codes []string) (*comparison.Result, error)
	CompareReport(ctx context.Context, topic string, codes []string) (string, error)
	GenerateReport(result *comparison.Result) string
	AnalyzeChoiceOfLaw(ctx context.Context, input *ChoiceOfLawInput) (*choiceoflaw.Result, error)
	SelectApproach(ctx context.Context, forum string) (*ApproachSelection, error)
	Search(ctx context.Context, q caselaw.Query) ([]caselaw.SearchResult, error)
	GetDecision(ctx context.Context, id string) (*caselaw.Decision, error)
	AddDecision(ctx context.Context, p caselaw.DecisionParams) (*caselaw.Decision, error)
	Reload(ctx context.Context, trigger string) (*SnapshotInfo, error)
	Snapshot() *Snapshot
	Ready() bool
	Topics() []TopicInfo
}

// FactorInput is one contacting factor of a ChoiceOfLawInput.
type FactorInput struct {
	Kind         string `json:"kind"`
	Jurisdiction string `json:"jurisdiction"`
}

// InterestInput is one governmental interest of a ChoiceOfLawInput.
type InterestInput struct {
	Jurisdiction string `json:"jurisdiction"`
	Policy       string `json:"policy,omitempty"`
	Legitimate   bool   `json:"legitimate"`
}

// ChoiceOfLawInput contains input for a choice-of-law analysis.  Category may
// be omitted when Topic is set.  An empty Approach uses the forum's approach.
type ChoiceOfLawInput struct {
	Category    string             `json:"category,omitempty"`
	Topic       string             `json:"topic,omitempty"`
	Factors     []FactorInput      `json:"factors"`
	Interests   []InterestInput    `json:"interests,omitempty"`
	PolicyNotes []string           `json:"policy_notes,omitempty"`
	Forum       string             `json:"forum"`
	Approach    string             `json:"approach,omitempty"`
	Qualities   map[string]float64 `json:"qualities,omitempty"`
}

// ApproachSelection is the approach a forum follows.
type ApproachSelection struct {
	Forum    string               `json:"forum"`
	Approach choiceoflaw.Approach `json:"approach"`
	Listed   bool                 `json:"listed"`
}

// TopicInfo describes a comparison topic.
type TopicInfo struct {
	Topic       rule.Topic    `json:"topic"`
	Category    rule.Category `json:"category"`
	Kind        rule.Kind     `json:"kind"`
	Description string        `json:"description"`
}

// Option configures the service.
type Option func(*serviceImpl)

// WithSearchCache enables the search response cache.
func WithSearchCache(c SearchCache) Option {
	return func(s *serviceImpl) { s.cache = c }
}

// WithDecisionSink persists decisions added at runtime.
func WithDecisionSink(sink DecisionSink) Option {
	return func(s *serviceImpl) { s.sink = sink }
}

// WithMetrics records engine metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

type serviceImpl struct {
	source   FeedSource
	settings Settings
	cache    SearchCache
	sink     DecisionSink
	metrics  *prometheus.AppMetrics
	logger   logging.Logger

	current atomic.Pointer[Snapshot]
	// writeMu serialises Reload and AddDecision and guards the fields below.
	writeMu sync.Mutex
	// added holds decisions added while at least one reload is loading, so
	// the reload can carry them into the index it publishes.
	added     []*caselaw.Decision
	reloading int
}

// NewService creates the service with an empty generation-zero snapshot.
// Call Reload to load the feeds.
func NewService(source FeedSource, settings Settings, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		source:   source,
		settings: settings,
		metrics:  prometheus.NewNoopAppMetrics(),
		logger:   logger.Named("comparative"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(emptySnapshot(settings))
	return s
}

func (s *serviceImpl) Snapshot() *Snapshot { return s.current.Load() }

func (s *serviceImpl) Ready() bool { return s.current.Load().Generation > 0 }

func (s *serviceImpl) Topics() []TopicInfo {
	topics := rule.AllTopics()
	out := make([]TopicInfo, len(topics))
	for i, t := range topics {
		out[i] = TopicInfo{Topic: t, Category: t.Category(), Kind: t.ExpectedKind(), Description: t.Description()}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Comparison
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Compare(ctx context.Context, topic string, codes []string) (*comparison.Result, error) {
	start := time.Now()
	t, err := rule.ParseTopic(topic)
	if err != nil {
		prometheus.RecordCompare(s.metrics, "invalid", time.Since(start), err)
		return nil, err
	}
	res, err := s.Snapshot().Engine().Compare(t, codes)
	prometheus.RecordCompare(s.metrics, string(t), time.Since(start), err)
	if err != nil {
		s.logger.WithContext(ctx).Debug("comparison rejected", logging.String("topic", string(t)), logging.Err(err))
		return nil, err
	}
	s.logger.WithContext(ctx).Debug("comparison completed",
		logging.String("topic", string(t)),
		logging.Int("jurisdictions", len(res.Jurisdictions)),
		logging.Int("unknown", res.UnknownCount()))
	return res, nil
}

func (s *serviceImpl) GenerateReport(result *comparison.Result) string {
	return comparison.GenerateReport(result)
}

func (s *serviceImpl) CompareReport(ctx context.Context, topic string, codes []string) (string, error) {
	res, err := s.Compare(ctx, topic, codes)
	if err != nil {
		return "", err
	}
	return s.GenerateReport(res), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Choice of law
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) AnalyzeChoiceOfLaw(ctx context.Context, input *ChoiceOfLawInput) (*choiceoflaw.Result, error) {
	if input == nil {
		return nil, errors.InvalidParam("choice-of-law input is required")
	}
	req, err := input.request()
	if err != nil {
		prometheus.RecordChoiceOfLaw(s.metrics, approachLabel(input.Approach), string(errors.GetCode(err)), 0)
		return nil, err
	}

	res, err := s.Snapshot().Analyzer().Analyze(req)
	if err != nil {
		label := approachLabel(string(req.Approach))
		prometheus.RecordChoiceOfLaw(s.metrics, label, string(errors.GetCode(err)), 0)
		s.logger.WithContext(ctx).Debug("choice-of-law analysis failed", logging.String("approach", label), logging.Err(err))
		return nil, err
	}
	prometheus.RecordChoiceOfLaw(s.metrics, string(res.Approach), "selected", res.Confidence)
	s.logger.WithContext(ctx).Debug("choice-of-law analysis completed",
		logging.String("approach", string(res.Approach)),
		logging.String("selected", res.Selected.Code),
		logging.Float64("confidence", res.Confidence),
		logging.Bool("auto_selected", res.AutoSelected))
	return res, nil
}

func approachLabel(a string) string {
	if a == "" {
		return "auto"
	}
	return a
}

func (in *ChoiceOfLawInput) request() (choiceoflaw.Request, error) {
	p := choiceoflaw.FactPatternParams{PolicyNotes: in.PolicyNotes}
	if strings.TrimSpace(in.Category) != "" {
		c, err := rule.ParseCategory(in.Category)
		if err != nil {
			return choiceoflaw.Request{}, err
		}
		p.Category = c
	}
	if strings.TrimSpace(in.Topic) != "" {
		t, err := rule.ParseTopic(in.Topic)
		if err != nil {
			return choiceoflaw.Request{}, err
		}
		p.Topic = t
	}
	for _, f := range in.Factors {
		kind, err := choiceoflaw.ParseFactorKind(f.Kind)
		if err != nil {
			return choiceoflaw.Request{}, err
		}
		p.Factors = append(p.Factors, choiceoflaw.Factor{Kind: kind, Jurisdiction: f.Jurisdiction})
	}
	for _, i := range in.Interests {
		p.Interests = append(p.Interests, choiceoflaw.Interest{Jurisdiction: i.Jurisdiction, Policy: i.Policy, Legitimate: i.Legitimate})
	}
	pattern, err := choiceoflaw.NewFactPattern(p)
	if err != nil {
		return choiceoflaw.Request{}, err
	}

	req := choiceoflaw.Request{Pattern: pattern, Forum: in.Forum, Qualities: in.Qualities}
	if strings.TrimSpace(in.Approach) != "" {
		a, err := choiceoflaw.ParseApproach(in.Approach)
		if err != nil {
			return choiceoflaw.Request{}, err
		}
		req.Approach = a
	}
	return req, nil
}

func (s *serviceImpl) SelectApproach(_ context.Context, forum string) (*ApproachSelection, error) {
	if strings.TrimSpace(forum) == "" {
		return nil, errors.InvalidParam("forum is required")
	}
	snap := s.Snapshot()
	a, listed := snap.Analyzer().SelectApproach(forum)
	return &ApproachSelection{Forum: snap.Registry.Normalize(forum), Approach: a, Listed: listed}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Case law
// ─────────────────────────────────────────────────────────────────────────────

// cachedHit is the cached form of a search result.  Decisions are
// rehydrated from the snapshot that produced the key.
type cachedHit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

func (s *serviceImpl) Search(ctx context.Context, q caselaw.Query) ([]caselaw.SearchResult, error) {
	start := time.Now()
	snap := s.Snapshot()

	results, err := s.search(ctx, snap, q)
	prometheus.RecordSearch(s.metrics, time.Since(start), len(results), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *serviceImpl) search(ctx context.Context, snap *Snapshot, q caselaw.Query) ([]caselaw.SearchResult, error) {
	if s.cache == nil {
		return snap.Index.Search(q)
	}

	var (
		hits   []cachedHit
		direct []caselaw.SearchResult
		loaded bool
	)
	err := s.cache.GetOrSet(ctx, searchKey(snap.Generation, q), &hits, s.settings.SearchCacheTTL, func(context.Context) (interface{}, error) {
		loaded = true
		res, err := snap.Index.Search(q)
		if err != nil {
			return nil, err
		}
		direct = res
		out := make([]cachedHit, len(res))
		for i, r := range res {
			out[i] = cachedHit{ID: r.Decision.ID, Score: r.Score}
		}
		return out, nil
	})
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeInvalidQuery) {
			return nil, err
		}
		s.logger.WithContext(ctx).Warn("search cache unavailable, searching directly", logging.Err(err))
		return snap.Index.Search(q)
	}
	prometheus.RecordCacheAccess(s.metrics, "search", !loaded)
	if direct != nil {
		return direct, nil
	}

	results := make([]caselaw.SearchResult, 0, len(hits))
	for _, h := range hits {
		d, err := snap.Index.Get(h.ID)
		if err != nil {
			s.logger.WithContext(ctx).Warn("stale search cache entry", logging.String("id", h.ID))
			return snap.Index.Search(q)
		}
		results = append(results, caselaw.SearchResult{Decision: d, Score: h.Score})
	}
	return results, nil
}

// searchKey identifies q within one snapshot generation.
func searchKey(generation uint64, q caselaw.Query) string {
	level := strings.ToLower(strings.TrimSpace(string(q.CourtLevel)))
	raw := strings.Join([]string{
		strings.Join(q.Terms(), " "),
		level,
		caselaw.NormalizeTopic(q.Topic),
		strconv.Itoa(q.Limit),
	}, "\x1f")
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("search:%d:%s", generation, hex.EncodeToString(sum[:16]))
}

func (s *serviceImpl) GetDecision(_ context.Context, id string) (*caselaw.Decision, error) {
	return s.Snapshot().Index.Get(id)
}

func (s *serviceImpl) AddDecision(ctx context.Context, p caselaw.DecisionParams) (*caselaw.Decision, error) {
	d, err := caselaw.NewDecision(p)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.current.Load()
	if _, err := cur.Index.Get(d.ID); err == nil {
		return nil, errors.New(errors.ErrCodeDuplicateID, "duplicate decision id").WithDetail("id=" + d.ID)
	}
	if s.sink != nil {
		if err := s.sink.SaveDecision(ctx, d.Params()); err != nil {
			return nil, err
		}
	}
	idx := cur.Index.Clone()
	if err := idx.Add(d); err != nil {
		return nil, err
	}
	next := cur.withIndex(idx)
	s.current.Store(next)
	if s.reloading > 0 {
		s.added = append(s.added, d.Clone())
	}

	prometheus.RecordFeedIngest(s.metrics, "decisions", 1, nil)
	s.logger.WithContext(ctx).Info("decision added",
		logging.String("id", d.ID),
		logging.Uint64("generation", next.Generation))
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reload
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Reload(ctx context.Context, trigger string) (*SnapshotInfo, error) {
	if s.source == nil {
		return nil, errors.New(errors.ErrCodeFeedUnavailable, "no feed source configured")
	}
	start := time.Now()
	if s.settings.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.LoadTimeout)
		defer cancel()
	}

	s.writeMu.Lock()
	s.reloading++
	mark := len(s.added)
	s.writeMu.Unlock()

	reg, cat, idx, err := s.load(ctx)
	if err != nil {
		s.writeMu.Lock()
		s.endReload()
		s.writeMu.Unlock()
		prometheus.RecordSnapshot(s.metrics, trigger, time.Since(start), 0, nil, err)
		s.logger.WithContext(ctx).Error("snapshot reload failed, keeping the current snapshot",
			logging.String("trigger", trigger),
			logging.Err(err))
		return nil, err
	}

	s.writeMu.Lock()
	carried := s.carryAdded(ctx, idx, s.added[mark:])
	s.endReload()
	next := newSnapshot(reg, cat, idx, s.current.Load().Generation+1, s.settings)
	s.current.Store(next)
	s.writeMu.Unlock()

	info := next.Info()
	prometheus.RecordSnapshot(s.metrics, trigger, time.Since(start), info.Generation, info.sizes(), nil)
	s.logger.WithContext(ctx).Info("snapshot published",
		logging.String("trigger", trigger),
		logging.Uint64("generation", info.Generation),
		logging.Int("jurisdictions", info.Jurisdictions),
		logging.Int("rules", info.Rules),
		logging.Int("decisions", info.Decisions),
		logging.Int("carried", carried),
		logging.Duration("elapsed", time.Since(start)))
	return &info, nil
}

// carryAdded adds to idx the decisions AddDecision published after the load
// started.  Ones the feed already returned are skipped.  Caller holds writeMu.
func (s *serviceImpl) carryAdded(ctx context.Context, idx *caselaw.Index, added []*caselaw.Decision) int {
	n := 0
	for _, d := range added {
		if _, err := idx.Get(d.ID); err == nil {
			continue
		}
		if err := idx.Add(d); err != nil {
			s.logger.WithContext(ctx).Warn("could not carry added decision into reloaded index",
				logging.String("id", d.ID),
				logging.Err(err))
			continue
		}
		n++
	}
	return n
}

// endReload closes one in-flight reload.  Caller holds writeMu.
func (s *serviceImpl) endReload() {
	s.reloading--
	if s.reloading == 0 {
		s.added = nil
	}
}

// load reads both feeds concurrently and builds the snapshot parts.
func (s *serviceImpl) load(ctx context.Context) (*jurisdiction.InMemoryRegistry, *rule.Catalog, *caselaw.Index, error) {
	var (
		reg *jurisdiction.InMemoryRegistry
		cat *rule.Catalog
		idx *caselaw.Index
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rf, err := s.source.LoadRules(gctx)
		if err != nil {
			return err
		}
		reg, cat, err = rf.Catalog()
		return err
	})
	g.Go(func() error {
		params, err := s.source.LoadDecisions(gctx)
		if err != nil {
			return err
		}
		idx, err = caselaw.Build(params, caselaw.WithRelevance(s.settings.Relevance))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return reg, cat, idx, nil
}

var _ Service = (*serviceImpl)(nil)

//Personal.AI order the ending
