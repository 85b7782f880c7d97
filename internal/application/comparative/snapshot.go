package comparative

import (
	"time"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/choiceoflaw"
	"github.com/turtacn/JurisCompare/internal/domain/comparison"
	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Settings holds the engine tunables shared by every snapshot.
type Settings struct {
	Relevance      caselaw.RelevanceConfig
	ApproachTable  *choiceoflaw.ApproachTable
	Policy         choiceoflaw.Policy
	SearchCacheTTL time.Duration
	LoadTimeout    time.Duration
}

// DefaultSettings returns the built-in engine tunables.
func DefaultSettings() Settings {
	return Settings{
		Relevance:      caselaw.DefaultRelevance(),
		ApproachTable:  choiceoflaw.DefaultApproachTable(),
		Policy:         choiceoflaw.DefaultPolicy(),
		SearchCacheTTL: 5 * time.Minute,
		LoadTimeout:    30 * time.Second,
	}
}

// SettingsFromConfig converts the engine and feed configuration.
func SettingsFromConfig(engine config.EngineConfig, f config.FeedConfig) (Settings, error) {
	s := DefaultSettings()

	r := engine.Relevance
	s.Relevance.SummaryPoints = r.SummaryPoints
	s.Relevance.HoldingPoints = r.HoldingPoints
	s.Relevance.TopicPoints = r.TopicPoints
	for name, bonus := range r.CourtBonus {
		level, err := caselaw.ParseCourtLevel(name)
		if err != nil {
			return Settings{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid court bonus").WithDetail("court_level=" + name)
		}
		s.Relevance.CourtBonus[level] = bonus
	}

	col := engine.ChoiceOfLaw
	var fallback choiceoflaw.Approach
	if col.DefaultApproach != "" {
		a, err := choiceoflaw.ParseApproach(col.DefaultApproach)
		if err != nil {
			return Settings{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid default approach")
		}
		fallback = a
	}
	table, err := choiceoflaw.NewApproachTable(fallback, col.ForumApproaches)
	if err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid forum approach table")
	}
	s.ApproachTable = table
	if col.BetterLawCap > 0 {
		s.Policy.BetterLawCap = col.BetterLawCap
	}
	s.Policy.BetterLawQualityWeight = col.BetterLawQualityWeight

	if engine.SearchCacheTTL > 0 {
		s.SearchCacheTTL = engine.SearchCacheTTL
	}
	if f.LoadTimeout > 0 {
		s.LoadTimeout = f.LoadTimeout
	}
	return s, nil
}

// Snapshot is an immutable, consistent view of the registry, the rule
// catalog and the case law index.  Readers share it without locking.
type Snapshot struct {
	Registry   *jurisdiction.InMemoryRegistry
	Catalog    *rule.Catalog
	Index      *caselaw.Index
	Generation uint64
	LoadedAt   time.Time

	engine   *comparison.Engine
	analyzer *choiceoflaw.Analyzer
}

// SnapshotInfo summarises a Snapshot.
type SnapshotInfo struct {
	Generation    uint64    `json:"generation"`
	LoadedAt      time.Time `json:"loaded_at"`
	Jurisdictions int       `json:"jurisdictions"`
	Rules         int       `json:"rules"`
	Decisions     int       `json:"decisions"`
	Terms         int       `json:"terms"`
}

func newSnapshot(reg *jurisdiction.InMemoryRegistry, cat *rule.Catalog, idx *caselaw.Index, gen uint64, s Settings) *Snapshot {
	return &Snapshot{
		Registry:   reg,
		Catalog:    cat,
		Index:      idx,
		Generation: gen,
		LoadedAt:   time.Now().UTC(),
		engine:     comparison.NewEngine(cat, reg),
		analyzer: choiceoflaw.NewAnalyzer(reg,
			choiceoflaw.WithApproachTable(s.ApproachTable),
			choiceoflaw.WithPolicy(s.Policy)),
	}
}

// emptySnapshot is generation zero, published before the first load.
func emptySnapshot(s Settings) *Snapshot {
	reg, _ := jurisdiction.NewRegistry(nil, nil)
	return newSnapshot(reg, rule.EmptyCatalog(), caselaw.NewIndex(caselaw.WithRelevance(s.Relevance)), 0, s)
}

// withIndex returns a successor sharing everything but the index.
func (s *Snapshot) withIndex(idx *caselaw.Index) *Snapshot {
	next := *s
	next.Index = idx
	next.Generation = s.Generation + 1
	next.LoadedAt = time.Now().UTC()
	return &next
}

// Info summarises s.
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		Generation:    s.Generation,
		LoadedAt:      s.LoadedAt,
		Jurisdictions: s.Registry.Len(),
		Rules:         s.Catalog.Len(),
		Decisions:     s.Index.Len(),
		Terms:         s.Index.Terms(),
	}
}

func (i SnapshotInfo) sizes() map[string]int {
	return map[string]int{
		"jurisdictions": i.Jurisdictions,
		"rules":         i.Rules,
		"decisions":     i.Decisions,
		"terms":         i.Terms,
	}
}

// Engine returns the comparison engine bound to s.
func (s *Snapshot) Engine() *comparison.Engine { return s.engine }

// Analyzer returns the choice-of-law analyzer bound to s.
func (s *Snapshot) Analyzer() *choiceoflaw.Analyzer { return s.analyzer }

//Personal.AI order the ending
