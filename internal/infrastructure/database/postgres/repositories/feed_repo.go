// Package repositories holds the PostgreSQL-backed feed repository.  It is
// both a feed source for snapshot reloads and the sink for decisions added
// at runtime.
package repositories

import (
	"context"
	"encoding/json"
	stdliberrors "errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

const pgUniqueViolation = "23505"

// queryExecutor is satisfied by *pgxpool.Pool and pgx.Tx.
type queryExecutor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Pool is the part of *pgxpool.Pool the repository uses.
type Pool interface {
	queryExecutor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// rulePayload is the JSONB form of a rule variant's payload.
type rulePayload struct {
	Threshold *rule.Threshold  `json:"threshold,omitempty"`
	Flag      *rule.Flag       `json:"flag,omitempty"`
	Cap       *rule.DamagesCap `json:"cap,omitempty"`
}

// FeedRepository stores jurisdictions, rule entries and court decisions.
type FeedRepository struct {
	pool     Pool
	log      logging.Logger
	executor queryExecutor
}

// NewFeedRepository creates a repository over pool, normally a
// *pgxpool.Pool.
func NewFeedRepository(pool Pool, log logging.Logger) *FeedRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &FeedRepository{pool: pool, log: log.Named("feed.postgres"), executor: pool}
}

// WithTx runs fn against a repository bound to one transaction.
func (r *FeedRepository) WithTx(ctx context.Context, fn func(*FeedRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}

	txRepo := &FeedRepository{pool: r.pool, log: r.log, executor: tx}
	if err := fn(txRepo); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Rule feed
// ─────────────────────────────────────────────────────────────────────────────

// LoadRules reads every jurisdiction and rule entry.
func (r *FeedRepository) LoadRules(ctx context.Context) (*feed.RuleFeed, error) {
	f := &feed.RuleFeed{}

	rows, err := r.executor.Query(ctx, `SELECT code, name, tradition, aliases FROM jurisdictions ORDER BY code`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query jurisdictions")
	}
	for rows.Next() {
		var rec feed.JurisdictionRecord
		if err := rows.Scan(&rec.Code, &rec.Name, &rec.Tradition, &rec.Aliases); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan jurisdiction")
		}
		f.Jurisdictions = append(f.Jurisdictions, rec)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = r.executor.Query(ctx, `
		SELECT jurisdiction, topic, kind, payload, citation, effective_date
		FROM rule_entries
		ORDER BY jurisdiction, topic`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query rule entries")
	}
	for rows.Next() {
		rec, err := scanRule(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		f.Rules = append(f.Rules, rec)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	r.log.Debug("rule feed loaded",
		logging.Int("jurisdictions", len(f.Jurisdictions)),
		logging.Int("rules", len(f.Rules)))
	return f, nil
}

func scanRule(rows pgx.Rows) (feed.RuleRecord, error) {
	var (
		rec       feed.RuleRecord
		payload   []byte
		effective *time.Time
	)
	if err := rows.Scan(&rec.Jurisdiction, &rec.Topic, &rec.Kind, &payload, &rec.Citation, &effective); err != nil {
		return feed.RuleRecord{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan rule entry")
	}
	var p rulePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return feed.RuleRecord{}, errors.Wrap(err, errors.ErrCodeSerialization, "invalid rule payload").
			WithDetailf("jurisdiction=%s topic=%s", rec.Jurisdiction, rec.Topic)
	}
	rec.Threshold, rec.Flag, rec.Cap = p.Threshold, p.Flag, p.Cap
	if effective != nil {
		rec.EffectiveDate = effective.UTC().Format("2006-01-02")
	}
	return rec, nil
}

// UpsertRules validates f and writes it in one transaction.  Existing
// entries for the same (jurisdiction, topic) are replaced.
func (r *FeedRepository) UpsertRules(ctx context.Context, f *feed.RuleFeed) error {
	if f == nil {
		return errors.InvalidParam("rule feed is required")
	}
	if _, _, err := f.Catalog(); err != nil {
		return err
	}

	return r.WithTx(ctx, func(tx *FeedRepository) error {
		for _, j := range f.Jurisdictions {
			_, err := tx.executor.Exec(ctx, `
				INSERT INTO jurisdictions (code, name, tradition, aliases)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (code) DO UPDATE SET
					name = EXCLUDED.name, tradition = EXCLUDED.tradition,
					aliases = EXCLUDED.aliases, updated_at = NOW()`,
				strings.ToUpper(strings.TrimSpace(j.Code)), j.Name, j.Tradition, emptyIfNil(j.Aliases))
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert jurisdiction").WithDetail("jurisdiction=" + j.Code)
			}
		}
		for _, rec := range f.Rules {
			payload, err := json.Marshal(rulePayload{Threshold: rec.Threshold, Flag: rec.Flag, Cap: rec.Cap})
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode rule payload")
			}
			_, err = tx.executor.Exec(ctx, `
				INSERT INTO rule_entries (jurisdiction, topic, kind, payload, citation, effective_date)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (jurisdiction, topic) DO UPDATE SET
					kind = EXCLUDED.kind, payload = EXCLUDED.payload, citation = EXCLUDED.citation,
					effective_date = EXCLUDED.effective_date, updated_at = NOW()`,
				strings.ToUpper(strings.TrimSpace(rec.Jurisdiction)), rec.Topic, rec.Kind, payload, rec.Citation, nullDate(rec.EffectiveDate))
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert rule entry").
					WithDetailf("jurisdiction=%s topic=%s", rec.Jurisdiction, rec.Topic)
			}
		}
		tx.log.Info("rule feed stored",
			logging.Int("jurisdictions", len(f.Jurisdictions)),
			logging.Int("rules", len(f.Rules)))
		return nil
	})
}

func nullDate(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Decision feed
// ─────────────────────────────────────────────────────────────────────────────

const decisionColumns = `id, case_number, title, decided_on, court_level, court, jurisdiction,
	topic, outcome, summary, holdings, parties, cited_statutes`

// LoadDecisions reads every stored decision in insertion order.
func (r *FeedRepository) LoadDecisions(ctx context.Context) ([]caselaw.DecisionParams, error) {
	rows, err := r.executor.Query(ctx, `SELECT `+decisionColumns+` FROM court_decisions ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query court decisions")
	}

	var out []caselaw.DecisionParams
	for rows.Next() {
		p, err := scanDecision(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	r.log.Debug("decision feed loaded", logging.Int("decisions", len(out)))
	return out, nil
}

func scanDecision(rows pgx.Rows) (caselaw.DecisionParams, error) {
	var (
		p        caselaw.DecisionParams
		decided  *time.Time
		level    string
		outcome  string
		holdings []byte
		parties  []byte
	)
	err := rows.Scan(&p.ID, &p.CaseNumber, &p.Title, &decided, &level, &p.Court, &p.Jurisdiction,
		&p.Topic, &outcome, &p.Summary, &holdings, &parties, &p.CitedStatutes)
	if err != nil {
		return caselaw.DecisionParams{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan court decision")
	}
	p.CourtLevel = caselaw.CourtLevel(level)
	p.Outcome = caselaw.Outcome(outcome)
	if decided != nil {
		p.Date = decided.UTC()
	}
	if len(holdings) > 0 {
		if err := json.Unmarshal(holdings, &p.Holdings); err != nil {
			return caselaw.DecisionParams{}, errors.Wrap(err, errors.ErrCodeSerialization, "invalid holdings").WithDetail("id=" + p.ID)
		}
	}
	if len(parties) > 0 {
		if err := json.Unmarshal(parties, &p.Parties); err != nil {
			return caselaw.DecisionParams{}, errors.Wrap(err, errors.ErrCodeSerialization, "invalid parties").WithDetail("id=" + p.ID)
		}
	}
	return p, nil
}

// SaveDecision inserts one decision.  An existing id fails with
// DuplicateID.
func (r *FeedRepository) SaveDecision(ctx context.Context, p caselaw.DecisionParams) error {
	args, err := decisionArgs(p)
	if err != nil {
		return err
	}
	_, err = r.executor.Exec(ctx, `INSERT INTO court_decisions (`+decisionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if stdliberrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errors.Wrap(err, errors.ErrCodeDuplicateID, "duplicate decision id").WithDetail("id=" + p.ID)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert court decision").WithDetail("id=" + p.ID)
	}
	return nil
}

// UpsertDecisions validates and writes ps in one transaction, replacing
// decisions with the same id.  It returns the number of rows written.
func (r *FeedRepository) UpsertDecisions(ctx context.Context, ps []caselaw.DecisionParams) (int, error) {
	if _, err := caselaw.Build(ps); err != nil {
		return 0, err
	}
	written := 0
	err := r.WithTx(ctx, func(tx *FeedRepository) error {
		for _, p := range ps {
			args, err := decisionArgs(p)
			if err != nil {
				return err
			}
			_, err = tx.executor.Exec(ctx, `INSERT INTO court_decisions (`+decisionColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
				ON CONFLICT (id) DO UPDATE SET
					case_number = EXCLUDED.case_number, title = EXCLUDED.title, decided_on = EXCLUDED.decided_on,
					court_level = EXCLUDED.court_level, court = EXCLUDED.court, jurisdiction = EXCLUDED.jurisdiction,
					topic = EXCLUDED.topic, outcome = EXCLUDED.outcome, summary = EXCLUDED.summary,
					holdings = EXCLUDED.holdings, parties = EXCLUDED.parties,
					cited_statutes = EXCLUDED.cited_statutes, updated_at = NOW()`, args...)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert court decision").WithDetail("id=" + p.ID)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.log.Info("decision feed stored", logging.Int("decisions", written))
	return written, nil
}

func decisionArgs(p caselaw.DecisionParams) ([]interface{}, error) {
	holdings, err := json.Marshal(emptyIfNil(p.Holdings))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode holdings")
	}
	parties, err := json.Marshal(emptyIfNil(p.Parties))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode parties")
	}
	var decided interface{}
	if !p.Date.IsZero() {
		decided = p.Date.UTC().Truncate(24 * time.Hour)
	}
	return []interface{}{
		strings.TrimSpace(p.ID), p.CaseNumber, p.Title, decided, string(p.CourtLevel), p.Court, p.Jurisdiction,
		p.Topic, string(p.Outcome), p.Summary, holdings, parties, emptyIfNil(p.CitedStatutes),
	}, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func closeRows(rows pgx.Rows) error {
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate rows")
	}
	return nil
}

//Personal.AI order the ending
