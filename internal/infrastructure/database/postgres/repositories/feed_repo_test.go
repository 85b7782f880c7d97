package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

var (
	jurisdictionCols = []string{"code", "name", "tradition", "aliases"}
	ruleCols         = []string{"jurisdiction", "topic", "kind", "payload", "citation", "effective_date"}
	decisionCols     = []string{"id", "case_number", "title", "decided_on", "court_level", "court", "jurisdiction",
		"topic", "outcome", "summary", "holdings", "parties", "cited_statutes"}
)

type FeedRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *FeedRepository
}

func (s *FeedRepoTestSuite) SetupTest() {
	var err error
	s.mock, err = pgxmock.NewPool()
	s.Require().NoError(err)
	s.repo = NewFeedRepository(s.mock, logging.NewNopLogger())
}

func (s *FeedRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func inserted(n int64) pgconn.CommandTag {
	return pgxmock.NewResult("INSERT", n)
}

func (s *FeedRepoTestSuite) expectJurisdictions() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT code, name, tradition, aliases FROM jurisdictions")).
		WillReturnRows(pgxmock.NewRows(jurisdictionCols).
			AddRow("GB", "England and Wales", "common_law", []string{"UK", "ENG"}).
			AddRow("US-CA", "California", "common_law", []string{}))
}

// ─────────────────────────────────────────────────────────────────────────────
// LoadRules
// ─────────────────────────────────────────────────────────────────────────────

func (s *FeedRepoTestSuite) TestLoadRules_Success() {
	s.expectJurisdictions()
	effective := time.Date(1975, 3, 31, 0, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery("SELECT jurisdiction, topic, kind, payload, citation, effective_date\\s+FROM rule_entries").
		WillReturnRows(pgxmock.NewRows(ruleCols).
			AddRow("GB", "comparative_negligence", "threshold", []byte(`{"threshold":{"name":"pure","cutoff":100,"unit":"percent"}}`), "Law Reform Act 1945", nil).
			AddRow("US-CA", "punitive_damages", "flag", []byte(`{"flag":{"name":"available","value":true}}`), "Civ. Code 3294", &effective))

	f, err := s.repo.LoadRules(context.Background())
	s.Require().NoError(err)
	s.Require().Len(f.Jurisdictions, 2)
	s.Equal([]string{"UK", "ENG"}, f.Jurisdictions[0].Aliases)
	s.Require().Len(f.Rules, 2)
	s.Equal(&rule.Threshold{Name: "pure", Cutoff: 100, Unit: "percent"}, f.Rules[0].Threshold)
	s.Nil(f.Rules[0].Flag)
	s.Empty(f.Rules[0].EffectiveDate)
	s.Equal(&rule.Flag{Name: "available", Value: true}, f.Rules[1].Flag)
	s.Equal("1975-03-31", f.Rules[1].EffectiveDate)

	reg, cat, err := f.Catalog()
	s.Require().NoError(err)
	s.Equal(2, reg.Len())
	s.Equal(2, cat.Len())
}

func (s *FeedRepoTestSuite) TestLoadRules_QueryError() {
	s.mock.ExpectQuery("FROM jurisdictions").WillReturnError(pgx.ErrTxClosed)

	_, err := s.repo.LoadRules(context.Background())
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *FeedRepoTestSuite) TestLoadRules_InvalidPayload() {
	s.expectJurisdictions()
	s.mock.ExpectQuery("FROM rule_entries").
		WillReturnRows(pgxmock.NewRows(ruleCols).
			AddRow("GB", "comparative_negligence", "threshold", []byte(`{"threshold":`), "", nil))

	_, err := s.repo.LoadRules(context.Background())
	s.True(errors.IsCode(err, errors.ErrCodeSerialization))
}

// ─────────────────────────────────────────────────────────────────────────────
// UpsertRules
// ─────────────────────────────────────────────────────────────────────────────

func (s *FeedRepoTestSuite) TestUpsertRules_Transaction() {
	f := &feed.RuleFeed{
		Jurisdictions: []feed.JurisdictionRecord{{Code: "us-ca", Name: "California", Tradition: "common_law"}},
		Rules: []feed.RuleRecord{{
			Jurisdiction: "US-CA", Topic: "punitive_damages", Kind: "flag",
			Flag: &rule.Flag{Name: "available", Value: true}, EffectiveDate: "1975-03-31",
		}},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO jurisdictions").
		WithArgs("US-CA", "California", "common_law", []string{}).
		WillReturnResult(inserted(1))
	s.mock.ExpectExec("INSERT INTO rule_entries").
		WithArgs("US-CA", "punitive_damages", "flag", []byte(`{"flag":{"name":"available","value":true}}`), "", "1975-03-31").
		WillReturnResult(inserted(1))
	s.mock.ExpectCommit()

	s.NoError(s.repo.UpsertRules(context.Background(), f))
}

func (s *FeedRepoTestSuite) TestUpsertRules_RollbackOnFailure() {
	f := &feed.RuleFeed{
		Jurisdictions: []feed.JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}},
		Rules:         []feed.RuleRecord{{Jurisdiction: "DE", Topic: "punitive_damages", Kind: "flag", Flag: &rule.Flag{Name: "available"}}},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO jurisdictions").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(inserted(1))
	s.mock.ExpectExec("INSERT INTO rule_entries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})
	s.mock.ExpectRollback()

	err := s.repo.UpsertRules(context.Background(), f)
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *FeedRepoTestSuite) TestUpsertRules_InvalidFeedTouchesNothing() {
	f := &feed.RuleFeed{
		Jurisdictions: []feed.JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}},
		Rules:         []feed.RuleRecord{{Jurisdiction: "DE", Topic: "punitive_damages", Kind: "threshold", Threshold: &rule.Threshold{Name: "x"}}},
	}

	err := s.repo.UpsertRules(context.Background(), f)
	s.True(errors.IsCode(err, errors.ErrCodeInvalidRuleVariant))

	s.True(errors.IsCode(s.repo.UpsertRules(context.Background(), nil), errors.ErrCodeBadRequest))
}

// ─────────────────────────────────────────────────────────────────────────────
// Decisions
// ─────────────────────────────────────────────────────────────────────────────

func (s *FeedRepoTestSuite) TestLoadDecisions_Success() {
	decided := time.Date(1975, 3, 31, 0, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery("(?s)SELECT id, case_number, .* FROM court_decisions ORDER BY created_at, id").
		WillReturnRows(pgxmock.NewRows(decisionCols).
			AddRow("ca-sc-1975-li", "S.F. 23229", "Li v. Yellow Cab Co.", &decided, "supreme", "Supreme Court of California", "US-CA",
				"tort.negligence", "reversed", "Adopts pure comparative negligence.",
				[]byte(`[{"issue":"Contributory negligence","conclusion":"Replaced by pure comparative fault."}]`),
				[]byte(`[{"name":"Nga Li","role":"plaintiff"}]`), []string{"Civ. Code 1714"}).
			AddRow("dist-1", "D1", "", nil, "district", "", "", "", "", "Slip and fall.", []byte(`[]`), []byte(`[]`), []string{}))

	ps, err := s.repo.LoadDecisions(context.Background())
	s.Require().NoError(err)
	s.Require().Len(ps, 2)
	s.Equal(caselaw.CourtSupreme, ps[0].CourtLevel)
	s.Equal(caselaw.Outcome("reversed"), ps[0].Outcome)
	s.Equal(decided, ps[0].Date)
	s.Equal([]caselaw.Holding{{Issue: "Contributory negligence", Conclusion: "Replaced by pure comparative fault."}}, ps[0].Holdings)
	s.Equal([]caselaw.Party{{Name: "Nga Li", Role: "plaintiff"}}, ps[0].Parties)
	s.Equal([]string{"Civ. Code 1714"}, ps[0].CitedStatutes)
	s.True(ps[1].Date.IsZero())

	idx, err := caselaw.Build(ps)
	s.Require().NoError(err)
	s.Equal(2, idx.Len())
}

func (s *FeedRepoTestSuite) TestLoadDecisions_InvalidHoldings() {
	s.mock.ExpectQuery("FROM court_decisions").
		WillReturnRows(pgxmock.NewRows(decisionCols).
			AddRow("x", "1", "", nil, "district", "", "", "", "", "s", []byte(`{`), []byte(`[]`), []string{}))

	_, err := s.repo.LoadDecisions(context.Background())
	s.True(errors.IsCode(err, errors.ErrCodeSerialization))
}

func (s *FeedRepoTestSuite) TestSaveDecision() {
	p := caselaw.DecisionParams{ID: "new-1", CaseNumber: "N1", CourtLevel: caselaw.CourtAppellate, Summary: "Estoppel"}

	s.mock.ExpectExec("INSERT INTO court_decisions").
		WithArgs("new-1", "N1", "", nil, "appellate", "", "", "", "", "Estoppel", []byte(`[]`), []byte(`[]`), []string{}).
		WillReturnResult(inserted(1))
	s.NoError(s.repo.SaveDecision(context.Background(), p))

	s.mock.ExpectExec("INSERT INTO court_decisions").WithArgs(anyDecisionArgs()...).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "court_decisions_pkey"})
	err := s.repo.SaveDecision(context.Background(), p)
	s.True(errors.IsCode(err, errors.ErrCodeDuplicateID))

	s.mock.ExpectExec("INSERT INTO court_decisions").WithArgs(anyDecisionArgs()...).
		WillReturnError(&pgconn.PgError{Code: "53300", Message: "too many connections"})
	err = s.repo.SaveDecision(context.Background(), p)
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *FeedRepoTestSuite) TestUpsertDecisions() {
	ps := []caselaw.DecisionParams{
		{ID: "a", CaseNumber: "1", CourtLevel: caselaw.CourtDistrict, Summary: "one"},
		{ID: "b", CaseNumber: "2", CourtLevel: caselaw.CourtSupreme, Summary: "two", Date: time.Date(2020, 5, 1, 15, 4, 0, 0, time.UTC)},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("(?s)INSERT INTO court_decisions .* ON CONFLICT \\(id\\) DO UPDATE").WithArgs(anyDecisionArgs()...).
		WillReturnResult(inserted(1))
	s.mock.ExpectExec("(?s)INSERT INTO court_decisions .* ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs("b", "2", "", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), "supreme", "", "", "", "", "two",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(inserted(1))
	s.mock.ExpectCommit()

	n, err := s.repo.UpsertDecisions(context.Background(), ps)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *FeedRepoTestSuite) TestUpsertDecisions_DuplicateInBatch() {
	ps := []caselaw.DecisionParams{
		{ID: "a", CaseNumber: "1", CourtLevel: caselaw.CourtDistrict, Summary: "one"},
		{ID: "a", CaseNumber: "2", CourtLevel: caselaw.CourtDistrict, Summary: "two"},
	}
	_, err := s.repo.UpsertDecisions(context.Background(), ps)
	s.True(errors.IsCode(err, errors.ErrCodeDuplicateID))
}

func (s *FeedRepoTestSuite) TestUpsertDecisions_RollbackOnFailure() {
	ps := []caselaw.DecisionParams{
		{ID: "a", CaseNumber: "1", CourtLevel: caselaw.CourtDistrict, Summary: "one"},
		{ID: "b", CaseNumber: "2", CourtLevel: caselaw.CourtDistrict, Summary: "two"},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO court_decisions").WithArgs(anyDecisionArgs()...).WillReturnResult(inserted(1))
	s.mock.ExpectExec("INSERT INTO court_decisions").WithArgs(anyDecisionArgs()...).
		WillReturnError(&pgconn.PgError{Code: "23514", Message: "check constraint"})
	s.mock.ExpectRollback()

	n, err := s.repo.UpsertDecisions(context.Background(), ps)
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
	s.Zero(n)
}

func (s *FeedRepoTestSuite) TestWithTx_BeginFailure() {
	s.mock.ExpectBegin().WillReturnError(pgx.ErrTxClosed)

	err := s.repo.WithTx(context.Background(), func(*FeedRepository) error {
		s.Fail("fn must not run without a transaction")
		return nil
	})
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func anyDecisionArgs() []interface{} {
	out := make([]interface{}, len(decisionCols))
	for i := range out {
		out[i] = pgxmock.AnyArg()
	}
	return out
}

func TestFeedRepoTestSuite(t *testing.T) {
	suite.Run(t, new(FeedRepoTestSuite))
}

//Personal.AI order the ending
