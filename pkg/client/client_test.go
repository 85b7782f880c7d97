package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 5*time.Millisecond)}, opts...)
	c, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return c
}

func writeData(t *testing.T, w http.ResponseWriter, status int, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data}))
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"success":false,"error":{"code":%q,"message":%q}}`, code, msg)
}

type testLogger struct {
	count int32
}

func (l *testLogger) Debugf(string, ...interface{}) { atomic.AddInt32(&l.count, 1) }
func (l *testLogger) Infof(string, ...interface{})  { atomic.AddInt32(&l.count, 1) }
func (l *testLogger) Errorf(string, ...interface{}) { atomic.AddInt32(&l.count, 1) }

// ─────────────────────────────────────────────────────────────────────────────
// Constructor
// ─────────────────────────────────────────────────────────────────────────────

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "juris-go-sdk/")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "ftp://invalid", "invalid-url", "://"} {
		_, err := NewClient(u)
		require.Error(t, err, u)
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid), u)
	}
}

func TestClient_SubClientsLazyInit(t *testing.T) {
	c, err := NewClient("http://api.example.com")
	require.NoError(t, err)
	assert.Nil(t, c.comparisons)
	assert.Same(t, c.Comparisons(), c.Comparisons())
	assert.Same(t, c.CaseLaw(), c.CaseLaw())
	assert.Same(t, c.Admin(), c.Admin())
}

// ─────────────────────────────────────────────────────────────────────────────
// Transport
// ─────────────────────────────────────────────────────────────────────────────

func TestClient_Headers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Contains(t, r.Header.Get("User-Agent"), "juris-go-sdk/")
		writeData(t, w, http.StatusOK, SnapshotInfo{Generation: 1})
	}, WithAPIKey("secret"))

	_, err := c.Admin().Snapshot(context.Background())
	require.NoError(t, err)
}

func TestClient_NoAuthorizationWithoutKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeData(t, w, http.StatusOK, SnapshotInfo{})
	})
	_, err := c.Admin().Snapshot(context.Background())
	require.NoError(t, err)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeError(w, http.StatusServiceUnavailable, "COMMON_007", "not ready")
			return
		}
		writeData(t, w, http.StatusOK, SnapshotInfo{Generation: 4})
	})

	info, err := c.Admin().Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), info.Generation)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_RetryExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeError(w, http.StatusInternalServerError, "COMMON_001", "boom")
	}, WithRetryMax(2))

	_, err := c.Admin().Snapshot(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeError(w, http.StatusNotFound, "CASE_001", "decision not found")
	})

	_, err := c.CaseLaw().Get(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "CASE_001", apiErr.Code)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Contains(t, apiErr.Error(), "HTTP 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_NonEnvelopeErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "plain failure")
	})
	_, err := c.Admin().Snapshot(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsBadRequest())
	assert.Equal(t, "plain failure", apiErr.Message)
}

func TestClient_RateLimitRetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			writeError(w, http.StatusTooManyRequests, "COMMON_000", "slow down")
			return
		}
		writeData(t, w, http.StatusOK, SnapshotInfo{Generation: 2})
	})
	info, err := c.Admin().Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.Generation)
}

func TestClient_ContextCancelledDuringBackoff(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadGateway, "COMMON_007", "down")
	}, WithRetryWait(time.Second, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Admin().Snapshot(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "{not json")
	})
	_, err := c.Admin().Snapshot(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

func TestClient_LoggerReceivesRequests(t *testing.T) {
	logger := &testLogger{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, http.StatusOK, SnapshotInfo{})
	}, WithLogger(logger))
	_, err := c.Admin().Snapshot(context.Background())
	require.NoError(t, err)
	assert.Positive(t, atomic.LoadInt32(&logger.count))
}

func TestCalculateBackoff(t *testing.T) {
	c := &Client{retryWaitMin: 100 * time.Millisecond, retryWaitMax: 300 * time.Millisecond}
	for attempt := 1; attempt <= 5; attempt++ {
		b := c.calculateBackoff(attempt)
		assert.GreaterOrEqual(t, b, 100*time.Millisecond)
		assert.LessOrEqual(t, b, 375*time.Millisecond)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Sub-clients
// ─────────────────────────────────────────────────────────────────────────────

func TestComparisons_Compare(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/compare", r.URL.Path)
		var req CompareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "comparative_negligence", req.Topic)
		writeData(t, w, http.StatusOK, map[string]interface{}{
			"topic":         req.Topic,
			"jurisdictions": req.Jurisdictions,
			"majority": map[string]interface{}{
				"variant":       map[string]interface{}{"kind": "threshold", "threshold": map[string]interface{}{"name": "modified", "cutoff": 50}},
				"count":         2,
				"jurisdictions": []string{"US-NY", "US-TX"},
			},
			"minority": []interface{}{},
		})
	})

	res, err := c.Comparisons().Compare(context.Background(), &CompareRequest{
		Topic:         "comparative_negligence",
		Jurisdictions: []string{"US-NY", "US-TX"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Majority)
	assert.Equal(t, 2, res.Majority.Count)
	require.NotNil(t, res.Majority.Variant.Threshold)
	assert.Equal(t, 50.0, res.Majority.Variant.Threshold.Cutoff)
}

func TestComparisons_CompareValidation(t *testing.T) {
	c, err := NewClient("http://api.example.com")
	require.NoError(t, err)

	_, err = c.Comparisons().Compare(context.Background(), &CompareRequest{Jurisdictions: []string{"A", "B"}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = c.Comparisons().Compare(context.Background(), &CompareRequest{Topic: "t", Jurisdictions: []string{"A"}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientJurisdictions))
}

func TestComparisons_Report(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/compare/report", r.URL.Path)
		assert.Equal(t, "statute_of_limitations", r.URL.Query().Get("topic"))
		assert.Equal(t, "US-CA,US-NY", r.URL.Query().Get("j"))
		io.WriteString(w, "Comparative report\n")
	})
	report, err := c.Comparisons().Report(context.Background(), "statute_of_limitations", []string{"US-CA", "US-NY"})
	require.NoError(t, err)
	assert.Equal(t, "Comparative report\n", report)
}

func TestComparisons_ChoiceOfLaw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/choice-of-law", r.URL.Path)
		var req ChoiceOfLawRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "US-NY", req.Forum)
		require.Len(t, req.FactPattern.Factors, 1)
		writeData(t, w, http.StatusOK, ChoiceOfLawResult{Selected: "US-CA", Approach: "interest_analysis", Confidence: 0.8})
	})

	res, err := c.Comparisons().AnalyzeChoiceOfLaw(context.Background(), &ChoiceOfLawRequest{
		Forum:       "US-NY",
		FactPattern: FactPattern{Category: "tort", Factors: []Factor{{Kind: "PLACE_OF_INJURY", Jurisdiction: "US-CA"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "US-CA", res.Selected)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)

	_, err = c.Comparisons().AnalyzeChoiceOfLaw(context.Background(), &ChoiceOfLawRequest{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestComparisons_ApproachesAndTopics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/approaches":
			writeData(t, w, http.StatusOK, []string{"territorial", "better_law"})
		case "/api/v1/approaches/US-MN":
			writeData(t, w, http.StatusOK, ApproachSelection{Forum: "US-MN", Approach: "better_law", Listed: true})
		case "/api/v1/topics":
			writeData(t, w, http.StatusOK, []TopicInfo{{Topic: "comparative_negligence", Kind: "threshold"}})
		default:
			writeError(w, http.StatusNotFound, "COMMON_003", "route not found")
		}
	})
	ctx := context.Background()

	approaches, err := c.Comparisons().Approaches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"territorial", "better_law"}, approaches)

	sel, err := c.Comparisons().SelectApproach(ctx, "US-MN")
	require.NoError(t, err)
	assert.Equal(t, "better_law", sel.Approach)
	assert.True(t, sel.Listed)

	topics, err := c.Comparisons().Topics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "threshold", topics[0].Kind)
}

func TestCaseLaw_SearchGetAdd(t *testing.T) {
	decided := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/search":
			var req SearchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"negligence"}, req.Keywords)
			writeData(t, w, http.StatusOK, SearchResponse{
				Results: []SearchResult{{Decision: &Decision{ID: "d1", Date: decided}, Score: 12.5}},
				Total:   1,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/decisions/d1":
			writeData(t, w, http.StatusOK, Decision{ID: "d1", CourtLevel: "supreme", Date: decided})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/decisions":
			var d NewDecision
			require.NoError(t, json.NewDecoder(r.Body).Decode(&d))
			writeData(t, w, http.StatusCreated, Decision{ID: d.ID, CourtLevel: d.CourtLevel, Summary: d.Summary})
		default:
			writeError(w, http.StatusNotFound, "COMMON_003", "route not found")
		}
	})
	ctx := context.Background()

	res, err := c.CaseLaw().Search(ctx, &SearchRequest{Keywords: []string{"negligence"}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "d1", res.Results[0].Decision.ID)
	assert.True(t, decided.Equal(res.Results[0].Decision.Date))

	d, err := c.CaseLaw().Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "supreme", d.CourtLevel)

	added, err := c.CaseLaw().Add(ctx, &NewDecision{ID: "d2", CourtLevel: "district", Date: "2020-01-02", Summary: "s"})
	require.NoError(t, err)
	assert.Equal(t, "d2", added.ID)
}

func TestCaseLaw_Validation(t *testing.T) {
	c, err := NewClient("http://api.example.com")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.CaseLaw().Search(ctx, &SearchRequest{Limit: -1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery))
	_, err = c.CaseLaw().Get(ctx, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	_, err = c.CaseLaw().Add(ctx, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestAdmin_Reload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/admin/reload", r.URL.Path)
		writeData(t, w, http.StatusOK, SnapshotInfo{Generation: 9, Rules: 40})
	})
	info, err := c.Admin().Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(9), info.Generation)
	assert.Equal(t, 40, info.Rules)
}

//Personal.AI order the ending
