package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"adengine/internal/core/domain"
	"adengine/internal/core/port"
	"adengine/internal/errortypes"
)

// stubUseCase is a scriptable port.AuctionUseCase for handler tests.
type stubUseCase struct {
	runResult *port.AuctionResult
	runErr    error

	created   *domain.AdRequest
	createErr error

	decision    port.FrequencyDecision
	decisionErr error

	stats    *port.StatsResp
	statsReq port.StatsReq
	recs     []port.Recommendation
}

func (s *stubUseCase) RunAuction(_ context.Context, _ uuid.UUID) (*port.AuctionResult, error) {
	return s.runResult, s.runErr
}

func (s *stubUseCase) CreateRequest(_ context.Context, _, _, _ int64, _ domain.RequestContext) (*domain.AdRequest, error) {
	return s.created, s.createErr
}

func (s *stubUseCase) CheckFrequency(_ context.Context, _ domain.FrequencyKey) (port.FrequencyDecision, error) {
	return s.decision, s.decisionErr
}

func (s *stubUseCase) RecordFrequencyEvent(_ context.Context, _ domain.FrequencyKey) (port.FrequencyDecision, error) {
	return s.decision, s.decisionErr
}

func (s *stubUseCase) GetStats(_ context.Context, req port.StatsReq) (*port.StatsResp, error) {
	s.statsReq = req
	return s.stats, nil
}

func (s *stubUseCase) Recommendations(_ context.Context, _ int64) ([]port.Recommendation, error) {
	return s.recs, nil
}

func newTestHandler(svc port.AuctionUseCase) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(svc, logger).Router()
}

func TestRunAuctionOK(t *testing.T) {
	winner := int64(7)
	stub := &stubUseCase{runResult: &port.AuctionResult{
		RequestID:     uuid.New(),
		Winner:        &winner,
		WinningBid:    300,
		ClearingPrice: 225,
		Participants:  3,
	}}
	h := newTestHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auction/"+uuid.NewString()+"/run", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got port.AuctionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Winner)
	require.Equal(t, winner, *got.Winner)
	require.Equal(t, domain.Money(225), got.ClearingPrice)
}

func TestRunAuctionInvalidID(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auction/not-a-uuid/run", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorTaxonomyStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", &errortypes.NotFound{Message: "no such request"}, http.StatusNotFound},
		{"invalid input", &errortypes.InvalidInput{Message: "not pending"}, http.StatusBadRequest},
		{"cap exceeded", &errortypes.CapExceeded{Message: "cap reached"}, http.StatusConflict},
		{"upstream down", &errortypes.UpstreamUnavailable{Message: "pg down"}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(&stubUseCase{runErr: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auction/"+uuid.NewString()+"/run", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCreateRequestCreated(t *testing.T) {
	id := uuid.New()
	stub := &stubUseCase{created: &domain.AdRequest{ID: id, Status: domain.RequestPending}}
	h := newTestHandler(stub)

	body, _ := json.Marshal(map[string]any{
		"org_id":     1,
		"site_id":    1,
		"ad_unit_id": 2,
		"context":    map[string]any{"user_id": "u1", "geo": "US"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, id.String(), got["request_id"])
	require.Equal(t, "pending", got["status"])
}

func TestCreateRequestInvalidJSON(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFrequencyCheckRequiresKeyParams(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	for _, target := range []string{
		"/api/v1/frequency/check",
		"/api/v1/frequency/check?user_id=u1",
		"/api/v1/frequency/check?event_type=impression",
		"/api/v1/frequency/check?user_id=u1&event_type=impression&ad_id=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestFrequencyCheckOK(t *testing.T) {
	stub := &stubUseCase{decision: port.FrequencyDecision{
		Allowed:      true,
		CurrentCount: 2,
		Limit:        3,
	}}
	h := newTestHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/frequency/check?user_id=u1&event_type=impression&ad_id=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got port.FrequencyDecision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Allowed)
	require.Equal(t, int64(2), got.CurrentCount)
}

func TestFrequencyRecordOK(t *testing.T) {
	stub := &stubUseCase{decision: port.FrequencyDecision{
		Allowed:      false,
		Reason:       "frequency cap reached",
		CurrentCount: 3,
		Limit:        3,
	}}
	h := newTestHandler(stub)

	body, _ := json.Marshal(map[string]any{
		"user_id":    "u1",
		"ad_id":      5,
		"event_type": "impression",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/frequency/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got port.FrequencyDecision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.False(t, got.Allowed)
	require.Equal(t, "frequency cap reached", got.Reason)
}

func TestStatsOverviewParsesPeriod(t *testing.T) {
	stub := &stubUseCase{stats: &port.StatsResp{Auctions: 10, Served: 7}}
	h := newTestHandler(stub)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/stats/overview?from=2025-06-01T00:00:00Z&to=2025-06-02T00:00:00Z&site_id=3", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2025, stub.statsReq.From.Year())
	require.NotNil(t, stub.statsReq.SiteID)
	require.Equal(t, int64(3), *stub.statsReq.SiteID)
}

func TestStatsOverviewRejectsBadParams(t *testing.T) {
	h := newTestHandler(&stubUseCase{stats: &port.StatsResp{}})

	for _, target := range []string{
		"/api/v1/stats/overview?from=yesterday",
		"/api/v1/stats/overview?to=tomorrow",
		"/api/v1/stats/overview?site_id=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestRecommendationsRequiresCampaignID(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/optimization/recommendations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/optimization/recommendations?campaign_id=0", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
