package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlogic/internal/analyzer"
	"marketlogic/internal/calculator"
	"marketlogic/internal/model"
)

// stubService returns a canned result or error and records the call.
type stubService struct {
	result *analyzer.Result
	err    error

	gotTicker string
	gotDays   int
}

func (s *stubService) Analyze(_ context.Context, ticker string, days int) (*analyzer.Result, error) {
	s.gotTicker = ticker
	s.gotDays = days
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func cannedResult() *analyzer.Result {
	return &analyzer.Result{
		ID:     "7a9c2e10-0000-0000-0000-000000000000",
		Ticker: "AAPL",
		AsOf:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Bars:   504,
		Snapshot: &model.Snapshot{
			Symbol: "AAPL",
			Price:  110,
		},
		Scorecard: &model.Scorecard{
			Raw:            6,
			MaxScore:       14,
			Normalized:     2.142857,
			Recommendation: model.BuyHold,
		},
	}
}

func doRequest(t *testing.T, svc AnalysisService, target string) *httptest.ResponseRecorder {
	t.Helper()
	s := New(":0", svc, 730)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalysis_Success(t *testing.T) {
	svc := &stubService{result: cannedResult()}
	rec := doRequest(t, svc, "/api/v1/analysis/AAPL")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", svc.gotTicker)
	assert.Equal(t, 730, svc.gotDays, "missing days parameter falls back to the default")

	var body analyzer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body.Ticker)
	assert.Equal(t, model.BuyHold, body.Scorecard.Recommendation)
	assert.Equal(t, 14, body.Scorecard.MaxScore)
}

func TestHandleAnalysis_DaysParameter(t *testing.T) {
	svc := &stubService{result: cannedResult()}
	rec := doRequest(t, svc, "/api/v1/analysis/AAPL?days=1000")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1000, svc.gotDays)
}

func TestHandleAnalysis_Validation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"days below minimum", "/api/v1/analysis/AAPL?days=100"},
		{"days above maximum", "/api/v1/analysis/AAPL?days=5000"},
		{"days not an integer", "/api/v1/analysis/AAPL?days=abc"},
		{"ticker too long", "/api/v1/analysis/THISTICKERISTOOLONG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{result: cannedResult()}
			rec := doRequest(t, svc, tt.target)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var apiErr APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
		})
	}
}

func TestHandleAnalysis_InsufficientData(t *testing.T) {
	svc := &stubService{err: calculator.ErrInsufficientData}
	rec := doRequest(t, svc, "/api/v1/analysis/NEWIPO")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "INSUFFICIENT_DATA", apiErr.ErrorCode)
}

func TestHandleAnalysis_RetrievalFailure(t *testing.T) {
	svc := &stubService{err: &analyzer.RetrievalError{Ticker: "AAPL", Err: errors.New("upstream timeout")}}
	rec := doRequest(t, svc, "/api/v1/analysis/AAPL")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "RETRIEVAL_FAILURE", apiErr.ErrorCode)
}

func TestHandleAnalysis_InternalError(t *testing.T) {
	svc := &stubService{err: errors.New("unexpected")}
	rec := doRequest(t, svc, "/api/v1/analysis/AAPL")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, &stubService{}, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
