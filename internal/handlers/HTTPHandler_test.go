package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/operations/price"
	"CryptoReportBot/internal/services/analysis"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHTTP(t *testing.T, provider *stubProvider) *HTTPHandler {
	s := newTestScheduler(t, provider)
	h := NewHTTPHandler(s.analyzer, s, true, zaptest.NewLogger(t))
	h.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
	return h
}

func serve(t *testing.T, h *HTTPHandler, path string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHTTPHandler_Health(t *testing.T) {
	t.Parallel()

	w, body := serve(t, newTestHTTP(t, newStubProvider(nil)), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2026-10-18T09:30:00Z", body["timestamp"])
}

func TestHTTPHandler_Status(t *testing.T) {
	t.Parallel()

	h := newTestHTTP(t, newStubProvider(nil))

	w, body := serve(t, h, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["bot_running"])
	assert.Nil(t, body["last_analysis"])
	assert.Equal(t, true, body["telegram_enabled"])

	w, body = serve(t, h, "/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stopped", body["bot_status"])
	assert.Equal(t, "ETHUSDT", body["primary_symbol"])
	assert.Equal(t, "1h0m0s", body["analysis_interval"])
	assert.Equal(t, []any{"BTCUSDT", "ETHUSDT"}, body["supported_symbols"])
	assert.Equal(t, "n/a", body["next_analysis"])
}

func TestHTTPHandler_Analyze(t *testing.T) {
	t.Parallel()

	h := newTestHTTP(t, newStubProvider(fixtureSeries("BTCUSDT")))

	w, body := serve(t, h, "/analyze/btc")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "BTCUSDT", body["symbol"])
	assert.Equal(t, "manual_request", body["type"])
	assert.Contains(t, body["analysis"], "BTCUSDT | Professional Analysis")

	report, ok := body["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", report["symbol"])

	_, body = serve(t, h, "/")
	assert.NotNil(t, body["last_analysis"])
}

func TestHTTPHandler_AnalyzeDefaultSymbol(t *testing.T) {
	t.Parallel()

	h := newTestHTTP(t, newStubProvider(fixtureSeries("ETHUSDT")))
	w, body := serve(t, h, "/analyze")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ETHUSDT", body["symbol"])
}

func TestHTTPHandler_AnalyzeErrors(t *testing.T) {
	t.Parallel()

	h := newTestHTTP(t, newStubProvider(fixtureSeries("ETHUSDT")))
	w, body := serve(t, h, "/analyze/doge")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "unsupported symbol")

	failing := newStubProvider(nil)
	failing.err = &price.ProviderError{Symbol: "ETHUSDT", Timeframe: "4h", Err: errors.New("timeout")}
	w, _ = serve(t, newTestHTTP(t, failing), "/analyze/eth")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w, _ = serve(t, newTestHTTP(t, newStubProvider(map[string][]models.Candle{})), "/analyze/eth")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, errorStatus(fmt.Errorf("wrap: %w", ErrUnsupportedSymbol)))
	assert.Equal(t, http.StatusUnprocessableEntity, errorStatus(analysis.ErrNoUsableData))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(&analysis.ConfigurationError{Field: "x", Reason: "y"}))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(errors.New("boom")))
}
