package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-amortizer/logger"
	"loan-amortizer/repository"
	"loan-amortizer/service"
)

func newTestRouter(t *testing.T, capacity int, logs *bytes.Buffer) http.Handler {
	t.Helper()

	cache := repository.NewMemoryCache(time.Minute, time.Minute)
	loanService := service.NewLoanService(cache, time.Minute, nil)
	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	return NewRouter(
		NewLoanHandler(loanService),
		NewTermRecommendationHandler(service.NewTermRecommendationService(loanService)),
		limiter,
		logger.New(logs, slog.LevelInfo, "text"),
	)
}

func TestRouter_RoutesAndLogs(t *testing.T) {
	var logs bytes.Buffer
	router := newTestRouter(t, 10, &logs)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON("/loan/calculate", `{"principal": 1000, "annual_rate_percent": 5, "term_years": 1}`))
	require.Equal(t, http.StatusOK, w.Code)

	requestID := w.Header().Get(requestIDHeader)
	assert.NotEmpty(t, requestID)
	assert.Contains(t, logs.String(), "request_id="+requestID)
	assert.Contains(t, logs.String(), "status_code=200")
	assert.Contains(t, logs.String(), "path=/loan/calculate")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loan/schedule.csv?principal=1000&annual_rate_percent=5&term_years=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_KeepsIncomingRequestID(t *testing.T) {
	var logs bytes.Buffer
	router := newTestRouter(t, 10, &logs)

	req := postJSON("/loan/schedule", `{"principal": 1000, "annual_rate_percent": 5, "term_years": 1}`)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	assert.Contains(t, logs.String(), "request_id=req-123")
}

func TestRouter_RateLimited(t *testing.T) {
	var logs bytes.Buffer
	router := newTestRouter(t, 1, &logs)

	body := `{"principal": 1000, "annual_rate_percent": 5, "term_years": 1}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postJSON("/loan/calculate", body))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, postJSON("/loan/calculate", body))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, logs.String(), "level=WARN")
}
