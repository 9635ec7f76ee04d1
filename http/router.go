package http

import (
	"log/slog"
	"net/http"
)

// NewRouter registers every endpoint behind the rate limiter and the request
// logger.
func NewRouter(
	loanHandler *LoanHandler,
	termHandler *TermRecommendationHandler,
	limiter *RateLimiter,
	log *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/loan/calculate", RateLimitMiddleware(limiter, http.HandlerFunc(loanHandler.CalculateLoan)))
	mux.Handle("/loan/schedule", RateLimitMiddleware(limiter, http.HandlerFunc(loanHandler.Schedule)))
	mux.Handle("/loan/schedule.csv", RateLimitMiddleware(limiter, http.HandlerFunc(loanHandler.ScheduleCSV)))
	mux.Handle("/loan/recommend-term", RateLimitMiddleware(limiter, http.HandlerFunc(termHandler.RecommendTerm)))

	return RequestLogMiddleware(log, mux)
}
