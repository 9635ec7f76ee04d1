package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"loan-amortizer/domain"
	"loan-amortizer/export"
	"loan-amortizer/logger"
	"loan-amortizer/service"
)

// money encodes an amount as a JSON number rounded to cents.
func money(v float64) json.Number {
	return json.Number(export.FormatMoney(v))
}

type summaryResponse struct {
	MonthlyPayment json.Number `json:"monthly_payment"`
	Periods        int         `json:"periods"`
	TotalPayment   json.Number `json:"total_payment"`
	TotalInterest  json.Number `json:"total_interest"`
}

func newSummaryResponse(s domain.LoanSummary) summaryResponse {
	return summaryResponse{
		MonthlyPayment: money(s.MonthlyPayment),
		Periods:        s.Periods,
		TotalPayment:   money(s.TotalPayment),
		TotalInterest:  money(s.TotalInterest),
	}
}

type periodResponse struct {
	Period           int         `json:"period"`
	Payment          json.Number `json:"payment"`
	Principal        json.Number `json:"principal"`
	Interest         json.Number `json:"interest"`
	RemainingBalance json.Number `json:"remaining_balance"`
}

type scheduleResponse struct {
	Input    domain.LoanInput `json:"input"`
	Summary  summaryResponse  `json:"summary"`
	Schedule []periodResponse `json:"schedule"`
}

func newScheduleResponse(result domain.LoanResult) scheduleResponse {
	rows := make([]periodResponse, len(result.Schedule))
	for i, rec := range result.Schedule {
		rows[i] = periodResponse{
			Period:           rec.Period,
			Payment:          money(rec.Payment),
			Principal:        money(rec.Principal),
			Interest:         money(rec.Interest),
			RemainingBalance: money(rec.RemainingBalance),
		}
	}
	return scheduleResponse{
		Input:    result.Input,
		Summary:  newSummaryResponse(result.Summary),
		Schedule: rows,
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeJSON encodes into a buffer first so a failed encoding does not leave a
// half-written 200 response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response", logger.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write response", logger.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body errorBody) {
	writeJSON(w, r, status, errorResponse{Error: body})
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, errorBody{Code: verr.Code, Field: verr.Field, Message: verr.Error()})
	case errors.Is(err, service.ErrInvalidTermRange):
		writeError(w, r, http.StatusBadRequest, errorBody{Code: "invalid_term_range", Message: err.Error()})
	case errors.Is(err, service.ErrInvalidPreference):
		writeError(w, r, http.StatusBadRequest, errorBody{Code: "invalid_preference", Field: "preference", Message: err.Error()})
	case errors.Is(err, service.ErrInvalidMaxPayment):
		writeError(w, r, http.StatusBadRequest, errorBody{Code: "invalid_max_payment", Field: "max_monthly_payment", Message: err.Error()})
	case errors.Is(err, service.ErrNoEligibleTerm):
		writeError(w, r, http.StatusUnprocessableEntity, errorBody{Code: "no_eligible_term", Message: err.Error()})
	default:
		logger.FromContext(r.Context()).Error("request failed", logger.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, errorBody{Code: "internal_error", Message: "internal server error"})
	}
}

// writeDecodeError reports a body that could not be read.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeServiceError(w, r, err)
		return
	}
	if errors.Is(err, errUnsupportedMediaType) {
		writeError(w, r, http.StatusUnsupportedMediaType, errorBody{Code: "unsupported_media_type", Message: err.Error()})
		return
	}
	logger.FromContext(r.Context()).Debug("invalid request body", logger.FieldError, err)
	writeError(w, r, http.StatusBadRequest, errorBody{Code: "invalid_body", Message: "invalid request body"})
}

type termRecommendationResponse struct {
	TermYears      int         `json:"term_years"`
	MonthlyPayment json.Number `json:"monthly_payment"`
	TotalInterest  json.Number `json:"total_interest"`
	Score          float64     `json:"score"`
	Reason         string      `json:"reason"`
}

type termRecommendationResultResponse struct {
	RecommendedTermYears int                          `json:"recommended_term_years"`
	Recommendations      []termRecommendationResponse `json:"recommendations"`
}

func newTermRecommendationResponse(result domain.TermRecommendationResult) termRecommendationResultResponse {
	recs := make([]termRecommendationResponse, len(result.Recommendations))
	for i, rec := range result.Recommendations {
		recs[i] = termRecommendationResponse{
			TermYears:      rec.TermYears,
			MonthlyPayment: money(rec.MonthlyPayment),
			TotalInterest:  money(rec.TotalInterest),
			Score:          rec.Score,
			Reason:         rec.Reason,
		}
	}
	return termRecommendationResultResponse{
		RecommendedTermYears: result.RecommendedTermYears,
		Recommendations:      recs,
	}
}
