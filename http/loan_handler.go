package http

import (
	"bytes"
	"fmt"
	"net/http"

	"loan-amortizer/export"
	"loan-amortizer/logger"
	"loan-amortizer/service"
)

type LoanHandler struct {
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// CalculateLoan returns the monthly payment and totals.
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	summary, err := h.service.Calculate(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newSummaryResponse(summary))
}

// Schedule returns the totals and every period of the schedule.
func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.service.Schedule(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newScheduleResponse(result))
}

// ScheduleCSV serves the schedule as a downloadable CSV file. Inputs come
// from the query string.
func (h *LoanHandler) ScheduleCSV(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input, err := parseLoanQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.service.Schedule(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, result.Schedule); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write csv", logger.FieldError, err)
	}
}
