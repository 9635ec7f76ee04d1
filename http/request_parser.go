package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"loan-amortizer/domain"
	"loan-amortizer/service"
)

const maxRequestBodyBytes = 1 << 16

var errUnsupportedMediaType = errors.New("content type must be application/json")

// loanRequest mirrors domain.LoanInput with optional fields so that a missing
// value can be told apart from a zero, and a fractional term is rejected
// instead of failing JSON decoding.
type loanRequest struct {
	Principal         *float64 `json:"principal"`
	AnnualRatePercent *float64 `json:"annual_rate_percent"`
	TermYears         *float64 `json:"term_years"`
}

func (req loanRequest) toInput() (domain.LoanInput, error) {
	if req.Principal == nil {
		return domain.LoanInput{}, domain.NewValidationError(domain.ErrInvalidPrincipal, "principal is required")
	}
	if req.AnnualRatePercent == nil {
		return domain.LoanInput{}, domain.NewValidationError(domain.ErrInvalidRate, "annual rate is required")
	}
	if req.TermYears == nil {
		return domain.LoanInput{}, domain.NewValidationError(domain.ErrInvalidTerm, "term is required")
	}

	// Principal and rate are checked before the term is converted so the first
	// violated precondition wins.
	if err := service.ValidateLoanInput(*req.Principal, *req.AnnualRatePercent, 1); err != nil {
		return domain.LoanInput{}, err
	}

	years, err := wholeYears(*req.TermYears)
	if err != nil {
		return domain.LoanInput{}, err
	}

	return domain.LoanInput{
		Principal:         *req.Principal,
		AnnualRatePercent: *req.AnnualRatePercent,
		TermYears:         years,
	}, nil
}

func wholeYears(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, domain.NewValidationError(domain.ErrInvalidTerm, "term must be a whole number of years, got %v", v)
	}
	if v <= 0 {
		return 0, domain.NewValidationError(domain.ErrInvalidTerm, "term must be at least one whole year, got %v", v)
	}
	if v > service.MaxTermYears {
		return 0, domain.NewValidationError(domain.ErrInvalidTerm, "term exceeds the maximum of %d years", service.MaxTermYears)
	}
	return int(v), nil
}

// decodeJSON reads a JSON body, accepting a missing Content-Type.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errUnsupportedMediaType
		}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if field, ok := outOfRangeNumber(err); ok {
			return domain.NewValidationError(domain.ErrNumericOverflow, "%s is not representable as a float64", field)
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// outOfRangeNumber reports whether err is a well-formed JSON number that does
// not fit a float field, such as 1e400.
func outOfRangeNumber(err error) (string, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Type == nil {
		return "", false
	}
	if !strings.HasPrefix(typeErr.Value, "number ") {
		return "", false
	}
	switch typeErr.Type.Kind() {
	case reflect.Float32, reflect.Float64:
		return typeErr.Field, true
	}
	return "", false
}

// parseLoanQuery reads principal, annual_rate_percent and term_years from a
// query string.
func parseLoanQuery(q url.Values) (domain.LoanInput, error) {
	var req loanRequest

	fields := []struct {
		name     string
		sentinel *domain.ValidationError
		dst      **float64
	}{
		{"principal", domain.ErrInvalidPrincipal, &req.Principal},
		{"annual_rate_percent", domain.ErrInvalidRate, &req.AnnualRatePercent},
		{"term_years", domain.ErrInvalidTerm, &req.TermYears},
	}

	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0) {
			return domain.LoanInput{}, domain.NewValidationError(domain.ErrNumericOverflow, "%s is not representable as a float64", f.name)
		}
		if err != nil {
			return domain.LoanInput{}, domain.NewValidationError(f.sentinel, "%s must be a number, got %q", f.name, raw)
		}
		*f.dst = &v
	}

	return req.toInput()
}
