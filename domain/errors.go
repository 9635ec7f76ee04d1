package domain

import "fmt"

// Validation error codes reported to callers.
const (
	CodeInvalidPrincipal = "invalid_principal"
	CodeInvalidRate      = "invalid_rate"
	CodeInvalidTerm      = "invalid_term"
	CodeNumericOverflow  = "numeric_overflow"
)

// ValidationError describes the first precondition a loan input violated.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code so that errors.Is(err, ErrInvalidRate) holds for any
// invalid-rate error regardless of its message.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidPrincipal = &ValidationError{Code: CodeInvalidPrincipal, Field: "principal"}
	ErrInvalidRate      = &ValidationError{Code: CodeInvalidRate, Field: "annual_rate_percent"}
	ErrInvalidTerm      = &ValidationError{Code: CodeInvalidTerm, Field: "term_years"}
	ErrNumericOverflow  = &ValidationError{Code: CodeNumericOverflow}
)

// NewValidationError copies a sentinel and attaches a formatted message.
func NewValidationError(sentinel *ValidationError, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:    sentinel.Code,
		Field:   sentinel.Field,
		Message: fmt.Sprintf(format, args...),
	}
}
