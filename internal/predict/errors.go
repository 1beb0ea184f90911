package predict

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to clients.
const (
	CodeMissingField       = "MISSING_FIELD"
	CodeMalformedRank      = "MALFORMED_RANK"
	CodeMalformedYear      = "MALFORMED_YEAR"
	CodeMalformedBody      = "MALFORMED_BODY"
	CodeUnknownCombination = "UNKNOWN_COMBINATION"
	CodeNoData             = "NO_DATA"
)

// Sentinels for errors.Is.
var (
	ErrMissingField       = errors.New("missing field")
	ErrMalformedRank      = errors.New("malformed rank")
	ErrMalformedYear      = errors.New("malformed year")
	ErrMalformedBody      = errors.New("malformed request body")
	ErrUnknownCombination = errors.New("unknown category/gender combination")
	ErrNoData             = errors.New("no cutoff data loaded")
)

// RequestError is a client-visible lookup failure.
type RequestError struct {
	Code    string
	Message string
	Status  int
	Kind    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match the sentinel kind.
func (e *RequestError) Unwrap() error {
	return e.Kind
}

func newRequestError(kind error, format string, args ...any) *RequestError {
	e := &RequestError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	switch kind {
	case ErrMissingField:
		e.Code, e.Status = CodeMissingField, http.StatusBadRequest
	case ErrMalformedRank:
		e.Code, e.Status = CodeMalformedRank, http.StatusBadRequest
	case ErrMalformedYear:
		e.Code, e.Status = CodeMalformedYear, http.StatusBadRequest
	case ErrMalformedBody:
		e.Code, e.Status = CodeMalformedBody, http.StatusBadRequest
	case ErrUnknownCombination:
		e.Code, e.Status = CodeUnknownCombination, http.StatusUnprocessableEntity
	case ErrNoData:
		e.Code, e.Status = CodeNoData, http.StatusServiceUnavailable
	default:
		e.Code, e.Status = "BAD_REQUEST", http.StatusBadRequest
	}
	return e
}

// AsRequestError extracts a RequestError from err.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
