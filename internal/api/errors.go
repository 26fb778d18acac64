package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound covers 404s, success:false envelopes and null payloads.
	ErrNotFound = errors.New("api: not found")
	// ErrInvalidParams means the request was refused before it was sent.
	ErrInvalidParams = errors.New("api: invalid parameters")
)

// ParamsError lists the parameter fields that failed validation.
type ParamsError struct {
	Endpoint string
	Fields   []string
	cause    error
}

func (e *ParamsError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: invalid parameters for %s", e.Endpoint)
	}
	return fmt.Sprintf("api: invalid parameters for %s: %s", e.Endpoint, strings.Join(e.Fields, ", "))
}

func (e *ParamsError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrInvalidParams}
	}
	return []error{ErrInvalidParams, e.cause}
}

func newParamsError(endpoint string, err error) *ParamsError {
	perr := &ParamsError{Endpoint: endpoint, cause: err}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			perr.Fields = append(perr.Fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
		}
	}
	return perr
}

// UpstreamError is a non-2xx, non-404 backend response.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("api: %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}
