package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/myflix/internal/shared"
)

// GenericMessage is the user-facing text for every API failure.
const GenericMessage = "Something bad happened; please try again later."

// Kind classifies an [APIError].
type Kind string

const (
	KindNetwork    Kind = "network"
	KindHTTP4xx    Kind = "http4xx"
	KindHTTP5xx    Kind = "http5xx"
	KindValidation Kind = "validation"
)

// ErrorDetail is one entry of an express-validator style error body.
type ErrorDetail struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location,omitempty"`
}

// Field returns the offending field name, whichever key the server used.
func (d ErrorDetail) Field() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Param
}

type errorBody struct {
	Errors  []ErrorDetail `json:"errors"`
	Message string        `json:"message"`
}

// APIError is returned for every failed API call.
type APIError struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int           // zero for network errors
	Details []ErrorDetail // populated for KindValidation
	Body    []byte
	Err     error // transport error for KindNetwork
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%s %d)", GenericMessage, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (%s)", GenericMessage, e.Kind)
}

// Unwrap exposes the sentinel errors this failure matches.
func (e *APIError) Unwrap() []error {
	errs := []error{shared.ErrAPIRequest}
	switch e.Status {
	case http.StatusUnauthorized:
		errs = append(errs, shared.ErrNotAuthenticated)
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		errs = append(errs, shared.ErrServiceUnavailable)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// FirstDetail returns the first validation message, if any.
func (e *APIError) FirstDetail() (string, bool) {
	if len(e.Details) == 0 || e.Details[0].Msg == "" {
		return "", false
	}
	return e.Details[0].Msg, true
}

// Message returns the most specific human-readable explanation available:
// the first validation message, then a {"message"} body, then a plain text body, then [GenericMessage].
func (e *APIError) Message() string {
	if msg, ok := e.FirstDetail(); ok {
		return msg
	}

	var body errorBody
	if err := json.Unmarshal(e.Body, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		return GenericMessage
	}

	if text := strings.TrimSpace(string(e.Body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return GenericMessage
}

// IsKind reports whether err is an [*APIError] of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// UserMessage returns the message to show for err: the API's own explanation when err is an [*APIError],
// otherwise err's text.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

func newNetworkError(method, path string, err error) *APIError {
	return &APIError{Kind: KindNetwork, Method: method, Path: path, Err: err}
}

// newStatusError classifies a non-2xx response.
func newStatusError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status, Body: body}

	if status >= 500 {
		e.Kind = KindHTTP5xx
		return e
	}

	e.Kind = KindHTTP4xx
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		e.Kind = KindValidation
		e.Details = parsed.Errors
	}
	return e
}
