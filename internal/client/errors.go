package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes failures talking to the analysis service
type ErrorKind string

const (
	// KindSubmission indicates the upload was rejected or could not be sent
	KindSubmission ErrorKind = "submission"

	// KindFetch indicates the upload list or a single upload could not be read
	KindFetch ErrorKind = "fetch"

	// KindDelete indicates a delete request failed
	KindDelete ErrorKind = "delete"

	// KindNotFound indicates the service does not know the upload id
	KindNotFound ErrorKind = "not_found"

	// KindNetwork indicates the request never produced an HTTP response
	KindNetwork ErrorKind = "network"

	// KindConfiguration indicates the client itself is misconfigured
	KindConfiguration ErrorKind = "configuration"

	// KindDecode indicates the service answered with an unexpected body
	KindDecode ErrorKind = "decode"
)

// Messages shown when the service gives no detail of its own
const (
	msgSubmitFailed = "Upload failed. Please try again."
	msgFetchFailed  = "Failed to fetch uploads"
	msgDeleteFailed = "Failed to delete upload"
	msgNotFound     = "Upload not found"
)

// APIError is returned by every Client operation. Error() is the
// human-readable message; Describe() adds the diagnostic context.
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	RequestID  string
	Cause      error
}

func (e *APIError) Error() string {
	return e.Message
}

// Describe renders the error with kind, status, request id and cause
func (e *APIError) Describe() string {
	parts := []string{fmt.Sprintf("type=%s", e.Kind)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.RequestID != "" {
		parts = append(parts, fmt.Sprintf("request_id=%s", e.RequestID))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches another APIError of the same kind
func (e *APIError) Is(target error) bool {
	var other *APIError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// Sentinels for errors.Is checks
var (
	ErrSubmission    = &APIError{Kind: KindSubmission}
	ErrFetch         = &APIError{Kind: KindFetch}
	ErrDelete        = &APIError{Kind: KindDelete}
	ErrNotFound      = &APIError{Kind: KindNotFound}
	ErrNetwork       = &APIError{Kind: KindNetwork}
	ErrConfiguration = &APIError{Kind: KindConfiguration}
)

// KindOf returns the kind of err, or "" if it is not an APIError
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func newError(kind ErrorKind, message, requestID string, cause error) *APIError {
	return &APIError{
		Kind:      kind,
		Message:   message,
		RequestID: requestID,
		Cause:     cause,
	}
}

// errorBody is the FastAPI-style error envelope. detail is either a
// string or a list of validation problems.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationProblem struct {
	Msg string `json:"msg"`
}

// parseDetail extracts the server-provided message, or "" if there is none
func parseDetail(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var problems []validationProblem
	if err := json.Unmarshal(envelope.Detail, &problems); err == nil {
		msgs := make([]string, 0, len(problems))
		for _, p := range problems {
			if p.Msg != "" {
				msgs = append(msgs, p.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
