package api

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport means the request never produced a response.
	KindTransport Kind = iota
	// KindStatus means the server answered with a non-2xx status.
	KindStatus
	// KindPayload means the server answered 2xx with success:false.
	KindPayload
	// KindDecode means the body was not the expected JSON.
	KindDecode
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindPayload:
		return "payload"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the failure returned by every Client operation.
type Error struct {
	Kind     Kind
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCanceled reports whether err came from a cancelled or superseded request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// UserMessage normalises any error to the single line shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func transportError(endpoint string, err error) *Error {
	return &Error{
		Kind:     KindTransport,
		Endpoint: endpoint,
		Message:  fmt.Sprintf("Request failed: %v", err),
		Err:      err,
	}
}

func statusError(endpoint string, status int, body string) *Error {
	msg := fmt.Sprintf("Server returned %d", status)
	if body != "" {
		msg += ": " + body
	}
	return &Error{Kind: KindStatus, Endpoint: endpoint, Status: status, Message: msg}
}

func payloadError(endpoint, serverMsg string) *Error {
	if serverMsg == "" {
		serverMsg = "unknown error"
	}
	return &Error{Kind: KindPayload, Endpoint: endpoint, Message: "Server reported an error: " + serverMsg}
}

func decodeError(endpoint string, err error) *Error {
	return &Error{
		Kind:     KindDecode,
		Endpoint: endpoint,
		Message:  "Failed to parse JSON response",
		Err:      err,
	}
}
