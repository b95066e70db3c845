package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrConnectionFailed  = errors.New("backend connection failed")
	ErrModelNotAvailable = errors.New("model not available on backend")
	ErrQueryFailed       = errors.New("backend query failed")
	ErrResponseParsing   = errors.New("could not parse backend response")
	ErrTimeout           = errors.New("backend did not answer before the timeout")

	// ErrMissingAPIKey is a configuration error: the remote backend cannot be built.
	ErrMissingAPIKey = errors.New("remote backend requires an API key")
)

// QueryError carries the backend- or transport-reported detail of a failed query.
type QueryError struct {
	Detail string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrQueryFailed, e.Detail)
}

func (e *QueryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrQueryFailed}
	}
	return []error{ErrQueryFailed, e.Err}
}

// Hint returns a short user-facing suggestion for an LLM error, or "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "pass --api-key, set api_key in the config file, or export OPENAI_API_KEY"
	case errors.Is(err, ErrConnectionFailed):
		return "check that the backend is running and the base URL is correct (notewise doctor)"
	case errors.Is(err, ErrModelNotAvailable):
		return "pull the model first (notewise pull <model>) or pick one from notewise models"
	case errors.Is(err, ErrTimeout):
		return "the model may still be loading; raise timeout in the config or try a smaller model"
	case errors.Is(err, ErrResponseParsing):
		return "the backend answered with an unexpected body; check base_url points at the right API"
	case errors.Is(err, ErrQueryFailed):
		return "the backend rejected the request; see the detail above"
	}
	return ""
}

// classifyTransportError maps a failed HTTP round trip onto the error taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return &QueryError{Detail: friendlyNetworkError(err), Err: err}
}

// parseBackendError extracts a human-readable error from a non-2xx response body.
func parseBackendError(statusCode int, body []byte) string {
	var errResp struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if msg := errorFieldMessage(errResp.Error); msg != "" {
			return msg
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	switch statusCode {
	case 401:
		return "authentication failed: check your API key"
	case 403:
		return "access denied: your API key may not have the required permissions"
	case 404:
		return "model or endpoint not found"
	case 429:
		return "rate limited: too many requests, please wait"
	case 500:
		return "internal server error on the backend"
	case 502, 503:
		return "backend temporarily unavailable"
	}

	s := string(body)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, s)
}

// errorFieldMessage accepts both {"error":"msg"} and {"error":{"message":"msg"}}.
func errorFieldMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Type
	}
	return string(raw)
}

// friendlyNetworkError converts common network errors to user-friendly messages.
func friendlyNetworkError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused (is the service running?)"
	}
	if strings.Contains(msg, "no such host") {
		return "host not found (check the URL)"
	}
	if strings.Contains(msg, "EOF") {
		return "connection closed unexpectedly"
	}
	if strings.Contains(msg, "reset by peer") {
		return "connection reset by server"
	}
	return msg
}
