package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// TransportMessage is shown when a request never completed.
const TransportMessage = "Unable to reach the wishlist service"

// ServiceError is a request that completed with a failure status.
type ServiceError struct {
	StatusCode int
	// Message is the service-provided message, or a generic fallback when the
	// response carried none.
	Message string
	Method  string
	Path    string
}

func (e *ServiceError) Error() string { return e.Message }

// TransportError is a request that never produced a response (or produced an
// unreadable one).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// FallbackMessage is used when a failure response has no message field.
func FallbackMessage(status int) string {
	if txt := http.StatusText(status); txt != "" {
		return fmt.Sprintf("Server error: %s", txt)
	}
	return "Server error!"
}

const maxErrorBody = 64 << 10

func decodeServiceError(resp *http.Response) *ServiceError {
	se := &ServiceError{StatusCode: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env struct {
		Message *string `json:"message"`
	}
	if len(b) > 0 && json.Unmarshal(b, &env) == nil && env.Message != nil {
		se.Message = strings.TrimSpace(*env.Message)
	}
	if se.Message == "" {
		se.Message = FallbackMessage(resp.StatusCode)
	}
	return se
}
