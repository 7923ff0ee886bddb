package gateway

import (
	"errors"
	"fmt"
)

// RequestError reports a failed backend call: either a transport/decode
// failure (Err set) or a non-2xx response (StatusCode set).
type RequestError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: %s %s: status %d: %s", e.Op, e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s %s: status %d", e.Op, e.Method, e.Path, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a RequestError with the given status.
func IsStatus(err error, code int) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == code
}
