package itemapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches errors for ids the backend does not know.
var ErrNotFound = errors.New("item not found")

// Error is a non-2xx answer from the item API.
type Error struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s %s: %d %s", e.Op, e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// DecodeError means the backend answered 2xx with a payload we cannot use.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return e.Op + ": malformed response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// messageFrom pulls a human message out of an error body.
// Spring-style bodies carry "message"; gin handlers here use "error".
func messageFrom(body []byte) string {
	var v struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &v) == nil {
		if v.Message != "" {
			return v.Message
		}
		if v.Error != "" {
			return v.Error
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}
