package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mdproxy/pkg/types"
)

// StatusError reports a non-2xx response from the server.
type StatusError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server returned %d: %s", e.Endpoint, e.Code, e.Message)
}

// StatusCode returns the HTTP status carried by the error.
func (e *StatusError) StatusCode() int { return e.Code }

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// statusErrorFrom builds a StatusError from a response body, preferring the
// server's JSON error payload when present.
func statusErrorFrom(endpoint string, code int, body []byte) error {
	var er types.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &StatusError{Endpoint: endpoint, Code: code, Message: er.Error}
	}
	return &StatusError{Endpoint: endpoint, Code: code, Message: strings.TrimSpace(string(body))}
}

// pathNotFoundError signals that an object path could not be resolved
// against the model snapshot.
type pathNotFoundError struct {
	path    string
	segment string
}

func (e pathNotFoundError) Error() string {
	return fmt.Sprintf("object path %q: segment %q not found", e.path, e.segment)
}

// ErrPathNotFound constructs a path resolution error for path at segment.
func ErrPathNotFound(path, segment string) error {
	return pathNotFoundError{path: path, segment: segment}
}

// IsPathNotFound reports whether err indicates a missing object path segment.
func IsPathNotFound(err error) bool {
	var pe pathNotFoundError
	return errors.As(err, &pe)
}

// ErrNoPrompter is returned by NewFile/NewFolder when no Prompter was wired.
var ErrNoPrompter = errors.New("no prompter configured")

// ErrNoUploader is returned by UploadFile when no Uploader was wired.
var ErrNoUploader = errors.New("no uploader configured")
