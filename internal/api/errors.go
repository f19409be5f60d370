package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// genericError is shown when a non-2xx response carries no usable
// {error} body. The server speaks Spanish to its users; so do we.
const genericError = "Error"

// APIError is a server-reported failure: the request reached the server
// and it answered with a non-2xx status. Message holds the server's error
// string verbatim when one was supplied, so the UI can surface it as-is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// IsNotFound reports whether err is a server 404. The ticket detail
// screen uses this to tell "no such ticket" apart from other failures.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a server 401/403. The dashboard
// renders this as an explicit not-authenticated state.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// parseAPIError builds an APIError from a non-2xx response body. Bodies
// are expected to be {"error": "..."} but are parsed defensively:
// anything malformed or empty falls back to the generic message.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Message: genericError}

	var wire struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wire) == nil {
		switch {
		case strings.TrimSpace(wire.Error) != "":
			apiErr.Message = wire.Error
		case strings.TrimSpace(wire.Message) != "":
			apiErr.Message = wire.Message
		}
	}
	return apiErr
}
