package ledgersdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the ledger service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Message is the server's error message
	Message string

	// Details holds per-field validation messages, if any
	Details map[string]string

	// Required and Current are set when a role or permission check failed
	Required []string
	Current  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("ledger: %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool { return IsStatus(err, http.StatusForbidden) }

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// parseErrorResponse turns an error response into an *APIError. Bodies that
// are not the usual {"error": ...} envelope fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Error,
			Details:    errResp.Details,
			Required:   errResp.Required,
			Current:    errResp.Current,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
