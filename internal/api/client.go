// Package api is the HTTP client for the hosted platform API. The backend
// is external and opaque: this package only shapes requests, normalizes
// error messages, and narrows the loosely typed payloads it returns.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"codequest/internal/debuglog"
)

const projectHeader = "novi-education-project-id"

var (
	// ErrNoProjectID means the client was built without a project id.
	// Nothing can be sent without one.
	ErrNoProjectID = errors.New("missing project ID")

	// ErrNotLoggedIn means an authenticated call was attempted with no
	// stored session token. Raised before any network I/O.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrMissingToken means a login response carried no token.
	ErrMissingToken = errors.New("login response did not include a token")
)

// APIError is a non-2xx response from the platform.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenSource provides the current session token, if any.
type TokenSource interface {
	Token() string
}

// Client talks to the platform API. All methods are safe for use from
// Bubble Tea commands; each call is independent.
type Client struct {
	baseURL   string
	projectID string
	http      *http.Client
	tokens    TokenSource
	log       *debuglog.Logger
}

// NewClient builds a Client. tokens may be nil for a client that only makes
// unauthenticated calls; log may be nil to disable diagnostics.
func NewClient(baseURL, projectID string, tokens TokenSource, log *debuglog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
		http:      &http.Client{Timeout: 15 * time.Second},
		tokens:    tokens,
		log:       log,
	}
}

// requestOpts configures a single API call.
type requestOpts struct {
	method string
	body   any
	auth   bool
}

// request performs one API call and decodes the JSON response into out
// (which may be nil). Unparseable response bodies are treated as null.
func (c *Client) request(ctx context.Context, path string, opts requestOpts, out any) error {
	if c.projectID == "" {
		return ErrNoProjectID
	}

	requestID := uuid.NewString()
	method := opts.method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	var bodyForLog any
	if opts.body != nil {
		raw, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)

		// Log a redacted, size-capped summary: a code submission can be
		// arbitrarily large.
		var generic any
		if err := json.Unmarshal(raw, &generic); err == nil {
			if summary, err := json.Marshal(debuglog.Redact(generic)); err == nil {
				bodyForLog = debuglog.TruncateBody(string(summary))
			}
		}
	}

	c.log.Event("api.request", map[string]any{
		"requestId":       requestID,
		"method":          method,
		"path":            path,
		"auth":            opts.auth,
		"projectIdSuffix": suffix(c.projectID, 6),
		"body":            bodyForLog,
	})

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(projectHeader, c.projectID)

	if opts.auth {
		token := ""
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Event("api.response.error", map[string]any{
			"requestId": requestID,
			"method":    method,
			"path":      path,
			"message":   err.Error(),
		})
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	// Parse when parseable, otherwise treat the payload as null.
	var data json.RawMessage
	if len(text) > 0 && json.Valid(text) {
		data = text
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(data, text, resp.Status),
		}

		var redactedJSON any
		if data != nil {
			var generic any
			if err := json.Unmarshal(data, &generic); err == nil {
				redactedJSON = debuglog.Redact(generic)
			}
		}
		c.log.Event("api.response.error", map[string]any{
			"requestId":    requestID,
			"method":       method,
			"path":         path,
			"status":       resp.StatusCode,
			"message":      apiErr.Message,
			"responseText": debuglog.TruncateResponse(string(text)),
			"responseJson": redactedJSON,
		})
		return apiErr
	}

	c.log.Event("api.response.ok", map[string]any{
		"requestId": requestID,
		"method":    method,
		"path":      path,
		"status":    resp.StatusCode,
	})

	if out == nil || data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// errorMessage picks the most useful message from a failed response:
// message field, then error field, then the raw body, then the status line.
func errorMessage(data json.RawMessage, text []byte, statusLine string) string {
	if data != nil {
		var fields struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(data, &fields); err == nil {
			if fields.Message != "" {
				return fields.Message
			}
			if fields.Error != "" {
				return fields.Error
			}
		}
	}
	if trimmed := strings.TrimSpace(string(text)); trimmed != "" {
		return trimmed
	}
	// statusLine is like "406 Not Acceptable"; keep only the text part so
	// messages match what the server would have said.
	if i := strings.IndexByte(statusLine, ' '); i >= 0 {
		return statusLine[i+1:]
	}
	return statusLine
}

func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
