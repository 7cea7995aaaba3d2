// Package form implements the client side of registration: local checks
// against the shared rule table, a single JSON POST to the endpoint, and the
// mapping of its answer to the message shown to the user.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"signup-service/internal/validation"
)

const RegisterPath = "/api/register"

// User-facing alert texts.
const (
	MsgRegistered = "User registered successfully!"
	MsgFailed     = "Failed to register user."
	MsgUnexpected = "Something went wrong. Please try again."
)

// Input is what the user typed.
type Input struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate returns the first failing message per field, keyed by field name.
func (in Input) Validate() map[string]string {
	return validation.Fields(map[string]string{
		validation.FieldName:     in.Name,
		validation.FieldEmail:    in.Email,
		validation.FieldPassword: in.Password,
	})
}

// Result is the outcome of one submit attempt. When FieldErrors is non-empty
// nothing was sent and Alert is empty.
type Result struct {
	FieldErrors map[string]string
	Submitted   bool
	Success     bool
	Alert       string
}

// Client submits registrations to the endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithLogger sets where transport failures are reported.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a Client for the API at base.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://127.0.0.1:8080"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	c := &Client{
		endpoint:   strings.TrimRight(trimmed, "/") + RegisterPath,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit validates in locally and, if it passes, sends exactly one request.
// There is no retry.
func (c *Client) Submit(ctx context.Context, in Input) Result {
	if errs := in.Validate(); len(errs) > 0 {
		return Result{FieldErrors: errs}
	}

	status, body, err := c.post(ctx, in)
	if err != nil {
		c.logger.WithError(err).Warn("registration request failed")
		return Result{Submitted: true, Alert: MsgUnexpected}
	}

	if status < 200 || status > 299 {
		msg := strings.TrimSpace(body.Error)
		if msg == "" {
			msg = MsgFailed
		}
		return Result{Submitted: true, Alert: msg}
	}
	return Result{Submitted: true, Success: true, Alert: MsgRegistered}
}

type responseBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// post reports an error when no usable answer came back: transport
// failures and bodies that are not JSON.
func (c *Client) post(ctx context.Context, in Input) (int, responseBody, error) {
	var body responseBody

	payload, err := json.Marshal(in)
	if err != nil {
		return 0, body, fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, body, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, body, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, body, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return 0, body, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, body, nil
}
