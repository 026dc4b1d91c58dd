// Package crmapi is the client for the CRM REST API.
package crmapi

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

	"github.com/rs/zerolog"

	"github.com/edvin/crmpanel/internal/session"
)

// BasePath is the fixed API root under the configured base URL.
const BasePath = "/api"

// FallbackMessage is used when a failed response carries no readable message.
const FallbackMessage = "API error"

const defaultTimeout = 30 * time.Second

// Error is the only error the client returns. It carries a human-readable
// message and deliberately no status code.
type Error struct {
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// Message returns the text to show an operator for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func newError(message string, cause error) *Error {
	return &Error{Message: message, err: cause}
}

type Client struct {
	baseURL    string
	session    session.Store
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. It applies to a copy of the HTTP
// client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a client for the API at baseURL (scheme and host, without
// the /api root). The token is read from store before every call.
func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: store,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// RequestOption adjusts an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a caller-supplied header. Authorization is always
// overwritten when a token is stored.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// Request sends method path (relative to the API root) with an optional JSON
// body and decodes a successful JSON response into result. result may be nil.
func (c *Client) Request(ctx context.Context, method, path string, body, result any, opts ...RequestOption) error {
	start := time.Now()
	status, err := c.do(ctx, method, path, body, result, opts)
	observe(method, status, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, result any, opts []RequestOption) (int, error) {
	logger := zerolog.Ctx(ctx)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, newError(fmt.Sprintf("marshal request body: %v", err), err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+BasePath+path, reqBody)
	if err != nil {
		return 0, newError(fmt.Sprintf("create request: %v", err), err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	token, err := c.session.Token(ctx)
	if err != nil {
		return 0, newError(fmt.Sprintf("read session: %v", err), err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("CRM API request failed")
		return 0, newError(err.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, newError(fmt.Sprintf("read response body: %v", err), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := errorMessage(data, FallbackMessage)
		logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", message).
			Msg("CRM API returned an error")
		return resp.StatusCode, newError(message, nil)
	}

	if result != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return resp.StatusCode, newError(fmt.Sprintf("decode response: %v", err), err)
		}
	}
	return resp.StatusCode, nil
}

// errorMessage extracts {"message": "..."} from an error body.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		return fallback
	}
	return body.Message
}
