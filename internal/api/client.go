// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the ragdash backend gateway.
//
// The gateway exposes six operations: chat, document list/upload, and
// credential list/create/delete. The backend is the source of truth for all
// schemas; this client only encodes requests and decodes responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/YatinKande/aws-docs-rag-bot/internal/logging"
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// Configuration constants for the backend gateway.
const (
	// DefaultBaseURL is the backend API base including the version prefix.
	DefaultBaseURL = "http://localhost:8000/api/v1"

	// DefaultTimeout bounds a single request. Without it a hung backend
	// would leave a view's pending flag set forever.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the retry budget for transient failures on
	// idempotent requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 5 * time.Second

	// MaxResponseSize caps the response body read.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// MaxUploadSize caps outgoing document uploads.
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
)

// sharedHTTPClient is the pooled HTTP client for all gateway requests.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead when the
// document poller and user actions overlap.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
	// Per-request deadlines come from context; see (*Client).do.
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the concrete Gateway implementation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// compile-time interface check
var _ Gateway = (*Client)(nil)

// NewClient creates a gateway client for the given base URL. An empty base
// URL means the default local backend.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     logging.L(),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithMaxRetries sets the retry budget for idempotent requests.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	if maxRetries >= 0 {
		c.maxRetries = maxRetries
	}
	return c
}

// WithRateLimit caps the outgoing request rate so the poller plus user
// actions cannot stampede the backend. Zero or negative means unlimited.
func (c *Client) WithRateLimit(perSec float64) *Client {
	if perSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSec), int(perSec)+1)
	}
	return c
}

// WithLogger sets the request logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Chat sends a query to the answer endpoint. For docs queries the selected
// storage engine travels along; for other filters the backend ignores it.
func (c *Client) Chat(ctx context.Context, query string, filter model.SourceFilter, engine model.Engine) (*ChatResult, error) {
	reqBody := chatRequest{
		Query:          query,
		SelectedSource: string(filter),
		SelectedDB:     string(engine),
	}

	var resp chatResponse
	if err := c.postJSON(ctx, "/chat/", reqBody, &resp); err != nil {
		return nil, err
	}

	return &ChatResult{
		Answer:        resp.Answer,
		SourceType:    model.ParseSourceType(resp.SourceType),
		SourceDetails: resp.SourceDetails,
	}, nil
}

// ListDocuments returns the backend's current document list.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var docs []model.Document
	if err := c.getJSON(ctx, "/documents/", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument transfers file bytes as a multipart form to the ingestion
// pipeline and returns the backend's status message.
func (c *Client) UploadDocument(ctx context.Context, filename string, data []byte, engine model.Engine) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, len(data))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart form: %w", err)
	}

	endpoint := "/documents/upload?database=" + url.QueryEscape(string(engine))
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := c.do(req, false)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return resp.Message, nil
}

// ListConnections returns the registered credential connections.
func (c *Client) ListConnections(ctx context.Context) ([]model.Connection, error) {
	var conns []model.Connection
	if err := c.getJSON(ctx, "/api-keys/", &conns); err != nil {
		return nil, err
	}
	return conns, nil
}

// CreateConnection registers a credential. The secret payload is sent once;
// the returned record never contains it.
func (c *Client) CreateConnection(ctx context.Context, provider model.Provider, nickname string, creds Credentials) (*model.Connection, error) {
	reqBody := createConnectionRequest{
		Provider:    string(provider),
		Nickname:    nickname,
		Credentials: creds,
	}

	var conn model.Connection
	if err := c.postJSON(ctx, "/api-keys/", reqBody, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteConnection removes a credential by ID.
func (c *Client) DeleteConnection(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api-keys/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, false)
	return err
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// getJSON performs a retried GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	body, err := c.do(req, true)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// postJSON performs a single POST (no retry, not idempotent) and decodes the
// JSON response into out.
func (c *Client) postJSON(ctx context.Context, endpoint string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, false)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// newRequest builds a request against the backend with standard headers.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do executes a request with the client timeout, rate limiter, and (for
// idempotent requests) retry with exponential backoff. It returns the
// response body or a classified error.
func (c *Client) do(req *http.Request, idempotent bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	attempts := 1
	if idempotent {
		attempts = c.maxRetries + 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			c.logger.Debug("retrying request",
				zap.String("url", req.URL.Path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, ctx.Err())
			}
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
			if !isRetryable(err) {
				break
			}
			continue
		}

		body, err := readResponse(resp)
		c.logger.Debug("gateway response",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)))
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := classifyStatus(resp.StatusCode, body)
			// Retry server-side failures, not client-side ones.
			if resp.StatusCode >= 500 {
				lastErr = apiErr
				continue
			}
			return nil, apiErr
		}

		return body, nil
	}

	return nil, lastErr
}

// backoff computes the exponential backoff delay for an attempt.
func (c *Client) backoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// readResponse reads a response body with the size cap applied.
func readResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}
	return body, nil
}

// isRetryable reports whether a transport error is worth retrying.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Temporary() || urlErr.Timeout() || strings.Contains(urlErr.Err.Error(), "connection refused")
	}
	return false
}
