package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/LogTrack/internal/logger"
	"github.com/yildizm/LogTrack/internal/monitor"
	"github.com/yildizm/LogTrack/internal/upload"
)

const (
	// DefaultTimeout bounds a single request
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is read
	maxErrorBody = 64 * 1024
)

// Config configures the API client
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Health is the service root response
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Client talks to the remote log analysis service. It never retries:
// every failure is returned to the caller as an *APIError.
type Client struct {
	config  Config
	http    *http.Client
	baseURL *url.URL
	log     *logger.Logger
	metrics *monitor.Collector
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger for request tracing
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithCollector records the duration and outcome of every call
func WithCollector(m *monitor.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// New validates cfg and builds a client
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, newError(KindConfiguration, "API base URL is not set", "", nil)
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, newError(KindConfiguration, fmt.Sprintf("invalid API base URL %q", cfg.BaseURL), "", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, newError(KindConfiguration, fmt.Sprintf("API base URL must be http or https, got %q", cfg.BaseURL), "", nil)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "logtrack"
	}

	c := &Client{
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: baseURL,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Submit sends one file as a multipart body with field "file"
func (c *Client) Submit(ctx context.Context, filename string, body io.Reader) (*upload.SubmitResult, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, newError(KindSubmission, msgSubmitFailed, "", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, newError(KindSubmission, msgSubmitFailed, "", fmt.Errorf("failed to read %s: %w", filename, err))
	}
	if err := form.Close(); err != nil {
		return nil, newError(KindSubmission, msgSubmitFailed, "", err)
	}

	req, requestID, err := c.newRequest(ctx, http.MethodPost, c.baseURL.JoinPath("upload"), &buf)
	if err != nil {
		return nil, newError(KindSubmission, msgSubmitFailed, requestID, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.do(monitor.OperationSubmit, req, requestID)
	if err != nil {
		return nil, newError(KindSubmission, msgSubmitFailed, requestID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, c.errorFromResponse(resp, requestID, KindSubmission, msgSubmitFailed)
	}

	var result upload.SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newError(KindSubmission, msgSubmitFailed, requestID, fmt.Errorf("failed to decode upload response: %w", err))
	}

	c.log.Info("upload accepted", logger.F("file", filename), logger.F("upload_id", result.UploadID), logger.F("status", result.Status))
	return &result, nil
}

// List fetches the full current upload list in service order
func (c *Client) List(ctx context.Context) ([]upload.Record, error) {
	req, requestID, err := c.newRequest(ctx, http.MethodGet, c.baseURL.JoinPath("uploads"), http.NoBody)
	if err != nil {
		return nil, newError(KindFetch, msgFetchFailed, requestID, err)
	}

	resp, err := c.do(monitor.OperationList, req, requestID)
	if err != nil {
		return nil, newError(KindFetch, msgFetchFailed, requestID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, c.errorFromResponse(resp, requestID, KindFetch, msgFetchFailed)
	}

	var records []upload.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, newError(KindFetch, msgFetchFailed, requestID, fmt.Errorf("failed to decode upload list: %w", err))
	}
	if records == nil {
		records = []upload.Record{}
	}

	return records, nil
}

// Get fetches one upload with its analysis results
func (c *Client) Get(ctx context.Context, id upload.ID) (*upload.Record, error) {
	req, requestID, err := c.newRequest(ctx, http.MethodGet, c.uploadURL(id), http.NoBody)
	if err != nil {
		return nil, newError(KindFetch, msgFetchFailed, requestID, err)
	}

	resp, err := c.do(monitor.OperationGet, req, requestID)
	if err != nil {
		return nil, newError(KindFetch, msgFetchFailed, requestID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, c.errorFromResponse(resp, requestID, KindNotFound, msgNotFound)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, c.errorFromResponse(resp, requestID, KindFetch, msgFetchFailed)
	}

	var record upload.Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, newError(KindFetch, msgFetchFailed, requestID, fmt.Errorf("failed to decode upload: %w", err))
	}
	return &record, nil
}

// Delete removes one upload; any 2xx counts as success
func (c *Client) Delete(ctx context.Context, id upload.ID) error {
	req, requestID, err := c.newRequest(ctx, http.MethodDelete, c.uploadURL(id), http.NoBody)
	if err != nil {
		return newError(KindDelete, msgDeleteFailed, requestID, err)
	}

	resp, err := c.do(monitor.OperationDelete, req, requestID)
	if err != nil {
		return newError(KindDelete, msgDeleteFailed, requestID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return c.errorFromResponse(resp, requestID, KindDelete, msgDeleteFailed)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	c.log.Info("upload deleted", logger.F("upload_id", id))
	return nil
}

// Health calls the service root
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, requestID, err := c.newRequest(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return nil, newError(KindNetwork, "health check failed", requestID, err)
	}

	resp, err := c.do(monitor.OperationHealth, req, requestID)
	if err != nil {
		return nil, newError(KindNetwork, "health check failed", requestID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, c.errorFromResponse(resp, requestID, KindFetch, fmt.Sprintf("health check failed with status %d", resp.StatusCode))
	}

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, newError(KindDecode, "unexpected health response", requestID, err)
	}
	return &health, nil
}

func (c *Client) uploadURL(id upload.ID) *url.URL {
	return c.baseURL.JoinPath("uploads", url.PathEscape(id.String()))
}

func (c *Client) newRequest(ctx context.Context, method string, endpoint *url.URL, body io.Reader) (*http.Request, string, error) {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, requestID, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)
	return req, requestID, nil
}

func (c *Client) do(op monitor.OperationType, req *http.Request, requestID string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.Record(op, time.Since(start), err)
		c.log.Debug("request failed",
			logger.F("method", req.Method), logger.F("url", req.URL.Path),
			logger.F("request_id", requestID), logger.Duration(time.Since(start)), logger.Err(err))
		return nil, err
	}

	var statusErr error
	if !isSuccess(resp.StatusCode) {
		statusErr = fmt.Errorf("status %d", resp.StatusCode)
	}
	c.metrics.Record(op, time.Since(start), statusErr)

	c.log.Debug("request completed",
		logger.F("method", req.Method), logger.F("url", req.URL.Path), logger.F("status", resp.StatusCode),
		logger.F("request_id", requestID), logger.Duration(time.Since(start)))
	return resp, nil
}

// errorFromResponse prefers the server's detail text and falls back to fallback
func (c *Client) errorFromResponse(resp *http.Response, requestID string, kind ErrorKind, fallback string) *APIError {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := ""
	if err == nil {
		message = parseDetail(body)
	}
	if message == "" {
		message = fallback
	}

	apiErr := newError(kind, message, requestID, nil)
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
