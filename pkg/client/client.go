package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/diogo/cryptointel-go/pkg/models"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// ErrInvalidResponse is returned when a response body is not valid JSON.
var ErrInvalidResponse = errors.New("invalid JSON response")

// APIError is returned by TestConnection for non-2xx responses.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Client is the cryptointel API client.
type Client struct {
	http   HTTPClientInterface
	logger *zap.Logger
}

// Config holds client configuration options.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
	Logger         *zap.Logger
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{BaseURL: baseURL}
}

// New creates a new client backed by a tls-client transport.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	httpClient, err := NewHTTPClient(cfg.BaseURL, cfg.TimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return NewWithHTTPClient(cfg, httpClient), nil
}

// NewWithHTTPClient creates a client over an existing transport.
func NewWithHTTPClient(cfg Config, h HTTPClientInterface) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:   h,
		logger: logger,
	}
}

// Submit posts a research query. req.ReportType is sent as given.
// A non-2xx status is not an error: it is reported in the result so the
// caller can surface the server's detail. Errors are transport or decoding
// failures only.
func (c *Client) Submit(ctx context.Context, req models.SubmitRequest) (*models.SubmitResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Post(ctx, submitPath, bytes.NewReader(payload), nil)
	if err != nil {
		c.logger.Debug("submit request failed",
			zap.String("path", submitPath),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	c.logger.Debug("submit response",
		zap.String("path", submitPath),
		zap.String("report_type", req.ReportType),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	result := &models.SubmitResult{StatusCode: resp.StatusCode}
	if err := decodeJSON(resp.Body, &result.Body); err != nil {
		return nil, err
	}

	return result, nil
}

// TestConnection calls the diagnostic endpoint.
func (c *Client) TestConnection(ctx context.Context) (*models.TestResponse, error) {
	start := time.Now()
	resp, err := c.http.Get(ctx, testPath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.logger.Debug("test response",
		zap.String("path", testPath),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	var body models.TestResponse
	decodeErr := decodeJSON(resp.Body, &body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: body.DetailText()}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	return &body, nil
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// decodeJSON reads a JSON body into v. An empty body decodes as {}.
func decodeJSON(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
