// Package client provides HTTP client functionality for the cryptointel API.
package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

const (
	submitPath = "/submit-query"
	testPath   = "/test"
	userAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"
)

// HTTPClientInterface defines the contract for HTTP client operations.
// This interface enables dependency injection and mocking for testing.
type HTTPClientInterface interface {
	// Get performs a GET request to the given URL.
	// The URL can be a full URL or a path (will be prefixed with the base URL).
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)

	// Post performs a POST request with the given body.
	// The URL can be a full URL or a path (will be prefixed with the base URL).
	Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error)

	// Close closes the HTTP client and releases resources.
	Close() error
}

// HTTPClient wraps tls-client to send browser-like requests to the API.
type HTTPClient struct {
	client  tls_client.HttpClient
	baseURL string
}

// NewHTTPClient creates a new HTTP client rooted at baseURL.
// A timeout of zero leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeoutSeconds int) (*HTTPClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profiles.Chrome_133),
		tls_client.WithRandomTLSExtensionOrder(),
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS client: %w", err)
	}

	return &HTTPClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// buildHeaders returns common headers for API requests.
// It merges custom headers with default headers.
func (c *HTTPClient) buildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{
		"Accept":          {"application/json"},
		"Accept-Language": {"en-US,en;q=0.9"},
		"Content-Type":    {"application/json"},
		"User-Agent":      {userAgent},
	}

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}

// normalizeURL converts a path to a full URL if needed.
func (c *HTTPClient) normalizeURL(urlStr string) string {
	if strings.HasPrefix(urlStr, "http://") || strings.HasPrefix(urlStr, "https://") {
		return urlStr
	}
	if !strings.HasPrefix(urlStr, "/") {
		urlStr = "/" + urlStr
	}
	return c.baseURL + urlStr
}

// Get performs a GET request.
// Implements HTTPClientInterface.
func (c *HTTPClient) Get(ctx context.Context, urlStr string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.normalizeURL(urlStr), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.buildHeaders(headers)
	return c.client.Do(req)
}

// Post performs a POST request with body.
// Implements HTTPClientInterface.
func (c *HTTPClient) Post(ctx context.Context, urlStr string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.normalizeURL(urlStr), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.buildHeaders(headers)
	return c.client.Do(req)
}

// Close closes the HTTP client.
// Implements HTTPClientInterface.
func (c *HTTPClient) Close() error {
	// tls-client doesn't have explicit close
	return nil
}

// MockHTTPClient is a mock implementation of HTTPClientInterface for testing.
// It allows tests to simulate HTTP responses without making real network calls.
type MockHTTPClient struct {
	// Request tracking
	LastMethod      string
	LastRequestURL  string
	LastRequestBody []byte
	LastHeaders     map[string]string
	RequestCount    int

	defaultResponse *http.Response
	defaultError    error
}

// NewMockHTTPClient creates a new MockHTTPClient with default settings.
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{}
}

// SetResponse sets the response for all future calls.
func (m *MockHTTPClient) SetResponse(resp *http.Response) {
	m.defaultResponse = resp
}

// SetJSONResponse sets a response with the given status and raw body.
func (m *MockHTTPClient) SetJSONResponse(status int, body string) {
	m.defaultResponse = &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// SetError sets the error for all future calls.
func (m *MockHTTPClient) SetError(err error) {
	m.defaultError = err
}

// Get simulates a GET request for testing.
// Implements HTTPClientInterface.
func (m *MockHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	m.record(http.MethodGet, url, headers)
	return m.defaultResponse, m.defaultError
}

// Post simulates a POST request for testing.
// Implements HTTPClientInterface.
func (m *MockHTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	m.record(http.MethodPost, url, headers)
	if body != nil {
		m.LastRequestBody, _ = io.ReadAll(body)
	}
	return m.defaultResponse, m.defaultError
}

// Close closes the mock client for testing.
// Implements HTTPClientInterface.
func (m *MockHTTPClient) Close() error {
	return nil
}

func (m *MockHTTPClient) record(method, url string, headers map[string]string) {
	m.RequestCount++
	m.LastMethod = method
	m.LastRequestURL = url
	m.LastHeaders = headers
	m.LastRequestBody = nil
}

// Ensure HTTPClient implements the interface
var _ HTTPClientInterface = &HTTPClient{}

// Ensure MockHTTPClient implements the interface
var _ HTTPClientInterface = &MockHTTPClient{}
