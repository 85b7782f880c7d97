// Package client is the Go SDK for the JurisCompare HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

const Version = "0.1.0"

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client is the JurisCompare SDK client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	comparisons     *ComparisonsClient
	comparisonsOnce sync.Once
	caseLaw         *CaseLawClient
	caseLawOnce     sync.Once
	admin           *AdminClient
	adminOnce       sync.Once
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("juris: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error,omitempty"`
}

// NewClient creates a client for the API served at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "client: baseURL is required")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "client: invalid baseURL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "client: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("juris-go-sdk/%s", Version),
		logger:       &noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Comparisons returns the comparison and choice-of-law sub-client.
func (c *Client) Comparisons() *ComparisonsClient {
	c.comparisonsOnce.Do(func() {
		c.comparisons = &ComparisonsClient{client: c}
	})
	return c.comparisons
}

// CaseLaw returns the case law sub-client.
func (c *Client) CaseLaw() *CaseLawClient {
	c.caseLawOnce.Do(func() {
		c.caseLaw = &CaseLawClient{client: c}
	})
	return c.caseLaw
}

// Admin returns the snapshot administration sub-client.
func (c *Client) Admin() *AdminClient {
	c.adminOnce.Do(func() {
		c.admin = &AdminClient{client: c}
	})
	return c.admin
}

// do sends the request, retries transient failures and unwraps the response
// envelope into result.  A non-nil raw receives the undecoded body instead.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}, raw *string) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var bodyBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request body")
		}
		bodyBytes = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.New().String()
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Errorf("Request failed: %v", err)
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, duration)

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && attempt < c.retryMax {
				c.logger.Infof("Rate limited, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := parseAPIError(resp.StatusCode, requestID, respBody)
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if raw != nil {
			*raw = string(respBody)
			return nil
		}
		if result == nil || len(respBody) == 0 {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal response")
		}
		if len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, result); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal response data")
		}
		return nil
	}

	return lastErr
}

func parseAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		return apiErr
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Detail = env.Error.Detail
	} else {
		apiErr.Message = string(body)
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result, nil)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result, nil)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if backoff < 4 {
		return backoff
	}
	// 0-25% jitter
	jitter := time.Duration(rand.Int63n(int64(backoff / 4)))
	return backoff + jitter
}

//Personal.AI order the ending
