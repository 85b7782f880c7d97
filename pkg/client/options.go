package client

import (
	"net/http"
	"time"
)

// Option is a functional option for configuring the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithAPIKey sends key as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLogger sets a custom logger
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryMax sets the maximum number of retries
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		if retryMax >= 0 {
			c.retryMax = retryMax
		}
	}
}

// WithRetryWait sets the minimum and maximum retry wait durations.
// max is ignored unless it is >= min.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min > 0 {
			c.retryWaitMin = min
			if max >= min {
				c.retryWaitMax = max
			}
		}
	}
}

// WithUserAgent sets a custom User-Agent string
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

//Personal.AI order the ending
