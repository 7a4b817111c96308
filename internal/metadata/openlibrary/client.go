// Package openlibrary provides a client for the Open Library book metadata API.
package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Open Library API root.
	DefaultBaseURL = "https://openlibrary.org"
	// DefaultCoverBaseURL serves cover images by cover ID or ISBN.
	DefaultCoverBaseURL = "https://covers.openlibrary.org/b"
)

// Client provides access to the Open Library search and works APIs.
type Client struct {
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	logger       *slog.Logger
	baseURL      string
	coverBaseURL string
}

// NewClient creates a new Open Library client.
// Empty base URLs fall back to the public openlibrary.org endpoints.
// Rate limited to keep well under Open Library's courtesy limits.
func NewClient(baseURL, coverBaseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if coverBaseURL == "" {
		coverBaseURL = DefaultCoverBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// 1 request per second sustained, burst of 5
		rateLimiter:  rate.NewLimiter(rate.Every(time.Second), 5),
		logger:       logger,
		baseURL:      baseURL,
		coverBaseURL: coverBaseURL,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
