// Package verify probes the provisioned application's health endpoint once
// after a successful run. The outcome is informational; it never changes the
// workflow status.
package verify

import (
	"context"
	"net/http"
	"time"
)

// Checker performs one-shot HTTP health checks
type Checker struct {
	client *http.Client
}

// NewChecker creates a Checker with a 5 second request timeout
func NewChecker() *Checker {
	return &Checker{
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// HealthResult is the outcome of a single probe; Check never returns an error
type HealthResult struct {
	URL        string
	Passed     bool
	StatusCode int
	Error      string
}

// Check issues a GET against url and reports whether it returned 2xx
func (c *Checker) Check(ctx context.Context, url string) HealthResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return HealthResult{URL: url, Error: err.Error()}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return HealthResult{URL: url, Error: err.Error()}
	}
	defer resp.Body.Close()

	return HealthResult{
		URL:        url,
		Passed:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
	}
}
