package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-chainmap/pkg/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient builds the shared HTTP client every concrete provider uses:
// a custom User-Agent (chain-mapping services ask for one the same way ESI
// does), a bounded per-call timeout, and optional otelhttp instrumentation,
// grounded on evegateway.NewClient's construction pattern.
func NewHTTPClient(userAgent string) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if config.GetBoolEnv("ENABLE_TELEMETRY", false) {
		transport = otelhttp.NewTransport(transport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "provider." + r.Method + " " + r.URL.Host
			}),
		)
	}

	return &http.Client{
		Transport: &userAgentTransport{base: transport, userAgent: userAgent},
		Timeout:   30 * time.Second,
	}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// RetryClient wraps an *http.Client with quadratic backoff (attempt² seconds,
// capped at 30s) on 5xx/429/420 responses and network errors, grounded on
// evegateway's DefaultRetryClient
// — generalized here to a provider-agnostic policy, stripped of ESI's
// error-limit-header bookkeeping and authenticated-user context coupling
// (neither applies outside ESI).
type RetryClient struct {
	httpClient *http.Client
}

// NewRetryClient wraps client for retried requests.
func NewRetryClient(client *http.Client) *RetryClient {
	return &RetryClient{httpClient: client}
}

// DoWithRetry issues req, retrying up to maxRetries times on a retryable
// status code or network error, honoring ctx cancellation between attempts.
func (rc *RetryClient) DoWithRetry(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoffForAttempt(attempt)):
			}
		}

		attemptReq := req.Clone(ctx)
		resp, err := rc.httpClient.Do(attemptReq)
		if err != nil {
			lastErr = err
			continue
		}

		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastErr = fmt.Errorf("retryable status %d", resp.StatusCode)
		resp.Body.Close()
	}

	return nil, fmt.Errorf("exhausted %d retries: %w", maxRetries, lastErr)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, 420:
		return true
	default:
		return status >= 500
	}
}

func backoffForAttempt(attempt int) time.Duration {
	d := time.Duration(attempt*attempt) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}
