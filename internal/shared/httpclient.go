package shared

import (
	"io"
	"net/http"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
)

// retryableStatus lists the HTTP statuses worth retrying within a request:
// rate limiting and the transient server-error class. Anything else surfaces
// immediately and is retried, if at all, on the next scheduled sync cycle.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// RetryTransport is an [http.RoundTripper] that retries failed requests a
// bounded number of times with exponential backoff.
type RetryTransport struct {
	Base       http.RoundTripper
	MaxRetries int
	Backoff    time.Duration

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// NewHTTPClient returns an HTTP client with a fixed per-request timeout and
// bounded retries on retryable statuses.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &RetryTransport{
			Base:       http.DefaultTransport,
			MaxRetries: defaultMaxRetries,
			Backoff:    defaultBackoff,
		},
	}
}

// RoundTrip implements [http.RoundTripper].
//
// Requests with a non-replayable body are never retried.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	sleep := t.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var resp *http.Response
	var err error

	for attempt := 0; attempt <= t.MaxRetries; attempt++ {
		if attempt > 0 {
			sleep(t.Backoff << (attempt - 1))
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return resp, bodyErr
				}
				req.Body = body
			}
		}

		resp, err = base.RoundTrip(req)
		if err != nil {
			if req.Body != nil && req.GetBody == nil {
				return nil, err
			}
			continue
		}

		if !retryableStatus[resp.StatusCode] || attempt == t.MaxRetries {
			return resp, nil
		}

		if req.Body != nil && req.GetBody == nil {
			return resp, nil
		}

		// Drain so the connection can be reused before the retry.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	return resp, err
}
