package spotify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultMaxRetries  = 5
	defaultBaseBackoff = 500 * time.Millisecond
	// maxBackoff bounds a single backoff sleep.
	maxBackoff = 60 * time.Second
	// defaultRateLimitWait applies when a 429 arrives without Retry-After.
	defaultRateLimitWait = time.Second
)

// doRequestWithRetry executes req through the gateway policy: a rate-limit
// reply sleeps for the server-supplied duration and retries; 5xx and
// transport errors follow capped exponential backoff; anything else returns
// to the caller untouched. The calling flow blocks for every sleep.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	maxRetries := c.maxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	baseBackoff := c.baseBackoff
	if baseBackoff <= 0 {
		baseBackoff = defaultBaseBackoff
	}

	if req.Body != nil && req.GetBody == nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: read request body: %w", err)
		}
		_ = req.Body.Close()
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bodyBytes)), nil
		}
	}

	ctx := req.Context()
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("spotify adapter: request canceled: %w", err)
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("spotify adapter: reset request body: %w", err)
			}
			req.Body = body
		}

		resp, err := c.httpClient.Do(req)
		wait, retry := c.retryDelay(resp, err, attempt, baseBackoff)
		if !retry {
			return resp, err
		}

		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt+1).Int("max", maxRetries).Msg("retrying after transport error")
		} else if resp != nil {
			c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Int("max", maxRetries).Dur("wait", wait).Msg("retrying request")
			_ = resp.Body.Close()
		}

		if attempt == maxRetries-1 {
			if err != nil {
				return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: %w", maxRetries, err)
			}
			if resp != nil {
				return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: status %d", maxRetries, resp.StatusCode)
			}
			return nil, fmt.Errorf("spotify adapter: request failed after %d attempts", maxRetries)
		}

		if err := sleepWithContext(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("spotify adapter: request failed after %d attempts", maxRetries)
}

// retryDelay classifies the outcome of one attempt. Rate-limit replies use
// the server-directed wait (with a fixed fallback); transient failures use
// exponential backoff capped at maxBackoff.
func (c *Client) retryDelay(resp *http.Response, err error, attempt int, base time.Duration) (time.Duration, bool) {
	backoff := base * time.Duration(1<<attempt)
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	if err != nil {
		return backoff, true
	}
	if resp == nil {
		return 0, false
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := parseRetryAfter(resp)
		if wait <= 0 {
			wait = defaultRateLimitWait
		}
		return wait, true
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return backoff, true
	}

	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
