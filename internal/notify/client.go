package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"mime"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"efd_mod_counter/internal/retry"
)

// DefaultMaxDelay caps the push backoff growth.
const DefaultMaxDelay = 30 * time.Second

// PushError classifies a failed push so the sender can tell transient
// trouble from configuration problems.
type PushError struct {
	Type       string
	StatusCode int
	Attempt    int
	Underlying error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push failed [%s] attempt %d: %v", e.Type, e.Attempt, e.Underlying)
}

func (e *PushError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "timeout", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

// Client publishes messages to an ntfy topic. Transient failures are retried
// with exponential backoff; auth and client errors give up immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	priority   string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewClient(baseURL, topic, priority string, budget retry.Config, maxDelay time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: budget.Timeout},
		baseURL:    baseURL,
		topic:      topic,
		priority:   priority,
		maxRetries: budget.MaxRetries,
		baseDelay:  budget.Delay,
		maxDelay:   maxDelay,
	}
}

func (c *Client) Send(ctx context.Context, title, message string) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying push after delay")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.post(ctx, title, message, attempt+1)
		if err == nil {
			return nil
		}
		lastErr = err

		var pushErr *PushError
		if errors.As(err, &pushErr) && !pushErr.IsRetryable() {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Msg("Non-retryable push error, giving up")
			return err
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("Push attempt failed")
	}

	return &PushError{
		Type:       "max_retries_exceeded",
		Attempt:    c.maxRetries + 1,
		Underlying: lastErr,
	}
}

func (c *Client) post(ctx context.Context, title, message string, attempt int) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &PushError{Type: "client", Attempt: attempt, Underlying: err}
	}

	req.Header.Set("Content-Type", "text/plain")
	// ntfy decodes RFC 2047 encoded words, which keeps non-ASCII titles
	// intact across the header.
	req.Header.Set("Title", mime.BEncoding.Encode("utf-8", title))
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &PushError{Type: "network", Attempt: attempt, Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &PushError{
			Type:       categorizeStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Attempt:    attempt,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Int("attempt", attempt).
		Msg("Push notification accepted")
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	base := float64(c.baseDelay)
	backoff := base * math.Pow(2, float64(attempt-1))

	// ±25% jitter
	jitter := rand.Float64()*0.5 - 0.25
	backoff *= 1 + jitter

	if limit := float64(c.maxDelay); backoff > limit {
		backoff = limit
	}
	return time.Duration(backoff)
}

func categorizeStatus(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}
