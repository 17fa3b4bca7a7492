// Package httpx wraps an http.Client with the bounded-retry policy shared by
// every remote call the bot makes: a failed attempt is retried up to
// maxRetries times with a fixed delay in between, and the last error is
// surfaced once the budget is spent.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	maxRetries = 3
	retryDelay = 2 * time.Second
)

// StatusError reports a non-2xx response that survived the retry budget.
// Body carries the response payload for callers whose upstream returns
// structured errors.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpx: unexpected status %s", e.Status)
}

// Client retries transient failures around single HTTP exchanges.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger

	// Header is merged into every outgoing request, e.g. API keys.
	Header http.Header

	retries int
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient builds a retrying client around httpClient. A nil httpClient
// gets a 30s-timeout default.
func NewClient(httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		retries:    maxRetries,
		delay:      retryDelay,
		sleep:      sleepContext,
	}
}

// GetJSON issues a GET and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpx: decode response: %w", err)
	}
	return nil
}

// PostJSON issues a POST with payload marshalled as JSON and decodes the
// response body into out (which may be nil).
func (c *Client) PostJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("httpx: encode request: %w", err)
	}
	respBody, err := c.Do(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("httpx: decode response: %w", err)
	}
	return nil
}

// Do performs one logical HTTP exchange under the retry policy and returns
// the response body. A transport error or non-2xx status counts as a failed
// attempt; success short-circuits.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		respBody, err := c.once(ctx, method, url, body)
		if err == nil {
			return respBody, nil
		}
		lastErr = err

		if attempt >= c.retries {
			c.logger.Warn().Err(err).Int("attempts", attempt+1).Str("url", url).
				Msg("httpx: giving up after retries")
			return nil, lastErr
		}

		c.logger.Warn().Err(err).Int("attempt", attempt+1).Str("url", url).
			Msg("httpx: request failed, retrying")
		if err := c.sleep(ctx, c.delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) once(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("httpx: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpx: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpx: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: respBody}
	}
	return respBody, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
