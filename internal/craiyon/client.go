// Package craiyon calls the Craiyon generation backend, which answers
// synchronously with a batch of base64 images.
package craiyon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hordebot/internal/httpx"
)

// DefaultBaseURL points at the public Craiyon backend.
const DefaultBaseURL = "https://backend.craiyon.com"

// Result is one finished generation batch. Images stay base64-encoded;
// the aggregator decodes them.
type Result struct {
	Images   []string
	Duration time.Duration
}

// Client wraps the generation endpoint behind the retrying transport.
type Client struct {
	transport *httpx.Client
	baseURL   string
	now       func() time.Time
}

// NewClient wires a Craiyon client against baseURL.
func NewClient(transport *httpx.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{transport: transport, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Images []string `json:"images"`
}

// Generate submits a prompt and waits for the image batch. The backend
// wraps its base64 payloads across lines; the wrapping is stripped here.
func (c *Client) Generate(ctx context.Context, prompt string) (Result, error) {
	start := c.now()
	var resp generateResponse
	err := c.transport.PostJSON(ctx, c.baseURL+"/generate", generateRequest{Prompt: prompt}, &resp)
	if err != nil {
		return Result{}, fmt.Errorf("craiyon: %w", err)
	}

	images := make([]string, 0, len(resp.Images))
	for _, img := range resp.Images {
		images = append(images, strings.ReplaceAll(img, "\n", ""))
	}
	return Result{Images: images, Duration: c.now().Sub(start)}, nil
}
