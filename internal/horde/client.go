// Package horde drives image-generation jobs against the Stable Horde
// queue API: submitting a request, polling it to completion under the
// progress-update policy, and aggregating worker results into a single
// composite delivered back to the chat.
package horde

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hordebot/internal/httpx"
)

// DefaultBaseURL points at the public Stable Horde API.
const DefaultBaseURL = "https://stablehorde.net/api/v2"

// anonymousAPIKey is the documented key for unauthenticated requests.
const anonymousAPIKey = "0000000000"

const clientAgent = "hordebot:1:github.com/hordebot"

// Stage errors let callers tell which remote call failed.
var (
	ErrSubmission = errors.New("horde: submission failed")
	ErrPoll       = errors.New("horde: status check failed")
	ErrFetch      = errors.New("horde: fetching results failed")
)

// Status is one snapshot of a job's queue state, compared by value to
// detect change between polls.
type Status struct {
	Waiting       int  `json:"waiting"`
	Processing    int  `json:"processing"`
	Finished      int  `json:"finished"`
	QueuePosition int  `json:"queue_position"`
	WaitTime      int  `json:"wait_time"`
	Done          bool `json:"done"`
}

// Generation is one worker's contribution: its name and a base64 WebP
// payload. Field names follow the Stable Horde wire contract.
type Generation struct {
	Worker string `json:"worker_name"`
	Image  string `json:"img"`
}

type submitRequest struct {
	Prompt string       `json:"prompt"`
	Params submitParams `json:"params"`
	Models []string     `json:"models"`
}

type submitParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	N      int `json:"n"`
}

type submitResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type resultsResponse struct {
	Generations []Generation `json:"generations"`
}

// imagesPerJob asks the horde for four generations so the composite has a
// full 2x2 grid when every worker delivers.
const imagesPerJob = 4

// Client is the thin request/response mapping for the three Stable Horde
// calls, each going through the shared retrying transport.
type Client struct {
	transport *httpx.Client
	baseURL   string
}

// NewClient wires a Stable Horde client around a retrying transport. Empty
// baseURL and apiKey fall back to the public endpoint and the anonymous key.
func NewClient(transport *httpx.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		apiKey = anonymousAPIKey
	}
	transport.Header = http.Header{
		"apikey":       []string{apiKey},
		"Client-Agent": []string{clientAgent},
	}
	return &Client{transport: transport, baseURL: strings.TrimRight(baseURL, "/")}
}

// Submit enqueues a generation request and returns the remote job id.
func (c *Client) Submit(ctx context.Context, prompt, model string, size int) (string, error) {
	payload := submitRequest{
		Prompt: prompt,
		Params: submitParams{Width: size, Height: size, N: imagesPerJob},
		Models: []string{model},
	}
	var resp submitResponse
	if err := c.transport.PostJSON(ctx, c.baseURL+"/generate/async", payload, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: %s", ErrSubmission, resp.Message)
	}
	return resp.ID, nil
}

// Poll fetches the current queue status of a job.
func (c *Client) Poll(ctx context.Context, id string) (Status, error) {
	var status Status
	if err := c.transport.GetJSON(ctx, c.baseURL+"/generate/check/"+id, &status); err != nil {
		return Status{}, fmt.Errorf("%w: %w", ErrPoll, err)
	}
	return status, nil
}

// FetchResults retrieves the finished generations. It assumes a prior Poll
// observed Done.
func (c *Client) FetchResults(ctx context.Context, id string) ([]Generation, error) {
	var resp resultsResponse
	if err := c.transport.GetJSON(ctx, c.baseURL+"/generate/status/"+id, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return resp.Generations, nil
}
