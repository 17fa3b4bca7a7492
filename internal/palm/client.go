// Package palm calls the Google PaLM text-generation endpoint. The service
// answers 2xx with either candidates or content filters, and non-2xx with a
// structured error body.
package palm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"hordebot/internal/httpx"
)

// DefaultBaseURL points at the public Generative Language API.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta2"

const (
	model           = "text-bison-001"
	maxOutputTokens = 256
)

// Filter is one content-filter verdict attached to a blocked response.
type Filter struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Result is a finished generation: either Text, or the Filters that
// blocked it.
type Result struct {
	Text    string
	Filters []Filter
}

// APIError is the structured error the service returns with a non-2xx
// status.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("palm: error %d: %s", e.Code, e.Message)
}

// Client wraps the generateText call behind the retrying transport.
type Client struct {
	transport *httpx.Client
	baseURL   string
	apiKey    string
}

// NewClient wires a PaLM client against baseURL, authenticated by apiKey.
func NewClient(transport *httpx.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{transport: transport, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type generateRequest struct {
	Prompt          textPrompt `json:"prompt"`
	MaxOutputTokens int        `json:"maxOutputTokens"`
}

type textPrompt struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Output string `json:"output"`
	} `json:"candidates"`
	Filters []Filter `json:"filters"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText asks the model to continue prompt. A filtered response is
// not an error; a rejected request surfaces as *APIError.
func (c *Client) GenerateText(ctx context.Context, prompt string) (Result, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateText?key=%s",
		c.baseURL, model, url.QueryEscape(c.apiKey))
	payload := generateRequest{Prompt: textPrompt{Text: prompt}, MaxOutputTokens: maxOutputTokens}

	var resp generateResponse
	if err := c.transport.PostJSON(ctx, endpoint, payload, &resp); err != nil {
		if apiErr, ok := decodeAPIError(err); ok {
			return Result{}, apiErr
		}
		return Result{}, fmt.Errorf("palm: %w", err)
	}

	if len(resp.Filters) > 0 {
		return Result{Filters: resp.Filters}, nil
	}
	if len(resp.Candidates) == 0 {
		return Result{}, fmt.Errorf("palm: response carries no candidates")
	}
	return Result{Text: resp.Candidates[0].Output}, nil
}

// decodeAPIError extracts the service's structured error from a transport
// status failure, when the body carries one.
func decodeAPIError(err error) (*APIError, bool) {
	var statusErr *httpx.StatusError
	if !errors.As(err, &statusErr) {
		return nil, false
	}
	var body errorResponse
	if json.Unmarshal(statusErr.Body, &body) != nil || body.Error.Message == "" {
		return nil, false
	}
	return &APIError{Code: body.Error.Code, Message: body.Error.Message}, true
}
