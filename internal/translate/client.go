package translate

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"hordebot/internal/httpx"
)

// Translation is a translated text plus the language the service detected
// (or was told) the source to be.
type Translation struct {
	Text           string
	SourceLanguage string
}

// Client calls the translation endpoint through the retrying transport.
type Client struct {
	transport *httpx.Client
	baseURL   string
}

// NewClient wires a translation client against baseURL.
func NewClient(transport *httpx.Client, baseURL string) *Client {
	return &Client{transport: transport, baseURL: strings.TrimRight(baseURL, "/")}
}

// Translate renders text from source (empty means auto-detect) into target.
func (c *Client) Translate(ctx context.Context, text, source, target string) (Translation, error) {
	if source == "" {
		source = "auto"
	}
	query := url.Values{
		"client": {"gtx"},
		"sl":     {source},
		"tl":     {target},
		"dt":     {"t"},
		"q":      {text},
	}

	// The endpoint answers with nested arrays:
	// [[["translated","original",...],...],null,"detected",...]
	var payload []any
	endpoint := c.baseURL + "/translate_a/single?" + query.Encode()
	if err := c.transport.GetJSON(ctx, endpoint, &payload); err != nil {
		return Translation{}, fmt.Errorf("translate: %w", err)
	}

	translation, err := parseResponse(payload)
	if err != nil {
		return Translation{}, err
	}
	if translation.SourceLanguage == "" {
		translation.SourceLanguage = source
	}
	return translation, nil
}

func parseResponse(payload []any) (Translation, error) {
	if len(payload) == 0 {
		return Translation{}, fmt.Errorf("translate: empty response")
	}
	segments, ok := payload[0].([]any)
	if !ok {
		return Translation{}, fmt.Errorf("translate: unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if text, ok := parts[0].(string); ok {
			b.WriteString(text)
		}
	}

	var detected string
	if len(payload) > 2 {
		detected, _ = payload[2].(string)
	}
	return Translation{Text: b.String(), SourceLanguage: detected}, nil
}
