package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Completion failure classes. All four are recoverable per query: the
// caller surfaces them as the assistant's reply, never a crash.
var (
	ErrServiceUnavailable = errors.New("completion service unavailable")
	ErrAuth               = errors.New("completion auth failed")
	ErrModelUnavailable   = errors.New("completion model unavailable")
	ErrMalformedResponse  = errors.New("malformed completion response")
)

// Client calls a generativelanguage-style REST API: one list-models call
// at startup for discovery, one generateContent call per chat turn.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Config configures the completion client. APIKeyEnv names the
// environment variable holding the credential.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a completion client. The API key is required: the
// process cannot serve queries without one.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  key,
		model:   NormalizeModelName(cfg.Model),
		client:  &http.Client{Timeout: t},
	}, nil
}

// Model returns the canonical model identifier currently in use.
func (c *Client) Model() string { return c.model }

// NormalizeModelName strips the "models/" resource prefix so internal
// code always holds the canonical identifier. Applied once where an
// identifier enters the system (configuration or discovery).
func NormalizeModelName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "models/")
}

// DiscoverModel asks the service for its model list and switches the
// client to the first entry that supports free-text generation. When
// discovery fails or finds nothing capable, the configured model is kept
// and the error returned so callers may log and proceed.
func (c *Client) DiscoverModel(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return c.model, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return c.model, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	if err := statusError(resp.StatusCode); err != nil {
		return c.model, err
	}
	var out struct {
		Models []struct {
			Name                       string   `json:"name"`
			SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return c.model, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, m := range out.Models {
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				c.model = NormalizeModelName(m.Name)
				return c.model, nil
			}
		}
	}
	return c.model, fmt.Errorf("%w: no model supports generateContent", ErrModelUnavailable)
}

// Complete sends the prompt and extracts the generated text. Transport
// and 5xx failures get a single retry before giving up.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
			continue
		}
		payload, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("%w: %s", ErrServiceUnavailable, resp.Status)
			continue
		}
		if err := statusError(resp.StatusCode); err != nil {
			return "", err
		}
		if readErr != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, readErr)
		}
		return extractText(payload)
	}
	return "", lastErr
}

func statusError(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuth, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrModelUnavailable, code)
	case code >= 300:
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, code)
	}
	return nil
}

func extractText(payload []byte) (string, error) {
	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty candidate text", ErrMalformedResponse)
	}
	return b.String(), nil
}
