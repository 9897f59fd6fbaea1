package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Generator produces model text for a prompt. A non-nil schema requests a
// JSON response conforming to it.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// GeminiConfig holds the settings for GeminiClient.
type GeminiConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// GeminiClient calls the Generative Language API generateContent endpoint.
type GeminiClient struct {
	cfg  GeminiConfig
	http *http.Client
}

// NewGeminiClient creates a client. A zero Timeout leaves requests bounded
// only by their context.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GeminiClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// Generate sends one generateContent request and returns the first
// candidate's text.
//
// Parameters:
//   - ctx: Context for cancellation
//   - prompt: User prompt
//   - schema: Response schema, or nil for free text
//
// Returns:
//   - string: Generated text, trimmed
//   - error: Transport, HTTP status, or envelope errors
func (c *GeminiClient) Generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("no API key configured")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature: c.cfg.Temperature,
		},
	}
	if schema != nil {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
		reqBody.GenerationConfig.ResponseSchema = schema
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", redactKey(err, c.cfg.APIKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("model API returned %d: %s", resp.StatusCode, msg)
	}

	if reason := gjson.GetBytes(body, "promptFeedback.blockReason"); reason.Exists() {
		return "", fmt.Errorf("prompt blocked: %s", reason.String())
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		finish := gjson.GetBytes(body, "candidates.0.finishReason").String()
		return "", fmt.Errorf("response has no candidate text (finishReason=%q)", finish)
	}

	return strings.TrimSpace(text.String()), nil
}

// redactKey strips the API key from transport errors, which include the URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED")
	return errors.New(strings.ReplaceAll(msg, key, "REDACTED"))
}
