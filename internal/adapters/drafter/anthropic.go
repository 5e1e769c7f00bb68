// Package drafter generates warning message drafts through an
// Anthropic-style messages endpoint.
package drafter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mentorled/fellowtrack/internal/domain/warning"
	"github.com/mentorled/fellowtrack/pkg/logger"
	"github.com/mentorled/fellowtrack/pkg/metrics"
)

const (
	apiVersion       = "2023-06-01"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultTimeout   = 45 * time.Second
	maxTokens        = 1500
	minMessageLength = 200
)

// Client calls the messages endpoint and validates the returned draft.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithModel overrides the generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds a single generation request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a drafter client against baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   defaultModel,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logger.Named("drafter"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type draftPayload struct {
	Message      string   `json:"message"`
	Tone         string   `json:"tone"`
	KeyPoints    []string `json:"key_points"`
	Requirements []string `json:"requirements"`
	Timeline     string   `json:"timeline"`
}

// Draft requests a warning draft and validates it before returning.
func (c *Client) Draft(ctx context.Context, req warning.DraftRequest) (warning.Draft, error) {
	start := time.Now()
	metrics.RecordDrafterRequest()

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt(req.Level),
		Messages:  []message{{Role: "user", Content: userPrompt(req)}},
	})
	if err != nil {
		return warning.Draft{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return warning.Draft{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.RecordDrafterError()
		return warning.Draft{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.RecordDrafterError()
		return warning.Draft{}, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordDrafterError()
		c.log.Warn(ctx, "generation request rejected",
			logger.Int("status", resp.StatusCode),
			logger.String("model", c.model))
		return warning.Draft{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var mr messagesResponse
	if err := json.Unmarshal(raw, &mr); err != nil {
		metrics.RecordDrafterError()
		return warning.Draft{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var text string
	for _, block := range mr.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	draft, err := parseDraft(text)
	if err != nil {
		metrics.RecordDrafterError()
		return warning.Draft{}, err
	}

	metrics.ObserveDrafterLatency(time.Since(start).Seconds())
	c.log.Debug(ctx, "draft generated",
		logger.String("level", string(req.Level)),
		logger.Int("message_len", len(draft.Message)))
	return draft, nil
}

// parseDraft extracts the JSON object from the model output. Models
// sometimes wrap JSON in code fences or surrounding prose, so it cuts
// to the outermost braces before unmarshaling.
func parseDraft(text string) (warning.Draft, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return warning.Draft{}, fmt.Errorf("%w: no JSON object in output", ErrInvalidResponse)
	}

	var p draftPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &p); err != nil {
		return warning.Draft{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(strings.TrimSpace(p.Message)) < minMessageLength {
		return warning.Draft{}, fmt.Errorf("%w: message shorter than %d characters", ErrInvalidResponse, minMessageLength)
	}
	if len(p.Requirements) == 0 {
		return warning.Draft{}, fmt.Errorf("%w: no requirements", ErrInvalidResponse)
	}
	if p.Timeline == "" {
		return warning.Draft{}, fmt.Errorf("%w: no timeline", ErrInvalidResponse)
	}

	return warning.Draft{
		Message:      strings.TrimSpace(p.Message),
		Tone:         p.Tone,
		KeyPoints:    p.KeyPoints,
		Requirements: p.Requirements,
		Timeline:     p.Timeline,
	}, nil
}
