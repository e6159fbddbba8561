// Package openai wraps the OpenAI-compatible chat completion API used for
// keyword analysis, SERP insights and content generation.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/metrics"
)

// Client is a chat completion provider using the OpenAI-compatible API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// Config holds the LLM provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// NewClient creates an OpenAI-compatible chat completion client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Complete sends a system+user prompt pair and returns the raw completion text.
// task labels the request for metrics ("keyword_analysis", "serp_insights", ...).
func (c *Client) Complete(ctx context.Context, task, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, task, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, task, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrLLMError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, task, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.model, task).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// CompleteVision sends a prompt together with image URLs and returns the
// raw completion text.
func (c *Client) CompleteVision(ctx context.Context, task, system, user string, imageURLs []string) (string, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: user},
	}
	for _, u := range imageURLs {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: u, Detail: openai.ImageURLDetailAuto},
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, task, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, task, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrLLMError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, task, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.model, task).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// CompleteJSONVision runs CompleteVision and unmarshals the reply into out.
func (c *Client) CompleteJSONVision(ctx context.Context, task, system, user string, imageURLs []string, out any) error {
	raw, err := c.CompleteVision(ctx, task, system, user, imageURLs)
	if err != nil {
		return err
	}

	cleaned := StripJSONFence(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		c.logger.Warn("Failed to parse LLM JSON reply",
			zap.String("task", task),
			zap.Error(err))
		return fmt.Errorf("parse completion JSON: %w", domain.ErrLLMError)
	}
	return nil
}

// CompleteJSON runs Complete and unmarshals the reply into out.
// Models often wrap JSON in a markdown fence; the fence is stripped first.
func (c *Client) CompleteJSON(ctx context.Context, task, system, user string, out any) error {
	raw, err := c.Complete(ctx, task, system, user)
	if err != nil {
		return err
	}

	cleaned := StripJSONFence(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		c.logger.Warn("Failed to parse LLM JSON reply",
			zap.String("task", task),
			zap.Error(err))
		return fmt.Errorf("parse completion JSON: %w", domain.ErrLLMError)
	}
	return nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// StripJSONFence removes a surrounding ```json ... ``` markdown fence if present.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrLLMError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrLLMError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
