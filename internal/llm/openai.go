package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openai "github.com/sashabaranov/go-openai"
)

var (
	generationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_generation_duration_seconds",
			Help:    "Text generation latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"role"},
	)

	generationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_generation_errors_total",
			Help: "Total number of failed text generations",
		},
		[]string{"role"},
	)
)

// OpenAIClient implements Generator against any OpenAI-compatible chat endpoint
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates a client from config. An empty API key yields ErrGeneratorDisabled.
func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, models.ErrGeneratorDisabled
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Generate sends a single chat completion request
func (c *OpenAIClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	role := prompt.Role
	if role == "" {
		role = "default"
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.User,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if prompt.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	generationLatency.WithLabelValues(role).Observe(time.Since(start).Seconds())
	if err != nil {
		generationErrors.WithLabelValues(role).Inc()
		return "", fmt.Errorf("chat completion (%s): %w", role, err)
	}
	if len(resp.Choices) == 0 {
		generationErrors.WithLabelValues(role).Inc()
		return "", ErrEmptyResponse
	}

	logger.Debug("Generated text",
		logger.String("role", role),
		logger.String("model", c.model),
		logger.Int("prompt_tokens", resp.Usage.PromptTokens),
		logger.Int("completion_tokens", resp.Usage.CompletionTokens),
		logger.Duration("latency", time.Since(start)),
	)

	return resp.Choices[0].Message.Content, nil
}
