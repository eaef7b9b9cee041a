package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cardsage-ai/cardsage/internal/domain"
	"github.com/cardsage-ai/cardsage/internal/metrics"
)

var errEmptyChoices = errors.New("no choices in completion response")

// Generator produces model completions via the OpenAI-compatible chat API.
type Generator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// GeneratorConfig holds the language model provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible completion provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      cfg.Logger,
	}
}

// Generate sends the assembled prompt and returns the model's answer text.
// The prompt already carries the full instruction preamble, so it goes out
// as a single user message.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	metrics.ModelRequestDuration.WithLabelValues(g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", parseAPIError("completion", err, domain.ErrModelProvider)
	}

	if len(resp.Choices) == 0 {
		metrics.ModelRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return "", parseAPIError("completion", errEmptyChoices, domain.ErrModelProvider)
	}

	metrics.ModelRequestsTotal.WithLabelValues(g.model, "success").Inc()
	if resp.Usage.TotalTokens > 0 {
		metrics.ModelTokensTotal.WithLabelValues(g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ModelTokensTotal.WithLabelValues(g.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
