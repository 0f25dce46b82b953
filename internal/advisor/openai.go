package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-2.0-flash"

	temperature = 0.7
	topP        = 0.8
	maxTokens   = 2048
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIAdvisor ходит в OpenAI-совместимый chat completions endpoint
type OpenAIAdvisor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// New возвращает рабочего советника или Disabled, если ключ не задан
func New(cfg Config, logger *zap.Logger) Advisor {
	if cfg.APIKey == "" {
		logger.Warn("Advisor API key is not set, schedules will use fallback allocation")
		return Disabled{}
	}
	return NewOpenAIAdvisor(cfg, logger)
}

func NewOpenAIAdvisor(cfg Config, logger *zap.Logger) *OpenAIAdvisor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIAdvisor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}
}

// Advise отправляет один запрос без повторов; время ограничивает ctx вызывающего
func (a *OpenAIAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", a.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	a.logger.Debug("Advisor responded",
		zap.String("model", a.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))

	return content, nil
}

func (a *OpenAIAdvisor) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: status %d: %v", ErrUnavailable, reqErr.HTTPStatusCode, reqErr.Err)
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
