package ai

import (
	"context"
	"errors"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/httpclient"
	"github.com/rs/zerolog"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIConfig configures an OpenAI-compatible chat completions backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  zerolog.Logger
}

// OpenAICompleter calls /chat/completions on an OpenAI-compatible API.
type OpenAICompleter struct {
	client *httpclient.Client
	model  string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// NewOpenAI creates the backend. Returns ErrMissingAPIKey if the key is empty.
func NewOpenAI(cfg OpenAIConfig) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAICompleter{
		client: httpclient.New(httpclient.Config{
			BaseURL: baseURL,
			Logger:  cfg.Logger,
			Headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		}),
		model: model,
	}, nil
}

// Complete sends prompt as a single user message.
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatCompletionRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	var resp chatCompletionResponse
	if err := o.client.PostJSON(ctx, "/chat/completions", req, nil, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("completion returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}
