// Package ai reaches the generative model that writes the games. The rest of
// the service only sees Completer: one prompt in, free text out.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/config"
	"github.com/rs/zerolog"
)

var (
	// ErrUpstream wraps every failure of the model call, including timeouts.
	ErrUpstream = errors.New("ai upstream error")
	// ErrMissingAPIKey is returned at construction when no credential is set.
	ErrMissingAPIKey = errors.New("ai api key is required")
)

// Completer sends a prompt to a model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// New builds the configured provider wrapped with the timeout and
// concurrency limits. It fails when the credential is missing so a
// misconfigured server never starts.
func New(ctx context.Context, cfg config.AIConfig, logger zerolog.Logger) (*Limited, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var (
		next Completer
		err  error
	)
	switch cfg.Provider {
	case config.ProviderGemini, "":
		next, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderOpenAI:
		next, err = NewOpenAI(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Logger:  logger,
		})
	default:
		err = fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Dur("timeout", cfg.Timeout).
		Int("max_concurrent", cfg.MaxConcurrent).
		Msg("AI completer configured")

	return NewLimited(next, LimitConfig{
		Timeout:       cfg.Timeout,
		MaxConcurrent: cfg.MaxConcurrent,
		Logger:        logger,
	}), nil
}
