package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// LimitConfig bounds upstream calls.
type LimitConfig struct {
	// Timeout caps one call including the wait for a slot. Zero disables it.
	Timeout time.Duration
	// MaxConcurrent caps calls in flight. Zero means unlimited.
	MaxConcurrent int
	Logger        zerolog.Logger
}

// Limited wraps a Completer with a deadline and a concurrency cap, and
// maps every failure to ErrUpstream.
type Limited struct {
	next    Completer
	timeout time.Duration
	sem     *semaphore.Weighted
	logger  zerolog.Logger
}

// NewLimited wraps next.
func NewLimited(next Completer, cfg LimitConfig) *Limited {
	l := &Limited{
		next:    next,
		timeout: cfg.Timeout,
		logger:  cfg.Logger.With().Str("component", "ai").Logger(),
	}
	if cfg.MaxConcurrent > 0 {
		l.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	return l
}

// Complete calls the wrapped completer.
func (l *Limited) Complete(ctx context.Context, prompt string) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	if l.sem != nil {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return "", l.fail(ctx, err, "waiting for a free slot")
		}
		defer l.sem.Release(1)
	}

	start := time.Now()
	text, err := l.next.Complete(ctx, prompt)
	if err != nil {
		return "", l.fail(ctx, err, "completion failed")
	}

	l.logger.Debug().
		Int("prompt_chars", len(prompt)).
		Int("reply_chars", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Completion finished")
	return text, nil
}

func (l *Limited) fail(ctx context.Context, err error, msg string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		l.logger.Warn().Err(err).Dur("timeout", l.timeout).Msg("Completion timed out")
		return fmt.Errorf("%w: timed out after %s: %w", ErrUpstream, l.timeout, err)
	}
	l.logger.Error().Err(err).Msg("Completion failed")
	return fmt.Errorf("%w: %s: %w", ErrUpstream, msg, err)
}

// Close closes the wrapped completer if it holds resources.
func (l *Limited) Close() error {
	if c, ok := l.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
