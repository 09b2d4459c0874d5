package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.AIConfig{Provider: config.ProviderGemini}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewOpenAI(OpenAIConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.AIConfig{Provider: "llama", APIKey: "k"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llama")
}

func TestLimitedPassesThrough(t *testing.T) {
	l := NewLimited(CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		return "reply to " + prompt, nil
	}), LimitConfig{Timeout: time.Second, MaxConcurrent: 1, Logger: zerolog.Nop()})

	text, err := l.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "reply to hi", text)
	assert.NoError(t, l.Close())
}

func TestLimitedWrapsErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	l := NewLimited(CompleterFunc(func(context.Context, string) (string, error) {
		return "", boom
	}), LimitConfig{Logger: zerolog.Nop()})

	_, err := l.Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, boom)
}

func TestLimitedTimeout(t *testing.T) {
	l := NewLimited(CompleterFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), LimitConfig{Timeout: 20 * time.Millisecond, Logger: zerolog.Nop()})

	start := time.Now()
	_, err := l.Complete(context.Background(), "slow")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLimitedCapsConcurrency(t *testing.T) {
	var inFlight, peak int32
	release := make(chan struct{})

	l := NewLimited(CompleterFunc(func(context.Context, string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&inFlight, -1)
		return "ok", nil
	}), LimitConfig{MaxConcurrent: 2, Logger: zerolog.Nop()})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Complete(context.Background(), "x")
			assert.NoError(t, err)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestLimitedSlotWaitRespectsCaller(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	l := NewLimited(CompleterFunc(func(context.Context, string) (string, error) {
		<-block
		return "", nil
	}), LimitConfig{MaxConcurrent: 1, Logger: zerolog.Nop()})

	go func() { _, _ = l.Complete(context.Background(), "holder") }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Complete(ctx, "waiter")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestOpenAICompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "make pong", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"<html></html>"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(OpenAIConfig{APIKey: "secret", BaseURL: srv.URL, Model: "test-model", Logger: zerolog.Nop()})
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), "make pong")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", text)
}

func TestOpenAICompleterEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("<html>"), genai.Text("</html>")}},
		}},
	}
	assert.Equal(t, "<html></html>", responseText(resp))
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
}
