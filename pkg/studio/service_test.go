package studio

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/ai"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/errors"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/events"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snakeDoc = "<!DOCTYPE html><html><body>snake</body></html>"

// fakeCompleter replies with queued answers and records the prompts.
type fakeCompleter struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
	return nil
}

func (r *recordingPublisher) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.Type)
	}
	return out
}

func newTestService(t *testing.T, completer ai.Completer) (*Service, *store.FileStore, *recordingPublisher) {
	t.Helper()
	games := store.NewFileStore(filepath.Join(t.TempDir(), "games.json"), zerolog.Nop())
	pub := &recordingPublisher{}
	return NewService(completer, games, zerolog.Nop(), pub), games, pub
}

func fenced(doc string) string {
	return "Here is your game:\n```html\n" + doc + "\n```\nEnjoy!"
}

func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestGenerate(t *testing.T) {
	fc := &fakeCompleter{replies: []string{fenced(snakeDoc)}}
	svc, games, _ := newTestService(t, fc)

	got, err := svc.Generate(context.Background(), "a snake game")
	require.NoError(t, err)
	assert.Equal(t, snakeDoc, got.Code)

	require.Len(t, fc.prompts, 1)
	assert.True(t, strings.HasPrefix(fc.prompts[0], "You are a game development expert."))
	assert.True(t, strings.HasSuffix(fc.prompts[0], `Game Description: "a snake game"`))

	list, err := games.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "generate does not persist")
}

func TestGenerateErrors(t *testing.T) {
	t.Run("blank prompt", func(t *testing.T) {
		fc := &fakeCompleter{}
		svc, _, _ := newTestService(t, fc)
		_, err := svc.Generate(context.Background(), "  ")
		requireCode(t, err, errors.ErrInvalidRequest)
		assert.Empty(t, fc.prompts)
	})

	t.Run("upstream failure", func(t *testing.T) {
		boom := stderrors.New("quota")
		svc, _, _ := newTestService(t, &fakeCompleter{err: boom})
		_, err := svc.Generate(context.Background(), "pong")
		requireCode(t, err, errors.ErrUpstream)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 500, errors.HTTPStatusFromCode(errors.GetCode(err)))
	})

	t.Run("nothing extracted", func(t *testing.T) {
		svc, _, _ := newTestService(t, &fakeCompleter{replies: []string{"```html\n   \n```"}})
		_, err := svc.Generate(context.Background(), "pong")
		requireCode(t, err, errors.ErrGenerationFailed)
		assert.Equal(t, MsgExtractionFailed, err.(*errors.AppError).Message)
	})
}

func TestGenerateAndSave(t *testing.T) {
	svc, games, pub := newTestService(t, &fakeCompleter{replies: []string{fenced(snakeDoc)}})
	ctx := context.Background()

	rec, err := svc.GenerateAndSave(ctx, "Snake", "a snake game")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, "Snake", rec.Name)
	assert.Equal(t, "Snake", rec.Title)
	assert.Equal(t, snakeDoc, rec.Code)

	stored, err := games.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Code, stored.Code)
	assert.Equal(t, []events.Type{events.GameCreated}, pub.types())

	_, err = svc.GenerateAndSave(ctx, "", "x")
	requireCode(t, err, errors.ErrInvalidRequest)
}

func TestGenerateAndSaveLeavesStoreUntouchedOnFailure(t *testing.T) {
	svc, games, pub := newTestService(t, &fakeCompleter{replies: []string{""}})
	ctx := context.Background()

	_, err := svc.GenerateAndSave(ctx, "Snake", "a snake game")
	requireCode(t, err, errors.ErrGenerationFailed)

	list, err := games.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, pub.types())
}

func TestSave(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeCompleter{})
	ctx := context.Background()

	_, err := svc.Save(ctx, "Snake", "")
	requireCode(t, err, errors.ErrInvalidRequest)
	assert.Equal(t, MsgNameCodeRequired, err.(*errors.AppError).Message)

	rec, err := svc.Save(ctx, "Snake", snakeDoc)
	require.NoError(t, err)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, snakeDoc, got.Code)
}

func TestIterateScenario(t *testing.T) {
	v2 := "<!DOCTYPE html><html><body>fast snake</body></html>"
	v3 := "<!DOCTYPE html><html><body>snake with score</body></html>"
	fc := &fakeCompleter{replies: []string{fenced(v2), "Sure!\n" + v3 + "\nDone."}}
	svc, _, pub := newTestService(t, fc)
	ctx := context.Background()

	rec, err := svc.Save(ctx, "Snake", snakeDoc)
	require.NoError(t, err)

	second, err := svc.Iterate(ctx, rec.ID, "make it faster")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, second.ID)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, "Snake V2", second.Name)
	assert.Equal(t, "Snake V2", second.Title)
	assert.Equal(t, v2, second.Code)

	require.Len(t, fc.prompts, 1)
	assert.Equal(t, IteratePrompt(snakeDoc, "make it faster"), fc.prompts[0])

	third, err := svc.Iterate(ctx, rec.ID, "add score")
	require.NoError(t, err)
	assert.Equal(t, 3, third.Version)
	assert.Equal(t, "Snake V3", third.Name)
	assert.Equal(t, v3, third.Code)
	assert.Equal(t, IteratePrompt(v2, "add score"), fc.prompts[1])

	stored, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, third, stored)

	assert.Equal(t, []events.Type{events.GameCreated, events.GameIterated, events.GameIterated}, pub.types())
}

func TestIterateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newTestService(t, &fakeCompleter{})
		_, err := svc.Iterate(ctx, "", "faster")
		requireCode(t, err, errors.ErrInvalidRequest)
		_, err = svc.Iterate(ctx, "id", "")
		requireCode(t, err, errors.ErrInvalidRequest)
	})

	t.Run("unknown id", func(t *testing.T) {
		fc := &fakeCompleter{}
		svc, _, _ := newTestService(t, fc)
		_, err := svc.Iterate(ctx, "nope", "faster")
		requireCode(t, err, errors.ErrNotFound)
		assert.Equal(t, MsgNotFound, err.(*errors.AppError).Message)
		assert.Empty(t, fc.prompts)
	})

	t.Run("empty extraction keeps record", func(t *testing.T) {
		svc, games, _ := newTestService(t, &fakeCompleter{replies: []string{"   "}})
		rec, err := svc.Save(ctx, "Snake", snakeDoc)
		require.NoError(t, err)

		_, err = svc.Iterate(ctx, rec.ID, "faster")
		requireCode(t, err, errors.ErrGenerationFailed)

		stored, err := games.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Version)
		assert.Equal(t, snakeDoc, stored.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		svc, _, _ := newTestService(t, &fakeCompleter{err: ai.ErrUpstream})
		rec, err := svc.Save(ctx, "Snake", snakeDoc)
		require.NoError(t, err)

		_, err = svc.Iterate(ctx, rec.ID, "faster")
		requireCode(t, err, errors.ErrUpstream)
		assert.Equal(t, MsgIterateFailed, err.(*errors.AppError).Message)
	})
}

func TestIterateUsesStoredVersionAtWriteTime(t *testing.T) {
	ctx := context.Background()
	games := store.NewFileStore(filepath.Join(t.TempDir(), "games.json"), zerolog.Nop())
	rec, err := games.Create(ctx, "Snake", snakeDoc)
	require.NoError(t, err)

	// Another writer bumps the record while the model is thinking.
	completer := ai.CompleterFunc(func(ctx context.Context, _ string) (string, error) {
		_, err := games.Update(ctx, rec.ID, func(r store.GameRecord) (store.GameRecord, error) {
			r.Version = 5
			r.Name = "Snake V5"
			return r, nil
		})
		require.NoError(t, err)
		return snakeDoc, nil
	})

	svc := NewService(completer, games, zerolog.Nop())
	updated, err := svc.Iterate(ctx, rec.ID, "faster")
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Version)
	assert.Equal(t, "Snake V6", updated.Name)
}

func TestListAndDelete(t *testing.T) {
	svc, _, pub := newTestService(t, &fakeCompleter{})
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	rec, err := svc.Save(ctx, "Snake", snakeDoc)
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	_, err = svc.Get(ctx, rec.ID)
	requireCode(t, err, errors.ErrNotFound)

	err = svc.Delete(ctx, rec.ID)
	requireCode(t, err, errors.ErrNotFound)

	assert.Equal(t, []events.Type{events.GameCreated, events.GameDeleted}, pub.types())
}

func TestCorruptStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.json")
	require.NoError(t, writeFile(path, "{not json"))

	svc := NewService(&fakeCompleter{}, store.NewFileStore(path, zerolog.Nop()), zerolog.Nop())

	_, err := svc.List(ctx)
	requireCode(t, err, errors.ErrStoreCorrupt)
	assert.Equal(t, MsgCorrupt, err.(*errors.AppError).Message)
	assert.Equal(t, 500, errors.HTTPStatusFromCode(errors.GetCode(err)))
}

func TestPublisherFailureIsNotReturned(t *testing.T) {
	games := store.NewFileStore(filepath.Join(t.TempDir(), "games.json"), zerolog.Nop())
	failing := events.PublisherFunc(func(context.Context, events.Event) error { return stderrors.New("broker down") })
	svc := NewService(&fakeCompleter{}, games, zerolog.Nop(), failing)

	_, err := svc.Save(context.Background(), "Snake", snakeDoc)
	assert.NoError(t, err)
}

func TestLifecycleLogsCarryGameID(t *testing.T) {
	var buf bytes.Buffer
	games := store.NewFileStore(filepath.Join(t.TempDir(), "games.json"), zerolog.Nop())
	fc := &fakeCompleter{replies: []string{fenced("<p>v2</p>")}}
	svc := NewService(fc, games, zerolog.New(&buf))
	ctx := context.Background()

	rec, err := svc.Save(ctx, "Snake", snakeDoc)
	require.NoError(t, err)
	_, err = svc.Iterate(ctx, rec.ID, "faster")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, rec.ID))

	messages := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if msg, ok := entry["message"].(string); ok {
			id, _ := entry["game_id"].(string)
			messages[msg] = id
		}
	}
	for _, msg := range []string{"Game saved", "Game iterated", "Game deleted"} {
		assert.Equal(t, rec.ID, messages[msg], msg)
	}
}
