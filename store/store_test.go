package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/config"
	coreredis "github.com/bilalnawaz072/Gemeni-Game-Studio/db/redis"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pongCode = "<!DOCTYPE html><html><body>pong</body></html>"

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "games.json"), zerolog.Nop())
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "games.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// newRedisStore runs against an in-process miniredis server.
func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	server := miniredis.RunT(t)
	client, err := coreredis.New(config.RedisConfig{Addr: server.Addr(), PoolSize: 20})
	require.NoError(t, err)
	s := NewRedisStore(client, "test", zerolog.Nop())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// backends runs the shared contract against every backend. Redis is served
// by miniredis so no external service is needed.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"file":   func(t *testing.T) Store { return newFileStore(t) },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t) },
		"redis":  func(t *testing.T) Store { return newRedisStore(t) },
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store lists nothing", func(t *testing.T) {
				games, err := open(t).List(context.Background())
				require.NoError(t, err)
				assert.NotNil(t, games)
				assert.Empty(t, games)
			})

			t.Run("create then get", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()

				created, err := s.Create(ctx, "Pong", pongCode)
				require.NoError(t, err)
				assert.NotEmpty(t, created.ID)
				assert.Equal(t, 1, created.Version)
				assert.Equal(t, "Pong", created.Title)

				got, err := s.Get(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, created.ID, got.ID)
				assert.Equal(t, pongCode, got.Code)
				assert.Equal(t, 1, got.Version)
				assert.Equal(t, "Pong", got.Name)
			})

			t.Run("list keeps insertion order", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				for _, name := range []string{"A", "B", "C"} {
					_, err := s.Create(ctx, name, pongCode)
					require.NoError(t, err)
				}
				games, err := s.List(ctx)
				require.NoError(t, err)
				require.Len(t, games, 3)
				assert.Equal(t, []string{"A", "B", "C"}, []string{games[0].Name, games[1].Name, games[2].Name})
			})

			t.Run("ids are unique", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				seen := map[string]bool{}
				for i := 0; i < 20; i++ {
					rec, err := s.Create(ctx, fmt.Sprintf("Game %d", i), pongCode)
					require.NoError(t, err)
					assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
					seen[rec.ID] = true
				}
			})

			t.Run("create rejects empty code", func(t *testing.T) {
				s := open(t)
				_, err := s.Create(context.Background(), "Pong", "  \n")
				assert.ErrorIs(t, err, ErrEmptyCode)
				games, err := s.List(context.Background())
				require.NoError(t, err)
				assert.Empty(t, games)
			})

			t.Run("get unknown id", func(t *testing.T) {
				_, err := open(t).Get(context.Background(), "nope")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("update applies mutator and keeps id", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				created, err := s.Create(ctx, "Pong", pongCode)
				require.NoError(t, err)

				updated, err := s.Update(ctx, created.ID, func(cur GameRecord) (GameRecord, error) {
					cur.ID = "hijacked"
					cur.Code = "<p>v2</p>"
					cur.Version = cur.Version + 1
					cur.Name = "Pong V2"
					cur.Title = "Pong V2"
					return cur, nil
				})
				require.NoError(t, err)
				assert.Equal(t, created.ID, updated.ID)
				assert.Equal(t, 2, updated.Version)

				got, err := s.Get(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, "<p>v2</p>", got.Code)
				assert.Equal(t, "Pong V2", got.Name)
				assert.Equal(t, 2, got.Version)
			})

			t.Run("returned records match what get reads back", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				created, err := s.Create(ctx, "Pong", pongCode)
				require.NoError(t, err)

				got, err := s.Get(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, created, got)

				updated, err := s.Update(ctx, created.ID, func(cur GameRecord) (GameRecord, error) {
					cur.Version++
					cur.Name = "Pong V2"
					cur.Title = "Pong V2"
					return cur, nil
				})
				require.NoError(t, err)

				got, err = s.Get(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, updated, got)

				games, err := s.List(ctx)
				require.NoError(t, err)
				require.Len(t, games, 1)
				assert.Equal(t, updated, games[0])
			})

			t.Run("update unknown id", func(t *testing.T) {
				_, err := open(t).Update(context.Background(), "nope", func(cur GameRecord) (GameRecord, error) {
					return cur, nil
				})
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("failed mutation leaves record unchanged", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				created, err := s.Create(ctx, "Pong", pongCode)
				require.NoError(t, err)

				boom := errors.New("boom")
				_, err = s.Update(ctx, created.ID, func(GameRecord) (GameRecord, error) { return GameRecord{}, boom })
				assert.ErrorIs(t, err, boom)

				_, err = s.Update(ctx, created.ID, func(cur GameRecord) (GameRecord, error) {
					cur.Code = ""
					return cur, nil
				})
				assert.ErrorIs(t, err, ErrEmptyCode)

				got, err := s.Get(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, pongCode, got.Code)
				assert.Equal(t, 1, got.Version)
			})

			t.Run("delete then get", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				created, err := s.Create(ctx, "Pong", pongCode)
				require.NoError(t, err)

				require.NoError(t, s.Delete(ctx, created.ID))
				_, err = s.Get(ctx, created.ID)
				assert.ErrorIs(t, err, ErrNotFound)
				assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrNotFound)
			})

			t.Run("restore keeps id and version", func(t *testing.T) {
				s := open(t)
				r, ok := s.(Restorer)
				require.True(t, ok)
				ctx := context.Background()
				require.NoError(t, r.Restore(ctx, GameRecord{ID: "legacy-1", Name: "Snake V4", Code: pongCode, Version: 4}))

				got, err := s.Get(ctx, "legacy-1")
				require.NoError(t, err)
				assert.Equal(t, 4, got.Version)
				assert.Equal(t, "Snake V4", got.Title)
			})
		})
	}
}

func TestConcurrentUpdatesAreNotLost(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			created, err := s.Create(ctx, "Counter", pongCode)
			require.NoError(t, err)

			const workers = 16
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.Update(ctx, created.ID, func(cur GameRecord) (GameRecord, error) {
						cur.Version++
						return cur, nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			got, err := s.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, 1+workers, got.Version)
		})
	}
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, fmt.Sprintf("Game %d", i), pongCode)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	games, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, games, workers)
}

func TestNewIDIsTimePrefixed(t *testing.T) {
	id := NewID(fixedTime)
	assert.True(t, strings.HasPrefix(id, fmt.Sprintf("%d-", fixedTime.UnixMilli())), id)
	assert.NotEqual(t, id, NewID(fixedTime))
}

func TestNormalize(t *testing.T) {
	rec := GameRecord{ID: "1", Name: "Snake", Code: pongCode}.Normalize()
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, "Snake", rec.Title)

	rec = GameRecord{ID: "1", Name: "Snake V3", Title: "Snake V3", Code: pongCode, Version: 3}.Normalize()
	assert.Equal(t, 3, rec.Version)
}
