package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// FileStore keeps the whole collection in one JSON array file. Every
// mutation reads the full file, changes one record and rewrites the file.
// The mutex makes this read-modify-write single-writer within the process.
type FileStore struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger zerolog.Logger
}

// NewFileStore creates a store backed by path. The file is created on the
// first write.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		now:    time.Now,
		logger: logger.With().Str("component", "file_store").Str("path", path).Logger(),
	}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// List returns all records
func (s *FileStore) List(ctx context.Context) ([]GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Get returns a record by id
func (s *FileStore) Get(ctx context.Context, id string) (GameRecord, error) {
	games, err := s.List(ctx)
	if err != nil {
		return GameRecord{}, err
	}
	game, ok := lo.Find(games, func(g GameRecord) bool { return g.ID == id })
	if !ok {
		return GameRecord{}, ErrNotFound
	}
	return game, nil
}

// Create appends a new record
func (s *FileStore) Create(ctx context.Context, name, code string) (GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return GameRecord{}, err
	}
	rec, err := newRecord(name, code, s.now())
	if err != nil {
		return GameRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.load()
	if err != nil {
		return GameRecord{}, err
	}
	games = append(games, rec)
	if err := s.save(games); err != nil {
		return GameRecord{}, err
	}

	s.logger.Debug().Str("game_id", rec.ID).Int("count", len(games)).Msg("Game created")
	return rec, nil
}

// Update replaces a record with the result of mutate
func (s *FileStore) Update(ctx context.Context, id string, mutate Mutator) (GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return GameRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.load()
	if err != nil {
		return GameRecord{}, err
	}
	current, idx, ok := lo.FindIndexOf(games, func(g GameRecord) bool { return g.ID == id })
	if !ok {
		return GameRecord{}, ErrNotFound
	}

	next, err := applyMutation(current, mutate, s.now())
	if err != nil {
		return GameRecord{}, err
	}
	games[idx] = next
	if err := s.save(games); err != nil {
		return GameRecord{}, err
	}

	s.logger.Debug().Str("game_id", id).Int("version", next.Version).Msg("Game updated")
	return next, nil
}

// Delete removes a record
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.load()
	if err != nil {
		return err
	}
	_, idx, ok := lo.FindIndexOf(games, func(g GameRecord) bool { return g.ID == id })
	if !ok {
		return ErrNotFound
	}
	games = slices.Delete(games, idx, idx+1)
	if err := s.save(games); err != nil {
		return err
	}

	s.logger.Debug().Str("game_id", id).Msg("Game deleted")
	return nil
}

// Restore inserts rec or replaces the record with the same id.
func (s *FileStore) Restore(ctx context.Context, rec GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec = rec.Normalize()
	if err := rec.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.load()
	if err != nil {
		return err
	}
	if _, idx, ok := lo.FindIndexOf(games, func(g GameRecord) bool { return g.ID == rec.ID }); ok {
		games[idx] = rec
	} else {
		games = append(games, rec)
	}
	return s.save(games)
}

// Close is a no-op; the file is not held open between calls.
func (s *FileStore) Close() error {
	return nil
}

// load reads the collection. Callers hold s.mu.
func (s *FileStore) load() ([]GameRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []GameRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []GameRecord{}, nil
	}

	var games []GameRecord
	if err := json.Unmarshal(data, &games); err != nil {
		s.logger.Error().Err(err).Msg("Failed to parse games file")
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if games == nil {
		games = []GameRecord{}
	}
	for i := range games {
		games[i] = games[i].Normalize()
	}
	return games, nil
}

// save rewrites the collection through a temp file and rename so readers
// never observe a partial write. Callers hold s.mu.
func (s *FileStore) save(games []GameRecord) error {
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal games: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write games: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync games: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
