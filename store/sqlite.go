package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	code       TEXT NOT NULL,
	version    INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL DEFAULT 0
)`

// SQLiteStore persists game records in a SQLite database.
type SQLiteStore struct {
	sqlDB  *sql.DB
	now    func() time.Time
	logger zerolog.Logger
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens (creating if needed) a SQLite game store at path.
func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps read-modify-write cycles serialized.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{
		sqlDB:  sqlDB,
		now:    time.Now,
		logger: logger.With().Str("component", "sqlite_store").Logger(),
	}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (GameRecord, error) {
	var (
		rec       GameRecord
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Title, &rec.Code, &rec.Version, &createdAt, &updatedAt); err != nil {
		return GameRecord{}, err
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec.Normalize(), nil
}

const selectGame = `SELECT id, name, title, code, version, created_at, updated_at FROM games`

// List returns all records in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]GameRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, selectGame+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan game: %v", ErrCorrupt, err)
		}
		games = append(games, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Get returns one record by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (GameRecord, error) {
	return s.get(ctx, s.sqlDB, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) get(ctx context.Context, q querier, id string) (GameRecord, error) {
	rec, err := scanGame(q.QueryRowContext(ctx, selectGame+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, ErrNotFound
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("get game: %w", err)
	}
	return rec, nil
}

// Create inserts a new record.
func (s *SQLiteStore) Create(ctx context.Context, name, code string) (GameRecord, error) {
	rec, err := newRecord(name, code, s.now())
	if err != nil {
		return GameRecord{}, err
	}
	if err := s.insert(ctx, rec); err != nil {
		return GameRecord{}, err
	}
	s.logger.Debug().Str("game_id", rec.ID).Msg("Game created")
	return rec, nil
}

func (s *SQLiteStore) insert(ctx context.Context, rec GameRecord) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (id, name, title, code, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   title = excluded.title,
		   code = excluded.code,
		   version = excluded.version,
		   updated_at = excluded.updated_at`,
		rec.ID, rec.Name, rec.Title, rec.Code, rec.Version, toMillis(rec.CreatedAt), toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Update applies mutate inside a transaction.
func (s *SQLiteStore) Update(ctx context.Context, id string, mutate Mutator) (GameRecord, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return GameRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := s.get(ctx, tx, id)
	if err != nil {
		return GameRecord{}, err
	}
	next, err := applyMutation(current, mutate, s.now())
	if err != nil {
		return GameRecord{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE games SET name = ?, title = ?, code = ?, version = ?, updated_at = ? WHERE id = ?`,
		next.Name, next.Title, next.Code, next.Version, toMillis(next.UpdatedAt), id,
	)
	if err != nil {
		return GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return GameRecord{}, fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug().Str("game_id", id).Int("version", next.Version).Msg("Game updated")
	return next, nil
}

// Delete removes a record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Restore upserts rec verbatim.
func (s *SQLiteStore) Restore(ctx context.Context, rec GameRecord) error {
	rec = rec.Normalize()
	if err := rec.validate(); err != nil {
		return err
	}
	return s.insert(ctx, rec)
}
