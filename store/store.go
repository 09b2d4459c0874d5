// Package store persists game records. Every backend honours the same
// contract: ids are unique and immutable, code is never stored empty, and
// each mutation is applied to the latest stored state of the record.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("game not found")
	// ErrCorrupt is returned when the backing data cannot be parsed.
	ErrCorrupt = errors.New("game store is corrupt")
	// ErrEmptyCode is returned when a write would persist a blank document.
	ErrEmptyCode = errors.New("game code is empty")
	// ErrEmptyName is returned when a write would persist a blank name.
	ErrEmptyName = errors.New("game name is empty")
)

// GameRecord is one generated game and its current revision.
type GameRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Code      string    `json:"code"`
	Version   int       `json:"version,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Normalize applies the defaults of records written before versioning
// existed: a missing version is 1 and a missing title is the name.
func (r GameRecord) Normalize() GameRecord {
	if r.Version < 1 {
		r.Version = 1
	}
	if r.Title == "" {
		r.Title = r.Name
	}
	return r
}

func (r GameRecord) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Code) == "" {
		return ErrEmptyCode
	}
	return nil
}

// Mutator derives the replacement for a stored record.
type Mutator func(current GameRecord) (GameRecord, error)

// Store is the access contract for game records.
type Store interface {
	// List returns every record in insertion order. A store that has never
	// been written returns an empty slice.
	List(ctx context.Context) ([]GameRecord, error)
	// Get returns the record with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (GameRecord, error)
	// Create stores a new record at version 1 under a fresh id.
	Create(ctx context.Context, name, code string) (GameRecord, error)
	// Update loads the record, applies mutate and stores the result.
	Update(ctx context.Context, id string, mutate Mutator) (GameRecord, error)
	// Delete removes the record or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

// Restorer is implemented by stores that can write a record verbatim,
// keeping its id and version. Used to migrate between backends.
type Restorer interface {
	Restore(ctx context.Context, rec GameRecord) error
}

// NewID returns a time-ordered id: the creation time in milliseconds
// followed by a random suffix.
func NewID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// stamp reduces now to what every backend can store: UTC, whole
// milliseconds and no monotonic reading. Returned records then compare equal
// to what a later Get reads back.
func stamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}

func newRecord(name, code string, now time.Time) (GameRecord, error) {
	now = stamp(now)
	rec := GameRecord{
		ID:        NewID(now),
		Name:      name,
		Title:     name,
		Code:      code,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rec.validate(); err != nil {
		return GameRecord{}, err
	}
	return rec, nil
}

// applyMutation runs mutate against current and enforces the record
// invariants on the result. The id and creation time cannot be changed.
func applyMutation(current GameRecord, mutate Mutator, now time.Time) (GameRecord, error) {
	next, err := mutate(current)
	if err != nil {
		return GameRecord{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = stamp(now)
	next = next.Normalize()
	if err := next.validate(); err != nil {
		return GameRecord{}, err
	}
	return next, nil
}
