// Package events defines the game lifecycle events emitted by the studio
// and the sink contract that transports implement.
package events

import (
	"context"
	"time"
)

// Type names a game lifecycle change.
type Type string

const (
	GameCreated  Type = "game.created"
	GameIterated Type = "game.iterated"
	GameDeleted  Type = "game.deleted"
)

// Event is emitted after a change has been persisted.
type Event struct {
	Type    Type      `json:"type"`
	GameID  string    `json:"game_id"`
	Name    string    `json:"name,omitempty"`
	Version int       `json:"version,omitempty"`
	At      time.Time `json:"timestamp"`
}

// Publisher receives lifecycle events. Implementations should not block
// for long: Publish runs on the request path.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}
