package studio

import (
	"context"
	"time"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/events"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/store"
)

func newEvent(t events.Type, rec store.GameRecord, at time.Time) events.Event {
	return events.Event{
		Type:    t,
		GameID:  rec.ID,
		Name:    rec.Name,
		Version: rec.Version,
		At:      at,
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	for _, p := range s.publishers {
		if err := p.Publish(ctx, event); err != nil {
			s.logger.Warn().
				Err(err).
				Str("event", string(event.Type)).
				Str("game_id", event.GameID).
				Msg("Failed to publish game event")
		}
	}
}
