// Package studio turns prompts into games and games into their next
// versions.
//
// Flow: handler -> Service -> (ai.Completer, extract, store.Store, publishers)
//
// Every error returned by Service is an *errors.AppError carrying the
// message shown to the caller.
package studio

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/ai"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/errors"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/events"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/logging"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/pkg/extract"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/store"
	"github.com/rs/zerolog"
)

// User-facing messages.
const (
	MsgPromptRequired     = "Prompt is required"
	MsgExtractionFailed   = "Failed to extract valid game code from AI response."
	MsgGenerateFailed     = "Failed to generate game"
	MsgNameCodeRequired   = "Game name and code are required"
	MsgNamePromptRequired = "Game name and prompt are required"
	MsgSaveFailed         = "Failed to save game"
	MsgListFailed         = "Failed to retrieve games"
	MsgGetFailed          = "Failed to retrieve game"
	MsgCorrupt            = "Failed to parse games data"
	MsgNotFound           = "Game not found"
	MsgDeleteFailed       = "Failed to delete game"
	MsgIDPromptRequired   = "Game ID and prompt are required"
	MsgIterateFailed      = "Failed to iterate on the game due to an internal error."
	MsgDeleted            = "Game deleted successfully"
)

// Generated is the result of a generation that was not persisted.
type Generated struct {
	Code string
}

// Service orchestrates the model, the extractor and the store.
type Service struct {
	completer  ai.Completer
	games      store.Store
	matchers   []extract.Matcher
	publishers []events.Publisher
	now        func() time.Time
	logger     zerolog.Logger
}

// NewService creates a service. Publishers are notified after each
// persisted change.
func NewService(completer ai.Completer, games store.Store, logger zerolog.Logger, publishers ...events.Publisher) *Service {
	return &Service{
		completer:  completer,
		games:      games,
		matchers:   extract.DefaultMatchers,
		publishers: publishers,
		now:        time.Now,
		logger:     logging.WithComponent(logger, "studio"),
	}
}

// Generate asks the model for a new game and returns its code without
// storing it.
func (s *Service) Generate(ctx context.Context, prompt string) (Generated, error) {
	if isBlank(prompt) {
		return Generated{}, errors.New(errors.ErrInvalidRequest, MsgPromptRequired)
	}

	code, err := s.complete(ctx, GeneratePrompt(prompt), MsgGenerateFailed)
	if err != nil {
		return Generated{}, err
	}
	return Generated{Code: code}, nil
}

// GenerateAndSave generates a game and stores it under name.
func (s *Service) GenerateAndSave(ctx context.Context, name, prompt string) (store.GameRecord, error) {
	if isBlank(name) || isBlank(prompt) {
		return store.GameRecord{}, errors.New(errors.ErrInvalidRequest, MsgNamePromptRequired)
	}

	generated, err := s.Generate(ctx, prompt)
	if err != nil {
		return store.GameRecord{}, err
	}
	return s.Save(ctx, name, generated.Code)
}

// Save stores a new game at version 1.
func (s *Service) Save(ctx context.Context, name, code string) (store.GameRecord, error) {
	if isBlank(name) || isBlank(code) {
		return store.GameRecord{}, errors.New(errors.ErrInvalidRequest, MsgNameCodeRequired)
	}

	rec, err := s.games.Create(ctx, name, code)
	if err != nil {
		return store.GameRecord{}, s.storeError(err, MsgSaveFailed)
	}

	logger := logging.WithGameID(s.logger, rec.ID)
	logger.Info().Str("name", rec.Name).Msg("Game saved")
	s.publish(ctx, newEvent(events.GameCreated, rec, s.now()))
	return rec, nil
}

// List returns every stored game.
func (s *Service) List(ctx context.Context) ([]store.GameRecord, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, s.storeError(err, MsgListFailed)
	}
	if games == nil {
		games = []store.GameRecord{}
	}
	return games, nil
}

// Get returns one game.
func (s *Service) Get(ctx context.Context, id string) (store.GameRecord, error) {
	if isBlank(id) {
		return store.GameRecord{}, errors.New(errors.ErrNotFound, MsgNotFound)
	}
	rec, err := s.games.Get(ctx, id)
	if err != nil {
		return store.GameRecord{}, s.storeError(err, MsgGetFailed)
	}
	return rec, nil
}

// Delete removes one game.
func (s *Service) Delete(ctx context.Context, id string) error {
	if isBlank(id) {
		return errors.New(errors.ErrNotFound, MsgNotFound)
	}
	if err := s.games.Delete(ctx, id); err != nil {
		return s.storeError(err, MsgDeleteFailed)
	}

	logger := logging.WithGameID(s.logger, id)
	logger.Info().Msg("Game deleted")
	s.publish(ctx, events.Event{Type: events.GameDeleted, GameID: id, At: s.now()})
	return nil
}

// Iterate asks the model to revise a stored game and saves the result as
// the next version. The stored record is unchanged on any failure.
func (s *Service) Iterate(ctx context.Context, id, prompt string) (store.GameRecord, error) {
	if isBlank(id) || isBlank(prompt) {
		return store.GameRecord{}, errors.New(errors.ErrInvalidRequest, MsgIDPromptRequired)
	}

	current, err := s.games.Get(ctx, id)
	if err != nil {
		return store.GameRecord{}, s.storeError(err, MsgIterateFailed)
	}

	code, err := s.complete(ctx, IteratePrompt(current.Code, prompt), MsgIterateFailed)
	if err != nil {
		return store.GameRecord{}, err
	}

	// The version is derived from the record the store hands to the
	// mutator, not from the copy read before the model call.
	updated, err := s.games.Update(ctx, id, func(rec store.GameRecord) (store.GameRecord, error) {
		version := max(rec.Version, 1) + 1
		title := NextTitle(rec.Name, version)
		rec.Code = code
		rec.Version = version
		rec.Name = title
		rec.Title = title
		return rec, nil
	})
	if err != nil {
		return store.GameRecord{}, s.storeError(err, MsgIterateFailed)
	}

	logger := logging.WithGameID(s.logger, updated.ID)
	logger.Info().
		Int("version", updated.Version).
		Str("name", updated.Name).
		Msg("Game iterated")
	s.publish(ctx, newEvent(events.GameIterated, updated, s.now()))
	return updated, nil
}

// complete calls the model and extracts the document from its reply.
func (s *Service) complete(ctx context.Context, prompt, failMsg string) (string, error) {
	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("AI completion failed")
		return "", errors.Wrap(err, errors.ErrUpstream, failMsg)
	}

	code := extract.CodeWith(reply, s.matchers...)
	if extract.IsEmpty(code) {
		s.logger.Warn().Int("reply_chars", len(reply)).Msg("No game code in AI response")
		return "", errors.New(errors.ErrGenerationFailed, MsgExtractionFailed)
	}
	return code, nil
}

// storeError maps store sentinels to application errors.
func (s *Service) storeError(err error, fallback string) error {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return errors.Wrap(err, errors.ErrNotFound, MsgNotFound)
	case stderrors.Is(err, store.ErrCorrupt):
		s.logger.Error().Err(err).Msg("Game store is corrupt")
		return errors.Wrap(err, errors.ErrStoreCorrupt, MsgCorrupt)
	case stderrors.Is(err, store.ErrEmptyCode):
		return errors.Wrap(err, errors.ErrGenerationFailed, MsgExtractionFailed)
	case stderrors.Is(err, store.ErrEmptyName):
		return errors.Wrap(err, errors.ErrInvalidRequest, MsgNameCodeRequired)
	default:
		s.logger.Error().Err(err).Msg("Game store operation failed")
		return errors.Wrap(err, errors.ErrStoreError, fallback)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
