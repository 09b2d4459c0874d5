package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreredis "github.com/bilalnawaz072/Gemeni-Game-Studio/db/redis"
	"github.com/go-redis/redis/v8"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
)

// redisWatchRetries bounds optimistic retries. A WATCH conflict means a
// competing writer committed, so each retry corresponds to one commit by
// someone else.
const redisWatchRetries = 50

// RedisStore keeps each record in a hash and the insertion order in a
// sorted set scored by a sequence counter.
type RedisStore struct {
	redis  *coreredis.Client
	prefix string
	now    func() time.Time
	logger zerolog.Logger
}

// redisRecord is the hash layout. Fields are strings on the wire and are
// decoded weakly so hand-edited or legacy hashes still load.
type redisRecord struct {
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	Title     string `mapstructure:"title"`
	Code      string `mapstructure:"code"`
	Version   int    `mapstructure:"version"`
	CreatedAt int64  `mapstructure:"created_at"`
	UpdatedAt int64  `mapstructure:"updated_at"`
}

// NewRedisStore creates a store using keys under prefix.
func NewRedisStore(redisClient *coreredis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
		now:    time.Now,
		logger: logger.With().Str("component", "redis_store").Logger(),
	}
}

func (s *RedisStore) gameKey(id string) string {
	return fmt.Sprintf("%s:game:%s", s.prefix, id)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":games"
}

func (s *RedisStore) seqKey() string {
	return s.prefix + ":games:seq"
}

func encodeRecord(rec GameRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":         rec.ID,
		"name":       rec.Name,
		"title":      rec.Title,
		"code":       rec.Code,
		"version":    rec.Version,
		"created_at": toMillis(rec.CreatedAt),
		"updated_at": toMillis(rec.UpdatedAt),
	}
}

func decodeRecord(fields map[string]string) (GameRecord, error) {
	var raw redisRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return GameRecord{}, err
	}
	if err := decoder.Decode(fields); err != nil {
		return GameRecord{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if raw.ID == "" {
		return GameRecord{}, fmt.Errorf("%w: record without id", ErrCorrupt)
	}
	return GameRecord{
		ID:        raw.ID,
		Name:      raw.Name,
		Title:     raw.Title,
		Code:      raw.Code,
		Version:   raw.Version,
		CreatedAt: fromMillis(raw.CreatedAt),
		UpdatedAt: fromMillis(raw.UpdatedAt),
	}.Normalize(), nil
}

// List returns all records ordered by creation.
func (s *RedisStore) List(ctx context.Context) ([]GameRecord, error) {
	ids, err := s.redis.ZRange(ctx, s.indexKey())
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []GameRecord{}, nil
	}

	pipe := s.redis.GetClient().Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.gameKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	games := make([]GameRecord, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Deleted between ZRANGE and HGETALL.
			s.logger.Debug().Str("game_id", ids[i]).Msg("Indexed game vanished")
			continue
		}
		rec, err := decodeRecord(fields)
		if err != nil {
			return nil, err
		}
		games = append(games, rec)
	}
	return games, nil
}

// Get returns one record.
func (s *RedisStore) Get(ctx context.Context, id string) (GameRecord, error) {
	fields, err := s.redis.HGetAll(ctx, s.gameKey(id))
	if errors.Is(err, coreredis.ErrKeyNotFound) {
		return GameRecord{}, ErrNotFound
	}
	if err != nil {
		return GameRecord{}, err
	}
	return decodeRecord(fields)
}

// Create stores a new record and indexes it.
func (s *RedisStore) Create(ctx context.Context, name, code string) (GameRecord, error) {
	rec, err := newRecord(name, code, s.now())
	if err != nil {
		return GameRecord{}, err
	}
	if err := s.write(ctx, s.redis.GetClient(), rec); err != nil {
		return GameRecord{}, err
	}
	s.logger.Debug().Str("game_id", rec.ID).Msg("Game created")
	return rec, nil
}

func (s *RedisStore) write(ctx context.Context, c redis.Cmdable, rec GameRecord) error {
	// Records created within the same millisecond still list in call order.
	seq, err := c.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate position for game %s: %w", rec.ID, err)
	}
	_, err = c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.gameKey(rec.ID), encodeRecord(rec))
		pipe.ZAddNX(ctx, s.indexKey(), &redis.Z{
			Score:  float64(seq),
			Member: rec.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", rec.ID, err)
	}
	return nil
}

// Update applies mutate under WATCH so a concurrent writer forces a retry
// against the fresh record instead of being overwritten.
func (s *RedisStore) Update(ctx context.Context, id string, mutate Mutator) (GameRecord, error) {
	key := s.gameKey(id)
	var next GameRecord
	err := s.redis.Watch(ctx, redisWatchRetries, func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return ErrNotFound
		}
		current, err := decodeRecord(fields)
		if err != nil {
			return err
		}
		next, err = applyMutation(current, mutate, s.now())
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, encodeRecord(next))
			return nil
		})
		return err
	}, key)
	if err != nil {
		return GameRecord{}, err
	}
	s.logger.Debug().Str("game_id", id).Int("version", next.Version).Msg("Game updated")
	return next, nil
}

// Delete removes the record and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	key := s.gameKey(id)
	return s.redis.Watch(ctx, redisWatchRetries, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, s.indexKey(), id)
			return nil
		})
		return err
	}, key)
}

// Restore writes rec verbatim.
func (s *RedisStore) Restore(ctx context.Context, rec GameRecord) error {
	rec = rec.Normalize()
	if err := rec.validate(); err != nil {
		return err
	}
	return s.write(ctx, s.redis.GetClient(), rec)
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}
