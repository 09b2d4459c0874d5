package store

import (
	"context"
	"fmt"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/config"
	coreredis "github.com/bilalnawaz072/Gemeni-Game-Studio/db/redis"
	"github.com/rs/zerolog"
)

// Open builds the store selected by cfg.Store.Driver.
func Open(cfg *config.Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverFile, "":
		return NewFileStore(cfg.Store.Path, logger), nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.Store.Path, logger)
	case config.DriverRedis:
		client, err := coreredis.New(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Redis.KeyPrefix, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// ImportFile copies every record of a JSON games file into dst, keeping
// ids and versions. It returns the number of records written.
func ImportFile(ctx context.Context, dst Restorer, path string, logger zerolog.Logger) (int, error) {
	src := NewFileStore(path, logger)
	games, err := src.List(ctx)
	if err != nil {
		return 0, err
	}
	for i, rec := range games {
		if err := dst.Restore(ctx, rec); err != nil {
			return i, fmt.Errorf("import %s: %w", rec.ID, err)
		}
	}
	return len(games), nil
}
