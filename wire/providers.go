package wire

import (
	"context"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/ai"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/config"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/events"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/events/kafka"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/logging"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/pkg/feed"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/pkg/studio"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/server"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/store"
	"github.com/google/wire"
	"github.com/rs/zerolog"
)

// ConfigPath is the optional YAML config file.
type ConfigPath string

const feedBuffer = 32

// StoreRuntime is what offline commands need: the store and its context.
type StoreRuntime struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.Store
}

// ProvideConfig loads the configuration
func ProvideConfig(path ConfigPath) (*config.Config, error) {
	return config.Load(string(path))
}

// ProvideLogger provides a zerolog.Logger
func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.Logging)
}

// ProvideStore opens the configured game store
func ProvideStore(cfg *config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	s, err := store.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("driver", cfg.Store.Driver).Str("path", cfg.Store.Path).Msg("Game store opened")
	return s, func() {
		if err := s.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing game store")
		}
	}, nil
}

// ProvideCompleter provides the rate-limited AI completer. It fails when no
// API key is configured.
func ProvideCompleter(cfg *config.Config, logger zerolog.Logger) (ai.Completer, func(), error) {
	c, err := ai.New(context.Background(), cfg.AI, logger)
	if err != nil {
		return nil, nil, err
	}
	return c, func() {
		if err := c.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing AI client")
		}
	}, nil
}

// ProvideHub provides the live feed hub
func ProvideHub(logger zerolog.Logger) (*feed.Hub, func()) {
	hub := feed.NewHub(feedBuffer, logger)
	return hub, func() { _ = hub.Close() }
}

// ProvideKafkaProducer provides a Kafka producer, or nil when no brokers are
// configured.
func ProvideKafkaProducer(cfg *config.Config, logger zerolog.Logger) (*kafka.Producer, func(), error) {
	p, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.Topic,
		WorkerNum: cfg.Kafka.WorkerNum,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, func() {}, nil
	}
	return p, func() { _ = p.Close() }, nil
}

// ProvidePublishers collects the event sinks that are enabled
func ProvidePublishers(hub *feed.Hub, producer *kafka.Producer) []events.Publisher {
	publishers := []events.Publisher{hub}
	if producer != nil {
		publishers = append(publishers, producer)
	}
	return publishers
}

// ProvideStudio provides the game service
func ProvideStudio(completer ai.Completer, games store.Store, logger zerolog.Logger, publishers []events.Publisher) *studio.Service {
	return studio.NewService(completer, games, logger, publishers...)
}

// ProvideServerOptions provides server options
func ProvideServerOptions(cfg *config.Config, logger zerolog.Logger, svc *studio.Service, hub *feed.Hub) server.Options {
	return server.Options{
		Config: cfg,
		Logger: logger,
		Studio: svc,
		Feed:   hub,
	}
}

// ProvideApp provides the main application with every route registered
func ProvideApp(opts server.Options) *server.App {
	return server.New(opts).Setup()
}

// ConfigSet is the wire provider set for configuration
var ConfigSet = wire.NewSet(
	ProvideConfig,
)

// LoggingSet is the wire provider set for logging
var LoggingSet = wire.NewSet(
	ProvideLogger,
)

// StoreSet is the wire provider set for the game store
var StoreSet = wire.NewSet(
	ProvideStore,
)

// StudioSet wires the AI completer, the event sinks and the game service
var StudioSet = wire.NewSet(
	ProvideCompleter,
	ProvideHub,
	ProvideKafkaProducer,
	ProvidePublishers,
	ProvideStudio,
)

// ServerSet is the wire provider set for server
var ServerSet = wire.NewSet(
	ProvideServerOptions,
	ProvideApp,
)

// DefaultSet is the default wire provider set including all common providers
var DefaultSet = wire.NewSet(
	ConfigSet,
	LoggingSet,
	StoreSet,
)

// FullSet includes everything needed to serve HTTP
var FullSet = wire.NewSet(
	DefaultSet,
	StudioSet,
	ServerSet,
)
