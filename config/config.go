package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/logging"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Store       StoreConfig    `mapstructure:"store"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Kafka       KafkaConfig    `mapstructure:"kafka"`
	AI          AIConfig       `mapstructure:"ai"`
	Logging     logging.Config `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int           `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	EnableCORS    bool          `mapstructure:"enable_cors"`
	EnableSwagger bool          `mapstructure:"enable_swagger"`
	StaticDir     string        `mapstructure:"static_dir"`
}

// StoreConfig selects and configures the game record store
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // file, sqlite or redis
	Path   string `mapstructure:"path"`   // file or sqlite location
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	WorkerNum int      `mapstructure:"worker_num"`
}

// AIConfig configures the upstream completion model
type AIConfig struct {
	Provider      string        `mapstructure:"provider"` // gemini or openai
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// Store drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// AI providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// keys lists every setting so AutomaticEnv can override values that are
// absent from the config file.
var keys = []string{
	"environment",
	"server.port", "server.read_timeout", "server.write_timeout", "server.idle_timeout",
	"server.enable_cors", "server.enable_swagger", "server.static_dir",
	"store.driver", "store.path",
	"redis.addr", "redis.username", "redis.password", "redis.db", "redis.pool_size",
	"redis.min_idle_conns", "redis.key_prefix",
	"kafka.brokers", "kafka.topic", "kafka.worker_num",
	"ai.provider", "ai.model", "ai.base_url", "ai.timeout", "ai.max_concurrent",
	"logging.level", "logging.format", "logging.output",
}

// Load loads configuration from an optional YAML file using Viper.
// Environment variables override file values (server.port -> SERVER_PORT).
// An empty filename loads from the environment only.
func Load(filename string) (*Config, error) {
	v, err := newViper(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func newViper(filename string) (*viper.Viper, error) {
	v := viper.New()

	// Enable environment variable substitution
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	// The credential also answers to the legacy variable names.
	if err := v.BindEnv("ai.api_key", "AI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env for ai.api_key: %w", err)
	}

	if filename == "" {
		return v, nil
	}

	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	return v, nil
}

// setDefaults sets default values for missing configuration
func (c *Config) setDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	// Generation can take minutes; the write timeout has to outlive the AI timeout.
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 5 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "public"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverFile
	}
	if c.Store.Path == "" {
		switch c.Store.Driver {
		case DriverSQLite:
			c.Store.Path = "games.db"
		default:
			c.Store.Path = "games.json"
		}
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 2
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "studio"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "studio.games"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderGemini
	}
	if c.AI.Model == "" {
		switch c.AI.Provider {
		case ProviderOpenAI:
			c.AI.Model = "gpt-4o-mini"
		default:
			c.AI.Model = "gemini-2.5-pro"
		}
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 3 * time.Minute
	}
	if c.AI.MaxConcurrent == 0 {
		c.AI.MaxConcurrent = 4
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverSQLite:
	case DriverRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when store.driver is redis")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	if c.AI.MaxConcurrent < 0 {
		return errors.New("ai.max_concurrent must not be negative")
	}
	return nil
}

// IsDevelopment returns true if environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// IsProduction returns true if environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
