package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/config"
	"github.com/go-redis/redis/v8"
)

// ErrKeyNotFound is returned when a key or hash does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Client provides Redis operations with connection pooling
type Client struct {
	client *redis.Client
}

// New creates a new Redis client
func New(cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{
		client: client,
	}, nil
}

// HGetAll gets all fields in a hash. A missing hash returns ErrKeyNotFound.
func (r *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	val, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to hgetall %s: %w", key, err)
	}
	if len(val) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return val, nil
}

// ZRange returns the members of a sorted set ordered by score
func (r *Client) ZRange(ctx context.Context, key string) ([]string, error) {
	val, err := r.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to zrange %s: %w", key, err)
	}
	return val, nil
}

// Watch runs fn in an optimistic transaction over keys, retrying up to
// maxRetries times when a watched key changes underneath it.
func (r *Client) Watch(ctx context.Context, maxRetries int, fn func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxRetries; i++ {
		err := r.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to commit transaction on %v: %w", keys, redis.TxFailedErr)
}

// Close closes the Redis connection
func (r *Client) Close() error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Client) GetClient() *redis.Client {
	return r.client
}
