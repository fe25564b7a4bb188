// -----------------------------------------------------------------------------
// Redis Connection Pool
// -----------------------------------------------------------------------------
// Opens the Redis client used by the seat inventory and checks it is
// reachable.
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

// RedisConfig is the Redis connection configuration.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:         "127.0.0.1",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// RedisClient wraps redis.Client with logging.
type RedisClient struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisClient connects and pings the server. A nil config uses the defaults.
//
//	client, err := database.NewRedisClient(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func NewRedisClient(ctx context.Context, config *RedisConfig, log *logger.Logger) (*RedisClient, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Info("Redis connection established", "addr", client.Options().Addr, "db", config.DB)

	return &RedisClient{client: client, logger: log}, nil
}

// Client returns the raw client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// Ping is used by the health endpoint.
func (r *RedisClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.client.Ping(ctx).Err()
}

// Stats returns connection pool statistics.
func (r *RedisClient) Stats() map[string]interface{} {
	poolStats := r.client.PoolStats()

	return map[string]interface{}{
		"hits":        poolStats.Hits,
		"misses":      poolStats.Misses,
		"timeouts":    poolStats.Timeouts,
		"total_conns": poolStats.TotalConns,
		"idle_conns":  poolStats.IdleConns,
		"stale_conns": poolStats.StaleConns,
	}
}

// Close closes the client. Call it during graceful shutdown.
func (r *RedisClient) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Redis close failed", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}
