package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink aggregates events into daily Redis counters:
//
//	loom:events:<type>:<day>       total per event type
//	loom:components:<name>:<day>   total per component
//
// All increments for a batch go through one pipeline round trip.
type RedisSink struct {
	client *redis.Client
}

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisSink connects and verifies the server is reachable.
func NewRedisSink(config RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect analytics redis: %w", err)
	}

	return &RedisSink{client: client}, nil
}

// NewRedisSinkWithClient wraps an existing client (used in tests).
func NewRedisSinkWithClient(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

// Record pipelines one INCR per counter touched by the batch.
func (s *RedisSink) Record(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, e := range events {
		day := e.day()
		pipe.Incr(ctx, fmt.Sprintf("loom:events:%s:%s", e.Type, day))
		if e.Component != "" {
			pipe.Incr(ctx, fmt.Sprintf("loom:components:%s:%s", e.Component, day))
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Close releases the client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
