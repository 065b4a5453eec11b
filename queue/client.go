package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client defines the interface for the Redis-backed planning queue.
type Client interface {
	// Submit adds a planning request to the end of a queue (LPUSH).
	Submit(ctx context.Context, queue string, req PlanRequest) error

	// Next removes and returns a planning request from the front of a
	// queue (BRPOP). Blocks until a request is available or the
	// context is cancelled.
	Next(ctx context.Context, queue string) (*PlanRequest, error)

	// Publish sends a plan result to a pub/sub channel.
	Publish(ctx context.Context, channel string, result PlanResult) error

	// Subscribe creates a subscription to a pub/sub channel.
	// Returns a channel that receives results until the context ends.
	Subscribe(ctx context.Context, channel string) (<-chan PlanResult, error)

	// Heartbeat updates the health key for a worker with a 30s TTL.
	Heartbeat(ctx context.Context, workerID string) error

	// WorkerCount returns the current worker count for a queue.
	WorkerCount(ctx context.Context, queue string) (int, error)

	// IncrementWorkerCount increments the worker count for a queue.
	IncrementWorkerCount(ctx context.Context, queue string) error

	// DecrementWorkerCount decrements the worker count for a queue.
	DecrementWorkerCount(ctx context.Context, queue string) error

	// Close closes the Redis connection.
	Close() error
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisClient implements the Client interface using go-redis/v9.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis queue client with the given options.
func NewRedisClient(opts RedisOptions) (*RedisClient, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Submit adds a planning request to the end of a queue.
func (c *RedisClient) Submit(ctx context.Context, queue string, req PlanRequest) error {
	if err := req.IsValid(); err != nil {
		return fmt.Errorf("invalid plan request: %w", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal plan request: %w", err)
	}

	if err := c.client.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", queue, err)
	}

	return nil
}

// Next removes and returns a planning request from the front of a
// queue. Blocks until a request is available or the context is
// cancelled.
func (c *RedisClient) Next(ctx context.Context, queue string) (*PlanRequest, error) {
	// BRPOP returns [queue_name, value] or empty on timeout
	result, err := c.client.BRPop(ctx, 0, queue).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue %s: %w", queue, err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP result length: %d", len(result))
	}

	var req PlanRequest
	if err := json.Unmarshal([]byte(result[1]), &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan request: %w", err)
	}

	return &req, nil
}

// Publish sends a plan result to a pub/sub channel.
func (c *RedisClient) Publish(ctx context.Context, channel string, result PlanResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal plan result: %w", err)
	}

	if err := c.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe creates a subscription to a pub/sub channel.
func (c *RedisClient) Subscribe(ctx context.Context, channel string) (<-chan PlanResult, error) {
	pubsub := c.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	resultChan := make(chan PlanResult)

	go func() {
		defer close(resultChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var result PlanResult
				if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
					// Skip malformed payloads but keep the subscription.
					continue
				}

				select {
				case resultChan <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultChan, nil
}

// Heartbeat updates the health key for a worker with a 30s TTL.
func (c *RedisClient) Heartbeat(ctx context.Context, workerID string) error {
	healthKey := fmt.Sprintf("goap:worker:%s:health", workerID)
	if err := c.client.Set(ctx, healthKey, "ok", 30*time.Second).Err(); err != nil {
		return fmt.Errorf("failed to set heartbeat for worker %s: %w", workerID, err)
	}
	return nil
}

// WorkerCount returns the current worker count for a queue.
func (c *RedisClient) WorkerCount(ctx context.Context, queue string) (int, error) {
	countStr, err := c.client.Get(ctx, workerCountKey(queue)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get worker count for queue %s: %w", queue, err)
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, fmt.Errorf("invalid worker count value: %w", err)
	}

	return count, nil
}

// IncrementWorkerCount increments the worker count for a queue.
func (c *RedisClient) IncrementWorkerCount(ctx context.Context, queue string) error {
	if err := c.client.Incr(ctx, workerCountKey(queue)).Err(); err != nil {
		return fmt.Errorf("failed to increment worker count for queue %s: %w", queue, err)
	}
	return nil
}

// DecrementWorkerCount decrements the worker count for a queue.
func (c *RedisClient) DecrementWorkerCount(ctx context.Context, queue string) error {
	if err := c.client.Decr(ctx, workerCountKey(queue)).Err(); err != nil {
		return fmt.Errorf("failed to decrement worker count for queue %s: %w", queue, err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}

func workerCountKey(queue string) string {
	return fmt.Sprintf("goap:queue:%s:workers", queue)
}
