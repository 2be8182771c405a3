package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisPublisher is the part of *redis.Client the publisher uses.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Redis publishes each event on the pub/sub channel "<prefix>:<type>".
type Redis struct {
	client redisPublisher
	prefix string
}

// NewRedis wraps an existing client.
func NewRedis(client redisPublisher, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// DialRedis parses url (redis://host:port/db), pings the server, and returns
// the client for the caller to close on shutdown.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("events.DialRedis: parse url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("events.DialRedis: ping: %w", err)
	}
	return client, nil
}

// Publish implements Publisher.
func (r *Redis) Publish(ctx context.Context, e Event) error {
	body, err := encode(e)
	if err != nil {
		return fmt.Errorf("events.Redis.Publish: %w", err)
	}
	channel := r.prefix + ":" + string(e.Type)
	if err := r.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("events.Redis.Publish: %s: %w", channel, err)
	}
	return nil
}
