package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const invalidationChannel = "safeyatra:session-invalidated"

// RedisBroadcaster carries session invalidations over a redis pub/sub channel
// so tabs served by different processes observe the same signal.
type RedisBroadcaster struct {
	client *redis.Client
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRedisBroadcaster connects to redis and verifies the connection
func NewRedisBroadcaster(addr string) (*RedisBroadcaster, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithCancel(context.Background())
	if err := client.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisBroadcaster{client: client, ctx: ctx, cancel: cancel}, nil
}

// Broadcast publishes the invalidation to the shared redis channel
func (b *RedisBroadcaster) Broadcast(inv SessionInvalidation) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("marshal invalidation: %w", err)
	}
	if err := b.client.Publish(b.ctx, invalidationChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Subscribe consumes invalidations from the shared channel until cancelled
func (b *RedisBroadcaster) Subscribe(fn func(SessionInvalidation)) (func(), error) {
	sub := b.client.Subscribe(b.ctx, invalidationChannel)
	if _, err := sub.Receive(b.ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe invalidation channel: %w", err)
	}

	go func() {
		for msg := range sub.Channel() {
			var inv SessionInvalidation
			if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
				log.Printf("[RedisBroadcaster] Dropping malformed invalidation: %v", err)
				continue
			}
			fn(inv)
		}
	}()

	return func() { sub.Close() }, nil
}

// Close stops the broadcaster and releases the redis connection
func (b *RedisBroadcaster) Close() error {
	b.cancel()
	return b.client.Close()
}
