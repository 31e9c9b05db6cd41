// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ValkeyBroker distributes change events over Valkey pub/sub so watchers
// connected to one instance see mutations performed on another.
type ValkeyBroker struct {
	client *redis.Client
}

// NewValkeyBroker wraps an already-connected Valkey client.
func NewValkeyBroker(client *redis.Client) *ValkeyBroker {
	return &ValkeyBroker{client: client}
}

// Publish sends an empty change event on topic.
func (b *ValkeyBroker) Publish(ctx context.Context, topic string) error {
	return b.client.Publish(ctx, topic, "").Err()
}

// Subscribe opens a Valkey subscription on topic and forwards each
// message as an empty event. The returned stop function is idempotent;
// it closes the subscription, which ends the forwarding goroutine.
func (b *ValkeyBroker) Subscribe(ctx context.Context, topic string) (<-chan struct{}, func()) {
	sub := b.client.Subscribe(ctx, topic)
	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for range sub.Channel() {
			// Collapse bursts the same way LocalBroker does.
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			if err := sub.Close(); err != nil {
				slog.Warn("valkey unsubscribe failed", "topic", topic, "error", err)
			}
		})
	}
	return ch, stop
}
