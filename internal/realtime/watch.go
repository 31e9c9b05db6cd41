// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package realtime

import (
	"context"
	"log/slog"
	"sync"
)

// ListFunc fetches the current, fully sorted sibling list for a scope.
type ListFunc[T any] func(ctx context.Context) ([]T, error)

// Watch projects a scope onto a subscriber: deliver is called once with
// the current list immediately, then again with a fresh list after every
// change event on topic, until stop is called or ctx ends. A failed
// re-read keeps the previous delivery in place and is retried on the
// next event.
//
// The returned stop function is idempotent and joins the watch
// goroutine: once stop returns, deliver will never run again, so the
// caller may release whatever deliver writes to.
func Watch[T any](ctx context.Context, b Broker, topic string, list ListFunc[T], deliver func([]T)) (func(), error) {
	items, err := list(ctx)
	if err != nil {
		return nil, err
	}
	deliver(items)

	events, unsubscribe := b.Subscribe(ctx, topic)

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				items, err := list(ctx)
				if err != nil {
					slog.Warn("watch re-read failed", "topic", topic, "error", err)
					continue
				}
				// A stop issued while the re-read was in flight wins
				// over the delivery.
				select {
				case <-done:
					return
				default:
				}
				deliver(items)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			unsubscribe()
		})
		<-exited
	}
	return stop, nil
}
