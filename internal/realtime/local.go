// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package realtime

import (
	"context"
	"sync"
)

// LocalBroker is an in-process Broker. It serves single-instance
// deployments and tests; multi-instance deployments use ValkeyBroker so
// watchers on every instance see mutations made on any of them.
type LocalBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]bool
}

// NewLocalBroker returns an empty in-process broker.
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[chan struct{}]bool)}
}

// Publish signals every subscriber of topic. A subscriber that has not
// drained its previous event is skipped, not blocked on: events are
// pure "something changed" signals, so collapsing bursts is fine.
func (b *LocalBroker) Publish(_ context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribe registers a listener on topic. The returned stop function is
// idempotent.
func (b *LocalBroker) Subscribe(_ context.Context, topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan struct{}]bool)
	}
	b.subs[topic][ch] = true
	b.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], ch)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, stop
}
