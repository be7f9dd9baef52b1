// Package bus provides the in-process publish/subscribe channel bridging the
// engine to its consumers (the websocket hub and the sim-mode logger). The
// whole game is single-session, so a process-local fan-out replaces any
// external broker.
package bus

import (
	"context"
	"sync"
)

// subscriberBuffer is the per-subscriber channel buffer. Sends are
// non-blocking; a full subscriber drops messages rather than stalling the
// engine tick.
const subscriberBuffer = 128

// Bus is an in-process pub/sub fan-out keyed by channel name. Safe for
// concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan []byte
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		subs: make(map[string][]chan []byte),
	}
}

// Publish delivers payload to every subscriber of channel. Subscribers whose
// buffers are full are skipped.
func (b *Bus) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber on channel and returns a read-only
// payload channel. The subscription is removed and the channel closed when
// the context is cancelled.
func (b *Bus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		subs := b.subs[channel]
		for i, c := range subs {
			if c == ch {
				b.subs[channel] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}
