package bus

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := b.Subscribe(ctx, "races")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	second, err := b.Subscribe(ctx, "races")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	payload := []byte(`{"event":"race_update"}`)
	if err := b.Publish(ctx, "races", payload); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for i, ch := range []<-chan []byte{first, second} {
		select {
		case got := <-ch:
			if string(got) != string(payload) {
				t.Errorf("subscriber %d got %q, want %q", i, got, payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never received the payload", i)
		}
	}
}

func TestPublishIsScopedToChannel(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	races, _ := b.Subscribe(ctx, "races")
	ledger, _ := b.Subscribe(ctx, "ledger")

	if err := b.Publish(ctx, "races", []byte("x")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-races:
	case <-time.After(time.Second):
		t.Fatal("races subscriber never received the payload")
	}

	select {
	case got := <-ledger:
		t.Fatalf("ledger subscriber received %q for a races publish", got)
	default:
	}
}

func TestPublishWithoutSubscribersIsANoOp(t *testing.T) {
	b := New()
	if err := b.Publish(context.Background(), "races", []byte("x")); err != nil {
		t.Fatalf("publish to empty channel: %v", err)
	}
}

func TestPublishSkipsFullSubscriber(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slow, _ := b.Subscribe(ctx, "races")

	// Overfill the buffer; Publish must never block on the slow consumer.
	for i := 0; i < subscriberBuffer+10; i++ {
		if err := b.Publish(ctx, "races", []byte("x")); err != nil {
			t.Fatalf("publish #%d: %v", i, err)
		}
	}

	// The subscriber still drains exactly a buffer's worth.
	drained := 0
	for {
		select {
		case <-slow:
			drained++
			continue
		default:
		}
		break
	}
	if drained != subscriberBuffer {
		t.Errorf("drained %d messages, want %d", drained, subscriberBuffer)
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, "races")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("received a payload instead of a close")
		}
	case <-time.After(time.Second):
		t.Fatal("channel never closed after cancel")
	}

	// Publishing after removal must not panic or deliver.
	if err := b.Publish(context.Background(), "races", []byte("x")); err != nil {
		t.Fatalf("publish after cancel: %v", err)
	}
}
