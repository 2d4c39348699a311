package bus

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPublishRecvOrder(t *testing.T) {
	b := New[int](8)
	sub := b.Subscribe()

	for i := 1; i <= 5; i++ {
		b.Publish(i)
	}

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		v, err := sub.Recv(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v != i {
			t.Errorf("Expected %d, got %d", i, v)
		}
	}
}

func TestFanOut(t *testing.T) {
	b := New[string](4)
	sub1 := b.Subscribe()
	sub2 := b.Subscribe()

	b.Publish("hello")

	ctx := context.Background()
	for _, sub := range []*Subscriber[string]{sub1, sub2} {
		v, err := sub.Recv(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v != "hello" {
			t.Errorf("Expected 'hello', got %q", v)
		}
	}
}

func TestLaggedSubscriber(t *testing.T) {
	b := New[int](4)
	sub := b.Subscribe()

	// Publisher must never block on a subscriber that stopped polling.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	ctx := context.Background()
	_, err := sub.Recv(ctx)
	var lag *LagError
	if !errors.As(err, &lag) {
		t.Fatalf("Expected LagError on resume, got %v", err)
	}
	if lag.Missed != 6 {
		t.Errorf("Expected 6 missed messages, got %d", lag.Missed)
	}

	// The oldest retained value follows the lag notification.
	v, err := sub.Recv(ctx)
	if err != nil {
		t.Fatalf("Expected no error after lag notification, got %v", err)
	}
	if v != 6 {
		t.Errorf("Expected oldest retained value 6, got %d", v)
	}
}

func TestCloseDrainsThenErrClosed(t *testing.T) {
	b := New[int](4)
	sub := b.Subscribe()

	b.Publish(1)
	b.Close()

	ctx := context.Background()
	v, err := sub.Recv(ctx)
	if err != nil {
		t.Fatalf("Expected buffered value before close error, got %v", err)
	}
	if v != 1 {
		t.Errorf("Expected 1, got %d", v)
	}

	_, err = sub.Recv(ctx)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New[int](4)
	sub := b.Subscribe()
	b.Close()
	b.Publish(42)

	_, err := sub.Recv(context.Background())
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestRecvHonorsContext(t *testing.T) {
	b := New[int](4)
	sub := b.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sub.Recv(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context deadline error, got %v", err)
	}
}
