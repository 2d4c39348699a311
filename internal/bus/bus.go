package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Package bus implements a bounded multi-producer multi-consumer broadcast
// channel. Publishing never blocks: a subscriber that falls behind loses its
// oldest buffered values and observes a LagError on its next receive, after
// which receiving resumes normally.

// Default buffer capacity per subscriber.
const DefaultCapacity = 16

// ErrClosed is returned by Recv after the bus is closed and the
// subscriber's buffer is drained.
var ErrClosed = errors.New("bus: closed")

// LagError reports values a slow subscriber missed.
type LagError struct {
	Missed uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("bus: subscriber lagged, missed %d messages", e.Missed)
}

// Bus is a broadcast channel of values of type T. The zero value is not
// usable; create one with New.
type Bus[T any] struct {
	mu       sync.Mutex
	capacity int
	subs     map[*Subscriber[T]]struct{}
	closed   bool
	done     chan struct{}
}

// Subscriber receives values published on a Bus. Each subscriber has its own
// FIFO buffer; independent subscribers do not affect each other.
type Subscriber[T any] struct {
	bus    *Bus[T]
	mu     sync.Mutex
	ch     chan T
	missed uint64
}

// New creates a bus whose subscribers buffer up to capacity values.
// Non-positive capacities fall back to DefaultCapacity.
func New[T any](capacity int) *Bus[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus[T]{
		capacity: capacity,
		subs:     make(map[*Subscriber[T]]struct{}),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a new subscriber. A subscriber created after the bus
// is closed observes ErrClosed immediately.
func (b *Bus[T]) Subscribe() *Subscriber[T] {
	s := &Subscriber[T]{
		bus: b,
		ch:  make(chan T, b.capacity),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.subs[s] = struct{}{}
	}
	return s
}

// Publish delivers v to every current subscriber. It never blocks and never
// fails the caller; full subscribers drop their oldest buffered value.
// Publishing on a closed bus is a no-op.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	subs := make([]*Subscriber[T], 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return
	}
	for _, s := range subs {
		s.push(v)
	}
}

// Close marks the bus closed. Subscribers drain their buffers and then
// observe ErrClosed. Close is idempotent.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

func (s *Subscriber[T]) push(v T) {
	// The subscriber mutex serializes competing publishers so that the
	// drop-one-then-send sequence cannot overfill the channel.
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case s.ch <- v:
		return
	default:
	}
	select {
	case <-s.ch:
		s.missed++
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

// Recv returns the next buffered value. When the subscriber has missed
// values it first returns a *LagError carrying the count; the following
// Recv resumes with the oldest retained value. After the bus closes and the
// buffer drains, Recv returns ErrClosed.
func (s *Subscriber[T]) Recv(ctx context.Context) (T, error) {
	var zero T

	s.mu.Lock()
	missed := s.missed
	s.missed = 0
	s.mu.Unlock()
	if missed > 0 {
		return zero, &LagError{Missed: missed}
	}

	// Drain buffered values before honoring close.
	select {
	case v := <-s.ch:
		return v, nil
	default:
	}

	select {
	case v := <-s.ch:
		return v, nil
	case <-s.bus.done:
		select {
		case v := <-s.ch:
			return v, nil
		default:
			return zero, ErrClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len reports how many values are currently buffered.
func (s *Subscriber[T]) Len() int {
	return len(s.ch)
}
