package livequery

import (
	"context"
	"sync"
)

// Update is one snapshot of a live query. Err is set when the fetch failed;
// Value is then the zero value.
type Update[T any] struct {
	Value T
	Err   error
}

// Subscription receives snapshots of one live query.
type Subscription[T any] struct {
	pub  *publisher[T]
	stop func() bool

	mu     sync.Mutex
	ch     chan Update[T]
	closed bool
	once   sync.Once
}

// Updates returns the delivery channel. It is closed when the subscription
// ends.
func (s *Subscription[T]) Updates() <-chan Update[T] {
	return s.ch
}

// Next waits for the next snapshot. It returns ErrClosed once the
// subscription has ended.
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case u, ok := <-s.ch:
		if !ok {
			return zero, ErrClosed
		}
		return u.Value, u.Err
	}
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.release()
		s.pub.remove(s)
	})
}

func (s *Subscription[T]) setStop(stop func() bool) {
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
}

// release unregisters the context callback, if any.
func (s *Subscription[T]) release() {
	s.mu.Lock()
	stop := s.stop
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (s *Subscription[T]) deliver(u Update[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- u
}

func (s *Subscription[T]) closeChan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
