package livequery

import (
	"context"
	"sync"
)

type publisher[T any] struct {
	hub    *Hub
	key    string
	tables map[string]struct{}
	fetch  func(ctx context.Context) (T, error)

	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}
	done   chan struct{}

	mu     sync.Mutex
	subs   map[*Subscription[T]]struct{}
	latest *Update[T]
}

func newPublisher[T any](h *Hub, key string, tables []string, fetch func(ctx context.Context) (T, error)) *publisher[T] {
	ctx, cancel := context.WithCancel(context.Background())
	p := &publisher[T]{
		hub:    h,
		key:    key,
		tables: make(map[string]struct{}, len(tables)),
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		subs:   make(map[*Subscription[T]]struct{}),
	}
	for _, t := range tables {
		p.tables[t] = struct{}{}
	}
	return p
}

func (p *publisher[T]) watches(table string) bool {
	_, ok := p.tables[table]
	return ok
}

func (p *publisher[T]) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *publisher[T]) run() {
	defer close(p.done)
	for {
		v, err := p.fetch(p.ctx)
		if p.ctx.Err() != nil {
			return
		}
		if err != nil && p.hub.log != nil {
			p.hub.log.Error(p.ctx, "live query failed", "key", p.key, "error", err)
		}
		p.publish(Update[T]{Value: v, Err: err})

		select {
		case <-p.ctx.Done():
			return
		case <-p.wake:
		}
	}
}

func (p *publisher[T]) publish(u Update[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = &u
	for s := range p.subs {
		s.deliver(u)
	}
}

// add registers s and replays the latest snapshot. Caller holds hub.mu.
func (p *publisher[T]) add(s *Subscription[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs[s] = struct{}{}
	if p.latest != nil {
		s.deliver(*p.latest)
	}
}

// remove unregisters s and stops the publisher when it was the last one.
func (p *publisher[T]) remove(s *Subscription[T]) {
	h := p.hub
	h.mu.Lock()
	p.mu.Lock()
	delete(p.subs, s)
	last := len(p.subs) == 0
	if last && h.pubs[p.key] == runner(p) {
		delete(h.pubs, p.key)
	}
	p.mu.Unlock()
	h.mu.Unlock()

	s.closeChan()
	if last {
		p.cancel()
		<-p.done
	}
}

// shutdown closes every subscription and stops the loop. The publisher has
// already been detached from the hub.
func (p *publisher[T]) shutdown() {
	p.mu.Lock()
	subs := make([]*Subscription[T], 0, len(p.subs))
	for s := range p.subs {
		subs = append(subs, s)
	}
	p.subs = make(map[*Subscription[T]]struct{})
	p.mu.Unlock()

	for _, s := range subs {
		s.once.Do(func() {
			s.release()
			s.closeChan()
		})
	}
	p.cancel()
	<-p.done
}
