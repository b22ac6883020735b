package livequery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/mhst/internal/logging"
)

// ErrClosed is returned by Watch after the hub has been closed.
var ErrClosed = errors.New("livequery: hub closed")

// Notifier receives table-change notifications.
type Notifier interface {
	Notify(tables ...string)
}

type runner interface {
	watches(table string) bool
	signal()
	shutdown()
}

// Hub routes table-change notifications to the publishers watching them.
type Hub struct {
	mu     sync.Mutex
	pubs   map[string]runner
	closed bool
	log    logging.Logger
}

func NewHub(log logging.Logger) *Hub {
	return &Hub{pubs: make(map[string]runner), log: log}
}

// Notify wakes every publisher watching at least one of tables. It never
// blocks on subscribers. Calling Notify on a nil hub is a no-op.
func (h *Hub) Notify(tables ...string) {
	if h == nil || len(tables) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.pubs {
		for _, t := range tables {
			if p.watches(t) {
				p.signal()
				break
			}
		}
	}
}

// Active returns the number of running publishers.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pubs)
}

// Close stops every publisher and closes every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	pubs := h.pubs
	h.pubs = make(map[string]runner)
	h.mu.Unlock()

	for _, p := range pubs {
		p.shutdown()
	}
}

// Watch subscribes to the query identified by key. fetch runs on the
// publisher's goroutine whenever any of tables changes. All subscribers of
// the same key must use the same T and are served by the first caller's fetch.
//
// The subscription ends on Close or when ctx is done.
func Watch[T any](ctx context.Context, h *Hub, key string, tables []string, fetch func(ctx context.Context) (T, error)) (*Subscription[T], error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}

	var p *publisher[T]
	if r, ok := h.pubs[key]; ok {
		p, ok = r.(*publisher[T])
		if !ok {
			h.mu.Unlock()
			return nil, fmt.Errorf("livequery: key %q already watched with a different type", key)
		}
	} else {
		p = newPublisher(h, key, tables, fetch)
		h.pubs[key] = p
		go p.run()
	}

	s := &Subscription[T]{pub: p, ch: make(chan Update[T], 1)}
	p.add(s)
	h.mu.Unlock()

	s.setStop(context.AfterFunc(ctx, s.Close))
	return s, nil
}

// Batch accumulates notifications and forwards them in one Notify on Flush.
// Writers inside a transaction notify the batch and flush it after commit so
// that subscribers never observe uncommitted state.
type Batch struct {
	target Notifier
	mu     sync.Mutex
	tables map[string]struct{}
}

func NewBatch(target Notifier) *Batch {
	return &Batch{target: target, tables: make(map[string]struct{})}
}

func (b *Batch) Notify(tables ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range tables {
		b.tables[t] = struct{}{}
	}
}

// Flush sends the collected tables to the target and resets the batch.
func (b *Batch) Flush() {
	b.mu.Lock()
	tables := make([]string, 0, len(b.tables))
	for t := range b.tables {
		tables = append(tables, t)
	}
	b.tables = make(map[string]struct{})
	b.mu.Unlock()

	if len(tables) == 0 || b.target == nil {
		return
	}
	sort.Strings(tables)
	b.target.Notify(tables...)
}

// Discard drops the collected tables, e.g. after a rollback.
func (b *Batch) Discard() {
	b.mu.Lock()
	b.tables = make(map[string]struct{})
	b.mu.Unlock()
}
