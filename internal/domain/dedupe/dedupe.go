// Package dedupe tracks already-submitted candidate ids so each candidate
// is scored at most once per profile generation.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen candidate ids.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it if
	// not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id so a failed submission can be retried. Use it
	// only to roll back a SeenAndRecord that could not be followed through
	// (e.g. queue backpressure).
	Unrecord(ctx context.Context, id string)

	// Reset forgets everything; called when the profile changes and every
	// candidate becomes eligible for re-scoring.
	Reset(ctx context.Context)

	Size() int64
}

// entry is one node of the recency list used for bounded eviction.
type entry struct {
	id   string
	next *entry
}

func (e *entry) reset() {
	e.id = ""
	e.next = nil
}

// inMemoryDeduper keeps seen ids in a map plus a singly linked list ordered
// by recency. With maxSize > 0 the oldest entries are evicted once the cap
// is hit; nodes are recycled through a sync.Pool. With maxSize <= 0 the set
// is unbounded and the list is unused.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*entry
	head    *entry
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// NewInMemoryDeduper creates an in-memory deduper with configuration
// options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*entry)
	d.pool = sync.Pool{New: func() any { return &entry{} }}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		e := d.pool.Get().(*entry)
		e.id = id
		e.next = d.head
		d.head = e
		d.seen[id] = e
	} else {
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)

	if d.maxSize <= 0 {
		return
	}
	if d.head == e {
		d.head = e.next
	} else {
		for cur := d.head; cur != nil; cur = cur.next {
			if cur.next == e {
				cur.next = e.next
				break
			}
		}
	}
	e.reset()
	d.pool.Put(e)
}

func (d *inMemoryDeduper) Reset(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for e := d.head; e != nil; {
		next := e.next
		e.reset()
		d.pool.Put(e)
		e = next
	}
	d.head = nil
	d.seen = make(map[string]*entry)
	d.size.Store(0)
}

// evictOldest drops the tail of the recency list. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	if d.head == nil {
		return
	}
	if d.head.next == nil {
		delete(d.seen, d.head.id)
		d.head.reset()
		d.pool.Put(d.head)
		d.head = nil
		d.size.Add(-1)
		return
	}

	prev := d.head
	for prev.next.next != nil {
		prev = prev.next
	}
	tail := prev.next
	prev.next = nil
	delete(d.seen, tail.id)
	tail.reset()
	d.pool.Put(tail)
	d.size.Add(-1)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
