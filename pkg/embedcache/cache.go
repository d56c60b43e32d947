// Package embedcache is a bounded LRU with TTL eviction for generated
// embeddings, keyed by (content-type, id, text-hash) so a cache hit
// requires both the right id and the right text fingerprint.
package embedcache

import (
	"container/list"
	"sync"
	"time"

	"github.com/todozi/todozi/pkg/clock"
)

// Key identifies one cached vector.
type Key struct {
	ContentType string
	ID          string
	TextHash    string
}

// Entry is the cached value: the vector, which model produced it, and when
// it was last stored by Put (used only for TTL bookkeeping; Get does not
// refresh it, and eviction order is tracked separately by the LRU list).
type Entry struct {
	Vector     []float64
	ModelID    string
	LastAccess time.Time
}

type node struct {
	key   Key
	entry Entry
}

// Cache is safe for concurrent use; Get, Put and Evict are all mutex-guarded.
// Unlike pkg/registry, this cache cannot be backed by pkg/concurrent.Map: an
// LRU eviction needs the map lookup and the list move-to-front/push/remove to
// happen under one lock, and Map only exposes atomicity per individual call.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	clock      clock.Clock

	ll    *list.List
	items map[Key]*list.Element
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source, for deterministic TTL tests.
func WithClock(c clock.Clock) Option {
	return func(ca *Cache) { ca.clock = c }
}

// New returns a Cache bounded to maxEntries with the given TTL. A
// non-positive ttl disables expiry (entries only evict on LRU overflow).
func New(maxEntries int, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock.Real,
		ll:         list.New(),
		items:      make(map[Key]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached entry for key. An entry older than the configured
// TTL is treated as a miss and evicted.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return Entry{}, false
	}
	n := el.Value.(*node)
	if c.expired(n.entry) {
		c.removeElement(el)
		return Entry{}, false
	}
	c.ll.MoveToFront(el)
	return n.entry, true
}

// Put inserts or updates the entry for key, evicting the least-recently-used
// entry if the cache is over its configured bound.
func (c *Cache) Put(key Key, vector []float64, modelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry{Vector: vector, ModelID: modelID, LastAccess: c.clock.Now()}

	if el, ok := c.items[key]; ok {
		el.Value.(*node).entry = entry
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&node{key: key, entry: entry})
	c.items[key] = el

	for c.maxEntries > 0 && c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
}

// Evict removes key from the cache, if present.
func (c *Cache) Evict(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len returns the current number of stored entries; an entry past its TTL
// still counts here until it is next accessed.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) expired(e Entry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.clock.Now().Sub(e.LastAccess) > c.ttl
}

func (c *Cache) removeElement(el *list.Element) {
	n := el.Value.(*node)
	delete(c.items, n.key)
	c.ll.Remove(el)
}
