// Package cache memoizes API results for the lifetime of the process.
// There is no eviction and no TTL: the working set is one user's data.
package cache

import (
	"sync"

	"github.com/and161185/glnotes/internal/model"
)

// Map is a concurrency-safe memo keyed by natural identity.
type Map[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// NewMap returns an empty Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Get returns the cached value for k.
func (c *Map[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[k]
	return v, ok
}

// Put stores v under k, replacing any previous value.
func (c *Map[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = v
}

// Len returns the number of cached entries.
func (c *Map[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Listing caches a whole collection fetched at once, preserving server order.
// Loaded distinguishes "never fetched" from "fetched and empty".
type Listing[K comparable, V any] struct {
	mu     sync.RWMutex
	key    func(V) K
	items  []V
	byKey  map[K]V
	loaded bool
}

// NewListing returns an unloaded Listing keyed by key.
func NewListing[K comparable, V any](key func(V) K) *Listing[K, V] {
	return &Listing[K, V]{key: key}
}

// Fill replaces the cached collection and marks it loaded.
func (l *Listing[K, V]) Fill(items []V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(make([]V, 0, len(items)), items...)
	l.byKey = make(map[K]V, len(items))
	for _, it := range items {
		l.byKey[l.key(it)] = it
	}
	l.loaded = true
}

// Loaded reports whether Fill has been called.
func (l *Listing[K, V]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// All returns a copy of the collection in server order, and whether it was loaded.
func (l *Listing[K, V]) All() ([]V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, false
	}
	return append(make([]V, 0, len(l.items)), l.items...), true
}

// Get returns the item with key k.
func (l *Listing[K, V]) Get(k K) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.byKey[k]
	return v, ok
}

// Set groups the caches of one session.
type Set struct {
	Documents *Map[string, model.Document]
	Folders   *Listing[string, model.Folder]
	Tags      *Listing[string, model.Tag]
}

// NewSet returns empty caches.
func NewSet() *Set {
	return &Set{
		Documents: NewMap[string, model.Document](),
		Folders:   NewListing(model.FolderKey),
		Tags:      NewListing(func(t model.Tag) string { return t.ID }),
	}
}
