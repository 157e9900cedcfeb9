// Package cache provides a small in-process store with a capacity cap and
// idle-timeout expiry. Entries are evicted least-recently-used once the cap is
// reached; reads refresh recency. It backs both the session store and the
// config record caches.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key      K
	value    V
	lastUsed time.Time
}

type Store[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	idleTTL  time.Duration
	order    *list.List // front = most recently used
	items    map[K]*list.Element
}

// New creates a store holding at most capacity entries, expiring entries idle
// longer than idleTTL. A zero capacity means unbounded; a zero idleTTL means
// entries never expire.
func New[K comparable, V any](capacity int, idleTTL time.Duration) *Store[K, V] {
	return &Store[K, V]{
		capacity: capacity,
		idleTTL:  idleTTL,
		order:    list.New(),
		items:    make(map[K]*list.Element),
	}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	el, ok := s.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if s.expired(e) {
		s.evict(el)
		return zero, false
	}
	e.lastUsed = time.Now()
	s.order.MoveToFront(el)
	return e.value, true
}

func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.lastUsed = time.Now()
		s.order.MoveToFront(el)
		return
	}

	el := s.order.PushFront(&entry[K, V]{key: key, value: value, lastUsed: time.Now()})
	s.items[key] = el

	for s.capacity > 0 && s.order.Len() > s.capacity {
		s.evict(s.order.Back())
	}
}

func (s *Store[K, V]) Remove(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.evict(el)
	}
}

// Len counts entries that have not yet expired.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for el := s.order.Front(); el != nil; el = el.Next() {
		if !s.expired(el.Value.(*entry[K, V])) {
			n++
		}
	}
	return n
}

func (s *Store[K, V]) expired(e *entry[K, V]) bool {
	return s.idleTTL > 0 && time.Since(e.lastUsed) >= s.idleTTL
}

func (s *Store[K, V]) evict(el *list.Element) {
	if el == nil {
		return
	}
	e := el.Value.(*entry[K, V])
	delete(s.items, e.key)
	s.order.Remove(el)
}
