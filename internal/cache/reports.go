// Package cache keeps recently rendered report files in memory so
// repeated downloads of an unchanged session don't re-run the engine.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Reports is an LRU cache of rendered report files with TTL-based
// expiry. Keys encode the variant plus the session revision, so any
// dataset or override mutation naturally misses the cache.
type Reports struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	byKey   map[string]*list.Element
	order   *list.List
}

type entry struct {
	key       string
	content   []byte
	expiresAt time.Time
}

func NewReports(maxSize int, ttl time.Duration) *Reports {
	return &Reports{
		maxSize: maxSize,
		ttl:     ttl,
		byKey:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached file for a key, refreshing its LRU position.
func (c *Reports) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return e.content, true
}

// Put stores a rendered file, evicting the oldest entry when full.
func (c *Reports) Put(key string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{key: key, content: content, expiresAt: time.Now().Add(c.ttl)}
	if elem, ok := c.byKey[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}
	c.byKey[key] = c.order.PushFront(e)
	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Prune drops all expired entries, returning how many were removed.
func (c *Reports) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var stale []*list.Element
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry).expiresAt) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		c.remove(elem)
	}
	return len(stale)
}

// Len returns the number of cached files.
func (c *Reports) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byKey)
}

func (c *Reports) remove(elem *list.Element) {
	delete(c.byKey, elem.Value.(*entry).key)
	c.order.Remove(elem)
}
