// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package cache

// This file provides a simple LRU cache with per-entry expiry.  I
// know of several other implementations, though it is a pretty simple
// concept; none of the ones I've looked at combine fetch-through,
// recency eviction, and a mockable time source in a way that stays
// this small.

import (
	"container/list"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// entry is one cached item.
type entry struct {
	key     string
	value   interface{}
	expires time.Time
}

// lru is a least-recently-used cache with a fixed capacity and a
// fixed time-to-live.  The cache can be safely accessed from multiple
// goroutines.
type lru struct {
	size      int
	ttl       time.Duration
	clock     clock.Clock
	lock      sync.Mutex
	evictList *list.List
	index     map[string]*list.Element
}

func newLRU(size int, ttl time.Duration, clk clock.Clock) *lru {
	return &lru{
		size:      size,
		ttl:       ttl,
		clock:     clk,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// Get retrieves an item from the cache.  If it is not present, or its
// TTL has elapsed, calls the fetch function, and if that succeeds,
// saves the item and returns it.  This returns an error only if the
// item needed fetching and the fetch function returned an error.
func (lru *lru) Get(key string, fetch func(string) (interface{}, error)) (interface{}, error) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		e := element.Value.(*entry)
		if lru.clock.Now().Before(e.expires) {
			lru.evictList.MoveToBack(element)
			return e.value, nil
		}
		// Expired; drop it and refetch
		delete(lru.index, key)
		lru.evictList.Remove(element)
	}

	value, err := fetch(key)
	if err != nil {
		return value, err
	}
	lru.add(key, value)
	return value, nil
}

// Put adds an item to the LRU cache, possibly evicting something.
func (lru *lru) Put(key string, value interface{}) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		e := element.Value.(*entry)
		e.value = value
		e.expires = lru.clock.Now().Add(lru.ttl)
		lru.evictList.MoveToBack(element)
		return
	}
	lru.add(key, value)
}

// Remove takes an item out of the cache.  It does nothing if that key
// does not exist.
func (lru *lru) Remove(key string) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		delete(lru.index, key)
		lru.evictList.Remove(element)
	}
}

// add is an internal helper, running under the lock, that adds a new
// item to the cache.  The item is known to not already exist.
func (lru *lru) add(key string, value interface{}) {
	element := lru.evictList.PushBack(&entry{
		key:     key,
		value:   value,
		expires: lru.clock.Now().Add(lru.ttl),
	})
	lru.index[key] = element

	// If this caused the cache to go over size, start evicting items
	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		e := head.Value.(*entry)
		delete(lru.index, e.key)
		lru.evictList.Remove(head)
	}
}
