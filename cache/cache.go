// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache provides caching of single-entity lookups in front of
// a slower results store.  The cache wraps some other store; result
// and user fetches by key are served from an LRU with a short TTL,
// and everything else passes through to the underlying store.
//
// Writes through this store invalidate the affected cache entries, so
// a single process using one cached store always reads its own
// writes.  A result modified by *another* process can be served stale
// for up to the TTL; the optimistic-locking protocol upstream turns
// that staleness into a retryable precondition failure rather than a
// lost update, which is why the TTL is safe to carry at all.
// Collection listings are never cached: their fingerprints must
// always reflect the live store.
package cache

import (
	"strconv"
	"time"

	"github.com/aulaweb/go-results/results"
	"github.com/benbjohnson/clock"
)

const (
	cacheSize = 128
	cacheTTL  = 30 * time.Second
)

// NewStore creates a new caching store, wrapping some other store.
func NewStore(backend results.Store) results.Store {
	return NewStoreWithClock(backend, clock.New())
}

// NewStoreWithClock creates a new caching store using an explicit
// time source for entry expiry.  Most application code should call
// NewStore(); this entry point is intended for tests that need to
// inject a mock time source.
func NewStoreWithClock(backend results.Store, clk clock.Clock) results.Store {
	return &cacheStore{
		backend: backend,
		results: newLRU(cacheSize, cacheTTL, clk),
		users:   newLRU(cacheSize, cacheTTL, clk),
	}
}

type cacheStore struct {
	backend results.Store
	results *lru
	users   *lru
}

func resultKey(id int) string {
	return strconv.Itoa(id)
}

// The cache owns its entries the same way a store owns its rows:
// callers get private copies, so that one request staging a mutation
// cannot leak it into another request's fetch.

func copyUser(u *results.User) *results.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func copyResult(r *results.Result) *results.Result {
	c := *r
	c.Owner = copyUser(r.Owner)
	return &c
}

func (c *cacheStore) FindResult(id int) (*results.Result, error) {
	value, err := c.results.Get(resultKey(id), func(string) (interface{}, error) {
		return c.backend.FindResult(id)
	})
	if err != nil {
		return nil, err
	}
	return copyResult(value.(*results.Result)), nil
}

func (c *cacheStore) FindResults(sort results.SortKey) ([]*results.Result, error) {
	return c.backend.FindResults(sort)
}

func (c *cacheStore) FindResultsByOwner(email string, sort results.SortKey) ([]*results.Result, error) {
	return c.backend.FindResultsByOwner(email, sort)
}

func (c *cacheStore) SaveResult(r *results.Result) (*results.Result, error) {
	saved, err := c.backend.SaveResult(r)
	if err != nil {
		return nil, err
	}
	c.results.Put(resultKey(saved.ID), copyResult(saved))
	return saved, nil
}

func (c *cacheStore) DeleteResult(r *results.Result) error {
	err := c.backend.DeleteResult(r)
	if err == nil {
		c.results.Remove(resultKey(r.ID))
	}
	return err
}

func (c *cacheStore) FindUser(email string) (*results.User, error) {
	value, err := c.users.Get(email, func(string) (interface{}, error) {
		return c.backend.FindUser(email)
	})
	if err != nil {
		return nil, err
	}
	return copyUser(value.(*results.User)), nil
}

func (c *cacheStore) SaveUser(u *results.User) (*results.User, error) {
	saved, err := c.backend.SaveUser(u)
	if err != nil {
		return nil, err
	}
	c.users.Put(saved.Email, copyUser(saved))
	return saved, nil
}

func (c *cacheStore) Summarize() (results.Summary, error) {
	return c.backend.Summarize()
}
