// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package cache_test

import (
	"testing"
	"time"

	"github.com/aulaweb/go-results/cache"
	"github.com/aulaweb/go-results/memory"
	"github.com/aulaweb/go-results/results"
	"github.com/aulaweb/go-results/results/resulttest"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic store test suite running against a cached
// in-memory backend.  It proves the cache decorator is transparent,
// including reading your own writes through the cache.
type Suite struct {
	resulttest.Suite
}

// SetupTest gives every test a fresh, empty world.
func (s *Suite) SetupTest() {
	s.Store = cache.NewStore(memory.NewStore())
}

// TestStore runs the store generic tests.
func TestStore(t *testing.T) {
	suite.Run(t, &Suite{})
}

// setUp builds a cached store over a shared backend, so tests can
// model another process writing around the cache.
func setUp(t *testing.T, clk clock.Clock) (cached, backend results.Store, owner *results.User) {
	backend = memory.NewStore()
	cached = cache.NewStoreWithClock(backend, clk)
	owner, err := backend.SaveUser(&results.User{Email: "someone@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestStaleReads(t *testing.T) {
	clk := clock.NewMock()
	cached, backend, owner := setUp(t, clk)

	created, err := backend.SaveResult(&results.Result{
		Value:      1,
		Owner:      owner,
		OccurredAt: time.Now().UTC(),
	})
	if !assert.NoError(t, err) {
		return
	}

	// Prime the cache
	found, err := cached.FindResult(created.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, 1, found.Value)
	}

	// Another process updates the backend directly; the cached
	// store serves the old value until the TTL elapses
	created.Value = 2
	_, err = backend.SaveResult(created)
	assert.NoError(t, err)

	found, err = cached.FindResult(created.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, 1, found.Value)
	}

	clk.Add(time.Minute)
	found, err = cached.FindResult(created.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, 2, found.Value)
	}
}

func TestReadYourWrites(t *testing.T) {
	clk := clock.NewMock()
	cached, _, owner := setUp(t, clk)

	created, err := cached.SaveResult(&results.Result{
		Value:      1,
		Owner:      owner,
		OccurredAt: time.Now().UTC(),
	})
	if !assert.NoError(t, err) {
		return
	}

	// A write through the cached store is immediately visible,
	// with no TTL wait
	created.Value = 2
	_, err = cached.SaveResult(created)
	assert.NoError(t, err)

	found, err := cached.FindResult(created.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, 2, found.Value)
	}

	// So is a delete
	err = cached.DeleteResult(created)
	assert.NoError(t, err)
	_, err = cached.FindResult(created.ID)
	assert.Equal(t, results.ErrNoSuchResult{ID: created.ID}, err)
}

func TestCachedCopiesAreIsolated(t *testing.T) {
	clk := clock.NewMock()
	cached, _, owner := setUp(t, clk)

	created, err := cached.SaveResult(&results.Result{
		Value:      1,
		Owner:      owner,
		OccurredAt: time.Now().UTC(),
	})
	if !assert.NoError(t, err) {
		return
	}

	// Mutating a fetched result must not poison the cache entry
	staged, err := cached.FindResult(created.ID)
	if !assert.NoError(t, err) {
		return
	}
	staged.Value = 99

	found, err := cached.FindResult(created.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, 1, found.Value)
	}
}
