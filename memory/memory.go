// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// the results store.  There is no persistence.  The entire store is
// behind a single mutex to protect against concurrent updates; it is
// tuned for correctness, not scalability.
//
// This is mostly intended as a simple reference implementation that
// can be used for testing, including in-process testing of
// higher-level components, and for running the daemon without a
// database.
package memory

import (
	"sort"
	"sync"

	"github.com/aulaweb/go-results/results"
)

// NewStore creates a new results store that operates purely in
// memory.  Each call creates an independent world.
func NewStore() results.Store {
	return &memStore{
		results: make(map[int]*results.Result),
		users:   make(map[string]*results.User),
	}
}

type memStore struct {
	sem          sync.Mutex
	results      map[int]*results.Result
	users        map[string]*results.User
	nextResultID int
	nextUserID   int
}

// The store owns every entity it holds; everything handed out is a
// private copy so that callers can stage mutations without touching
// stored state before SaveResult.

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

func (s *memStore) FindResult(id int) (*results.Result, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	r, present := s.results[id]
	if !present {
		return nil, results.ErrNoSuchResult{ID: id}
	}
	return copyResult(r), nil
}

func (s *memStore) FindResults(sortKey results.SortKey) ([]*results.Result, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	return s.collect(func(*results.Result) bool { return true }, sortKey), nil
}

func (s *memStore) FindResultsByOwner(email string, sortKey results.SortKey) ([]*results.Result, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	return s.collect(func(r *results.Result) bool {
		return r.Owner != nil && r.Owner.Email == email
	}, sortKey), nil
}

// collect gathers matching results as copies, sorted ascending.  Runs
// under the store lock.
func (s *memStore) collect(match func(*results.Result) bool, sortKey results.SortKey) []*results.Result {
	var rs []*results.Result
	for _, r := range s.results {
		if match(r) {
			rs = append(rs, copyResult(r))
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		switch sortKey {
		case results.SortByValue:
			if a.Value != b.Value {
				return a.Value < b.Value
			}
		case results.SortByDate:
			if !a.OccurredAt.Equal(b.OccurredAt) {
				return a.OccurredAt.Before(b.OccurredAt)
			}
		}
		return a.ID < b.ID
	})
	return rs
}

func (s *memStore) SaveResult(r *results.Result) (*results.Result, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	if r.Owner == nil {
		return nil, results.ErrNoSuchUser{}
	}
	saved := copyResult(r)
	if saved.ID == 0 {
		s.nextResultID++
		saved.ID = s.nextResultID
	} else if _, present := s.results[saved.ID]; !present {
		return nil, results.ErrNoSuchResult{ID: saved.ID}
	}
	s.results[saved.ID] = saved
	return copyResult(saved), nil
}

func (s *memStore) DeleteResult(r *results.Result) error {
	s.sem.Lock()
	defer s.sem.Unlock()

	if _, present := s.results[r.ID]; !present {
		return results.ErrNoSuchResult{ID: r.ID}
	}
	delete(s.results, r.ID)
	return nil
}

func (s *memStore) FindUser(email string) (*results.User, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	u, present := s.users[email]
	if !present {
		return nil, results.ErrNoSuchUser{Email: email}
	}
	return copyUser(u), nil
}

func (s *memStore) SaveUser(u *results.User) (*results.User, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	saved := copyUser(u)
	if saved.ID == 0 {
		s.nextUserID++
		saved.ID = s.nextUserID
	}
	s.users[saved.Email] = saved
	return copyUser(saved), nil
}

func (s *memStore) Summarize() (results.Summary, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	counts := make(map[string]int)
	for _, r := range s.results {
		if r.Owner != nil {
			counts[r.Owner.Email]++
		}
	}
	owners := make([]string, 0, len(counts))
	for owner := range counts {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	summary := make(results.Summary, len(owners))
	for i, owner := range owners {
		summary[i] = results.OwnerCount{Owner: owner, Count: counts[owner]}
	}
	return summary, nil
}
