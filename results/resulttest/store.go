// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package resulttest

import (
	"time"

	"github.com/aulaweb/go-results/results"
)

// TestUserLifetime validates creating, fetching, and updating a user.
func (s *Suite) TestUserLifetime() {
	created := s.user("user-lifetime@example.com", false)

	found, err := s.Store.FindUser("user-lifetime@example.com")
	if s.NoError(err) {
		s.Equal(created, found)
	}

	// Saving the same email again updates in place
	updated := s.user("user-lifetime@example.com", true)
	s.Equal(created.ID, updated.ID)

	found, err = s.Store.FindUser("user-lifetime@example.com")
	if s.NoError(err) {
		s.True(found.Admin)
	}
}

// TestMissingUser validates the error from fetching an absent user.
func (s *Suite) TestMissingUser() {
	_, err := s.Store.FindUser("missing-user@example.com")
	s.Equal(results.ErrNoSuchUser{Email: "missing-user@example.com"}, err)
}

// TestResultLifetime validates a basic result lifetime.
func (s *Suite) TestResultLifetime() {
	owner := s.user("result-lifetime@example.com", false)
	created := s.record(owner, 42, testTime)

	found, err := s.Store.FindResult(created.ID)
	if s.NoError(err) {
		s.Equal(created.ID, found.ID)
		s.Equal(42, found.Value)
		s.True(testTime.Equal(found.OccurredAt))
		if s.NotNil(found.Owner) {
			s.Equal(owner.Email, found.Owner.Email)
		}
	}

	// Update in place
	found.Value = 43
	found.OccurredAt = testTime.Add(time.Hour)
	saved, err := s.Store.SaveResult(found)
	if s.NoError(err) {
		s.Equal(created.ID, saved.ID)
	}

	found, err = s.Store.FindResult(created.ID)
	if s.NoError(err) {
		s.Equal(43, found.Value)
		s.True(testTime.Add(time.Hour).Equal(found.OccurredAt))
	}

	// Delete, and then it is gone
	err = s.Store.DeleteResult(found)
	s.NoError(err)

	_, err = s.Store.FindResult(created.ID)
	s.Equal(results.ErrNoSuchResult{ID: created.ID}, err)

	err = s.Store.DeleteResult(found)
	s.Equal(results.ErrNoSuchResult{ID: created.ID}, err)
}

// TestUpdateMissingResult validates that saving a result with an ID
// that does not exist fails rather than resurrecting it.
func (s *Suite) TestUpdateMissingResult() {
	owner := s.user("update-missing@example.com", false)
	r := s.record(owner, 1, testTime)
	s.Require().NoError(s.Store.DeleteResult(r))

	_, err := s.Store.SaveResult(r)
	s.Equal(results.ErrNoSuchResult{ID: r.ID}, err)
}

// TestSaveResultRequiresOwner validates that an unowned result cannot
// be stored.
func (s *Suite) TestSaveResultRequiresOwner() {
	_, err := s.Store.SaveResult(&results.Result{
		Value:      1,
		OccurredAt: testTime,
	})
	s.Error(err)
}

// TestOwnerScoping validates that per-owner listings only see that
// owner's results.
func (s *Suite) TestOwnerScoping() {
	alice := s.user("scoping-alice@example.com", false)
	bob := s.user("scoping-bob@example.com", false)
	mine := s.record(alice, 1, testTime)
	s.record(bob, 2, testTime)

	listed, err := s.Store.FindResultsByOwner(alice.Email, results.SortByID)
	if s.NoError(err) && s.Len(listed, 1) {
		s.Equal(mine.ID, listed[0].ID)
	}

	listed, err = s.Store.FindResultsByOwner("scoping-nobody@example.com", results.SortByID)
	if s.NoError(err) {
		s.Empty(listed)
	}
}

// TestSorting validates the three listing orders.  Results with equal
// sort values come back in ID order.
func (s *Suite) TestSorting() {
	owner := s.user("sorting@example.com", false)
	first := s.record(owner, 30, testTime.Add(2*time.Hour))
	second := s.record(owner, 10, testTime.Add(3*time.Hour))
	third := s.record(owner, 20, testTime.Add(time.Hour))
	fourth := s.record(owner, 10, testTime.Add(4*time.Hour))

	ids := func(rs []*results.Result) []int {
		out := make([]int, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	listed, err := s.Store.FindResultsByOwner(owner.Email, results.SortByID)
	if s.NoError(err) {
		s.Equal([]int{first.ID, second.ID, third.ID, fourth.ID}, ids(listed))
	}

	listed, err = s.Store.FindResultsByOwner(owner.Email, results.SortByValue)
	if s.NoError(err) {
		s.Equal([]int{second.ID, fourth.ID, third.ID, first.ID}, ids(listed))
	}

	listed, err = s.Store.FindResultsByOwner(owner.Email, results.SortByDate)
	if s.NoError(err) {
		s.Equal([]int{third.ID, first.ID, second.ID, fourth.ID}, ids(listed))
	}
}

// TestOwnershipTransfer validates reassigning a result to another
// user.
func (s *Suite) TestOwnershipTransfer() {
	alice := s.user("transfer-alice@example.com", false)
	bob := s.user("transfer-bob@example.com", false)
	r := s.record(alice, 7, testTime)

	r.Owner = bob
	_, err := s.Store.SaveResult(r)
	s.Require().NoError(err)

	found, err := s.Store.FindResult(r.ID)
	if s.NoError(err) && s.NotNil(found.Owner) {
		s.Equal(bob.Email, found.Owner.Email)
	}

	listed, err := s.Store.FindResultsByOwner(alice.Email, results.SortByID)
	if s.NoError(err) {
		s.Empty(listed)
	}
}

// TestSummarize validates the per-owner counts.
func (s *Suite) TestSummarize() {
	owner := s.user("summarize@example.com", false)
	s.record(owner, 1, testTime)
	s.record(owner, 2, testTime)

	summary, err := s.Store.Summarize()
	s.Require().NoError(err)
	s.Contains(summary, results.OwnerCount{Owner: owner.Email, Count: 2})
}

// TestStoredCopiesAreIsolated validates that mutating a fetched
// result does not change the stored row until it is saved back.
func (s *Suite) TestStoredCopiesAreIsolated() {
	owner := s.user("isolation@example.com", false)
	r := s.record(owner, 5, testTime)

	staged, err := s.Store.FindResult(r.ID)
	s.Require().NoError(err)
	staged.Value = 99
	staged.Owner.Email = "someone-else@example.com"

	found, err := s.Store.FindResult(r.ID)
	if s.NoError(err) {
		s.Equal(5, found.Value)
		s.Equal(owner.Email, found.Owner.Email)
	}
}
