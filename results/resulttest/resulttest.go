// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package resulttest provides generic functional tests for the
// results Store interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//	package mybackend
//
//	import (
//	        "testing"
//	        "github.com/aulaweb/go-results/results/resulttest"
//	        "github.com/stretchr/testify/suite"
//	)
//
//	// Suite is the per-backend generic test suite.
//	type Suite struct{
//	        resulttest.Suite
//	}
//
//	// SetupSuite does global setup for the test suite.
//	func (s *Suite) SetupSuite() {
//	        s.Store = NewStore()
//	}
//
//	// TestStore runs the store generic tests.
//	func TestStore(t *testing.T) {
//	        suite.Run(t, &Suite{})
//	}
//
// The tests scope their data by per-test user emails, so they can run
// against a shared database that holds other data.
package resulttest

import (
	"time"

	"github.com/aulaweb/go-results/results"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic results store test suite.
type Suite struct {
	suite.Suite

	// Store contains the backend under test.  It is set by
	// importing packages.
	Store results.Store

	// created tracks the results this test made, for teardown.
	created []*results.Result
}

// TearDownTest removes the results each test created, so that reruns
// against a persistent database start from the same state.  Results a
// test already deleted itself are ignored.
func (s *Suite) TearDownTest() {
	for _, r := range s.created {
		_ = s.Store.DeleteResult(r)
	}
	s.created = nil
}

// user creates (or refreshes) a user record for this test.
func (s *Suite) user(email string, admin bool) *results.User {
	u, err := s.Store.SaveUser(&results.User{Email: email, Admin: admin})
	s.Require().NoError(err)
	s.NotZero(u.ID)
	s.Equal(email, u.Email)
	s.Equal(admin, u.Admin)
	return u
}

// record creates a result row for this test.
func (s *Suite) record(owner *results.User, value int, at time.Time) *results.Result {
	r, err := s.Store.SaveResult(&results.Result{
		Value:      value,
		Owner:      owner,
		OccurredAt: at,
	})
	s.Require().NoError(err)
	s.NotZero(r.ID)
	s.created = append(s.created, r)
	return r
}

var testTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
