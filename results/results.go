// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package results defines the abstract API to the results service:
// the Result and User entities, the Principal describing an
// authenticated caller, the Store persistence contract, and the
// Service that implements the resource operations on top of a Store.
//
// A Result is a single numeric measurement recorded for a user at a
// point in time.  Every result has exactly one owner; the owner can
// only change through the dedicated reassignment operation.  Result
// IDs are assigned by the store on first save and are never reused.
//
// The package also contains the two protocol pieces the REST layer
// builds on: content fingerprints (see Fingerprint) used as cache
// validators, and conditional-request checks (see NotModified and
// Precondition) used for read caching and optimistic locking.  All
// authorization decisions are made by the pure predicates in
// policy.go against an explicit Principal value; there is no ambient
// caller state anywhere in this package.
package results

import (
	"strconv"
	"time"
)

// Result is a single measurement recorded for a user.
type Result struct {
	// ID uniquely identifies the result.  It is zero until the
	// result has been saved, at which point the store assigns a
	// permanent value.
	ID int

	// Value is the recorded measurement.
	Value int

	// Owner is the user this result belongs to.  Never nil for a
	// stored result.
	Owner *User

	// OccurredAt is the instant the measurement was taken.
	OccurredAt time.Time
}

// User is a reference to an account in the system.  The results
// service treats users as read-only reference data, except that
// stores can create them for seeding purposes.
type User struct {
	// ID uniquely identifies the user.
	ID int

	// Email is the user's stable external identifier.
	Email string

	// Admin indicates whether the user holds the administrator
	// role.
	Admin bool
}

// Principal identifies the authenticated caller of one operation.  It
// is constructed per request from upstream authentication and passed
// explicitly into every Service method.
type Principal struct {
	// Email is the caller's user identifier.
	Email string

	// Admin indicates whether the caller holds the administrator
	// role.
	Admin bool
}

// SortKey selects the ordering of a result listing.  All orderings
// are ascending.
type SortKey int

const (
	// SortByID orders results by their assigned ID.
	SortByID SortKey = iota

	// SortByValue orders results by their measurement value.
	SortByValue

	// SortByDate orders results by the time they occurred.
	SortByDate
)

// OwnerCount counts the stored results belonging to one user.
type OwnerCount struct {
	Owner string
	Count int
}

// Summary reports how many results each user owns.  Users with no
// results may be omitted.
type Summary []OwnerCount

// Store is the persistence contract for results and users.  All
// methods are safe for concurrent use.  Lookups that find nothing
// return ErrNoSuchResult or ErrNoSuchUser; any other error is an I/O
// fault of the backing store and is passed through unchanged.
//
// Stores hand out private copies of their entities: mutating a
// returned Result has no effect until it is passed back to
// SaveResult.
type Store interface {
	// FindResult retrieves one result by ID.
	FindResult(id int) (*Result, error)

	// FindResults retrieves all results in ascending sort order.
	FindResults(sort SortKey) ([]*Result, error)

	// FindResultsByOwner retrieves the results owned by the user
	// with the given email, in ascending sort order.
	FindResultsByOwner(email string, sort SortKey) ([]*Result, error)

	// SaveResult persists a result.  If the result's ID is zero a
	// new ID is assigned; otherwise the stored result with that ID
	// is replaced.  Returns the persisted result.
	SaveResult(r *Result) (*Result, error)

	// DeleteResult removes a result from the store.
	DeleteResult(r *Result) error

	// FindUser retrieves one user by email.
	FindUser(email string) (*User, error)

	// SaveUser persists a user, assigning an ID if it has none.
	// This exists for seeding and administrative tooling; the
	// resource operations never create users.
	SaveUser(u *User) (*User, error)

	// Summarize reports per-owner result counts.
	Summarize() (Summary, error)
}

// MarshalText returns the wire name of a sort key.
func (k SortKey) MarshalText() ([]byte, error) {
	switch k {
	case SortByID:
		return []byte("id"), nil
	case SortByValue:
		return []byte("result"), nil
	case SortByDate:
		return []byte("date"), nil
	default:
		return nil, ErrBadSortKey{Name: strconv.Itoa(int(k))}
	}
}

// UnmarshalText populates a sort key from its wire name.
func (k *SortKey) UnmarshalText(text []byte) error {
	switch string(text) {
	case "id":
		*k = SortByID
	case "result":
		*k = SortByValue
	case "date":
		*k = SortByDate
	default:
		return ErrBadSortKey{Name: string(text)}
	}
	return nil
}
