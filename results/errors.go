// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned from operations when the access policy
// denies the caller's principal read or write access to the resource.
var ErrForbidden = errors.New("you don't have permission to access this resource")

// ErrNoResults is returned from Service.List when the visible result
// set is empty.  The service deliberately does not distinguish "no
// results exist" from "no results exist for you"; both surface as a
// not-found condition.
var ErrNoResults = errors.New("no results found")

// ErrMissingFields is returned from operations whose request body
// lacks a required field.
var ErrMissingFields = errors.New("required fields are missing from the request body")

// ErrNoFieldsToUpdate is returned from Service.Replace if the request
// body contains neither a 'result' nor a 'date' field.  Nothing is
// persisted in this case, even when the precondition matched.
var ErrNoFieldsToUpdate = errors.New("request body contains no fields to update")

// ErrNoSuchResult is returned by Store.FindResult and the Service
// operations that look up a result by ID, when no result with that ID
// exists.
type ErrNoSuchResult struct {
	ID int
}

func (err ErrNoSuchResult) Error() string {
	return fmt.Sprintf("No such result %v", err.ID)
}

// ErrNoSuchUser is returned by Store.FindUser and by
// Service.ReassignOwner when the named user does not exist.
type ErrNoSuchUser struct {
	Email string
}

func (err ErrNoSuchUser) Error() string {
	return fmt.Sprintf("No such user %v", err.Email)
}

// ErrPreconditionFailed is returned from write operations whose
// If-Match precondition did not match the resource's current
// fingerprint, or (for strong checks) was absent.  Tag holds the
// fingerprint the comparison ran against, which is always computed
// over the pre-mutation state.
type ErrPreconditionFailed struct {
	Tag string
}

func (err ErrPreconditionFailed) Error() string {
	return fmt.Sprintf("one or more conditions given evaluated to false: (%v)", err.Tag)
}

// ErrBadDate is returned when a 'date' field in a request body does
// not parse as "YYYY-MM-DD HH:MM:SS".
type ErrBadDate struct {
	Value string
}

func (err ErrBadDate) Error() string {
	return fmt.Sprintf("invalid date %q, expecting %q", err.Value, DateFormat)
}

// ErrBadSortKey is returned when a sort parameter names an unknown
// ordering.
type ErrBadSortKey struct {
	Name string
}

func (err ErrBadSortKey) Error() string {
	return fmt.Sprintf("invalid sort key %q", err.Name)
}
