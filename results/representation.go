// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

import (
	"time"
)

// DateFormat is the reference layout for timestamps in external
// representations, "YYYY-MM-DD HH:MM:SS".
const DateFormat = "2006-01-02 15:04:05"

// UserRepresentation is the canonical externally-visible form of a
// User.
type UserRepresentation struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// Representation is the canonical externally-visible form of a
// Result.  Fingerprints are computed over this mapping, never over
// the internal entity, so that a fingerprint depends on exactly the
// fields a client can observe.
type Representation struct {
	ID    int                `json:"id"`
	Value int                `json:"result"`
	User  UserRepresentation `json:"user"`
	Date  string             `json:"date"`
}

// Represent maps a result to its canonical external form.
func Represent(r *Result) Representation {
	rep := Representation{
		ID:    r.ID,
		Value: r.Value,
		Date:  r.OccurredAt.Format(DateFormat),
	}
	if r.Owner != nil {
		rep.User = UserRepresentation{
			ID:    r.Owner.ID,
			Email: r.Owner.Email,
			Admin: r.Owner.Admin,
		}
	}
	return rep
}

// RepresentAll maps a list of results to their canonical external
// forms, preserving order.  The whole-collection fingerprint is
// computed over this slice.
func RepresentAll(rs []*Result) []Representation {
	reps := make([]Representation, len(rs))
	for i, r := range rs {
		reps[i] = Represent(r)
	}
	return reps
}

// ParseDate parses a timestamp in the external "YYYY-MM-DD HH:MM:SS"
// layout.  Returns ErrBadDate if the value does not match.
func ParseDate(value string) (time.Time, error) {
	when, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, ErrBadDate{Value: value}
	}
	return when, nil
}
