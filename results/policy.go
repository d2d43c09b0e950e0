// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

// This file is the whole access policy: three pure predicates over a
// principal and a result.  Callers report a false predicate as
// ErrForbidden; the policy itself never downgrades a denial.

// CanRead reports whether the principal may read a result.  Admins
// may read anything; everyone else only their own results.
func CanRead(p Principal, r *Result) bool {
	if p.Admin {
		return true
	}
	return r.Owner != nil && r.Owner.Email == p.Email
}

// CanWrite reports whether the principal may modify or delete a
// result.  The rule is identical to CanRead: admins anything,
// everyone else only their own.
func CanWrite(p Principal, r *Result) bool {
	return CanRead(p, r)
}

// CanReassignOwner reports whether the principal may change the owner
// of any result.  Reassignment is admin-only regardless of who owns
// the result now.
func CanReassignOwner(p Principal) bool {
	return p.Admin
}
