// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

// Conditional-request evaluation.  Reads use NotModified against the
// client's cache validators; writes use Precondition for optimistic
// locking.  In both cases the fingerprint being compared is computed
// over the resource's state as persisted before the request, never
// the post-change state.

// Wildcard is the validator that matches any current fingerprint.
const Wildcard = "*"

// NotModified reports whether a read request can be answered with "not
// modified": true if any of the client-supplied validators equals the
// current fingerprint, or if the wildcard validator is present.  A
// request with no validators always proceeds to full retrieval.
func NotModified(tag string, validators []string) bool {
	for _, v := range validators {
		if v == tag || v == Wildcard {
			return true
		}
	}
	return false
}

// Precondition is a client-supplied write precondition, taken from an
// If-Match header.  Present distinguishes an absent header from an
// empty tag.
type Precondition struct {
	Tag     string
	Present bool
}

// Check compares the precondition against the current fingerprint of
// the resource about to be written.  In strong mode the precondition
// must be present and match; in weak mode an absent precondition
// passes, but a present one must still match.  On failure the
// returned ErrPreconditionFailed carries the current fingerprint, and
// the caller must not mutate anything.
func (pre Precondition) Check(current string, strong bool) error {
	if !pre.Present {
		if strong {
			return ErrPreconditionFailed{Tag: current}
		}
		return nil
	}
	if pre.Tag != current && pre.Tag != Wildcard {
		return ErrPreconditionFailed{Tag: current}
	}
	return nil
}
