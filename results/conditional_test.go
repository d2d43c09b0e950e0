// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotModified(t *testing.T) {
	assert.False(t, NotModified("tag", nil))
	assert.False(t, NotModified("tag", []string{}))
	assert.False(t, NotModified("tag", []string{"other"}))
	assert.True(t, NotModified("tag", []string{"tag"}))
	assert.True(t, NotModified("tag", []string{"other", "tag"}))
	assert.True(t, NotModified("tag", []string{Wildcard}))
}

func TestStrongPrecondition(t *testing.T) {
	// Absent fails a strong check
	err := Precondition{}.Check("tag", true)
	assert.Equal(t, ErrPreconditionFailed{Tag: "tag"}, err)

	// Present and matching passes
	err = Precondition{Tag: "tag", Present: true}.Check("tag", true)
	assert.NoError(t, err)

	// Present and stale fails, reporting the current tag
	err = Precondition{Tag: "old", Present: true}.Check("tag", true)
	assert.Equal(t, ErrPreconditionFailed{Tag: "tag"}, err)

	// The wildcard matches any current state
	err = Precondition{Tag: Wildcard, Present: true}.Check("tag", true)
	assert.NoError(t, err)
}

func TestWeakPrecondition(t *testing.T) {
	// Absent passes a weak check
	err := Precondition{}.Check("tag", false)
	assert.NoError(t, err)

	// Present must still match
	err = Precondition{Tag: "tag", Present: true}.Check("tag", false)
	assert.NoError(t, err)
	err = Precondition{Tag: "old", Present: true}.Check("tag", false)
	assert.Equal(t, ErrPreconditionFailed{Tag: "tag"}, err)

	// An empty tag is present but matches nothing
	err = Precondition{Tag: "", Present: true}.Check("tag", false)
	assert.Equal(t, ErrPreconditionFailed{Tag: "tag"}, err)
}
