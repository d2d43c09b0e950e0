// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleResult() *Result {
	return &Result{
		ID:    17,
		Value: 42,
		Owner: &User{
			ID:    3,
			Email: "someone@example.com",
		},
		OccurredAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFingerprintIsStable(t *testing.T) {
	first, err := Fingerprint(Represent(sampleResult()))
	if !assert.NoError(t, err) {
		return
	}
	assert.Len(t, first, 32)

	second, err := Fingerprint(Represent(sampleResult()))
	if assert.NoError(t, err) {
		assert.Equal(t, first, second)
	}
}

func TestFingerprintSeesEveryField(t *testing.T) {
	base, err := Fingerprint(Represent(sampleResult()))
	if !assert.NoError(t, err) {
		return
	}

	changes := map[string]func(*Result){
		"id":    func(r *Result) { r.ID = 18 },
		"value": func(r *Result) { r.Value = 43 },
		"owner": func(r *Result) { r.Owner.Email = "other@example.com" },
		"admin": func(r *Result) { r.Owner.Admin = true },
		"date":  func(r *Result) { r.OccurredAt = r.OccurredAt.Add(time.Second) },
	}
	for name, change := range changes {
		r := sampleResult()
		change(r)
		tag, err := Fingerprint(Represent(r))
		if assert.NoError(t, err, name) {
			assert.NotEqual(t, base, tag, name)
		}
	}
}

func TestFingerprintIgnoresSubSecondTime(t *testing.T) {
	// The external date form has whole-second precision, so times
	// in the same second fingerprint identically
	base, err := Fingerprint(Represent(sampleResult()))
	if !assert.NoError(t, err) {
		return
	}

	r := sampleResult()
	r.OccurredAt = r.OccurredAt.Add(time.Millisecond)
	tag, err := Fingerprint(Represent(r))
	if assert.NoError(t, err) {
		assert.Equal(t, base, tag)
	}
}

func TestCollectionFingerprint(t *testing.T) {
	one := sampleResult()
	collection, err := Fingerprint(RepresentAll([]*Result{one}))
	if !assert.NoError(t, err) {
		return
	}

	// A collection of one is not the same as the result itself
	single, err := Fingerprint(Represent(one))
	if assert.NoError(t, err) {
		assert.NotEqual(t, single, collection)
	}

	// Order matters
	two := sampleResult()
	two.ID = 18
	forward, err := Fingerprint(RepresentAll([]*Result{one, two}))
	if !assert.NoError(t, err) {
		return
	}
	backward, err := Fingerprint(RepresentAll([]*Result{two, one}))
	if assert.NoError(t, err) {
		assert.NotEqual(t, forward, backward)
	}
}
