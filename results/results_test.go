// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortKeyNames(t *testing.T) {
	names := map[SortKey]string{
		SortByID:    "id",
		SortByValue: "result",
		SortByDate:  "date",
	}
	for key, name := range names {
		text, err := key.MarshalText()
		if assert.NoError(t, err) {
			assert.Equal(t, name, string(text))
		}

		var parsed SortKey
		err = parsed.UnmarshalText([]byte(name))
		if assert.NoError(t, err) {
			assert.Equal(t, key, parsed)
		}
	}

	var parsed SortKey
	err := parsed.UnmarshalText([]byte("sideways"))
	assert.Equal(t, ErrBadSortKey{Name: "sideways"}, err)

	_, err = SortKey(42).MarshalText()
	assert.Equal(t, ErrBadSortKey{Name: "42"}, err)
}

func TestParseDate(t *testing.T) {
	when, err := ParseDate("2024-03-01 12:34:56")
	if assert.NoError(t, err) {
		assert.Equal(t, time.Date(2024, time.March, 1, 12, 34, 56, 0, time.UTC), when)
	}

	bad := []string{
		"",
		"2024-03-01",
		"2024-03-01T12:34:56Z",
		"tomorrow",
	}
	for _, value := range bad {
		_, err = ParseDate(value)
		assert.Equal(t, ErrBadDate{Value: value}, err, value)
	}
}

func TestRepresentationDate(t *testing.T) {
	r := sampleResult()
	rep := Represent(r)
	assert.Equal(t, "2024-03-01 12:00:00", rep.Date)
	assert.Equal(t, r.Owner.Email, rep.User.Email)
}
