// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aulaweb/go-results/results"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))

	statuses := map[error]int{
		results.ErrForbidden:              http.StatusForbidden,
		results.ErrNoResults:              http.StatusNotFound,
		results.ErrMissingFields:          http.StatusUnprocessableEntity,
		results.ErrNoFieldsToUpdate:       http.StatusUnprocessableEntity,
		results.ErrNoSuchResult{ID: 17}:   http.StatusNotFound,
		results.ErrNoSuchUser{Email: "x"}: http.StatusNotFound,
		results.ErrPreconditionFailed{}:   http.StatusPreconditionFailed,
		results.ErrBadDate{Value: "x"}:    http.StatusUnprocessableEntity,
		results.ErrBadSortKey{Name: "x"}:  http.StatusUnprocessableEntity,
	}
	for domain, status := range statuses {
		mapped := MapError(domain)
		if coded, ok := mapped.(ErrorStatus); assert.True(t, ok, domain) {
			assert.Equal(t, status, coded.HTTPStatus(), domain)
		}
	}

	// Unrecognized errors pass through untouched
	oops := errors.New("oops")
	assert.Equal(t, oops, MapError(oops))
}

func TestPreconditionFailedMessage(t *testing.T) {
	err := MapError(results.ErrPreconditionFailed{Tag: "abc123"})
	assert.Equal(t,
		"PRECONDITION FAILED: one or more conditions given evaluated to false: (abc123)",
		err.Error())
}

func TestErrorRoundTrip(t *testing.T) {
	domain := []error{
		results.ErrForbidden,
		results.ErrNoResults,
		results.ErrMissingFields,
		results.ErrNoFieldsToUpdate,
		results.ErrNoSuchResult{ID: 17},
		results.ErrNoSuchUser{Email: "someone@example.com"},
		results.ErrPreconditionFailed{Tag: "abc123"},
		results.ErrBadDate{Value: "tomorrow"},
		results.ErrBadSortKey{Name: "sideways"},
	}
	for _, err := range domain {
		resp := ErrorResponse{}
		resp.FromError(err)
		assert.NotEmpty(t, resp.Error, err)
		assert.Equal(t, err, resp.ToError(), err)
	}
}

func TestWrappedErrorRoundTrip(t *testing.T) {
	// The HTTP-status wrapper disappears in transit; the client
	// reconstructs the domain error inside it
	resp := ErrorResponse{}
	resp.FromError(MapError(results.ErrNoSuchResult{ID: 17}))
	assert.Equal(t, results.ErrNoSuchResult{ID: 17}, resp.ToError())
}

func TestUnknownErrorResponse(t *testing.T) {
	resp := ErrorResponse{Error: "something else", Message: "it broke"}
	assert.Equal(t, "it broke", resp.ToError().Error())
}

func TestFromPanic(t *testing.T) {
	resp := ErrorResponse{}
	resp.FromPanic(errors.New("oops"))
	assert.Equal(t, "panic", resp.Error)
	assert.Equal(t, "oops", resp.Message)
	assert.NotEmpty(t, resp.Stack)

	resp = ErrorResponse{}
	resp.FromPanic("bare string")
	assert.Equal(t, "bare string", resp.Message)
}
