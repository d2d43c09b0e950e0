// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aulaweb/go-results/restdata"
	"github.com/aulaweb/go-results/results"
	"github.com/gorilla/mux"
)

// errUnmarshal is returned if the put/post contract is violated and
// a handler function is passed the wrong type.
var errUnmarshal = restdata.ErrBadRequest{
	Err: errors.New("Invalid input format"),
}

// context holds all of the information that can be extracted from an
// HTTP request before dispatching to an operation: the authenticated
// principal, URL parameters, and conditional headers.
type context struct {
	// Principal is the authenticated caller.  It is the zero
	// value on routes built with PublicContext.
	Principal results.Principal

	// ID is the result ID from the URL, if the route has one.
	ID int

	// HasID reports whether the route carried a result ID.
	HasID bool

	// Sort is the requested collection ordering; defaults to
	// SortByID.
	Sort results.SortKey

	// Validators holds the cache validators from If-None-Match.
	Validators []string

	// Precondition holds the write precondition from If-Match.
	Precondition results.Precondition

	QueryParams url.Values
}

// Context builds the request context for authenticated routes.  A
// missing or invalid credential fails here, before any URL or header
// parsing, so that unauthenticated requests never observe whether a
// resource exists.
func (api *restAPI) Context(req *http.Request) (*context, error) {
	principal, err := api.Auth.Principal(req)
	if err != nil {
		return nil, err
	}
	ctx, err := api.PublicContext(req)
	if err != nil {
		return nil, err
	}
	ctx.Principal = principal
	return ctx, nil
}

// PublicContext builds the request context without requiring a
// principal.  Only the root document uses this directly.
func (api *restAPI) PublicContext(req *http.Request) (*context, error) {
	ctx := &context{QueryParams: req.URL.Query()}

	vars := mux.Vars(req)
	if idText, present := vars["id"]; present {
		id, err := strconv.Atoi(idText)
		if err != nil {
			// The route pattern only admits digits; an
			// overflow is the one way to get here.
			return nil, restdata.ErrNotFound{Err: err}
		}
		ctx.ID = id
		ctx.HasID = true
	}

	if sortText := ctx.QueryParams.Get("sort"); sortText != "" {
		if err := ctx.Sort.UnmarshalText([]byte(sortText)); err != nil {
			return nil, restdata.MapError(err)
		}
	}

	ctx.Validators = parseValidators(req.Header.Values("If-None-Match"))
	if _, present := req.Header["If-Match"]; present {
		ctx.Precondition = results.Precondition{
			Tag:     trimValidator(req.Header.Get("If-Match")),
			Present: true,
		}
	}

	return ctx, nil
}

// parseValidators splits If-None-Match header values into individual
// validator tags.  Quoting and weak prefixes are stripped so that the
// tags compare directly against fingerprints; the * wildcard is
// passed through.
func parseValidators(headers []string) []string {
	var validators []string
	for _, header := range headers {
		for _, part := range strings.Split(header, ",") {
			if tag := trimValidator(part); tag != "" {
				validators = append(validators, tag)
			}
		}
	}
	return validators
}

// trimValidator strips whitespace, a weak-validator prefix, and
// surrounding quotes from one validator tag.
func trimValidator(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}
