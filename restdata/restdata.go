// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines the data structures shared between the
// restserver and restclient packages.  JSON encodings of these are
// passed across the wire as the application/vnd.aulaweb.results.v1+json
// MIME type.
//
// API Usage
//
// HTTP GET the root document at its specified URL.  This returns a
// JSON serialization of the RootData object, whose fields link to the
// other resources.  ResultURL is an RFC 6570 URI template; expand
// {id} to address a single result.  The URL structure is predictable
// but is not part of the API contract.
//
// Single results travel wrapped in an object with a single "result"
// key; collections as a "results" array of such wrappers.  Timestamps
// are "YYYY-MM-DD HH:MM:SS" strings.
//
// HTTP Considerations
//
// GET responses to result resources carry an ETag header holding the
// resource's content fingerprint and a Cache-Control: must-revalidate
// directive; a conditional GET presenting the current fingerprint (or
// the * wildcard) in If-None-Match receives 304 with no body.  PUT
// requires an If-Match header carrying the current fingerprint and
// fails with 412 otherwise; PATCH accepts an optional If-Match under
// the same matching rule.  PUT and PATCH return 209 with the updated
// representation in the body.  OPTIONS requests are unauthenticated
// and answer with an Allow header.  All other requests require a
// bearer token.
package restdata

// JSONMediaType is the nonspecific media type for any version of this
// API.
const JSONMediaType = "application/vnd.aulaweb.results+json"

// V1JSONMediaType is the media type for version 1 of this API.
const V1JSONMediaType = "application/vnd.aulaweb.results.v1+json"

// RootData is the root document of the API.
type RootData struct {
	// ResultsURL is the URL of the results collection.
	ResultsURL string `json:"results_url"`

	// ResultURL is a URI template for a single result; expand
	// {id} with a result ID.
	ResultURL string `json:"result_url"`
}

// UserData is the wire representation of a result's owner.
type UserData struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// ResultData is the wire representation of a single result.
type ResultData struct {
	ID     int      `json:"id"`
	Result int      `json:"result"`
	User   UserData `json:"user"`
	Date   string   `json:"date"`

	// Links holds navigation links.  They are advisory and are
	// not part of the fingerprinted content.
	Links *Links `json:"_links,omitempty"`
}

// Links holds the navigation links attached to a representation.
type Links struct {
	Self   Link `json:"self"`
	Parent Link `json:"parent"`
}

// Link is a single hypertext reference.
type Link struct {
	Href string `json:"href"`
}

// ResultItem wraps one result in its wire envelope.
type ResultItem struct {
	Result ResultData `json:"result"`
}

// ResultList is the wire representation of a result collection.
type ResultList struct {
	Results []ResultItem `json:"results"`
}

// ResultUpdate is the request body for creating or replacing a
// result.  Creation requires both fields; replacement applies each
// present field independently but rejects a body with neither.
type ResultUpdate struct {
	Result *int    `json:"result"`
	Date   *string `json:"date"`
}

// OwnerUpdate is the request body for reassigning a result's owner.
// The new owner may be named under either key: "user" matches the
// representation's owner field, and "email" is also accepted.  If
// both are present "user" wins.
type OwnerUpdate struct {
	User  *string `json:"user"`
	Email *string `json:"email"`
}

// ErrorResponse is the body of any error response.
type ErrorResponse struct {
	// Error is a well-known machine-readable code word.
	Error string `json:"error"`

	// Message is a human-readable description.
	Message string `json:"message,omitempty"`

	// Value carries an error-specific detail, such as the result
	// ID or the current fingerprint.
	Value string `json:"value,omitempty"`

	// Stack is only present on panic responses.
	Stack string `json:"stack,omitempty"`
}
