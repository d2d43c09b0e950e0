// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restserver_test

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aulaweb/go-results/memory"
	"github.com/aulaweb/go-results/restdata"
	"github.com/aulaweb/go-results/restserver"
	"github.com/aulaweb/go-results/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is one live test server with its seeded users' tokens.
type fixture struct {
	*httptest.Server
	tokens map[string]string
}

var testUsers = map[string]bool{
	"alice@example.com": false,
	"bob@example.com":   false,
	"root@example.com":  true,
}

func newFixture(t *testing.T) *fixture {
	store := memory.NewStore()
	auth := &restserver.Authorizer{
		Secret: []byte("test secret"),
		Store:  store,
	}
	f := &fixture{tokens: make(map[string]string)}
	for email, admin := range testUsers {
		_, err := store.SaveUser(&results.User{Email: email, Admin: admin})
		require.NoError(t, err)
		f.tokens[email], err = auth.Token(email)
		require.NoError(t, err)
	}
	handler := restserver.NewRouter(results.NewService(store), auth)
	f.Server = httptest.NewServer(handler)
	return f
}

// do performs one HTTP request against the test server.  A non-empty
// token goes in the Authorization header; a non-nil body is sent as
// JSON.  Extra headers are literal.
func (f *fixture) do(t *testing.T, method, path, token string, body interface{}, headers map[string]string) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// decode reads and closes a response body into out.
func decode(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), string(body))
}

// errorCode reads an error response and returns its code word.
func errorCode(t *testing.T, resp *http.Response) string {
	var response restdata.ErrorResponse
	decode(t, resp, &response)
	return response.Error
}

// create posts a new result and returns its wire form.
func (f *fixture) create(t *testing.T, token string, value int, date string) restdata.ResultData {
	resp := f.do(t, "POST", "/api/v1/results", token,
		map[string]interface{}{"result": value, "date": date}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item restdata.ResultItem
	decode(t, resp, &item)
	return item.Result
}

// get fetches one result, asserting success, and returns it with its
// entity tag.
func (f *fixture) get(t *testing.T, token, path string) (restdata.ResultItem, string) {
	resp := f.do(t, "GET", path, token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tag := resp.Header.Get("ETag")
	var item restdata.ResultItem
	decode(t, resp, &item)
	return item, tag
}

func TestRootDocument(t *testing.T) {
	f := newFixture(t)
	defer f.Close()

	// The root document needs no authentication
	resp := f.do(t, "GET", "/", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var root restdata.RootData
	decode(t, resp, &root)
	assert.Equal(t, "/api/v1/results", root.ResultsURL)
	assert.Equal(t, "/api/v1/results/{id}", root.ResultURL)
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)
	defer f.Close()

	resp := f.do(t, "GET", "/api/v1/results", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, "GET", "/api/v1/results", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A well-formed token signed with the wrong secret
	other := &restserver.Authorizer{Secret: []byte("other secret")}
	forged, err := other.Token("alice@example.com")
	require.NoError(t, err)
	resp = f.do(t, "GET", "/api/v1/results", forged, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A valid token for a user that does not exist
	ours := &restserver.Authorizer{Secret: []byte("test secret")}
	ghost, err := ours.Token("ghost@example.com")
	require.NoError(t, err)
	resp = f.do(t, "GET", "/api/v1/results", ghost, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthPrecedesRequestParsing(t *testing.T) {
	f := newFixture(t)
	defer f.Close()

	// A request that is both unauthenticated and malformed fails on
	// the missing credential; the URL and query are never examined
	resp := f.do(t, "GET", "/api/v1/results?sort=sideways", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Same for a result ID too large to parse
	overflow := "/api/v1/results/99999999999999999999999999"
	resp = f.do(t, "GET", overflow, "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// With a credential, the sort error comes back as before
	resp = f.do(t, "GET", "/api/v1/results?sort=sideways", f.tokens["alice@example.com"], nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestOptions(t *testing.T) {
	f := newFixture(t)
	defer f.Close()

	// OPTIONS needs no authentication either
	resp := f.do(t, "OPTIONS", "/api/v1/results", "", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Allow"))
	resp.Body.Close()

	resp = f.do(t, "OPTIONS", "/api/v1/results/1", "", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "GET, PUT, DELETE, PATCH, OPTIONS", resp.Header.Get("Allow"))
	resp.Body.Close()
}

func TestEmptyListing(t *testing.T) {
	f := newFixture(t)
	defer f.Close()

	resp := f.do(t, "GET", "/api/v1/results", f.tokens["alice@example.com"], nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ErrNoResults", errorCode(t, resp))
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]

	resp := f.do(t, "POST", "/api/v1/results", alice,
		map[string]interface{}{"result": 42, "date": "2024-03-01 12:00:00"}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get("Location")
	var item restdata.ResultItem
	decode(t, resp, &item)
	assert.NotZero(t, item.Result.ID)
	assert.Equal(t, 42, item.Result.Result)
	assert.Equal(t, "alice@example.com", item.Result.User.Email)
	assert.Equal(t, "2024-03-01 12:00:00", item.Result.Date)

	// The Location header points at the new resource and carries
	// navigation links in the body
	require.NotEmpty(t, location)
	if assert.NotNil(t, item.Result.Links) {
		assert.Equal(t, location, item.Result.Links.Self.Href)
		assert.Equal(t, "/api/v1/results", item.Result.Links.Parent.Href)
	}

	fetched, tag := f.get(t, alice, location)
	assert.Equal(t, item.Result.ID, fetched.Result.ID)
	assert.NotEmpty(t, tag)

	resp = f.do(t, "GET", location, alice, nil, nil)
	assert.Equal(t, "must-revalidate", resp.Header.Get("Cache-Control"))
	resp.Body.Close()
}

func TestConditionalGet(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]

	created := f.create(t, alice, 42, "2024-03-01 12:00:00")
	path := created.Links.Self.Href
	_, tag := f.get(t, alice, path)

	// A matching validator gets 304 with no body
	resp := f.do(t, "GET", path, alice, nil, map[string]string{"If-None-Match": tag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	body, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Empty(t, body)

	// Quoted and weak validator forms match too
	resp = f.do(t, "GET", path, alice, nil, map[string]string{"If-None-Match": `W/"` + tag + `"`})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, "GET", path, alice, nil, map[string]string{"If-None-Match": "*"})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	resp.Body.Close()

	// A stale validator gets the full response
	resp = f.do(t, "GET", path, alice, nil, map[string]string{"If-None-Match": "stale"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The collection has its own fingerprint
	resp = f.do(t, "GET", "/api/v1/results", alice, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listTag := resp.Header.Get("ETag")
	resp.Body.Close()
	assert.NotEmpty(t, listTag)
	assert.NotEqual(t, tag, listTag)

	resp = f.do(t, "GET", "/api/v1/results", alice, nil, map[string]string{"If-None-Match": listTag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	resp.Body.Close()
}

func TestListScoping(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]
	bob := f.tokens["bob@example.com"]
	root := f.tokens["root@example.com"]

	f.create(t, alice, 2, "2024-03-01 12:00:00")
	f.create(t, bob, 1, "2024-03-01 11:00:00")

	var list restdata.ResultList
	resp := f.do(t, "GET", "/api/v1/results", alice, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	if assert.Len(t, list.Results, 1) {
		assert.Equal(t, "alice@example.com", list.Results[0].Result.User.Email)
	}

	resp = f.do(t, "GET", "/api/v1/results", root, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	assert.Len(t, list.Results, 2)

	// Sorting by value puts bob's smaller measurement first
	resp = f.do(t, "GET", "/api/v1/results?sort=result", root, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	if assert.Len(t, list.Results, 2) {
		assert.Equal(t, 1, list.Results[0].Result.Result)
	}

	resp = f.do(t, "GET", "/api/v1/results?sort=sideways", root, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "ErrBadSortKey", errorCode(t, resp))
}

func TestReplace(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]

	created := f.create(t, alice, 42, "2024-03-01 12:00:00")
	path := created.Links.Self.Href
	_, tag := f.get(t, alice, path)

	// PUT without If-Match is always rejected
	resp := f.do(t, "PUT", path, alice,
		map[string]interface{}{"result": 43}, nil)
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	var failure restdata.ErrorResponse
	decode(t, resp, &failure)
	assert.Equal(t, "ErrPreconditionFailed", failure.Error)
	// The failure reports the fingerprint to retry with
	assert.Equal(t, tag, failure.Value)

	// PUT with the current tag succeeds with 209
	resp = f.do(t, "PUT", path, alice,
		map[string]interface{}{"result": 43},
		map[string]string{"If-Match": tag})
	assert.Equal(t, 209, resp.StatusCode)
	var item restdata.ResultItem
	decode(t, resp, &item)
	assert.Equal(t, 43, item.Result.Result)
	assert.Equal(t, "2024-03-01 12:00:00", item.Result.Date)

	// The old tag is now stale
	resp = f.do(t, "PUT", path, alice,
		map[string]interface{}{"result": 44},
		map[string]string{"If-Match": tag})
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	resp.Body.Close()

	// A matching tag with an empty body is unprocessable
	_, tag = f.get(t, alice, path)
	resp = f.do(t, "PUT", path, alice,
		map[string]interface{}{},
		map[string]string{"If-Match": tag})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "ErrNoFieldsToUpdate", errorCode(t, resp))
}

func TestReplaceAccess(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]
	bob := f.tokens["bob@example.com"]
	root := f.tokens["root@example.com"]

	created := f.create(t, alice, 42, "2024-03-01 12:00:00")
	path := created.Links.Self.Href

	resp := f.do(t, "GET", path, bob, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, "PUT", path, bob,
		map[string]interface{}{"result": 43},
		map[string]string{"If-Match": "*"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// An admin can update anyone's result
	resp = f.do(t, "PUT", path, root,
		map[string]interface{}{"result": 43},
		map[string]string{"If-Match": "*"})
	assert.Equal(t, 209, resp.StatusCode)
	resp.Body.Close()

	// A missing result is not-found, even for strangers
	resp = f.do(t, "GET", "/api/v1/results/999999", bob, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ErrNoSuchResult", errorCode(t, resp))
}

func TestReassignOwner(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]
	bob := f.tokens["bob@example.com"]
	root := f.tokens["root@example.com"]

	created := f.create(t, alice, 42, "2024-03-01 12:00:00")
	path := created.Links.Self.Href

	// Reassignment is admin-only, even for the owner, and the
	// denial does not reveal whether the result exists
	resp := f.do(t, "PATCH", path, alice,
		map[string]interface{}{"user": "bob@example.com"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, "PATCH", "/api/v1/results/999999", bob,
		map[string]interface{}{"user": "bob@example.com"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The If-Match header is optional on PATCH but checked if sent
	resp = f.do(t, "PATCH", path, root,
		map[string]interface{}{"user": "bob@example.com"},
		map[string]string{"If-Match": "stale"})
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, "PATCH", path, root,
		map[string]interface{}{"user": "ghost@example.com"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ErrNoSuchUser", errorCode(t, resp))

	resp = f.do(t, "PATCH", path, root,
		map[string]interface{}{}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "ErrMissingFields", errorCode(t, resp))

	resp = f.do(t, "PATCH", path, root,
		map[string]interface{}{"user": "bob@example.com"}, nil)
	assert.Equal(t, 209, resp.StatusCode)
	var item restdata.ResultItem
	decode(t, resp, &item)
	assert.Equal(t, "bob@example.com", item.Result.User.Email)

	// The new owner can also be named under the "email" key
	resp = f.do(t, "PATCH", path, root,
		map[string]interface{}{"email": "alice@example.com"}, nil)
	assert.Equal(t, 209, resp.StatusCode)
	decode(t, resp, &item)
	assert.Equal(t, "alice@example.com", item.Result.User.Email)

	// Reassign back so the ownership checks below hold
	resp = f.do(t, "PATCH", path, root,
		map[string]interface{}{"user": "bob@example.com"}, nil)
	assert.Equal(t, 209, resp.StatusCode)
	resp.Body.Close()

	// Now it is bob's result, not alice's
	resp = f.do(t, "GET", path, alice, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	resp = f.do(t, "GET", path, bob, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]
	bob := f.tokens["bob@example.com"]

	created := f.create(t, alice, 42, "2024-03-01 12:00:00")
	path := created.Links.Self.Href

	resp := f.do(t, "DELETE", path, bob, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, "DELETE", path, alice, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, "DELETE", path, alice, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBadRequests(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	alice := f.tokens["alice@example.com"]

	// Missing fields
	resp := f.do(t, "POST", "/api/v1/results", alice,
		map[string]interface{}{"result": 42}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "ErrMissingFields", errorCode(t, resp))

	// Malformed date
	resp = f.do(t, "POST", "/api/v1/results", alice,
		map[string]interface{}{"result": 42, "date": "tomorrow"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "ErrBadDate", errorCode(t, resp))

	// Unknown body field
	resp = f.do(t, "POST", "/api/v1/results", alice,
		map[string]interface{}{"result": 42, "date": "2024-03-01 12:00:00", "shoe_size": 9}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// Mistyped body field
	resp = f.do(t, "POST", "/api/v1/results", alice,
		map[string]interface{}{"result": "forty-two", "date": "2024-03-01 12:00:00"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// Unsupported request media type
	resp = f.do(t, "POST", "/api/v1/results", alice,
		map[string]interface{}{"result": 42, "date": "2024-03-01 12:00:00"},
		map[string]string{"Content-Type": "text/plain"})
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	resp.Body.Close()

	// Unacceptable response media type
	resp = f.do(t, "GET", "/api/v1/results", alice, nil,
		map[string]string{"Accept": "image/png"})
	assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
	resp.Body.Close()
}
