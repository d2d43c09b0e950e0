// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides a Go client for the results REST
// server.  Construct a client with the server's base URL and a bearer
// token; the client discovers the collection and entity URLs from the
// server's root document rather than assuming a URL layout.
//
// Read operations accept an optional entity tag from a previous call.
// When the server reports that the resource is unchanged, the call
// returns ErrNotModified and the caller can keep using its copy.
// Write operations pass the entity tag as a precondition, so a
// concurrent modification surfaces as a precondition-failed error
// rather than a lost update.
package restclient

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/aulaweb/go-results/restdata"
)

// ErrNotModified is returned by conditional reads when the resource
// still matches the entity tag the caller already holds.
var ErrNotModified = errors.New("resource not modified")

// Client is a results service client.
type Client struct {
	root resource

	// resultsURL is the collection URL from the root document.
	resultsURL *url.URL

	// resultTemplate is the URI template for a single result, with
	// an "id" variable.
	resultTemplate string
}

// New creates a results client from a server base URL and a bearer
// token.  It performs one GET against the base URL to discover the
// rest of the API.
func New(baseURL, token string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	client := &Client{root: resource{URL: parsed, Token: token}}

	var doc restdata.RootData
	if err = client.root.Get(&doc); err != nil {
		return nil, err
	}
	client.resultsURL, err = parsed.Parse(doc.ResultsURL)
	if err != nil {
		return nil, err
	}
	client.resultTemplate = doc.ResultURL
	return client, nil
}

// resultURL expands the entity template for one result ID.
func (c *Client) resultURL(id int) (*url.URL, error) {
	return c.root.Template(c.resultTemplate, map[string]interface{}{"id": id})
}

// conditional builds request headers carrying an entity tag.  For
// reads the tag goes in If-None-Match; for writes it goes in
// If-Match.  An empty tag produces no header at all.
func conditional(name, tag string) http.Header {
	if tag == "" {
		return nil
	}
	return http.Header{name: []string{tag}}
}

// List retrieves all results visible to the caller, optionally sorted
// by "id", "result", or "date".  If tag is the entity tag from a
// previous listing and the collection is unchanged, returns
// ErrNotModified.  On success the collection's current entity tag is
// returned alongside the body.
func (c *Client) List(sort, tag string) (restdata.ResultList, string, error) {
	var list restdata.ResultList
	target := *c.resultsURL
	if sort != "" {
		query := target.Query()
		query.Set("sort", sort)
		target.RawQuery = query.Encode()
	}
	resp, err := c.root.Do("GET", &target, conditional("If-None-Match", tag), nil, &list)
	if err == nil && resp.Status == http.StatusNotModified {
		err = ErrNotModified
	}
	return list, resp.ETag, err
}

// Get retrieves a single result.  If tag is the entity tag from a
// previous fetch and the result is unchanged, returns ErrNotModified.
func (c *Client) Get(id int, tag string) (restdata.ResultData, string, error) {
	var item restdata.ResultItem
	target, err := c.resultURL(id)
	if err != nil {
		return restdata.ResultData{}, "", err
	}
	resp, err := c.root.Do("GET", target, conditional("If-None-Match", tag), nil, &item)
	if err == nil && resp.Status == http.StatusNotModified {
		err = ErrNotModified
	}
	return item.Result, resp.ETag, err
}

// Create adds a new result owned by the caller.  Returns the created
// result and its entity tag.
func (c *Client) Create(value int, date string) (restdata.ResultData, string, error) {
	var item restdata.ResultItem
	body := restdata.ResultUpdate{Result: &value, Date: &date}
	resp, err := c.root.Do("POST", c.resultsURL, nil, body, &item)
	return item.Result, resp.ETag, err
}

// Replace overwrites a result's value and date.  The tag must be the
// entity tag from a previous fetch of this result; if someone else
// has modified the result in the meantime the server rejects the
// write and this returns a precondition-failed error.
func (c *Client) Replace(id, value int, date, tag string) (restdata.ResultData, string, error) {
	var item restdata.ResultItem
	target, err := c.resultURL(id)
	if err != nil {
		return restdata.ResultData{}, "", err
	}
	body := restdata.ResultUpdate{Result: &value, Date: &date}
	resp, err := c.root.Do("PUT", target, conditional("If-Match", tag), body, &item)
	return item.Result, resp.ETag, err
}

// ReassignOwner transfers a result to another user, named by email.
// This requires administrator rights on the server.  The tag is
// optional; if present it guards against concurrent modification the
// same way Replace does.
func (c *Client) ReassignOwner(id int, email, tag string) (restdata.ResultData, string, error) {
	var item restdata.ResultItem
	target, err := c.resultURL(id)
	if err != nil {
		return restdata.ResultData{}, "", err
	}
	body := restdata.OwnerUpdate{User: &email}
	resp, err := c.root.Do("PATCH", target, conditional("If-Match", tag), body, &item)
	return item.Result, resp.ETag, err
}

// Delete removes a result.  Deleting a result that does not exist is
// an error.
func (c *Client) Delete(id int) error {
	target, err := c.resultURL(id)
	if err != nil {
		return err
	}
	_, err = c.root.Do("DELETE", target, nil, nil, nil)
	return err
}
