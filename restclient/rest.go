// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

// This file provides generic REST client code.

import (
	"bytes"
	"io"
	"net/http"
	"net/url"

	"github.com/aulaweb/go-results/restdata"
	"github.com/jtacoma/uritemplates"
	"github.com/ugorji/go/codec"
)

// resource is any object that has a URL and a representation.
type resource struct {
	URL *url.URL

	// Token, if non-empty, is sent as a bearer credential on
	// every request.
	Token string
}

// Template expands a URI template with variables, relative to this
// resource.
func (r *resource) Template(template string, vars map[string]interface{}) (*url.URL, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return nil, err
	}
	expanded, err := tmpl.Expand(vars)
	if err != nil {
		return nil, err
	}
	return r.URL.Parse(expanded)
}

// response captures the parts of an HTTP response the typed client
// cares about beyond the decoded body.
type response struct {
	Status   int
	ETag     string
	Location string
}

// Do performs some HTTP action.  If in is non-nil, the request data
// is serialized and sent as the body of, for instance, a POST
// request.  If out is non-nil, the response data (if any) is
// deserialized into this object, which must be of pointer type.
// Error responses are decoded into their original error values where
// possible.  A 304 response is not an error here; callers watch
// response.Status for it.
func (r *resource) Do(method string, url *url.URL, headers http.Header, in, out interface{}) (result response, err error) {
	json := &codec.JsonHandle{}

	// Set up the body as serialized JSON, if there is one
	var body io.Reader
	if in != nil {
		var encoded []byte
		encoder := codec.NewEncoderBytes(&encoded, json)
		if err := encoder.Encode(in); err != nil {
			return result, err
		}
		body = bytes.NewReader(encoded)
	}

	// Create the request and set headers
	req, err := http.NewRequest(method, url.String(), body)
	if err != nil {
		return result, err
	}
	for name, values := range headers {
		req.Header[name] = values
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if in != nil {
		req.Header.Set("Content-Type", restdata.V1JSONMediaType)
	}
	if out != nil {
		req.Header.Set("Accept", restdata.V1JSONMediaType)
	}

	// Actually do the request
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return result, err
	}
	defer func() {
		err2 := resp.Body.Close()
		if err == nil {
			err = err2
		}
	}()

	result.Status = resp.StatusCode
	result.ETag = resp.Header.Get("ETag")
	result.Location = resp.Header.Get("Location")

	// Error responses carry a decodable error envelope
	if resp.StatusCode >= 400 {
		return result, decodeError(resp)
	}

	// If there is both a body and a requested output, decode it
	if out != nil && resp.StatusCode != http.StatusNotModified &&
		resp.StatusCode != http.StatusNoContent {
		contentType := resp.Header.Get("Content-Type")
		err = restdata.Decode(contentType, resp.Body, out)
	}

	return result, err
}

// Get retrieves the resource from its own URL.  The result is stored
// in out, which must be of pointer type.
func (r *resource) Get(out interface{}) error {
	_, err := r.Do("GET", r.URL, nil, nil, out)
	return err
}

// decodeError turns an HTTP error response back into an error value.
// If the body is a well-formed error envelope, the original error is
// reconstructed; otherwise the HTTP status text has to do.
func decodeError(resp *http.Response) error {
	envelope := restdata.ErrorResponse{}
	contentType := resp.Header.Get("Content-Type")
	if err := restdata.Decode(contentType, resp.Body, &envelope); err == nil {
		if restored := envelope.ToError(); restored.Error() != "" {
			return restored
		}
	}
	return ErrHTTP{Status: resp.StatusCode, Text: resp.Status}
}

// ErrHTTP reports an HTTP-level failure with no decodable error
// envelope.
type ErrHTTP struct {
	Status int
	Text   string
}

func (e ErrHTTP) Error() string {
	return e.Text
}
