// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains a REST skeleton framework.
//
// The bulk of this is dealing with HTTP content type negotiation,
// conditional-request headers, and providing a standard way to deal
// with input and output values.  Handler functions return plain
// values for 200 responses, or one of the response* wrapper types to
// pick a more specific success status and response headers.

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/aulaweb/go-results/restdata"
	"github.com/ugorji/go/codec"
)

var typeMap = map[string]string{
	"text/json":              restdata.V1JSONMediaType,
	"application/json":       restdata.V1JSONMediaType,
	restdata.JSONMediaType:   restdata.V1JSONMediaType,
	restdata.V1JSONMediaType: restdata.V1JSONMediaType,
}

// statusContentReturned is the nonstandard success code emitted when
// a write returns the updated representation instead of a bare
// 200/204.
const statusContentReturned = 209

// errBadAccept is returned from negotiateResponse() if the Accept:
// header is malformed (and no more specific error applies).
var errBadAccept = errors.New("Invalid Accept: header")

// errNotAcceptable is returned from negotiateResponse() if the Accept:
// header does not mention any media types we can actually return.
type errNotAcceptable struct{}

func (e errNotAcceptable) Error() string {
	return "No acceptable representation for response"
}

func (e errNotAcceptable) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// errMethodNotAllowed is used within the resourceHandler implementation
// to flag an error if a particular HTTP method is not allowed.  This
// corresponds exactly to the 405 Method Not Allowed HTTP status code.
type errMethodNotAllowed struct {
	Method string
}

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed", e.Method)
}

func (e errMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// responseCreated is returned as a value response from handler
// functions that want to indicate that a new resource was created.
type responseCreated struct {
	// Location holds the canonical URL to the newly created resource.
	Location string

	// Body contains the object sent in the body of the response.
	Body interface{}
}

// responseCached is returned from read handlers whose response can be
// revalidated.  The response carries the fingerprint as an ETag and a
// cache directive forcing revalidation on every use.
type responseCached struct {
	// Tag holds the content fingerprint of the body.
	Tag string

	// Body contains the object sent in the body of the response.
	Body interface{}
}

// responseNotModified is returned from read handlers when a client
// validator matched the current fingerprint.  The response has no
// body.
type responseNotModified struct{}

// responseContentReturned is returned from write handlers that send
// back the updated representation with the 209 status.
type responseContentReturned struct {
	// Body contains the object sent in the body of the response.
	Body interface{}
}

type resourceHandler struct {
	// Representation is an object representing this resource.
	// A copy of this object will be passed to the Put and Post
	// handler functions.
	Representation interface{}

	// PatchRepresentation, if non-nil, is the object type passed
	// to the Patch handler function; otherwise Patch receives
	// Representation.
	PatchRepresentation interface{}

	// Context reads an HTTP request and produces a context object.
	Context func(req *http.Request) (*context, error)

	// Get, if non-nil, returns a representation of the object.
	Get func(*context) (interface{}, error)

	// Put, if non-nil, updates the representation of the object.
	// The interface parameter is guaranteed to be the same type
	// as Representation.  The return can be any useful return
	// value.
	Put func(*context, interface{}) (interface{}, error)

	// Post, if non-nil, takes some arbitrary action.  The
	// interface parameter is guaranteed to be the same type as
	// Representation.  The return can be any useful return value,
	// including responseCreated.
	Post func(*context, interface{}) (interface{}, error)

	// Patch, if non-nil, applies a partial update to the object.
	// The interface parameter has the type of
	// PatchRepresentation, or Representation if that is nil.
	Patch func(*context, interface{}) (interface{}, error)

	// Delete, if non-nil, deletes the object.  The return can be
	// any useful return value.
	Delete func(*context) (interface{}, error)
}

// allowedMethods lists the HTTP methods this handler supports.  The
// order is part of the advertised Allow header.
func (h *resourceHandler) allowedMethods() []string {
	var methods []string
	if h.Get != nil {
		methods = append(methods, "GET")
	}
	if h.Post != nil {
		methods = append(methods, "POST")
	}
	if h.Put != nil {
		methods = append(methods, "PUT")
	}
	if h.Delete != nil {
		methods = append(methods, "DELETE")
	}
	if h.Patch != nil {
		methods = append(methods, "PATCH")
	}
	return append(methods, "OPTIONS")
}

func (h *resourceHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var (
		ctx          *context
		in, out      interface{}
		err          error
		status       int
		responseType string
	)

	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			response := restdata.ErrorResponse{}
			response.FromPanic(recovered)
			resp.Header().Set("Content-Type", restdata.V1JSONMediaType)
			resp.WriteHeader(http.StatusInternalServerError)
			json := &codec.JsonHandle{}
			encoder := codec.NewEncoder(resp, json)
			encoder.MustEncode(response)
		}
	}()

	// OPTIONS is a pure discovery request: no authentication, no
	// context, no body.
	if req.Method == "OPTIONS" {
		resp.Header().Set("Allow", strings.Join(h.allowedMethods(), ", "))
		resp.Header().Set("Cache-Control", "public, immutable")
		resp.WriteHeader(http.StatusNoContent)
		return
	}

	// Start by trying to come up with a response type, even before
	// trying to parse the input.  This determines what format an
	// error message could be sent back as.
	if err == nil {
		// Errors here by default are in the header setup
		status = http.StatusBadRequest
		responseType, err = negotiateResponse(req)
		if err != nil {
			// Gotta pick something
			responseType = restdata.V1JSONMediaType
		}
	}

	// Get the principal and bits from URL parameters and
	// conditional headers
	if err == nil {
		ctx, err = h.Context(req)
	}

	// Read the JSON body, if it's there
	if err == nil && (req.Method == "PUT" || req.Method == "POST" || req.Method == "PATCH") {
		representation := h.Representation
		if req.Method == "PATCH" && h.PatchRepresentation != nil {
			representation = h.PatchRepresentation
		}

		// Make a new object of the same type as the
		// representation, and decode the message body into it
		target := reflect.New(reflect.TypeOf(representation))
		contentType := req.Header.Get("Content-Type")
		err = restdata.DecodeBody(contentType, req.Body, target.Interface())
		in = target.Elem().Interface()
	}

	// Actually call the handler method
	if err == nil {
		// We will return this if the method is unexpected or
		// we don't have a handler for it
		err = errMethodNotAllowed{Method: req.Method}
		// If anything else goes wrong here, it's an error in
		// client code
		status = http.StatusInternalServerError
		switch req.Method {
		case "GET", "HEAD":
			if h.Get != nil {
				out, err = h.Get(ctx)
			}
		case "PUT":
			if h.Put != nil {
				out, err = h.Put(ctx, in)
			}
		case "POST":
			if h.Post != nil {
				out, err = h.Post(ctx, in)
			}
		case "PATCH":
			if h.Patch != nil {
				out, err = h.Patch(ctx, in)
			}
		case "DELETE":
			if h.Delete != nil {
				out, err = h.Delete(ctx)
			}
		}
	}

	// Fix up the final result based on what we know.
	if err != nil {
		// Pick a better status code if we know of one
		if errS, hasStatus := err.(restdata.ErrorStatus); hasStatus {
			status = errS.HTTPStatus()
		}
		response := restdata.ErrorResponse{Error: "error", Message: err.Error()}
		response.FromError(err)
		out = response
	} else if out == nil {
		status = http.StatusNoContent
	} else {
		switch response := out.(type) {
		case responseCreated:
			status = http.StatusCreated
			if response.Location != "" {
				resp.Header().Set("Location", response.Location)
			}
			out = response.Body
		case responseCached:
			status = http.StatusOK
			resp.Header().Set("ETag", response.Tag)
			resp.Header().Set("Cache-Control", "must-revalidate")
			out = response.Body
		case responseNotModified:
			status = http.StatusNotModified
			out = nil
		case responseContentReturned:
			status = statusContentReturned
			out = response.Body
		default:
			status = http.StatusOK
		}
		if req.Method == "HEAD" {
			out = nil
		}
	}

	// Come up with a function to write the response.  If setting
	// this up fails it could produce another error.  It is also
	// possible for the actual writer to fail, but by the point
	// that happens we've already written an HTTP status line, so
	// we're not necessarily doing better than panicking.
	responseWriters := map[string]func(){
		restdata.V1JSONMediaType: func() {
			json := &codec.JsonHandle{}
			encoder := codec.NewEncoder(resp, json)
			encoder.MustEncode(out)
		},
	}
	responseWriter, understood := responseWriters[typeMap[responseType]]
	if !understood {
		// We shouldn't get here, because it implies response
		// type negotiation failed...but here we are
		responseWriter = responseWriters[restdata.V1JSONMediaType]
		status = http.StatusInternalServerError
		out = restdata.ErrorResponse{Error: "error", Message: "Invalid response type " + responseType}
	}

	// Actually send the response
	if out != nil {
		resp.Header().Set("Content-Type", responseType)
	}
	resp.WriteHeader(status)
	if out != nil {
		responseWriter()
	}
}

// negotiateResponse returns a supported MIME type for the response
// body, following the path laid out in RFC 7231 section 5.3.
func negotiateResponse(req *http.Request) (string, error) {
	accept := req.Header.Get("Accept")
	if accept == "" {
		accept = "*/*"
	}
	bestType := ""
	bestQ := 0.0
	mediaRanges := strings.Split(accept, ",")
	for _, mediaRange := range mediaRanges {
		mediaRange = strings.TrimSpace(mediaRange)
		mediaType, params, err := mime.ParseMediaType(mediaRange)
		if err != nil {
			return "", err
		}

		// What is the "q" ("quality") parameter for this type?
		// If it is less than the best known so far, skip it
		q := 1.0
		if qStr, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qStr, 64)
			if err != nil {
				return "", err
			}
			if q < 0.0 || q > 1.0 {
				return "", errBadAccept
			}
		}
		if q < bestQ {
			continue
		}

		// This is acceptable if it's listed in the type
		// map; or it's one of a couple of specific wildcards.
		// Also need to handle wildcard precedence.  So:
		if mediaType == "*/*" {
			// Doesn't override anything.
			if q > bestQ {
				bestType = mediaType
				bestQ = q
			}
		} else if mediaType == "text/*" || mediaType == "application/*" {
			// Only overrides "*/*".
			if q > bestQ || bestType == "*/*" {
				bestType = mediaType
				bestQ = q
			}
		} else if _, knownType := typeMap[mediaType]; knownType {
			// Overrides any wildcard.  We want the first one
			// at a given q to win.
			if q > bestQ || bestType == "*/*" || bestType == "text/*" || bestType == "application/*" {
				bestType = mediaType
				bestQ = q
			}
		}
		// Otherwise we don't recognize this type at all, so
		// just drop it.
	}
	// If this failed to win, return an error
	if bestQ == 0.0 {
		return "", errNotAcceptable{}
	}
	switch bestType {
	case "*/*":
		return restdata.V1JSONMediaType, nil
	case "application/*":
		return restdata.V1JSONMediaType, nil
	case "text/*":
		return "text/json", nil
	default:
		return bestType, nil
	}
}
