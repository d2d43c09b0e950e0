// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"

	"github.com/aulaweb/go-results/results"
)

// ErrorStatus describes errors that correspond to specific HTTP
// status codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrBadRequest is returned when there is an error decoding HTTP
// headers or the request body cannot be read at all.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrForbidden is a wrapper error for authorization failures,
// producing 403 Forbidden.
type ErrForbidden struct {
	Err error
}

func (e ErrForbidden) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 403 Forbidden error code.
func (e ErrForbidden) HTTPStatus() int {
	return http.StatusForbidden
}

// ErrUnauthorized is returned when a request carries no valid
// principal, producing 401 Unauthorized.
type ErrUnauthorized struct {
	Err error
}

func (e ErrUnauthorized) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 401 Unauthorized error code.
func (e ErrUnauthorized) HTTPStatus() int {
	return http.StatusUnauthorized
}

// ErrUnprocessable is a wrapper error for request bodies that parse
// but are semantically unusable, producing 422 Unprocessable Entity.
type ErrUnprocessable struct {
	Err error
}

func (e ErrUnprocessable) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 422 Unprocessable Entity error code.
func (e ErrUnprocessable) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// ErrPreconditionFailed is a wrapper error for failed write
// preconditions, producing 412 Precondition Failed.
type ErrPreconditionFailed struct {
	Err error
}

func (e ErrPreconditionFailed) Error() string {
	return "PRECONDITION FAILED: " + e.Err.Error()
}

// HTTPStatus returns a fixed 412 Precondition Failed error code.
func (e ErrPreconditionFailed) HTTPStatus() int {
	return http.StatusPreconditionFailed
}

// MapError wraps a well-known domain error in the wrapper carrying
// its HTTP status.  Errors it does not recognize are returned
// unchanged; in particular store I/O faults pass through and surface
// as internal errors.
func MapError(err error) error {
	switch err {
	case nil:
		return nil
	case results.ErrForbidden:
		return ErrForbidden{Err: err}
	case results.ErrNoResults:
		return ErrNotFound{Err: err}
	case results.ErrMissingFields, results.ErrNoFieldsToUpdate:
		return ErrUnprocessable{Err: err}
	}
	switch err.(type) {
	case results.ErrNoSuchResult, results.ErrNoSuchUser:
		return ErrNotFound{Err: err}
	case results.ErrPreconditionFailed:
		return ErrPreconditionFailed{Err: err}
	case results.ErrBadDate, results.ErrBadSortKey:
		return ErrUnprocessable{Err: err}
	}
	return err
}

// FromError populates an ErrorResponse based on an error value.  This
// remaps the well-known domain errors to specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	switch err {
	case results.ErrForbidden:
		e.Error = "ErrForbidden"
	case results.ErrNoResults:
		e.Error = "ErrNoResults"
	case results.ErrMissingFields:
		e.Error = "ErrMissingFields"
	case results.ErrNoFieldsToUpdate:
		e.Error = "ErrNoFieldsToUpdate"
	}
	switch et := err.(type) {
	case results.ErrNoSuchResult:
		e.Error = "ErrNoSuchResult"
		e.Value = strconv.Itoa(et.ID)
	case results.ErrNoSuchUser:
		e.Error = "ErrNoSuchUser"
		e.Value = et.Email
	case results.ErrPreconditionFailed:
		e.Error = "ErrPreconditionFailed"
		e.Value = et.Tag
	case results.ErrBadDate:
		e.Error = "ErrBadDate"
		e.Value = et.Value
	case results.ErrBadSortKey:
		e.Error = "ErrBadSortKey"
		e.Value = et.Name
	case ErrNotFound:
		// Discard the wrapper and report the embedded error
		e.FromError(et.Err)
	case ErrForbidden:
		e.FromError(et.Err)
	case ErrUnauthorized:
		e.FromError(et.Err)
	case ErrUnprocessable:
		e.FromError(et.Err)
	case ErrPreconditionFailed:
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	}
}

// ToError converts e back to a domain error, if that is possible.  If
// not, returns a plain error with e.Message text.
func (e *ErrorResponse) ToError() error {
	switch e.Error {
	case "ErrForbidden":
		return results.ErrForbidden
	case "ErrNoResults":
		return results.ErrNoResults
	case "ErrMissingFields":
		return results.ErrMissingFields
	case "ErrNoFieldsToUpdate":
		return results.ErrNoFieldsToUpdate
	case "ErrNoSuchResult":
		id, err := strconv.Atoi(e.Value)
		if err != nil {
			return errors.New(e.Message)
		}
		return results.ErrNoSuchResult{ID: id}
	case "ErrNoSuchUser":
		return results.ErrNoSuchUser{Email: e.Value}
	case "ErrPreconditionFailed":
		return results.ErrPreconditionFailed{Tag: e.Value}
	case "ErrBadDate":
		return results.ErrBadDate{Value: e.Value}
	case "ErrBadSortKey":
		return results.ErrBadSortKey{Name: e.Value}
	default:
		return errors.New(e.Message)
	}
}

// FromPanic populates an error response based on a panic.  Typical
// use is:
//
//	defer func() {
//	    if obj := recover(); obj != nil {
//	        resp := restdata.ErrorResponse{}
//	        resp.FromPanic(obj)
//	        // write resp out as makes sense
//	    }
//	}()
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	n := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:n])
}
