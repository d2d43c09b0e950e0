// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMediaTypes(t *testing.T) {
	accepted := []string{
		"application/json",
		"text/json",
		JSONMediaType,
		V1JSONMediaType,
		V1JSONMediaType + "; charset=utf-8",
	}
	for _, contentType := range accepted {
		var out RootData
		err := Decode(contentType, strings.NewReader(`{"results_url": "/results"}`), &out)
		if assert.NoError(t, err, contentType) {
			assert.Equal(t, "/results", out.ResultsURL, contentType)
		}
	}

	var out RootData
	err := Decode("text/plain", strings.NewReader("hello"), &out)
	assert.Equal(t, ErrUnsupportedMediaType{Type: "text/plain"}, err)

	err = Decode("", strings.NewReader("hello"), &out)
	assert.Equal(t, ErrUnsupportedMediaType{Type: "application/octet-stream"}, err)

	err = Decode("not a media type at all;;", strings.NewReader("{}"), &out)
	if assert.IsType(t, ErrBadRequest{}, err) {
		assert.NotEmpty(t, err.Error())
	}
}

func TestDecodeBadJSON(t *testing.T) {
	var out RootData
	err := Decode("application/json", strings.NewReader("{not json"), &out)
	assert.IsType(t, ErrBadRequest{}, err)
}

func TestDecodeBody(t *testing.T) {
	var update ResultUpdate
	err := DecodeBody("application/json",
		strings.NewReader(`{"result": 42, "date": "2024-03-01 12:00:00"}`), &update)
	if assert.NoError(t, err) {
		if assert.NotNil(t, update.Result) {
			assert.Equal(t, 42, *update.Result)
		}
		if assert.NotNil(t, update.Date) {
			assert.Equal(t, "2024-03-01 12:00:00", *update.Date)
		}
	}
}

func TestDecodeBodyPartial(t *testing.T) {
	var update ResultUpdate
	err := DecodeBody("application/json",
		strings.NewReader(`{"result": 42}`), &update)
	if assert.NoError(t, err) {
		assert.NotNil(t, update.Result)
		assert.Nil(t, update.Date)
	}
}

func TestDecodeBodyEmpty(t *testing.T) {
	// An empty body is an empty object, not a protocol error; the
	// caller's required-field checks take it from here
	var update ResultUpdate
	err := DecodeBody("application/json", strings.NewReader(""), &update)
	if assert.NoError(t, err) {
		assert.Nil(t, update.Result)
		assert.Nil(t, update.Date)
	}
}

func TestDecodeBodyUnknownField(t *testing.T) {
	var update ResultUpdate
	err := DecodeBody("application/json",
		strings.NewReader(`{"result": 42, "shoe_size": 9}`), &update)
	assert.IsType(t, ErrUnprocessable{}, err)
}

func TestDecodeBodyMistypedField(t *testing.T) {
	var update ResultUpdate
	err := DecodeBody("application/json",
		strings.NewReader(`{"result": "forty-two"}`), &update)
	assert.IsType(t, ErrUnprocessable{}, err)
}
