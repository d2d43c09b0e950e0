// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"io"
	"mime"

	"github.com/mitchellh/mapstructure"
	"github.com/ugorji/go/codec"
)

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ErrBadRequest{Err: err}
	}

	switch mediaType {
	case "text/json", "application/json", JSONMediaType, V1JSONMediaType:
		json := &codec.JsonHandle{}
		decoder := codec.NewDecoder(r, json)
		err = decoder.Decode(out)
		if err != nil {
			return ErrBadRequest{Err: err}
		}
		return nil
	default:
		return ErrUnsupportedMediaType{Type: mediaType}
	}
}

// DecodeBody decodes a request body into a typed update structure,
// rejecting shapes the structure cannot represent.  The body is first
// decoded generically, then mapped field-by-field; unknown keys and
// mistyped values are unprocessable-entity errors, not silently
// dropped.  An empty body decodes as an empty object, so that the
// caller's required-field checks produce the error.
func DecodeBody(contentType string, r io.Reader, out interface{}) error {
	raw := make(map[string]interface{})
	err := Decode(contentType, r, &raw)
	if bad, isBad := err.(ErrBadRequest); isBad && bad.Err == io.EOF {
		err = nil
	}
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// decode maps a string-keyed map onto a structure using the
// structure's json tags.  Unused keys and unconvertible values are
// errors.
func decode(raw map[string]interface{}, out interface{}) error {
	config := mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
		TagName:     "json",
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(raw)
	}
	if err != nil {
		return ErrUnprocessable{Err: err}
	}
	return nil
}
