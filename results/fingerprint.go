// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/ugorji/go/codec"
)

// Fingerprint computes the opaque content tag for a representation:
// the MD5 hex digest of its canonical JSON encoding.  Two values with
// identical externally-visible content always produce the same tag;
// changing any field produces a different tag (barring digest
// collisions).  The same function serves single representations and
// whole collections.
//
// The tag is what the REST layer emits as an ETag and compares
// against If-Match and If-None-Match validators.
func Fingerprint(v interface{}) (string, error) {
	handle := &codec.JsonHandle{}
	handle.Canonical = true
	var encoded []byte
	encoder := codec.NewEncoderBytes(&encoded, handle)
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	sum := md5.Sum(encoded)
	return hex.EncodeToString(sum[:]), nil
}
