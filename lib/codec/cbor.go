// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode = newEncMode()
	decMode = newDecMode()
)

// newEncMode encodes times as whole Unix seconds, so a session saved
// twice in the same second seals identical plaintext.
func newEncMode() cbor.EncMode {
	options := cbor.CoreDetEncOptions()
	options.Time = cbor.TimeUnix
	mode, err := options.EncMode()
	if err != nil {
		panic("codec: building CBOR encoder: " + err.Error())
	}
	return mode
}

// newDecMode rejects a record with a repeated key, which a deterministic
// encoder never writes. Maps decoded into any get string keys.
func newDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		DefaultMapType: reflect.TypeFor[map[string]any](),
	}.DecMode()
	if err != nil {
		panic("codec: building CBOR decoder: " + err.Error())
	}
	return mode
}

// Marshal encodes v for storage.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes a stored record into v. Fields the record has but v
// lacks are skipped, so an older client can read a newer record.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
