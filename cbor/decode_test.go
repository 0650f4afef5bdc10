// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor_test

import (
	"encoding/hex"
	"errors"
	"reflect"
	"testing"

	"github.com/blinklabs-io/gohedera/cbor"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type decodeTestDefinition struct {
	CborHex   string
	Object    any
	BytesRead int
}

var decodeTests = []decodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{uint64(1), uint64(2), uint64(3)},
	},
	// Multiple CBOR objects
	{
		CborHex:   "81018102",
		Object:    []any{uint64(1)},
		BytesRead: 2,
	},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		cborData, err := hex.DecodeString(test.CborHex)
		if err != nil {
			t.Fatalf("failed to decode CBOR hex: %s", err)
		}
		var dest any
		bytesRead, err := cbor.Decode(cborData, &dest)
		if err != nil {
			t.Fatalf("failed to decode CBOR: %s", err)
		}
		if test.BytesRead > 0 {
			if bytesRead != test.BytesRead {
				t.Fatalf(
					"expected to read %d bytes, read %d instead",
					test.BytesRead,
					bytesRead,
				)
			}
		}
		if !reflect.DeepEqual(dest, test.Object) {
			t.Fatalf(
				"CBOR did not decode to expected object\n  got: %#v\n  wanted: %#v",
				dest,
				test.Object,
			)
		}
	}
}

func TestDecodeOptionalNull(t *testing.T) {
	cborData, _ := hex.DecodeString("82f640")
	var dest testOptional
	if _, err := cbor.Decode(cborData, &dest); err != nil {
		t.Fatalf("failed to decode CBOR: %s", err)
	}
	if dest.Nonce != nil {
		t.Fatalf("expected nil nonce, got %d", *dest.Nonce)
	}
	cborData, _ = hex.DecodeString("820040")
	if _, err := cbor.Decode(cborData, &dest); err != nil {
		t.Fatalf("failed to decode CBOR: %s", err)
	}
	if dest.Nonce == nil || *dest.Nonce != 0 {
		t.Fatalf("expected explicit zero nonce, got %v", dest.Nonce)
	}
}

func TestDecodeAllTrailingData(t *testing.T) {
	cborData, _ := hex.DecodeString("81018102")
	var dest []uint64
	err := cbor.DecodeAll(cborData, &dest)
	if !errors.Is(err, cbor.ErrTrailingData) {
		t.Fatalf("did not get expected error: got %v", err)
	}
}

type listLenTestDefinition struct {
	CborHex string
	Length  int
}

var listLenTests = []listLenTestDefinition{
	// [1]
	{
		CborHex: "8101",
		Length:  1,
	},
	// [1, 3]
	{
		CborHex: "820103",
		Length:  2,
	},
	// 24 item list, which can't use the single byte shortcut
	{
		CborHex: "9818000102030405060708090a0b0c0d0e0f1011121314151617",
		Length:  24,
	},
}

func TestListLength(t *testing.T) {
	for _, test := range listLenTests {
		cborData, err := hex.DecodeString(test.CborHex)
		if err != nil {
			t.Fatalf("failed to decode CBOR hex: %s", err)
		}
		listLen, err := cbor.ListLength(cborData)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if listLen != test.Length {
			t.Fatalf("did not get expected length: got %d, wanted %d", listLen, test.Length)
		}
	}
}
