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

// Package cbor provides the CBOR encoding/decoding used for the node wire format.
//
// This package wraps github.com/fxamacker/cbor/v2 with a single deterministic
// encoder configuration. Signed transaction payloads are signed over their
// encoded body bytes, so every encoder in the module must agree on the output
// for a given message.
//
// Wire messages embed StructAsArray so that they are encoded as CBOR arrays
// rather than maps:
//
//	type Timestamp struct {
//	    cbor.StructAsArray
//	    Seconds int64
//	    Nanos   int32
//	}
//
// A nil pointer field in such a struct is encoded as CBOR null, which lets the
// wire format tell an absent optional value apart from its zero value.
package cbor
