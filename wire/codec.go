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

package wire

import (
	"github.com/blinklabs-io/gohedera/cbor"
)

// CodecName is the gRPC content subtype used for CBOR-encoded messages
const CodecName = "cbor"

// Codec carries wire messages over gRPC as CBOR
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return cbor.Encode(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return cbor.DecodeAll(data, v)
}

func (Codec) Name() string {
	return CodecName
}
