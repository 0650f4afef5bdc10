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

package ledger

import (
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
)

// Timestamp is the wire form of a point in time
type Timestamp struct {
	cbor.StructAsArray
	Seconds int64
	Nanos   int32
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()), // #nosec G115
	}
}

func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos))
}

// Duration is the wire form of a span of time, at second resolution
type Duration struct {
	cbor.StructAsArray
	Seconds int64
}

func NewDuration(d time.Duration) Duration {
	return Duration{Seconds: int64(d / time.Second)}
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}
