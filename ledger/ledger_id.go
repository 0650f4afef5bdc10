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
	"encoding/hex"
	"fmt"
)

// LedgerID selects the network a client is bound to, along with its checksum
// and address-book namespace
type LedgerID struct {
	// We use a string because []byte isn't comparable, which means it can't be used as a map key
	id string
}

var (
	LedgerIDMainnet    = LedgerID{id: "\x00"}
	LedgerIDTestnet    = LedgerID{id: "\x01"}
	LedgerIDPreviewnet = LedgerID{id: "\x02"}
	LedgerIDLocal      = LedgerID{id: "\x03"}
)

var ledgerIDNames = map[LedgerID]string{
	LedgerIDMainnet:    "mainnet",
	LedgerIDTestnet:    "testnet",
	LedgerIDPreviewnet: "previewnet",
	LedgerIDLocal:      "local",
}

// NewLedgerID returns the ledger id with the given raw bytes
func NewLedgerID(data []byte) LedgerID {
	return LedgerID{id: string(data)}
}

// LedgerIDFromString accepts a well-known ledger name or a hex-encoded ledger id
func LedgerIDFromString(s string) (LedgerID, error) {
	for ledgerID, name := range ledgerIDNames {
		if name == s {
			return ledgerID, nil
		}
	}
	data, err := hex.DecodeString(s)
	if err != nil || len(data) == 0 {
		return LedgerID{}, fmt.Errorf("%w: %q", ErrInvalidLedgerID, s)
	}
	return NewLedgerID(data), nil
}

func (l LedgerID) Bytes() []byte {
	return []byte(l.id)
}

// Name returns the well-known name of the ledger, or an empty string
func (l LedgerID) Name() string {
	return ledgerIDNames[l]
}

func (l LedgerID) String() string {
	if name, ok := ledgerIDNames[l]; ok {
		return name
	}
	return hex.EncodeToString([]byte(l.id))
}

func (l LedgerID) IsZero() bool {
	return l.id == ""
}
