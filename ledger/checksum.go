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
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

const (
	// ChecksumLength is the number of letters in an entity id checksum
	ChecksumLength = 5

	checksumAlphabetSize = 26
	// 26^5
	checksumModulus = 11881376
)

// Checksum returns the checksum of the entity address "shard.realm.num" for
// the given ledger. The digest is a BLAKE2b-256 MAC keyed with the ledger id,
// so the same address carries a different checksum on every ledger.
func Checksum(ledgerID LedgerID, address string) string {
	key := ledgerID.Bytes()
	if len(key) > blake2b.Size {
		// BLAKE2b keys are limited to 64 bytes
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// Only possible with an oversized key, which is handled above
		panic(err)
	}
	_, _ = h.Write([]byte(address))
	digest := h.Sum(nil)
	v := binary.BigEndian.Uint64(digest[:8]) % checksumModulus
	ret := make([]byte, ChecksumLength)
	for i := ChecksumLength - 1; i >= 0; i-- {
		ret[i] = byte('a' + v%checksumAlphabetSize)
		v /= checksumAlphabetSize
	}
	return string(ret)
}
