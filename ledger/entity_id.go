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
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/gohedera/cbor"
)

// parseEntityID parses the "shard.realm.num[-checksum]" form shared by all entity ids
func parseEntityID(s string) (shard, realm, num uint64, checksum string, err error) {
	idPart := s
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		idPart = s[:idx]
		checksum = s[idx+1:]
		if len(checksum) != ChecksumLength {
			return 0, 0, 0, "", fmt.Errorf("%w: %q: bad checksum length", ErrInvalidEntityID, s)
		}
		for _, c := range checksum {
			if c < 'a' || c > 'z' {
				return 0, 0, 0, "", fmt.Errorf("%w: %q: bad checksum character", ErrInvalidEntityID, s)
			}
		}
	}
	parts := strings.Split(idPart, ".")
	if len(parts) != 3 {
		return 0, 0, 0, "", fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
	}
	var vals [3]uint64
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return 0, 0, 0, "", fmt.Errorf("%w: %q: %w", ErrInvalidEntityID, s, err)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], checksum, nil
}

func formatEntityID(shard, realm, num uint64) string {
	return fmt.Sprintf("%d.%d.%d", shard, realm, num)
}

func validateEntityChecksum(
	ledgerID LedgerID,
	shard, realm, num uint64,
	present string,
) error {
	// Ids without a checksum are always accepted
	if present == "" {
		return nil
	}
	expected := Checksum(ledgerID, formatEntityID(shard, realm, num))
	if expected != present {
		return ChecksumMismatchError{
			EntityID: formatEntityID(shard, realm, num),
			Expected: expected,
			Present:  present,
		}
	}
	return nil
}

// AccountID identifies an account on the ledger. Consensus nodes are addressed
// by their account id.
type AccountID struct {
	cbor.StructAsArray
	Shard    uint64
	Realm    uint64
	Num      uint64
	checksum string
}

// NewAccountID returns the account id shard.realm.num
func NewAccountID(shard, realm, num uint64) AccountID {
	return AccountID{Shard: shard, Realm: realm, Num: num}
}

// AccountIDFromString parses an account id in "shard.realm.num" form with an
// optional "-checksum" suffix
func AccountIDFromString(s string) (AccountID, error) {
	shard, realm, num, checksum, err := parseEntityID(s)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID{Shard: shard, Realm: realm, Num: num, checksum: checksum}, nil
}

func (a AccountID) String() string {
	return formatEntityID(a.Shard, a.Realm, a.Num)
}

// Checksum returns the checksum the id was parsed with, if any
func (a AccountID) Checksum() string {
	return a.checksum
}

// ToStringWithChecksum formats the id with the checksum for the given ledger
func (a AccountID) ToStringWithChecksum(ledgerID LedgerID) string {
	s := a.String()
	return s + "-" + Checksum(ledgerID, s)
}

// ValidateChecksum checks a parsed checksum against the given ledger
func (a AccountID) ValidateChecksum(ledgerID LedgerID) error {
	return validateEntityChecksum(ledgerID, a.Shard, a.Realm, a.Num, a.checksum)
}

// WithoutChecksum returns the id with any parsed checksum dropped. Ids that
// differ only in checksum compare equal afterward
func (a AccountID) WithoutChecksum() AccountID {
	return NewAccountID(a.Shard, a.Realm, a.Num)
}

// TopicID identifies a consensus topic
type TopicID struct {
	cbor.StructAsArray
	Shard    uint64
	Realm    uint64
	Num      uint64
	checksum string
}

func NewTopicID(shard, realm, num uint64) TopicID {
	return TopicID{Shard: shard, Realm: realm, Num: num}
}

func TopicIDFromString(s string) (TopicID, error) {
	shard, realm, num, checksum, err := parseEntityID(s)
	if err != nil {
		return TopicID{}, err
	}
	return TopicID{Shard: shard, Realm: realm, Num: num, checksum: checksum}, nil
}

func (t TopicID) String() string {
	return formatEntityID(t.Shard, t.Realm, t.Num)
}

func (t TopicID) ValidateChecksum(ledgerID LedgerID) error {
	return validateEntityChecksum(ledgerID, t.Shard, t.Realm, t.Num, t.checksum)
}

// FileID identifies a file
type FileID struct {
	cbor.StructAsArray
	Shard    uint64
	Realm    uint64
	Num      uint64
	checksum string
}

func NewFileID(shard, realm, num uint64) FileID {
	return FileID{Shard: shard, Realm: realm, Num: num}
}

func FileIDFromString(s string) (FileID, error) {
	shard, realm, num, checksum, err := parseEntityID(s)
	if err != nil {
		return FileID{}, err
	}
	return FileID{Shard: shard, Realm: realm, Num: num, checksum: checksum}, nil
}

func (f FileID) String() string {
	return formatEntityID(f.Shard, f.Realm, f.Num)
}

func (f FileID) ValidateChecksum(ledgerID LedgerID) error {
	return validateEntityChecksum(ledgerID, f.Shard, f.Realm, f.Num, f.checksum)
}
