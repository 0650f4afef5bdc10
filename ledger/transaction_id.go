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
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
)

const (
	scheduledSuffix = "?scheduled"

	// Generated valid starts are backdated so that a node whose clock runs
	// slightly behind ours does not reject the transaction as not yet valid
	validStartBackdate       = 8 * time.Second
	validStartBackdateJitter = 5 * time.Second
)

// TransactionID identifies a transaction by its payer and valid start time.
// Scheduled transactions and transactions spawned by other transactions are
// told apart by the scheduled flag and the nonce.
type TransactionID struct {
	AccountID  *AccountID
	ValidStart *time.Time
	Scheduled  bool
	// Nonce is nil when absent. An explicit zero nonce is kept distinct from an
	// absent one, both in memory and on the wire
	Nonce *int32
}

// NewTransactionID generates a transaction id for the payer with a valid start
// shortly before the current time
func NewTransactionID(payer AccountID) TransactionID {
	backdate := validStartBackdate + rand.N(validStartBackdateJitter) // #nosec G404
	return NewTransactionIDWithValidStart(payer, time.Now().Add(-backdate))
}

// NewTransactionIDWithValidStart returns the transaction id for the payer with
// the given valid start
func NewTransactionIDWithValidStart(payer AccountID, validStart time.Time) TransactionID {
	payer = payer.WithoutChecksum()
	return TransactionID{
		AccountID:  &payer,
		ValidStart: &validStart,
	}
}

// TransactionIDFromString parses the form produced by String:
// shard.realm.num@seconds.nanos[?scheduled][/nonce]
func TransactionIDFromString(s string) (TransactionID, error) {
	var ret TransactionID
	accountPart, rest, ok := strings.Cut(s, "@")
	if !ok {
		return ret, fmt.Errorf("%w: %q: missing '@'", ErrInvalidTransactionID, s)
	}
	accountID, err := AccountIDFromString(accountPart)
	if err != nil {
		return ret, fmt.Errorf("%w: %q: %w", ErrInvalidTransactionID, s, err)
	}
	ret.AccountID = &accountID
	if before, nonceStr, ok := strings.Cut(rest, "/"); ok {
		nonce, err := strconv.ParseInt(nonceStr, 10, 32)
		if err != nil {
			return ret, fmt.Errorf("%w: %q: bad nonce: %w", ErrInvalidTransactionID, s, err)
		}
		tmpNonce := int32(nonce)
		ret.Nonce = &tmpNonce
		rest = before
	}
	if before, ok := strings.CutSuffix(rest, scheduledSuffix); ok {
		ret.Scheduled = true
		rest = before
	}
	secStr, nanoStr, ok := strings.Cut(rest, ".")
	if !ok {
		return ret, fmt.Errorf("%w: %q: bad valid start", ErrInvalidTransactionID, s)
	}
	seconds, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return ret, fmt.Errorf("%w: %q: bad seconds: %w", ErrInvalidTransactionID, s, err)
	}
	nanos, err := strconv.ParseInt(nanoStr, 10, 32)
	if err != nil || nanos < 0 || nanos >= int64(time.Second) {
		return ret, fmt.Errorf("%w: %q: bad nanos", ErrInvalidTransactionID, s)
	}
	validStart := time.Unix(seconds, nanos)
	ret.ValidStart = &validStart
	return ret, nil
}

func (id TransactionID) String() string {
	if id.AccountID == nil || id.ValidStart == nil {
		return ""
	}
	var sb strings.Builder
	ts := NewTimestamp(*id.ValidStart)
	fmt.Fprintf(&sb, "%s@%d.%09d", id.AccountID.String(), ts.Seconds, ts.Nanos)
	if id.Scheduled {
		sb.WriteString(scheduledSuffix)
	}
	if id.Nonce != nil {
		fmt.Fprintf(&sb, "/%d", *id.Nonce)
	}
	return sb.String()
}

// IsZero returns true if the id has no payer or no valid start
func (id TransactionID) IsZero() bool {
	return id.AccountID == nil || id.ValidStart == nil
}

// Equal compares two ids by payer, valid start, scheduled flag and nonce
func (id TransactionID) Equal(other TransactionID) bool {
	if (id.AccountID == nil) != (other.AccountID == nil) ||
		(id.ValidStart == nil) != (other.ValidStart == nil) ||
		(id.Nonce == nil) != (other.Nonce == nil) {
		return false
	}
	if id.AccountID != nil && id.AccountID.WithoutChecksum() != other.AccountID.WithoutChecksum() {
		return false
	}
	if id.ValidStart != nil && !id.ValidStart.Equal(*other.ValidStart) {
		return false
	}
	if id.Nonce != nil && *id.Nonce != *other.Nonce {
		return false
	}
	return id.Scheduled == other.Scheduled
}

// Advance returns a copy of the id with the valid start moved forward by d.
// Chunked transactions derive each chunk's id this way from the previous one
func (id TransactionID) Advance(d time.Duration) TransactionID {
	ret := id
	if id.ValidStart != nil {
		tmp := id.ValidStart.Add(d)
		ret.ValidStart = &tmp
	}
	if id.AccountID != nil {
		tmp := *id.AccountID
		ret.AccountID = &tmp
	}
	if id.Nonce != nil {
		tmp := *id.Nonce
		ret.Nonce = &tmp
	}
	return ret
}

func (id TransactionID) WithScheduled(scheduled bool) TransactionID {
	ret := id.Advance(0)
	ret.Scheduled = scheduled
	return ret
}

func (id TransactionID) WithNonce(nonce int32) TransactionID {
	ret := id.Advance(0)
	ret.Nonce = &nonce
	return ret
}

type transactionIDWire struct {
	cbor.StructAsArray
	AccountID  *AccountID
	ValidStart *Timestamp
	Scheduled  bool
	Nonce      *int32
}

func (id TransactionID) MarshalCBOR() ([]byte, error) {
	tmp := transactionIDWire{
		AccountID: id.AccountID,
		Scheduled: id.Scheduled,
		Nonce:     id.Nonce,
	}
	if id.ValidStart != nil {
		ts := NewTimestamp(*id.ValidStart)
		tmp.ValidStart = &ts
	}
	return cbor.Encode(&tmp)
}

func (id *TransactionID) UnmarshalCBOR(data []byte) error {
	var tmp transactionIDWire
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	id.AccountID = tmp.AccountID
	id.Scheduled = tmp.Scheduled
	id.Nonce = tmp.Nonce
	id.ValidStart = nil
	if tmp.ValidStart != nil {
		validStart := tmp.ValidStart.Time()
		id.ValidStart = &validStart
	}
	return nil
}
