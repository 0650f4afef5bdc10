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
	"errors"
	"fmt"
)

var (
	ErrInvalidEntityID      = errors.New("invalid entity id")
	ErrInvalidTransactionID = errors.New("invalid transaction id")
	ErrInvalidLedgerID      = errors.New("invalid ledger id")
	ErrBadChecksum          = errors.New("entity id checksum mismatch")
)

type ChecksumMismatchError struct {
	EntityID string
	Expected string
	Present  string
}

func (e ChecksumMismatchError) Error() string {
	return fmt.Sprintf(
		"checksum mismatch for %s: expected %s, present %s",
		e.EntityID,
		e.Expected,
		e.Present,
	)
}

func (ChecksumMismatchError) Is(target error) bool {
	return target == ErrBadChecksum
}
