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

package hedera

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/network"
	"github.com/blinklabs-io/gohedera/wire"
	"google.golang.org/grpc/codes"
)

var (
	ErrTransactionImmutable                   = errors.New("transaction is immutable; it has been frozen")
	ErrTransactionNotFrozen                   = errors.New("transaction must be frozen first")
	ErrTransactionIDNotFrozen                 = errors.New("transaction id is not set until the transaction is frozen")
	ErrTransactionNodeAccountIDOrClientNotSet = errors.New("transaction has no node account ids and no client to pick them from")
	ErrClientNotSet                           = errors.New("client is required")
	ErrOperatorNotSet                         = errors.New("client operator is not set")
	ErrInvalidTransactionList                 = errors.New("invalid serialized transaction")
	ErrUnknownNetwork                         = errors.New("unknown network")
	ErrInvalidBackoff                         = errors.New("invalid backoff")
	ErrInvalidHbar                            = errors.New("invalid hbar amount")
	ErrNoReceipt                              = errors.New("response did not include a receipt")

	ErrFailedPrecheck          = errors.New("node rejected the request in precheck")
	ErrMaxAttemptsExceeded     = errors.New("max attempts exceeded")
	ErrMaxChunksExceeded       = errors.New("max chunks exceeded")
	ErrMaxQueryPaymentExceeded = errors.New("query cost exceeds max query payment")
	ErrProtoClientFailed       = errors.New("rpc failed")
	ErrReceiptStatus           = errors.New("receipt reported a failure status")
	ErrInvalidNodeAddress      = network.ErrInvalidNodeAddress
	ErrInvalidNodeAccountID    = network.ErrInvalidNodeAccountID
	ErrBadEntityIDChecksum     = ledger.ErrBadChecksum
	ErrUnknownMethod           = channel.ErrUnknownMethod
)

// PrecheckError is returned when a node answers with a status other than
// OK or SUCCESS that is not retried
type PrecheckError struct {
	Status        wire.Status
	TransactionID *ledger.TransactionID
}

func (e PrecheckError) Error() string {
	if e.TransactionID != nil {
		return fmt.Sprintf(
			"exceptional precheck status %s received for transaction %s",
			e.Status,
			e.TransactionID.String(),
		)
	}
	return fmt.Sprintf("exceptional precheck status %s", e.Status)
}

func (PrecheckError) Is(target error) bool {
	return target == ErrFailedPrecheck
}

// MaxAttemptsExceededError is returned when every attempt of a request failed
type MaxAttemptsExceededError struct {
	Attempts int
	LastErr  error
}

func (e MaxAttemptsExceededError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("max attempts (%d) exceeded: %v", e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("max attempts (%d) exceeded", e.Attempts)
}

func (e MaxAttemptsExceededError) Unwrap() error { return e.LastErr }

func (MaxAttemptsExceededError) Is(target error) bool {
	return target == ErrMaxAttemptsExceeded
}

// MaxChunksExceededError is returned when chunked data needs more chunks than allowed
type MaxChunksExceededError struct {
	Chunks    int
	MaxChunks int
}

func (e MaxChunksExceededError) Error() string {
	return fmt.Sprintf(
		"message requires %d chunks but max chunks is %d",
		e.Chunks,
		e.MaxChunks,
	)
}

func (MaxChunksExceededError) Is(target error) bool {
	return target == ErrMaxChunksExceeded
}

// MaxQueryPaymentExceededError is returned when the quoted cost of a query is
// above the allowed payment
type MaxQueryPaymentExceededError struct {
	Query           string
	Cost            Hbar
	MaxQueryPayment Hbar
}

func (e MaxQueryPaymentExceededError) Error() string {
	return fmt.Sprintf(
		"cost of %s (%s) without explicit payment is greater than the max query payment of %s",
		e.Query,
		e.Cost,
		e.MaxQueryPayment,
	)
}

func (MaxQueryPaymentExceededError) Is(target error) bool {
	return target == ErrMaxQueryPaymentExceeded
}

// ProtoClientError is returned for transport failures that are not retried
type ProtoClientError struct {
	Code codes.Code
	Err  error
}

func (e ProtoClientError) Error() string {
	return fmt.Sprintf("rpc failed with code %s: %v", e.Code, e.Err)
}

func (e ProtoClientError) Unwrap() error { return e.Err }

func (ProtoClientError) Is(target error) bool {
	return target == ErrProtoClientFailed
}

// ReceiptStatusError is returned when a fetched receipt reports a failure
type ReceiptStatusError struct {
	Status        wire.Status
	TransactionID ledger.TransactionID
	Receipt       TransactionReceipt
}

func (e ReceiptStatusError) Error() string {
	return fmt.Sprintf(
		"exceptional receipt status %s for transaction %s",
		e.Status,
		e.TransactionID.String(),
	)
}

func (ReceiptStatusError) Is(target error) bool {
	return target == ErrReceiptStatus
}
