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
	"context"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
)

// TransactionReceiptQuery fetches the receipt of a transaction, retrying
// until consensus has been reached. Nodes answer it without payment
type TransactionReceiptQuery struct {
	Query[*TransactionReceiptQuery]
	transactionID     *ledger.TransactionID
	includeDuplicates bool
}

func NewTransactionReceiptQuery() *TransactionReceiptQuery {
	q := &TransactionReceiptQuery{}
	q.init(q, q)
	return q
}

func (q *TransactionReceiptQuery) SetTransactionID(transactionID ledger.TransactionID) *TransactionReceiptQuery {
	q.transactionID = &transactionID
	return q
}

func (q *TransactionReceiptQuery) TransactionID() ledger.TransactionID {
	if q.transactionID == nil {
		return ledger.TransactionID{}
	}
	return *q.transactionID
}

func (q *TransactionReceiptQuery) SetIncludeDuplicates(includeDuplicates bool) *TransactionReceiptQuery {
	q.includeDuplicates = includeDuplicates
	return q
}

// Execute returns the receipt whatever its status. Use
// TransactionReceipt.ValidateStatus to turn a failure status into an error
func (q *TransactionReceiptQuery) Execute(ctx context.Context, client *Client) (TransactionReceipt, error) {
	return executeQuery(
		ctx,
		client,
		&q.Query,
		func(resp wire.Response) (TransactionReceipt, error) {
			if resp.TransactionGetReceipt == nil || resp.TransactionGetReceipt.Receipt == nil {
				return TransactionReceipt{}, ErrNoReceipt
			}
			ret := transactionReceiptFromWire(*resp.TransactionGetReceipt.Receipt)
			for _, dup := range resp.TransactionGetReceipt.DuplicateReceipts {
				ret.Duplicates = append(ret.Duplicates, transactionReceiptFromWire(dup))
			}
			return ret, nil
		},
	)
}

func (q *TransactionReceiptQuery) methodName() (wire.Service, string) {
	return wire.ServiceCrypto, "getTransactionReceipts"
}

func (q *TransactionReceiptQuery) buildQuery(header wire.QueryHeader) wire.Query {
	return wire.Query{
		TransactionGetReceipt: &wire.TransactionGetReceiptQuery{
			Header:            header,
			TransactionID:     q.TransactionID(),
			IncludeDuplicates: q.includeDuplicates,
		},
	}
}

func (q *TransactionReceiptQuery) isPaymentRequired() bool {
	return false
}

// shouldRetry keeps asking while the node is busy or consensus has not been
// reached on the transaction yet
func (q *TransactionReceiptQuery) shouldRetry(status wire.Status, resp wire.ProtoResponse) bool {
	switch status {
	case wire.StatusBusy,
		wire.StatusUnknown,
		wire.StatusReceiptNotFound,
		wire.StatusPlatformNotActive,
		wire.StatusPlatformTransactionNotCreated:
		return true
	case wire.StatusOk:
	default:
		return false
	}
	if resp.Query == nil || resp.Query.TransactionGetReceipt == nil ||
		resp.Query.TransactionGetReceipt.Receipt == nil {
		return false
	}
	switch resp.Query.TransactionGetReceipt.Receipt.Status {
	case wire.StatusUnknown, wire.StatusBusy, wire.StatusReceiptNotFound:
		return true
	default:
		return false
	}
}

func (q *TransactionReceiptQuery) validateChecksums(ledgerID ledger.LedgerID) error {
	if q.transactionID == nil || q.transactionID.AccountID == nil {
		return nil
	}
	return q.transactionID.AccountID.ValidateChecksum(ledgerID)
}
