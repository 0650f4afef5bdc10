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
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
)

// TransactionReceipt is the outcome of a transaction reached by consensus
type TransactionReceipt struct {
	Status              wire.Status
	AccountID           *ledger.AccountID
	FileID              *ledger.FileID
	TopicID             *ledger.TopicID
	TopicSequenceNumber uint64
	TopicRunningHash    []byte
	Duplicates          []TransactionReceipt
}

func transactionReceiptFromWire(receipt wire.TransactionReceipt) TransactionReceipt {
	return TransactionReceipt{
		Status:              receipt.Status,
		AccountID:           receipt.AccountID,
		FileID:              receipt.FileID,
		TopicID:             receipt.TopicID,
		TopicSequenceNumber: receipt.TopicSequenceNumber,
		TopicRunningHash:    receipt.TopicRunningHash,
	}
}

// ValidateStatus returns a ReceiptStatusError unless the receipt reports
// success
func (r TransactionReceipt) ValidateStatus(transactionID ledger.TransactionID) error {
	if r.Status != wire.StatusSuccess {
		return ReceiptStatusError{
			Status:        r.Status,
			TransactionID: transactionID,
			Receipt:       r,
		}
	}
	return nil
}
