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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/gohedera/ledger"
)

// TransactionResponse identifies a submitted transaction and the node that
// accepted it
type TransactionResponse struct {
	NodeID        ledger.AccountID
	TransactionID ledger.TransactionID
	Hash          []byte
}

// GetReceiptQuery returns a receipt query pinned to the node that accepted
// the transaction
func (r TransactionResponse) GetReceiptQuery() *TransactionReceiptQuery {
	return NewTransactionReceiptQuery().
		SetTransactionID(r.TransactionID).
		SetNodeAccountIDs([]ledger.AccountID{r.NodeID})
}

// GetReceipt waits for the receipt of the transaction and returns a
// ReceiptStatusError when it does not report success
func (r TransactionResponse) GetReceipt(ctx context.Context, client *Client) (TransactionReceipt, error) {
	receipt, err := r.GetReceiptQuery().Execute(ctx, client)
	if err != nil {
		return receipt, err
	}
	if err := receipt.ValidateStatus(r.TransactionID); err != nil {
		return receipt, err
	}
	return receipt, nil
}

func (r TransactionResponse) String() string {
	return fmt.Sprintf(
		"TransactionResponse{node=%s id=%s hash=%s}",
		r.NodeID.String(),
		r.TransactionID.String(),
		hex.EncodeToString(r.Hash),
	)
}
