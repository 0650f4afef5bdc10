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

// TransferTransaction moves hbar between accounts. The amounts of a
// transaction must sum to zero
type TransferTransaction struct {
	Transaction
	transfers []wire.AccountAmount
}

func NewTransferTransaction() *TransferTransaction {
	tx := &TransferTransaction{}
	tx.init(tx)
	return tx
}

// AddHbarTransfer adds amount to the transfer for the account. Amounts for
// the same account are summed
func (t *TransferTransaction) AddHbarTransfer(accountID ledger.AccountID, amount Hbar) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	for i := range t.transfers {
		if t.transfers[i].AccountID.WithoutChecksum() == accountID.WithoutChecksum() {
			t.transfers[i].Amount += amount.AsTinybar()
			return nil
		}
	}
	t.transfers = append(
		t.transfers,
		wire.AccountAmount{AccountID: accountID, Amount: amount.AsTinybar()},
	)
	return nil
}

func (t *TransferTransaction) HbarTransfers() map[ledger.AccountID]Hbar {
	ret := make(map[ledger.AccountID]Hbar, len(t.transfers))
	for _, transfer := range t.transfers {
		ret[transfer.AccountID.WithoutChecksum()] = HbarFromTinybar(transfer.Amount)
	}
	return ret
}

func (t *TransferTransaction) methodName() (wire.Service, string) {
	return wire.ServiceCrypto, "cryptoTransfer"
}

func (t *TransferTransaction) buildData(body *wire.TransactionBody, _ chunkInfo) {
	body.CryptoTransfer = &wire.CryptoTransferBody{
		Transfers: append([]wire.AccountAmount(nil), t.transfers...),
	}
}

func (t *TransferTransaction) validateChecksums(ledgerID ledger.LedgerID) error {
	for _, transfer := range t.transfers {
		if err := transfer.AccountID.ValidateChecksum(ledgerID); err != nil {
			return err
		}
	}
	return nil
}
