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

type AccountBalance struct {
	AccountID ledger.AccountID
	Hbars     Hbar
}

// AccountBalanceQuery fetches the hbar balance of an account. Nodes answer
// it without payment
type AccountBalanceQuery struct {
	Query[*AccountBalanceQuery]
	accountID ledger.AccountID
}

func NewAccountBalanceQuery() *AccountBalanceQuery {
	q := &AccountBalanceQuery{}
	q.init(q, q)
	return q
}

func (q *AccountBalanceQuery) SetAccountID(accountID ledger.AccountID) *AccountBalanceQuery {
	q.accountID = accountID
	return q
}

func (q *AccountBalanceQuery) AccountID() ledger.AccountID {
	return q.accountID
}

func (q *AccountBalanceQuery) Execute(ctx context.Context, client *Client) (AccountBalance, error) {
	return executeQuery(
		ctx,
		client,
		&q.Query,
		func(resp wire.Response) (AccountBalance, error) {
			if resp.CryptoGetAccountBalance == nil {
				return AccountBalance{}, ErrEmptyResponse
			}
			balance := resp.CryptoGetAccountBalance
			return AccountBalance{
				AccountID: balance.AccountID,
				Hbars:     HbarFromTinybar(int64(min(balance.Balance, uint64(1<<63-1)))), // #nosec G115
			}, nil
		},
	)
}

func (q *AccountBalanceQuery) methodName() (wire.Service, string) {
	return wire.ServiceCrypto, "cryptoGetBalance"
}

func (q *AccountBalanceQuery) buildQuery(header wire.QueryHeader) wire.Query {
	return wire.Query{
		CryptoGetAccountBalance: &wire.CryptoGetAccountBalanceQuery{
			Header:    header,
			AccountID: q.accountID,
		},
	}
}

func (q *AccountBalanceQuery) isPaymentRequired() bool {
	return false
}

func (q *AccountBalanceQuery) shouldRetry(status wire.Status, _ wire.ProtoResponse) bool {
	return defaultShouldRetry(status)
}

func (q *AccountBalanceQuery) validateChecksums(ledgerID ledger.LedgerID) error {
	return q.accountID.ValidateChecksum(ledgerID)
}
