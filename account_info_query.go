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
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
)

type AccountInfo struct {
	AccountID      ledger.AccountID
	Key            []byte
	Balance        Hbar
	Memo           string
	Deleted        bool
	ExpirationTime time.Time
}

// AccountInfoQuery fetches the details of an account. It is a paid query
type AccountInfoQuery struct {
	Query[*AccountInfoQuery]
	accountID ledger.AccountID
}

func NewAccountInfoQuery() *AccountInfoQuery {
	q := &AccountInfoQuery{}
	q.init(q, q)
	return q
}

func (q *AccountInfoQuery) SetAccountID(accountID ledger.AccountID) *AccountInfoQuery {
	q.accountID = accountID
	return q
}

func (q *AccountInfoQuery) AccountID() ledger.AccountID {
	return q.accountID
}

func (q *AccountInfoQuery) Execute(ctx context.Context, client *Client) (AccountInfo, error) {
	return executeQuery(
		ctx,
		client,
		&q.Query,
		func(resp wire.Response) (AccountInfo, error) {
			if resp.CryptoGetInfo == nil || resp.CryptoGetInfo.AccountInfo == nil {
				return AccountInfo{}, ErrEmptyResponse
			}
			info := resp.CryptoGetInfo.AccountInfo
			ret := AccountInfo{
				AccountID: info.AccountID,
				Key:       info.Key,
				Balance:   HbarFromTinybar(int64(min(info.Balance, uint64(1<<63-1)))), // #nosec G115
				Memo:      info.Memo,
				Deleted:   info.Deleted,
			}
			if info.ExpirationTime != nil {
				ret.ExpirationTime = info.ExpirationTime.Time()
			}
			return ret, nil
		},
	)
}

func (q *AccountInfoQuery) methodName() (wire.Service, string) {
	return wire.ServiceCrypto, "getAccountInfo"
}

func (q *AccountInfoQuery) buildQuery(header wire.QueryHeader) wire.Query {
	return wire.Query{
		CryptoGetInfo: &wire.CryptoGetInfoQuery{
			Header:    header,
			AccountID: q.accountID,
		},
	}
}

func (q *AccountInfoQuery) isPaymentRequired() bool {
	return true
}

func (q *AccountInfoQuery) shouldRetry(status wire.Status, _ wire.ProtoResponse) bool {
	return defaultShouldRetry(status)
}

func (q *AccountInfoQuery) validateChecksums(ledgerID ledger.LedgerID) error {
	return q.accountID.ValidateChecksum(ledgerID)
}
