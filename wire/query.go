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

package wire

import (
	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/ledger"
)

type QueryHeader struct {
	cbor.StructAsArray
	Payment      *Transaction
	ResponseType ResponseType
}

type ResponseHeader struct {
	cbor.StructAsArray
	NodeTransactionPrecheckCode Status
	ResponseType                ResponseType
	Cost                        uint64
}

type CryptoGetAccountBalanceQuery struct {
	cbor.StructAsArray
	Header    QueryHeader
	AccountID ledger.AccountID
}

type CryptoGetAccountBalanceResponse struct {
	cbor.StructAsArray
	Header    ResponseHeader
	AccountID ledger.AccountID
	Balance   uint64
}

type CryptoGetInfoQuery struct {
	cbor.StructAsArray
	Header    QueryHeader
	AccountID ledger.AccountID
}

type AccountInfo struct {
	cbor.StructAsArray
	AccountID      ledger.AccountID
	Key            []byte
	Balance        uint64
	Memo           string
	Deleted        bool
	ExpirationTime *ledger.Timestamp
}

type CryptoGetInfoResponse struct {
	cbor.StructAsArray
	Header      ResponseHeader
	AccountInfo *AccountInfo
}

type TransactionGetReceiptQuery struct {
	cbor.StructAsArray
	Header            QueryHeader
	TransactionID     ledger.TransactionID
	IncludeDuplicates bool
}

type TransactionReceipt struct {
	cbor.StructAsArray
	Status              Status
	AccountID           *ledger.AccountID
	FileID              *ledger.FileID
	TopicID             *ledger.TopicID
	TopicSequenceNumber uint64
	TopicRunningHash    []byte
}

type TransactionGetReceiptResponse struct {
	cbor.StructAsArray
	Header            ResponseHeader
	Receipt           *TransactionReceipt
	DuplicateReceipts []TransactionReceipt
}

// Query wraps exactly one query kind
type Query struct {
	cbor.StructAsArray
	CryptoGetAccountBalance *CryptoGetAccountBalanceQuery
	CryptoGetInfo           *CryptoGetInfoQuery
	TransactionGetReceipt   *TransactionGetReceiptQuery
}

// Header returns the header of the query kind that is set, or nil
func (q *Query) Header() *QueryHeader {
	switch {
	case q.CryptoGetAccountBalance != nil:
		return &q.CryptoGetAccountBalance.Header
	case q.CryptoGetInfo != nil:
		return &q.CryptoGetInfo.Header
	case q.TransactionGetReceipt != nil:
		return &q.TransactionGetReceipt.Header
	default:
		return nil
	}
}

// Response wraps exactly one response kind
type Response struct {
	cbor.StructAsArray
	CryptoGetAccountBalance *CryptoGetAccountBalanceResponse
	CryptoGetInfo           *CryptoGetInfoResponse
	TransactionGetReceipt   *TransactionGetReceiptResponse
}

// Header returns the header of the response kind that is set. An empty
// response yields a zero header
func (r *Response) Header() ResponseHeader {
	switch {
	case r.CryptoGetAccountBalance != nil:
		return r.CryptoGetAccountBalance.Header
	case r.CryptoGetInfo != nil:
		return r.CryptoGetInfo.Header
	case r.TransactionGetReceipt != nil:
		return r.TransactionGetReceipt.Header
	default:
		return ResponseHeader{}
	}
}
