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

type AccountAmount struct {
	cbor.StructAsArray
	AccountID ledger.AccountID
	Amount    int64
}

type CryptoTransferBody struct {
	cbor.StructAsArray
	Transfers []AccountAmount
}

// ChunkInfo ties one chunk of a chunked transaction to the transaction
// id of its first chunk
type ChunkInfo struct {
	cbor.StructAsArray
	InitialTransactionID ledger.TransactionID
	Total                int32
	Number               int32
}

type ConsensusSubmitMessageBody struct {
	cbor.StructAsArray
	TopicID   ledger.TopicID
	Message   []byte
	ChunkInfo *ChunkInfo
}

type FileAppendBody struct {
	cbor.StructAsArray
	FileID   ledger.FileID
	Contents []byte
}

// TransactionBody is the signed content of a transaction. Exactly one of the
// data fields is set
type TransactionBody struct {
	cbor.StructAsArray
	TransactionID          ledger.TransactionID
	NodeAccountID          *ledger.AccountID
	TransactionFee         uint64
	ValidDuration          ledger.Duration
	Memo                   string
	CryptoTransfer         *CryptoTransferBody
	ConsensusSubmitMessage *ConsensusSubmitMessageBody
	FileAppend             *FileAppendBody
}

// SignaturePair holds one signature, keyed by a prefix of the signing
// public key. Exactly one of the signature fields is set
type SignaturePair struct {
	cbor.StructAsArray
	PubKeyPrefix   []byte
	Ed25519        []byte
	ECDSASecp256k1 []byte
}

type SignatureMap struct {
	cbor.StructAsArray
	SigPair []SignaturePair
}

type SignedTransaction struct {
	cbor.StructAsArray
	BodyBytes []byte
	SigMap    SignatureMap
}

// Transaction is what gets submitted to a node
type Transaction struct {
	cbor.StructAsArray
	SignedTransactionBytes []byte
}

// TransactionList is the serialized form of a frozen transaction with all
// of its per-node and per-chunk payloads
type TransactionList struct {
	cbor.StructAsArray
	Transactions []Transaction
}

type TransactionResponse struct {
	cbor.StructAsArray
	NodeTransactionPrecheckCode Status
	Cost                        uint64
}

// DecodeSignedTransaction unpacks the signed transaction and its body from
// a submitted transaction
func DecodeSignedTransaction(tx Transaction) (SignedTransaction, TransactionBody, error) {
	var signed SignedTransaction
	var body TransactionBody
	if err := cbor.DecodeAll(tx.SignedTransactionBytes, &signed); err != nil {
		return signed, body, err
	}
	if err := cbor.DecodeAll(signed.BodyBytes, &body); err != nil {
		return signed, body, err
	}
	return signed, body, nil
}
