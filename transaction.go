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
	"crypto/sha512"
	"fmt"
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
	"github.com/jinzhu/copier"
)

const (
	DefaultTransactionValidDuration = 120 * time.Second
	DefaultChunkSize                = 1024
	DefaultMaxChunks                = 20
)

// transactionData is implemented by each transaction type and fills in its
// part of the body
type transactionData interface {
	methodName() (wire.Service, string)
	buildData(body *wire.TransactionBody, chunk chunkInfo)
	validateChecksums(ledgerID ledger.LedgerID) error
}

// chunkedData is implemented by transaction types whose payload is split
// over several transactions
type chunkedData interface {
	transactionData
	chunkPayload() []byte
}

type chunkInfo struct {
	initialTransactionID ledger.TransactionID
	number               int
	total                int
	contents             []byte
}

// Transaction is the state shared by every transaction type. It moves from
// building to frozen once its payloads are generated, after which only
// signatures can be added
type Transaction struct {
	data              transactionData
	nodeAccountIDs    []ledger.AccountID
	transactionID     *ledger.TransactionID
	transactionIDs    []ledger.TransactionID
	memo              string
	maxTransactionFee *Hbar
	validDuration     time.Duration
	policy            requestPolicy
	chunkSize         int
	maxChunks         int
	// One payload per chunk and node, chunk-major
	signedTransactions []wire.SignedTransaction
	signedBy           map[string]struct{}
	serialized         []wire.Transaction
	nodeIndex          int
	frozen             bool
}

func (t *Transaction) init(data transactionData) {
	t.data = data
	t.validDuration = DefaultTransactionValidDuration
	t.chunkSize = DefaultChunkSize
	t.maxChunks = DefaultMaxChunks
	t.signedBy = make(map[string]struct{})
}

func (t *Transaction) requireNotFrozen() error {
	if t.frozen {
		return ErrTransactionImmutable
	}
	return nil
}

func (t *Transaction) IsFrozen() bool {
	return t.frozen
}

// SetNodeAccountIDs pins the nodes the transaction is built for
func (t *Transaction) SetNodeAccountIDs(nodeAccountIDs []ledger.AccountID) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.nodeAccountIDs = append([]ledger.AccountID(nil), nodeAccountIDs...)
	return nil
}

func (t *Transaction) NodeAccountIDs() []ledger.AccountID {
	return append([]ledger.AccountID(nil), t.nodeAccountIDs...)
}

func (t *Transaction) SetTransactionID(transactionID ledger.TransactionID) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.transactionID = &transactionID
	return nil
}

// TransactionID returns the id of the first chunk
func (t *Transaction) TransactionID() (ledger.TransactionID, error) {
	if t.transactionID == nil {
		return ledger.TransactionID{}, ErrTransactionIDNotFrozen
	}
	return *t.transactionID, nil
}

func (t *Transaction) SetTransactionMemo(memo string) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.memo = memo
	return nil
}

func (t *Transaction) TransactionMemo() string {
	return t.memo
}

func (t *Transaction) SetMaxTransactionFee(fee Hbar) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.maxTransactionFee = &fee
	return nil
}

// MaxTransactionFee returns the fee set on the transaction, or zero when the
// client default applies
func (t *Transaction) MaxTransactionFee() Hbar {
	if t.maxTransactionFee == nil {
		return ZeroHbar
	}
	return *t.maxTransactionFee
}

func (t *Transaction) SetTransactionValidDuration(d time.Duration) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.validDuration = d
	return nil
}

func (t *Transaction) TransactionValidDuration() time.Duration {
	return t.validDuration
}

func (t *Transaction) SetMaxAttempts(maxAttempts int) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.policy.maxAttempts = maxAttempts
	return nil
}

func (t *Transaction) SetMinBackoff(minBackoff time.Duration) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	if minBackoff < 0 {
		return ErrInvalidBackoff
	}
	t.policy.minBackoff = &minBackoff
	return nil
}

func (t *Transaction) SetMaxBackoff(maxBackoff time.Duration) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	if maxBackoff < 0 {
		return ErrInvalidBackoff
	}
	t.policy.maxBackoff = &maxBackoff
	return nil
}

func (t *Transaction) setChunkSize(size int) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("invalid chunk size: %d", size)
	}
	t.chunkSize = size
	return nil
}

func (t *Transaction) setMaxChunks(maxChunks int) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	if maxChunks <= 0 {
		return fmt.Errorf("invalid max chunks: %d", maxChunks)
	}
	t.maxChunks = maxChunks
	return nil
}

// requiredChunks returns the number of chunks the payload is split into
func (t *Transaction) requiredChunks() int {
	cd, ok := t.data.(chunkedData)
	if !ok {
		return 1
	}
	size := len(cd.chunkPayload())
	return max(1, (size+t.chunkSize-1)/t.chunkSize)
}

func (t *Transaction) chunk(initialTransactionID ledger.TransactionID, number int, total int) chunkInfo {
	ret := chunkInfo{
		initialTransactionID: initialTransactionID,
		number:               number,
		total:                total,
	}
	if cd, ok := t.data.(chunkedData); ok {
		payload := cd.chunkPayload()
		start := min(number*t.chunkSize, len(payload))
		end := min(start+t.chunkSize, len(payload))
		ret.contents = payload[start:end]
	}
	return ret
}

// Freeze generates the payloads for the nodes set on the transaction
func (t *Transaction) Freeze() error {
	return t.FreezeWith(nil)
}

// FreezeWith generates the per-chunk, per-node payloads. Node account ids
// and the transaction id are taken from the client when not set. Freezing a
// frozen transaction does nothing
func (t *Transaction) FreezeWith(client *Client) error {
	if t.frozen {
		return nil
	}
	// Everything is resolved into locals so that a failed freeze leaves the
	// transaction as it was
	nodeAccountIDs := t.nodeAccountIDs
	if len(nodeAccountIDs) == 0 {
		if client == nil {
			return ErrTransactionNodeAccountIDOrClientNotSet
		}
		var err error
		nodeAccountIDs, err = client.network.NodeAccountIDsForTransaction()
		if err != nil {
			return err
		}
	}
	transactionID := t.transactionID
	if transactionID == nil {
		if client == nil {
			return ErrClientNotSet
		}
		operatorID, err := client.OperatorAccountID()
		if err != nil {
			return err
		}
		tmpID := ledger.NewTransactionID(operatorID)
		transactionID = &tmpID
	}
	if client != nil && client.AutoValidateChecksums() {
		if err := t.validateAllChecksums(client.LedgerID(), nodeAccountIDs, transactionID); err != nil {
			return err
		}
	}
	total := t.requiredChunks()
	if total > t.maxChunks {
		return MaxChunksExceededError{Chunks: total, MaxChunks: t.maxChunks}
	}
	fee := DefaultMaxTransactionFee
	if client != nil {
		fee = client.DefaultMaxTransactionFee()
	}
	if t.maxTransactionFee != nil {
		fee = *t.maxTransactionFee
	}
	transactionIDs := make([]ledger.TransactionID, 0, total)
	transactionIDs = append(transactionIDs, *transactionID)
	for i := 1; i < total; i++ {
		transactionIDs = append(
			transactionIDs,
			transactionIDs[i-1].Advance(time.Nanosecond),
		)
	}
	signedTransactions := make(
		[]wire.SignedTransaction,
		0,
		total*len(nodeAccountIDs),
	)
	for i := range total {
		template := wire.TransactionBody{
			TransactionID:  transactionIDs[i],
			TransactionFee: uint64(max(fee.AsTinybar(), 0)), // #nosec G115
			ValidDuration:  ledger.NewDuration(t.validDuration),
			Memo:           t.memo,
		}
		t.data.buildData(&template, t.chunk(transactionIDs[0], i, total))
		for _, nodeAccountID := range nodeAccountIDs {
			var body wire.TransactionBody
			if err := copier.Copy(&body, &template); err != nil {
				return fmt.Errorf("copy transaction body: %w", err)
			}
			tmpNodeID := nodeAccountID
			body.NodeAccountID = &tmpNodeID
			bodyBytes, err := cbor.Encode(&body)
			if err != nil {
				return fmt.Errorf("encode transaction body: %w", err)
			}
			signedTransactions = append(
				signedTransactions,
				wire.SignedTransaction{BodyBytes: bodyBytes},
			)
		}
	}
	t.nodeAccountIDs = nodeAccountIDs
	t.transactionID = transactionID
	t.transactionIDs = transactionIDs
	t.signedTransactions = signedTransactions
	t.serialized = nil
	t.frozen = true
	return nil
}

func (t *Transaction) validateAllChecksums(
	ledgerID ledger.LedgerID,
	nodeAccountIDs []ledger.AccountID,
	transactionID *ledger.TransactionID,
) error {
	for _, nodeAccountID := range nodeAccountIDs {
		if err := nodeAccountID.ValidateChecksum(ledgerID); err != nil {
			return err
		}
	}
	if transactionID != nil && transactionID.AccountID != nil {
		if err := transactionID.AccountID.ValidateChecksum(ledgerID); err != nil {
			return err
		}
	}
	return t.data.validateChecksums(ledgerID)
}

// Sign adds a signature from the private key to every payload
func (t *Transaction) Sign(privateKey keys.PrivateKey) error {
	return t.SignWith(privateKey.PublicKey(), privateKey.Sign)
}

// SignWith adds a signature produced by signer to every payload. Signing
// twice with the same key does nothing
func (t *Transaction) SignWith(publicKey keys.PublicKey, signer keys.Signer) error {
	if !t.frozen {
		return ErrTransactionNotFrozen
	}
	prefix := publicKey.Bytes()
	if t.isSignedBy(prefix) {
		return nil
	}
	for i := range t.signedTransactions {
		sig := signer(t.signedTransactions[i].BodyBytes)
		pair := wire.SignaturePair{PubKeyPrefix: prefix}
		switch publicKey.Scheme() {
		case keys.SchemeECDSASecp256k1:
			pair.ECDSASecp256k1 = sig
		default:
			pair.Ed25519 = sig
		}
		t.signedTransactions[i].SigMap.SigPair = append(
			t.signedTransactions[i].SigMap.SigPair,
			pair,
		)
	}
	t.signedBy[string(prefix)] = struct{}{}
	t.serialized = nil
	return nil
}

// SignWithOperator signs with the client operator, freezing with the client
// first when needed
func (t *Transaction) SignWithOperator(client *Client) error {
	if client == nil {
		return ErrClientNotSet
	}
	op, err := client.operatorOrErr()
	if err != nil {
		return err
	}
	if err := t.FreezeWith(client); err != nil {
		return err
	}
	return t.SignWith(op.publicKey, op.signer)
}

func (t *Transaction) isSignedBy(prefix []byte) bool {
	_, ok := t.signedBy[string(prefix)]
	return ok
}

// payloads returns the encoded payloads, generating them when the cache was
// invalidated by a new signature
func (t *Transaction) payloads() ([]wire.Transaction, error) {
	if t.serialized != nil {
		return t.serialized, nil
	}
	ret := make([]wire.Transaction, 0, len(t.signedTransactions))
	for i := range t.signedTransactions {
		signedBytes, err := cbor.Encode(&t.signedTransactions[i])
		if err != nil {
			return nil, fmt.Errorf("encode signed transaction: %w", err)
		}
		ret = append(ret, wire.Transaction{SignedTransactionBytes: signedBytes})
	}
	t.serialized = ret
	return ret, nil
}

func (t *Transaction) payload(chunk int, nodeIndex int) (wire.Transaction, error) {
	payloads, err := t.payloads()
	if err != nil {
		return wire.Transaction{}, err
	}
	return payloads[chunk*len(t.nodeAccountIDs)+nodeIndex], nil
}

// ToBytes serializes every payload of the frozen transaction
func (t *Transaction) ToBytes() ([]byte, error) {
	if !t.frozen {
		return nil, ErrTransactionNotFrozen
	}
	payloads, err := t.payloads()
	if err != nil {
		return nil, err
	}
	return cbor.Encode(&wire.TransactionList{Transactions: payloads})
}

func transactionHash(tx wire.Transaction) []byte {
	hash := sha512.Sum384(tx.SignedTransactionBytes)
	return hash[:]
}

// TransactionHash returns the SHA-384 hash of the first payload
func (t *Transaction) TransactionHash() ([]byte, error) {
	if !t.frozen {
		return nil, ErrTransactionNotFrozen
	}
	tx, err := t.payload(0, 0)
	if err != nil {
		return nil, err
	}
	return transactionHash(tx), nil
}

// TransactionHashPerNode returns the hash of the first chunk's payload for
// each node
func (t *Transaction) TransactionHashPerNode() (map[ledger.AccountID][]byte, error) {
	if !t.frozen {
		return nil, ErrTransactionNotFrozen
	}
	ret := make(map[ledger.AccountID][]byte, len(t.nodeAccountIDs))
	for i, nodeAccountID := range t.nodeAccountIDs {
		tx, err := t.payload(0, i)
		if err != nil {
			return nil, err
		}
		ret[nodeAccountID.WithoutChecksum()] = transactionHash(tx)
	}
	return ret, nil
}

// Execute submits the transaction and returns the response for its first
// chunk
func (t *Transaction) Execute(ctx context.Context, client *Client) (TransactionResponse, error) {
	responses, err := t.ExecuteAll(ctx, client)
	if err != nil {
		return TransactionResponse{}, err
	}
	return responses[0], nil
}

// ExecuteAll submits every chunk in order and returns one response per chunk
func (t *Transaction) ExecuteAll(ctx context.Context, client *Client) ([]TransactionResponse, error) {
	if client == nil {
		return nil, ErrClientNotSet
	}
	if err := t.FreezeWith(client); err != nil {
		return nil, err
	}
	if op, err := client.operatorOrErr(); err == nil {
		payer := t.transactionID.AccountID
		if payer != nil && payer.WithoutChecksum() == op.accountID.WithoutChecksum() {
			if err := t.SignWith(op.publicKey, op.signer); err != nil {
				return nil, err
			}
		}
	}
	_, name := t.data.methodName()
	responses := make([]TransactionResponse, 0, len(t.transactionIDs))
	for chunk := range t.transactionIDs {
		exec := &transactionExecution{tx: t, chunk: chunk}
		resp, err := execute[TransactionResponse](
			ctx,
			client,
			exec,
			t.policy.resolve(client, name, &t.transactionIDs[chunk]),
		)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// transactionExecution runs one chunk of a transaction through the executor
type transactionExecution struct {
	tx    *Transaction
	chunk int
}

func (e *transactionExecution) nodeAccountID() ledger.AccountID {
	return e.tx.nodeAccountIDs[e.tx.nodeIndex]
}

func (e *transactionExecution) method(ch *channel.Channel) (channel.Method, error) {
	service, name := e.tx.data.methodName()
	return ch.Service(service).Method(name)
}

func (e *transactionExecution) makeRequest() (wire.ProtoRequest, error) {
	tx, err := e.tx.payload(e.chunk, e.tx.nodeIndex)
	if err != nil {
		return wire.ProtoRequest{}, err
	}
	return wire.ProtoRequest{Transaction: &tx}, nil
}

func (e *transactionExecution) advanceRequest() {
	e.tx.nodeIndex = (e.tx.nodeIndex + 1) % len(e.tx.nodeAccountIDs)
}

func (e *transactionExecution) mapStatus(resp wire.ProtoResponse) wire.Status {
	if resp.Transaction == nil {
		return wire.StatusUnknown
	}
	return resp.Transaction.NodeTransactionPrecheckCode
}

func (e *transactionExecution) shouldRetry(status wire.Status, _ wire.ProtoResponse) bool {
	return defaultShouldRetry(status)
}

func (e *transactionExecution) mapResponse(
	_ wire.ProtoResponse,
	nodeID ledger.AccountID,
	req wire.ProtoRequest,
) (TransactionResponse, error) {
	return TransactionResponse{
		NodeID:        nodeID,
		TransactionID: e.tx.transactionIDs[e.chunk],
		Hash:          transactionHash(*req.Transaction),
	}, nil
}

// TransactionFromBytes restores a frozen transaction serialized with ToBytes.
// Payloads are grouped by transaction id into chunks, each of which must
// cover the same nodes in the same order
func TransactionFromBytes(data []byte) (*Transaction, error) {
	// A transaction list is a single-field array wrapping the payloads
	if fields, err := cbor.ListLength(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransactionList, err)
	} else if fields != 1 {
		return nil, fmt.Errorf("%w: expected 1 field, got %d", ErrInvalidTransactionList, fields)
	}
	var list wire.TransactionList
	if err := cbor.DecodeAll(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransactionList, err)
	}
	if len(list.Transactions) == 0 {
		return nil, fmt.Errorf("%w: no transactions", ErrInvalidTransactionList)
	}
	var nodeAccountIDs []ledger.AccountID
	var transactionIDs []ledger.TransactionID
	var first wire.TransactionBody
	signedTransactions := make([]wire.SignedTransaction, 0, len(list.Transactions))
	nodeIdx := 0
	for i, tx := range list.Transactions {
		signed, body, err := wire.DecodeSignedTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("%w: payload %d: %w", ErrInvalidTransactionList, i, err)
		}
		if body.NodeAccountID == nil {
			return nil, fmt.Errorf("%w: payload %d has no node account id", ErrInvalidTransactionList, i)
		}
		if i == 0 {
			first = body
		}
		if len(transactionIDs) == 0 || !transactionIDs[len(transactionIDs)-1].Equal(body.TransactionID) {
			if len(transactionIDs) > 0 && nodeIdx != len(nodeAccountIDs) {
				return nil, fmt.Errorf("%w: chunk %d covers %d of %d nodes", ErrInvalidTransactionList, len(transactionIDs)-1, nodeIdx, len(nodeAccountIDs))
			}
			transactionIDs = append(transactionIDs, body.TransactionID)
			nodeIdx = 0
		}
		nodeAccountID := body.NodeAccountID.WithoutChecksum()
		if len(transactionIDs) == 1 {
			nodeAccountIDs = append(nodeAccountIDs, nodeAccountID)
		} else if nodeIdx >= len(nodeAccountIDs) || nodeAccountIDs[nodeIdx] != nodeAccountID {
			return nil, fmt.Errorf("%w: chunk %d has a different node layout", ErrInvalidTransactionList, len(transactionIDs)-1)
		}
		nodeIdx++
		signedTransactions = append(signedTransactions, signed)
	}
	if nodeIdx != len(nodeAccountIDs) {
		return nil, fmt.Errorf("%w: last chunk covers %d of %d nodes", ErrInvalidTransactionList, nodeIdx, len(nodeAccountIDs))
	}
	ret := &Transaction{}
	ret.init(&decodedTransactionData{body: first})
	ret.nodeAccountIDs = nodeAccountIDs
	ret.transactionIDs = transactionIDs
	ret.transactionID = &transactionIDs[0]
	ret.memo = first.Memo
	fee := HbarFromTinybar(int64(min(first.TransactionFee, uint64(1<<63-1)))) // #nosec G115
	ret.maxTransactionFee = &fee
	ret.validDuration = first.ValidDuration.Duration()
	ret.signedTransactions = signedTransactions
	for _, pair := range signedTransactions[0].SigMap.SigPair {
		ret.signedBy[string(pair.PubKeyPrefix)] = struct{}{}
	}
	ret.serialized = list.Transactions
	ret.frozen = true
	return ret, nil
}

// decodedTransactionData stands in for the builder of a transaction restored
// from bytes. Its body is never rebuilt
type decodedTransactionData struct {
	body wire.TransactionBody
}

func (d *decodedTransactionData) methodName() (wire.Service, string) {
	switch {
	case d.body.CryptoTransfer != nil:
		return wire.ServiceCrypto, "cryptoTransfer"
	case d.body.ConsensusSubmitMessage != nil:
		return wire.ServiceConsensus, "submitMessage"
	case d.body.FileAppend != nil:
		return wire.ServiceFile, "appendContent"
	default:
		return wire.ServiceNetwork, "uncheckedSubmit"
	}
}

func (d *decodedTransactionData) buildData(*wire.TransactionBody, chunkInfo) {}

func (d *decodedTransactionData) validateChecksums(ledger.LedgerID) error {
	return nil
}

func (t *Transaction) String() string {
	if t.transactionID == nil {
		return "Transaction{}"
	}
	return fmt.Sprintf(
		"Transaction{id=%s nodes=%d chunks=%d frozen=%t}",
		t.transactionID.String(),
		len(t.nodeAccountIDs),
		len(t.transactionIDs),
		t.frozen,
	)
}
