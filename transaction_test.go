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

package hedera_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	hedera "github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/internal/test"
	"github.com/blinklabs-io/gohedera/internal/test/mocknode"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayloads(t *testing.T, data []byte) ([]wire.SignedTransaction, []wire.TransactionBody) {
	t.Helper()
	var list wire.TransactionList
	require.NoError(t, cbor.DecodeAll(data, &list))
	signed := make([]wire.SignedTransaction, 0, len(list.Transactions))
	bodies := make([]wire.TransactionBody, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		s, body, err := wire.DecodeSignedTransaction(tx)
		require.NoError(t, err)
		signed = append(signed, s)
		bodies = append(bodies, body)
	}
	return signed, bodies
}

func newTestTransfer(t *testing.T) *hedera.TransferTransaction {
	t.Helper()
	tx := hedera.NewTransferTransaction()
	require.NoError(t, tx.AddHbarTransfer(testOperatorID, hedera.HbarFromTinybar(-100)))
	require.NoError(t, tx.AddHbarTransfer(ledger.NewAccountID(0, 0, 1002), hedera.HbarFromTinybar(100)))
	return tx
}

func TestTransactionFreeze(t *testing.T) {
	tx := newTestTransfer(t)
	_, err := tx.TransactionID()
	require.ErrorIs(t, err, hedera.ErrTransactionIDNotFrozen)
	// Signing needs payloads
	key, err := keys.GeneratePrivateKey(keys.SchemeEd25519)
	require.NoError(t, err)
	require.ErrorIs(t, tx.Sign(key), hedera.ErrTransactionNotFrozen)
	// No nodes and no client
	require.ErrorIs(t, tx.Freeze(), hedera.ErrTransactionNodeAccountIDOrClientNotSet)
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{testNode3, testNode4}))
	require.NoError(t, tx.SetTransactionID(testTransactionID()))
	require.NoError(t, tx.SetTransactionMemo("hello"))
	require.NoError(t, tx.Freeze())
	assert.True(t, tx.IsFrozen())
	hashes, err := tx.TransactionHashPerNode()
	require.NoError(t, err)
	assert.Len(t, hashes, 2)
	hash, err := tx.TransactionHash()
	require.NoError(t, err)
	assert.Len(t, hash, 48)
	assert.Equal(t, hashes[testNode3], hash)
	// Freezing again changes nothing
	require.NoError(t, tx.Freeze())
	hash2, err := tx.TransactionHash()
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)
	// Frozen transactions reject changes
	require.ErrorIs(t, tx.SetTransactionMemo("bye"), hedera.ErrTransactionImmutable)
	require.ErrorIs(t, tx.SetNodeAccountIDs(nil), hedera.ErrTransactionImmutable)
	require.ErrorIs(t, tx.SetMaxTransactionFee(hedera.NewHbar(1)), hedera.ErrTransactionImmutable)
	require.ErrorIs(t, tx.AddHbarTransfer(testOperatorID, hedera.NewHbar(1)), hedera.ErrTransactionImmutable)
	assert.Equal(t, "hello", tx.TransactionMemo())
	// One payload per node, each carrying its node id
	data, err := tx.ToBytes()
	require.NoError(t, err)
	_, bodies := decodePayloads(t, data)
	require.Len(t, bodies, 2)
	for i, nodeID := range []ledger.AccountID{testNode3, testNode4} {
		require.NotNil(t, bodies[i].NodeAccountID)
		assert.Equal(t, nodeID, *bodies[i].NodeAccountID)
		assert.Equal(t, "hello", bodies[i].Memo)
		assert.Equal(t, uint64(hedera.DefaultMaxTransactionFee.AsTinybar()), bodies[i].TransactionFee)
		assert.Equal(t, hedera.DefaultTransactionValidDuration, bodies[i].ValidDuration.Duration())
		require.NotNil(t, bodies[i].CryptoTransfer)
		assert.Len(t, bodies[i].CryptoTransfer.Transfers, 2)
	}
}

func TestTransactionSign(t *testing.T) {
	tx := newTestTransfer(t)
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{testNode3, testNode4}))
	require.NoError(t, tx.SetTransactionID(testTransactionID()))
	require.NoError(t, tx.Freeze())
	edKey, err := keys.GeneratePrivateKey(keys.SchemeEd25519)
	require.NoError(t, err)
	ecKey, err := keys.GeneratePrivateKey(keys.SchemeECDSASecp256k1)
	require.NoError(t, err)
	before, err := tx.ToBytes()
	require.NoError(t, err)
	require.NoError(t, tx.Sign(edKey))
	require.NoError(t, tx.Sign(ecKey))
	// A second signature from the same key is ignored
	require.NoError(t, tx.Sign(edKey))
	after, err := tx.ToBytes()
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	signed, _ := decodePayloads(t, after)
	for _, s := range signed {
		require.Len(t, s.SigMap.SigPair, 2)
		assert.Equal(t, edKey.PublicKey().Bytes(), s.SigMap.SigPair[0].PubKeyPrefix)
		assert.True(t, edKey.PublicKey().Verify(s.BodyBytes, s.SigMap.SigPair[0].Ed25519))
		assert.Empty(t, s.SigMap.SigPair[0].ECDSASecp256k1)
		assert.True(t, ecKey.PublicKey().Verify(s.BodyBytes, s.SigMap.SigPair[1].ECDSASecp256k1))
	}
}

func TestTransactionFromBytes(t *testing.T) {
	tx := hedera.NewTopicMessageSubmitTransaction()
	require.NoError(t, tx.SetTopicID(ledger.NewTopicID(0, 0, 5000)))
	require.NoError(t, tx.SetMessage(bytes.Repeat([]byte("a"), 2500)))
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{testNode3, testNode4}))
	require.NoError(t, tx.SetTransactionID(testTransactionID()))
	require.NoError(t, tx.Freeze())
	key, err := keys.GeneratePrivateKey(keys.SchemeEd25519)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(key))
	data, err := tx.ToBytes()
	require.NoError(t, err)
	restored, err := hedera.TransactionFromBytes(data)
	require.NoError(t, err)
	assert.True(t, restored.IsFrozen())
	assert.Equal(t, tx.NodeAccountIDs(), restored.NodeAccountIDs())
	origID, err := tx.TransactionID()
	require.NoError(t, err)
	restoredID, err := restored.TransactionID()
	require.NoError(t, err)
	assert.True(t, origID.Equal(restoredID))
	restoredData, err := restored.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, data, restoredData)
	// Restored transactions stay immutable and keep their signatures
	require.ErrorIs(t, restored.SetTransactionMemo("x"), hedera.ErrTransactionImmutable)
	require.NoError(t, restored.Sign(key))
	restoredData, err = restored.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, data, restoredData)
}

func TestTransactionFromBytesInvalid(t *testing.T) {
	_, err := hedera.TransactionFromBytes([]byte{0xff, 0x00})
	require.ErrorIs(t, err, hedera.ErrInvalidTransactionList)
	empty, err := cbor.Encode(&wire.TransactionList{})
	require.NoError(t, err)
	_, err = hedera.TransactionFromBytes(empty)
	require.ErrorIs(t, err, hedera.ErrInvalidTransactionList)
	// An array with more than the payload list field
	_, err = hedera.TransactionFromBytes([]byte{0x82, 0x80, 0x80})
	require.ErrorIs(t, err, hedera.ErrInvalidTransactionList)
	assert.Contains(t, err.Error(), "expected 1 field, got 2")
	// The second chunk covers fewer nodes than the first
	tx := hedera.NewTopicMessageSubmitTransaction()
	require.NoError(t, tx.SetMessage(bytes.Repeat([]byte("b"), 20)))
	require.NoError(t, tx.SetChunkSize(10))
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{testNode3, testNode4}))
	require.NoError(t, tx.SetTransactionID(testTransactionID()))
	require.NoError(t, tx.Freeze())
	data, err := tx.ToBytes()
	require.NoError(t, err)
	var list wire.TransactionList
	require.NoError(t, cbor.DecodeAll(data, &list))
	require.Len(t, list.Transactions, 4)
	list.Transactions = list.Transactions[:3]
	truncated, err := cbor.Encode(&list)
	require.NoError(t, err)
	_, err = hedera.TransactionFromBytes(truncated)
	require.ErrorIs(t, err, hedera.ErrInvalidTransactionList)
}

func TestChunkedTransactionFreeze(t *testing.T) {
	message := test.SequentialBytes(2500)
	tx := hedera.NewTopicMessageSubmitTransaction()
	require.NoError(t, tx.SetTopicID(ledger.NewTopicID(0, 0, 5000)))
	require.NoError(t, tx.SetMessage(message))
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{testNode3, testNode4}))
	initialID := testTransactionID()
	require.NoError(t, tx.SetTransactionID(initialID))
	require.NoError(t, tx.Freeze())
	data, err := tx.ToBytes()
	require.NoError(t, err)
	_, bodies := decodePayloads(t, data)
	// Three chunks of 1024, 1024 and 452 bytes for each of two nodes,
	// chunk-major
	require.Len(t, bodies, 6)
	var reassembled []byte
	for chunk := range 3 {
		for node, nodeID := range []ledger.AccountID{testNode3, testNode4} {
			body := bodies[chunk*2+node]
			assert.Equal(t, nodeID, *body.NodeAccountID)
			expectedStart := testValidStart.Add(time.Duration(chunk))
			require.NotNil(t, body.TransactionID.ValidStart)
			assert.True(t, expectedStart.Equal(*body.TransactionID.ValidStart), "chunk %d", chunk)
			submit := body.ConsensusSubmitMessage
			require.NotNil(t, submit)
			require.NotNil(t, submit.ChunkInfo)
			assert.True(t, initialID.Equal(submit.ChunkInfo.InitialTransactionID))
			assert.Equal(t, int32(3), submit.ChunkInfo.Total)
			assert.Equal(t, int32(chunk+1), submit.ChunkInfo.Number)
			if node == 0 {
				reassembled = append(reassembled, submit.Message...)
			}
		}
	}
	assert.Len(t, bodies[4].ConsensusSubmitMessage.Message, 452)
	assert.Equal(t, message, reassembled)
}

func TestChunkedTransactionMaxChunks(t *testing.T) {
	env, node := singleNodeEnv(t)
	tx := hedera.NewFileAppendTransaction()
	require.NoError(t, tx.SetFileID(ledger.NewFileID(0, 0, 150)))
	require.NoError(t, tx.SetContents(make([]byte, 3*1024+1)))
	require.NoError(t, tx.SetMaxChunks(3))
	_, err := tx.Execute(context.Background(), env.client)
	require.ErrorIs(t, err, hedera.ErrMaxChunksExceeded)
	var chunksErr hedera.MaxChunksExceededError
	require.ErrorAs(t, err, &chunksErr)
	assert.Equal(t, 4, chunksErr.Chunks)
	assert.Equal(t, 3, chunksErr.MaxChunks)
	assert.False(t, tx.IsFrozen())
	assert.Empty(t, node.Requests())
	// Nothing picked from the client is kept by the failed freeze
	assert.Empty(t, tx.NodeAccountIDs())
	_, err = tx.TransactionID()
	require.ErrorIs(t, err, hedera.ErrTransactionIDNotFrozen)
	require.NoError(t, tx.SetMaxChunks(4))
	require.NoError(t, tx.FreezeWith(env.client))
	assert.Equal(t, []ledger.AccountID{testNode3}, tx.NodeAccountIDs())
	txID, err := tx.TransactionID()
	require.NoError(t, err)
	assert.Equal(t, testOperatorID, *txID.AccountID)
}

func TestEmptyChunkedTransaction(t *testing.T) {
	tx := hedera.NewFileAppendTransaction()
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{testNode3}))
	require.NoError(t, tx.SetTransactionID(testTransactionID()))
	require.NoError(t, tx.Freeze())
	data, err := tx.ToBytes()
	require.NoError(t, err)
	_, bodies := decodePayloads(t, data)
	require.Len(t, bodies, 1)
	require.NotNil(t, bodies[0].FileAppend)
	assert.Empty(t, bodies[0].FileAppend.Contents)
}

func TestTransactionExecute(t *testing.T) {
	var env *testEnv
	env, node := singleNodeEnv(
		t,
		mocknode.ConversationEntry{
			Method: wire.ServiceCrypto.FullMethodName("cryptoTransfer"),
			InputFunc: func(req wire.ProtoRequest) error {
				signed, body, err := wire.DecodeSignedTransaction(*req.Transaction)
				if err != nil {
					return err
				}
				if body.NodeAccountID == nil || *body.NodeAccountID != testNode3 {
					return errors.New("wrong node account id")
				}
				if len(signed.SigMap.SigPair) != 1 {
					return errors.New("expected the operator signature only")
				}
				if !env.operatorKey.PublicKey().Verify(signed.BodyBytes, signed.SigMap.SigPair[0].Ed25519) {
					return errors.New("bad operator signature")
				}
				return nil
			},
			Output: mocknode.ConversationEntryTransactionOk.Output,
		},
	)
	tx := newTestTransfer(t)
	resp, err := tx.Execute(context.Background(), env.client)
	require.NoError(t, err)
	txID, err := tx.TransactionID()
	require.NoError(t, err)
	assert.Equal(t, testNode3, resp.NodeID)
	assert.True(t, txID.Equal(resp.TransactionID))
	require.NotNil(t, txID.AccountID)
	assert.Equal(t, testOperatorID, *txID.AccountID)
	hash, err := tx.TransactionHash()
	require.NoError(t, err)
	assert.Equal(t, hash, resp.Hash)
	assert.Equal(t, 0, node.Remaining())
}

func TestTransactionExecuteAllChunks(t *testing.T) {
	env, node := singleNodeEnv(
		t,
		mocknode.ConversationEntryTransactionOk,
		mocknode.ConversationEntryTransactionBusy,
		mocknode.ConversationEntryTransactionOk,
		mocknode.ConversationEntryTransactionOk,
	)
	tx := hedera.NewTopicMessageSubmitTransaction()
	require.NoError(t, tx.SetTopicID(ledger.NewTopicID(0, 0, 5000)))
	require.NoError(t, tx.SetMessage(make([]byte, 30)))
	require.NoError(t, tx.SetChunkSize(10))
	responses, err := tx.ExecuteAll(context.Background(), env.client)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	for i := 1; i < len(responses); i++ {
		expected := responses[i-1].TransactionID.ValidStart.Add(time.Nanosecond)
		assert.True(t, expected.Equal(*responses[i].TransactionID.ValidStart))
	}
	requests := node.Requests()
	require.Len(t, requests, 4)
	for _, req := range requests {
		assert.Equal(t, wire.ServiceConsensus.FullMethodName("submitMessage"), req.Method)
	}
}

func TestTransactionValidatesChecksums(t *testing.T) {
	env, node := singleNodeEnv(t)
	env.client.SetLedgerID(ledger.LedgerIDTestnet)
	env.client.SetAutoValidateChecksums(true)
	badID, err := ledger.AccountIDFromString("0.0.1002-abcde")
	require.NoError(t, err)
	tx := hedera.NewTransferTransaction()
	require.NoError(t, tx.AddHbarTransfer(badID, hedera.HbarFromTinybar(1)))
	require.NoError(t, tx.AddHbarTransfer(testOperatorID, hedera.HbarFromTinybar(-1)))
	_, err = tx.Execute(context.Background(), env.client)
	require.ErrorIs(t, err, hedera.ErrBadEntityIDChecksum)
	assert.Empty(t, node.Requests())
	assert.False(t, tx.IsFrozen())
	assert.Empty(t, tx.NodeAccountIDs())
	_, err = tx.TransactionID()
	require.ErrorIs(t, err, hedera.ErrTransactionIDNotFrozen)
}
