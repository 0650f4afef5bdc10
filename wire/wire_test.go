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

package wire_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testTransactionBody() wire.TransactionBody {
	payer := ledger.NewAccountID(0, 0, 1001)
	node := ledger.NewAccountID(0, 0, 3)
	return wire.TransactionBody{
		TransactionID: ledger.NewTransactionIDWithValidStart(
			payer,
			time.Unix(1700000000, 42),
		),
		NodeAccountID:  &node,
		TransactionFee: 200_000_000,
		ValidDuration:  ledger.NewDuration(120 * time.Second),
		Memo:           "hello",
		CryptoTransfer: &wire.CryptoTransferBody{
			Transfers: []wire.AccountAmount{
				{AccountID: payer, Amount: -10},
				{AccountID: node, Amount: 10},
			},
		},
	}
}

func TestTransactionBodyCodec(t *testing.T) {
	codec := wire.Codec{}
	assert.Equal(t, "cbor", codec.Name())
	body := testTransactionBody()
	data, err := codec.Marshal(&body)
	require.NoError(t, err)
	var decoded wire.TransactionBody
	require.NoError(t, codec.Unmarshal(data, &decoded))
	assert.Equal(t, body.TransactionID.String(), decoded.TransactionID.String())
	require.NotNil(t, decoded.NodeAccountID)
	assert.Equal(t, *body.NodeAccountID, *decoded.NodeAccountID)
	assert.Equal(t, body.TransactionFee, decoded.TransactionFee)
	assert.Equal(t, body.ValidDuration, decoded.ValidDuration)
	assert.Equal(t, body.Memo, decoded.Memo)
	require.NotNil(t, decoded.CryptoTransfer)
	assert.Equal(t, body.CryptoTransfer.Transfers, decoded.CryptoTransfer.Transfers)
	assert.Nil(t, decoded.ConsensusSubmitMessage)
	assert.Nil(t, decoded.FileAppend)
	// Encoding is deterministic
	again, err := codec.Marshal(&decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestCodecRejectsTrailingData(t *testing.T) {
	data, err := cbor.Encode(wire.TransactionResponse{})
	require.NoError(t, err)
	data = append(data, 0x00)
	var resp wire.TransactionResponse
	require.ErrorIs(t, wire.Codec{}.Unmarshal(data, &resp), cbor.ErrTrailingData)
}

func TestDecodeSignedTransaction(t *testing.T) {
	body := testTransactionBody()
	bodyBytes, err := cbor.Encode(&body)
	require.NoError(t, err)
	signedBytes, err := cbor.Encode(&wire.SignedTransaction{
		BodyBytes: bodyBytes,
		SigMap: wire.SignatureMap{
			SigPair: []wire.SignaturePair{
				{PubKeyPrefix: []byte{1, 2, 3}, Ed25519: []byte{4, 5, 6}},
			},
		},
	})
	require.NoError(t, err)
	signed, decodedBody, err := wire.DecodeSignedTransaction(
		wire.Transaction{SignedTransactionBytes: signedBytes},
	)
	require.NoError(t, err)
	assert.Equal(t, bodyBytes, signed.BodyBytes)
	require.Len(t, signed.SigMap.SigPair, 1)
	assert.Equal(t, []byte{4, 5, 6}, signed.SigMap.SigPair[0].Ed25519)
	assert.Equal(t, "hello", decodedBody.Memo)
	_, _, err = wire.DecodeSignedTransaction(wire.Transaction{SignedTransactionBytes: []byte{0xff}})
	require.Error(t, err)
}

func TestQueryHeader(t *testing.T) {
	query := wire.Query{
		CryptoGetInfo: &wire.CryptoGetInfoQuery{
			AccountID: ledger.NewAccountID(0, 0, 2),
		},
	}
	header := query.Header()
	require.NotNil(t, header)
	header.ResponseType = wire.ResponseTypeCostAnswer
	assert.Equal(t, wire.ResponseTypeCostAnswer, query.CryptoGetInfo.Header.ResponseType)
	assert.Nil(t, (&wire.Query{}).Header())
	resp := wire.Response{
		TransactionGetReceipt: &wire.TransactionGetReceiptResponse{
			Header: wire.ResponseHeader{NodeTransactionPrecheckCode: wire.StatusBusy},
		},
	}
	assert.Equal(t, wire.StatusBusy, resp.Header().NodeTransactionPrecheckCode)
	assert.Equal(t, wire.ResponseHeader{}, (&wire.Response{}).Header())
}

func TestServices(t *testing.T) {
	assert.Len(t, wire.Services(), 8)
	kind, ok := wire.ServiceCrypto.LookupMethod("cryptoTransfer")
	require.True(t, ok)
	assert.Equal(t, wire.MethodKindTransaction, kind)
	kind, ok = wire.ServiceCrypto.LookupMethod("cryptoGetBalance")
	require.True(t, ok)
	assert.Equal(t, wire.MethodKindQuery, kind)
	_, ok = wire.ServiceFreeze.LookupMethod("cryptoTransfer")
	assert.False(t, ok)
	assert.Equal(t, []string{"freeze"}, wire.ServiceFreeze.Methods())
	assert.Equal(
		t,
		"/proto.ConsensusService/submitMessage",
		wire.ServiceConsensus.FullMethodName("submitMessage"),
	)
}

func TestRequestKind(t *testing.T) {
	kind, err := wire.ProtoRequest{Transaction: &wire.Transaction{}}.Kind()
	require.NoError(t, err)
	assert.Equal(t, wire.MethodKindTransaction, kind)
	kind, err = wire.ProtoRequest{Query: &wire.Query{}}.Kind()
	require.NoError(t, err)
	assert.Equal(t, wire.MethodKindQuery, kind)
	_, err = wire.ProtoRequest{}.Kind()
	require.ErrorIs(t, err, wire.ErrEmptyRequest)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "BUSY", wire.StatusBusy.String())
	assert.Equal(t, "PLATFORM_NOT_ACTIVE", wire.StatusPlatformNotActive.String())
	assert.Equal(t, "Status(9999)", wire.Status(9999).String())
	assert.Equal(t, "COST_ANSWER", wire.ResponseTypeCostAnswer.String())
}
