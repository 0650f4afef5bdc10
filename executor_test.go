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
	"context"
	"testing"

	hedera "github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/internal/test/mocknode"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestExecuteTransportRetry(t *testing.T) {
	env, node := singleNodeEnv(
		t,
		mocknode.ConversationEntryUnavailable,
		mocknode.ConversationEntryUnavailable,
		mocknode.ConversationEntryUnavailable,
		mocknode.ConversationEntryUnavailable,
		mocknode.ConversationEntryTransactionOk,
	)
	resp, err := newTestTransfer(t).Execute(context.Background(), env.client)
	require.NoError(t, err)
	assert.Equal(t, testNode3, resp.NodeID)
	assert.Equal(t, 0, node.Remaining())
	stats := env.client.Metrics().Stats()
	assert.Equal(t, uint64(5), stats.Attempts)
	assert.Equal(t, uint64(4), stats.TransportRetries)
	assert.Equal(t, uint64(4), stats.BackoffIncreases)
	assert.Equal(t, uint64(1), stats.BackoffDecreases)
	assert.Equal(t, uint64(0), stats.PrecheckRetries)
	assert.Equal(t, uint64(0), stats.Failures)
	nodeStats := env.client.NodeStats()
	require.Len(t, nodeStats, 1)
	assert.Equal(t, int64(4), nodeStats[0].Attempts)
	assert.Equal(t, int64(5), nodeStats[0].UseCount)
	count, err := testutil.GatherAndCount(env.registry, "hedera_client_transport_retries_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExecuteBusyRetry(t *testing.T) {
	env, node := singleNodeEnv(
		t,
		mocknode.ConversationEntryTransactionBusy,
		mocknode.TransactionResponseEntry(wire.StatusPlatformNotActive),
		mocknode.ConversationEntryTransactionOk,
	)
	_, err := newTestTransfer(t).Execute(context.Background(), env.client)
	require.NoError(t, err)
	assert.Equal(t, 0, node.Remaining())
	stats := env.client.Metrics().Stats()
	assert.Equal(t, uint64(2), stats.PrecheckRetries)
	assert.Equal(t, uint64(3), stats.BackoffDecreases)
	assert.Equal(t, uint64(0), stats.BackoffIncreases)
	count, err := testutil.GatherAndCount(env.registry, "hedera_client_precheck_retries_total")
	require.NoError(t, err)
	// One series per retried status
	assert.Equal(t, 2, count)
}

func TestExecutePrecheckError(t *testing.T) {
	env, _ := singleNodeEnv(
		t,
		mocknode.TransactionResponseEntry(wire.StatusInsufficientPayerBalance),
	)
	tx := newTestTransfer(t)
	_, err := tx.Execute(context.Background(), env.client)
	require.ErrorIs(t, err, hedera.ErrFailedPrecheck)
	var precheckErr hedera.PrecheckError
	require.ErrorAs(t, err, &precheckErr)
	assert.Equal(t, wire.StatusInsufficientPayerBalance, precheckErr.Status)
	require.NotNil(t, precheckErr.TransactionID)
	txID, err := tx.TransactionID()
	require.NoError(t, err)
	assert.True(t, txID.Equal(*precheckErr.TransactionID))
	assert.Equal(t, uint64(1), env.client.Metrics().Stats().Failures)
}

func TestExecuteBusyOnLastAttempt(t *testing.T) {
	env, node := singleNodeEnv(
		t,
		mocknode.ConversationEntryTransactionBusy,
		mocknode.ConversationEntryTransactionBusy,
	)
	tx := newTestTransfer(t)
	require.NoError(t, tx.SetMaxAttempts(2))
	_, err := tx.Execute(context.Background(), env.client)
	// A retryable status on the final attempt is a precheck failure
	require.ErrorIs(t, err, hedera.ErrFailedPrecheck)
	assert.NotErrorIs(t, err, hedera.ErrMaxAttemptsExceeded)
	var precheckErr hedera.PrecheckError
	require.ErrorAs(t, err, &precheckErr)
	assert.Equal(t, wire.StatusBusy, precheckErr.Status)
	assert.Equal(t, 0, node.Remaining())
	assert.Equal(t, uint64(1), env.client.Metrics().Stats().PrecheckRetries)
}

func TestExecuteBusySingleAttempt(t *testing.T) {
	env, node := singleNodeEnv(t, mocknode.ConversationEntryTransactionBusy)
	tx := newTestTransfer(t)
	require.NoError(t, tx.SetMaxAttempts(1))
	_, err := tx.Execute(context.Background(), env.client)
	var precheckErr hedera.PrecheckError
	require.ErrorAs(t, err, &precheckErr)
	assert.Equal(t, wire.StatusBusy, precheckErr.Status)
	assert.Equal(t, 0, node.Remaining())
	assert.Equal(t, uint64(0), env.client.Metrics().Stats().PrecheckRetries)
}

func TestExecuteMaxAttemptsUnavailable(t *testing.T) {
	env, _ := singleNodeEnv(
		t,
		mocknode.ConversationEntryUnavailable,
		mocknode.ConversationEntryUnavailable,
		mocknode.ConversationEntryUnavailable,
	)
	env.client.SetMaxAttempts(3)
	_, err := newTestTransfer(t).Execute(context.Background(), env.client)
	require.ErrorIs(t, err, hedera.ErrMaxAttemptsExceeded)
	assert.Equal(t, codes.Unavailable, statusCode(err))
}

func TestExecuteProtoClientError(t *testing.T) {
	env, _ := singleNodeEnv(t, mocknode.ErrorEntry(codes.InvalidArgument))
	_, err := newTestTransfer(t).Execute(context.Background(), env.client)
	require.ErrorIs(t, err, hedera.ErrProtoClientFailed)
	var protoErr hedera.ProtoClientError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, codes.InvalidArgument, protoErr.Code)
}

func TestExecuteMovesToNextNode(t *testing.T) {
	node3 := mocknode.New(mocknode.WithConversation(mocknode.ConversationEntryUnavailable))
	node4 := mocknode.New(mocknode.WithConversation(mocknode.ConversationEntryTransactionOk))
	env := newTestEnv(
		t,
		testNode{address: "127.0.0.1:50211", accountID: testNode3, node: node3},
		testNode{address: "127.0.0.2:50211", accountID: testNode4, node: node4},
	)
	tx := newTestTransfer(t)
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{testNode3, testNode4}))
	resp, err := tx.Execute(context.Background(), env.client)
	require.NoError(t, err)
	assert.Equal(t, testNode4, resp.NodeID)
	assert.Len(t, node3.Requests(), 1)
	assert.Len(t, node4.Requests(), 1)
	// Each node received the payload built for it
	_, body, err := wire.DecodeSignedTransaction(*node4.Requests()[0].Request.Transaction)
	require.NoError(t, err)
	assert.Equal(t, testNode4, *body.NodeAccountID)
}

func TestExecuteUnknownNode(t *testing.T) {
	env, node := singleNodeEnv(t)
	tx := newTestTransfer(t)
	require.NoError(t, tx.SetNodeAccountIDs([]ledger.AccountID{ledger.NewAccountID(0, 0, 99)}))
	_, err := tx.Execute(context.Background(), env.client)
	require.ErrorIs(t, err, hedera.ErrInvalidNodeAccountID)
	assert.Empty(t, node.Requests())
}

func TestExecuteCanceled(t *testing.T) {
	env, node := singleNodeEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestTransfer(t).Execute(ctx, env.client)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, node.Requests())
}
