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

package mocknode_test

import (
	"context"
	"testing"

	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/internal/test/mocknode"
	"github.com/blinklabs-io/gohedera/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Basic test of conversation mock functionality
func TestBasic(t *testing.T) {
	node := mocknode.New(
		mocknode.WithConversation(
			mocknode.ConversationEntryUnavailable,
			mocknode.ConversationEntry{
				Method: "/proto.CryptoService/cryptoTransfer",
				Output: wire.ProtoResponse{
					Transaction: &wire.TransactionResponse{NodeTransactionPrecheckCode: wire.StatusOk},
				},
			},
		),
	)
	defer node.Close()
	cluster := mocknode.NewCluster(map[string]*mocknode.Node{"node1:50211": node})
	ch := channel.New("node1:50211", channel.WithDialOptions(cluster.DialOption()))
	defer ch.Close()
	method, err := ch.Crypto().Method("cryptoTransfer")
	require.NoError(t, err)
	req := wire.ProtoRequest{Transaction: &wire.Transaction{SignedTransactionBytes: []byte{1}}}
	_, err = method.Invoke(context.Background(), req)
	assert.Equal(t, codes.Unavailable, status.Code(err))
	resp, err := method.Invoke(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, wire.StatusOk, resp.Transaction.NodeTransactionPrecheckCode)
	require.NoError(t, node.Err())
	assert.Equal(t, 0, node.Remaining())
	requests := node.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, []byte{1}, requests[1].Request.Transaction.SignedTransactionBytes)
	// Past the end of the conversation
	_, err = method.Invoke(context.Background(), req)
	assert.Equal(t, codes.Internal, status.Code(err))
	require.Error(t, node.Err())
}
