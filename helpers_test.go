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
	"errors"
	"testing"
	"time"

	hedera "github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/internal/test/mocknode"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	testOperatorID = ledger.NewAccountID(0, 0, 1001)
	testNode3      = ledger.NewAccountID(0, 0, 3)
	testNode4      = ledger.NewAccountID(0, 0, 4)
	testValidStart = time.Unix(1700000000, 0)
)

type testNode struct {
	address   string
	accountID ledger.AccountID
	node      *mocknode.Node
}

type testEnv struct {
	client      *hedera.Client
	registry    *prometheus.Registry
	operatorKey keys.PrivateKey
	nodes       map[string]*mocknode.Node
}

// newTestEnv returns a client whose nodes are served by the given mock nodes,
// with backoffs shortened for tests
func newTestEnv(t *testing.T, testNodes ...testNode) *testEnv {
	t.Helper()
	nodes := make(map[string]*mocknode.Node, len(testNodes))
	network := make(map[string]ledger.AccountID, len(testNodes))
	for _, testNode := range testNodes {
		nodes[testNode.address] = testNode.node
		network[testNode.address] = testNode.accountID
	}
	cluster := mocknode.NewCluster(nodes)
	registry := prometheus.NewRegistry()
	client, err := hedera.ClientForNetwork(
		network,
		hedera.WithChannelOptions(channel.WithDialOptions(cluster.DialOption())),
		hedera.WithMetricsRegisterer(registry),
	)
	require.NoError(t, err)
	client.SetNodeMinBackoff(time.Millisecond)
	client.SetNodeMaxBackoff(10 * time.Millisecond)
	require.NoError(t, client.SetMinBackoff(time.Millisecond))
	require.NoError(t, client.SetMaxBackoff(10*time.Millisecond))
	operatorKey, err := keys.GeneratePrivateKey(keys.SchemeEd25519)
	require.NoError(t, err)
	client.SetOperator(testOperatorID, operatorKey)
	t.Cleanup(func() {
		_ = client.Close()
		cluster.Close()
		for _, node := range nodes {
			require.NoError(t, node.Err())
		}
	})
	return &testEnv{
		client:      client,
		registry:    registry,
		operatorKey: operatorKey,
		nodes:       nodes,
	}
}

func singleNodeEnv(t *testing.T, entries ...mocknode.ConversationEntry) (*testEnv, *mocknode.Node) {
	t.Helper()
	node := mocknode.New(mocknode.WithConversation(entries...))
	env := newTestEnv(
		t,
		testNode{address: "127.0.0.1:50211", accountID: testNode3, node: node},
	)
	return env, node
}

func testTransactionID() ledger.TransactionID {
	return ledger.NewTransactionIDWithValidStart(testOperatorID, testValidStart)
}

func statusCode(err error) codes.Code {
	var attemptsErr hedera.MaxAttemptsExceededError
	if errors.As(err, &attemptsErr) {
		err = attemptsErr.LastErr
	}
	return status.Code(err)
}
