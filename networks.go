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
	"github.com/blinklabs-io/gohedera/ledger"
)

// NetworkDefinition describes a well-known ledger and how to reach it
type NetworkDefinition struct {
	Name        string
	LedgerID    ledger.LedgerID
	Nodes       map[string]ledger.AccountID
	MirrorNodes []string
}

// Network definitions
var (
	NetworkMainnet = NetworkDefinition{
		Name:     "mainnet",
		LedgerID: ledger.LedgerIDMainnet,
		Nodes: map[string]ledger.AccountID{
			"35.237.200.180:50211": ledger.NewAccountID(0, 0, 3),
			"35.186.191.247:50211": ledger.NewAccountID(0, 0, 4),
			"35.192.2.25:50211":    ledger.NewAccountID(0, 0, 5),
			"35.199.161.108:50211": ledger.NewAccountID(0, 0, 6),
			"35.203.82.240:50211":  ledger.NewAccountID(0, 0, 7),
			"35.236.5.219:50211":   ledger.NewAccountID(0, 0, 8),
			"35.197.192.225:50211": ledger.NewAccountID(0, 0, 9),
			"35.242.233.154:50211": ledger.NewAccountID(0, 0, 10),
			"35.240.118.96:50211":  ledger.NewAccountID(0, 0, 11),
			"35.204.86.32:50211":   ledger.NewAccountID(0, 0, 12),
		},
		MirrorNodes: []string{"mainnet-public.mirrornode.hedera.com:443"},
	}
	NetworkTestnet = NetworkDefinition{
		Name:     "testnet",
		LedgerID: ledger.LedgerIDTestnet,
		Nodes: map[string]ledger.AccountID{
			"0.testnet.hedera.com:50211": ledger.NewAccountID(0, 0, 3),
			"1.testnet.hedera.com:50211": ledger.NewAccountID(0, 0, 4),
			"2.testnet.hedera.com:50211": ledger.NewAccountID(0, 0, 5),
			"3.testnet.hedera.com:50211": ledger.NewAccountID(0, 0, 6),
			"4.testnet.hedera.com:50211": ledger.NewAccountID(0, 0, 7),
			"5.testnet.hedera.com:50211": ledger.NewAccountID(0, 0, 8),
			"6.testnet.hedera.com:50211": ledger.NewAccountID(0, 0, 9),
		},
		MirrorNodes: []string{"testnet.mirrornode.hedera.com:443"},
	}
	NetworkPreviewnet = NetworkDefinition{
		Name:     "previewnet",
		LedgerID: ledger.LedgerIDPreviewnet,
		Nodes: map[string]ledger.AccountID{
			"0.previewnet.hedera.com:50211": ledger.NewAccountID(0, 0, 3),
			"1.previewnet.hedera.com:50211": ledger.NewAccountID(0, 0, 4),
			"2.previewnet.hedera.com:50211": ledger.NewAccountID(0, 0, 5),
			"3.previewnet.hedera.com:50211": ledger.NewAccountID(0, 0, 6),
			"4.previewnet.hedera.com:50211": ledger.NewAccountID(0, 0, 7),
			"5.previewnet.hedera.com:50211": ledger.NewAccountID(0, 0, 8),
			"6.previewnet.hedera.com:50211": ledger.NewAccountID(0, 0, 9),
		},
		MirrorNodes: []string{"previewnet.mirrornode.hedera.com:443"},
	}
	NetworkLocal = NetworkDefinition{
		Name:     "local",
		LedgerID: ledger.LedgerIDLocal,
		Nodes: map[string]ledger.AccountID{
			"127.0.0.1:50211": ledger.NewAccountID(0, 0, 3),
		},
		MirrorNodes: []string{"127.0.0.1:5600"},
	}

	// NetworkInvalid is returned by the lookup functions when a network isn't found
	NetworkInvalid = NetworkDefinition{
		Name: "invalid",
	}
)

// List of valid networks for use in lookup functions
var networks = []NetworkDefinition{
	NetworkMainnet,
	NetworkTestnet,
	NetworkPreviewnet,
	NetworkLocal,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) NetworkDefinition {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByLedgerID returns a predefined network by ledger id
func NetworkByLedgerID(ledgerID ledger.LedgerID) NetworkDefinition {
	for _, network := range networks {
		if network.LedgerID == ledgerID {
			return network
		}
	}
	return NetworkInvalid
}

func (n NetworkDefinition) IsValid() bool {
	return n.Name != NetworkInvalid.Name
}

// String returns a stringified representation of NetworkDefinition
func (n NetworkDefinition) String() string {
	return n.Name
}
