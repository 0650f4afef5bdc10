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

package network

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/ledger"
)

// NetworkOptionFunc is a type that represents functions that modify the Network config
type NetworkOptionFunc func(*networkConfig)

type networkConfig struct {
	logger      *slog.Logger
	channelOpts []channel.ChannelOptionFunc
}

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) NetworkOptionFunc {
	return func(c *networkConfig) {
		c.logger = logger
	}
}

// WithChannelOptions specifies options applied to every node channel
func WithChannelOptions(opts ...channel.ChannelOptionFunc) NetworkOptionFunc {
	return func(c *networkConfig) {
		c.channelOpts = append(c.channelOpts, opts...)
	}
}

func newNetworkConfig(opts ...NetworkOptionFunc) networkConfig {
	var c networkConfig
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Network is the set of consensus nodes, keyed by node account id
type Network struct {
	*ManagedNetwork[ledger.AccountID, *Node]
	mutex                  sync.RWMutex
	ledgerID               ledger.LedgerID
	maxNodesPerTransaction int
	verifyCertificate      bool
	addressBook            *AddressBook
	channelOpts            []channel.ChannelOptionFunc
}

func NewNetwork(opts ...NetworkOptionFunc) *Network {
	cfg := newNetworkConfig(opts...)
	n := &Network{
		verifyCertificate: true,
		channelOpts:       cfg.channelOpts,
	}
	n.ManagedNetwork = NewManagedNetwork[ledger.AccountID, *Node](
		n.newNode,
		cfg.logger.With("component", "network"),
	)
	return n
}

func (n *Network) newNode(
	accountID ledger.AccountID,
	address Address,
	minBackoff time.Duration,
	maxBackoff time.Duration,
) *Node {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	channelOpts := slices.Clone(n.channelOpts)
	node := NewNode(accountID, address, minBackoff, maxBackoff, channelOpts...)
	node.verifyCertificate = n.verifyCertificate
	if n.addressBook != nil {
		if entry, ok := n.addressBook.Entry(accountID); ok {
			node.certHash = entry.CertHash
		}
	}
	return node
}

// SetNetwork replaces the nodes with the given address to account id mapping
func (n *Network) SetNetwork(network map[string]ledger.AccountID) error {
	entries := make([]Entry[ledger.AccountID], 0, len(network))
	for addressStr, accountID := range network {
		address, err := ParseAddress(addressStr)
		if err != nil {
			return err
		}
		entries = append(
			entries,
			Entry[ledger.AccountID]{Key: accountID.WithoutChecksum(), Address: address},
		)
	}
	// Map iteration order is random
	slices.SortFunc(entries, func(a, b Entry[ledger.AccountID]) int {
		return cmp.Or(
			cmp.Compare(a.Key.Shard, b.Key.Shard),
			cmp.Compare(a.Key.Realm, b.Key.Realm),
			cmp.Compare(a.Key.Num, b.Key.Num),
			cmp.Compare(a.Address.String(), b.Address.String()),
		)
	})
	return n.SetNodes(entries)
}

// Network returns the current address to account id mapping
func (n *Network) Network() map[string]ledger.AccountID {
	ret := make(map[string]ledger.AccountID)
	for _, node := range n.Nodes() {
		ret[node.Address().String()] = node.AccountID()
	}
	return ret
}

// SetMaxNodesPerTransaction caps the number of nodes a transaction is
// prepared for. Zero means no cap
func (n *Network) SetMaxNodesPerTransaction(maxNodes int) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.maxNodesPerTransaction = maxNodes
}

// NumberOfNodesForTransaction returns a third of the logical nodes, rounded
// up and capped by the max nodes per transaction
func (n *Network) NumberOfNodesForTransaction() int {
	n.mutex.RLock()
	maxNodes := n.maxNodesPerTransaction
	n.mutex.RUnlock()
	count := (n.Size() + 2) / 3
	if maxNodes > 0 {
		count = min(count, maxNodes)
	}
	return count
}

// NodeAccountIDsForTransaction returns the account ids of the healthiest nodes
func (n *Network) NodeAccountIDsForTransaction() ([]ledger.AccountID, error) {
	count := n.NumberOfNodesForTransaction()
	if count == 0 {
		return nil, ErrNoNodes
	}
	ret := make([]ledger.AccountID, 0, count)
	for _, node := range n.NumberOfMostHealthyNodes(count) {
		if !slices.Contains(ret, node.AccountID()) {
			ret = append(ret, node.AccountID())
		}
	}
	if len(ret) == 0 {
		return nil, ErrNoNodes
	}
	return ret, nil
}

// NodeForExecute returns the endpoint to send a request for the node account id to
func (n *Network) NodeForExecute(accountID ledger.AccountID) (*Node, error) {
	return n.NodeForKey(accountID.WithoutChecksum())
}

func (n *Network) LedgerID() ledger.LedgerID {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.ledgerID
}

// SetLedgerID binds the network to a ledger. If an address book is
// registered for the ledger, its certificate hashes are attached to the nodes
func (n *Network) SetLedgerID(ledgerID ledger.LedgerID) {
	n.mutex.Lock()
	n.ledgerID = ledgerID
	n.mutex.Unlock()
	if book, ok := AddressBookForLedger(ledgerID); ok {
		n.SetNodesAddressBook(book)
	}
}

// SetNodesAddressBook attaches the address book certificate hashes to the nodes
func (n *Network) SetNodesAddressBook(book *AddressBook) {
	n.mutex.Lock()
	n.addressBook = book
	n.mutex.Unlock()
	for _, node := range n.Nodes() {
		certHash := ""
		if book != nil {
			if entry, ok := book.Entry(node.AccountID()); ok {
				certHash = entry.CertHash
			}
		}
		node.SetCertHash(certHash)
	}
}

func (n *Network) AddressBook() *AddressBook {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.addressBook
}

func (n *Network) SetVerifyCertificate(verify bool) {
	n.mutex.Lock()
	n.verifyCertificate = verify
	n.mutex.Unlock()
	for _, node := range n.Nodes() {
		node.SetVerifyCertificate(verify)
	}
}

func (n *Network) VerifyCertificate() bool {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.verifyCertificate
}
