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
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/blinklabs-io/gohedera/channel"
)

var ErrNoMirrorNodes = errors.New("mirror network has no nodes")

// MirrorNetwork is the set of mirror nodes, keyed by address
type MirrorNetwork struct {
	*ManagedNetwork[string, *MirrorNode]
	mutex       sync.RWMutex
	channelOpts []channel.ChannelOptionFunc
}

func NewMirrorNetwork(opts ...NetworkOptionFunc) *MirrorNetwork {
	cfg := newNetworkConfig(opts...)
	n := &MirrorNetwork{
		channelOpts: cfg.channelOpts,
	}
	n.ManagedNetwork = NewManagedNetwork[string, *MirrorNode](
		n.newNode,
		cfg.logger.With("component", "mirror_network"),
	)
	return n
}

func (n *MirrorNetwork) newNode(_ string, address Address, minBackoff, maxBackoff time.Duration) *MirrorNode {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return NewMirrorNode(address, minBackoff, maxBackoff, slices.Clone(n.channelOpts)...)
}

// SetNetwork replaces the mirror nodes with the given addresses
func (n *MirrorNetwork) SetNetwork(addresses []string) error {
	entries := make([]Entry[string], 0, len(addresses))
	for _, addressStr := range addresses {
		address, err := ParseAddress(addressStr)
		if err != nil {
			return err
		}
		entries = append(entries, Entry[string]{Key: addressStr, Address: address})
	}
	return n.SetNodes(entries)
}

// Network returns the mirror node addresses
func (n *MirrorNetwork) Network() []string {
	nodes := n.Nodes()
	ret := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ret = append(ret, node.Address().String())
	}
	return ret
}

// Next returns the healthiest mirror node
func (n *MirrorNetwork) Next() (*MirrorNode, error) {
	nodes := n.NumberOfMostHealthyNodes(1)
	if len(nodes) == 0 {
		return nil, ErrNoMirrorNodes
	}
	return nodes[0], nil
}
