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
	"time"

	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/ledger"
)

// Node is a consensus node endpoint
type Node struct {
	*ManagedNode
	accountID         ledger.AccountID
	certHash          string
	verifyCertificate bool
	channelOpts       []channel.ChannelOptionFunc
	channel           *channel.Channel
}

func NewNode(
	accountID ledger.AccountID,
	address Address,
	minBackoff time.Duration,
	maxBackoff time.Duration,
	channelOpts ...channel.ChannelOptionFunc,
) *Node {
	return &Node{
		ManagedNode:       NewManagedNode(address, minBackoff, maxBackoff),
		accountID:         accountID.WithoutChecksum(),
		verifyCertificate: true,
		channelOpts:       channelOpts,
	}
}

func (n *Node) AccountID() ledger.AccountID {
	return n.accountID
}

// CertHash returns the pinned certificate hash from the address book, if any
func (n *Node) CertHash() string {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.certHash
}

// Channel returns the node's channel, creating it if needed
func (n *Node) Channel() *channel.Channel {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.channel == nil {
		opts := []channel.ChannelOptionFunc{
			channel.WithTransportSecurity(n.address.IsTransportSecurity()),
			channel.WithCertHash(n.certHash),
			channel.WithVerifyCertificate(n.verifyCertificate),
		}
		opts = append(opts, n.channelOpts...)
		n.channel = channel.New(n.address.String(), opts...)
	}
	return n.channel
}

func (n *Node) closeChannel() error {
	if n.channel == nil {
		return nil
	}
	err := n.channel.Close()
	n.channel = nil
	return err
}

// SetCertHash pins the certificate hash. An open channel is closed
func (n *Node) SetCertHash(certHash string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.certHash == certHash {
		return
	}
	n.certHash = certHash
	_ = n.closeChannel()
}

func (n *Node) SetVerifyCertificate(verify bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.verifyCertificate == verify {
		return
	}
	n.verifyCertificate = verify
	_ = n.closeChannel()
}

// SetTransportSecurity switches the address to its TLS or plain port. An open
// channel is closed
func (n *Node) SetTransportSecurity(transportSecurity bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	address := n.address.withTransportSecurity(transportSecurity)
	if address == n.address {
		return
	}
	n.address = address
	_ = n.closeChannel()
}

func (n *Node) Close() error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.closeChannel()
}

// MirrorNode is a mirror node endpoint
type MirrorNode struct {
	*ManagedNode
	channelOpts []channel.ChannelOptionFunc
	channel     *channel.Channel
}

func NewMirrorNode(
	address Address,
	minBackoff time.Duration,
	maxBackoff time.Duration,
	channelOpts ...channel.ChannelOptionFunc,
) *MirrorNode {
	return &MirrorNode{
		ManagedNode: NewManagedNode(address, minBackoff, maxBackoff),
		channelOpts: channelOpts,
	}
}

func (n *MirrorNode) Channel() *channel.Channel {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.channel == nil {
		opts := []channel.ChannelOptionFunc{
			channel.WithTransportSecurity(n.address.IsTransportSecurity()),
		}
		opts = append(opts, n.channelOpts...)
		n.channel = channel.New(n.address.String(), opts...)
	}
	return n.channel
}

func (n *MirrorNode) SetTransportSecurity(transportSecurity bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	address := n.address.withTransportSecurity(transportSecurity)
	if address == n.address {
		return
	}
	n.address = address
	if n.channel != nil {
		_ = n.channel.Close()
		n.channel = nil
	}
}

func (n *MirrorNode) Close() error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.channel == nil {
		return nil
	}
	err := n.channel.Close()
	n.channel = nil
	return err
}
