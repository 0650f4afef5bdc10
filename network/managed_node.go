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
	"sync"
	"time"
)

const (
	DefaultNodeMinBackoff = 8 * time.Second
	DefaultNodeMaxBackoff = 1 * time.Hour
)

// NodeStats is a point-in-time snapshot of a node's health state
type NodeStats struct {
	Address        Address
	Healthy        bool
	UseCount       int64
	LastUsed       time.Time
	Attempts       int64
	CurrentBackoff time.Duration
}

// ManagedNode holds the backoff state of one node endpoint. It is shared by
// every request that targets the node
type ManagedNode struct {
	mutex          sync.RWMutex
	address        Address
	currentBackoff time.Duration
	minBackoff     time.Duration
	maxBackoff     time.Duration
	lastUsed       time.Time
	backoffUntil   time.Time
	useCount       int64
	attempts       int64
}

func NewManagedNode(address Address, minBackoff, maxBackoff time.Duration) *ManagedNode {
	return &ManagedNode{
		address:        address,
		currentBackoff: minBackoff,
		minBackoff:     minBackoff,
		maxBackoff:     maxBackoff,
	}
}

func (n *ManagedNode) Address() Address {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.address
}

// InUse records a use of the node
func (n *ManagedNode) InUse() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.useCount++
	n.lastUsed = time.Now()
}

// IsHealthy returns true if the node is not in backoff
func (n *ManagedNode) IsHealthy() bool {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.isHealthy(time.Now())
}

func (n *ManagedNode) isHealthy(now time.Time) bool {
	return !n.backoffUntil.After(now)
}

// IncreaseBackoff puts the node into backoff for the current window and
// doubles the window for the next failure
func (n *ManagedNode) IncreaseBackoff() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.attempts++
	n.backoffUntil = time.Now().Add(n.currentBackoff)
	n.currentBackoff = min(n.currentBackoff*2, n.maxBackoff)
}

// DecreaseBackoff halves the backoff window after a successful request
func (n *ManagedNode) DecreaseBackoff() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.currentBackoff = max(n.currentBackoff/2, n.minBackoff)
}

// RemainingBackoff returns how long until the node is healthy again
func (n *ManagedNode) RemainingBackoff() time.Duration {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return max(time.Until(n.backoffUntil), 0)
}

func (n *ManagedNode) CurrentBackoff() time.Duration {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.currentBackoff
}

// Attempts returns the number of transport failures seen
func (n *ManagedNode) Attempts() int64 {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.attempts
}

func (n *ManagedNode) Stats() NodeStats {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return NodeStats{
		Address:        n.address,
		Healthy:        n.isHealthy(time.Now()),
		UseCount:       n.useCount,
		LastUsed:       n.lastUsed,
		Attempts:       n.attempts,
		CurrentBackoff: n.currentBackoff,
	}
}

func (n *ManagedNode) SetMinBackoff(minBackoff time.Duration) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.minBackoff = minBackoff
	// A node that never failed starts its next window at the new minimum
	if n.attempts == 0 {
		n.currentBackoff = minBackoff
	} else {
		n.currentBackoff = max(n.currentBackoff, minBackoff)
	}
}

func (n *ManagedNode) SetMaxBackoff(maxBackoff time.Duration) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.maxBackoff = maxBackoff
	n.currentBackoff = min(n.currentBackoff, maxBackoff)
}
