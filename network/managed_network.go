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
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Handle is a node endpoint managed by a ManagedNetwork
type Handle interface {
	comparable
	Address() Address
	InUse()
	IsHealthy() bool
	RemainingBackoff() time.Duration
	Stats() NodeStats
	SetMinBackoff(time.Duration)
	SetMaxBackoff(time.Duration)
	SetTransportSecurity(bool)
	Close() error
}

// Entry assigns an endpoint address to a logical node
type Entry[K comparable] struct {
	Key     K
	Address Address
}

// HandleFunc creates the handle for a new endpoint with the network's
// current backoff bounds
type HandleFunc[K comparable, H Handle] func(key K, address Address, minBackoff, maxBackoff time.Duration) H

// ManagedNetwork is a registry of node endpoints grouped by logical node.
// One logical node may be reachable through several endpoints
type ManagedNetwork[K comparable, H Handle] struct {
	mutex             sync.RWMutex
	network           map[K][]H
	nodes             []H
	newHandle         HandleFunc[K, H]
	minBackoff        time.Duration
	maxBackoff        time.Duration
	maxNodeAttempts   int64
	transportSecurity bool
	logger            *slog.Logger
}

func NewManagedNetwork[K comparable, H Handle](
	newHandle HandleFunc[K, H],
	logger *slog.Logger,
) *ManagedNetwork[K, H] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManagedNetwork[K, H]{
		network:    make(map[K][]H),
		newHandle:  newHandle,
		minBackoff: DefaultNodeMinBackoff,
		maxBackoff: DefaultNodeMaxBackoff,
		logger:     logger,
	}
}

// SetNodes replaces the set of endpoints. Handles for endpoints that are
// kept are reused, and handles for endpoints that are dropped are closed
func (m *ManagedNetwork[K, H]) SetNodes(entries []Entry[K]) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	network := make(map[K][]H, len(entries))
	nodes := make([]H, 0, len(entries))
	kept := make(map[H]struct{}, len(entries))
	for _, entry := range entries {
		address := entry.Address
		if m.transportSecurity {
			address = address.ToSecure()
		}
		if slices.ContainsFunc(network[entry.Key], func(h H) bool {
			return h.Address() == address
		}) {
			continue
		}
		handle, ok := m.findHandle(entry.Key, address)
		if !ok {
			handle = m.newHandle(entry.Key, address, m.minBackoff, m.maxBackoff)
		}
		kept[handle] = struct{}{}
		network[entry.Key] = append(network[entry.Key], handle)
		nodes = append(nodes, handle)
	}
	var err error
	for _, handle := range m.nodes {
		if _, ok := kept[handle]; !ok {
			err = errors.Join(err, handle.Close())
		}
	}
	m.network = network
	m.nodes = nodes
	return err
}

func (m *ManagedNetwork[K, H]) findHandle(key K, address Address) (H, bool) {
	for _, handle := range m.network[key] {
		if handle.Address() == address {
			return handle, true
		}
	}
	var zero H
	return zero, false
}

// Size returns the number of logical nodes
func (m *ManagedNetwork[K, H]) Size() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.network)
}

// Nodes returns every endpoint in insertion order
func (m *ManagedNetwork[K, H]) Nodes() []H {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return slices.Clone(m.nodes)
}

// NodesForKey returns the endpoints of a logical node
func (m *ManagedNetwork[K, H]) NodesForKey(key K) []H {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return slices.Clone(m.network[key])
}

// NumberOfMostHealthyNodes returns up to count endpoints ordered healthy
// first, then by ascending use count, then by least recent use. Endpoints
// that have failed more than the max node attempts are evicted
func (m *ManagedNetwork[K, H]) NumberOfMostHealthyNodes(count int) []H {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	type rankedNode struct {
		handle H
		stats  NodeStats
	}
	ranked := make([]rankedNode, 0, len(m.nodes))
	for _, handle := range m.nodes {
		ranked = append(ranked, rankedNode{handle: handle, stats: handle.Stats()})
	}
	slices.SortStableFunc(ranked, func(a, b rankedNode) int {
		if a.stats.Healthy != b.stats.Healthy {
			if a.stats.Healthy {
				return -1
			}
			return 1
		}
		if a.stats.UseCount != b.stats.UseCount {
			if a.stats.UseCount < b.stats.UseCount {
				return -1
			}
			return 1
		}
		return a.stats.LastUsed.Compare(b.stats.LastUsed)
	})
	ret := make([]H, 0, min(count, len(ranked)))
	for _, node := range ranked {
		if m.maxNodeAttempts > 0 && node.stats.Attempts > m.maxNodeAttempts {
			m.evict(node.handle)
			m.logger.Warn(
				"evicting node after too many failed attempts",
				"address", node.stats.Address.String(),
				"attempts", node.stats.Attempts,
			)
			continue
		}
		if len(ret) < count {
			ret = append(ret, node.handle)
		}
	}
	return ret
}

func (m *ManagedNetwork[K, H]) evict(handle H) {
	m.nodes = slices.DeleteFunc(m.nodes, func(h H) bool { return h == handle })
	for key, handles := range m.network {
		if !slices.Contains(handles, handle) {
			continue
		}
		handles = slices.DeleteFunc(handles, func(h H) bool { return h == handle })
		if len(handles) == 0 {
			delete(m.network, key)
		} else {
			m.network[key] = handles
		}
	}
	if err := handle.Close(); err != nil {
		m.logger.Debug("failed to close evicted node", "error", err)
	}
}

// NodeForKey returns the first healthy endpoint of a logical node, or the
// one that leaves backoff soonest
func (m *ManagedNetwork[K, H]) NodeForKey(key K) (H, error) {
	m.mutex.RLock()
	handles := m.network[key]
	m.mutex.RUnlock()
	var zero H
	if len(handles) == 0 {
		return zero, fmt.Errorf("%w: %v", ErrInvalidNodeAccountID, key)
	}
	for _, handle := range handles {
		if handle.IsHealthy() {
			return handle, nil
		}
	}
	return slices.MinFunc(handles, func(a, b H) int {
		return cmp.Compare(a.RemainingBackoff(), b.RemainingBackoff())
	}), nil
}

// SetTransportSecurity switches every endpoint to its TLS or plain port
func (m *ManagedNetwork[K, H]) SetTransportSecurity(transportSecurity bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.transportSecurity = transportSecurity
	for _, handle := range m.nodes {
		handle.SetTransportSecurity(transportSecurity)
	}
}

func (m *ManagedNetwork[K, H]) TransportSecurity() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.transportSecurity
}

func (m *ManagedNetwork[K, H]) SetMinBackoff(minBackoff time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.minBackoff = minBackoff
	for _, handle := range m.nodes {
		handle.SetMinBackoff(minBackoff)
	}
}

func (m *ManagedNetwork[K, H]) SetMaxBackoff(maxBackoff time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.maxBackoff = maxBackoff
	for _, handle := range m.nodes {
		handle.SetMaxBackoff(maxBackoff)
	}
}

func (m *ManagedNetwork[K, H]) MinBackoff() time.Duration {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.minBackoff
}

func (m *ManagedNetwork[K, H]) MaxBackoff() time.Duration {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.maxBackoff
}

// SetMaxNodeAttempts sets the number of transport failures after which an
// endpoint is evicted. Zero disables eviction
func (m *ManagedNetwork[K, H]) SetMaxNodeAttempts(maxNodeAttempts int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.maxNodeAttempts = maxNodeAttempts
}

func (m *ManagedNetwork[K, H]) MaxNodeAttempts() int64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.maxNodeAttempts
}

// Close closes every endpoint
func (m *ManagedNetwork[K, H]) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var err error
	for _, handle := range m.nodes {
		err = errors.Join(err, handle.Close())
	}
	return err
}
