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

package network_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/network"
	"github.com/stretchr/testify/assert"
)

func TestManagedNodeBackoff(t *testing.T) {
	node := network.NewManagedNode(
		network.Address{Host: "node", Port: 50211},
		time.Second,
		10*time.Second,
	)
	assert.True(t, node.IsHealthy())
	assert.Equal(t, time.Duration(0), node.RemainingBackoff())
	prev := node.CurrentBackoff()
	expected := []time.Duration{2, 4, 8, 10, 10, 10}
	for i, exp := range expected {
		node.IncreaseBackoff()
		cur := node.CurrentBackoff()
		assert.GreaterOrEqual(t, cur, prev)
		assert.Equal(t, exp*time.Second, cur, "increase %d", i+1)
		prev = cur
	}
	assert.Equal(t, int64(len(expected)), node.Attempts())
	assert.False(t, node.IsHealthy())
	assert.Greater(t, node.RemainingBackoff(), 9*time.Second)
	expected = []time.Duration{5000, 2500, 1250, 1000, 1000}
	for i, exp := range expected {
		node.DecreaseBackoff()
		assert.Equal(t, exp*time.Millisecond, node.CurrentBackoff(), "decrease %d", i+1)
	}
	// Decreasing never resets the attempt count
	assert.Equal(t, int64(6), node.Attempts())
}

func TestManagedNodeInUse(t *testing.T) {
	node := network.NewManagedNode(network.Address{Host: "node", Port: 50211}, time.Second, time.Minute)
	before := time.Now()
	node.InUse()
	node.InUse()
	stats := node.Stats()
	assert.Equal(t, int64(2), stats.UseCount)
	assert.False(t, stats.LastUsed.Before(before))
	assert.True(t, stats.Healthy)
	assert.Equal(t, int64(0), stats.Attempts)
}

func TestManagedNodeSetBackoffBounds(t *testing.T) {
	node := network.NewManagedNode(network.Address{Host: "node", Port: 50211}, time.Second, time.Minute)
	node.SetMinBackoff(5 * time.Second)
	assert.Equal(t, 5*time.Second, node.CurrentBackoff())
	node.SetMaxBackoff(2 * time.Second)
	assert.Equal(t, 2*time.Second, node.CurrentBackoff())
}

func TestManagedNodeLowerMinBackoff(t *testing.T) {
	node := network.NewManagedNode(network.Address{Host: "node", Port: 50211}, 8*time.Second, time.Hour)
	node.SetMinBackoff(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, node.CurrentBackoff())
	node.IncreaseBackoff()
	assert.LessOrEqual(t, node.RemainingBackoff(), 100*time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, node.CurrentBackoff())
	// A node that already failed keeps its grown window
	node.SetMinBackoff(50 * time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, node.CurrentBackoff())
}
