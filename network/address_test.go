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

	"github.com/blinklabs-io/gohedera/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseAddress(t *testing.T) {
	addr, err := network.ParseAddress("35.237.200.180:50211")
	require.NoError(t, err)
	assert.Equal(t, network.Address{Host: "35.237.200.180", Port: 50211}, addr)
	assert.Equal(t, "35.237.200.180:50211", addr.String())
	addr, err = network.ParseAddress("[::1]:443")
	require.NoError(t, err)
	assert.Equal(t, "::1", addr.Host)
	assert.Equal(t, "[::1]:443", addr.String())
	for _, bad := range []string{"", "localhost", "localhost:", ":50211", "localhost:port", "localhost:70000"} {
		_, err := network.ParseAddress(bad)
		require.ErrorIs(t, err, network.ErrInvalidNodeAddress, "input %q", bad)
	}
}

func TestAddressPortMapping(t *testing.T) {
	testDefs := []struct {
		port     uint16
		secure   uint16
		insecure uint16
	}{
		{port: 50211, secure: 50212, insecure: 50211},
		{port: 50212, secure: 50212, insecure: 50211},
		{port: 5600, secure: 443, insecure: 5600},
		{port: 443, secure: 443, insecure: 5600},
		{port: 8080, secure: 50211, insecure: 50211},
	}
	for _, testDef := range testDefs {
		addr := network.Address{Host: "node", Port: testDef.port}
		assert.Equal(t, testDef.secure, addr.ToSecure().Port, "port %d", testDef.port)
		assert.Equal(t, testDef.insecure, addr.ToInsecure().Port, "port %d", testDef.port)
	}
	// Recognized plain ports survive a secure round trip
	for _, port := range []uint16{50211, 5600} {
		addr := network.Address{Host: "node", Port: port}
		assert.Equal(t, addr, addr.ToSecure().ToInsecure())
		assert.True(t, addr.ToSecure().IsTransportSecurity())
		assert.False(t, addr.IsTransportSecurity())
	}
}
