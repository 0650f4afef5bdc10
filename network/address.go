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
	"fmt"
	"net"
	"strconv"
)

// Canonical ports
const (
	PortNodePlain   uint16 = 50211
	PortNodeTLS     uint16 = 50212
	PortMirrorPlain uint16 = 5600
	PortMirrorTLS   uint16 = 443
)

// Address is the host and port of a node endpoint
type Address struct {
	Host string
	Port uint16
}

// ParseAddress parses a host:port string
func ParseAddress(s string) (Address, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %w", ErrInvalidNodeAddress, s, err)
	}
	if host == "" {
		return Address{}, fmt.Errorf("%w: %q: missing host", ErrInvalidNodeAddress, s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: bad port", ErrInvalidNodeAddress, s)
	}
	return Address{Host: host, Port: uint16(port)}, nil
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.FormatUint(uint64(a.Port), 10))
}

// IsTransportSecurity returns true if the port is one of the TLS ports
func (a Address) IsTransportSecurity() bool {
	return a.Port == PortNodeTLS || a.Port == PortMirrorTLS
}

// ToSecure returns the address with its TLS port. Unknown ports map to the
// plain node port
func (a Address) ToSecure() Address {
	switch a.Port {
	case PortNodePlain, PortNodeTLS:
		a.Port = PortNodeTLS
	case PortMirrorPlain, PortMirrorTLS:
		a.Port = PortMirrorTLS
	default:
		a.Port = PortNodePlain
	}
	return a
}

// ToInsecure returns the address with its plain port. Unknown ports map to
// the plain node port
func (a Address) ToInsecure() Address {
	switch a.Port {
	case PortMirrorPlain, PortMirrorTLS:
		a.Port = PortMirrorPlain
	default:
		a.Port = PortNodePlain
	}
	return a
}

func (a Address) withTransportSecurity(transportSecurity bool) Address {
	if transportSecurity {
		return a.ToSecure()
	}
	return a.ToInsecure()
}
