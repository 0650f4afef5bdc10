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

package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidKey       = errors.New("invalid key")
	ErrUnsupportedKey   = errors.New("unsupported key scheme")
	ErrInvalidSignature = errors.New("invalid signature")
)

type Scheme uint8

const (
	SchemeEd25519        Scheme = 1
	SchemeECDSASecp256k1 Scheme = 2
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeECDSASecp256k1:
		return "ecdsa"
	default:
		return fmt.Sprintf("Scheme(%d)", s)
	}
}

// Signer signs a message and returns the raw signature bytes
type Signer func(message []byte) []byte

type PublicKey interface {
	Scheme() Scheme
	Bytes() []byte
	Verify(message []byte, signature []byte) bool
	String() string
}

type PrivateKey interface {
	Scheme() Scheme
	Bytes() []byte
	PublicKey() PublicKey
	Sign(message []byte) []byte
	String() string
}

// GeneratePrivateKey returns a new random private key for the given scheme
func GeneratePrivateKey(scheme Scheme) (PrivateKey, error) {
	switch scheme {
	case SchemeEd25519:
		return GenerateEd25519PrivateKey()
	case SchemeECDSASecp256k1:
		return GenerateECDSAPrivateKey()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, scheme)
	}
}

// PrivateKeyFromBytes decodes the raw bytes of a private key
func PrivateKeyFromBytes(scheme Scheme, data []byte) (PrivateKey, error) {
	switch scheme {
	case SchemeEd25519:
		return Ed25519PrivateKeyFromBytes(data)
	case SchemeECDSASecp256k1:
		return ECDSAPrivateKeyFromBytes(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, scheme)
	}
}

// PublicKeyFromBytes decodes the raw bytes of a public key
func PublicKeyFromBytes(scheme Scheme, data []byte) (PublicKey, error) {
	switch scheme {
	case SchemeEd25519:
		return Ed25519PublicKeyFromBytes(data)
	case SchemeECDSASecp256k1:
		return ECDSAPublicKeyFromBytes(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, scheme)
	}
}

// PrivateKeyFromString parses a key in the form produced by String, which
// is the scheme name and the hex-encoded key bytes separated by a colon.
// A bare hex string is treated as an Ed25519 key
func PrivateKeyFromString(s string) (PrivateKey, error) {
	scheme, data, err := parseKeyString(s)
	if err != nil {
		return nil, err
	}
	return PrivateKeyFromBytes(scheme, data)
}

// PublicKeyFromString is the public key counterpart of PrivateKeyFromString
func PublicKeyFromString(s string) (PublicKey, error) {
	scheme, data, err := parseKeyString(s)
	if err != nil {
		return nil, err
	}
	return PublicKeyFromBytes(scheme, data)
}

func parseKeyString(s string) (Scheme, []byte, error) {
	scheme := SchemeEd25519
	hexPart := s
	if prefix, rest, ok := strings.Cut(s, ":"); ok {
		switch prefix {
		case SchemeEd25519.String():
			scheme = SchemeEd25519
		case SchemeECDSASecp256k1.String():
			scheme = SchemeECDSASecp256k1
		default:
			return 0, nil, fmt.Errorf("%w: %q", ErrUnsupportedKey, prefix)
		}
		hexPart = rest
	}
	data, err := hex.DecodeString(strings.TrimPrefix(hexPart, "0x"))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return scheme, data, nil
}

func formatKey(scheme Scheme, data []byte) string {
	return scheme.String() + ":" + hex.EncodeToString(data)
}
