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
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"
)

type Ed25519PrivateKey struct {
	key ed25519.PrivateKey
}

type Ed25519PublicKey struct {
	key ed25519.PublicKey
}

func GenerateEd25519PrivateKey() (*Ed25519PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Ed25519PrivateKey{key: priv}, nil
}

// Ed25519PrivateKeyFromBytes accepts either a 32-byte seed or a 64-byte
// seed+public key
func Ed25519PrivateKeyFromBytes(data []byte) (*Ed25519PrivateKey, error) {
	switch len(data) {
	case ed25519.SeedSize:
		return &Ed25519PrivateKey{key: ed25519.NewKeyFromSeed(data)}, nil
	case ed25519.PrivateKeySize:
		ret := &Ed25519PrivateKey{key: ed25519.NewKeyFromSeed(data[:ed25519.SeedSize])}
		if string(ret.key[ed25519.SeedSize:]) != string(data[ed25519.SeedSize:]) {
			return nil, fmt.Errorf("%w: ed25519 public key does not match seed", ErrInvalidKey)
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("%w: ed25519 private key length %d", ErrInvalidKey, len(data))
	}
}

func (k *Ed25519PrivateKey) Scheme() Scheme {
	return SchemeEd25519
}

// Bytes returns the 32-byte seed
func (k *Ed25519PrivateKey) Bytes() []byte {
	return k.key.Seed()
}

func (k *Ed25519PrivateKey) PublicKey() PublicKey {
	pub, _ := k.key.Public().(ed25519.PublicKey)
	return &Ed25519PublicKey{key: pub}
}

func (k *Ed25519PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(k.key, message)
}

func (k *Ed25519PrivateKey) String() string {
	return formatKey(SchemeEd25519, k.Bytes())
}

// Ed25519PublicKeyFromBytes decodes a 32-byte public key. The encoding must
// be a valid point on the curve
func Ed25519PublicKeyFromBytes(data []byte) (*Ed25519PublicKey, error) {
	if len(data) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key length %d", ErrInvalidKey, len(data))
	}
	if _, err := new(edwards25519.Point).SetBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return &Ed25519PublicKey{key: ed25519.PublicKey(append([]byte(nil), data...))}, nil
}

func (k *Ed25519PublicKey) Scheme() Scheme {
	return SchemeEd25519
}

func (k *Ed25519PublicKey) Bytes() []byte {
	return append([]byte(nil), k.key...)
}

func (k *Ed25519PublicKey) Verify(message []byte, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(k.key, message, signature)
}

func (k *Ed25519PublicKey) String() string {
	return formatKey(SchemeEd25519, k.key)
}
