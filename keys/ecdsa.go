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
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

const ecdsaSignatureSize = 64

type ECDSAPrivateKey struct {
	key *secp256k1.PrivateKey
}

type ECDSAPublicKey struct {
	key *secp256k1.PublicKey
}

func GenerateECDSAPrivateKey() (*ECDSAPrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &ECDSAPrivateKey{key: priv}, nil
}

func ECDSAPrivateKeyFromBytes(data []byte) (*ECDSAPrivateKey, error) {
	if len(data) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: ecdsa private key length %d", ErrInvalidKey, len(data))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(data); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: ecdsa private key out of range", ErrInvalidKey)
	}
	return &ECDSAPrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

func (k *ECDSAPrivateKey) Scheme() Scheme {
	return SchemeECDSASecp256k1
}

func (k *ECDSAPrivateKey) Bytes() []byte {
	return k.key.Serialize()
}

func (k *ECDSAPrivateKey) PublicKey() PublicKey {
	return &ECDSAPublicKey{key: k.key.PubKey()}
}

// Sign returns the r||s signature over the Keccak-256 digest of the message
func (k *ECDSAPrivateKey) Sign(message []byte) []byte {
	sig := ecdsa.SignCompact(k.key, keccak256(message), true)
	// Strip the leading recovery code
	return sig[1:]
}

func (k *ECDSAPrivateKey) String() string {
	return formatKey(SchemeECDSASecp256k1, k.Bytes())
}

// ECDSAPublicKeyFromBytes accepts compressed (33 byte) and uncompressed
// (65 byte) public keys
func ECDSAPublicKeyFromBytes(data []byte) (*ECDSAPublicKey, error) {
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return &ECDSAPublicKey{key: pub}, nil
}

func (k *ECDSAPublicKey) Scheme() Scheme {
	return SchemeECDSASecp256k1
}

// Bytes returns the compressed form of the key
func (k *ECDSAPublicKey) Bytes() []byte {
	return k.key.SerializeCompressed()
}

func (k *ECDSAPublicKey) Verify(message []byte, signature []byte) bool {
	if len(signature) != ecdsaSignatureSize {
		return false
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(signature[32:]); overflow {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(keccak256(message), k.key)
}

func (k *ECDSAPublicKey) String() string {
	return formatKey(SchemeECDSASecp256k1, k.Bytes())
}
