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

// Package keys provides the signing keys used by operators to sign
// transactions and query payments.
//
// Two schemes are supported: Ed25519 and ECDSA over secp256k1. ECDSA
// signatures are made over the Keccak-256 digest of the message and are
// returned in the fixed 64-byte r||s form.
package keys
