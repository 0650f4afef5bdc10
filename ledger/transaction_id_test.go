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

package ledger_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionIDStringRoundTrip(t *testing.T) {
	testDefs := []string{
		"0.0.1001@1700000000.000000123",
		"0.0.1001@1700000000.500000000?scheduled",
		"0.0.1001@1700000000.000000001/7",
		"0.0.1001@1700000000.000000001?scheduled/3",
		// Explicit zero nonce is distinct from no nonce
		"0.0.1001@1700000000.000000001/0",
	}
	for _, testDef := range testDefs {
		id, err := ledger.TransactionIDFromString(testDef)
		require.NoError(t, err, "input %q", testDef)
		formatted := id.String()
		assert.Equal(t, testDef, formatted)
		reparsed, err := ledger.TransactionIDFromString(formatted)
		require.NoError(t, err)
		assert.Equal(t, formatted, reparsed.String())
		assert.True(t, id.Equal(reparsed))
	}
}

func TestTransactionIDFromStringInvalid(t *testing.T) {
	testDefs := []string{
		"0.0.1001",
		"0.0@1700000000.1",
		"0.0.1001@1700000000",
		"0.0.1001@abc.1",
		"0.0.1001@1700000000.1/x",
		"0.0.1001@1700000000.1000000000",
	}
	for _, testDef := range testDefs {
		_, err := ledger.TransactionIDFromString(testDef)
		require.ErrorIs(t, err, ledger.ErrInvalidTransactionID, "input %q", testDef)
	}
}

func TestNewTransactionIDBackdated(t *testing.T) {
	payer := ledger.NewAccountID(0, 0, 2)
	before := time.Now()
	id := ledger.NewTransactionID(payer)
	require.False(t, id.IsZero())
	assert.True(t, id.ValidStart.Before(before))
	assert.True(t, id.ValidStart.After(before.Add(-15*time.Second)))
	assert.Equal(t, payer, *id.AccountID)
	assert.Nil(t, id.Nonce)
}

func TestTransactionIDAdvance(t *testing.T) {
	validStart := time.Unix(1700000000, 999999999)
	id := ledger.NewTransactionIDWithValidStart(ledger.NewAccountID(0, 0, 2), validStart)
	next := id.Advance(time.Nanosecond)
	assert.Equal(t, "0.0.2@1700000001.000000000", next.String())
	// The original is left untouched
	assert.Equal(t, "0.0.2@1700000000.999999999", id.String())
	assert.False(t, id.Equal(next))
}

func TestTransactionIDCbor(t *testing.T) {
	testDefs := []string{
		"0.0.1001@1700000000.000000123",
		"0.0.1001@1700000000.000000123?scheduled/0",
	}
	for _, testDef := range testDefs {
		id, err := ledger.TransactionIDFromString(testDef)
		require.NoError(t, err)
		data, err := cbor.Encode(id)
		require.NoError(t, err)
		var decoded ledger.TransactionID
		_, err = cbor.Decode(data, &decoded)
		require.NoError(t, err)
		assert.Equal(t, testDef, decoded.String())
	}
}
