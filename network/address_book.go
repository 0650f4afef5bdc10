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
	"io"
	"os"
	"sync"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"gopkg.in/yaml.v3"
)

// AddressBook describes the consensus nodes of a ledger
type AddressBook struct {
	Nodes []AddressBookEntry `yaml:"nodes"`
}

type AddressBookEntry struct {
	AccountID string   `yaml:"accountId"`
	PublicKey string   `yaml:"publicKey,omitempty"`
	CertHash  string   `yaml:"certHash,omitempty"`
	Endpoints []string `yaml:"endpoints"`

	accountID ledger.AccountID
	publicKey keys.PublicKey
}

func NewAddressBookFromFile(path string) (*AddressBook, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	return NewAddressBookFromReader(dataFile)
}

func NewAddressBookFromReader(r io.Reader) (*AddressBook, error) {
	b := &AddressBook{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddressBook, err)
	}
	for i := range b.Nodes {
		entry := &b.Nodes[i]
		entry.accountID, err = ledger.AccountIDFromString(entry.AccountID)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %w", ErrInvalidAddressBook, i, err)
		}
		if entry.PublicKey != "" {
			entry.publicKey, err = keys.PublicKeyFromString(entry.PublicKey)
			if err != nil {
				return nil, fmt.Errorf("%w: node %s: %w", ErrInvalidAddressBook, entry.AccountID, err)
			}
		}
		for _, endpoint := range entry.Endpoints {
			if _, err := ParseAddress(endpoint); err != nil {
				return nil, fmt.Errorf("%w: node %s: %w", ErrInvalidAddressBook, entry.AccountID, err)
			}
		}
	}
	return b, nil
}

// NodeAccountID returns the parsed account id of the entry
func (e AddressBookEntry) NodeAccountID() ledger.AccountID {
	return e.accountID.WithoutChecksum()
}

// NodePublicKey returns the parsed public key of the entry, or nil
func (e AddressBookEntry) NodePublicKey() keys.PublicKey {
	return e.publicKey
}

// Entry returns the entry for the node account id
func (b *AddressBook) Entry(accountID ledger.AccountID) (AddressBookEntry, bool) {
	accountID = accountID.WithoutChecksum()
	for _, entry := range b.Nodes {
		if entry.NodeAccountID() == accountID {
			return entry, true
		}
	}
	return AddressBookEntry{}, false
}

// Network returns the endpoint address to account id mapping of the address book
func (b *AddressBook) Network() map[string]ledger.AccountID {
	ret := make(map[string]ledger.AccountID)
	for _, entry := range b.Nodes {
		for _, endpoint := range entry.Endpoints {
			ret[endpoint] = entry.NodeAccountID()
		}
	}
	return ret
}

var (
	addressBooks      = map[ledger.LedgerID]*AddressBook{}
	addressBooksMutex sync.RWMutex
)

// RegisterAddressBook makes an address book available to networks bound to the ledger
func RegisterAddressBook(ledgerID ledger.LedgerID, book *AddressBook) {
	addressBooksMutex.Lock()
	defer addressBooksMutex.Unlock()
	if book == nil {
		delete(addressBooks, ledgerID)
		return
	}
	addressBooks[ledgerID] = book
}

// AddressBookForLedger returns the address book registered for the ledger
func AddressBookForLedger(ledgerID ledger.LedgerID) (*AddressBook, bool) {
	addressBooksMutex.RLock()
	defer addressBooksMutex.RUnlock()
	book, ok := addressBooks[ledgerID]
	return book, ok
}
