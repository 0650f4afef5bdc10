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

package hedera

import (
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
)

// FileAppendTransaction appends contents to a file, one chunk per
// transaction
type FileAppendTransaction struct {
	Transaction
	fileID   *ledger.FileID
	contents []byte
}

func NewFileAppendTransaction() *FileAppendTransaction {
	tx := &FileAppendTransaction{}
	tx.init(tx)
	return tx
}

func (t *FileAppendTransaction) SetFileID(fileID ledger.FileID) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.fileID = &fileID
	return nil
}

func (t *FileAppendTransaction) FileID() ledger.FileID {
	if t.fileID == nil {
		return ledger.FileID{}
	}
	return *t.fileID
}

func (t *FileAppendTransaction) SetContents(contents []byte) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.contents = append([]byte(nil), contents...)
	return nil
}

func (t *FileAppendTransaction) Contents() []byte {
	return t.contents
}

func (t *FileAppendTransaction) SetChunkSize(size int) error {
	return t.setChunkSize(size)
}

func (t *FileAppendTransaction) SetMaxChunks(maxChunks int) error {
	return t.setMaxChunks(maxChunks)
}

func (t *FileAppendTransaction) methodName() (wire.Service, string) {
	return wire.ServiceFile, "appendContent"
}

func (t *FileAppendTransaction) chunkPayload() []byte {
	return t.contents
}

func (t *FileAppendTransaction) buildData(body *wire.TransactionBody, chunk chunkInfo) {
	body.FileAppend = &wire.FileAppendBody{
		FileID:   t.FileID(),
		Contents: chunk.contents,
	}
}

func (t *FileAppendTransaction) validateChecksums(ledgerID ledger.LedgerID) error {
	if t.fileID == nil {
		return nil
	}
	return t.fileID.ValidateChecksum(ledgerID)
}
