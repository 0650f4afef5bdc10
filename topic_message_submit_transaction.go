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

// TopicMessageSubmitTransaction submits a message to a consensus topic.
// Messages larger than the chunk size are sent as several transactions
// linked by their chunk info
type TopicMessageSubmitTransaction struct {
	Transaction
	topicID *ledger.TopicID
	message []byte
}

func NewTopicMessageSubmitTransaction() *TopicMessageSubmitTransaction {
	tx := &TopicMessageSubmitTransaction{}
	tx.init(tx)
	return tx
}

func (t *TopicMessageSubmitTransaction) SetTopicID(topicID ledger.TopicID) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.topicID = &topicID
	return nil
}

func (t *TopicMessageSubmitTransaction) TopicID() ledger.TopicID {
	if t.topicID == nil {
		return ledger.TopicID{}
	}
	return *t.topicID
}

func (t *TopicMessageSubmitTransaction) SetMessage(message []byte) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.message = append([]byte(nil), message...)
	return nil
}

func (t *TopicMessageSubmitTransaction) Message() []byte {
	return t.message
}

func (t *TopicMessageSubmitTransaction) SetChunkSize(size int) error {
	return t.setChunkSize(size)
}

func (t *TopicMessageSubmitTransaction) SetMaxChunks(maxChunks int) error {
	return t.setMaxChunks(maxChunks)
}

func (t *TopicMessageSubmitTransaction) methodName() (wire.Service, string) {
	return wire.ServiceConsensus, "submitMessage"
}

func (t *TopicMessageSubmitTransaction) chunkPayload() []byte {
	return t.message
}

func (t *TopicMessageSubmitTransaction) buildData(body *wire.TransactionBody, chunk chunkInfo) {
	body.ConsensusSubmitMessage = &wire.ConsensusSubmitMessageBody{
		TopicID: t.TopicID(),
		Message: chunk.contents,
		ChunkInfo: &wire.ChunkInfo{
			InitialTransactionID: chunk.initialTransactionID,
			Total:                int32(chunk.total),      // #nosec G115
			Number:               int32(chunk.number + 1), // #nosec G115
		},
	}
}

func (t *TopicMessageSubmitTransaction) validateChecksums(ledgerID ledger.LedgerID) error {
	if t.topicID == nil {
		return nil
	}
	return t.topicID.ValidateChecksum(ledgerID)
}
