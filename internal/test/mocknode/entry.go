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

package mocknode

import (
	"github.com/blinklabs-io/gohedera/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ConversationEntry describes one expected request and the answer to it
type ConversationEntry struct {
	// Method is the full gRPC method name expected. An empty value matches any method
	Method string
	// InputFunc, if set, is called with the received request and fails the
	// conversation if it returns an error
	InputFunc func(wire.ProtoRequest) error
	Output    wire.ProtoResponse
	// Err is returned instead of Output when set. Use a gRPC status error to
	// simulate transport failures
	Err error
}

// TransactionResponseEntry answers a transaction with the given precheck status
func TransactionResponseEntry(precheck wire.Status) ConversationEntry {
	return ConversationEntry{
		Output: wire.ProtoResponse{
			Transaction: &wire.TransactionResponse{NodeTransactionPrecheckCode: precheck},
		},
	}
}

// QueryResponseEntry answers a query with the given response
func QueryResponseEntry(resp wire.Response) ConversationEntry {
	return ConversationEntry{
		Output: wire.ProtoResponse{Query: &resp},
	}
}

// ErrorEntry answers any request with a gRPC status error
func ErrorEntry(code codes.Code) ConversationEntry {
	return ConversationEntry{
		Err: status.Error(code, code.String()),
	}
}

// ConversationEntryTransactionOk answers a transaction with OK
var ConversationEntryTransactionOk = TransactionResponseEntry(wire.StatusOk)

// ConversationEntryTransactionBusy answers a transaction with BUSY
var ConversationEntryTransactionBusy = TransactionResponseEntry(wire.StatusBusy)

// ConversationEntryUnavailable simulates a node that cannot be reached
var ConversationEntryUnavailable = ErrorEntry(codes.Unavailable)
