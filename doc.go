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

// Package hedera implements a client for submitting transactions and
// queries to a Hedera-style ledger network.
//
// A Client holds the operator identity, the consensus and mirror networks and
// the default request policy. Transactions are built, frozen for a set of
// nodes, signed and then executed. Queries are executed directly, paying for
// themselves with an operator-signed transfer when the node charges for them.
//
// Every request goes through the same executor, which picks a node, sends
// the request and retries on transport failures and on busy nodes. Nodes that
// fail at the transport level are put into backoff and avoided until they
// recover.
//
// This package is the main entry point into this library. The other packages can
// be used outside of this one, but it's not a primary design goal.
package hedera
