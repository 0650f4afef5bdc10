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

// Package network tracks the nodes of a ledger network and their health.
//
// Every node carries a backoff state machine. A node that fails at the
// transport level is put into backoff for a window that doubles on each
// failure, and the window shrinks again as requests to it succeed. Node
// selection prefers healthy nodes, then the least used, then the least
// recently used.
package network
