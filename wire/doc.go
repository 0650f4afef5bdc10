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

// Package wire defines the messages exchanged with consensus nodes, the
// status codes they answer with, the table of services and methods they
// expose, and the gRPC codec that carries the messages.
//
// Messages are encoded as deterministic CBOR arrays. Optional fields are
// pointers so that absent and zero values can be told apart on the wire.
package wire
