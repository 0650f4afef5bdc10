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

package wire

import "errors"

var ErrEmptyRequest = errors.New("request carries neither a transaction nor a query")

// ProtoRequest is the unit handed to a node: either a transaction or a query
type ProtoRequest struct {
	Transaction *Transaction
	Query       *Query
}

// Kind returns the method kind able to carry the request
func (r ProtoRequest) Kind() (MethodKind, error) {
	switch {
	case r.Transaction != nil:
		return MethodKindTransaction, nil
	case r.Query != nil:
		return MethodKindQuery, nil
	default:
		return 0, ErrEmptyRequest
	}
}

// ProtoResponse is the answer to a ProtoRequest of the same kind
type ProtoResponse struct {
	Transaction *TransactionResponse
	Query       *Response
}
