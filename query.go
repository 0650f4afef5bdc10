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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
)

var ErrEmptyResponse = errors.New("node returned an empty query response")

// queryData is implemented by each query type
type queryData interface {
	methodName() (wire.Service, string)
	buildQuery(header wire.QueryHeader) wire.Query
	isPaymentRequired() bool
	shouldRetry(status wire.Status, resp wire.ProtoResponse) bool
	validateChecksums(ledgerID ledger.LedgerID) error
}

// Query is the state shared by every query type. T is the concrete query
// type returned by the chainable setters
type Query[T any] struct {
	self                 T
	data                 queryData
	nodeAccountIDs       []ledger.AccountID
	queryPayment         *Hbar
	maxQueryPayment      *Hbar
	paymentTransactionID *ledger.TransactionID
	policy               requestPolicy
}

func (q *Query[T]) init(self T, data queryData) {
	q.self = self
	q.data = data
}

// SetNodeAccountIDs pins the nodes the query is sent to
func (q *Query[T]) SetNodeAccountIDs(nodeAccountIDs []ledger.AccountID) T {
	q.nodeAccountIDs = append([]ledger.AccountID(nil), nodeAccountIDs...)
	return q.self
}

func (q *Query[T]) NodeAccountIDs() []ledger.AccountID {
	return append([]ledger.AccountID(nil), q.nodeAccountIDs...)
}

// SetQueryPayment sets an explicit payment, which skips the cost check
func (q *Query[T]) SetQueryPayment(payment Hbar) T {
	q.queryPayment = &payment
	return q.self
}

// SetMaxQueryPayment overrides the client's max query payment for this query
func (q *Query[T]) SetMaxQueryPayment(maxPayment Hbar) T {
	q.maxQueryPayment = &maxPayment
	return q.self
}

func (q *Query[T]) SetPaymentTransactionID(transactionID ledger.TransactionID) T {
	q.paymentTransactionID = &transactionID
	return q.self
}

func (q *Query[T]) SetMaxAttempts(maxAttempts int) T {
	q.policy.maxAttempts = maxAttempts
	return q.self
}

func (q *Query[T]) SetMinBackoff(minBackoff time.Duration) T {
	q.policy.minBackoff = &minBackoff
	return q.self
}

func (q *Query[T]) SetMaxBackoff(maxBackoff time.Duration) T {
	q.policy.maxBackoff = &maxBackoff
	return q.self
}

func (q *Query[T]) name() string {
	_, name := q.data.methodName()
	return name
}

// prepare resolves the nodes of the query and validates checksums
func (q *Query[T]) prepare(client *Client) error {
	if client == nil {
		return ErrClientNotSet
	}
	if len(q.nodeAccountIDs) == 0 {
		nodeAccountIDs, err := client.network.NodeAccountIDsForTransaction()
		if err != nil {
			return err
		}
		q.nodeAccountIDs = nodeAccountIDs
	}
	if client.AutoValidateChecksums() {
		ledgerID := client.LedgerID()
		for _, nodeAccountID := range q.nodeAccountIDs {
			if err := nodeAccountID.ValidateChecksum(ledgerID); err != nil {
				return err
			}
		}
		if err := q.data.validateChecksums(ledgerID); err != nil {
			return err
		}
	}
	return nil
}

// GetCost asks a node for the cost of answering the query
func (q *Query[T]) GetCost(ctx context.Context, client *Client) (Hbar, error) {
	if err := q.prepare(client); err != nil {
		return ZeroHbar, err
	}
	var payments []wire.Transaction
	if q.data.isPaymentRequired() {
		var err error
		payments, err = q.buildPayments(client, ZeroHbar)
		if err != nil {
			return ZeroHbar, err
		}
	}
	exec := &queryExecution[Hbar, T]{
		query:        q,
		responseType: wire.ResponseTypeCostAnswer,
		payments:     payments,
		retry: func(status wire.Status, _ wire.ProtoResponse) bool {
			return defaultShouldRetry(status)
		},
		mapper: func(resp wire.Response) (Hbar, error) {
			cost := resp.Header().Cost
			return HbarFromTinybar(int64(min(cost, uint64(1<<63-1)))), nil // #nosec G115
		},
	}
	return execute[Hbar](ctx, client, exec, q.policy.resolve(client, q.name()+"Cost", nil))
}

// buildPayments returns one operator-signed payment of amount per node, all
// sharing one transaction id
func (q *Query[T]) buildPayments(client *Client, amount Hbar) ([]wire.Transaction, error) {
	op, err := client.operatorOrErr()
	if err != nil {
		return nil, err
	}
	paymentID := ledger.NewTransactionID(op.accountID)
	if q.paymentTransactionID != nil {
		paymentID = *q.paymentTransactionID
	}
	ret := make([]wire.Transaction, 0, len(q.nodeAccountIDs))
	for _, nodeAccountID := range q.nodeAccountIDs {
		tx := NewTransferTransaction()
		if err := tx.AddHbarTransfer(op.accountID, amount.Negated()); err != nil {
			return nil, err
		}
		if err := tx.AddHbarTransfer(nodeAccountID, amount); err != nil {
			return nil, err
		}
		if err := tx.SetNodeAccountIDs([]ledger.AccountID{nodeAccountID}); err != nil {
			return nil, err
		}
		if err := tx.SetTransactionID(paymentID); err != nil {
			return nil, err
		}
		if err := tx.SetMaxTransactionFee(NewHbar(1)); err != nil {
			return nil, err
		}
		if err := tx.FreezeWith(client); err != nil {
			return nil, err
		}
		if err := tx.SignWith(op.publicKey, op.signer); err != nil {
			return nil, err
		}
		payment, err := tx.payload(0, 0)
		if err != nil {
			return nil, err
		}
		ret = append(ret, payment)
	}
	return ret, nil
}

// executeQuery runs the query, paying for it first when the query type
// requires payment
func executeQuery[R any, T any](
	ctx context.Context,
	client *Client,
	q *Query[T],
	mapper func(wire.Response) (R, error),
) (R, error) {
	var ret R
	if err := q.prepare(client); err != nil {
		return ret, err
	}
	var payments []wire.Transaction
	if q.data.isPaymentRequired() {
		var cost Hbar
		if q.queryPayment != nil {
			cost = *q.queryPayment
		} else {
			maxPayment := client.DefaultMaxQueryPayment()
			if q.maxQueryPayment != nil {
				maxPayment = *q.maxQueryPayment
			}
			quoted, err := q.GetCost(ctx, client)
			if err != nil {
				return ret, err
			}
			if quoted.AsTinybar() > maxPayment.AsTinybar() {
				return ret, MaxQueryPaymentExceededError{
					Query:           q.name(),
					Cost:            quoted,
					MaxQueryPayment: maxPayment,
				}
			}
			cost = quoted
		}
		var err error
		payments, err = q.buildPayments(client, cost)
		if err != nil {
			return ret, err
		}
	}
	exec := &queryExecution[R, T]{
		query:        q,
		responseType: wire.ResponseTypeAnswerOnly,
		payments:     payments,
		retry:        q.data.shouldRetry,
		mapper:       mapper,
	}
	return execute[R](ctx, client, exec, q.policy.resolve(client, q.name(), nil))
}

// queryExecution runs a query through the executor. The payment moves to the
// next node along with the request
type queryExecution[R any, T any] struct {
	query        *Query[T]
	responseType wire.ResponseType
	payments     []wire.Transaction
	nodeIndex    int
	retry        func(wire.Status, wire.ProtoResponse) bool
	mapper       func(wire.Response) (R, error)
}

func (e *queryExecution[R, T]) nodeAccountID() ledger.AccountID {
	return e.query.nodeAccountIDs[e.nodeIndex]
}

func (e *queryExecution[R, T]) method(ch *channel.Channel) (channel.Method, error) {
	service, name := e.query.data.methodName()
	return ch.Service(service).Method(name)
}

func (e *queryExecution[R, T]) makeRequest() (wire.ProtoRequest, error) {
	header := wire.QueryHeader{ResponseType: e.responseType}
	if len(e.payments) > 0 {
		payment := e.payments[e.nodeIndex]
		header.Payment = &payment
	}
	query := e.query.data.buildQuery(header)
	return wire.ProtoRequest{Query: &query}, nil
}

func (e *queryExecution[R, T]) advanceRequest() {
	e.nodeIndex = (e.nodeIndex + 1) % len(e.query.nodeAccountIDs)
}

func (e *queryExecution[R, T]) mapStatus(resp wire.ProtoResponse) wire.Status {
	if resp.Query == nil {
		return wire.StatusUnknown
	}
	return resp.Query.Header().NodeTransactionPrecheckCode
}

func (e *queryExecution[R, T]) shouldRetry(status wire.Status, resp wire.ProtoResponse) bool {
	return e.retry(status, resp)
}

func (e *queryExecution[R, T]) mapResponse(
	resp wire.ProtoResponse,
	_ ledger.AccountID,
	_ wire.ProtoRequest,
) (R, error) {
	if resp.Query == nil {
		var ret R
		return ret, ErrEmptyResponse
	}
	ret, err := e.mapper(*resp.Query)
	if err != nil {
		return ret, fmt.Errorf("%s: %w", e.query.name(), err)
	}
	return ret, nil
}
