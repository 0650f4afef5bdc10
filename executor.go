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
	"time"

	"github.com/blinklabs-io/gohedera/channel"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/wire"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// executable is the set of strategies the executor runs a request with. One
// implementation exists per request kind
type executable[R any] interface {
	// nodeAccountID returns the node to send the next attempt to
	nodeAccountID() ledger.AccountID
	// method binds the RPC on the node's channel
	method(ch *channel.Channel) (channel.Method, error)
	// makeRequest builds the request for the next attempt
	makeRequest() (wire.ProtoRequest, error)
	// advanceRequest moves on to the next node. It is called before the
	// request is sent
	advanceRequest()
	mapStatus(resp wire.ProtoResponse) wire.Status
	shouldRetry(status wire.Status, resp wire.ProtoResponse) bool
	mapResponse(resp wire.ProtoResponse, nodeID ledger.AccountID, req wire.ProtoRequest) (R, error)
}

// executionPolicy holds the retry settings of one request
type executionPolicy struct {
	name          string
	maxAttempts   int
	minBackoff    time.Duration
	maxBackoff    time.Duration
	transactionID *ledger.TransactionID
}

func retryDelay(attempt int, minBackoff, maxBackoff time.Duration) time.Duration {
	delay := minBackoff * time.Duration(attempt*attempt)
	if delay <= 0 || delay > maxBackoff {
		return maxBackoff
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRetryableTransportCode(code codes.Code) bool {
	return code == codes.Unavailable || code == codes.ResourceExhausted
}

func execute[R any](
	ctx context.Context,
	client *Client,
	e executable[R],
	policy executionPolicy,
) (ret R, err error) {
	ctx, span := client.tracer.Start(
		ctx,
		"hedera.execute",
		trace.WithAttributes(
			attribute.String("hedera.request", policy.name),
			attribute.Int("hedera.max_attempts", policy.maxAttempts),
		),
	)
	defer func() {
		if err != nil {
			client.metrics.recordFailure(policy.name)
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
		span.End()
	}()
	logger := client.logger.With("request", policy.name)
	if policy.transactionID != nil {
		logger = logger.With("transaction_id", policy.transactionID.String())
	}
	var lastErr error
	for attempt := 1; attempt <= policy.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return ret, err
		}
		nodeID := e.nodeAccountID()
		node, err := client.network.NodeForExecute(nodeID)
		if err != nil {
			return ret, err
		}
		node.InUse()
		address := node.Address().String()
		if !node.IsHealthy() {
			wait := node.RemainingBackoff()
			logger.Debug(
				"node is in backoff, waiting",
				"node", nodeID.String(),
				"address", address,
				"wait", wait,
			)
			if err := sleepContext(ctx, wait); err != nil {
				return ret, err
			}
		}
		method, err := e.method(node.Channel())
		if err != nil {
			logger.Debug("failed to bind method", "node", nodeID.String(), "error", err)
			lastErr = err
			continue
		}
		req, err := e.makeRequest()
		if err != nil {
			return ret, err
		}
		e.advanceRequest()
		client.metrics.recordAttempt(policy.name)
		span.AddEvent(
			"attempt",
			trace.WithAttributes(
				attribute.Int("hedera.attempt", attempt),
				attribute.String("hedera.node", nodeID.String()),
			),
		)
		logger.Debug(
			"sending request",
			"attempt", attempt,
			"node", nodeID.String(),
			"address", address,
			"method", method.Name(),
		)
		resp, err := method.Invoke(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ret, ctxErr
			}
			code := status.Code(err)
			if isRetryableTransportCode(code) {
				node.IncreaseBackoff()
				client.metrics.recordTransportRetry(policy.name, address)
				logger.Debug(
					"node unavailable, retrying",
					"attempt", attempt,
					"node", nodeID.String(),
					"code", code.String(),
				)
				lastErr = err
				continue
			}
			return ret, ProtoClientError{Code: code, Err: err}
		}
		node.DecreaseBackoff()
		client.metrics.recordBackoffDecrease(address)
		respStatus := e.mapStatus(resp)
		// On the last attempt the status is handled as a final answer
		if attempt < policy.maxAttempts && e.shouldRetry(respStatus, resp) {
			lastErr = PrecheckError{Status: respStatus, TransactionID: policy.transactionID}
			delay := retryDelay(attempt, policy.minBackoff, policy.maxBackoff)
			client.metrics.recordPrecheckRetry(policy.name, respStatus.String())
			logger.Debug(
				"retryable status, retrying",
				"attempt", attempt,
				"node", nodeID.String(),
				"status", respStatus.String(),
				"delay", delay,
			)
			if err := sleepContext(ctx, delay); err != nil {
				return ret, err
			}
			continue
		}
		if respStatus != wire.StatusOk && respStatus != wire.StatusSuccess {
			return ret, PrecheckError{Status: respStatus, TransactionID: policy.transactionID}
		}
		span.SetAttributes(attribute.Int("hedera.attempts", attempt))
		return e.mapResponse(resp, nodeID, req)
	}
	return ret, MaxAttemptsExceededError{Attempts: policy.maxAttempts, LastErr: lastErr}
}

// defaultShouldRetry retries the statuses that mean the node could not
// handle the request right now
func defaultShouldRetry(status wire.Status) bool {
	switch status {
	case wire.StatusBusy,
		wire.StatusPlatformTransactionNotCreated,
		wire.StatusPlatformNotActive:
		return true
	default:
		return false
	}
}

// requestPolicy holds the per-request overrides of the client retry settings
type requestPolicy struct {
	maxAttempts int
	minBackoff  *time.Duration
	maxBackoff  *time.Duration
}

func (p requestPolicy) resolve(
	client *Client,
	name string,
	transactionID *ledger.TransactionID,
) executionPolicy {
	ret := executionPolicy{
		name:          name,
		maxAttempts:   client.MaxAttempts(),
		minBackoff:    client.MinBackoff(),
		maxBackoff:    client.MaxBackoff(),
		transactionID: transactionID,
	}
	if p.maxAttempts > 0 {
		ret.maxAttempts = p.maxAttempts
	}
	if p.minBackoff != nil {
		ret.minBackoff = *p.minBackoff
	}
	if p.maxBackoff != nil {
		ret.maxBackoff = *p.maxBackoff
	}
	if ret.minBackoff > ret.maxBackoff {
		ret.maxBackoff = ret.minBackoff
	}
	return ret
}
