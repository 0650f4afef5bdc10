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
	"errors"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "hedera_client"

// Metrics tracks executor activity. Counters are kept in memory and, when a
// registerer is supplied, exported to Prometheus as well
type Metrics struct {
	// Counters (atomic)
	attempts         atomic.Uint64
	transportRetries atomic.Uint64
	precheckRetries  atomic.Uint64
	backoffIncreases atomic.Uint64
	backoffDecreases atomic.Uint64
	failures         atomic.Uint64

	attemptsVec         *prometheus.CounterVec
	transportRetriesVec *prometheus.CounterVec
	precheckRetriesVec  *prometheus.CounterVec
	backoffIncreasesVec *prometheus.CounterVec
	backoffDecreasesVec *prometheus.CounterVec
	failuresVec         *prometheus.CounterVec
}

// MetricsStats is a snapshot of the executor counters
type MetricsStats struct {
	Attempts         uint64
	TransportRetries uint64
	PrecheckRetries  uint64
	BackoffIncreases uint64
	BackoffDecreases uint64
	Failures         uint64
}

// NewMetrics creates the executor metrics. A nil registerer keeps the
// counters in memory only
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attemptsVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "attempts_total",
			Help:      "Requests sent to a node, by request kind.",
		}, []string{"request"}),
		transportRetriesVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transport_retries_total",
			Help:      "Attempts retried after the node could not be reached.",
		}, []string{"request"}),
		precheckRetriesVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "precheck_retries_total",
			Help:      "Attempts retried after a retryable status.",
		}, []string{"request", "status"}),
		backoffIncreasesVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "node_backoff_increases_total",
			Help:      "Node backoff increases, by node address.",
		}, []string{"node"}),
		backoffDecreasesVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "node_backoff_decreases_total",
			Help:      "Node backoff decreases, by node address.",
		}, []string{"node"}),
		failuresVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failures_total",
			Help:      "Requests that ended in an error, by request kind.",
		}, []string{"request"}),
	}
	if registerer != nil {
		for _, vec := range []**prometheus.CounterVec{
			&m.attemptsVec,
			&m.transportRetriesVec,
			&m.precheckRetriesVec,
			&m.backoffIncreasesVec,
			&m.backoffDecreasesVec,
			&m.failuresVec,
		} {
			if err := registerer.Register(*vec); err != nil {
				// Share the counters of an earlier client on the same registry
				var alreadyRegistered prometheus.AlreadyRegisteredError
				if !errors.As(err, &alreadyRegistered) {
					return nil, err
				}
				existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
				if !ok {
					return nil, err
				}
				*vec = existing
			}
		}
	}
	return m, nil
}

func (m *Metrics) recordAttempt(request string) {
	m.attempts.Add(1)
	m.attemptsVec.WithLabelValues(request).Inc()
}

func (m *Metrics) recordTransportRetry(request string, node string) {
	m.transportRetries.Add(1)
	m.transportRetriesVec.WithLabelValues(request).Inc()
	m.backoffIncreases.Add(1)
	m.backoffIncreasesVec.WithLabelValues(node).Inc()
}

func (m *Metrics) recordPrecheckRetry(request string, status string) {
	m.precheckRetries.Add(1)
	m.precheckRetriesVec.WithLabelValues(request, status).Inc()
}

func (m *Metrics) recordBackoffDecrease(node string) {
	m.backoffDecreases.Add(1)
	m.backoffDecreasesVec.WithLabelValues(node).Inc()
}

func (m *Metrics) recordFailure(request string) {
	m.failures.Add(1)
	m.failuresVec.WithLabelValues(request).Inc()
}

// Stats returns a snapshot of the current counters
func (m *Metrics) Stats() MetricsStats {
	return MetricsStats{
		Attempts:         m.attempts.Load(),
		TransportRetries: m.transportRetries.Load(),
		PrecheckRetries:  m.precheckRetries.Load(),
		BackoffIncreases: m.backoffIncreases.Load(),
		BackoffDecreases: m.backoffDecreases.Load(),
		Failures:         m.failures.Load(),
	}
}
