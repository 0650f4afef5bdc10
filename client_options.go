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
	"log/slog"

	"github.com/blinklabs-io/gohedera/channel"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*clientConfig)

type clientConfig struct {
	logger         *slog.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	channelOpts    []channel.ChannelOptionFunc
}

// WithLogger specifies the logger to use. The default is slog.Default()
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetricsRegisterer specifies the Prometheus registerer for the client
// metrics. Metrics are not registered anywhere by default
func WithMetricsRegisterer(registerer prometheus.Registerer) ClientOptionFunc {
	return func(c *clientConfig) {
		c.registerer = registerer
	}
}

// WithTracerProvider specifies the OpenTelemetry tracer provider. The global
// provider is used by default
func WithTracerProvider(tracerProvider trace.TracerProvider) ClientOptionFunc {
	return func(c *clientConfig) {
		c.tracerProvider = tracerProvider
	}
}

// WithChannelOptions specifies options applied to every node channel
func WithChannelOptions(opts ...channel.ChannelOptionFunc) ClientOptionFunc {
	return func(c *clientConfig) {
		c.channelOpts = append(c.channelOpts, opts...)
	}
}
