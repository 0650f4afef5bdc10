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

package channel

import (
	"log/slog"

	"google.golang.org/grpc"
)

// ChannelOptionFunc is a type that represents functions that modify the Channel config
type ChannelOptionFunc func(*Channel)

// WithTransportSecurity specifies whether to use TLS. This is disabled by default
func WithTransportSecurity(transportSecurity bool) ChannelOptionFunc {
	return func(c *Channel) {
		c.transportSecurity = transportSecurity
	}
}

// WithCertHash specifies the hex-encoded SHA-384 hash of the PEM-encoded
// certificate the node is expected to present
func WithCertHash(certHash string) ChannelOptionFunc {
	return func(c *Channel) {
		c.certHash = certHash
	}
}

// WithVerifyCertificate specifies whether the presented certificate is
// checked against the pinned hash. This is enabled by default
func WithVerifyCertificate(verify bool) ChannelOptionFunc {
	return func(c *Channel) {
		c.verifyCertificate = verify
	}
}

// WithDialOptions specifies extra options passed to grpc.NewClient
func WithDialOptions(opts ...grpc.DialOption) ChannelOptionFunc {
	return func(c *Channel) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ChannelOptionFunc {
	return func(c *Channel) {
		c.logger = logger
	}
}
