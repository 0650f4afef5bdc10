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
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/network"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxAttempts = 5
	DefaultMinBackoff  = 250 * time.Millisecond
	DefaultMaxBackoff  = 8 * time.Second

	tracerName = "github.com/blinklabs-io/gohedera"
)

var (
	DefaultMaxTransactionFee = NewHbar(2)
	DefaultMaxQueryPayment   = NewHbar(1)
)

type operator struct {
	accountID ledger.AccountID
	publicKey keys.PublicKey
	signer    keys.Signer
}

// Client holds the network, the operator paying for requests and the
// default request policy
type Client struct {
	mutex                    sync.RWMutex
	network                  *network.Network
	mirrorNetwork            *network.MirrorNetwork
	operator                 *operator
	defaultMaxTransactionFee Hbar
	defaultMaxQueryPayment   Hbar
	autoValidateChecksums    bool
	maxAttempts              int
	minBackoff               time.Duration
	maxBackoff               time.Duration
	logger                   *slog.Logger
	metrics                  *Metrics
	tracer                   trace.Tracer
}

func newClient(opts ...ClientOptionFunc) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracerProvider == nil {
		cfg.tracerProvider = otel.GetTracerProvider()
	}
	metrics, err := NewMetrics(cfg.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	c := &Client{
		defaultMaxTransactionFee: DefaultMaxTransactionFee,
		defaultMaxQueryPayment:   DefaultMaxQueryPayment,
		maxAttempts:              DefaultMaxAttempts,
		minBackoff:               DefaultMinBackoff,
		maxBackoff:               DefaultMaxBackoff,
		logger:                   cfg.logger.With("component", "client"),
		metrics:                  metrics,
		tracer:                   cfg.tracerProvider.Tracer(tracerName),
	}
	c.network = network.NewNetwork(
		network.WithLogger(cfg.logger),
		network.WithChannelOptions(cfg.channelOpts...),
	)
	c.mirrorNetwork = network.NewMirrorNetwork(
		network.WithLogger(cfg.logger),
		network.WithChannelOptions(cfg.channelOpts...),
	)
	return c, nil
}

// ClientForNetwork returns a client for the given node addresses and node
// account ids
func ClientForNetwork(nodes map[string]ledger.AccountID, opts ...ClientOptionFunc) (*Client, error) {
	c, err := newClient(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.SetNetwork(nodes); err != nil {
		return nil, err
	}
	return c, nil
}

// ClientForName returns a client for a well-known network by name
func ClientForName(name string, opts ...ClientOptionFunc) (*Client, error) {
	def := NetworkByName(name)
	if !def.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return clientForDefinition(def, opts...)
}

// ClientForLedger returns a client for a ledger. Well-known ledgers use their
// built-in node list. Other ledgers need an address book registered with
// network.RegisterAddressBook
func ClientForLedger(ledgerID ledger.LedgerID, opts ...ClientOptionFunc) (*Client, error) {
	def := NetworkByLedgerID(ledgerID)
	if def.IsValid() {
		return clientForDefinition(def, opts...)
	}
	book, ok := network.AddressBookForLedger(ledgerID)
	if !ok {
		return nil, fmt.Errorf("%w: ledger %s", ErrUnknownNetwork, ledgerID.String())
	}
	c, err := ClientForNetwork(book.Network(), opts...)
	if err != nil {
		return nil, err
	}
	c.SetLedgerID(ledgerID)
	return c, nil
}

func clientForDefinition(def NetworkDefinition, opts ...ClientOptionFunc) (*Client, error) {
	c, err := ClientForNetwork(def.Nodes, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.SetMirrorNetwork(def.MirrorNodes); err != nil {
		return nil, err
	}
	c.SetLedgerID(def.LedgerID)
	return c, nil
}

// ClientFromConfig returns a client set up from a client config
func ClientFromConfig(cfg *ClientConfig, opts ...ClientOptionFunc) (*Client, error) {
	var c *Client
	var err error
	if cfg.Network.Name != "" {
		c, err = ClientForName(cfg.Network.Name, opts...)
	} else {
		nodes := make(map[string]ledger.AccountID, len(cfg.Network.Nodes))
		for address, idStr := range cfg.Network.Nodes {
			accountID, err := ledger.AccountIDFromString(idStr)
			if err != nil {
				return nil, fmt.Errorf("network: node %s: %w", address, err)
			}
			nodes[address] = accountID
		}
		c, err = ClientForNetwork(nodes, opts...)
	}
	if err != nil {
		return nil, err
	}
	if err := c.applyConfig(cfg); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// ClientFromConfigFile loads a client config file and returns a client set up from it
func ClientFromConfigFile(path string, opts ...ClientOptionFunc) (*Client, error) {
	cfg, err := NewClientConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	return ClientFromConfig(cfg, opts...)
}

func (c *Client) applyConfig(cfg *ClientConfig) error {
	switch {
	case cfg.MirrorNetwork.Name != "":
		def := NetworkByName(cfg.MirrorNetwork.Name)
		if !def.IsValid() {
			return fmt.Errorf("mirrorNetwork: %w: %s", ErrUnknownNetwork, cfg.MirrorNetwork.Name)
		}
		if err := c.SetMirrorNetwork(def.MirrorNodes); err != nil {
			return err
		}
	case len(cfg.MirrorNetwork.Addresses) > 0:
		if err := c.SetMirrorNetwork(cfg.MirrorNetwork.Addresses); err != nil {
			return err
		}
	}
	if cfg.LedgerID != "" {
		ledgerID, err := ledger.LedgerIDFromString(cfg.LedgerID)
		if err != nil {
			return fmt.Errorf("ledgerId: %w", err)
		}
		c.SetLedgerID(ledgerID)
	}
	if cfg.Operator != nil {
		accountID, err := ledger.AccountIDFromString(cfg.Operator.AccountID)
		if err != nil {
			return fmt.Errorf("operator: %w", err)
		}
		privateKey, err := keys.PrivateKeyFromString(cfg.Operator.PrivateKey)
		if err != nil {
			return fmt.Errorf("operator: %w", err)
		}
		c.SetOperator(accountID, privateKey)
	}
	if cfg.MaxAttempts > 0 {
		c.SetMaxAttempts(cfg.MaxAttempts)
	}
	if cfg.MinBackoff > 0 || cfg.MaxBackoff > 0 {
		minBackoff, maxBackoff := c.MinBackoff(), c.MaxBackoff()
		if cfg.MinBackoff > 0 {
			minBackoff = cfg.MinBackoff
		}
		if cfg.MaxBackoff > 0 {
			maxBackoff = cfg.MaxBackoff
		}
		if err := c.setBackoff(minBackoff, maxBackoff); err != nil {
			return err
		}
	}
	if cfg.NodeMinBackoff > 0 {
		c.SetNodeMinBackoff(cfg.NodeMinBackoff)
	}
	if cfg.NodeMaxBackoff > 0 {
		c.SetNodeMaxBackoff(cfg.NodeMaxBackoff)
	}
	if cfg.MaxNodesPerTransaction > 0 {
		c.SetMaxNodesPerTransaction(cfg.MaxNodesPerTransaction)
	}
	if cfg.DefaultMaxTransactionFee != nil {
		if err := c.SetDefaultMaxTransactionFee(*cfg.DefaultMaxTransactionFee); err != nil {
			return fmt.Errorf("defaultMaxTransactionFee: %w", err)
		}
	}
	if cfg.DefaultMaxQueryPayment != nil {
		if err := c.SetDefaultMaxQueryPayment(*cfg.DefaultMaxQueryPayment); err != nil {
			return fmt.Errorf("defaultMaxQueryPayment: %w", err)
		}
	}
	if cfg.AutoValidateChecksums != nil {
		c.SetAutoValidateChecksums(*cfg.AutoValidateChecksums)
	}
	if cfg.TransportSecurity != nil {
		c.SetTransportSecurity(*cfg.TransportSecurity)
	}
	if cfg.VerifyCertificate != nil {
		c.SetVerifyCertificate(*cfg.VerifyCertificate)
	}
	return nil
}

// SetNetwork replaces the consensus nodes. Nodes whose address and account
// id are unchanged keep their health state
func (c *Client) SetNetwork(nodes map[string]ledger.AccountID) error {
	return c.network.SetNetwork(nodes)
}

func (c *Client) Network() map[string]ledger.AccountID {
	return c.network.Network()
}

func (c *Client) SetMirrorNetwork(addresses []string) error {
	return c.mirrorNetwork.SetNetwork(addresses)
}

func (c *Client) MirrorNetwork() []string {
	return c.mirrorNetwork.Network()
}

// SetLedgerID binds the client to a ledger, which selects the checksum
// namespace and the registered address book
func (c *Client) SetLedgerID(ledgerID ledger.LedgerID) {
	c.network.SetLedgerID(ledgerID)
}

func (c *Client) LedgerID() ledger.LedgerID {
	return c.network.LedgerID()
}

// SetOperator sets the account that pays for requests and the key that signs
// for it
func (c *Client) SetOperator(accountID ledger.AccountID, privateKey keys.PrivateKey) {
	c.SetOperatorWith(accountID, privateKey.PublicKey(), privateKey.Sign)
}

// SetOperatorWith sets the operator with a custom signer, such as one backed
// by an external key store
func (c *Client) SetOperatorWith(accountID ledger.AccountID, publicKey keys.PublicKey, signer keys.Signer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.operator = &operator{
		accountID: accountID,
		publicKey: publicKey,
		signer:    signer,
	}
}

func (c *Client) operatorOrErr() (operator, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.operator == nil {
		return operator{}, ErrOperatorNotSet
	}
	return *c.operator, nil
}

func (c *Client) OperatorAccountID() (ledger.AccountID, error) {
	op, err := c.operatorOrErr()
	if err != nil {
		return ledger.AccountID{}, err
	}
	return op.accountID, nil
}

func (c *Client) OperatorPublicKey() (keys.PublicKey, error) {
	op, err := c.operatorOrErr()
	if err != nil {
		return nil, err
	}
	return op.publicKey, nil
}

func (c *Client) SetDefaultMaxTransactionFee(fee Hbar) error {
	if fee.AsTinybar() < 0 {
		return fmt.Errorf("%w: max transaction fee %s", ErrInvalidHbar, fee)
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.defaultMaxTransactionFee = fee
	return nil
}

func (c *Client) DefaultMaxTransactionFee() Hbar {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.defaultMaxTransactionFee
}

func (c *Client) SetDefaultMaxQueryPayment(payment Hbar) error {
	if payment.AsTinybar() < 0 {
		return fmt.Errorf("%w: max query payment %s", ErrInvalidHbar, payment)
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.defaultMaxQueryPayment = payment
	return nil
}

func (c *Client) DefaultMaxQueryPayment() Hbar {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.defaultMaxQueryPayment
}

// SetAutoValidateChecksums turns on checksum validation of entity ids
// against the client's ledger id when requests are built
func (c *Client) SetAutoValidateChecksums(validate bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.autoValidateChecksums = validate
}

func (c *Client) AutoValidateChecksums() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.autoValidateChecksums
}

func (c *Client) SetMaxAttempts(maxAttempts int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.maxAttempts = maxAttempts
}

func (c *Client) MaxAttempts() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.maxAttempts
}

// SetMinBackoff sets the base delay between attempts that got a retryable
// status. It must not be negative or above the max backoff
func (c *Client) SetMinBackoff(minBackoff time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if minBackoff < 0 || minBackoff > c.maxBackoff {
		return fmt.Errorf("%w: min backoff %s", ErrInvalidBackoff, minBackoff)
	}
	c.minBackoff = minBackoff
	return nil
}

func (c *Client) MinBackoff() time.Duration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.minBackoff
}

// SetMaxBackoff caps the delay between attempts. It must not be below the
// min backoff
func (c *Client) SetMaxBackoff(maxBackoff time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if maxBackoff < 0 || maxBackoff < c.minBackoff {
		return fmt.Errorf("%w: max backoff %s", ErrInvalidBackoff, maxBackoff)
	}
	c.maxBackoff = maxBackoff
	return nil
}

func (c *Client) setBackoff(minBackoff, maxBackoff time.Duration) error {
	if minBackoff < 0 || minBackoff > maxBackoff {
		return fmt.Errorf("%w: min backoff %s, max backoff %s", ErrInvalidBackoff, minBackoff, maxBackoff)
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.minBackoff = minBackoff
	c.maxBackoff = maxBackoff
	return nil
}

func (c *Client) MaxBackoff() time.Duration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.maxBackoff
}

// SetNodeMinBackoff sets the initial backoff of a node after a transport failure
func (c *Client) SetNodeMinBackoff(minBackoff time.Duration) {
	c.network.SetMinBackoff(minBackoff)
	c.mirrorNetwork.SetMinBackoff(minBackoff)
}

func (c *Client) NodeMinBackoff() time.Duration {
	return c.network.MinBackoff()
}

func (c *Client) SetNodeMaxBackoff(maxBackoff time.Duration) {
	c.network.SetMaxBackoff(maxBackoff)
	c.mirrorNetwork.SetMaxBackoff(maxBackoff)
}

func (c *Client) NodeMaxBackoff() time.Duration {
	return c.network.MaxBackoff()
}

// SetMaxNodeAttempts sets the number of failures after which a node is removed
// from the network. Zero or less disables removal
func (c *Client) SetMaxNodeAttempts(maxNodeAttempts int64) {
	c.network.SetMaxNodeAttempts(maxNodeAttempts)
}

func (c *Client) MaxNodeAttempts() int64 {
	return c.network.MaxNodeAttempts()
}

func (c *Client) SetMaxNodesPerTransaction(maxNodes int) {
	c.network.SetMaxNodesPerTransaction(maxNodes)
}

func (c *Client) SetVerifyCertificate(verify bool) {
	c.network.SetVerifyCertificate(verify)
}

func (c *Client) VerifyCertificate() bool {
	return c.network.VerifyCertificate()
}

// SetTransportSecurity switches every node to its TLS or plaintext port
func (c *Client) SetTransportSecurity(transportSecurity bool) {
	c.network.SetTransportSecurity(transportSecurity)
	c.mirrorNetwork.SetTransportSecurity(transportSecurity)
}

func (c *Client) TransportSecurity() bool {
	return c.network.TransportSecurity()
}

func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// NodeStats returns the health of every consensus node endpoint
func (c *Client) NodeStats() []network.NodeStats {
	nodes := c.network.Nodes()
	ret := make([]network.NodeStats, 0, len(nodes))
	for _, node := range nodes {
		ret = append(ret, node.Stats())
	}
	return ret
}

// Ping sends a free balance query for the node's own account to that node
func (c *Client) Ping(ctx context.Context, nodeAccountID ledger.AccountID) error {
	_, err := NewAccountBalanceQuery().
		SetAccountID(nodeAccountID).
		SetNodeAccountIDs([]ledger.AccountID{nodeAccountID}).
		Execute(ctx, c)
	return err
}

// PingAll pings every node concurrently and returns the first error
func (c *Client) PingAll(ctx context.Context) error {
	seen := make(map[ledger.AccountID]struct{})
	var nodeAccountIDs []ledger.AccountID
	for _, nodeAccountID := range c.Network() {
		key := nodeAccountID.WithoutChecksum()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		nodeAccountIDs = append(nodeAccountIDs, key)
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, nodeAccountID := range nodeAccountIDs {
		g.Go(func() error {
			if err := c.Ping(ctx, nodeAccountID); err != nil {
				return fmt.Errorf("ping node %s: %w", nodeAccountID.String(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close closes the channels of every node
func (c *Client) Close() error {
	return errors.Join(
		c.network.Close(),
		c.mirrorNetwork.Close(),
	)
}
