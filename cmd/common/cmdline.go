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

package common

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	hedera "github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/spf13/cobra"
)

type GlobalFlags struct {
	Network     string
	ConfigFile  string
	OperatorID  string
	OperatorKey string
	UseTls      bool
	Debug       bool
	Timeout     time.Duration
}

// AddFlags registers the global flags on the command and its subcommands
func (f *GlobalFlags) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(
		&f.Network,
		"network",
		"testnet",
		"well-known network to connect to",
	)
	flags.StringVar(
		&f.ConfigFile,
		"config",
		"",
		"client config file. this overrides the --network option",
	)
	flags.StringVar(
		&f.OperatorID,
		"operator-id",
		os.Getenv("HEDERA_OPERATOR_ID"),
		"operator account id (default $HEDERA_OPERATOR_ID)",
	)
	flags.StringVar(
		&f.OperatorKey,
		"operator-key",
		os.Getenv("HEDERA_OPERATOR_KEY"),
		"operator private key (default $HEDERA_OPERATOR_KEY)",
	)
	flags.BoolVar(&f.UseTls, "tls", false, "enable TLS")
	flags.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	flags.DurationVar(&f.Timeout, "timeout", 30*time.Second, "timeout for each command")
}

func (f *GlobalFlags) Logger() *slog.Logger {
	level := slog.LevelInfo
	if f.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewClient creates a client from the config file or the named network and
// sets the operator from the flags when given
func (f *GlobalFlags) NewClient(logger *slog.Logger) (*hedera.Client, error) {
	var client *hedera.Client
	var err error
	if f.ConfigFile != "" {
		client, err = hedera.ClientFromConfigFile(f.ConfigFile, hedera.WithLogger(logger))
	} else {
		client, err = hedera.ClientForName(f.Network, hedera.WithLogger(logger))
	}
	if err != nil {
		return nil, err
	}
	if f.UseTls {
		client.SetTransportSecurity(true)
	}
	if f.OperatorID != "" || f.OperatorKey != "" {
		if f.OperatorID == "" || f.OperatorKey == "" {
			_ = client.Close()
			return nil, errors.New("both --operator-id and --operator-key are required")
		}
		accountID, err := ledger.AccountIDFromString(f.OperatorID)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("operator id: %w", err)
		}
		privateKey, err := keys.PrivateKeyFromString(f.OperatorKey)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("operator key: %w", err)
		}
		client.SetOperator(accountID, privateKey)
	}
	return client, nil
}
