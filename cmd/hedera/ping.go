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

package main

import (
	"fmt"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping [node-account-id]",
	Short: "Ping one node, or every node of the network",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := globalFlags.Logger()
		client, err := globalFlags.NewClient(logger)
		if err != nil {
			return err
		}
		defer client.Close()
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if len(args) == 1 {
			nodeAccountID, err := ledger.AccountIDFromString(args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			if err := client.Ping(ctx, nodeAccountID); err != nil {
				return err
			}
			fmt.Printf("%s: ok (%s)\n", nodeAccountID, time.Since(start).Round(time.Millisecond))
			return nil
		}
		start := time.Now()
		if err := client.PingAll(ctx); err != nil {
			return err
		}
		fmt.Printf("all %d nodes ok (%s)\n", len(client.Network()), time.Since(start).Round(time.Millisecond))
		for _, stats := range client.NodeStats() {
			logger.Debug(
				"node stats",
				"address", stats.Address.String(),
				"healthy", stats.Healthy,
				"attempts", stats.Attempts,
				"backoff", stats.CurrentBackoff,
			)
		}
		return nil
	},
}
