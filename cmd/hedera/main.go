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
	"context"
	"fmt"
	"os"

	"github.com/blinklabs-io/gohedera/cmd/common"
	"github.com/spf13/cobra"
)

var globalFlags = &common.GlobalFlags{}

var rootCmd = &cobra.Command{
	Use:           "hedera",
	Short:         "Send requests to ledger nodes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	globalFlags.AddFlags(rootCmd)
	rootCmd.AddCommand(
		pingCmd,
		balanceCmd,
		receiptCmd,
		submitMessageCmd,
	)
}

// commandContext returns a context bounded by the --timeout flag
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), globalFlags.Timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}
