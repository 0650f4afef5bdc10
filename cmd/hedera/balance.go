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

	hedera "github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <account-id>",
	Short: "Show the hbar balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, err := ledger.AccountIDFromString(args[0])
		if err != nil {
			return err
		}
		client, err := globalFlags.NewClient(globalFlags.Logger())
		if err != nil {
			return err
		}
		defer client.Close()
		ctx, cancel := commandContext(cmd)
		defer cancel()
		balance, err := hedera.NewAccountBalanceQuery().
			SetAccountID(accountID).
			Execute(ctx, client)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", balance.AccountID, balance.Hbars)
		return nil
	},
}
