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

var receiptCmd = &cobra.Command{
	Use:   "receipt <transaction-id>",
	Short: "Wait for the receipt of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transactionID, err := ledger.TransactionIDFromString(args[0])
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
		receipt, err := hedera.NewTransactionReceiptQuery().
			SetTransactionID(transactionID).
			Execute(ctx, client)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

func printReceipt(receipt hedera.TransactionReceipt) {
	fmt.Printf("Status: %s\n", receipt.Status)
	if receipt.AccountID != nil {
		fmt.Printf("Account ID: %s\n", receipt.AccountID)
	}
	if receipt.FileID != nil {
		fmt.Printf("File ID: %s\n", receipt.FileID)
	}
	if receipt.TopicID != nil {
		fmt.Printf("Topic ID: %s\n", receipt.TopicID)
		fmt.Printf("Topic sequence number: %d\n", receipt.TopicSequenceNumber)
	}
}
