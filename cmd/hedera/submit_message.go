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
	"io"
	"os"

	hedera "github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/spf13/cobra"
)

var (
	submitMessageFile      string
	submitMessageChunkSize int
	submitMessageMaxChunks int
)

var submitMessageCmd = &cobra.Command{
	Use:   "submit-message <topic-id> [message]",
	Short: "Submit a message to a consensus topic",
	Long: `Submit a message to a consensus topic. The message is taken from the
argument, from --file, or from stdin. Large messages are split into chunks.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := ledger.TopicIDFromString(args[0])
		if err != nil {
			return err
		}
		var message []byte
		switch {
		case len(args) == 2:
			message = []byte(args[1])
		case submitMessageFile != "":
			message, err = os.ReadFile(submitMessageFile)
		default:
			message, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}
		client, err := globalFlags.NewClient(globalFlags.Logger())
		if err != nil {
			return err
		}
		defer client.Close()
		tx := hedera.NewTopicMessageSubmitTransaction()
		if err := tx.SetTopicID(topicID); err != nil {
			return err
		}
		if err := tx.SetMessage(message); err != nil {
			return err
		}
		if err := tx.SetChunkSize(submitMessageChunkSize); err != nil {
			return err
		}
		if err := tx.SetMaxChunks(submitMessageMaxChunks); err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		responses, err := tx.ExecuteAll(ctx, client)
		if err != nil {
			return err
		}
		for _, resp := range responses {
			fmt.Printf("Submitted %s to node %s\n", resp.TransactionID, resp.NodeID)
		}
		receipt, err := responses[len(responses)-1].GetReceipt(ctx, client)
		if err != nil {
			return err
		}
		printReceipt(receipt)
		return nil
	},
}

func init() {
	submitMessageCmd.Flags().StringVar(&submitMessageFile, "file", "", "read the message from a file")
	submitMessageCmd.Flags().IntVar(&submitMessageChunkSize, "chunk-size", hedera.DefaultChunkSize, "chunk size in bytes")
	submitMessageCmd.Flags().IntVar(&submitMessageMaxChunks, "max-chunks", hedera.DefaultMaxChunks, "max number of chunks")
}
