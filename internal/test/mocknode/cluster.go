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

package mocknode

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
)

// Cluster routes dials to mock nodes by address
type Cluster struct {
	nodes map[string]*Node
}

// NewCluster returns a Cluster serving the given address to node mapping
func NewCluster(nodes map[string]*Node) *Cluster {
	return &Cluster{nodes: nodes}
}

func (c *Cluster) Node(address string) *Node {
	return c.nodes[address]
}

// DialOption returns a gRPC dial option that connects to the mock node
// registered for the target address
func (c *Cluster) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, address string) (net.Conn, error) {
		node, ok := c.nodes[address]
		if !ok {
			return nil, fmt.Errorf("no mock node at %s", address)
		}
		return node.Dial(ctx)
	})
}

// Close stops every node
func (c *Cluster) Close() {
	for _, node := range c.nodes {
		node.Close()
	}
}
