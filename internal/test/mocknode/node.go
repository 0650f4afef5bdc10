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
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/blinklabs-io/gohedera/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const listenerBufferSize = 1024 * 1024

// HandlerFunc answers requests once the conversation is exhausted
type HandlerFunc func(method string, req wire.ProtoRequest) (wire.ProtoResponse, error)

// Request is a request received by a Node
type Request struct {
	Method  string
	Request wire.ProtoRequest
}

// Node is an in-memory gRPC server speaking the node services. It answers
// requests by walking through its conversation in order
type Node struct {
	listener     *bufconn.Listener
	server       *grpc.Server
	mutex        sync.Mutex
	conversation []ConversationEntry
	handler      HandlerFunc
	requests     []Request
	err          error
}

// NodeOptionFunc is a type that represents functions that modify the Node config
type NodeOptionFunc func(*Node)

// WithConversation specifies the scripted conversation
func WithConversation(entries ...ConversationEntry) NodeOptionFunc {
	return func(n *Node) {
		n.conversation = append(n.conversation, entries...)
	}
}

// WithHandler specifies a handler for requests beyond the conversation
func WithHandler(handler HandlerFunc) NodeOptionFunc {
	return func(n *Node) {
		n.handler = handler
	}
}

// mockService is the handler type for the generated service descriptions
type mockService interface{}

// New starts a Node
func New(opts ...NodeOptionFunc) *Node {
	n := &Node{
		listener: bufconn.Listen(listenerBufferSize),
		server:   grpc.NewServer(grpc.ForceServerCodec(wire.Codec{})),
	}
	for _, opt := range opts {
		opt(n)
	}
	for _, service := range wire.Services() {
		n.server.RegisterService(n.serviceDesc(service), n)
	}
	go func() {
		_ = n.server.Serve(n.listener)
	}()
	return n
}

func (n *Node) serviceDesc(service wire.Service) *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: string(service),
		HandlerType: (*mockService)(nil),
	}
	for _, name := range service.Methods() {
		kind, _ := service.LookupMethod(name)
		fullName := service.FullMethodName(name)
		desc.Methods = append(
			desc.Methods,
			grpc.MethodDesc{
				MethodName: name,
				Handler: func(_ any, _ context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
					var req wire.ProtoRequest
					switch kind {
					case wire.MethodKindTransaction:
						req.Transaction = new(wire.Transaction)
						if err := dec(req.Transaction); err != nil {
							return nil, err
						}
					case wire.MethodKindQuery:
						req.Query = new(wire.Query)
						if err := dec(req.Query); err != nil {
							return nil, err
						}
					}
					resp, err := n.handle(fullName, req)
					if err != nil {
						return nil, err
					}
					if kind == wire.MethodKindTransaction {
						if resp.Transaction == nil {
							return nil, n.fail(fmt.Errorf("%s: conversation has no transaction response", fullName))
						}
						return resp.Transaction, nil
					}
					if resp.Query == nil {
						return nil, n.fail(fmt.Errorf("%s: conversation has no query response", fullName))
					}
					return resp.Query, nil
				},
			},
		)
	}
	return desc
}

func (n *Node) handle(method string, req wire.ProtoRequest) (wire.ProtoResponse, error) {
	n.mutex.Lock()
	n.requests = append(n.requests, Request{Method: method, Request: req})
	if len(n.conversation) == 0 {
		handler := n.handler
		n.mutex.Unlock()
		if handler == nil {
			return wire.ProtoResponse{}, n.fail(fmt.Errorf("%s: unexpected request after end of conversation", method))
		}
		return handler(method, req)
	}
	entry := n.conversation[0]
	n.conversation = n.conversation[1:]
	n.mutex.Unlock()
	if entry.Method != "" && entry.Method != method {
		return wire.ProtoResponse{}, n.fail(
			fmt.Errorf("input method did not match expected value: expected %s, got %s", entry.Method, method),
		)
	}
	if entry.InputFunc != nil {
		if err := entry.InputFunc(req); err != nil {
			return wire.ProtoResponse{}, n.fail(fmt.Errorf("%s: input check failed: %w", method, err))
		}
	}
	if entry.Err != nil {
		return wire.ProtoResponse{}, entry.Err
	}
	return entry.Output, nil
}

func (n *Node) fail(err error) error {
	n.mutex.Lock()
	n.err = errors.Join(n.err, err)
	n.mutex.Unlock()
	return status.Error(codes.Internal, err.Error())
}

// Err returns any conversation mismatch seen so far
func (n *Node) Err() error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.err
}

// Requests returns the requests received so far
func (n *Node) Requests() []Request {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return append([]Request(nil), n.requests...)
}

// Remaining returns the number of conversation entries not yet consumed
func (n *Node) Remaining() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.conversation)
}

// Dial opens a client connection to the node
func (n *Node) Dial(ctx context.Context) (net.Conn, error) {
	return n.listener.DialContext(ctx)
}

// Close stops the server
func (n *Node) Close() {
	n.server.Stop()
}
