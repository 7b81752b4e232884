// Copyright 2024 The OpenZipkin Authors
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

package grpc

import (
	"context"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/stats"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
)

type ClientHandler interface {
	stats.Handler
}

type clientHandler struct {
	generator   *cv.Generator
	rpcHandlers []RPCHandler
}

type ClientOption func(*clientHandler)

// WithClientRPCHandler allows one to add custom logic for handling a
// stats.RPCStats.
func WithClientRPCHandler(handler RPCHandler) ClientOption {
	return func(c *clientHandler) {
		c.rpcHandlers = append(c.rpcHandlers, handler)
	}
}

// StartNew instructs the handler to start a fresh vector from g for calls
// whose context does not hold one. By default such calls are sent without
// ms-cv metadata.
func StartNew(g *cv.Generator) ClientOption {
	return func(c *clientHandler) {
		c.generator = g
	}
}

// NewClientHandler returns a stats.Handler which can be used with
// grpc.WithStatsHandler to increment the correlation vector found in the
// call context and send the new value in the ms-cv metadata key.
func NewClientHandler(options ...ClientOption) ClientHandler {
	c := &clientHandler{}
	for _, option := range options {
		option(c)
	}
	return c
}

// HandleConn exists to satisfy gRPC stats.Handler.
func (c *clientHandler) HandleConn(_ context.Context, _ stats.ConnStats) {
	// no-op
}

// TagConn exists to satisfy gRPC stats.Handler.
func (c *clientHandler) TagConn(ctx context.Context, _ *stats.ConnTagInfo) context.Context {
	// no-op
	return ctx
}

// HandleRPC calls the registered RPCHandlers.
func (c *clientHandler) HandleRPC(ctx context.Context, rs stats.RPCStats) {
	handleRPC(ctx, rs, c.rpcHandlers)
}

// TagRPC implements per-RPC context management.
func (c *clientHandler) TagRPC(ctx context.Context, _ *stats.RPCTagInfo) context.Context {
	v := cv.FromContext(ctx)
	if v == nil {
		if c.generator == nil {
			return ctx
		}
		v = c.generator.Start()
		ctx = cv.NewContext(ctx, v)
	}

	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.New(nil)
	}
	_ = cv.Inject(v, header.InjectGRPC(&md))
	return metadata.NewOutgoingContext(ctx, md)
}
