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

type serverHandler struct {
	generator   *cv.Generator
	spin        *cv.SpinParameters
	rpcHandlers []RPCHandler
}

// A ServerOption can be passed to NewServerHandler to customize the returned handler.
type ServerOption func(*serverHandler)

// SpinOnReceive instructs the handler to spin the upstream value with the
// provided parameters instead of extending it.
func SpinOnReceive(p cv.SpinParameters) ServerOption {
	return func(h *serverHandler) {
		h.spin = &p
	}
}

// WithServerRPCHandler allows one to add custom logic for handling a
// stats.RPCStats.
func WithServerRPCHandler(handler RPCHandler) ServerOption {
	return func(h *serverHandler) {
		h.rpcHandlers = append(h.rpcHandlers, handler)
	}
}

// NewServerHandler returns a stats.Handler which can be used with
// grpc.StatsHandler to extend the correlation vector received in the ms-cv
// metadata key. The vector is stored in the RPC context; use cv.FromContext
// to retrieve it. Calls without a valid vector start a fresh one. If g is
// nil a lenient Generator is used.
func NewServerHandler(g *cv.Generator, options ...ServerOption) stats.Handler {
	if g == nil {
		g, _ = cv.NewGenerator()
	}
	s := &serverHandler{
		generator: g,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// HandleConn exists to satisfy gRPC stats.Handler.
func (s *serverHandler) HandleConn(_ context.Context, _ stats.ConnStats) {
	// no-op
}

// TagConn exists to satisfy gRPC stats.Handler.
func (s *serverHandler) TagConn(ctx context.Context, _ *stats.ConnTagInfo) context.Context {
	// no-op
	return ctx
}

// HandleRPC calls the registered RPCHandlers.
func (s *serverHandler) HandleRPC(ctx context.Context, rs stats.RPCStats) {
	handleRPC(ctx, rs, s.rpcHandlers)
}

// TagRPC implements per-RPC context management.
func (s *serverHandler) TagRPC(ctx context.Context, _ *stats.RPCTagInfo) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(nil)
	}

	var (
		v   *cv.CorrelationVector
		err error
	)
	if s.spin != nil {
		v, err = s.generator.ExtractSpin(header.ExtractGRPC(&md), *s.spin)
	} else {
		v, err = s.generator.Extract(header.ExtractGRPC(&md))
	}
	if err != nil {
		v = s.generator.Start()
	}

	return cv.NewContext(ctx, v)
}
