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

/*
Package grpc contains gRPC stats handlers which propagate correlation vectors
through gRPC metadata.
*/
package grpc

import (
	"context"

	"google.golang.org/grpc/stats"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
)

// A RPCHandler can be registered using WithClientRPCHandler or
// WithServerRPCHandler to intercept calls to HandleRPC of a handler, e.g. to
// log the correlation vector of failed calls.
type RPCHandler func(v *cv.CorrelationVector, rpcStats stats.RPCStats)

func handleRPC(ctx context.Context, rs stats.RPCStats, handlers []RPCHandler) {
	if len(handlers) == 0 {
		return
	}
	v := cv.FromContext(ctx)
	if v == nil {
		return
	}
	for _, h := range handlers {
		h(v, rs)
	}
}
