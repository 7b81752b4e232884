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

package grpc_test

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/stats"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	cvgrpc "github.com/openzipkin-contrib/zipkin-go-cv/middleware/grpc"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
)

var _ = ginkgo.Describe("gRPC Client", func() {
	var (
		conn   *grpc.ClientConn
		client grpc_health_v1.HealthClient
	)

	ginkgo.AfterEach(func() {
		_ = conn.Close()
	})

	ginkgo.Context("with defaults", func() {
		ginkgo.BeforeEach(func() {
			var err error

			conn, err = dial(serverLis, grpc.WithStatsHandler(cvgrpc.NewClientHandler()))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			client = grpc_health_v1.NewHealthClient(conn)
		})

		ginkgo.It("increments the context vector per call", func() {
			v := cv.Extend("tul4NUsfs9Cl7mOf.9")
			ctx := cv.NewContext(context.Background(), v)

			for _, want := range []string{"tul4NUsfs9Cl7mOf.9.1.0", "tul4NUsfs9Cl7mOf.9.2.0"} {
				value, err := serverVector(ctx, client, "")
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(value).To(gomega.Equal(want))
			}
			gomega.Expect(v.Value()).To(gomega.Equal("tul4NUsfs9Cl7mOf.9.2"))
		})

		ginkgo.It("keeps other outgoing metadata", func() {
			v := cv.Extend("tul4NUsfs9Cl7mOf.9")
			md := metadata.Pairs("other", "value", header.GRPCKey, "stale.1")
			ctx := metadata.NewOutgoingContext(cv.NewContext(context.Background(), v), md)

			value, err := serverVector(ctx, client, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(value).To(gomega.Equal("tul4NUsfs9Cl7mOf.9.1.0"))
			gomega.Expect(md.Get(header.GRPCKey)).To(gomega.Equal([]string{"stale.1"}))
		})
	})

	ginkgo.Context("with StartNew", func() {
		var handled []string

		ginkgo.BeforeEach(func() {
			var err error

			handled = nil
			g, _ := cv.NewGenerator(cv.WithDefaultVersion(cv.V2))
			conn, err = dial(serverLis, grpc.WithStatsHandler(cvgrpc.NewClientHandler(
				cvgrpc.StartNew(g),
				cvgrpc.WithClientRPCHandler(func(v *cv.CorrelationVector, rs stats.RPCStats) {
					if _, ok := rs.(*stats.End); ok {
						handled = append(handled, v.Value())
					}
				}),
			)))
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			client = grpc_health_v1.NewHealthClient(conn)
		})

		ginkgo.It("starts a vector without context vector", func() {
			value, err := serverVector(context.Background(), client, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			v, err := cv.Parse(value)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(v.Version()).To(gomega.Equal(cv.V2))
			gomega.Expect(handled).To(gomega.HaveLen(1))
			gomega.Expect(value).To(gomega.Equal(handled[0] + ".0"))
		})
	})
})
