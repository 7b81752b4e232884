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
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
	service "github.com/openzipkin-contrib/zipkin-go-cv/middleware/grpc/internal/testing"
)

// serverVector calls the health service and returns the vector value the
// server found in its RPC context.
func serverVector(ctx context.Context, client grpc_health_v1.HealthClient, name string) (string, error) {
	var md metadata.MD
	_, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: name}, grpc.Header(&md))
	if vals := md.Get(service.VectorKey); len(vals) > 0 {
		return vals[0], err
	}
	return "", err
}

var _ = ginkgo.Describe("gRPC Server", func() {
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

			conn, err = dial(serverLis)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			client = grpc_health_v1.NewHealthClient(conn)
		})

		ginkgo.It("starts a vector without upstream metadata", func() {
			value, err := serverVector(context.Background(), client, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			v, err := cv.Parse(value)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(v.Version()).To(gomega.Equal(cv.V1))
			gomega.Expect(v.Extension()).To(gomega.BeZero())
		})

		ginkgo.It("extends upstream metadata", func() {
			md := metadata.Pairs(header.GRPCKey, "tul4NUsfs9Cl7mOf.3")
			ctx := metadata.NewOutgoingContext(context.Background(), md)

			value, err := serverVector(ctx, client, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(value).To(gomega.Equal("tul4NUsfs9Cl7mOf.3.0"))
		})

		ginkgo.It("keeps terminated upstream metadata", func() {
			md := metadata.Pairs(header.GRPCKey, "tul4NUsfs9Cl7mOf.3!")
			ctx := metadata.NewOutgoingContext(context.Background(), md)

			value, err := serverVector(ctx, client, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(value).To(gomega.Equal("tul4NUsfs9Cl7mOf.3!"))
		})
	})

	ginkgo.Context("with a validating generator", func() {
		ginkgo.BeforeEach(func() {
			var err error

			strictSink.Clear()
			strictEnded.flush()

			conn, err = dial(strictServerLis)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			client = grpc_health_v1.NewHealthClient(conn)
		})

		ginkgo.It("restarts on invalid upstream metadata", func() {
			md := metadata.Pairs(header.GRPCKey, "not a vector")
			ctx := metadata.NewOutgoingContext(context.Background(), md)

			value, err := serverVector(ctx, client, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(strings.HasPrefix(value, "not")).To(gomega.BeFalse())

			v, err := cv.Parse(value)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(v.Version()).To(gomega.Equal(cv.V2))

			gomega.Expect(strictSink.HasErrors()).To(gomega.BeTrue())
		})

		ginkgo.It("calls the rpc handler on failure", func() {
			md := metadata.Pairs(header.GRPCKey, "KZQhmEDHTJumxZBM9FSuAA.1")
			ctx := metadata.NewOutgoingContext(context.Background(), md)

			_, err := serverVector(ctx, client, service.FailService)
			gomega.Expect(err).To(gomega.HaveOccurred())

			gomega.Eventually(strictEnded.flush).Should(
				gomega.ContainElement("KZQhmEDHTJumxZBM9FSuAA.1.0"),
			)
			gomega.Expect(strictSink.HasErrors()).To(gomega.BeFalse())
		})
	})
})
