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

package testing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
)

// VectorKey is the response header carrying the vector the server found in
// its RPC context.
const VectorKey = "x-server-cv"

// FailService makes HealthService answer with codes.Aborted.
const FailService = "fail"

// HealthService is a health service which echoes the server side correlation
// vector in the VectorKey response header.
type HealthService struct {
	grpc_health_v1.UnimplementedHealthServer
}

func (s *HealthService) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if req.GetService() == FailService {
		return nil, status.Error(codes.Aborted, "fail")
	}

	v := cv.FromContext(ctx)
	if v == nil {
		return nil, status.Error(codes.FailedPrecondition, "no correlation vector in context")
	}

	if err := grpc.SetHeader(ctx, metadata.Pairs(VectorKey, v.Value())); err != nil {
		return nil, err
	}

	return &grpc_health_v1.HealthCheckResponse{
		Status: grpc_health_v1.HealthCheckResponse_SERVING,
	}, nil
}
