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

package header

import (
	"google.golang.org/grpc/metadata"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
)

// ExtractGRPC will extract a correlation vector value from gRPC metadata if
// found.
func ExtractGRPC(md *metadata.MD) cv.Extractor {
	return func() (string, error) {
		return Single(md.Get(GRPCKey))
	}
}

// InjectGRPC will inject a correlation vector value into gRPC metadata,
// replacing any value already present.
func InjectGRPC(md *metadata.MD) cv.Injector {
	return func(value string) error {
		if value == "" {
			return ErrEmptyValue
		}
		md.Set(GRPCKey, value)
		return nil
	}
}
