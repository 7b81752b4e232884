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
Package header implements correlation vector propagation through HTTP
headers, gRPC metadata and plain string maps.
*/
package header

import (
	"errors"
	"strings"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
)

// Common Header Extraction / Injection errors
var (
	ErrConflictingHeaders = errors.New("conflicting MS-CV header values found")
	ErrEmptyValue         = errors.New("empty correlation vector value")
)

// Name is the canonical header name.
const Name = cv.HeaderName

// GRPCKey is the gRPC metadata key. gRPC lowercases all keys.
var GRPCKey = strings.ToLower(Name)

// Single returns the value of a header that may have been sent more than
// once. Repeated identical values are tolerated, differing ones are not.
func Single(values []string) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return "", ErrConflictingHeaders
		}
	}
	return values[0], nil
}
