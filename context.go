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

package cv

import "context"

// FromContext retrieves a CorrelationVector from Go's context propagation
// mechanism if found. If not found, returns nil.
func FromContext(ctx context.Context) *CorrelationVector {
	if v, ok := ctx.Value(vectorKey).(*CorrelationVector); ok {
		return v
	}
	return nil
}

// NewContext stores a CorrelationVector into Go's context propagation
// mechanism.
func NewContext(ctx context.Context, v *CorrelationVector) context.Context {
	return context.WithValue(ctx, vectorKey, v)
}

type ctxKey struct{}

var vectorKey = ctxKey{}
