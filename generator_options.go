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

import (
	"errors"
	"io"
	"time"

	"github.com/openzipkin-contrib/zipkin-go-cv/diagnostics"
)

// Generator Option Errors
var (
	ErrInvalidDefaultVersion   = errors.New("invalid default version provided")
	ErrInvalidSink             = errors.New("requires valid diagnostic sink")
	ErrInvalidIdentifierSource = errors.New("requires valid identifier source")
	ErrInvalidClock            = errors.New("requires valid clock")
	ErrInvalidEntropySource    = errors.New("requires valid entropy source")
)

// GeneratorOption allows for functional options to adjust behavior of the
// Generator to be created with NewGenerator().
type GeneratorOption func(g *Generator) error

// WithValidation enables or disables validation of received values. A
// validating generator returns failures to the caller and reports them to
// its sink. By default validation is disabled: values from untrusted
// upstreams yield a best-effort vector instead of an error.
func WithValidation(enabled bool) GeneratorOption {
	return func(g *Generator) error {
		g.validate = enabled
		return nil
	}
}

// WithSink sets the sink validation failures are reported to.
func WithSink(sink diagnostics.Sink) GeneratorOption {
	return func(g *Generator) error {
		if sink == nil {
			return ErrInvalidSink
		}
		g.sink = sink
		return nil
	}
}

// WithIdentifierSource sets the source of random bases for fresh vectors.
func WithIdentifierSource(ids IdentifierSource) GeneratorOption {
	return func(g *Generator) error {
		if ids == nil {
			return ErrInvalidIdentifierSource
		}
		g.ids = ids
		return nil
	}
}

// WithClock sets the time source used by the spin operator.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) error {
		if now == nil {
			return ErrInvalidClock
		}
		g.now = now
		return nil
	}
}

// WithEntropy sets the source of the random bytes used by the spin
// operator. Defaults to crypto/rand. Reads are serialized by the generator,
// so r need not be safe for concurrent use.
func WithEntropy(r io.Reader) GeneratorOption {
	return func(g *Generator) error {
		if r == nil {
			return ErrInvalidEntropySource
		}
		g.entropy = r
		return nil
	}
}

// WithDefaultVersion sets the version of the vectors started when no
// upstream value is found. Defaults to V1.
func WithDefaultVersion(v Version) GeneratorOption {
	return func(g *Generator) error {
		if !v.Valid() {
			return ErrInvalidDefaultVersion
		}
		g.defaultVersion = v
		return nil
	}
}
