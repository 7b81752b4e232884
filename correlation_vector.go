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
Package cv implements correlation vectors: versioned, appendable text
identifiers that follow a causal chain of operations across service
boundaries.

A vector renders as

	<base>.<extension>[!]

where the base is a fixed length random segment (16 characters for V1, 22
for V2) optionally followed by the segments added by upstream services, and
the extension is a counter owned by the current service. Services extend or
spin the value received from upstream and increment it before every
outbound call. A vector that would exceed the maximum length of its version
is frozen and rendered with a trailing '!'.
*/
package cv

import (
	"math"
	"strconv"
	"sync/atomic"
)

// CorrelationVector is a correlation vector value. Its extension can be
// incremented concurrently; share it by pointer, never copy it.
type CorrelationVector struct {
	base      string
	version   Version
	extension atomic.Int32
	immutable atomic.Bool
}

func newVector(base string, extension int32, version Version, immutable bool) *CorrelationVector {
	v := &CorrelationVector{base: base, version: version}
	v.extension.Store(extension)
	v.immutable.Store(immutable)
	return v
}

// Base returns everything before the extension.
func (v *CorrelationVector) Base() string { return v.base }

// Extension returns the current extension.
func (v *CorrelationVector) Extension() int32 { return v.extension.Load() }

// Version returns the format version.
func (v *CorrelationVector) Version() Version { return v.version }

// IsImmutable reports whether the vector is terminated.
func (v *CorrelationVector) IsImmutable() bool { return v.immutable.Load() }

// Value returns the wire representation of the vector.
func (v *CorrelationVector) Value() string {
	s := v.base + string(Delimiter) + strconv.Itoa(int(v.extension.Load()))
	if v.immutable.Load() {
		s += string(Terminator)
	}
	return s
}

// String implements fmt.Stringer.
func (v *CorrelationVector) String() string {
	return v.Value()
}

// Increment advances the extension by one and returns the new value, to be
// placed on an outbound message. It is safe for concurrent use: every caller
// observes a distinct extension. A terminated vector, or one whose extension
// reached math.MaxInt32, is returned unchanged. If the next value would
// exceed the maximum length the vector is terminated instead.
func (v *CorrelationVector) Increment() string {
	if v.immutable.Load() {
		return v.Value()
	}

	for {
		snapshot := v.extension.Load()
		if snapshot == math.MaxInt32 {
			return v.Value()
		}

		next := snapshot + 1
		if isOversized(v.base, next, v.version) {
			v.immutable.Store(true)
			return v.Value()
		}

		if v.extension.CompareAndSwap(snapshot, next) {
			return v.base + string(Delimiter) + strconv.Itoa(int(next))
		}
	}
}

// Equal reports whether o has the same base and extension as v. Version and
// termination are not compared.
func (v *CorrelationVector) Equal(o *CorrelationVector) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.base == o.base && v.extension.Load() == o.extension.Load()
}

// MarshalText implements encoding.TextMarshaler.
func (v *CorrelationVector) MarshalText() ([]byte, error) {
	return []byte(v.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It follows the rules of
// Parse. It must only be called on a vector that is not yet shared with
// other goroutines.
func (v *CorrelationVector) UnmarshalText(text []byte) error {
	base, extension, version, immutable, err := parse(string(text))
	if err != nil {
		return err
	}
	v.base = base
	v.version = version
	v.extension.Store(extension)
	v.immutable.Store(immutable)
	return nil
}
