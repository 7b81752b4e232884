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
	"strings"
)

// Validation error kinds. A *ValidationError unwraps to one of these.
var (
	ErrMalformed          = errors.New("malformed correlation vector")
	ErrOversized          = errors.New("correlation vector exceeds maximum length")
	ErrUnsupportedVersion = errors.New("unsupported correlation vector version")
)

// ValidationError describes why a correlation vector was rejected.
type ValidationError struct {
	Kind    error  // ErrMalformed, ErrOversized or ErrUnsupportedVersion
	Vector  string // the offending input
	Segment string // the offending segment, if any
	Reason  string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	sb.WriteString(" ")
	sb.WriteString(quote(e.Vector))
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Segment != "" {
		sb.WriteString(" (segment ")
		sb.WriteString(quote(e.Segment))
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the error kind.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func quote(s string) string {
	return `"` + s + `"`
}
