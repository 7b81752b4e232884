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
	"strconv"
	"strings"
	"unicode"
)

// Validate checks s against the format rules of version. A single trailing
// terminator is accepted. The returned error, if any, is a *ValidationError.
func Validate(s string, version Version) error {
	if !version.Valid() {
		return &ValidationError{
			Kind:   ErrUnsupportedVersion,
			Vector: s,
			Reason: version.String(),
		}
	}

	if strings.TrimSpace(s) == "" {
		return &ValidationError{
			Kind:   ErrMalformed,
			Vector: s,
			Reason: "empty or whitespace only",
		}
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return &ValidationError{
			Kind:   ErrMalformed,
			Vector: s,
			Reason: "contains whitespace",
		}
	}

	body := strings.TrimSuffix(s, string(Terminator))
	if limit := version.MaxLength(); len(body) > limit {
		return &ValidationError{
			Kind:   ErrOversized,
			Vector: s,
			Reason: "longer than " + strconv.Itoa(limit) + " characters",
		}
	}

	parts := strings.Split(body, string(Delimiter))
	if len(parts) < 2 || len(parts[0]) != version.BaseLength() {
		return &ValidationError{
			Kind:    ErrMalformed,
			Vector:  s,
			Segment: parts[0],
			Reason:  "invalid base for " + version.String(),
		}
	}

	for _, part := range parts[1:] {
		if _, ok := parseExtension(part); !ok {
			return &ValidationError{
				Kind:    ErrMalformed,
				Vector:  s,
				Segment: part,
				Reason:  "invalid extension",
			}
		}
	}
	return nil
}

// parseExtension accepts only the canonical decimal rendering of a value in
// [0, MaxInt32]: no sign, no leading zeros, nothing trailing.
func parseExtension(s string) (int32, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0, false
	}
	if digits(int32(n)) != len(s) {
		return 0, false
	}
	return int32(n), true
}
