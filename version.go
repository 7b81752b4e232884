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
)

// Wire format characters.
const (
	// Delimiter separates the base from each extension segment.
	Delimiter = '.'
	// Terminator marks a vector that reached its maximum length and must
	// only be echoed from then on.
	Terminator = '!'
)

// HeaderName is the header carrying a correlation vector between services.
const HeaderName = "MS-CV"

// Version of the correlation vector format.
type Version int

// Supported format versions.
const (
	V1 Version = iota + 1
	V2
)

const (
	baseLengthV1 = 16
	baseLengthV2 = 22
	maxLengthV1  = 63
	maxLengthV2  = 127
)

// String returns the version name.
func (v Version) String() string {
	switch v {
	case V1:
		return "V1"
	case V2:
		return "V2"
	default:
		return "Version(" + strconv.Itoa(int(v)) + ")"
	}
}

// Valid reports whether v is a supported version.
func (v Version) Valid() bool {
	return v == V1 || v == V2
}

// BaseLength returns the length of the base segment for the version, or 0
// for an unsupported version.
func (v Version) BaseLength() int {
	switch v {
	case V1:
		return baseLengthV1
	case V2:
		return baseLengthV2
	}
	return 0
}

// MaxLength returns the maximum length of a serialized vector, terminator
// excluded, or 0 for an unsupported version.
func (v Version) MaxLength() int {
	switch v {
	case V1:
		return maxLengthV1
	case V2:
		return maxLengthV2
	}
	return 0
}

// InferVersion derives the format version from the length of the first
// segment of s. Inference is purely length based: a first segment matching
// neither base length resolves to V1 together with an error of kind
// ErrUnsupportedVersion, which callers may ignore.
func InferVersion(s string) (Version, error) {
	first := s
	if i := strings.IndexByte(s, Delimiter); i >= 0 {
		first = s[:i]
	}
	switch len(first) {
	case baseLengthV2:
		return V2, nil
	case baseLengthV1:
		return V1, nil
	}
	return V1, &ValidationError{
		Kind:    ErrUnsupportedVersion,
		Vector:  s,
		Segment: first,
		Reason:  "base length " + strconv.Itoa(len(first)) + " matches no known version",
	}
}

// isOversized reports whether base extended with extension would exceed the
// maximum length of version. An empty base never counts as oversized.
func isOversized(base string, extension int32, version Version) bool {
	if base == "" {
		return false
	}
	return len(base)+1+digits(extension) > version.MaxLength()
}

func digits(i int32) int {
	n := 1
	for i >= 10 {
		i /= 10
		n++
	}
	return n
}

func isTerminated(s string) bool {
	return len(s) > 0 && s[len(s)-1] == Terminator
}
