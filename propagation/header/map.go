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
	"strings"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
)

// Map is a carrier for string maps such as message properties. Keys are
// matched case-insensitively on extraction.
type Map map[string]string

// Extract will extract a correlation vector value from the map if found.
func (m Map) Extract() cv.Extractor {
	return func() (string, error) {
		var values []string
		for k, v := range m {
			if strings.EqualFold(k, Name) {
				values = append(values, v)
			}
		}
		return Single(values)
	}
}

// Inject will inject a correlation vector value into the map under the
// canonical header name.
func (m Map) Inject() cv.Injector {
	return func(value string) error {
		if value == "" {
			return ErrEmptyValue
		}
		for k := range m {
			if strings.EqualFold(k, Name) {
				delete(m, k)
			}
		}
		m[Name] = value
		return nil
	}
}
