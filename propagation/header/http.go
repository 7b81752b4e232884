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
	"net/http"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
)

// ExtractHTTP will extract a correlation vector value from the HTTP Request
// if found.
func ExtractHTTP(r *http.Request) cv.Extractor {
	return func() (string, error) {
		return Single(r.Header.Values(Name))
	}
}

// InjectHTTP will inject a correlation vector value into a HTTP Request,
// replacing any value already present.
func InjectHTTP(r *http.Request) cv.Injector {
	return func(value string) error {
		if value == "" {
			return ErrEmptyValue
		}
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(Name, value)
		return nil
	}
}

// InjectHTTPResponse will inject a correlation vector value into HTTP
// response headers.
func InjectHTTPResponse(h http.Header) cv.Injector {
	return func(value string) error {
		if value == "" {
			return ErrEmptyValue
		}
		h.Set(Name, value)
		return nil
	}
}
