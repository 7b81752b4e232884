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

package http

import (
	"net/http"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
)

type transport struct {
	generator *cv.Generator
	rt        http.RoundTripper
	startNew  bool
}

// TransportOption allows one to configure optional transport configuration.
type TransportOption func(*transport)

// WithRoundTripper adds the Transport RoundTripper to wrap.
func WithRoundTripper(rt http.RoundTripper) TransportOption {
	return func(t *transport) {
		if rt != nil {
			t.rt = rt
		}
	}
}

// StartNew instructs the transport to start a fresh vector for requests
// whose context does not hold one. By default such requests are sent
// without an MS-CV header.
func StartNew(enabled bool) TransportOption {
	return func(t *transport) {
		t.startNew = enabled
	}
}

// NewTransport returns a new http.RoundTripper which increments the
// correlation vector found in the request context and sends the new value
// in the MS-CV header.
func NewTransport(g *cv.Generator, options ...TransportOption) (http.RoundTripper, error) {
	if g == nil {
		return nil, ErrValidGeneratorRequired
	}

	t := &transport{
		generator: g,
		rt:        http.DefaultTransport,
	}

	for _, option := range options {
		option(t)
	}

	return t, nil
}

// RoundTrip satisfies the RoundTripper interface.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	v := cv.FromContext(req.Context())
	if v == nil {
		if !t.startNew {
			return t.rt.RoundTrip(req)
		}
		v = t.generator.Start()
	}

	// a RoundTripper must not modify the caller's request
	req = req.Clone(req.Context())
	if err := cv.Inject(v, header.InjectHTTP(req)); err != nil {
		return nil, err
	}

	return t.rt.RoundTrip(req)
}
