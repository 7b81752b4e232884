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
	"errors"
	"net/http"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
)

// ErrValidGeneratorRequired error
var ErrValidGeneratorRequired = errors.New("valid generator required")

// Client holds an HTTP Client propagating correlation vectors.
type Client struct {
	*http.Client
	generator *cv.Generator
}

// NewClient returns an HTTP Client propagating correlation vectors around an
// embedded standard Go http.Client.
func NewClient(g *cv.Generator, client *http.Client, options ...TransportOption) (*Client, error) {
	if g == nil {
		return nil, ErrValidGeneratorRequired
	}

	if client == nil {
		client = &http.Client{}
	}

	options = append(options, WithRoundTripper(client.Transport))
	transport, err := NewTransport(g, options...)
	if err != nil {
		return nil, err
	}
	client.Transport = transport

	return &Client{generator: g, Client: client}, nil
}

// DoWithVector wraps http.Client's Do, sending v with the request. If v is
// nil a fresh vector is started. The vector used is returned alongside the
// response so subsequent calls can continue it.
func (c *Client) DoWithVector(req *http.Request, v *cv.CorrelationVector) (*http.Response, *cv.CorrelationVector, error) {
	if v == nil {
		v = c.generator.Start()
	}
	res, err := c.Client.Do(req.WithContext(cv.NewContext(req.Context(), v)))
	return res, v, err
}
