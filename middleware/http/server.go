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
Package http contains several http middlewares which can be used for
propagating correlation vectors through HTTP servers and clients.
*/
package http

import (
	"io"
	"net/http"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
)

type handler struct {
	generator      *cv.Generator
	next           http.Handler
	spin           *cv.SpinParameters
	responseHeader bool
	rejectInvalid  bool
}

// ServerOption allows Middleware to be optionally configured.
type ServerOption func(*handler)

// SpinOnReceive instructs the middleware to spin the upstream value with the
// provided parameters instead of extending it. Use this for services that
// cannot coordinate their increments with the caller, e.g. when requests are
// retried or fanned out by a proxy.
func SpinOnReceive(p cv.SpinParameters) ServerOption {
	return func(h *handler) {
		h.spin = &p
	}
}

// ResponseHeader will instruct the middleware to return the vector value in
// the MS-CV response header.
func ResponseHeader(enabled bool) ServerOption {
	return func(h *handler) {
		h.responseHeader = enabled
	}
}

// RejectInvalid will instruct the middleware to answer requests carrying an
// invalid MS-CV header with 400 Bad Request. It only has effect with a
// validating Generator; by default a fresh vector is started instead.
func RejectInvalid(enabled bool) ServerOption {
	return func(h *handler) {
		h.rejectInvalid = enabled
	}
}

// NewServerMiddleware returns a http.Handler middleware which extends the
// correlation vector found in the request and stores it in the request
// context. Use cv.FromContext to retrieve it. If g is nil a lenient
// Generator is used.
func NewServerMiddleware(g *cv.Generator, options ...ServerOption) func(http.Handler) http.Handler {
	if g == nil {
		g, _ = cv.NewGenerator()
	}
	return func(next http.Handler) http.Handler {
		h := &handler{
			generator: g,
			next:      next,
		}
		for _, option := range options {
			option(h)
		}
		return h
	}
}

// ServeHTTP implements http.Handler.
func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		v   *cv.CorrelationVector
		err error
	)

	// try to extract MS-CV from upstream
	if h.spin != nil {
		v, err = h.generator.ExtractSpin(header.ExtractHTTP(r), *h.spin)
	} else {
		v, err = h.generator.Extract(header.ExtractHTTP(r))
	}
	if err != nil {
		if h.rejectInvalid {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		v = h.generator.Start()
	}

	ctx := cv.NewContext(r.Context(), v)

	if !h.responseHeader {
		h.next.ServeHTTP(w, r.WithContext(ctx))
		return
	}

	ri := &rwInterceptor{w: w, v: v}
	h.next.ServeHTTP(ri.wrap(), r.WithContext(ctx))

	// handler did not write anything, headers are still pending
	ri.setHeader()
}

// rwInterceptor intercepts the ResponseWriter so the vector value can be
// set right before the response headers are sent.
type rwInterceptor struct {
	w    http.ResponseWriter
	v    *cv.CorrelationVector
	sent bool
}

func (r *rwInterceptor) Header() http.Header {
	return r.w.Header()
}

func (r *rwInterceptor) Write(b []byte) (int, error) {
	r.setHeader()
	return r.w.Write(b)
}

func (r *rwInterceptor) WriteHeader(i int) {
	r.setHeader()
	r.w.WriteHeader(i)
}

// Unwrap is used by http.ResponseController.
func (r *rwInterceptor) Unwrap() http.ResponseWriter {
	return r.w
}

func (r *rwInterceptor) setHeader() {
	if r.sent {
		return
	}
	r.sent = true
	_ = header.InjectHTTPResponse(r.w.Header())(r.v.Value())
}

func (r *rwInterceptor) readFrom(src io.Reader) (int64, error) {
	r.setHeader()
	return r.w.(io.ReaderFrom).ReadFrom(src)
}

func (r *rwInterceptor) flush() {
	r.setHeader()
	r.w.(http.Flusher).Flush()
}

type flusherFunc func()

func (f flusherFunc) Flush() { f() }

type readerFromFunc func(io.Reader) (int64, error)

func (f readerFromFunc) ReadFrom(src io.Reader) (int64, error) { return f(src) }

func (r *rwInterceptor) wrap() http.ResponseWriter {
	var (
		hj, i0 = r.w.(http.Hijacker)
		_, i1  = r.w.(http.Flusher)
		_, i2  = r.w.(io.ReaderFrom)
		fl     = flusherFunc(r.flush)
		rf     = readerFromFunc(r.readFrom)
	)

	switch {
	case !i0 && !i1 && !i2:
		return struct {
			http.ResponseWriter
		}{r}
	case !i0 && !i1 && i2:
		return struct {
			http.ResponseWriter
			io.ReaderFrom
		}{r, rf}
	case !i0 && i1 && !i2:
		return struct {
			http.ResponseWriter
			http.Flusher
		}{r, fl}
	case !i0 && i1 && i2:
		return struct {
			http.ResponseWriter
			http.Flusher
			io.ReaderFrom
		}{r, fl, rf}
	case i0 && !i1 && !i2:
		return struct {
			http.ResponseWriter
			http.Hijacker
		}{r, hj}
	case i0 && !i1 && i2:
		return struct {
			http.ResponseWriter
			http.Hijacker
			io.ReaderFrom
		}{r, hj, rf}
	case i0 && i1 && !i2:
		return struct {
			http.ResponseWriter
			http.Hijacker
			http.Flusher
		}{r, hj, fl}
	default:
		return struct {
			http.ResponseWriter
			http.Hijacker
			http.Flusher
			io.ReaderFrom
		}{r, hj, fl, rf}
	}
}
