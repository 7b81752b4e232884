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
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openzipkin-contrib/zipkin-go-cv/diagnostics"
)

// Generator creates correlation vectors. Its options decide whether
// malformed input is rejected or tolerated, and where rejections are
// reported. A Generator is safe for concurrent use.
type Generator struct {
	validate       bool
	sink           diagnostics.Sink
	ids            IdentifierSource
	now            func() time.Time
	entropyMtx     sync.Mutex // guards entropy
	entropy        io.Reader
	defaultVersion Version
}

// NewGenerator returns a new Generator. Without options it is lenient:
// malformed input still yields a best-effort vector and nothing is reported.
func NewGenerator(options ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		sink:           diagnostics.Discard,
		ids:            RandomUUID{},
		now:            time.Now,
		entropy:        rand.Reader,
		defaultVersion: V1,
	}
	for _, option := range options {
		if err := option(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Validates reports whether the generator validates input on creation.
func (g *Generator) Validates() bool {
	return g.validate
}

// New returns a fresh vector of the given version.
func (g *Generator) New(version Version) (*CorrelationVector, error) {
	if !version.Valid() {
		return nil, &ValidationError{
			Kind:   ErrUnsupportedVersion,
			Reason: version.String(),
		}
	}
	return newVector(baseFromIdentifier(g.ids.NewIdentifier(), version), 0, version, false), nil
}

// NewFromGUID returns a fresh V2 vector whose base is derived from id.
func (g *Generator) NewFromGUID(id uuid.UUID) *CorrelationVector {
	return newVector(baseFromIdentifier(id, V2), 0, V2, false)
}

// Start returns a fresh vector of the generator's default version.
func (g *Generator) Start() *CorrelationVector {
	v, _ := g.New(g.defaultVersion)
	return v
}

// Extend starts a new extension segment on a value received from upstream.
// A terminated value is parsed and returned as is. A value that cannot take
// another segment is returned terminated.
//
// An error is only returned by a validating generator.
func (g *Generator) Extend(s string) (*CorrelationVector, error) {
	if isTerminated(s) {
		return g.reparse(s)
	}

	version, err := g.check(s)
	if err != nil {
		return nil, err
	}

	if isOversized(s, 0, version) {
		return g.reparse(s + string(Terminator))
	}
	return newVector(s, 0, version, false), nil
}

// Spin appends a segment derived from the current time and random entropy
// to a value received from upstream, then starts a new extension. Values
// spun at the same call site sort roughly by time; ties and counter wraps
// are possible. A terminated value is parsed and returned as is. If the spin
// segment does not fit, s itself is returned terminated.
//
// An error is returned for invalid parameters, or by a validating
// generator for invalid input.
func (g *Generator) Spin(s string, p SpinParameters) (*CorrelationVector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if isTerminated(s) {
		return g.reparse(s)
	}

	version, err := g.check(s)
	if err != nil {
		return nil, err
	}

	entropy := make([]byte, p.Entropy)
	g.entropyMtx.Lock()
	_, err = io.ReadFull(g.entropy, entropy)
	g.entropyMtx.Unlock()
	if err != nil {
		g.sink.Report("spin entropy unavailable: " + err.Error())
	}

	base := s + string(Delimiter) + spinSegment(g.now(), entropy, p)
	if isOversized(base, 0, version) {
		return g.reparse(s + string(Terminator))
	}
	return newVector(base, 0, version, false), nil
}

// Parse reconstructs a vector from its wire representation, including
// termination. Unlike Extend it does not start a new segment: the last
// segment becomes the extension. Malformed input yields an error of kind
// ErrMalformed.
func (g *Generator) Parse(s string) (*CorrelationVector, error) {
	base, extension, version, immutable, err := parse(s)
	if err == nil && g.validate {
		err = Validate(s, version)
	}
	if err != nil {
		if g.validate {
			g.report(err)
		}
		return nil, err
	}
	return newVector(base, extension, version, immutable), nil
}

// Extract reads a value from a carrier and extends it. Without an upstream
// value a fresh vector of the default version is started. A lenient
// generator also starts fresh when the carrier fails.
func (g *Generator) Extract(extract Extractor) (*CorrelationVector, error) {
	s, err := g.extract(extract)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return g.Start(), nil
	}
	return g.Extend(s)
}

// ExtractSpin reads a value from a carrier and spins it. Without an
// upstream value a fresh vector of the default version is started.
func (g *Generator) ExtractSpin(extract Extractor, p SpinParameters) (*CorrelationVector, error) {
	s, err := g.extract(extract)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return g.Start(), nil
	}
	return g.Spin(s, p)
}

func (g *Generator) extract(extract Extractor) (string, error) {
	s, err := extract()
	if err != nil {
		if !g.validate {
			return "", nil
		}
		g.report(err)
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// check infers the version of s and, on a validating generator, validates
// it.
func (g *Generator) check(s string) (Version, error) {
	version, err := InferVersion(s)
	if !g.validate {
		return version, nil
	}
	if err == nil {
		err = Validate(s, version)
	}
	if err != nil {
		g.report(err)
		return version, err
	}
	return version, nil
}

// reparse parses a terminated value. A lenient generator falls back to a
// fresh vector when the value is malformed.
func (g *Generator) reparse(s string) (*CorrelationVector, error) {
	v, err := g.Parse(s)
	if err != nil && !g.validate {
		return g.Start(), nil
	}
	return v, err
}

func (g *Generator) report(err error) {
	g.sink.Report(err.Error())
}

func parse(s string) (base string, extension int32, version Version, immutable bool, err error) {
	malformed := func(segment, reason string) error {
		return &ValidationError{Kind: ErrMalformed, Vector: s, Segment: segment, Reason: reason}
	}

	p := strings.LastIndexByte(s, Delimiter)
	if p <= 0 {
		err = malformed("", "no extension")
		return
	}

	immutable = isTerminated(s)
	last := s[p+1:]
	if immutable {
		last = last[:len(last)-1]
	}

	var ok bool
	if extension, ok = parseExtension(last); !ok {
		err = malformed(last, "invalid extension")
		return
	}

	base = s[:p]
	version, _ = InferVersion(base)
	return
}

var defaultGenerator, _ = NewGenerator()

// New returns a fresh V1 vector.
func New() *CorrelationVector {
	v, _ := defaultGenerator.New(V1)
	return v
}

// NewV2 returns a fresh V2 vector.
func NewV2() *CorrelationVector {
	v, _ := defaultGenerator.New(V2)
	return v
}

// NewFromGUID returns a fresh V2 vector whose base is derived from id.
func NewFromGUID(id uuid.UUID) *CorrelationVector {
	return defaultGenerator.NewFromGUID(id)
}

// Extend extends s without validating it. See Generator.Extend.
func Extend(s string) *CorrelationVector {
	v, _ := defaultGenerator.Extend(s)
	return v
}

// Spin spins s with DefaultSpinParameters without validating it. See
// Generator.Spin.
func Spin(s string) *CorrelationVector {
	v, _ := defaultGenerator.Spin(s, DefaultSpinParameters())
	return v
}

// SpinWith spins s with p without validating it. An error is only returned
// for invalid parameters.
func SpinWith(s string, p SpinParameters) (*CorrelationVector, error) {
	return defaultGenerator.Spin(s, p)
}

// Parse parses s. See Generator.Parse.
func Parse(s string) (*CorrelationVector, error) {
	return defaultGenerator.Parse(s)
}
