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
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openzipkin-contrib/zipkin-go-cv/diagnostics"
)

// tickingClock advances by step on every call.
type tickingClock struct {
	now  time.Time
	step time.Duration
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestSpinParametersValidate(t *testing.T) {
	if err := DefaultSpinParameters().Validate(); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if want, have := 32, DefaultSpinParameters().TotalBits(); want != have {
		t.Errorf("TotalBits want %d, have %d", want, have)
	}

	for _, tc := range []struct {
		p   SpinParameters
		err error
	}{
		{SpinParameters{Interval: 20, Periodicity: ShortPeriodicity}, ErrInvalidSpinInterval},
		{SpinParameters{Interval: Fine, Periodicity: 8}, ErrInvalidSpinPeriodicity},
		{SpinParameters{Interval: Fine, Entropy: 5}, ErrInvalidSpinEntropy},
		{SpinParameters{Interval: Fine, Entropy: -1}, ErrInvalidSpinEntropy},
	} {
		if want, have := tc.err, tc.p.Validate(); want != have {
			t.Errorf("%+v: error want %v, have %v", tc.p, want, have)
		}
		if _, err := SpinWith("tul4NUsfs9Cl7mOf.1", tc.p); !errors.Is(err, tc.err) {
			t.Errorf("%+v: SpinWith error want %v, have %v", tc.p, tc.err, err)
		}
	}
}

func TestSpinSegment(t *testing.T) {
	at := time.Unix(0, 100<<24)

	for _, tc := range []struct {
		name    string
		p       SpinParameters
		entropy []byte
		want    string
	}{
		{"counter only", SpinParameters{Coarse, ShortPeriodicity, NoEntropy}, nil, "1"},
		{"entropy only", SpinParameters{Coarse, NoPeriodicity, TwoBytes}, []byte{0x01, 0x02}, "258"},
		{"counter and entropy", SpinParameters{Coarse, ShortPeriodicity, OneByte}, []byte{0xff}, "511"},
		{"one segment", SpinParameters{Coarse, LongPeriodicity, NoEntropy}, nil, "1"},
		{"two segments", SpinParameters{Coarse, LongPeriodicity, FourBytes}, []byte{0, 0, 0, 7}, "1.7"},
		{"masked high word", SpinParameters{Coarse, LongPeriodicity, TwoBytes}, []byte{0, 7}, "0.65543"},
		{"nothing", SpinParameters{Coarse, NoPeriodicity, NoEntropy}, nil, "0"},
	} {
		if have := spinSegment(at, tc.entropy, tc.p); tc.want != have {
			t.Errorf("%s: want %q, have %q", tc.name, tc.want, have)
		}
	}
}

func TestSpinAppendsSegment(t *testing.T) {
	clock := &tickingClock{now: time.Unix(1700000000, 0), step: time.Second}
	g, err := NewGenerator(
		WithClock(clock.Now),
		WithEntropy(bytes.NewReader([]byte{0xaa, 0xbb})),
	)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	v, err := g.Spin("tul4NUsfs9Cl7mOf.1", DefaultSpinParameters())
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	parts := strings.Split(v.Value(), ".")
	if want, have := 4, len(parts); want != have {
		t.Fatalf("Segments want %d, have %d (%s)", want, have, v)
	}
	spin, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if want, have := uint64(0xaabb), spin&0xffff; want != have {
		t.Errorf("Entropy bits want %x, have %x", want, have)
	}
	if want, have := "0", parts[3]; want != have {
		t.Errorf("Extension want %s, have %s", want, have)
	}
}

func TestSpinSortValidation(t *testing.T) {
	clock := &tickingClock{now: time.Unix(1700000000, 0), step: 10 * time.Millisecond}
	g, err := NewGenerator(WithClock(clock.Now))
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	p := SpinParameters{
		Interval:    Fine,
		Periodicity: ShortPeriodicity,
		Entropy:     TwoBytes,
	}

	var (
		v       = New()
		last    uint64
		wrapped int
	)
	for i := 0; i < 100; i++ {
		spun, err := g.Spin(v.Value(), p)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		// <base>.0.<spin>.0
		parts := strings.Split(spun.Value(), ".")
		value, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}
		if value <= last {
			wrapped++
		}
		last = value
	}

	if wrapped > 1 {
		t.Errorf("Expected the counter to wrap at most once, wrapped %d times", wrapped)
	}
}

func TestSpinOverMaxLength(t *testing.T) {
	for _, in := range []string{
		"tul4NUsfs9Cl7mOf.2147483647.2147483647.2147483647.214748364.23",
		v2Long,
	} {
		v := Spin(in)
		if want, have := in+"!", v.Value(); want != have {
			t.Errorf("Spin want %q, have %q", want, have)
		}
	}
}

func TestSpinEntropyFailureIsReported(t *testing.T) {
	sink := diagnostics.NewQueue()
	g, _ := NewGenerator(WithSink(sink), WithEntropy(bytes.NewReader(nil)))

	v, err := g.Spin("tul4NUsfs9Cl7mOf.1", DefaultSpinParameters())
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if v == nil || !strings.HasPrefix(v.Value(), "tul4NUsfs9Cl7mOf.1.") {
		t.Errorf("Expected spun vector, have %v", v)
	}
	if !sink.HasErrors() {
		t.Errorf("Expected entropy failure to be reported")
	}
}

func TestConcurrentSpinSharesEntropySource(t *testing.T) {
	const (
		workers = 8
		calls   = 50
	)
	p := DefaultSpinParameters()
	source := bytes.NewReader(bytes.Repeat([]byte{0x5a}, workers*calls*int(p.Entropy)))
	sink := diagnostics.NewQueue()
	g, _ := NewGenerator(WithSink(sink), WithEntropy(source))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				v, err := g.Spin("tul4NUsfs9Cl7mOf.1", p)
				if err != nil || v == nil {
					t.Errorf("unexpected spin result %v (err %v)", v, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if sink.HasErrors() {
		t.Errorf("Expected every spin to read its entropy, have %v", sink.Errors())
	}
	if want, have := 0, source.Len(); want != have {
		t.Errorf("Unread entropy want %d, have %d", want, have)
	}
}
