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
	"strconv"
	"time"
)

// Spin parameter errors
var (
	ErrInvalidSpinInterval    = errors.New("invalid spin counter interval")
	ErrInvalidSpinPeriodicity = errors.New("invalid spin counter periodicity")
	ErrInvalidSpinEntropy     = errors.New("invalid spin entropy")
)

// SpinCounterInterval is the number of least significant tick bits dropped
// before the counter is taken. A tick is 100ns.
type SpinCounterInterval int

// Spin counter intervals
const (
	// Coarse increments the counter roughly every 1.67 seconds.
	Coarse SpinCounterInterval = 24
	// Fine increments the counter roughly every 6.5 milliseconds.
	Fine SpinCounterInterval = 16
)

// SpinCounterPeriodicity is the number of bits the counter is stored in,
// which determines how often it wraps around to zero.
type SpinCounterPeriodicity int

// Spin counter periodicities
const (
	NoPeriodicity     SpinCounterPeriodicity = 0
	ShortPeriodicity  SpinCounterPeriodicity = 16
	MediumPeriodicity SpinCounterPeriodicity = 24
	LongPeriodicity   SpinCounterPeriodicity = 32
)

// SpinEntropy is the number of random bytes appended below the counter.
type SpinEntropy int

// Spin entropy sizes
const (
	NoEntropy  SpinEntropy = 0
	OneByte    SpinEntropy = 1
	TwoBytes   SpinEntropy = 2
	ThreeBytes SpinEntropy = 3
	FourBytes  SpinEntropy = 4
)

// SpinParameters configure the spin operator.
type SpinParameters struct {
	Interval    SpinCounterInterval
	Periodicity SpinCounterPeriodicity
	Entropy     SpinEntropy
}

// DefaultSpinParameters returns a Coarse interval, Short periodicity and two
// bytes of entropy.
func DefaultSpinParameters() SpinParameters {
	return SpinParameters{
		Interval:    Coarse,
		Periodicity: ShortPeriodicity,
		Entropy:     TwoBytes,
	}
}

// Validate returns an error if any parameter is out of range.
func (p SpinParameters) Validate() error {
	switch p.Interval {
	case Coarse, Fine:
	default:
		return ErrInvalidSpinInterval
	}
	switch p.Periodicity {
	case NoPeriodicity, ShortPeriodicity, MediumPeriodicity, LongPeriodicity:
	default:
		return ErrInvalidSpinPeriodicity
	}
	if p.Entropy < NoEntropy || p.Entropy > FourBytes {
		return ErrInvalidSpinEntropy
	}
	return nil
}

// TotalBits is the width of the spin value.
func (p SpinParameters) TotalBits() int {
	return int(p.Periodicity) + int(p.Entropy)*8
}

// ticks converts t to 100ns units since the Unix epoch.
func ticks(t time.Time) uint64 {
	return uint64(t.UnixNano() / 100)
}

// spinSegment derives the spin value from t and entropy and renders it. Values
// wider than 32 bits are rendered as two segments, high word first.
func spinSegment(t time.Time, entropy []byte, p SpinParameters) string {
	value := ticks(t) >> uint(p.Interval)
	for _, b := range entropy {
		value = value<<8 | uint64(b)
	}

	if totalBits := p.TotalBits(); totalBits < 64 {
		value &= 1<<uint(totalBits) - 1
	}

	s := strconv.FormatUint(uint64(uint32(value)), 10)
	if p.TotalBits() > 32 {
		s = strconv.FormatUint(value>>32, 10) + string(Delimiter) + s
	}
	return s
}
