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
	"encoding/base64"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// IdentifierSource supplies the 128 random bits a fresh vector base is
// derived from.
type IdentifierSource interface {
	NewIdentifier() uuid.UUID
}

// RandomUUID draws random (version 4) UUIDs. It is the default source.
type RandomUUID struct{}

// NewIdentifier implements IdentifierSource.
func (RandomUUID) NewIdentifier() uuid.UUID {
	return uuid.New()
}

// SeededRandom produces a reproducible identifier sequence. Use it in tests.
type SeededRandom struct {
	mtx sync.Mutex
	rnd *rand.Rand
}

// NewSeededRandom returns a SeededRandom source for seed.
func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{rnd: rand.New(rand.NewSource(seed))}
}

// NewIdentifier implements IdentifierSource.
func (s *SeededRandom) NewIdentifier() (id uuid.UUID) {
	s.mtx.Lock()
	// The golang rand generators are *not* intrinsically thread-safe.
	_, _ = s.rnd.Read(id[:])
	s.mtx.Unlock()
	return
}

// EncodeBase renders b in the standard base64 alphabet without padding.
// 12 bytes give a V1 base, 16 bytes a V2 base.
func EncodeBase(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}

func baseFromIdentifier(id uuid.UUID, version Version) string {
	switch version {
	case V2:
		return EncodeBase(id[:])
	default:
		return EncodeBase(id[:12])
	}
}
