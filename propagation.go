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

// Extractor function signature. It returns the raw header value found in a
// carrier, or an empty string if there is none.
type Extractor func() (string, error)

// Injector function signature. It writes a header value into a carrier.
type Injector func(value string) error

// Inject increments v and hands the new value to inject. Call it once per
// outbound message.
func Inject(v *CorrelationVector, inject Injector) error {
	if v == nil {
		return nil
	}
	return inject(v.Increment())
}
