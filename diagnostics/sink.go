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
Package diagnostics holds the Sink interface correlation vector generators
report non-fatal validation failures to, and the standard implementations.
*/
package diagnostics

// Sink receives diagnostic messages. Implementations must be safe for
// concurrent use.
type Sink interface {
	Report(message string) // Report a diagnostic message
	HasErrors() bool       // HasErrors reports whether messages are retained
	Errors() []string      // Errors returns the retained messages, oldest first
	Clear()                // Clear drops all retained messages
}

// Discard is a Sink that drops every message.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(string)    {}
func (discard) HasErrors() bool  { return false }
func (discard) Errors() []string { return nil }
func (discard) Clear()           {}
