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

package diagnostics

import "sync"

// Retention limits of a Queue.
const (
	DefaultCapacity = 1
	MaxCapacity     = 100
)

// Queue is a Sink retaining the most recent messages up to its capacity.
// Once full, the oldest message is evicted first.
type Queue struct {
	mtx      sync.Mutex
	capacity int
	messages []string
}

// NewQueue returns a new Queue retaining DefaultCapacity messages.
func NewQueue() *Queue {
	return &Queue{capacity: DefaultCapacity}
}

// NewQueueWithCapacity returns a new Queue retaining up to capacity
// messages. capacity is clamped to [0, MaxCapacity]; a zero capacity queue
// retains nothing.
func NewQueueWithCapacity(capacity int) *Queue {
	return &Queue{capacity: clamp(capacity)}
}

// Capacity returns the maximum number of retained messages.
func (q *Queue) Capacity() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return q.capacity
}

// SetCapacity changes the maximum number of retained messages, clamped to
// [0, MaxCapacity]. Excess messages are evicted oldest first.
func (q *Queue) SetCapacity(capacity int) {
	q.mtx.Lock()
	q.capacity = clamp(capacity)
	q.evict()
	q.mtx.Unlock()
}

// Report adds message to the queue.
func (q *Queue) Report(message string) {
	q.mtx.Lock()
	if q.capacity > 0 {
		q.messages = append(q.messages, message)
		q.evict()
	}
	q.mtx.Unlock()
}

// HasErrors reports whether the queue holds any message.
func (q *Queue) HasErrors() bool {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.messages) > 0
}

// Errors returns a copy of the retained messages, oldest first.
func (q *Queue) Errors() []string {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	if len(q.messages) == 0 {
		return nil
	}
	return append([]string(nil), q.messages...)
}

// Flush returns all retained messages and clears the queue.
func (q *Queue) Flush() []string {
	q.mtx.Lock()
	messages := q.messages
	q.messages = nil
	q.mtx.Unlock()
	return messages
}

// Clear drops all retained messages.
func (q *Queue) Clear() {
	_ = q.Flush()
}

// evict must be called with mtx held.
func (q *Queue) evict() {
	if n := len(q.messages) - q.capacity; n > 0 {
		q.messages = append(q.messages[:0:0], q.messages[n:]...)
	}
}

func clamp(capacity int) int {
	switch {
	case capacity < 0:
		return 0
	case capacity > MaxCapacity:
		return MaxCapacity
	}
	return capacity
}
