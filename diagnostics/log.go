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

import (
	"github.com/sirupsen/logrus"
)

// LogSink is a Queue that also writes every message to a logrus Logger.
type LogSink struct {
	*Queue
	entry *logrus.Entry
}

// NewLogSink returns a new LogSink retaining up to capacity messages. A nil
// logger selects the logrus standard logger.
func NewLogSink(logger *logrus.Logger, capacity int) *LogSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSink{
		Queue: NewQueueWithCapacity(capacity),
		entry: logger.WithFields(logrus.Fields{
			"component": "correlation-vector",
			"header":    "MS-CV",
		}),
	}
}

// Report logs message as a warning and retains it.
func (s *LogSink) Report(message string) {
	s.entry.Warn(message)
	s.Queue.Report(message)
}
