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
	"bytes"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// LineFormatter renders a single log entry as
//
//	LEVEL message key=value ...
//
// with the fields in key order. Use it with NewLogSink for log files that
// are read by people rather than collectors.
type LineFormatter struct{}

// Format renders a single log entry
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	fmt.Fprintf(&b, "%-7s %s", levelName(entry.Level), entry.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(l logrus.Level) string {
	b, err := l.MarshalText()
	if err != nil {
		return "UNKNOWN"
	}
	return string(bytes.ToUpper(b))
}
