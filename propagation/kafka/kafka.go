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
Package kafka implements correlation vector propagation through Kafka record
headers.
*/
package kafka

import (
	"bytes"

	"github.com/IBM/sarama"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
)

var key = []byte(header.Name)

// ExtractConsumer returns an Extractor reading the MS-CV record header of a
// consumed message.
func ExtractConsumer(msg *sarama.ConsumerMessage) cv.Extractor {
	return func() (string, error) {
		var values []string
		for _, h := range msg.Headers {
			if h != nil && bytes.EqualFold(h.Key, key) {
				values = append(values, string(h.Value))
			}
		}
		return header.Single(values)
	}
}

// InjectProducer returns an Injector setting the MS-CV record header of a
// message to be produced. An existing MS-CV header is replaced.
func InjectProducer(msg *sarama.ProducerMessage) cv.Injector {
	return func(value string) error {
		if value == "" {
			return header.ErrEmptyValue
		}
		headers := msg.Headers[:0]
		for _, h := range msg.Headers {
			if !bytes.EqualFold(h.Key, key) {
				headers = append(headers, h)
			}
		}
		msg.Headers = append(headers, sarama.RecordHeader{
			Key:   key,
			Value: []byte(value),
		})
		return nil
	}
}
