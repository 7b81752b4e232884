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
Package pulsar implements correlation vector propagation through Pulsar
message properties.
*/
package pulsar

import (
	"github.com/apache/pulsar-client-go/pulsar"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
)

// PropertyReader is implemented by pulsar.Message.
type PropertyReader interface {
	Properties() map[string]string
}

var _ PropertyReader = (pulsar.Message)(nil)

// ExtractMessage returns an Extractor reading the MS-CV property of a
// received message.
func ExtractMessage(msg PropertyReader) cv.Extractor {
	return func() (string, error) {
		return header.Map(msg.Properties()).Extract()()
	}
}

// InjectMessage returns an Injector setting the MS-CV property of a message
// to be sent. The property map is created when missing.
func InjectMessage(msg *pulsar.ProducerMessage) cv.Injector {
	return func(value string) error {
		if msg.Properties == nil {
			msg.Properties = make(map[string]string)
		}
		return header.Map(msg.Properties).Inject()(value)
	}
}
