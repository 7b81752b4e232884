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
Package amqp implements correlation vector propagation through AMQP 0-9-1
message headers.
*/
package amqp

import (
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	cv "github.com/openzipkin-contrib/zipkin-go-cv"
	"github.com/openzipkin-contrib/zipkin-go-cv/propagation/header"
)

// ExtractDelivery returns an Extractor reading the MS-CV header of a
// delivered message. String and byte slice header values are accepted.
func ExtractDelivery(d *amqp.Delivery) cv.Extractor {
	return func() (string, error) {
		return extract(d.Headers)
	}
}

// ExtractPublishing returns an Extractor reading the MS-CV header of a
// message about to be published.
func ExtractPublishing(p *amqp.Publishing) cv.Extractor {
	return func() (string, error) {
		return extract(p.Headers)
	}
}

// InjectPublishing returns an Injector setting the MS-CV header of a message
// to be published. The header table is created when missing.
func InjectPublishing(p *amqp.Publishing) cv.Injector {
	return func(value string) error {
		if value == "" {
			return header.ErrEmptyValue
		}
		if p.Headers == nil {
			p.Headers = amqp.Table{}
		}
		for k := range p.Headers {
			if strings.EqualFold(k, header.Name) {
				delete(p.Headers, k)
			}
		}
		p.Headers[header.Name] = value
		return nil
	}
}

func extract(t amqp.Table) (string, error) {
	var found string
	for k, raw := range t {
		if !strings.EqualFold(k, header.Name) {
			continue
		}
		var value string
		switch v := raw.(type) {
		case string:
			value = v
		case []byte:
			value = string(v)
		default:
			return "", fmt.Errorf("unexpected %s header type %T", header.Name, raw)
		}
		if found != "" && found != value {
			return "", header.ErrConflictingHeaders
		}
		found = value
	}
	return found, nil
}
