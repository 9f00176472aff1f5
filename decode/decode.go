// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package decode provides decoders, which turn the body of an accepted
// response into the caller's destination value.
//
// The robust client decodes with the request's Decoder, falling back to
// the client default, JSON, when the request has none. Decoding is
// skipped entirely when the caller passes a nil destination.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogama/httpchain/request"
	"gopkg.in/yaml.v3"
)

// A Decoder decodes the body of an accepted response. See
// request.Decoder.
type Decoder = request.Decoder

// ErrEmptyBody is returned by the JSON and YAML decoders when the
// response has no body.
var ErrEmptyBody = errors.New("httpchain/decode: empty body")

// The DecoderFunc type is an adapter to allow the use of ordinary
// functions as decoders.
type DecoderFunc func(resp *request.Response, v interface{}) error

// Decode calls f(resp, v).
func (f DecoderFunc) Decode(resp *request.Response, v interface{}) error {
	return f(resp, v)
}

// JSON decodes the body as a single JSON value using encoding/json.
// Unknown fields are ignored.
var JSON Decoder = DecoderFunc(decodeJSON)

// StrictJSON is like JSON but rejects bodies with fields that do not
// map to the destination struct.
var StrictJSON Decoder = DecoderFunc(decodeStrictJSON)

// YAML decodes the body as a YAML document using gopkg.in/yaml.v3.
var YAML Decoder = DecoderFunc(decodeYAML)

// Raw copies the body into the destination, which must be a *[]byte or
// a *string.
var Raw Decoder = DecoderFunc(decodeRaw)

func decodeJSON(resp *request.Response, v interface{}) error {
	if len(resp.Body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(resp.Body, v)
}

func decodeStrictJSON(resp *request.Response, v interface{}) error {
	if len(resp.Body) == 0 {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func decodeYAML(resp *request.Response, v interface{}) error {
	if len(resp.Body) == 0 {
		return ErrEmptyBody
	}
	return yaml.Unmarshal(resp.Body, v)
}

func decodeRaw(resp *request.Response, v interface{}) error {
	switch dst := v.(type) {
	case *[]byte:
		*dst = append([]byte(nil), resp.Body...)
	case *string:
		*dst = string(resp.Body)
	default:
		return fmt.Errorf("httpchain/decode: raw destination must be *[]byte or *string, not %T", v)
	}
	return nil
}

// ByContentType returns a decoder which picks JSON or YAML based on the
// media type of the response's Content-Type header, and uses fallback
// for any other media type.
func ByContentType(fallback Decoder) Decoder {
	if fallback == nil {
		panic("httpchain/decode: nil fallback decoder")
	}
	return DecoderFunc(func(resp *request.Response, v interface{}) error {
		switch mediaType(resp) {
		case "application/json", "application/problem+json":
			return JSON.Decode(resp, v)
		case "application/yaml", "application/x-yaml", "text/yaml":
			return YAML.Decode(resp, v)
		default:
			return fallback.Decode(resp, v)
		}
	})
}
