// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gogama/httpchain/request"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is the rejection reason of the body validators when
// the response body is not valid JSON.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

const schemaURL = "httpchain-schema.json"

// JSONSchema compiles schema and returns a validator which rejects any
// response whose body is not valid JSON, or does not conform to the
// schema. The rejection reason of a non-conforming body is the
// *jsonschema.ValidationError describing the violations.
//
// An error is returned if the schema itself is invalid.
func JSONSchema(schema string) (Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("httpchain/validate: invalid schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("httpchain/validate: invalid schema: %w", err)
	}
	return ValidatorFunc(func(_ context.Context, resp *request.Response, _ *request.Request) Result {
		var doc interface{}
		if err := json.Unmarshal(resp.Body, &doc); err != nil {
			return Reject(fmt.Errorf("%w: %s", ErrInvalidJSON, err.Error()))
		}
		if err := compiled.Validate(doc); err != nil {
			return Reject(err)
		}
		return Accept
	}), nil
}

// MustJSONSchema is like JSONSchema but panics if the schema is
// invalid.
func MustJSONSchema(schema string) Validator {
	v, err := JSONSchema(schema)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// JSONPath returns a validator which accepts a response only if its
// body is valid JSON and the gjson path expression matches a value.
func JSONPath(path string) Validator {
	return ValidatorFunc(func(_ context.Context, resp *request.Response, _ *request.Request) Result {
		if !gjson.ValidBytes(resp.Body) {
			return Reject(ErrInvalidJSON)
		}
		if !gjson.GetBytes(resp.Body, path).Exists() {
			return Reject(fmt.Errorf("path not found: %s", path))
		}
		return Accept
	})
}

// JSONPathEquals returns a validator which accepts a response only if
// its body is valid JSON and the string form of the value at the gjson
// path expression equals want.
func JSONPathEquals(path, want string) Validator {
	return ValidatorFunc(func(_ context.Context, resp *request.Response, _ *request.Request) Result {
		if !gjson.ValidBytes(resp.Body) {
			return Reject(ErrInvalidJSON)
		}
		result := gjson.GetBytes(resp.Body, path)
		if !result.Exists() {
			return Reject(fmt.Errorf("path not found: %s", path))
		}
		if got := result.String(); got != want {
			return Reject(fmt.Errorf("path %s: got %q, want %q", path, got, want))
		}
		return Accept
	})
}

// Header returns a validator which rejects responses that do not carry
// the header key.
func Header(key string) Validator {
	return ValidatorFunc(func(_ context.Context, resp *request.Response, _ *request.Request) Result {
		if resp.Header.Get(key) == "" {
			return Reject(fmt.Errorf("missing response header %s", key))
		}
		return Accept
	})
}
