// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package validate provides the validator chain, which judges whether a
// response is acceptable, and a set of built-in validators.
//
// Validators run in order. The first rejection wins and the remaining
// validators are skipped; if every validator accepts, the response is
// accepted. A rejected response is offered to the retriers just like a
// transport failure.
//
// Status code validation covers the common case:
//
//	validate.StatusRange(200, 299)   // same as validate.Success
//	validate.StatusCode(http.StatusNoContent)
//
// Body validators inspect JSON responses using JSON Schema or gjson
// path expressions:
//
//	schema, err := validate.JSONSchema(`{"type": "object", "required": ["id"]}`)
//	v := validate.Zip(validate.Success, schema, validate.JSONPathEquals("status", "ok"))
package validate
