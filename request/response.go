// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "net/http"

// A Response is the fully-buffered result of one dispatch attempt.
//
// A Response is produced once per attempt and must not be modified
// afterward: validators, retriers, decoders and event handlers all see
// the same value.
type Response struct {
	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int

	// Status is the status line text, e.g. "200 OK". It may be empty
	// if the transport does not report one.
	Status string

	// Header contains the response header fields.
	Header http.Header

	// Body is the complete response body. It is never nil on a
	// Response produced by the client's transport, although it may be
	// empty.
	Body []byte
}
