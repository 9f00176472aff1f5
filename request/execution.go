// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"
)

// An Execution represents the attempt state of one logical request.
//
// The client creates an Execution when it starts executing a Request,
// updates it as attempts are made, and returns it when the logical
// request ends. An Execution is owned by exactly one executing client
// call and is never shared between concurrent logical requests.
//
// Retriers and event handlers may store data on an Execution using
// SetValue and read it back using Value, but should otherwise treat its
// exported fields as read-only.
type Execution struct {
	// Request is the original request being executed. It is never nil
	// and is never modified by the client.
	Request *Request

	// Outbound is the adapted snapshot of Request sent in the current
	// attempt, or already sent in the most recent attempt. It is nil
	// before the first adaptor chain completes.
	Outbound *Request

	// Start is the start time of the execution. It is assigned when the
	// execution starts and remains constant thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends.
	End time.Time

	// Attempt is the zero-based number of the current attempt. It is
	// zero on the initial attempt, one on the first retry, and so on.
	// It never decreases. When a retrier is consulted, Attempt+1
	// dispatches have been made.
	Attempt int

	// Response is the response received in the most recent attempt. It
	// is nil if the most recent attempt ended in a transport failure,
	// or while an attempt is underway.
	Response *Response

	// Err is the failure of the most recent attempt: the transport
	// error, or the rejection reason of the validator chain. It is nil
	// if the most recent attempt was accepted, or while an attempt is
	// underway.
	//
	// Once the execution has ended, Err holds the same value as the
	// error returned by the client.
	Err error

	// Decision is the most recent retry decision. It is Concede until a
	// retrier has decided to retry.
	Decision Decision

	data context.Context
}

// StatusCode returns the status code of the response from the most
// recent attempt. If there is no response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the response headers from the most recent attempt. If
// there is no response, the nil header is returned, which is safe for
// read-only operations.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Body returns the response body from the most recent attempt, or nil
// if there is no response.
func (e *Execution) Body() []byte {
	if e.Response == nil {
		return nil
	}

	return e.Response.Body
}

// Attempts returns the number of dispatches made so far, counting the
// one in progress.
func (e *Execution) Attempts() int {
	if !e.Started() {
		return 0
	}

	return e.Attempt + 1
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has ended, the duration is End minus Start. Otherwise, it
// is the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended. Once it has, there
// will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// SetValue stores arbitrary data in the execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type, to avoid collisions between
// different plug-ins putting data into the same execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the value associated with this execution for key, or
// nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
