// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package failure defines the error taxonomy shared by the request
// execution pipeline.
//
// Every error returned by the robust client is a *Error whose Kind
// identifies the stage which produced it. The original cause is always
// reachable through Unwrap, so errors.Is and errors.As see through the
// classification:
//
//	_, err := client.Do(r, &dst)
//	if failure.Is(err, failure.Validation) {
//		var se *validate.StatusError
//		if errors.As(err, &se) {
//			...
//		}
//	}
package failure

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// A Kind classifies a terminal failure by the pipeline stage that
// produced it.
type Kind int

const (
	// Unknown is the kind of any error which is not a *Error.
	Unknown Kind = iota
	// Cancellation indicates the operation was aborted because its
	// context was cancelled or its deadline was exceeded. Cancellation
	// always takes precedence over any other concurrently determined
	// outcome.
	Cancellation
	// Transport indicates the transport could not complete the
	// request/response exchange.
	Transport
	// Validation indicates a response was received but a validator
	// rejected it.
	Validation
	// Adaptation indicates an adaptor failed while preparing the
	// outbound request. Adaptation failures are never retried.
	Adaptation
	// Decoding indicates an accepted response body could not be decoded
	// into the expected shape. Decoding failures are never retried.
	Decoding
	kindSentinel
)

var kindNames = []string{
	"Unknown",
	"Cancellation",
	"Transport",
	"Validation",
	"Adaptation",
	"Decoding",
}

// Kinds returns every failure kind, excluding Unknown.
func Kinds() []Kind {
	return []Kind{Cancellation, Transport, Validation, Adaptation, Decoding}
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindSentinel {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// An Error is a classified terminal failure.
type Error struct {
	// Kind identifies the stage which failed.
	Kind Kind

	// Attempts is the number of dispatch attempts made before the
	// failure became terminal. It is zero if the failure happened
	// before the first dispatch.
	Attempts int

	// StatusCode is the status code of the response which was
	// rejected. It is only set for Validation failures, and for
	// Decoding failures.
	StatusCode int

	// Body is the body of the response which was rejected, truncated
	// to MaxBody bytes. It is only set for Validation failures.
	Body []byte

	// Err is the underlying cause. It is never nil.
	Err error
}

// MaxBody is the maximum number of body bytes retained on a
// Validation failure.
const MaxBody = 4 << 10

// New constructs a new classified failure wrapping err.
func New(kind Kind, err error) *Error {
	if err == nil {
		panic("httpchain/failure: nil error")
	}
	return &Error{Kind: kind, Err: err}
}

// Canceled constructs a Cancellation failure from the context's error.
// If ctx has no error, context.Canceled is used as the cause.
func Canceled(ctx context.Context) *Error {
	err := ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	return New(Cancellation, err)
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("httpchain: ")
	b.WriteString(strings.ToLower(e.Kind.String()))
	b.WriteString(" failure")
	if e.Attempts > 0 {
		fmt.Fprintf(&b, " after %d attempt", e.Attempts)
		if e.Attempts > 1 {
			b.WriteByte('s')
		}
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by a deadline.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// KindOf returns the Kind of err, or Unknown if err is not, and does
// not wrap, a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsCancellation reports whether err is a cancellation, either as a
// classified failure or as a bare context error.
func IsCancellation(err error) bool {
	if Is(err, Cancellation) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
