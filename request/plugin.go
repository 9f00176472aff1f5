// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// An Adaptor transforms a request before it is dispatched.
//
// Adapt receives the output of the previous adaptor in the chain and
// returns the request the next adaptor will see. It may modify r in
// place and return it, or return a different Request. A non-nil error
// aborts the chain.
//
// Adapt may block (for example to wait on a rate limiter), but must
// honor cancellation of ctx. Implementations must be safe for
// concurrent use by multiple goroutines.
type Adaptor interface {
	Adapt(ctx context.Context, r *Request) (*Request, error)
}

// A Validator judges whether a response is acceptable.
//
// Parameter r is the request which produced resp. Validate may block
// (for example to refresh state before accepting a response), but must
// honor cancellation of ctx. Implementations must be safe for
// concurrent use by multiple goroutines.
type Validator interface {
	Validate(ctx context.Context, resp *Response, r *Request) Result
}

// A Retrier decides whether and how a failed attempt is retried.
//
// Decide examines the execution state, in particular the original
// request, the most recent response (if any), the failure, and the
// zero-based attempt number, and returns a Decision. Decide may block
// but must honor cancellation of ctx. Implementations must be safe for
// concurrent use by multiple goroutines.
type Retrier interface {
	Decide(ctx context.Context, e *Execution) Decision
}

// A Decoder decodes the body of an accepted response into v.
type Decoder interface {
	Decode(resp *Response, v interface{}) error
}

// ErrRejected is the reason given by a Result constructed with a nil
// rejection reason.
var ErrRejected = errors.New("httpchain/request: response rejected")

// A Result is the outcome of a validation: either accepted, or
// rejected with a reason. The zero value is Accept.
type Result struct {
	reason error
}

// Accept is the Result of a validation which accepts the response.
var Accept = Result{}

// Reject returns a Result rejecting the response for the given reason.
// If reason is nil, ErrRejected is used.
func Reject(reason error) Result {
	if reason == nil {
		reason = ErrRejected
	}
	return Result{reason: reason}
}

// OK reports whether the response was accepted.
func (r Result) OK() bool {
	return r.reason == nil
}

// Reason returns the reason the response was rejected, or nil if it
// was accepted.
func (r Result) Reason() error {
	return r.reason
}

func (r Result) String() string {
	if r.OK() {
		return "accepted"
	}
	return "rejected(" + r.reason.Error() + ")"
}

// A Verdict identifies the variant of a Decision.
type Verdict int

const (
	// Conceded means the failure is terminal.
	Conceded Verdict = iota
	// Immediate means the request is re-attempted without delay.
	Immediate
	// Delayed means the request is re-attempted after a delay.
	Delayed
)

// A Decision is the outcome of a retry decision: concede, retry now, or
// retry after a non-negative delay. The zero value is Concede.
type Decision struct {
	verdict Verdict
	delay   time.Duration
}

var (
	// Concede is the Decision to stop retrying and surface the failure.
	Concede = Decision{}
	// RetryNow is the Decision to re-attempt immediately.
	RetryNow = Decision{verdict: Immediate}
)

// RetryAfter returns the Decision to re-attempt after d. A negative d
// is treated as zero, but the verdict remains Delayed.
func RetryAfter(d time.Duration) Decision {
	if d < 0 {
		d = 0
	}
	return Decision{verdict: Delayed, delay: d}
}

// Verdict returns the decision's variant.
func (d Decision) Verdict() Verdict {
	return d.verdict
}

// Retry reports whether the decision is to retry, with or without a
// delay.
func (d Decision) Retry() bool {
	return d.verdict != Conceded
}

// Delay returns the wait before the next attempt. It is zero unless the
// verdict is Delayed.
func (d Decision) Delay() time.Duration {
	return d.delay
}

func (d Decision) String() string {
	switch d.verdict {
	case Immediate:
		return "retry"
	case Delayed:
		return fmt.Sprintf("retryAfterDelay(%s)", d.delay)
	default:
		return "concede"
	}
}
