// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"

	"github.com/gogama/httpchain/request"
)

// A Policy is a Retrier composed of a Decider and a Waiter. After a
// failed attempt, the Decider decides whether a retry should be done
// and, if so, the Waiter decides how long the wait period should be
// before retrying.
//
// A Policy is safe for concurrent use by multiple goroutines if its
// Decider and Waiter are.
type Policy struct {
	// Decider decides whether to retry. It may not be nil.
	Decider Decider

	// Waiter computes the wait before retrying. If it is nil, the
	// policy retries immediately.
	Waiter Waiter
}

// DefaultPolicy is a general-purpose retry policy suitable for common
// use cases. It is a composition of DefaultDecider for retry decisions
// and DefaultWaiter for wait time calculations.
//
// The robust client does not retry unless given a retrier, so
// DefaultPolicy must be installed explicitly, for example with the
// client option WithRetriers.
var DefaultPolicy = NewPolicy(DefaultDecider, DefaultWaiter)

// NewPolicy composes a Decider and a Waiter into a retry Policy.
// Parameter w may be nil, in which case retries are immediate.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("httpchain/retry: nil decider")
	}
	return Policy{Decider: d, Waiter: w}
}

// Decide implements Retrier. It returns Concede if the Decider returns
// false. Otherwise it returns Now if there is no Waiter, and
// After(p.Waiter.Wait(e)) if there is.
func (p Policy) Decide(_ context.Context, e *request.Execution) Decision {
	if !p.Decider.Decide(e) {
		return Concede
	}
	if p.Waiter == nil {
		return Now
	}
	return After(p.Waiter.Wait(e))
}
