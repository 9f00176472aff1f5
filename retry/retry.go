// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"time"

	"github.com/gogama/httpchain/request"
)

// A Retrier decides whether and how a failed attempt is retried. See
// request.Retrier.
type Retrier = request.Retrier

// A Decision is the outcome of a Retrier. See request.Decision.
type Decision = request.Decision

var (
	// Concede is the Decision to stop retrying and surface the failure.
	Concede = request.Concede
	// Now is the Decision to re-attempt immediately.
	Now = request.RetryNow
)

// After returns the Decision to re-attempt after d. Negative durations
// are treated as zero.
func After(d time.Duration) Decision {
	return request.RetryAfter(d)
}

// The RetrierFunc type is an adapter to allow the use of ordinary
// functions as retriers.
type RetrierFunc func(ctx context.Context, e *request.Execution) Decision

// Decide calls f(ctx, e).
func (f RetrierFunc) Decide(ctx context.Context, e *request.Execution) Decision {
	return f(ctx, e)
}

// Never is a retrier which always concedes.
var Never Retrier = RetrierFunc(func(_ context.Context, _ *request.Execution) Decision {
	return Concede
})

// A Combiner merges an ordered list of retriers into a single Retrier.
//
// The robust client uses a Combiner to merge its default retriers with
// the retriers attached to an individual request. Zip and AllOf are
// both Combiners.
type Combiner func(retriers ...Retrier) Retrier

// Zip combines retriers into a single Retrier which consults them in
// order and returns the first decision that is not Concede. If every
// retrier concedes, or there are no retriers, the combined retrier
// concedes.
//
// The combined retrier checks ctx before consulting each retrier. If
// ctx is done, it concedes without consulting the remaining retriers.
func Zip(retriers ...Retrier) Retrier {
	rs := copyRetriers(retriers)
	return RetrierFunc(func(ctx context.Context, e *request.Execution) Decision {
		for _, r := range rs {
			if ctx.Err() != nil {
				return Concede
			}
			if d := r.Decide(ctx, e); d.Retry() {
				return d
			}
		}
		return Concede
	})
}

// FirstOf is an alias for Zip.
func FirstOf(retriers ...Retrier) Retrier {
	return Zip(retriers...)
}

// AllOf combines retriers into a single Retrier which only retries if
// every retrier decides to retry. The first Concede short-circuits. If
// all retriers retry, the combined decision waits for the longest of
// their delays: it is After(max) if any retrier returned After, and
// Now otherwise. If there are no retriers, the combined retrier
// concedes.
//
// Like Zip, the combined retrier checks ctx before consulting each
// retrier and concedes if ctx is done.
func AllOf(retriers ...Retrier) Retrier {
	rs := copyRetriers(retriers)
	return RetrierFunc(func(ctx context.Context, e *request.Execution) Decision {
		if len(rs) == 0 {
			return Concede
		}
		combined := Now
		for _, r := range rs {
			if ctx.Err() != nil {
				return Concede
			}
			d := r.Decide(ctx, e)
			if !d.Retry() {
				return Concede
			}
			if d.Verdict() == request.Delayed &&
				(combined.Verdict() != request.Delayed || d.Delay() > combined.Delay()) {
				combined = d
			}
		}
		return combined
	})
}

func copyRetriers(retriers []Retrier) []Retrier {
	rs := make([]Retrier, len(retriers))
	for i, r := range retriers {
		if r == nil {
			panic("httpchain/retry: nil retrier")
		}
		rs[i] = r
	}
	return rs
}
