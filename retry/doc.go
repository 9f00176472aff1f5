// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides retriers, which decide whether a failed
// attempt is retried and how long to wait before retrying, and the
// combiners which merge several retriers into one.
//
// A Retrier examines the execution state of a logical request after a
// failed attempt and returns a Decision: Concede, Now, or After(d). The
// robust client consults its combined retrier after every transport
// failure and every rejected response, and never otherwise.
//
// The simplest way to build a useful retrier is NewPolicy, which pairs
// a yes/no Decider with a Waiter that computes the backoff. Both have
// constructors for common use cases:
//
//	decider := retry.MaxAttempts(3).
//		And(retry.Before(5 * time.Second)).
//		And(retry.StatusCode(500).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	policy := retry.NewPolicy(decider, waiter)
//
// Several retriers are merged with a combiner. Zip (also known as
// FirstOf) returns the first decision that is not Concede, while AllOf
// only retries if every retrier agrees:
//
//	r := retry.Zip(throttled, policy)
//
// If the built-in functionality is insufficient, implement Retrier,
// Decider, or Waiter directly.
package retry
