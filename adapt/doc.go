// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package adapt provides the adaptor chain, which prepares a request
// for dispatch, and a set of built-in adaptors.
//
// Adaptors run in order, each receiving the request produced by the
// previous one. The robust client runs its adaptor chain once per
// attempt, on a fresh copy of the caller's request, so adaptors never
// see the changes they made during a previous attempt:
//
//	limiter := rate.NewLimiter(10, 1)
//	chain := adapt.Zip(
//		adapt.Throttle(limiter),
//		adapt.UserAgent("my-app/1.0"),
//		adapt.RequestID("X-Request-ID"),
//		adapt.TraceContext(nil),
//	)
//
// Header-adding adaptors are additive: they never replace a header the
// request already carries. Use SetHeader to overwrite.
package adapt
