// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"sort"
	"time"

	"github.com/gogama/httpchain"
	"github.com/gogama/httpchain/adapt"
	"github.com/gogama/httpchain/retry"
	"github.com/gogama/httpchain/validate"
	"golang.org/x/time/rate"
)

// Options converts cfg into client options. Adaptors are installed in
// a fixed order: throttle, headers, user agent, request ID, then trace
// context.
func Options(cfg *Config) []httpchain.Option {
	var opts []httpchain.Option

	if cfg.Throttle.Rate > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.Throttle.Rate), cfg.Throttle.Burst)
		opts = append(opts, httpchain.WithAdaptors(adapt.Throttle(limiter)))
	}

	keys := make([]string, 0, len(cfg.Headers))
	for k := range cfg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		opts = append(opts, httpchain.WithHeader(k, cfg.Headers[k]))
	}

	if cfg.UserAgent != "" {
		opts = append(opts, httpchain.WithAdaptors(adapt.UserAgent(cfg.UserAgent)))
	}
	if cfg.RequestIDHeader != "" {
		opts = append(opts, httpchain.WithAdaptors(adapt.RequestID(cfg.RequestIDHeader)))
	}
	if cfg.TraceContext {
		opts = append(opts, httpchain.WithAdaptors(adapt.TraceContext(nil)))
	}

	opts = append(opts, httpchain.WithValidators(validate.StatusRange(cfg.Status.Lower, cfg.Status.Upper)))

	if p, ok := Policy(&cfg.Retry); ok {
		opts = append(opts, httpchain.WithRetriers(p))
	}

	if cfg.Ordering == OrderingRequestFirst {
		opts = append(opts, httpchain.WithOrdering(httpchain.RequestFirst))
	}

	return opts
}

// Policy builds the retry policy described by r. It returns false if r
// disables retries.
func Policy(r *Retry) (retry.Policy, bool) {
	if r.MaxAttempts < 2 {
		return retry.Policy{}, false
	}

	cond := retry.StatusCode(r.Statuses...)
	if r.Transient {
		cond = cond.Or(retry.TransientErr)
	}
	d := retry.MaxAttempts(r.MaxAttempts).And(cond)
	if r.Deadline > 0 {
		d = d.And(retry.Before(r.Deadline))
	}

	w := retry.NewExpWaiter(r.Backoff.Base, r.Backoff.Max, time.Now())
	if r.RetryAfter {
		w = retry.NewRetryAfterWaiter(w, r.MaxRetryAfter)
	}

	return retry.NewPolicy(d, w), true
}
