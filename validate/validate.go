// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package validate

import (
	"context"

	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
)

// A Validator judges whether a response is acceptable. See
// request.Validator.
type Validator = request.Validator

// A Result is the outcome of a Validator. See request.Result.
type Result = request.Result

// Accept is the Result accepting a response.
var Accept = request.Accept

// Reject returns a Result rejecting a response for the given reason.
// If reason is nil, request.ErrRejected is used.
func Reject(reason error) Result {
	return request.Reject(reason)
}

// The ValidatorFunc type is an adapter to allow the use of ordinary
// functions as validators.
type ValidatorFunc func(ctx context.Context, resp *request.Response, r *request.Request) Result

// Validate calls f(ctx, resp, r).
func (f ValidatorFunc) Validate(ctx context.Context, resp *request.Response, r *request.Request) Result {
	return f(ctx, resp, r)
}

// Run evaluates validators in order against resp, which was produced
// by r.
//
// Run checks whether ctx is done before each validator, and once more
// after the last. If it is, Run returns a Cancellation failure and the
// remaining validators are not evaluated. Otherwise the first rejection
// is returned without evaluating the remaining validators, and if all
// validators accept, or there are none, Run returns Accept.
func Run(ctx context.Context, validators []Validator, resp *request.Response, r *request.Request) (Result, error) {
	for _, v := range validators {
		if ctx.Err() != nil {
			return Accept, failure.Canceled(ctx)
		}
		if res := v.Validate(ctx, resp, r); !res.OK() {
			if ctx.Err() != nil {
				return Accept, failure.Canceled(ctx)
			}
			return res, nil
		}
	}
	if ctx.Err() != nil {
		return Accept, failure.Canceled(ctx)
	}
	return Accept, nil
}

// Zip composes validators into a single Validator with the same
// ordering and short-circuit behavior as Run. Zipped validators may
// themselves be zipped.
//
// If ctx is done, the composite rejects with a Cancellation failure as
// the reason.
func Zip(validators ...Validator) Validator {
	vs := make([]Validator, len(validators))
	for i, v := range validators {
		if v == nil {
			panic("httpchain/validate: nil validator")
		}
		vs[i] = v
	}
	return ValidatorFunc(func(ctx context.Context, resp *request.Response, r *request.Request) Result {
		res, err := Run(ctx, vs, resp, r)
		if err != nil {
			return Reject(err)
		}
		return res
	})
}
