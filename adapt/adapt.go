// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package adapt

import (
	"context"
	"errors"

	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
)

// An Adaptor transforms a request before it is dispatched. See
// request.Adaptor.
type Adaptor = request.Adaptor

// ErrNilRequest is returned by Run when an adaptor returns neither a
// request nor an error.
var ErrNilRequest = errors.New("httpchain/adapt: adaptor returned nil request")

// The AdaptorFunc type is an adapter to allow the use of ordinary
// functions as adaptors.
type AdaptorFunc func(ctx context.Context, r *request.Request) (*request.Request, error)

// Adapt calls f(ctx, r).
func (f AdaptorFunc) Adapt(ctx context.Context, r *request.Request) (*request.Request, error) {
	return f(ctx, r)
}

// Run applies adaptors to r in order, each receiving the output of the
// previous, and returns the output of the last one. With no adaptors,
// r is returned unchanged.
//
// Before each adaptor, Run checks whether ctx is done. If it is, Run
// stops and returns a Cancellation failure without invoking the
// remaining adaptors. The first adaptor error also stops the chain and
// is returned as is.
func Run(ctx context.Context, adaptors []Adaptor, r *request.Request) (*request.Request, error) {
	for _, a := range adaptors {
		if ctx.Err() != nil {
			return nil, failure.Canceled(ctx)
		}
		next, err := a.Adapt(ctx, r)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, ErrNilRequest
		}
		r = next
	}
	return r, nil
}

// Zip composes adaptors into a single Adaptor which behaves exactly
// like Run over the same list. Zipped adaptors may themselves be
// zipped.
func Zip(adaptors ...Adaptor) Adaptor {
	as := make([]Adaptor, len(adaptors))
	for i, a := range adaptors {
		if a == nil {
			panic("httpchain/adapt: nil adaptor")
		}
		as[i] = a
	}
	return AdaptorFunc(func(ctx context.Context, r *request.Request) (*request.Request, error) {
		return Run(ctx, as, r)
	})
}
