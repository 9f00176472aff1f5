// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package adapt

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/time/rate"
)

// Header returns an adaptor which adds the header key with the given
// value, unless the request already has a value for key.
func Header(key, value string) Adaptor {
	key = http.CanonicalHeaderKey(key)
	return AdaptorFunc(func(_ context.Context, r *request.Request) (*request.Request, error) {
		ensureHeader(r)
		if _, ok := r.Header[key]; !ok {
			r.Header.Set(key, value)
		}
		return r, nil
	})
}

// Headers returns an adaptor which adds every field of h the request
// does not already have. It is additive in the same way as Header.
func Headers(h http.Header) Adaptor {
	h = h.Clone()
	return AdaptorFunc(func(_ context.Context, r *request.Request) (*request.Request, error) {
		ensureHeader(r)
		for k, vs := range h {
			k = http.CanonicalHeaderKey(k)
			if _, ok := r.Header[k]; !ok {
				r.Header[k] = append([]string(nil), vs...)
			}
		}
		return r, nil
	})
}

// SetHeader returns an adaptor which sets the header key to value,
// replacing any existing values.
func SetHeader(key, value string) Adaptor {
	return AdaptorFunc(func(_ context.Context, r *request.Request) (*request.Request, error) {
		ensureHeader(r)
		r.Header.Set(key, value)
		return r, nil
	})
}

// UserAgent returns an adaptor which sets the User-Agent header to
// value unless the request already has one.
func UserAgent(value string) Adaptor {
	return Header("User-Agent", value)
}

// RequestID returns an adaptor which sets header key to a new random
// UUID unless the request already has a value for key. Because the
// robust client adapts a fresh copy of the request for every attempt,
// each attempt carries a distinct identifier unless the caller set one.
func RequestID(key string) Adaptor {
	key = http.CanonicalHeaderKey(key)
	return AdaptorFunc(func(_ context.Context, r *request.Request) (*request.Request, error) {
		ensureHeader(r)
		if r.Header.Get(key) == "" {
			r.Header.Set(key, uuid.NewString())
		}
		return r, nil
	})
}

// TraceContext returns an adaptor which injects the span context
// carried by ctx into the request headers using propagator. If
// propagator is nil, the global propagator from otel is used at
// adaptation time.
//
// Fields the request already carries, for example a traceparent set
// by the caller, are left untouched.
func TraceContext(propagator propagation.TextMapPropagator) Adaptor {
	return AdaptorFunc(func(ctx context.Context, r *request.Request) (*request.Request, error) {
		p := propagator
		if p == nil {
			p = otel.GetTextMapPropagator()
		}
		carrier := propagation.HeaderCarrier{}
		p.Inject(ctx, carrier)
		ensureHeader(r)
		for k, vs := range carrier {
			if _, ok := r.Header[k]; !ok {
				r.Header[k] = vs
			}
		}
		return r, nil
	})
}

// Throttle returns an adaptor which waits for a token from limiter
// before letting the request through. The limiter is typically shared
// by many requests, and is safe for concurrent use.
//
// The wait is abandoned if ctx is done, or if the wait would outlast
// the deadline of ctx. Both cases produce a Cancellation failure.
func Throttle(limiter *rate.Limiter) Adaptor {
	if limiter == nil {
		panic("httpchain/adapt: nil limiter")
	}
	return AdaptorFunc(func(ctx context.Context, r *request.Request) (*request.Request, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, failure.New(failure.Cancellation, err)
		}
		return r, nil
	})
}

// Query returns an adaptor which merges values into the query string
// of the request URL. Keys already present in the query string are
// left untouched.
func Query(values url.Values) Adaptor {
	vs := make(url.Values, len(values))
	for k, v := range values {
		vs[k] = append([]string(nil), v...)
	}
	return AdaptorFunc(func(_ context.Context, r *request.Request) (*request.Request, error) {
		if r.URL == nil {
			return r, nil
		}
		q := r.URL.Query()
		changed := false
		for k, v := range vs {
			if _, ok := q[k]; !ok {
				q[k] = append([]string(nil), v...)
				changed = true
			}
		}
		if changed {
			r.URL.RawQuery = q.Encode()
		}
		return r, nil
	})
}

func ensureHeader(r *request.Request) {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
}
