// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpchain

import (
	"time"

	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
	"github.com/gogama/httpchain/retry"
	"github.com/rs/zerolog"
)

// Do executes a logical request and decodes the accepted response into
// dst, following the plug-ins and policies set on the Client and on r.
//
// Execution proceeds as follows. The client's default plug-ins are
// merged with r's according to the client's Ordering. Then, for each
// attempt: a fresh copy of r is run through the adaptor chain, the
// adapted request is sent with the Transport, and the response is run
// through the validator chain. If the transport fails or a validator
// rejects the response, the retriers decide whether to make another
// attempt, and when. Once a response is accepted, its body is decoded
// into dst with r's Decoder (or the client's default decoder) unless
// dst is nil.
//
// Every error returned by Do is a *failure.Error. Its Kind tells which
// stage failed:
//
// • Cancellation if r's context was cancelled or its deadline passed,
// at any point, including while adapting, sending, validating, waiting
// to retry, or decoding. Cancellation takes precedence over any other
// outcome detected at the same time;
//
// • Adaptation if an adaptor failed, or the adapted request is not
// well-formed. Adaptation failures are never retried;
//
// • Transport if the last attempt failed to obtain a response;
//
// • Validation if the last attempt's response was rejected. The
// failure carries the status code and a truncated copy of the body; or
//
// • Decoding if the accepted response could not be decoded. Decoding
// failures are never retried.
//
// The underlying cause is always reachable with errors.Is and
// errors.As, for example to find a *validate.StatusError.
//
// The returned Execution is never nil. It holds the last response
// received, if any, and its Err field references the returned error.
func (c *Client) Do(r *request.Request, dst interface{}) (*request.Execution, error) {
	if r == nil {
		panic("httpchain: nil request")
	}

	e := &request.Execution{Request: r}
	ctx := r.Context()
	x := c.chainFor(r)
	logger := c.log().With().
		Str("method", r.EffectiveMethod()).
		Str("url", r.Redacted()).
		Logger()

	c.handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

	co := coordinator{
		transport: c.transportOrDefault(),
		chain:     x,
		handlers:  c.handlers,
		logger:    &logger,
	}
	err := co.run(ctx, e)

	if err == nil && dst != nil {
		if ctx.Err() != nil {
			err = co.fail(e, failure.Cancellation, failure.Canceled(ctx))
		} else if derr := x.decoder.Decode(e.Response, dst); derr != nil {
			err = co.fail(e, failure.Decoding, derr)
		}
	}

	e.Err = err
	e.End = time.Now()
	c.handlers.run(AfterExecutionEnd, e)
	logOutcome(&logger, e)
	return e, err
}

// chain holds the merged plug-ins for one logical request.
type chain struct {
	adaptors   []request.Adaptor
	validators []request.Validator
	retrier    request.Retrier
	decoder    request.Decoder
}

func (c *Client) chainFor(r *request.Request) chain {
	x := chain{
		adaptors:   merge(c.ordering, c.adaptors, r.Adaptors),
		validators: merge(c.ordering, c.validators, r.Validators),
		decoder:    c.decoderFor(r),
	}
	if retriers := merge(c.ordering, c.retriers, r.Retriers); len(retriers) > 0 {
		combine := c.combine
		if combine == nil {
			combine = retry.Zip
		}
		x.retrier = combine(retriers...)
	}
	return x
}

func merge[T any](o Ordering, fromClient, fromRequest []T) []T {
	if len(fromRequest) == 0 {
		return fromClient
	}
	if len(fromClient) == 0 {
		return fromRequest
	}
	merged := make([]T, 0, len(fromClient)+len(fromRequest))
	if o == RequestFirst {
		merged = append(merged, fromRequest...)
		return append(merged, fromClient...)
	}
	merged = append(merged, fromClient...)
	return append(merged, fromRequest...)
}

func logOutcome(logger *zerolog.Logger, e *request.Execution) {
	if e.Err == nil {
		logger.Debug().
			Int("attempts", e.Attempts()).
			Int("status", e.StatusCode()).
			Dur("duration", e.Duration()).
			Msg("request succeeded")
		return
	}
	logger.Warn().
		Err(e.Err).
		Str("kind", failure.KindOf(e.Err).String()).
		Int("attempts", e.Attempts()).
		Int("status", e.StatusCode()).
		Dur("duration", e.Duration()).
		Msg("request failed")
}
