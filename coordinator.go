// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpchain

import (
	"context"
	"errors"
	"time"

	"github.com/gogama/httpchain/adapt"
	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
	"github.com/gogama/httpchain/validate"
	"github.com/rs/zerolog"
)

// state is a state of the retry state machine.
type state int

const (
	attempting state = iota
	awaitingDelay
	terminal
)

// A coordinator drives the attempts of one logical request. It is
// created per execution and never shared.
type coordinator struct {
	transport Transport
	chain     chain
	handlers  *HandlerGroup
	logger    *zerolog.Logger

	dispatched int
}

// run executes attempts until the execution reaches a terminal state,
// and returns nil on success or the terminal failure.
func (co *coordinator) run(ctx context.Context, e *request.Execution) error {
	var err error
	st := attempting
	for st != terminal {
		switch st {
		case attempting:
			st, err = co.attempt(ctx, e)
		case awaitingDelay:
			st, err = co.await(ctx, e)
		}
	}
	return err
}

func (co *coordinator) attempt(ctx context.Context, e *request.Execution) (state, error) {
	if ctx.Err() != nil {
		return terminal, co.canceled(ctx, e)
	}
	e.Outbound, e.Response, e.Err = nil, nil, nil

	out, err := adapt.Run(ctx, co.chain.adaptors, e.Request.Clone())
	if err != nil {
		if ctx.Err() != nil || failure.Is(err, failure.Cancellation) {
			return terminal, co.fail(e, failure.Cancellation, err)
		}
		return terminal, co.fail(e, failure.Adaptation, err)
	}
	if err = out.Check(); err != nil {
		return terminal, co.fail(e, failure.Adaptation, err)
	}
	e.Outbound = out

	co.handlers.run(BeforeAttempt, e)
	co.logger.Debug().Int("attempt", e.Attempt).Msg("sending attempt")
	resp, err := co.transport.Send(ctx, e.Outbound)
	co.dispatched++
	if err == nil && resp == nil {
		err = ErrNilResponse
	}
	if ctx.Err() != nil {
		return terminal, co.canceled(ctx, e)
	}

	if err != nil {
		e.Err = err
	} else {
		e.Response = resp
		res, verr := validate.Run(ctx, co.chain.validators, resp, e.Outbound)
		if verr != nil {
			return terminal, co.fail(e, failure.Cancellation, verr)
		}
		e.Err = res.Reason()
	}
	co.handlers.run(AfterAttempt, e)

	if e.Err == nil {
		return terminal, nil
	}

	d := request.Concede
	if co.chain.retrier != nil {
		d = co.chain.retrier.Decide(ctx, e)
	}
	if ctx.Err() != nil {
		return terminal, co.canceled(ctx, e)
	}
	e.Decision = d

	co.logger.Debug().
		Int("attempt", e.Attempt).
		Int("status", e.StatusCode()).
		AnErr("cause", e.Err).
		Stringer("decision", d).
		Msg("attempt failed")

	switch d.Verdict() {
	case request.Immediate:
		e.Attempt++
		return attempting, nil
	case request.Delayed:
		return awaitingDelay, nil
	default:
		if e.Response != nil {
			return terminal, co.fail(e, failure.Validation, e.Err)
		}
		return terminal, co.fail(e, failure.Transport, e.Err)
	}
}

func (co *coordinator) await(ctx context.Context, e *request.Execution) (state, error) {
	co.handlers.run(BeforeRetryWait, e)
	timer := time.NewTimer(e.Decision.Delay())
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return terminal, co.canceled(ctx, e)
	}
	if ctx.Err() != nil {
		return terminal, co.canceled(ctx, e)
	}
	e.Attempt++
	return attempting, nil
}

func (co *coordinator) canceled(ctx context.Context, e *request.Execution) error {
	return co.fail(e, failure.Cancellation, failure.Canceled(ctx))
}

// fail classifies cause as a terminal failure of the given kind. If
// cause already is a failure of that kind, it is annotated rather than
// wrapped again.
func (co *coordinator) fail(e *request.Execution, kind failure.Kind, cause error) error {
	var fe *failure.Error
	if errors.As(cause, &fe) && fe.Kind == kind {
		cp := *fe
		fe = &cp
	} else {
		fe = failure.New(kind, cause)
	}
	fe.Attempts = co.dispatched
	if (kind == failure.Validation || kind == failure.Decoding) && e.Response != nil {
		fe.StatusCode = e.Response.StatusCode
		if kind == failure.Validation {
			fe.Body = truncate(e.Response.Body)
		}
	}
	return fe
}

func truncate(b []byte) []byte {
	if len(b) > failure.MaxBody {
		b = b[:failure.MaxBody]
	}
	return append([]byte(nil), b...)
}
