// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package observe

import (
	"github.com/gogama/httpchain"
	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
	"github.com/rs/zerolog"
)

// A Logger is an event handler which writes one structured record per
// event.
//
// Progress is logged at debug level, failed attempts and retry waits
// at info level, and failed executions at error level.
type Logger struct {
	log zerolog.Logger
}

// NewLogger returns a Logger which writes to l.
func NewLogger(l zerolog.Logger) *Logger {
	return &Logger{log: l}
}

// Install adds the Logger to the back of every event handler chain in
// g.
func (l *Logger) Install(g *httpchain.HandlerGroup) {
	g.PushBackAll(l)
}

// Handle writes a record describing evt.
func (l *Logger) Handle(evt httpchain.Event, e *request.Execution) {
	switch evt {
	case httpchain.BeforeExecutionStart:
		l.event(l.log.Debug(), evt, e).Msg("execution starting")
	case httpchain.BeforeAttempt:
		l.event(l.log.Debug(), evt, e).
			Int("attempt", e.Attempt).
			Msg("attempt starting")
	case httpchain.AfterAttempt:
		if e.Err == nil {
			l.event(l.log.Debug(), evt, e).
				Int("attempt", e.Attempt).
				Int("status", e.StatusCode()).
				Msg("attempt accepted")
			return
		}
		l.event(l.log.Info(), evt, e).
			Int("attempt", e.Attempt).
			Int("status", e.StatusCode()).
			Err(e.Err).
			Msg("attempt failed")
	case httpchain.BeforeRetryWait:
		l.event(l.log.Info(), evt, e).
			Int("attempt", e.Attempt).
			Dur("delay", e.Decision.Delay()).
			Msg("waiting to retry")
	case httpchain.AfterExecutionEnd:
		if e.Err == nil {
			l.event(l.log.Info(), evt, e).
				Int("attempts", e.Attempts()).
				Int("status", e.StatusCode()).
				Dur("duration", e.Duration()).
				Msg("execution succeeded")
			return
		}
		l.event(l.log.Error(), evt, e).
			Int("attempts", e.Attempts()).
			Int("status", e.StatusCode()).
			Dur("duration", e.Duration()).
			Str("kind", failure.KindOf(e.Err).String()).
			Err(e.Err).
			Msg("execution failed")
	}
}

func (l *Logger) event(z *zerolog.Event, evt httpchain.Event, e *request.Execution) *zerolog.Event {
	return z.Str("event", evt.Name()).
		Str("method", e.Request.EffectiveMethod()).
		Str("url", e.Request.Redacted())
}
