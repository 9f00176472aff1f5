// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package observe

import (
	"fmt"

	"github.com/gogama/httpchain"
	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names.
const (
	MetricAttempts   = "httpchain.client.attempts"
	MetricRetries    = "httpchain.client.retries"
	MetricExecutions = "httpchain.client.executions"
	MetricDuration   = "httpchain.client.duration"
)

// Attribute keys.
const (
	AttrMethod  = "http.request.method"
	AttrStatus  = "http.response.status_code"
	AttrOutcome = "httpchain.outcome"
)

// OutcomeSuccess is the outcome attribute value of a successful
// execution. Failed executions carry the name of their failure.Kind.
const OutcomeSuccess = "Success"

var durationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10, 30, 60,
}

// Metrics is an event handler which records OpenTelemetry metrics
// about executions.
//
// The instruments are:
//
//   - httpchain.client.attempts: counter of dispatch attempts
//   - httpchain.client.retries: counter of attempts after the first
//   - httpchain.client.executions: counter of ended executions, by outcome
//   - httpchain.client.duration: histogram of execution durations in seconds
//
// A Metrics is safe for use by concurrent executions.
type Metrics struct {
	attempts   metric.Int64Counter
	retries    metric.Int64Counter
	executions metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		panic("httpchain/observe: nil meter")
	}

	m := &Metrics{}
	var err error
	m.attempts, err = meter.Int64Counter(
		MetricAttempts,
		metric.WithDescription("Number of request dispatch attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("httpchain/observe: %s: %w", MetricAttempts, err)
	}
	m.retries, err = meter.Int64Counter(
		MetricRetries,
		metric.WithDescription("Number of attempts made after the first"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("httpchain/observe: %s: %w", MetricRetries, err)
	}
	m.executions, err = meter.Int64Counter(
		MetricExecutions,
		metric.WithDescription("Number of ended executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("httpchain/observe: %s: %w", MetricExecutions, err)
	}
	m.duration, err = meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Duration of executions including retries"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("httpchain/observe: %s: %w", MetricDuration, err)
	}
	return m, nil
}

// Install adds the Metrics handler to the event handler chains in g.
func (m *Metrics) Install(g *httpchain.HandlerGroup) {
	g.PushBack(httpchain.BeforeAttempt, m)
	g.PushBack(httpchain.AfterExecutionEnd, m)
}

// Handle records evt.
func (m *Metrics) Handle(evt httpchain.Event, e *request.Execution) {
	ctx := e.Request.Context()
	switch evt {
	case httpchain.BeforeAttempt:
		attrs := metric.WithAttributes(attribute.String(AttrMethod, e.Request.EffectiveMethod()))
		m.attempts.Add(ctx, 1, attrs)
		if e.Attempt > 0 {
			m.retries.Add(ctx, 1, attrs)
		}
	case httpchain.AfterExecutionEnd:
		attrs := metric.WithAttributes(
			attribute.String(AttrMethod, e.Request.EffectiveMethod()),
			attribute.Int(AttrStatus, e.StatusCode()),
			attribute.String(AttrOutcome, outcome(e.Err)),
		)
		m.executions.Add(ctx, 1, attrs)
		m.duration.Record(ctx, e.Duration().Seconds(), attrs)
	}
}

func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return failure.KindOf(err).String()
}
