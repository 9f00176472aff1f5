// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package observe provides event handlers which make the executions of an
httpchain.Client visible, as structured log records and as
OpenTelemetry metrics.

Install the handlers into a handler group and pass the group to the
client:

	handlers := &httpchain.HandlerGroup{}
	observe.NewLogger(logger).Install(handlers)
	m, err := observe.NewMetrics(otel.Meter("my-service"))
	...
	m.Install(handlers)
	client, err := httpchain.New(httpchain.WithHandlers(handlers))
*/
package observe
