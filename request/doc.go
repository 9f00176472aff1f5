// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core data model of the request execution
pipeline: Request (a logical HTTP request), Response (the buffered
result of one dispatch), and Execution (the attempt state of one
logical request). It also declares the plug-in contracts every stage of
the pipeline is built from: Adaptor, Validator, Retrier and Decoder,
together with their result types Result and Decision.

A Request describes how to make a logical HTTP request, potentially
involving several dispatch attempts if a retry is needed. It looks like
a stripped-down http.Request with the server-side fields removed and
the body replaced by a pre-buffered []byte, so that it can be replayed
on every attempt:

	r, err := request.NewRequest("GET", "https://example.com", nil)
	...
	e, err := client.Do(r, &dst)

A Request carries a context which controls the entire logical request,
including adaptor work, network exchanges, retry waits and decoding:

	r, err := request.NewRequestWithContext(ctx, "POST", "https://example.com/upload", body)

Per-request adaptors, validators and retriers are merged with the
client defaults when the request is executed. The Execution handed to
retriers and event handlers exposes the state of the logical request as
it progresses; it is never shared between logical requests.

The contracts are declared here, rather than in the packages that
implement them, so that a Request can carry its own plug-ins. The
packages adapt, validate, retry and decode re-export them under
shorter names.
*/
package request
