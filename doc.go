// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpchain provides a robust HTTP client which runs each request
through a chain of adaptors, a transport, a chain of validators, and,
when an attempt fails, a chain of retriers.

Create a Client to begin making requests.

	client, err := httpchain.New()
	...
	e, err := client.Get("https://www.example.com")
	...
	e, err := client.Post("https://www.example.com/upload",
		"application/json", &buf)
	...
	e, err := client.PostForm("http://example.com/form",
		url.Values{"key": {"Value"}, "id": {"123"}})

Use Do to attach plug-ins to an individual request, and to decode the
accepted response body:

	r, err := request.NewRequestWithContext(ctx, "GET", "https://api.example.com/widgets/7", nil)
	...
	r.Validators = []request.Validator{validate.MustJSONSchema(widgetSchema)}
	var w Widget
	e, err := client.Do(r, &w)

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer, such as a GoLang standard HTTP
client, or a custom Transport:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client, err := httpchain.New(httpchain.WithHTTPDoer(doer))

Clients never retry unless given a retrier. Build one from the deciders
and waiters in package retry:

	waiter := retry.NewExpWaiter(250*time.Millisecond, 5*time.Second, nil)
	client, err := httpchain.New(
		httpchain.WithRetriers(retry.NewPolicy(retry.DefaultDecider, waiter)),
	)

There is no attempt timeout other than the request's context, and
retry.Before, which stops retrying once an execution is old enough.

Every error returned by the client is a *failure.Error whose Kind names
the stage that failed. Use failure.Is to branch on it:

	_, err := client.Do(r, &w)
	switch {
	case failure.Is(err, failure.Cancellation):
		...
	case failure.Is(err, failure.Validation):
		...
	}

To hook into the fine-grained details of the client's request execution
logic, install a handler into the appropriate handler chain. Package
observe provides ready-made logging and metrics handlers.

	handlers := &httpchain.HandlerGroup{}
	handlers.PushBack(httpchain.BeforeAttempt, httpchain.HandlerFunc(
		func(_ httpchain.Event, e *request.Execution) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Request.URL.String())
		}),
	)
	client, err := httpchain.New(httpchain.WithHandlers(handlers))

Package httpchain provides basic interfaces for each method of the
robust client (Doer, Getter, Header, Poster, FormPoster, and
IdleCloser); a combined interface that composes all the basic methods
(Executor); and utility functions for working with a Doer (Inflate,
Get, Head, Post, and PostForm).
*/
package httpchain
