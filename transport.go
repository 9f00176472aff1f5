// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpchain

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gogama/httpchain/request"
)

// A Transport performs a single request/response exchange. It does not
// retry, validate, or adapt: the Client does those things on top of
// the Transport.
//
// Send must honor cancellation of ctx, and must return either a
// non-nil response or a non-nil error. A non-nil error means no
// response was obtained, and is classified by the Client as a
// transport failure. Implementations must be safe for concurrent use by
// multiple goroutines.
type Transport interface {
	Send(ctx context.Context, r *request.Request) (*request.Response, error)
}

// ErrNilResponse is the transport failure reported when a Transport
// returns neither a response nor an error.
var ErrNilResponse = errors.New("httpchain: transport returned nil response and nil error")

// The TransportFunc type is an adapter to allow the use of ordinary
// functions as transports.
type TransportFunc func(ctx context.Context, r *request.Request) (*request.Response, error)

// Send calls f(ctx, r).
func (f TransportFunc) Send(ctx context.Context, r *request.Request) (*request.Response, error) {
	return f(ctx, r)
}

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// HTTPTransport is a Transport which sends requests with an HTTPDoer,
// typically an *http.Client, and reads and buffers the entire response
// body.
//
// The HTTPDoer is responsible for connection pooling, redirects,
// cookies, and the rest of the HTTP protocol mechanics.
type HTTPTransport struct {
	// Doer sends the HTTP requests. If Doer is nil, http.DefaultClient
	// from the standard net/http package is used.
	Doer HTTPDoer
}

// NewHTTPTransport returns a Transport which sends requests with d.
func NewHTTPTransport(d HTTPDoer) *HTTPTransport {
	if d == nil {
		panic("httpchain: nil doer")
	}
	return &HTTPTransport{Doer: d}
}

// Send converts r to an http.Request bound to ctx, sends it, and reads
// the whole response body. If reading the body fails, the error is
// returned and the partial response is discarded.
func (t *HTTPTransport) Send(ctx context.Context, r *request.Request) (*request.Response, error) {
	resp, err := t.doer().Do(r.ToHTTP(ctx))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &request.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// CloseIdleConnections invokes the same method on the underlying
// HTTPDoer, if it has one.
func (t *HTTPTransport) CloseIdleConnections() {
	if ic, ok := t.doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (t *HTTPTransport) doer() HTTPDoer {
	if t.Doer == nil {
		return http.DefaultClient
	}
	return t.Doer
}
