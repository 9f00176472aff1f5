// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpchain

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gogama/httpchain/adapt"
	"github.com/gogama/httpchain/decode"
	"github.com/gogama/httpchain/request"
	"github.com/gogama/httpchain/retry"
	"github.com/gogama/httpchain/validate"
	"github.com/rs/zerolog"
)

// An Ordering determines how a Client merges its default plug-ins with
// the plug-ins attached to an individual request.
type Ordering int

const (
	// ClientFirst runs the client's adaptors, validators and retriers
	// before the request's own.
	ClientFirst Ordering = iota
	// RequestFirst runs the request's adaptors, validators and
	// retriers before the client's defaults.
	RequestFirst
)

// A Client is a robust HTTP client which runs every request through an
// adaptor chain, a transport, a validator chain, and, when an attempt
// fails, a retrier.
//
// Construct a Client with New. The configuration is fixed at
// construction and a Client is safe for concurrent use by multiple
// goroutines. Each logical request is executed entirely on the calling
// goroutine.
//
// The zero value Client is usable: it sends requests with
// http.DefaultClient, accepts every response, never retries, and
// decodes with decode.JSON. Clients built by New default to accepting
// only 2XX responses.
//
// A Client is higher-level than its Transport. The Transport is
// responsible for all details of sending the HTTP request and receiving
// the response, including redirects and connection pooling, while
// Client builds on top of the Transport's feature set by adding:
//
// • per-attempt request adaptation (headers, throttling, tracing);
//
// • response validation, with rejected responses treated as failures;
//
// • retries of failed attempts using customizable retriers;
//
// • decoding of the accepted response body; and
//
// • handler functions invoked at designated plug-in points within the
// attempt/retry loop, allowing new features to be mixed in from
// outside libraries.
type Client struct {
	transport  Transport
	adaptors   []request.Adaptor
	validators []request.Validator
	retriers   []request.Retrier
	combine    retry.Combiner
	ordering   Ordering
	decoder    request.Decoder
	handlers   *HandlerGroup
	logger     *zerolog.Logger
}

// Option is a functional option for configuring a Client via New.
type Option func(*Client) error

// New constructs a Client. Options are applied in order.
//
// Unless overridden by options, the Client sends requests with
// http.DefaultClient, validates responses with validate.Success, never
// retries, combines retriers with retry.Zip, uses the ClientFirst
// ordering, decodes with decode.JSON, and does not log.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		validators: []request.Validator{validate.Success},
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, errors.New("httpchain: nil option")
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithTransport sets the transport used to dispatch requests.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return errors.New("httpchain: transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPDoer sets an HTTPDoer, typically an *http.Client, as the
// transport used to dispatch requests.
func WithHTTPDoer(d HTTPDoer) Option {
	return func(c *Client) error {
		if d == nil {
			return errors.New("httpchain: doer must not be nil")
		}
		c.transport = NewHTTPTransport(d)
		return nil
	}
}

// WithHeader adds a default header. It is applied to every request by
// an additive adaptor, so it never replaces a value the request
// already carries. The adaptor takes its place among the client's
// adaptors in the order in which options are applied.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		if key == "" {
			return errors.New("httpchain: header key must not be empty")
		}
		c.adaptors = append(c.adaptors, adapt.Header(key, value))
		return nil
	}
}

// WithAdaptors appends default adaptors.
func WithAdaptors(adaptors ...request.Adaptor) Option {
	return func(c *Client) error {
		for _, a := range adaptors {
			if a == nil {
				return errors.New("httpchain: adaptor must not be nil")
			}
		}
		c.adaptors = append(c.adaptors, adaptors...)
		return nil
	}
}

// WithValidators replaces the default validators. Passing no
// validators makes the client accept every response.
func WithValidators(validators ...request.Validator) Option {
	return func(c *Client) error {
		for _, v := range validators {
			if v == nil {
				return errors.New("httpchain: validator must not be nil")
			}
		}
		c.validators = append([]request.Validator(nil), validators...)
		return nil
	}
}

// WithRetriers appends default retriers.
func WithRetriers(retriers ...request.Retrier) Option {
	return func(c *Client) error {
		for _, r := range retriers {
			if r == nil {
				return errors.New("httpchain: retrier must not be nil")
			}
		}
		c.retriers = append(c.retriers, retriers...)
		return nil
	}
}

// WithRetryCombiner sets the function which merges the client's and the
// request's retriers into one. The default is retry.Zip, under which
// the first retrier that does not concede decides.
func WithRetryCombiner(combine retry.Combiner) Option {
	return func(c *Client) error {
		if combine == nil {
			return errors.New("httpchain: combiner must not be nil")
		}
		c.combine = combine
		return nil
	}
}

// WithOrdering sets how the client's plug-ins are merged with a
// request's plug-ins.
func WithOrdering(o Ordering) Option {
	return func(c *Client) error {
		if o != ClientFirst && o != RequestFirst {
			return errors.New("httpchain: invalid ordering")
		}
		c.ordering = o
		return nil
	}
}

// WithDecoder sets the decoder used for requests which have none.
func WithDecoder(d request.Decoder) Option {
	return func(c *Client) error {
		if d == nil {
			return errors.New("httpchain: decoder must not be nil")
		}
		c.decoder = d
		return nil
	}
}

// WithHandlers installs event handlers.
func WithHandlers(g *HandlerGroup) Option {
	return func(c *Client) error {
		if g == nil {
			return errors.New("httpchain: handler group must not be nil")
		}
		c.handlers = g
		return nil
	}
}

// WithLogger sets the logger the client writes attempt, retry and
// outcome records to, at debug level for normal progress and warn level
// for failed executions.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = &l
		return nil
	}
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers, use request.NewRequest and
// Client.Do.
func (c *Client) Get(url string) (*request.Execution, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers, use request.NewRequest and
// Client.Do.
func (c *Client) Head(url string) (*request.Execution, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.BodyBytes, namely: string; []byte;
// io.Reader; and io.ReadCloser.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Execution, error) {
	return Post(c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.NewRequest and Client.Do.
func (c *Client) PostForm(url string, data url.Values) (*request.Execution, error) {
	return PostForm(c, url, data)
}

// CloseIdleConnections invokes the same method on the client's
// Transport, if it has one.
//
// The effect of this method depends entirely on the Transport. The
// HTTPTransport forwards the call to its HTTPDoer, and http.Client in
// turn forwards it to its own Transport.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.transportOrDefault().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

var defaultTransport = &HTTPTransport{Doer: http.DefaultClient}

func (c *Client) transportOrDefault() Transport {
	if c.transport == nil {
		return defaultTransport
	}
	return c.transport
}

func (c *Client) log() *zerolog.Logger {
	if c.logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return c.logger
}

func (c *Client) decoderFor(r *request.Request) request.Decoder {
	if r.Decoder != nil {
		return r.Decoder
	}
	if c.decoder != nil {
		return c.decoder
	}
	return decode.JSON
}
