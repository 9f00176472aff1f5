// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

const (
	nilCtxMsg = "httpchain/request: nil context"
)

// Methods lists the request methods a Request may use, in the order
// they appear in RFC 7231 and RFC 5789.
var Methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

// A Request describes a logical HTTP request for execution by a client.
//
// A Request is mutable until it is handed to the client. From then on
// the client works on snapshots made with Clone, one per dispatch
// attempt, and never changes the Request itself.
type Request struct {
	// Method specifies the HTTP method. It must be one of Methods. An
	// empty string means GET.
	Method string

	// URL specifies the target address.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. Keys are
	// canonicalized by the http.Header methods, so Set is
	// last-write-wins for a given key.
	Header http.Header

	// Body is the pre-buffered request body. A nil or empty body
	// indicates no request body should be sent.
	Body []byte

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host is sent.
	Host string

	// Adaptors transform the request before each dispatch. They run
	// after or before the client's default adaptors, depending on the
	// client's ordering rule.
	Adaptors []Adaptor

	// Validators judge each response. They are merged with the
	// client's default validators in the same way as Adaptors.
	Validators []Validator

	// Retriers decide whether a failed attempt is retried. They are
	// merged with the client's default retriers in the same way as
	// Adaptors.
	Retriers []Retrier

	// Decoder decodes the body of an accepted response into the
	// caller's destination value. If nil, the client's default decoder
	// is used.
	Decoder Decoder

	// ctx allows the entire logical request to be cancelled. It should
	// only be modified by copying the whole Request using WithContext.
	ctx context.Context
}

// NewRequest wraps NewRequestWithContext using the background context.
func NewRequest(method, url string, body interface{}) (*Request, error) {
	return NewRequestWithContext(context.Background(), method, url, body)
}

// NewRequestWithContext returns a new Request given a method, URL, and
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func NewRequestWithContext(ctx context.Context, method, url string, body interface{}) (*Request, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = http.MethodGet
	}
	if !ValidMethod(method) {
		return nil, fmt.Errorf("httpchain/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
	}, nil
}

// ValidMethod reports whether method is one of Methods.
func ValidMethod(method string) bool {
	for _, m := range Methods {
		if m == method {
			return true
		}
	}
	return false
}

// EffectiveMethod returns the method which is sent, GET if Method is
// empty.
func (r *Request) EffectiveMethod() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// Redacted returns the target URL with any password replaced by
// "xxxxx", suitable for logging. It returns the empty string if URL is
// nil.
func (r *Request) Redacted() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Redacted()
}

// Context returns the request's context. The returned context is
// always non-nil; it defaults to the background context.
func (r *Request) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of r with its context changed to
// ctx, which must be non-nil.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	return r2
}

// Clone returns a deep copy of r. Changes to the header, URL, body or
// plug-in lists of the copy do not affect r, and vice versa.
func (r *Request) Clone() *Request {
	r2 := new(Request)
	*r2 = *r
	if r.URL != nil {
		u := *r.URL
		if r.URL.User != nil {
			user := *r.URL.User
			u.User = &user
		}
		r2.URL = &u
	}
	r2.Header = r.Header.Clone()
	if r2.Header == nil {
		r2.Header = make(http.Header)
	}
	if r.Body != nil {
		r2.Body = append([]byte(nil), r.Body...)
	}
	r2.Adaptors = append([]Adaptor(nil), r.Adaptors...)
	r2.Validators = append([]Validator(nil), r.Validators...)
	r2.Retriers = append([]Retrier(nil), r.Retriers...)
	return r2
}

// Check reports whether r can be put on the wire: the method must be
// one of Methods, the URL must be present, and every header field name
// and value must be valid according to RFC 7230.
func (r *Request) Check() error {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	if !ValidMethod(method) {
		return fmt.Errorf("httpchain/request: invalid method %q", method)
	}
	if r.URL == nil {
		return errors.New("httpchain/request: nil URL")
	}
	for k, vs := range r.Header {
		if !httpguts.ValidHeaderFieldName(k) {
			return fmt.Errorf("httpchain/request: invalid header field name %q", k)
		}
		for _, v := range vs {
			if !httpguts.ValidHeaderFieldValue(v) {
				return fmt.Errorf("httpchain/request: invalid header field value for %q", k)
			}
		}
	}
	return nil
}

// AddCookie adds a cookie to the request. Per RFC 6265 section 5.4,
// AddCookie does not attach more than one Cookie header field. That
// means all cookies, if any, are written into the same line,
// separated by semicolons.
func (r *Request) AddCookie(c *http.Cookie) {
	c2 := &http.Cookie{Name: c.Name, Value: c.Value}
	s := c2.String()
	if h := r.Header.Get("Cookie"); h != "" {
		r.Header.Set("Cookie", h+"; "+s)
	} else {
		r.Header.Set("Cookie", s)
	}
}

// SetBasicAuth sets the request's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
func (r *Request) SetBasicAuth(username, password string) {
	r.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// ToHTTP creates the net/http request corresponding to r. The context
// of the new request is set to ctx, which may not be nil.
func (r *Request) ToHTTP(ctx context.Context) *http.Request {
	hr := template.WithContext(ctx)
	hr.Method = r.Method
	hr.URL = r.URL
	hr.Header = r.Header
	if len(r.Body) > 0 {
		body := r.Body
		hr.Body = io.NopCloser(bytes.NewReader(body))
		hr.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		hr.ContentLength = int64(len(body))
	}
	hr.Host = r.Host
	if hr.Host == "" {
		hr.Host = r.URL.Host
	}
	return hr
}

// basicAuth is lifted verbatim from net/http/client.go.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// hasPort is lifted verbatim from net/http/http.go
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort strips the empty port in ":port" to "" as mandated by
// RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
