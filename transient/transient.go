// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// A Category is the transience category of a particular error, as
// reported by Categorize.
//
// The category Not means a retry after encountering the error is very
// unlikely to succeed. All other categories indicate a retry has some
// prospect of success.
type Category int

const (
	// Not indicates any non-transient error, including cancellation of
	// the caller's context.
	Not Category = iota
	// Timeout indicates a network-level timeout. The error or one of
	// its wrapped causes has a Timeout method reporting true.
	//
	// A context.DeadlineExceeded is never categorized as Timeout: an
	// expired caller deadline ends the logical request, it is not a
	// property of the remote host.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (ECONNREFUSED). It happens while a service is starting or
	// restarting and is not yet listening.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (ECONNRESET or ECONNABORTED), typically because the
	// service went down mid-response or a load balancer recycled the
	// connection.
	ConnReset
	// UnexpectedEOF indicates the connection closed before a complete
	// response was read. This is common on reused keep-alive
	// connections that the server closed concurrently.
	UnexpectedEOF
	// TemporaryDNS indicates a DNS lookup failed with a temporary
	// error.
	TemporaryDNS
	categorySentinel
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"UnexpectedEOF",
	"TemporaryDNS",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || c >= categorySentinel {
		return "Category(?)"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of err. A nil error, an
// error that is not transient, and a context error all produce Not.
//
// Categorize looks at wrapped causes, not just err itself, but never
// consults a Temporary method as its semantics are unclear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNABORTED:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary {
		return TemporaryDNS
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return UnexpectedEOF
	}

	return Not
}

// Is reports whether err is transient, that is whether its category is
// anything other than Not.
func Is(err error) bool {
	return Categorize(err) != Not
}

type hasTimeout interface {
	Timeout() bool
}
