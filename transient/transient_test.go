// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, Not, Categorize(nil))
	assert.Equal(t, Not, Categorize(errors.New("foo")))
	assert.Equal(t, Not, Categorize(wrapper{}))
	assert.Equal(t, Not, Categorize(wrapper{errors.New("bar")}))
	assert.Equal(t, Not, Categorize(context.Canceled))
	assert.Equal(t, Not, Categorize(context.DeadlineExceeded))
	assert.Equal(t, Not, Categorize(&url.Error{Err: context.DeadlineExceeded}))
	assert.Equal(t, Not, Categorize(syscall.EHOSTUNREACH))
	assert.Equal(t, Timeout, Categorize(syscall.ETIMEDOUT))
	assert.Equal(t, Timeout, Categorize(timeout{}))
	assert.Equal(t, Timeout, Categorize(&url.Error{Err: syscall.ETIMEDOUT}))
	assert.Equal(t, Timeout, Categorize(wrapper{wrapper{timeout{}}}))
	assert.Equal(t, Timeout, Categorize(timeoutWrapper{true, syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Categorize(syscall.ECONNRESET))
	assert.Equal(t, ConnReset, Categorize(syscall.ECONNABORTED))
	assert.Equal(t, ConnReset, Categorize(wrapper{syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Categorize(timeoutWrapper{false, syscall.ECONNRESET}))
	assert.Equal(t, ConnRefused, Categorize(syscall.ECONNREFUSED))
	assert.Equal(t, ConnRefused, Categorize(&url.Error{Err: wrapper{timeoutWrapper{false, syscall.ECONNREFUSED}}}))
	assert.Equal(t, UnexpectedEOF, Categorize(io.ErrUnexpectedEOF))
	assert.Equal(t, UnexpectedEOF, Categorize(&url.Error{Err: io.EOF}))
	assert.Equal(t, TemporaryDNS, Categorize(&net.DNSError{Err: "server misbehaving", IsTemporary: true}))
	assert.Equal(t, Not, Categorize(&net.DNSError{Err: "no such host", IsNotFound: true}))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(syscall.ECONNRESET))
	assert.False(t, Is(errors.New("ain't transient")))
	assert.False(t, Is(nil))
}

func TestCategory_String(t *testing.T) {
	assert.Len(t, categoryNames, int(categorySentinel))
	assert.Equal(t, "Timeout", Timeout.String())
	assert.Equal(t, "TemporaryDNS", TemporaryDNS.String())
	assert.Equal(t, "Category(?)", Category(-1).String())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
