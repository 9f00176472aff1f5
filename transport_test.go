// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpchain

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gogama/httpchain/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPTransport(t *testing.T) {
	assert.PanicsWithValue(t, "httpchain: nil doer", func() { NewHTTPTransport(nil) })
	d := newMockHTTPDoer(t)
	assert.Same(t, d, NewHTTPTransport(d).Doer)
}

func TestHTTPTransport_Send(t *testing.T) {
	r, err := request.NewRequest("PUT", "http://example.com/things/1", "payload")
	require.NoError(t, err)
	r.Header.Set("X-Foo", "bar")

	t.Run("doer error", func(t *testing.T) {
		expectedErr := errors.New("dial failed")
		d := newMockHTTPDoer(t)
		d.On("Do", mock.Anything).Return(nil, expectedErr).Once()

		resp, err := NewHTTPTransport(d).Send(context.Background(), r)

		d.AssertExpectations(t)
		assert.Nil(t, resp)
		assert.Same(t, expectedErr, err)
	})
	t.Run("body buffered and closed", func(t *testing.T) {
		body := &closeRecorder{Reader: strings.NewReader("hello")}
		d := newMockHTTPDoer(t)
		d.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			rc, err := req.GetBody()
			if err != nil {
				return false
			}
			b, _ := io.ReadAll(rc)
			return req.Method == "PUT" &&
				req.URL.String() == "http://example.com/things/1" &&
				req.Header.Get("X-Foo") == "bar" &&
				string(b) == "payload"
		})).Return(&http.Response{
			StatusCode: 201,
			Status:     "201 Created",
			Header:     http.Header{"Location": {"/things/1"}},
			Body:       body,
		}, nil).Once()

		resp, err := NewHTTPTransport(d).Send(context.Background(), r)

		require.NoError(t, err)
		d.AssertExpectations(t)
		assert.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, "201 Created", resp.Status)
		assert.Equal(t, "/things/1", resp.Header.Get("Location"))
		assert.Equal(t, []byte("hello"), resp.Body)
		assert.True(t, body.closed)
	})
	t.Run("body read error", func(t *testing.T) {
		readErr := errors.New("connection reset mid-body")
		body := &closeRecorder{Reader: io.MultiReader(strings.NewReader("hel"), errReader{readErr})}
		d := newMockHTTPDoer(t)
		d.On("Do", mock.Anything).Return(&http.Response{StatusCode: 200, Body: body}, nil).Once()

		resp, err := NewHTTPTransport(d).Send(context.Background(), r)

		assert.Nil(t, resp)
		assert.Same(t, readErr, err)
		assert.True(t, body.closed)
	})
	t.Run("context bound", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "v")
		d := newMockHTTPDoer(t)
		d.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			return req.Context().Value(key{}) == "v"
		})).Return(&http.Response{StatusCode: 204, Body: http.NoBody}, nil).Once()

		_, err := NewHTTPTransport(d).Send(ctx, r)

		require.NoError(t, err)
		d.AssertExpectations(t)
	})
}

func TestHTTPTransport_CloseIdleConnections(t *testing.T) {
	d := newMockHTTPDoerWithCloseIdleConnections(t)
	d.On("CloseIdleConnections").Once()
	NewHTTPTransport(d).CloseIdleConnections()
	d.AssertExpectations(t)

	(&HTTPTransport{Doer: newMockHTTPDoer(t)}).CloseIdleConnections()
}

func TestTransportFunc(t *testing.T) {
	var got *request.Request
	f := TransportFunc(func(_ context.Context, r *request.Request) (*request.Response, error) {
		got = r
		return &request.Response{StatusCode: 200}, nil
	})
	r, err := request.NewRequest("", "http://example.com", nil)
	require.NoError(t, err)

	resp, err := f.Send(context.Background(), r)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Same(t, r, got)
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}
