// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gogama/httpchain/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky":
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fallthrough
		case "/widget":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":7,"name":"sprocket","tenant":"`+r.Header.Get("X-Tenant")+`"}`)
		case "/echo":
			b, _ := io.ReadAll(r.Body)
			_, _ = w.Write(append([]byte(r.Method+" "), b...))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "no such thing")
		}
	}))
	defer server.Close()

	run := func(t *testing.T, args ...string) (string, string, error) {
		var stdout, stderr bytes.Buffer
		cmd := newRootCmd(&stdout, &stderr)
		cmd.SetArgs(append([]string{"do", "--no-color"}, args...))
		err := cmd.Execute()
		return stdout.String(), stderr.String(), err
	}

	t.Run("pretty JSON", func(t *testing.T) {
		stdout, _, err := run(t, "get", server.URL+"/widget", "-H", "X-Tenant: acme", "--pretty")
		require.NoError(t, err)
		assert.Contains(t, stdout, "200 OK (1 attempt, ")
		assert.Contains(t, stdout, `"name": "sprocket"`)
		assert.Contains(t, stdout, `"tenant": "acme"`)
	})
	t.Run("raw body", func(t *testing.T) {
		stdout, _, err := run(t, "PUT", server.URL+"/echo", "-d", "hello")
		require.NoError(t, err)
		assert.Contains(t, stdout, "PUT hello\n")
	})
	t.Run("retries", func(t *testing.T) {
		stdout, _, err := run(t, "GET", server.URL+"/flaky")
		require.NoError(t, err)
		assert.Contains(t, stdout, "(2 attempts, ")
	})
	t.Run("expectations", func(t *testing.T) {
		_, _, err := run(t, "GET", server.URL+"/widget", "--expect", "id", "--expect", "name=sprocket")
		require.NoError(t, err)

		_, stderr, err := run(t, "GET", server.URL+"/widget", "--expect", "name=gear")
		assert.True(t, failure.Is(err, failure.Validation))
		assert.Contains(t, stderr, "validation failure: ")
	})
	t.Run("schema", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"type":"object","required":["id","colour"]}`), 0o600))
		_, _, err := run(t, "GET", server.URL+"/widget", "--schema", path)
		assert.True(t, failure.Is(err, failure.Validation))
	})
	t.Run("not found", func(t *testing.T) {
		stdout, stderr, err := run(t, "GET", server.URL+"/missing", "--max-attempts", "1")
		assert.True(t, failure.Is(err, failure.Validation))
		assert.Contains(t, stdout, "404 Not Found")
		assert.Contains(t, stderr, "unexpected status code 404")
	})
	t.Run("bad header", func(t *testing.T) {
		_, stderr, err := run(t, "GET", server.URL, "-H", "nocolon")
		assert.Error(t, err)
		assert.Contains(t, stderr, "malformed header")
	})
	t.Run("bad args", func(t *testing.T) {
		_, _, err := run(t, "GET")
		assert.Error(t, err)
	})
}
