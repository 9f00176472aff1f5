// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gogama/httpchain"
	"github.com/gogama/httpchain/config"
	"github.com/gogama/httpchain/decode"
	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/observe"
	"github.com/gogama/httpchain/request"
	"github.com/gogama/httpchain/validate"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type doFlags struct {
	headers     []string
	data        string
	dataFile    string
	configPath  string
	schemaPath  string
	expect      []string
	timeout     time.Duration
	maxAttempts int
	pretty      bool
	verbose     bool
	noColor     bool
}

func newDoCmd() *cobra.Command {
	var f doFlags
	cmd := &cobra.Command{
		Use:   "do METHOD URL",
		Short: "Send a request and print the accepted response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDo(cmd, &f, strings.ToUpper(args[0]), args[1])
		},
	}
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "request header as 'Key: Value' (repeatable)")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "request body")
	cmd.Flags().StringVar(&f.dataFile, "data-file", "", "file containing the request body")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&f.schemaPath, "schema", "", "JSON schema file the response body must satisfy")
	cmd.Flags().StringArrayVar(&f.expect, "expect", nil, "JSON path which must exist, or 'path=value' (repeatable)")
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 30*time.Second, "overall timeout including retries")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 0, "override retry.max_attempts")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "pretty-print JSON and YAML responses")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log each attempt to stderr")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored output")
	return cmd
}

func runDo(cmd *cobra.Command, f *doFlags, method, url string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	palette := newColors(f.noColor)

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return report(stderr, palette, err)
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.Retry.MaxAttempts = f.maxAttempts
	}

	opts := config.Options(cfg)
	if f.verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: f.noColor}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		handlers := &httpchain.HandlerGroup{}
		observe.NewLogger(logger).Install(handlers)
		opts = append(opts, httpchain.WithHandlers(handlers), httpchain.WithLogger(logger))
	}
	client, err := httpchain.New(opts...)
	if err != nil {
		return report(stderr, palette, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()
	r, err := buildRequest(ctx, f, method, url)
	if err != nil {
		return report(stderr, palette, err)
	}

	var out interface{}
	e, err := client.Do(r, &out)
	if e.Response != nil {
		printStatus(stdout, palette, e)
	}
	if err != nil {
		return report(stderr, palette, err)
	}
	return printBody(stdout, out)
}

func buildRequest(ctx context.Context, f *doFlags, method, url string) (*request.Request, error) {
	var body interface{}
	switch {
	case f.data != "" && f.dataFile != "":
		return nil, errors.New("--data and --data-file are mutually exclusive")
	case f.data != "":
		body = f.data
	case f.dataFile != "":
		file, err := os.Open(f.dataFile)
		if err != nil {
			return nil, err
		}
		body = io.ReadCloser(file)
	}

	r, err := request.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for _, h := range f.headers {
		k, v, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header %q (want 'Key: Value')", h)
		}
		r.Header.Add(strings.TrimSpace(k), strings.TrimSpace(v))
	}

	if f.schemaPath != "" {
		schema, err := os.ReadFile(f.schemaPath)
		if err != nil {
			return nil, err
		}
		v, err := validate.JSONSchema(string(schema))
		if err != nil {
			return nil, err
		}
		r.Validators = append(r.Validators, v)
	}
	for _, x := range f.expect {
		if path, want, ok := strings.Cut(x, "="); ok {
			r.Validators = append(r.Validators, validate.JSONPathEquals(path, want))
		} else {
			r.Validators = append(r.Validators, validate.JSONPath(x))
		}
	}

	if f.pretty {
		r.Decoder = decode.ByContentType(text)
	} else {
		r.Decoder = text
	}
	return r, nil
}

// text decodes any body as a string.
var text = decode.DecoderFunc(func(resp *request.Response, v interface{}) error {
	*v.(*interface{}) = string(resp.Body)
	return nil
})

func printBody(w io.Writer, v interface{}) error {
	if s, ok := v.(string); ok {
		if s == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(s, "\n"))
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

type colors struct {
	ok, warn, bad, dim *color.Color
}

func newColors(noColor bool) *colors {
	c := &colors{
		ok:   color.New(color.FgGreen, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		bad:  color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
	}
	if noColor {
		c.ok.DisableColor()
		c.warn.DisableColor()
		c.bad.DisableColor()
		c.dim.DisableColor()
	}
	return c
}

func (c *colors) forStatus(code int) *color.Color {
	switch {
	case code >= 500:
		return c.bad
	case code >= 300:
		return c.warn
	default:
		return c.ok
	}
}

func printStatus(w io.Writer, c *colors, e *request.Execution) {
	status := e.Response.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode(), http.StatusText(e.StatusCode()))
	}
	_, _ = c.forStatus(e.StatusCode()).Fprintf(w, "%s", status)
	attempts := "attempt"
	if e.Attempts() != 1 {
		attempts += "s"
	}
	_, _ = c.dim.Fprintf(w, " (%d %s, %s)\n", e.Attempts(), attempts, e.Duration().Round(time.Millisecond))
}

func report(w io.Writer, c *colors, err error) error {
	label := "error"
	if k := failure.KindOf(err); k != failure.Unknown {
		label = strings.ToLower(k.String()) + " failure"
	}
	_, _ = c.bad.Fprintf(w, "%s: ", label)
	_, _ = fmt.Fprintln(w, err)
	return err
}
