// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:     "httpchain",
		Short:   "Send HTTP requests with adaptation, validation and retries",
		Version: version,
		Long: `httpchain sends an HTTP request through an adaptor chain, validates the
response, and retries failed attempts according to the configured policy.

Configuration is read from the file named by --config, then from
HTTPCHAIN_ environment variables, then from flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newDoCmd())
	return root
}
