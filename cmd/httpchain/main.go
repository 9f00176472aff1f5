// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command httpchain sends HTTP requests through a robust client with
// adaptors, validators and retries configured from a file, the
// environment and flags.
//
//	httpchain do GET https://api.example.com/widgets/7 -H 'Accept: application/json' --pretty
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
