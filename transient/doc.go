// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport failures as transient or
// non-transient. Retriers use it to decide whether a failed dispatch is
// worth repeating, and the observe package uses it to bucket failure
// metrics.
//
// Package transient depends only on the standard library, so it brings
// no dependencies when imported as a standalone package.
package transient
