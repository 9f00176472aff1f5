// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogama/httpchain/failure"
	"github.com/gogama/httpchain/request"
)

// ErrUnexpectedStatus is wrapped by every StatusError.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// A StatusError is the rejection reason of the status code validators.
type StatusError struct {
	// StatusCode is the status code of the rejected response.
	StatusCode int
	// Lower and Upper are the inclusive bounds of the accepted range.
	Lower, Upper int
	// Body is the body of the rejected response, truncated to
	// failure.MaxBody bytes.
	Body []byte
}

func (e *StatusError) Error() string {
	if e.Lower == e.Upper {
		return fmt.Sprintf("%s %d (want %d)", ErrUnexpectedStatus, e.StatusCode, e.Lower)
	}
	return fmt.Sprintf("%s %d (want %d..%d)", ErrUnexpectedStatus, e.StatusCode, e.Lower, e.Upper)
}

// Unwrap returns ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Success accepts responses whose status code is in the range 200..299.
var Success = StatusRange(200, 299)

// StatusRange returns a validator which accepts a response if and only
// if its status code c satisfies lower <= c <= upper. Otherwise the
// response is rejected with a *StatusError.
func StatusRange(lower, upper int) Validator {
	if lower > upper {
		panic("httpchain/validate: lower bound exceeds upper bound")
	}
	return ValidatorFunc(func(_ context.Context, resp *request.Response, _ *request.Request) Result {
		if lower <= resp.StatusCode && resp.StatusCode <= upper {
			return Accept
		}
		return Reject(&StatusError{
			StatusCode: resp.StatusCode,
			Lower:      lower,
			Upper:      upper,
			Body:       truncate(resp.Body),
		})
	})
}

// StatusCode returns a validator which accepts a response if and only
// if its status code equals expected.
func StatusCode(expected int) Validator {
	return StatusRange(expected, expected)
}

func truncate(b []byte) []byte {
	if len(b) > failure.MaxBody {
		b = b[:failure.MaxBody]
	}
	return append([]byte(nil), b...)
}
