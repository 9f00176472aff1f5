// Copyright 2021 The httpchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpchain

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality, such as logging or metrics.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// execution of a logical request starts.
	//
	// When Client fires BeforeExecutionStart, the execution is
	// non-nil but the only field that has been set is the original
	// request.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// dispatch attempt, after the adaptor chain has run.
	//
	// When Client fires BeforeAttempt, the execution's Outbound field
	// is set to the adapted request that WILL BE sent after all
	// BeforeAttempt handlers have finished. Handlers may modify it.
	BeforeAttempt
	// AfterAttempt identifies the event that occurs after a dispatch
	// attempt has concluded and its response, if any, has been
	// validated.
	//
	// When Client fires AfterAttempt, the execution's Response field
	// is set if the transport produced a response, and its Err field is
	// set if the transport failed or a validator rejected the
	// response. If both are set, the response was rejected. If Err is
	// nil, the response was accepted and the execution is about to end
	// successfully.
	//
	// AfterAttempt does not fire if the attempt was interrupted by
	// cancellation, or if the adaptor chain failed.
	AfterAttempt
	// BeforeRetryWait identifies the event that occurs after a retrier
	// decided to retry after a delay, and before the wait starts.
	//
	// When Client fires BeforeRetryWait, the execution's Decision
	// field holds the decision, including the delay.
	BeforeRetryWait
	// AfterExecutionEnd identifies the event that occurs after the
	// execution ends, successfully or not.
	//
	// When Client fires AfterExecutionEnd, the execution's end time is
	// set, and its Err field holds the error the Client is about to
	// return.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel
	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterAttempt",
	"BeforeRetryWait",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in an
// execution by Client, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterAttempt,
		BeforeRetryWait,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
