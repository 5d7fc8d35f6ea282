/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package walker implements the §4.H walker engine: one walker class per pattern class, each a
// cheaply clonable, mutable cursor into an immutable relaxng/pattern.Grammar, advanced by the
// parse events relaxng/event defines.
package walker

import "github.com/botobag/relaxng"

// Outcome classifies a FireEvent/End result, matching the three outcomes §4.H's FireEvent
// contract names.
type Outcome uint8

// Enumeration of Outcome.
const (
	// Accepted means the walker consumed the event with no new error.
	Accepted Outcome = iota

	// NotMatched means this walker cannot handle the event; the caller should try elsewhere.
	NotMatched

	// WithErrors means the event was meant for this walker but violated its state.
	WithErrors
)

// Result is what FireEvent/End return, per §4.H.
type Result struct {
	Outcome Outcome
	Errors  []*relaxng.Error
}

// OK builds an Accepted result.
func OK() Result {
	return Result{Outcome: Accepted}
}

// NotMatchedResult builds a NotMatched result.
func NotMatchedResult() Result {
	return Result{Outcome: NotMatched}
}

// ErrorResult builds a WithErrors result from one or more errors.
func ErrorResult(errs ...*relaxng.Error) Result {
	return Result{Outcome: WithErrors, Errors: errs}
}

// IsNotMatched reports whether the walker declined the event entirely.
func (r Result) IsNotMatched() bool {
	return r.Outcome == NotMatched
}

// HasErrors reports whether the walker handled the event but found a problem.
func (r Result) HasErrors() bool {
	return r.Outcome == WithErrors && len(r.Errors) > 0
}

// Walker is the capability set every pattern-kind-specific walker struct implements, per §4.H and
// the Design Notes' "model as a tagged variant... do not use inheritance": there is one struct per
// pattern kind, not a class hierarchy.
type Walker interface {
	// Possible returns the set of events that would be accepted next. The caller may consume or
	// modify the returned set.
	Possible() *EventSet

	// FireEvent advances the walker by one event.
	FireEvent(ev Event) Result

	// CanEnd asks whether the walker's pattern can terminate now. attributePhase is true while the
	// host is still inside a start tag (before leaveStartTag).
	CanEnd(attributePhase bool) bool

	// End terminates the walker and reports any residual errors.
	End(attributePhase bool) Result

	// SuppressAttributes is invoked once the host has left the start-tag phase; after this call the
	// walker must never again report attribute events as possible.
	SuppressAttributes()

	// Clone produces an independent copy; firing events on the clone must never affect the
	// original (§8 property 5).
	Clone() Walker
}
