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

package walker

import (
	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/event"
)

// emptyWalker implements the Empty pattern: it can always end and never matches any event, per
// §3's terminal-pattern table.
type emptyWalker struct{}

var _ Walker = emptyWalker{}

func (emptyWalker) Possible() *EventSet             { return event.NewSet() }
func (emptyWalker) FireEvent(ev Event) Result       { return NotMatchedResult() }
func (emptyWalker) CanEnd(attributePhase bool) bool { return true }
func (emptyWalker) End(attributePhase bool) Result  { return OK() }
func (emptyWalker) SuppressAttributes()             {}
func (emptyWalker) Clone() Walker                   { return emptyWalker{} }

// notAllowedWalker implements the NotAllowed pattern: it can never end and never matches
// anything, the Relax NG bottom pattern.
type notAllowedWalker struct{}

var _ Walker = notAllowedWalker{}

func (notAllowedWalker) Possible() *EventSet             { return event.NewSet() }
func (notAllowedWalker) FireEvent(ev Event) Result       { return NotMatchedResult() }
func (notAllowedWalker) CanEnd(attributePhase bool) bool { return false }
func (notAllowedWalker) End(attributePhase bool) Result {
	return ErrorResult(relaxng.NewError("pattern not allowed here", relaxng.ErrKindValidationError))
}
func (notAllowedWalker) SuppressAttributes() {}
func (notAllowedWalker) Clone() Walker       { return notAllowedWalker{} }

// textWalker implements the Text pattern: it consumes any number of text events and can always
// end, per §4.H ("Text consumes any text event").
type textWalker struct{}

var _ Walker = textWalker{}

func (textWalker) Possible() *EventSet {
	s := event.NewSet()
	s.Add(event.NewText(""))
	return s
}

func (textWalker) FireEvent(ev Event) Result {
	if ev.Kind == event.Text {
		return OK()
	}
	return NotMatchedResult()
}

func (textWalker) CanEnd(attributePhase bool) bool { return true }
func (textWalker) End(attributePhase bool) Result  { return OK() }
func (textWalker) SuppressAttributes()             {}
func (textWalker) Clone() Walker                   { return textWalker{} }
