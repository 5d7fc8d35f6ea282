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
	"fmt"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/event"
	"github.com/botobag/relaxng/pattern"
)

// valueWalker implements the Value pattern (§4.H: "Value checks typed equality against the
// stored value"). Like Data, the actual typed comparison happens in End, after every Text event
// for this element/attribute's content has been accumulated; this mirrors how Attribute's
// algorithm immediately calls End() on a freshly fired value subwalker, and how Element's
// leaveStartTag/endTag call End() on the child walker at the two points content is known to be
// complete.
type valueWalker struct {
	g      *pattern.Grammar
	id     pattern.ID
	ctx    datatype.Context
	text   string
	seen   bool
}

var _ Walker = (*valueWalker)(nil)

func (w *valueWalker) node() *pattern.Node { return w.g.Node(w.id) }

func (w *valueWalker) Possible() *EventSet {
	s := event.NewSet()
	s.Add(event.NewText(w.node().Value))
	return s
}

func (w *valueWalker) FireEvent(ev Event) Result {
	if ev.Kind != event.Text {
		return NotMatchedResult()
	}
	w.text += ev.Text
	w.seen = true
	return OK()
}

func (w *valueWalker) CanEnd(attributePhase bool) bool { return true }

func (w *valueWalker) End(attributePhase bool) Result {
	if attributePhase {
		return OK()
	}
	n := w.node()
	t := n.Type.(datatype.Type)

	text := w.text
	if !w.seen {
		text = ""
	}

	parsed, err := t.ParseValue(fmt.Sprintf("value(%s)", n.TypeName), text, w.ctx)
	if err != nil {
		return ErrorResult(relaxng.NewError(
			fmt.Sprintf("value %q is not a legal %s", text, n.TypeName),
			relaxng.ErrKindValidationError))
	}
	if !t.Equal(parsed, n.ParsedValue, w.ctx) {
		return ErrorResult(relaxng.NewError(
			fmt.Sprintf("value %q does not equal expected value %q", text, n.Value),
			relaxng.ErrKindValidationError))
	}
	return OK()
}

func (w *valueWalker) SuppressAttributes() {}

func (w *valueWalker) Clone() Walker {
	clone := *w
	return &clone
}
