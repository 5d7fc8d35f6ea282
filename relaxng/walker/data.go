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

// dataWalker implements the Data pattern. Per §4.H: "Data consults its datatype's disallows; if
// an except is present, a freshly created walker from the except pattern is tried -- if it
// accepts, the data walker rejects." Like Value, the check runs once the element/attribute's full
// text content has been accumulated, in End.
type dataWalker struct {
	g    *pattern.Grammar
	id   pattern.ID
	ctx  datatype.Context
	text string
	seen bool
}

var _ Walker = (*dataWalker)(nil)

func (w *dataWalker) node() *pattern.Node { return w.g.Node(w.id) }

func (w *dataWalker) Possible() *EventSet {
	s := event.NewSet()
	s.Add(event.NewText(""))
	return s
}

func (w *dataWalker) FireEvent(ev Event) Result {
	if ev.Kind != event.Text {
		return NotMatchedResult()
	}
	w.text += ev.Text
	w.seen = true
	return OK()
}

func (w *dataWalker) CanEnd(attributePhase bool) bool { return true }

func (w *dataWalker) End(attributePhase bool) Result {
	if attributePhase {
		return OK()
	}
	n := w.node()
	t := n.Type.(datatype.Type)

	text := w.text
	if !w.seen {
		text = ""
	}

	if t.Disallows(text, n.Params, w.ctx) {
		return ErrorResult(relaxng.NewError(
			fmt.Sprintf("value %q is not a legal %s", text, n.TypeName),
			relaxng.ErrKindValidationError))
	}

	if n.Except != pattern.NoID {
		except := New(w.g, n.Except, w.ctx)
		result := except.FireEvent(event.NewText(text))
		if !result.IsNotMatched() {
			if endResult := except.End(false); !endResult.HasErrors() {
				return ErrorResult(relaxng.NewError(
					fmt.Sprintf("value %q is excluded by data/except", text),
					relaxng.ErrKindValidationError))
			}
		}
	}

	return OK()
}

func (w *dataWalker) SuppressAttributes() {}

func (w *dataWalker) Clone() Walker {
	clone := *w
	return &clone
}
