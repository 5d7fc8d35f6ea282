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
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/event"
	"github.com/botobag/relaxng/pattern"
)

// interleaveWalker implements the Interleave pattern per §4.H: either subwalker may accept any
// event; once a subwalker commits to a non-attribute event, subsequent non-attribute events
// continue with that subwalker until it can end, at which point the other may resume. The
// restriction checker (§4.F) guarantees this is unambiguous for a valid schema.
type interleaveWalker struct {
	a, b   Walker
	active committedSide // which side owns the current non-attribute run, if any
}

var _ Walker = (*interleaveWalker)(nil)

func newInterleaveWalker(g *pattern.Grammar, id pattern.ID, ctx datatype.Context) *interleaveWalker {
	n := g.Node(id)
	return &interleaveWalker{a: New(g, n.A, ctx), b: New(g, n.B, ctx)}
}

func (w *interleaveWalker) Possible() *EventSet {
	set := w.a.Possible()
	set.AddAll(w.b.Possible())
	return set
}

func (w *interleaveWalker) FireEvent(ev Event) Result {
	isAttr := ev.Kind == event.AttributeName || ev.Kind == event.AttributeValue

	if isAttr {
		if r := w.a.FireEvent(ev); !r.IsNotMatched() {
			return r
		}
		return w.b.FireEvent(ev)
	}

	switch w.active {
	case committedA:
		if r := w.a.FireEvent(ev); !r.IsNotMatched() {
			return r
		}
		if !w.a.CanEnd(false) {
			return NotMatchedResult()
		}
		if r := w.b.FireEvent(ev); !r.IsNotMatched() {
			w.active = committedB
			return r
		}
		return NotMatchedResult()

	case committedB:
		if r := w.b.FireEvent(ev); !r.IsNotMatched() {
			return r
		}
		if !w.b.CanEnd(false) {
			return NotMatchedResult()
		}
		if r := w.a.FireEvent(ev); !r.IsNotMatched() {
			w.active = committedA
			return r
		}
		return NotMatchedResult()

	default:
		ra := w.a.FireEvent(ev)
		if !ra.IsNotMatched() {
			w.active = committedA
			return ra
		}
		rb := w.b.FireEvent(ev)
		if !rb.IsNotMatched() {
			w.active = committedB
			return rb
		}
		return NotMatchedResult()
	}
}

func (w *interleaveWalker) CanEnd(attributePhase bool) bool {
	return w.a.CanEnd(attributePhase) && w.b.CanEnd(attributePhase)
}

func (w *interleaveWalker) End(attributePhase bool) Result {
	ra := w.a.End(attributePhase)
	rb := w.b.End(attributePhase)
	if !ra.HasErrors() && !rb.HasErrors() {
		return OK()
	}
	all := append(append([]*relaxng.Error{}, ra.Errors...), rb.Errors...)
	return ErrorResult(all...)
}

func (w *interleaveWalker) SuppressAttributes() {
	w.a.SuppressAttributes()
	w.b.SuppressAttributes()
}

func (w *interleaveWalker) Clone() Walker {
	return &interleaveWalker{a: w.a.Clone(), b: w.b.Clone(), active: w.active}
}
