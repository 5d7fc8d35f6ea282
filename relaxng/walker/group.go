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

// groupWalker implements the Group pattern per §4.H: left-to-right, events are tried on the left
// walker first; attribute-phase events may cross into the right walker even before the left ends
// (attribute order is not fixed); on the first non-attribute event only the right walker accepts,
// the left walker's End is invoked and its errors are combined with the right walker's result.
type groupWalker struct {
	left, right Walker
	leftDone    bool
}

var _ Walker = (*groupWalker)(nil)

func newGroupWalker(g *pattern.Grammar, id pattern.ID, ctx datatype.Context) *groupWalker {
	n := g.Node(id)
	return &groupWalker{left: New(g, n.A, ctx), right: New(g, n.B, ctx)}
}

func (w *groupWalker) Possible() *EventSet {
	if w.leftDone {
		return w.right.Possible()
	}
	set := w.left.Possible()
	set.AddAll(w.right.Possible())
	return set
}

func (w *groupWalker) FireEvent(ev Event) Result {
	if w.leftDone {
		return w.right.FireEvent(ev)
	}

	if ev.Kind == event.AttributeName || ev.Kind == event.AttributeValue {
		if r := w.left.FireEvent(ev); !r.IsNotMatched() {
			return r
		}
		return w.right.FireEvent(ev)
	}

	if r := w.left.FireEvent(ev); !r.IsNotMatched() {
		return r
	}

	if !w.left.CanEnd(false) {
		return NotMatchedResult()
	}

	rr := w.right.FireEvent(ev)
	if rr.IsNotMatched() {
		return NotMatchedResult()
	}

	endResult := w.left.End(false)
	w.leftDone = true

	if endResult.HasErrors() || rr.HasErrors() {
		all := append(append([]*relaxng.Error{}, endResult.Errors...), rr.Errors...)
		return ErrorResult(all...)
	}
	return rr
}

func (w *groupWalker) CanEnd(attributePhase bool) bool {
	if w.leftDone {
		return w.right.CanEnd(attributePhase)
	}
	return w.left.CanEnd(attributePhase) && w.right.CanEnd(attributePhase)
}

func (w *groupWalker) End(attributePhase bool) Result {
	if w.leftDone {
		return w.right.End(attributePhase)
	}
	rl := w.left.End(attributePhase)
	rr := w.right.End(attributePhase)
	if !rl.HasErrors() && !rr.HasErrors() {
		return OK()
	}
	all := append(append([]*relaxng.Error{}, rl.Errors...), rr.Errors...)
	return ErrorResult(all...)
}

func (w *groupWalker) SuppressAttributes() {
	w.left.SuppressAttributes()
	w.right.SuppressAttributes()
}

func (w *groupWalker) Clone() Walker {
	return &groupWalker{left: w.left.Clone(), right: w.right.Clone(), leftDone: w.leftDone}
}
