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
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/pattern"
)

// oneOrMoreWalker implements the OneOrMore pattern per §4.H: it owns a current-iteration walker;
// when that walker can end and the incoming event doesn't match it, a fresh next-iteration walker
// is tried, and on success the next walker becomes current.
type oneOrMoreWalker struct {
	g          *pattern.Grammar
	id         pattern.ID
	ctx        datatype.Context
	current    Walker
	suppressed bool
}

var _ Walker = (*oneOrMoreWalker)(nil)

func newOneOrMoreWalker(g *pattern.Grammar, id pattern.ID, ctx datatype.Context) *oneOrMoreWalker {
	return &oneOrMoreWalker{
		g:       g,
		id:      id,
		ctx:     ctx,
		current: New(g, g.Node(id).Child, ctx),
	}
}

func (w *oneOrMoreWalker) freshIteration() Walker {
	next := New(w.g, w.g.Node(w.id).Child, w.ctx)
	if w.suppressed {
		next.SuppressAttributes()
	}
	return next
}

func (w *oneOrMoreWalker) Possible() *EventSet {
	set := w.current.Possible()
	if w.current.CanEnd(false) {
		set.AddAll(w.freshIteration().Possible())
	}
	return set
}

func (w *oneOrMoreWalker) FireEvent(ev Event) Result {
	result := w.current.FireEvent(ev)
	if !result.IsNotMatched() {
		return result
	}

	if !w.current.CanEnd(attributePhase(ev)) {
		return NotMatchedResult()
	}

	next := w.freshIteration()
	result = next.FireEvent(ev)
	if result.IsNotMatched() {
		return NotMatchedResult()
	}
	w.current = next
	return result
}

func (w *oneOrMoreWalker) CanEnd(attributePhase bool) bool {
	return w.current.CanEnd(attributePhase)
}

func (w *oneOrMoreWalker) End(attributePhase bool) Result {
	return w.current.End(attributePhase)
}

func (w *oneOrMoreWalker) SuppressAttributes() {
	w.suppressed = true
	w.current.SuppressAttributes()
}

func (w *oneOrMoreWalker) Clone() Walker {
	clone := *w
	clone.current = w.current.Clone()
	return &clone
}
