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
	"github.com/botobag/relaxng/pattern"
)

// committedSide tracks which branch of a Choice/Interleave/Group walker has committed, so Clone
// can rebuild the reference into freshly cloned subwalkers instead of copying a dangling pointer.
type committedSide uint8

const (
	committedNone committedSide = iota
	committedA
	committedB
)

// choiceWalker implements the Choice pattern per §4.H: both subwalkers see every event until one
// commits (the first to return anything other than NotMatched); the other is then dropped.
type choiceWalker struct {
	a, b      Walker
	committed committedSide
}

var _ Walker = (*choiceWalker)(nil)

func newChoiceWalker(g *pattern.Grammar, id pattern.ID, ctx datatype.Context) *choiceWalker {
	n := g.Node(id)
	return &choiceWalker{a: New(g, n.A, ctx), b: New(g, n.B, ctx)}
}

func (w *choiceWalker) Possible() *EventSet {
	switch w.committed {
	case committedA:
		return w.a.Possible()
	case committedB:
		return w.b.Possible()
	default:
		set := w.a.Possible()
		set.AddAll(w.b.Possible())
		return set
	}
}

func (w *choiceWalker) FireEvent(ev Event) Result {
	switch w.committed {
	case committedA:
		return w.a.FireEvent(ev)
	case committedB:
		return w.b.FireEvent(ev)
	}

	ra := w.a.FireEvent(ev)
	rb := w.b.FireEvent(ev)
	aMatched := !ra.IsNotMatched()
	bMatched := !rb.IsNotMatched()

	switch {
	case aMatched && !bMatched:
		w.committed = committedA
		return ra
	case bMatched && !aMatched:
		w.committed = committedB
		return rb
	case aMatched && bMatched:
		// Both sides accept: a schema that reaches this has failed the restriction checker's
		// interleave/choice disjointness rules, but we still need to make forward progress.
		// Prefer whichever side has no error; fall back to the first (a).
		if !ra.HasErrors() || rb.HasErrors() {
			w.committed = committedA
			return ra
		}
		w.committed = committedB
		return rb
	default:
		return NotMatchedResult()
	}
}

func (w *choiceWalker) CanEnd(attributePhase bool) bool {
	switch w.committed {
	case committedA:
		return w.a.CanEnd(attributePhase)
	case committedB:
		return w.b.CanEnd(attributePhase)
	default:
		return w.a.CanEnd(attributePhase) || w.b.CanEnd(attributePhase)
	}
}

// allElementNameErrors reports whether every error in errs is an ElementNameError, the condition
// under which End merges both sides' errors into one ChoiceError (§4.H).
func allElementNameErrors(errs []*relaxng.Error) bool {
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if e.Kind != relaxng.ErrKindElementNameError {
			return false
		}
	}
	return true
}

func mergedNames(a, b []*relaxng.Error) []string {
	var names []string
	seen := map[string]bool{}
	for _, e := range a {
		for _, n := range e.Names {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	for _, e := range b {
		for _, n := range e.Names {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

func (w *choiceWalker) End(attributePhase bool) Result {
	switch w.committed {
	case committedA:
		return w.a.End(attributePhase)
	case committedB:
		return w.b.End(attributePhase)
	}

	ra := w.a.End(attributePhase)
	rb := w.b.End(attributePhase)

	if !ra.HasErrors() || !rb.HasErrors() {
		return OK()
	}

	// The source is inconsistent about whether ChoiceError should surface for errors other than
	// element-name errors inside a choice (spec.md §9 Open Question); this reproduces that
	// inconsistency: merge into one ChoiceError only when both sides failed solely on element
	// names, otherwise degrade to whichever side's error came first (the a-side).
	if allElementNameErrors(ra.Errors) && allElementNameErrors(rb.Errors) {
		return ErrorResult(relaxng.NewError(
			"none of the choice's alternatives matched",
			relaxng.ErrKindChoiceError, mergedNames(ra.Errors, rb.Errors)))
	}
	return ErrorResult(ra.Errors...)
}

func (w *choiceWalker) SuppressAttributes() {
	switch w.committed {
	case committedA:
		w.a.SuppressAttributes()
	case committedB:
		w.b.SuppressAttributes()
	default:
		w.a.SuppressAttributes()
		w.b.SuppressAttributes()
	}
}

func (w *choiceWalker) Clone() Walker {
	return &choiceWalker{a: w.a.Clone(), b: w.b.Clone(), committed: w.committed}
}
