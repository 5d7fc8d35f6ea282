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

// elementState enumerates Element's four states, per §4.H.
type elementState uint8

const (
	elemInitial      elementState = iota // not yet opened
	elemInStartTag                       // enterStartTag seen, matching attributes
	elemInContent                        // leaveStartTag seen, matching content
	elemDone                             // endTag seen
)

// elementWalker implements the Element pattern per §4.H. Nested elements are handled without any
// explicit depth stack: once opened (elemInContent), every event is first offered to the content
// subwalker; only when the content subwalker rejects an EndTag (because nothing inside it is still
// open and waiting to consume one) does this walker treat the EndTag as its own closing tag. Since
// a well-formed event stream nests tags properly, any EndTag destined for a still-open descendant
// element is always accepted deeper in the subwalker tree before reaching this fallback.
type elementWalker struct {
	g     *pattern.Grammar
	id    pattern.ID
	ctx   datatype.Context
	state elementState
	child Walker
}

var _ Walker = (*elementWalker)(nil)

func (w *elementWalker) node() *pattern.Node { return w.g.Node(w.id) }

func (w *elementWalker) Possible() *EventSet {
	set := event.NewSet()
	switch w.state {
	case elemInitial:
		if names, ok := w.node().NameClass.ToArray(); ok {
			for _, n := range names {
				set.Add(event.NewEnterStartTag(n.NS, n.Local))
			}
		} else {
			set.Add(event.NewEnterStartTag("*", "*"))
		}
	case elemInStartTag:
		set.AddAll(w.child.Possible())
		set.Add(event.NewLeaveStartTag())
	case elemInContent:
		set.AddAll(w.child.Possible())
		if names, ok := w.node().NameClass.ToArray(); ok && len(names) > 0 {
			set.Add(event.NewEndTag(names[0].NS, names[0].Local))
		} else {
			set.Add(event.NewEndTag("*", "*"))
		}
	}
	return set
}

func (w *elementWalker) FireEvent(ev Event) Result {
	switch w.state {
	case elemInitial:
		if ev.Kind != event.EnterStartTag {
			return NotMatchedResult()
		}
		if !w.node().NameClass.Match(ev.Name.URI, ev.Name.Local) {
			return NotMatchedResult()
		}
		w.child = New(w.g, w.node().Child, w.ctx)
		w.state = elemInStartTag
		return OK()

	case elemInStartTag:
		if ev.Kind == event.LeaveStartTag {
			result := w.child.End(true)
			w.state = elemInContent
			if result.HasErrors() {
				return ErrorResult(result.Errors...)
			}
			return OK()
		}
		return w.child.FireEvent(ev)

	case elemInContent:
		if result := w.child.FireEvent(ev); !result.IsNotMatched() {
			return result
		}
		if ev.Kind == event.EndTag {
			result := w.child.End(false)
			w.state = elemDone
			if result.HasErrors() {
				return ErrorResult(result.Errors...)
			}
			return OK()
		}
		return NotMatchedResult()

	default:
		return NotMatchedResult()
	}
}

func (w *elementWalker) CanEnd(attributePhase bool) bool {
	return w.state == elemDone
}

func (w *elementWalker) End(attributePhase bool) Result {
	switch w.state {
	case elemDone:
		return OK()
	case elemInitial:
		if attributePhase {
			return OK()
		}
		names, _ := w.node().NameClass.ToArray()
		var nameStrs []string
		for _, n := range names {
			nameStrs = append(nameStrs, n.Local)
		}
		return ErrorResult(relaxng.NewError("element missing", relaxng.ErrKindElementNameError, nameStrs))
	default:
		return ErrorResult(relaxng.NewError("element not closed", relaxng.ErrKindValidationError))
	}
}

func (w *elementWalker) SuppressAttributes() {
	if w.child != nil {
		w.child.SuppressAttributes()
	}
}

func (w *elementWalker) Clone() Walker {
	clone := *w
	if w.child != nil {
		clone.child = w.child.Clone()
	}
	return &clone
}
