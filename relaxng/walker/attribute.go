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

// attributeState enumerates Attribute's three states, per §4.H.
type attributeState uint8

const (
	attrInitial attributeState = iota
	attrNameSeen
	attrValueSeen
)

// attributeWalker implements the Attribute pattern per §4.H: attributeName matching the name
// class advances to name-seen; attributeValue creates a subwalker from the value pattern,
// converts the event into an equivalent text event, fires it, and ends the subwalker immediately
// (attributes end as soon as their value is seen).
//
// Every method here is side-effect-free with respect to repeated End calls: Element's algorithm
// calls End(true) at leaveStartTag to harvest attribute-phase errors and then, independently,
// End(false) again at endTag on the same composed subwalker tree. An Attribute walker that has
// not yet seen its value only reports "attribute missing" the first time (attributePhase==true);
// the second call is a no-op so the error isn't duplicated.
type attributeWalker struct {
	g     *pattern.Grammar
	id    pattern.ID
	ctx   datatype.Context
	state attributeState
}

var _ Walker = (*attributeWalker)(nil)

func (w *attributeWalker) node() *pattern.Node { return w.g.Node(w.id) }

func (w *attributeWalker) Possible() *EventSet {
	set := event.NewSet()
	switch w.state {
	case attrInitial:
		if names, ok := w.node().NameClass.ToArray(); ok {
			for _, n := range names {
				set.Add(event.NewAttributeName(n.NS, n.Local))
			}
		} else {
			set.Add(event.NewAttributeName("*", "*"))
		}
	case attrNameSeen:
		set.Add(event.NewAttributeValue(""))
	}
	return set
}

func (w *attributeWalker) FireEvent(ev Event) Result {
	switch w.state {
	case attrInitial:
		if ev.Kind != event.AttributeName {
			return NotMatchedResult()
		}
		if !w.node().NameClass.Match(ev.Name.URI, ev.Name.Local) {
			return NotMatchedResult()
		}
		w.state = attrNameSeen
		return OK()

	case attrNameSeen:
		if ev.Kind != event.AttributeValue {
			return NotMatchedResult()
		}
		sub := New(w.g, w.node().Child, w.ctx)
		result := sub.FireEvent(ev.AsText())

		var errs []*relaxng.Error
		if result.IsNotMatched() {
			errs = append(errs, relaxng.NewError(
				"attribute value not allowed here", relaxng.ErrKindAttributeValueError))
		} else if result.HasErrors() {
			errs = append(errs, result.Errors...)
		}
		if endResult := sub.End(false); endResult.HasErrors() {
			errs = append(errs, endResult.Errors...)
		}

		w.state = attrValueSeen
		if len(errs) > 0 {
			return ErrorResult(errs...)
		}
		return OK()

	default:
		return NotMatchedResult()
	}
}

func (w *attributeWalker) CanEnd(attributePhase bool) bool {
	return w.state == attrValueSeen
}

func (w *attributeWalker) End(attributePhase bool) Result {
	if w.state == attrValueSeen {
		return OK()
	}
	if !attributePhase {
		// Already reported (or will be, by the pending attribute-phase End call); don't duplicate.
		return OK()
	}

	names, _ := w.node().NameClass.ToArray()
	var nameStrs []string
	for _, n := range names {
		nameStrs = append(nameStrs, n.Local)
	}
	return ErrorResult(relaxng.NewError("attribute missing", relaxng.ErrKindAttributeNameError, nameStrs))
}

func (w *attributeWalker) SuppressAttributes() {
	// Once suppressed, Possible must no longer report attribute events; a walker that has already
	// committed past attrInitial keeps its state (the attribute was already seen).
	if w.state == attrInitial {
		w.state = attrValueSeen
	}
}

func (w *attributeWalker) Clone() Walker {
	clone := *w
	return &clone
}
