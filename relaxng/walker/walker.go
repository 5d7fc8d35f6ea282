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

// Event and EventSet alias relaxng/event's types so every file in this package can refer to them
// without repeating the import qualifier.
type Event = event.Event
type EventSet = event.Set

// attributePhase reports whether ev belongs to the start-tag (attribute) phase, the same
// distinction CanEnd/End take as an explicit parameter. OneOrMore/Group need it when they must
// infer phase from an event they are about to try firing.
func attributePhase(ev Event) bool {
	return ev.Kind == event.AttributeName || ev.Kind == event.AttributeValue
}

// New builds a fresh Walker for the pattern node id within g, the entry point §4.G calls "created
// by a pattern when the validator enters a construct." ctx supplies the namespace resolution that
// QName/NOTATION-flavored Value/Data nodes need; pass nil when none of the grammar's datatypes
// need context (datatype.Context is only consulted by types with NeedsContext() == true).
func New(g *pattern.Grammar, id pattern.ID, ctx datatype.Context) Walker {
	if id == pattern.NoID {
		return emptyWalker{}
	}

	n := g.Node(id)
	switch n.Kind {
	case pattern.KindEmpty:
		return emptyWalker{}

	case pattern.KindNotAllowed:
		return notAllowedWalker{}

	case pattern.KindText:
		return textWalker{}

	case pattern.KindRef:
		return New(g, g.Node(n.Target).Child, ctx)

	case pattern.KindDefine:
		return New(g, n.Child, ctx)

	case pattern.KindValue:
		return &valueWalker{g: g, id: id, ctx: ctx}

	case pattern.KindData:
		return &dataWalker{g: g, id: id, ctx: ctx}

	case pattern.KindList:
		return &listWalker{g: g, id: id, ctx: ctx, sub: New(g, n.Child, ctx)}

	case pattern.KindOneOrMore:
		return newOneOrMoreWalker(g, id, ctx)

	case pattern.KindAttribute:
		return &attributeWalker{g: g, id: id, ctx: ctx}

	case pattern.KindElement:
		return &elementWalker{g: g, id: id, ctx: ctx}

	case pattern.KindChoice:
		return newChoiceWalker(g, id, ctx)

	case pattern.KindGroup:
		return newGroupWalker(g, id, ctx)

	case pattern.KindInterleave:
		return newInterleaveWalker(g, id, ctx)

	default:
		relaxng.NewError("unexpected pattern kind for New", relaxng.ErrKindInternal)
		return notAllowedWalker{}
	}
}
