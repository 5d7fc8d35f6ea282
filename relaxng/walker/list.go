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
	"strings"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/event"
	"github.com/botobag/relaxng/pattern"
)

// listWalker implements the List pattern: it splits each incoming text payload on whitespace and
// fires one Text event per token at its subwalker (§4.H).
type listWalker struct {
	g        *pattern.Grammar
	id       pattern.ID
	ctx      datatype.Context
	sub      Walker
	anyToken bool
}

var _ Walker = (*listWalker)(nil)

func (w *listWalker) Possible() *EventSet {
	s := event.NewSet()
	s.Add(event.NewText(""))
	return s
}

func (w *listWalker) FireEvent(ev Event) Result {
	if ev.Kind != event.Text {
		return NotMatchedResult()
	}

	var errs []*relaxng.Error
	for _, tok := range strings.Fields(ev.Text) {
		w.anyToken = true
		result := w.sub.FireEvent(event.NewText(tok))
		if result.IsNotMatched() {
			errs = append(errs, relaxng.NewError(
				"unexpected token \""+tok+"\" in list", relaxng.ErrKindValidationError))
			continue
		}
		if result.HasErrors() {
			errs = append(errs, result.Errors...)
		}
	}
	if len(errs) > 0 {
		return ErrorResult(errs...)
	}
	return OK()
}

func (w *listWalker) CanEnd(attributePhase bool) bool {
	return w.sub.CanEnd(attributePhase)
}

func (w *listWalker) End(attributePhase bool) Result {
	if !w.anyToken && !w.sub.CanEnd(attributePhase) {
		return ErrorResult(relaxng.NewError("list requires at least one token",
			relaxng.ErrKindValidationError))
	}
	return w.sub.End(attributePhase)
}

func (w *listWalker) SuppressAttributes() {
	w.sub.SuppressAttributes()
}

func (w *listWalker) Clone() Walker {
	clone := *w
	clone.sub = w.sub.Clone()
	return &clone
}
