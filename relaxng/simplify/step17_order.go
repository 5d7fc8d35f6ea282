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

package simplify

import "github.com/botobag/relaxng/schema"

// step17OrderChoices implements §4.E step 17: a canonical ordering pass over both pattern choices
// and name-class choices, so that two schemas differing only in how an author wrote out a choice's
// branches simplify to the same tree (§8's simplify(S1) == simplify(S2) property, for S1/S2
// differing only in branch order). It puts a choice's empty branch first (the branch a fresh
// optional() desugaring always produces) and sorts name-class choice branches by a stable textual
// key, since name-class choices have no "more specific" branch the way pattern choices do.
func (p *Pipeline) step17OrderChoices(root *schema.Element) {
	orderChoices(root)
}

func orderChoices(el *schema.Element) {
	for _, child := range el.ElementChildren() {
		orderChoices(child)
	}

	if el.Name != "choice" {
		return
	}

	children := el.ElementChildren()
	if len(children) != 2 {
		return
	}

	if isNameClassChoice(el) {
		if nameClassKey(children[1]) < nameClassKey(children[0]) {
			swapChildren(el, children)
		}
		return
	}

	if children[0].Name != "empty" && children[1].Name == "empty" {
		swapChildren(el, children)
	}
}

// isNameClassChoice reports whether el's children are name-class terms (name/nsName/anyName) as
// opposed to patterns, distinguishing the two <choice> uses the simplified grammar overloads.
func isNameClassChoice(el *schema.Element) bool {
	for _, c := range el.ElementChildren() {
		switch c.Name {
		case "name", "nsName", "anyName", "choice":
		default:
			return false
		}
	}
	return true
}

func nameClassKey(el *schema.Element) string {
	switch el.Name {
	case "name":
		ns, _ := el.Attr("ns")
		return "0:" + ns + "\x00" + el.TextContent()
	case "nsName":
		ns, _ := el.Attr("ns")
		return "1:" + ns
	case "anyName":
		return "2"
	default:
		return "3"
	}
}

func swapChildren(el *schema.Element, children []*schema.Element) {
	el.Children = nil
	el.AppendChild(children[1])
	el.AppendChild(children[0])
}
