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

// step15PropagateNotAllowed implements §4.E step 15: it applies notAllowed's absorbing/identity
// algebra bottom-up so later steps (and the pattern tree builder) never have to special-case a
// notAllowed buried inside a group/interleave/oneOrMore/attribute/element/list. Crossing a <ref>
// is deliberately not attempted here: defines can be mutually recursive, and whether a define's
// body is unsatisfiable is a property of the pattern tree's fixpoint, not of this tree rewrite.
func (p *Pipeline) step15PropagateNotAllowed(root *schema.Element) *schema.Element {
	return propagateNotAllowed(root)
}

func propagateNotAllowed(el *schema.Element) *schema.Element {
	for i, child := range el.Children {
		ce, ok := child.(*schema.Element)
		if !ok {
			continue
		}
		replacement := propagateNotAllowed(ce)
		if replacement != ce {
			schema.Reparent(replacement, el)
			el.Children[i] = replacement
		}
	}

	switch el.Name {
	case "attribute", "list", "element":
		if childIsNotAllowed(el, -1) {
			return notAllowedElement(el)
		}

	case "oneOrMore":
		if childIsNotAllowed(el, -1) {
			return notAllowedElement(el)
		}

	case "group", "interleave":
		if childIsNotAllowed(el, 0) || childIsNotAllowed(el, 1) {
			return notAllowedElement(el)
		}

	case "choice":
		children := el.ElementChildren()
		if len(children) == 2 {
			if children[0].Name == "notAllowed" {
				return children[1]
			}
			if children[1].Name == "notAllowed" {
				return children[0]
			}
		}
	}
	return el
}

// childIsNotAllowed reports whether el's element children include a notAllowed pattern at index
// idx (checking only the pattern-bearing child, e.g. attribute/element's second child), or any
// notAllowed child at all when idx is negative.
func childIsNotAllowed(el *schema.Element, idx int) bool {
	children := el.ElementChildren()
	if idx >= 0 {
		return idx < len(children) && children[idx].Name == "notAllowed"
	}
	for _, c := range children {
		if c.Name == "notAllowed" {
			return true
		}
	}
	return false
}

func notAllowedElement(like *schema.Element) *schema.Element {
	return &schema.Element{Name: "notAllowed", SourceURI: like.SourceURI, Bindings: like.Bindings}
}
