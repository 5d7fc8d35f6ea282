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

// step16PropagateEmpty implements §4.E step 16: empty's identity algebra, mirroring step 15's
// notAllowed pass. group/interleave drop an empty operand entirely (empty contributes nothing to
// either a sequence or an interleaving), and oneOrMore(empty) collapses to empty since repeating
// "nothing" any number of times is still "nothing". choice is deliberately left alone: optional's
// step 14 desugaring produces choice(empty, p), and that empty is meaningful (it's the "absent"
// branch), not redundant.
func (p *Pipeline) step16PropagateEmpty(root *schema.Element) *schema.Element {
	return propagateEmpty(root)
}

func propagateEmpty(el *schema.Element) *schema.Element {
	for i, child := range el.Children {
		ce, ok := child.(*schema.Element)
		if !ok {
			continue
		}
		replacement := propagateEmpty(ce)
		if replacement != ce {
			schema.Reparent(replacement, el)
			el.Children[i] = replacement
		}
	}

	switch el.Name {
	case "group", "interleave":
		children := el.ElementChildren()
		if len(children) == 2 {
			if children[0].Name == "empty" {
				return children[1]
			}
			if children[1].Name == "empty" {
				return children[0]
			}
		}

	case "oneOrMore":
		children := el.ElementChildren()
		if len(children) == 1 && children[0].Name == "empty" {
			return children[0]
		}
	}
	return el
}
