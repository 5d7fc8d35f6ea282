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

// step14Binarize implements §4.E step 14. The pattern builder (relaxng/pattern) only recognizes a
// small, strictly-binary vocabulary, so this step runs two bottom-up rewrites before handing the
// tree off: first it desugars optional/zeroOrMore/mixed (convenience forms with no walker of their
// own) into the choice/oneOrMore/interleave combinations that implement them, then it folds any
// choice/group/interleave with more than two pattern children into a right-nested chain of binary
// ones.
func (p *Pipeline) step14Binarize(root *schema.Element) {
	desugarConvenienceForms(root)
	binarizeNAry(root)
}

// desugarConvenienceForms rewrites, bottom-up:
//
//	optional(p)   -> choice(empty, p)
//	zeroOrMore(p) -> choice(empty, oneOrMore(p))
//	mixed(p)      -> interleave(text, p)
func desugarConvenienceForms(el *schema.Element) {
	for _, child := range el.ElementChildren() {
		desugarConvenienceForms(child)
	}

	switch el.Name {
	case "optional":
		body := soleChild(el)
		el.Name = "choice"
		el.Children = nil
		el.AppendChild(emptyElement(el))
		el.AppendChild(body)

	case "zeroOrMore":
		body := soleChild(el)
		oneOrMore := &schema.Element{Name: "oneOrMore", SourceURI: el.SourceURI, Bindings: el.Bindings}
		oneOrMore.AppendChild(body)
		el.Name = "choice"
		el.Children = nil
		el.AppendChild(emptyElement(el))
		el.AppendChild(oneOrMore)

	case "mixed":
		body := soleChild(el)
		el.Name = "interleave"
		el.Children = nil
		el.AppendChild(textElement(el))
		el.AppendChild(body)
	}
}

func soleChild(el *schema.Element) *schema.Element {
	children := el.ElementChildren()
	return children[0]
}

func emptyElement(like *schema.Element) *schema.Element {
	return &schema.Element{Name: "empty", SourceURI: like.SourceURI, Bindings: like.Bindings}
}

func textElement(like *schema.Element) *schema.Element {
	return &schema.Element{Name: "text", SourceURI: like.SourceURI, Bindings: like.Bindings}
}

// nAryElements names the element kinds pattern.Build requires to have exactly two pattern
// children, which the simplified-schema grammar otherwise allows two or more of.
var nAryElements = map[string]bool{
	"choice": true, "group": true, "interleave": true,
}

// binarizeNAry folds every choice/group/interleave element with more than two children into a
// right-nested chain of binary ones: choice(a, b, c) becomes choice(a, choice(b, c)).
func binarizeNAry(el *schema.Element) {
	for _, child := range el.ElementChildren() {
		binarizeNAry(child)
	}

	if !nAryElements[el.Name] {
		return
	}
	children := el.ElementChildren()
	if len(children) <= 2 {
		return
	}

	el.Children = nil
	el.AppendChild(children[0])
	el.AppendChild(rightFold(el.Name, children[1:], el))
}

func rightFold(name string, children []*schema.Element, like *schema.Element) *schema.Element {
	if len(children) == 1 {
		return children[0]
	}
	node := &schema.Element{Name: name, SourceURI: like.SourceURI, Bindings: like.Bindings}
	node.AppendChild(children[0])
	node.AppendChild(rightFold(name, children[1:], like))
	return node
}
