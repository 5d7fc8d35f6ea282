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

import (
	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/schema"
)

// step10FlattenGrammar implements §4.E step 10. It wraps a document whose root isn't already a
// <grammar> (a bare top-level pattern is shorthand for <grammar><start>pattern</start></grammar>),
// splices every <div> grouping element's children into its parent, replaces each nested <grammar>
// occurrence with its (now globally-unique, step 9) start pattern inlined in place while hoisting
// its defines to the document's single top-level <grammar>, and renames surviving <parentRef>
// elements to plain <ref> now that step 9 has pointed their name attribute at the correct
// (hoisted) define.
func (p *Pipeline) step10FlattenGrammar(root *schema.Element) (*schema.Element, *relaxng.Error) {
	if root.Name != "grammar" {
		root = wrapInGrammar(root)
	}

	flattenDiv(root)

	var hoisted []schema.Node
	flattenChildren(root, &hoisted)
	for _, h := range hoisted {
		schema.Reparent(h, root)
	}
	root.Children = append(root.Children, hoisted...)

	renameParentRefs(root)

	return root, nil
}

// wrapInGrammar implements the implicit "<grammar><start>pattern</start></grammar>" shorthand for
// a schema document whose root element is a pattern rather than a grammar.
func wrapInGrammar(pattern *schema.Element) *schema.Element {
	grammar := &schema.Element{Name: "grammar", SourceURI: pattern.SourceURI, Bindings: pattern.Bindings}
	start := &schema.Element{Name: "start", SourceURI: pattern.SourceURI, Bindings: pattern.Bindings}
	grammar.AppendChild(start)
	start.AppendChild(pattern)
	return grammar
}

// flattenDiv recursively splices every <div> element's children into its parent's child list in
// its place. div is pure grouping syntax with no effect on scope (step 9 never assigns it a
// suffix), so removing it is a plain tree-rewrite with no renaming to do.
func flattenDiv(el *schema.Element) {
	var out []schema.Node
	for _, child := range el.Children {
		ce, ok := child.(*schema.Element)
		if !ok {
			out = append(out, child)
			continue
		}
		flattenDiv(ce)
		if ce.Name == "div" {
			for _, grandchild := range ce.Children {
				schema.Reparent(grandchild, el)
				out = append(out, grandchild)
			}
			continue
		}
		out = append(out, ce)
	}
	el.Children = out
}

// flattenChildren replaces every <grammar> element reachable from el (at any depth, stopping at
// nested grammars which are handled by the recursive extractGrammar call) with the pattern that
// grammar evaluates to in place, appending the grammar's defines to *hoisted for the caller to
// attach to the document's single top-level grammar.
func flattenChildren(el *schema.Element, hoisted *[]schema.Node) {
	for i, child := range el.Children {
		ce, ok := child.(*schema.Element)
		if !ok {
			continue
		}
		if ce.Name == "grammar" {
			replacement := extractGrammar(ce, hoisted)
			schema.Reparent(replacement, el)
			el.Children[i] = replacement
		} else {
			flattenChildren(ce, hoisted)
		}
	}
}

// extractGrammar flattens any grammar nested within g first, then returns the single pattern g's
// <start> wraps (the value a <grammar> pattern occurrence evaluates to), having moved every
// <define> child of g onto *hoisted. References into those defines keep working regardless of
// where in the tree the defines end up, since ref resolution is by name against the whole
// document's define set, not by lexical position (§4.G).
func extractGrammar(g *schema.Element, hoisted *[]schema.Node) schema.Node {
	flattenChildren(g, hoisted)

	var startBody schema.Node
	for _, c := range g.ElementChildren() {
		switch c.Name {
		case "start":
			if bodies := c.ElementChildren(); len(bodies) > 0 {
				startBody = bodies[0]
			}
		case "define":
			*hoisted = append(*hoisted, c)
		}
	}

	if startBody == nil {
		return &schema.Element{Name: "notAllowed", SourceURI: g.SourceURI, Bindings: g.Bindings}
	}
	return startBody
}

// renameParentRefs retags every surviving <parentRef> element as <ref>: step 9 already rewrote
// its name attribute to the hoisted define it targets, so by step 10 the two element kinds mean
// the same thing.
func renameParentRefs(el *schema.Element) {
	for _, child := range el.ElementChildren() {
		if child.Name == "parentRef" {
			child.Name = "ref"
		}
		renameParentRefs(child)
	}
}
