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

// Package restrict implements the §4.F restriction checker: a single recursive traversal of a
// simplified, type-checked schema tree (the output of relaxng/simplify) that rejects the
// structural combinations Relax NG's composition rules leave ill-defined, before the tree ever
// reaches relaxng/pattern.Build.
package restrict

import (
	"fmt"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/nameclass"
	"github.com/botobag/relaxng/pattern"
	"github.com/botobag/relaxng/schema"
)

// Check runs every §4.F restriction against root, a simplified <grammar> tree, returning the
// first violation found.
func Check(root *schema.Element) *relaxng.Error {
	defines := collectDefines(root)

	if err := checkPaths(root, pathContext{}, defines, map[string]bool{}); err != nil {
		return err
	}
	if err := checkClashes(root, defines, map[string]bool{}); err != nil {
		return err
	}
	return checkContentTypes(defines)
}

func collectDefines(root *schema.Element) map[string]*schema.Element {
	defines := map[string]*schema.Element{}
	for _, child := range root.ElementChildren() {
		if child.Name == "define" {
			if name, ok := child.Attr("name"); ok {
				defines[name] = child
			}
		}
	}
	return defines
}

func defineBody(def *schema.Element) *schema.Element {
	children := def.ElementChildren()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// pathContext tracks which of §4.F's forbidden-path contexts are active at the current point in
// the tree. Every flag persists through ordinary structural nesting (choice/group/interleave/
// oneOrMore/ref) and is cleared when descending into a new <element>'s content, since an element
// always starts a fresh content scope.
type pathContext struct {
	start                 bool
	attribute             bool
	list                  bool
	dataExcept            bool
	oneOrMore             bool
	oneOrMoreGroupOrInter bool
}

// forbidden maps each active context to the element names it forbids directly beneath it,
// matching §4.F's abbreviated path table.
var forbidden = map[string][]string{
	"start":           {"attribute", "data", "value", "text", "list", "group", "interleave", "oneOrMore", "empty"},
	"attribute":       {"attribute", "ref"},
	"list":            {"list", "ref", "attribute", "text", "interleave"},
	"dataExcept":      {"attribute", "ref", "text", "list", "group", "interleave", "oneOrMore", "empty"},
	"oneOrMoreNested": {"attribute"},
}

func (c pathContext) active() []string {
	var names []string
	if c.start {
		names = append(names, "start")
	}
	if c.attribute {
		names = append(names, "attribute")
	}
	if c.list {
		names = append(names, "list")
	}
	if c.dataExcept {
		names = append(names, "dataExcept")
	}
	if c.oneOrMoreGroupOrInter {
		names = append(names, "oneOrMoreNested")
	}
	return names
}

// checkPaths walks el depth-first, following refs (with cycle protection via visiting), checking
// every node against every forbidden-path context currently active.
func checkPaths(el *schema.Element, ctx pathContext, defines map[string]*schema.Element, visiting map[string]bool) *relaxng.Error {
	for _, key := range ctx.active() {
		for _, name := range forbidden[key] {
			if el.Name == name {
				return relaxng.NewError(
					fmt.Sprintf("prohibited_path: %s//%s at %s", key, el.Name, schema.Path(el)),
					relaxng.ErrKindProhibitedPath)
			}
		}
	}

	switch el.Name {
	case "start":
		if body := soleElementChild(el); body != nil {
			child := ctx
			child.start = true
			return checkPaths(body, child, defines, visiting)
		}
		return nil

	case "attribute":
		children := el.ElementChildren()
		if len(children) < 2 {
			return nil
		}
		child := ctx
		child.attribute = true
		return checkPaths(children[1], child, defines, visiting)

	case "element":
		children := el.ElementChildren()
		if len(children) < 2 {
			return nil
		}
		// A new element always starts a fresh content scope.
		return checkPaths(children[1], pathContext{}, defines, visiting)

	case "list":
		child := ctx
		child.list = true
		for _, c := range el.ElementChildren() {
			if err := checkPaths(c, child, defines, visiting); err != nil {
				return err
			}
		}
		return nil

	case "data":
		for _, c := range el.ElementChildren() {
			if c.Name == "except" {
				if body := soleElementChild(c); body != nil {
					child := ctx
					child.dataExcept = true
					if err := checkPaths(body, child, defines, visiting); err != nil {
						return err
					}
				}
			}
		}
		return nil

	case "oneOrMore":
		child := ctx
		child.oneOrMore = true
		child.oneOrMoreGroupOrInter = false
		if body := soleElementChild(el); body != nil {
			return checkPaths(body, child, defines, visiting)
		}
		return nil

	case "group", "interleave":
		child := ctx
		if ctx.oneOrMore {
			child.oneOrMoreGroupOrInter = true
		}
		for _, c := range el.ElementChildren() {
			if err := checkPaths(c, child, defines, visiting); err != nil {
				return err
			}
		}
		return nil

	case "ref":
		name, _ := el.Attr("name")
		def, ok := defines[name]
		if !ok {
			return relaxng.NewError("ref to undefined name "+name, relaxng.ErrKindRefError)
		}
		key := fmt.Sprintf("%v|%s", ctx, name)
		if visiting[key] {
			return nil
		}
		visiting[key] = true
		body := defineBody(def)
		if body == nil {
			return nil
		}
		return checkPaths(body, ctx, defines, visiting)

	default:
		for _, c := range el.ElementChildren() {
			if err := checkPaths(c, ctx, defines, visiting); err != nil {
				return err
			}
		}
		return nil
	}
}

func soleElementChild(el *schema.Element) *schema.Element {
	children := el.ElementChildren()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// summary is what inspect collects about a pattern's top-level shape: the attribute and element
// name classes it directly exposes (without crossing into an attribute/element's own nested
// content) and whether it can directly produce a text node.
type summary struct {
	attrNames []nameclass.Class
	elemNames []nameclass.Class
	hasText   bool
}

// inspect computes a pattern's summary, recursing transparently through choice/group/interleave/
// oneOrMore/ref (a ref's target contributes its own summary, as if inlined) but stopping at
// attribute/element, whose own name class is what gets recorded.
func inspect(el *schema.Element, defines map[string]*schema.Element, visiting map[string]bool) summary {
	switch el.Name {
	case "attribute":
		if nc := soleElementChild(el); nc != nil {
			if class, err := pattern.NameClass(nc); err == nil && class != nil {
				return summary{attrNames: []nameclass.Class{class}}
			}
		}
		return summary{}

	case "element":
		if nc := soleElementChild(el); nc != nil {
			if class, err := pattern.NameClass(nc); err == nil && class != nil {
				return summary{elemNames: []nameclass.Class{class}}
			}
		}
		return summary{}

	case "text":
		return summary{hasText: true}

	case "choice", "group", "interleave":
		var out summary
		for _, c := range el.ElementChildren() {
			s := inspect(c, defines, visiting)
			out.attrNames = append(out.attrNames, s.attrNames...)
			out.elemNames = append(out.elemNames, s.elemNames...)
			out.hasText = out.hasText || s.hasText
		}
		return out

	case "oneOrMore":
		if body := soleElementChild(el); body != nil {
			return inspect(body, defines, visiting)
		}
		return summary{}

	case "ref":
		name, _ := el.Attr("name")
		if visiting[name] {
			return summary{}
		}
		def, ok := defines[name]
		if !ok {
			return summary{}
		}
		visiting[name] = true
		defer delete(visiting, name)
		body := defineBody(def)
		if body == nil {
			return summary{}
		}
		return inspect(body, defines, visiting)

	default:
		return summary{}
	}
}

func classesIntersect(a, b []nameclass.Class) bool {
	for _, x := range a {
		for _, y := range b {
			if nameclass.Intersects(x, y) {
				return true
			}
		}
	}
	return false
}

// checkClashes walks every group/interleave node, checking the two clash rules §4.F names:
// attribute_name_clash (both kinds) and interleave_text_clash/interleave_element_clash
// (interleave only), then recurses into every child (including crossing element boundaries) to
// find nested occurrences.
func checkClashes(el *schema.Element, defines map[string]*schema.Element, visiting map[string]bool) *relaxng.Error {
	if el.Name == "group" || el.Name == "interleave" {
		children := el.ElementChildren()
		if len(children) == 2 {
			left := inspect(children[0], defines, map[string]bool{})
			right := inspect(children[1], defines, map[string]bool{})

			if classesIntersect(left.attrNames, right.attrNames) {
				return relaxng.NewError(
					"attribute_name_clash at "+schema.Path(el), relaxng.ErrKindNameClassClash)
			}
			if el.Name == "interleave" {
				if left.hasText && right.hasText {
					return relaxng.NewError(
						"interleave_text_clash at "+schema.Path(el), relaxng.ErrKindNameClassClash)
				}
				if classesIntersect(left.elemNames, right.elemNames) {
					return relaxng.NewError(
						"interleave_element_clash at "+schema.Path(el), relaxng.ErrKindNameClassClash)
				}
			}
		}
	}

	for _, c := range el.ElementChildren() {
		if err := checkClashes(c, defines, visiting); err != nil {
			return err
		}
	}
	return nil
}

// contentType is §7.2's three-way classification (plus "none" for an undefined composition).
type contentType int

const (
	ctNone contentType = iota
	ctEmpty
	ctSimple
	ctComplex
)

// contentTypeOf computes el's content type per §4.F's composition table. A ref is always complex
// regardless of its target (the table's literal rule), so this never needs to cross a ref
// boundary or guard against cycles.
func contentTypeOf(el *schema.Element) contentType {
	switch el.Name {
	case "empty", "attribute":
		return ctEmpty
	case "text", "ref":
		return ctComplex
	case "value", "data", "list":
		return ctSimple
	case "element":
		return ctComplex
	case "notAllowed":
		return ctEmpty

	case "choice":
		children := el.ElementChildren()
		if len(children) != 2 {
			return ctNone
		}
		a, b := contentTypeOf(children[0]), contentTypeOf(children[1])
		if a == ctNone || b == ctNone {
			return ctNone
		}
		if a > b {
			return a
		}
		return b

	case "group", "interleave":
		children := el.ElementChildren()
		if len(children) != 2 {
			return ctNone
		}
		a, b := contentTypeOf(children[0]), contentTypeOf(children[1])
		switch {
		case a == ctEmpty:
			return b
		case b == ctEmpty:
			return a
		case a == ctComplex && b == ctComplex:
			return ctComplex
		default:
			return ctNone
		}

	case "oneOrMore":
		if body := soleElementChild(el); body != nil {
			t := contentTypeOf(body)
			if t == ctSimple {
				return ctNone
			}
			return t
		}
		return ctNone

	default:
		return ctNone
	}
}

// checkContentTypes implements the string_value_constraint rule: every define's content type
// must be defined (not ctNone).
func checkContentTypes(defines map[string]*schema.Element) *relaxng.Error {
	for name, def := range defines {
		body := defineBody(def)
		if body == nil {
			continue
		}
		if contentTypeOf(body) == ctNone {
			return relaxng.NewError(
				"string_value_constraint: define "+name+" has an undefined content type",
				relaxng.ErrKindStringValueConstraint)
		}
	}
	return nil
}
