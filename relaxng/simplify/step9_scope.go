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
	"fmt"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/schema"
)

// step9ScopeDefines implements §4.E step 9: it makes every define's name globally unique across
// nested <grammar> scopes (so step 10 can hoist them all to one top-level define list without
// collisions), resolves combine="choice"/"interleave" on repeated define/start names within a
// single scope into one definition, and rewrites ref/parentRef attributes to track the renaming.
func (p *Pipeline) step9ScopeDefines(root *schema.Element) *relaxng.Error {
	var scopeCounter int
	nextSuffix := func() string {
		scopeCounter++
		return fmt.Sprintf("·%d", scopeCounter)
	}

	renameScope(root, "", "", nextSuffix)

	return combineScope(root)
}

// renameScope walks el's subtree, applying ownSuffix to every define/ref name introduced or
// consumed directly within the current grammar scope, and parentSuffix to every parentRef, which
// by definition names a define one scope up. Entering a nested <grammar> element opens a fresh
// scope: its own defines/refs get a freshly minted suffix, and any parentRef directly inside it
// resolves against ownSuffix (its enclosing scope).
func renameScope(el *schema.Element, ownSuffix, parentSuffix string, nextSuffix func() string) {
	for _, child := range el.ElementChildren() {
		switch child.Name {
		case "grammar":
			renameScope(child, nextSuffix(), ownSuffix, nextSuffix)

		case "define":
			if name, ok := child.Attr("name"); ok {
				child.SetAttr("name", name+ownSuffix)
			}
			renameScope(child, ownSuffix, parentSuffix, nextSuffix)

		case "ref":
			if name, ok := child.Attr("name"); ok {
				child.SetAttr("name", name+ownSuffix)
			}

		case "parentRef":
			if name, ok := child.Attr("name"); ok {
				child.SetAttr("name", name+parentSuffix)
			}

		default:
			renameScope(child, ownSuffix, parentSuffix, nextSuffix)
		}
	}
}

// combineScope walks every <grammar> scope (the root included) and merges repeated define/start
// names in that scope's immediate children into a single definition, per Relax NG's combine rule.
func combineScope(el *schema.Element) *relaxng.Error {
	if err := mergeRepeatedNames(el); err != nil {
		return err
	}
	for _, child := range el.ElementChildren() {
		if child.Name == "grammar" {
			if err := combineScope(child); err != nil {
				return err
			}
		} else if err := combineScope(child); err != nil {
			return err
		}
	}
	return nil
}

// mergeRepeatedNames groups el's immediate <define name="x">/<start> children by identity and
// folds each group of more than one into a single element whose body is the group's patterns
// combined by the combine attribute they agree on.
func mergeRepeatedNames(el *schema.Element) *relaxng.Error {
	type group struct {
		key      string
		elemName string
		defName  string
		members  []*schema.Element
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, child := range el.ElementChildren() {
		var key string
		switch child.Name {
		case "define":
			name, ok := child.Attr("name")
			if !ok {
				continue
			}
			key = "define:" + name
		case "start":
			key = "start"
		default:
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, elemName: child.Name}
			if child.Name == "define" {
				g.defName, _ = child.Attr("name")
			}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, child)
	}

	for _, key := range order {
		g := groups[key]
		if len(g.members) < 2 {
			continue
		}

		combine, err := agreedCombine(g.members)
		if err != nil {
			return err
		}

		merged := &schema.Element{
			Name:      g.elemName,
			SourceURI: g.members[0].SourceURI,
			Bindings:  g.members[0].Bindings,
		}
		if g.elemName == "define" {
			merged.SetAttr("name", g.defName)
		}

		combinator := &schema.Element{Name: combine, SourceURI: merged.SourceURI, Bindings: merged.Bindings}
		for _, m := range g.members {
			for _, body := range m.ElementChildren() {
				combinator.AppendChild(body)
			}
		}
		merged.AppendChild(combinator)

		replaceAll(el, g.members, merged)
	}
	return nil
}

// agreedCombine returns the combine value ("choice" or "interleave") shared by members. Relax NG
// permits at most one of several same-named definitions to omit combine; the rest must carry one
// and agree on it. It fails on two or more combine-less members (nothing says how to combine them
// with each other), on a combine value other than choice or interleave, and on members whose
// combine values disagree.
func agreedCombine(members []*schema.Element) (string, *relaxng.Error) {
	var combine string
	var sawCombineless bool
	for _, m := range members {
		c, ok := m.Attr("combine")
		if !ok {
			if sawCombineless {
				return "", relaxng.NewError(
					schema.Path(m)+" repeats a name already defined without a combine attribute elsewhere",
					relaxng.ErrKindInternal)
			}
			sawCombineless = true
			continue
		}
		if c != "choice" && c != "interleave" {
			return "", relaxng.NewError("combine must be choice or interleave", relaxng.ErrKindInternal)
		}
		if combine == "" {
			combine = c
		} else if combine != c {
			return "", relaxng.NewError(
				"combine values disagree for "+schema.Path(m), relaxng.ErrKindInternal)
		}
	}
	if combine == "" {
		return "", relaxng.NewError(
			schema.Path(members[0])+" repeats a name already defined elsewhere but none of them carries a combine attribute",
			relaxng.ErrKindInternal)
	}
	return combine, nil
}

// replaceAll replaces the first occurrence of members[0] within el.Children with replacement and
// removes every other element of members.
func replaceAll(el *schema.Element, members []*schema.Element, replacement *schema.Element) {
	memberSet := make(map[*schema.Element]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	var out []schema.Node
	placed := false
	for _, child := range el.Children {
		ce, ok := child.(*schema.Element)
		if !ok || !memberSet[ce] {
			out = append(out, child)
			continue
		}
		if !placed {
			schema.Reparent(replacement, el)
			out = append(out, replacement)
			placed = true
		}
	}
	el.Children = out
}
