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
	"github.com/botobag/relaxng/resource"
	"github.com/botobag/relaxng/schema"
)

// step1LoadAndInline implements §4.E step 1: resolve href attributes relative to their containing
// file, fetch referenced resources via the Loader, and splice externalRef/include bodies into a
// single-root tree. Every distinct file fetched is recorded in p.Cache in read order, which
// p.Cache.Manifest later turns into the §8 property 7 manifest.
func (p *Pipeline) step1LoadAndInline(root *schema.Element) (*schema.Element, *relaxng.Error) {
	if err := p.inlineChildren(root); err != nil {
		return nil, err
	}
	return root, nil
}

// inlineChildren walks el's children depth-first, replacing any externalRef/include element with
// the tree it names and recursing into the replacement so nested references are resolved too.
func (p *Pipeline) inlineChildren(el *schema.Element) *relaxng.Error {
	var rewritten []schema.Node
	for _, child := range el.Children {
		ce, ok := child.(*schema.Element)
		if !ok {
			rewritten = append(rewritten, child)
			continue
		}

		switch ce.Name {
		case "externalRef":
			replacement, err := p.loadReference(ce)
			if err != nil {
				return err
			}
			// An externalRef is replaced in place by the referenced grammar's single top-level
			// pattern, carrying forward ce's own ns/datatypeLibrary context via attribute
			// inheritance applied in step 4/6, which run after this step.
			for _, attr := range []string{"ns", "datatypeLibrary"} {
				if v, ok := ce.Attr(attr); ok {
					if _, has := replacement.Attr(attr); !has {
						replacement.SetAttr(attr, v)
					}
				}
			}
			schema.Reparent(replacement, el)
			rewritten = append(rewritten, replacement)
			if err := p.inlineChildren(replacement); err != nil {
				return err
			}
		case "include":
			merged, err := p.loadInclude(ce)
			if err != nil {
				return err
			}
			// Per Relax NG's include semantics, a define/start the <include> element itself
			// carries overrides the same-named define/start in the included grammar.
			combined := overrideDefines(merged, ce)
			for _, c := range combined {
				schema.Reparent(c, el)
				if ce2, ok := c.(*schema.Element); ok {
					if err := p.inlineChildren(ce2); err != nil {
						return err
					}
				}
			}
			rewritten = append(rewritten, combined...)
		default:
			if err := p.inlineChildren(ce); err != nil {
				return err
			}
			rewritten = append(rewritten, ce)
		}
	}
	el.Children = rewritten
	return nil
}

// loadReference fetches the file named by el's href attribute (resolved relative to el's
// SourceURI) and parses it into a schema tree, consulting p.Cache so two references to the same
// file only fetch and manifest it once.
func (p *Pipeline) loadReference(el *schema.Element) (*schema.Element, *relaxng.Error) {
	href, ok := el.Attr("href")
	if !ok {
		return nil, relaxng.NewError(
			schema.Path(el)+" is missing a required href attribute", relaxng.ErrKindResourceLoadFailure)
	}

	url, err := resource.ResolveURL(el.SourceURI, href)
	if err != nil {
		return nil, err
	}
	url = resource.StripFragment(url)

	text, err := p.fetch(url)
	if err != nil {
		return nil, err
	}

	return schema.Parse([]byte(text), url)
}

// loadInclude fetches and parses the grammar named by an <include href="..."> element. The
// included grammar must itself be a <grammar>; its top-level <start>/<define> children are what
// gets spliced into the including document.
func (p *Pipeline) loadInclude(el *schema.Element) (*schema.Element, *relaxng.Error) {
	tree, err := p.loadReference(el)
	if err != nil {
		return nil, err
	}
	if tree.Name != "grammar" {
		return nil, relaxng.NewError(
			"include href must name a document whose root is <grammar>", relaxng.ErrKindInternal)
	}
	return tree, nil
}

// defineKey returns the identity an include override matches on: "start" for a <start> element,
// or "define:<name>" for a <define name="...">.
func defineKey(el *schema.Element) (string, bool) {
	switch el.Name {
	case "start":
		return "start", true
	case "define":
		name, ok := el.Attr("name")
		return "define:" + name, ok
	default:
		return "", false
	}
}

// overrideDefines implements Relax NG's include-override rule: any define/start carried directly
// on the <include> element replaces the same-named define/start from the included grammar; every
// other child of the included grammar passes through untouched.
func overrideDefines(included, includeEl *schema.Element) []schema.Node {
	overrides := map[string]*schema.Element{}
	for _, c := range includeEl.ElementChildren() {
		if key, ok := defineKey(c); ok {
			overrides[key] = c
		}
	}

	var out []schema.Node
	for _, child := range included.Children {
		if ce, ok := child.(*schema.Element); ok {
			if key, ok := defineKey(ce); ok {
				if _, overridden := overrides[key]; overridden {
					continue
				}
			}
		}
		out = append(out, child)
	}
	for _, c := range overrides {
		out = append(out, c)
	}
	return out
}

// fetch resolves url through p.Cache, calling the Loader only on a miss.
func (p *Pipeline) fetch(url string) (string, *relaxng.Error) {
	if res, cerr, ok := p.Cache.Get(url); ok {
		if cerr != nil {
			return "", cerr
		}
		return res.Text(), nil
	}

	f := p.Loader.Load(url)
	res, err := resource.Await(f)
	res, err = p.Cache.Set(url, res, err)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}
