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
	"strings"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/schema"
)

// nameClassElements names the elements §4.E step 4 materializes an inherited "ns" attribute onto.
var nameClassElements = map[string]bool{
	"name": true, "nsName": true, "anyName": true, "value": true,
}

// step4NormalizeNames implements §4.E step 4: it materializes the "ns" attribute's inheritance
// onto every element that consults it (so later steps never need to walk up the tree to find it),
// and rewrites an element/attribute's QName-shorthand "name" attribute into an explicit <name>
// child carrying the resolved namespace.
func (p *Pipeline) step4NormalizeNames(root *schema.Element) *relaxng.Error {
	return normalizeNames(root, "")
}

func normalizeNames(el *schema.Element, inheritedNS string) *relaxng.Error {
	ns := inheritedNS
	if explicit, ok := el.Attr("ns"); ok {
		ns = explicit
	}

	if nameClassElements[el.Name] {
		if _, ok := el.Attr("ns"); !ok {
			el.SetAttr("ns", ns)
		}
	}

	if (el.Name == "element" || el.Name == "attribute") {
		if qname, ok := el.Attr("name"); ok {
			nameEl, err := shorthandNameElement(el, qname, ns)
			if err != nil {
				return err
			}
			el.Children = append([]schema.Node{nameEl}, el.Children...)
			schema.Reparent(nameEl, el)
			removeAttr(el, "name")
		}
	}

	for _, child := range el.ElementChildren() {
		if err := normalizeNames(child, ns); err != nil {
			return err
		}
	}
	return nil
}

// shorthandNameElement builds the <name ns="...">local</name> element that replaces an
// element/attribute's QName-shorthand "name" attribute. A prefix (if any) is resolved through el's
// own namespace-binding snapshot — real XML namespace resolution. An unprefixed element name takes
// ns, el's explicit or inherited Relax NG "ns" value; an unprefixed attribute name has no namespace.
func shorthandNameElement(el *schema.Element, qname, ns string) (*schema.Element, *relaxng.Error) {
	isAttribute := el.Name == "attribute"

	idx := strings.IndexByte(qname, ':')
	var uri, local string
	if idx < 0 {
		local = qname
		if !isAttribute {
			uri = ns
		}
	} else {
		prefix := qname[:idx]
		local = qname[idx+1:]
		if strings.IndexByte(local, ':') >= 0 {
			return nil, relaxng.NewError("malformed QName: "+qname, relaxng.ErrKindMalformedQName)
		}
		resolved, ok := el.Resolve(prefix)
		if !ok {
			return nil, relaxng.NewError(
				"unbound namespace prefix in name shorthand: "+prefix, relaxng.ErrKindMalformedQName)
		}
		uri = resolved
	}

	nameEl := &schema.Element{
		Name:      "name",
		Attrs:     []schema.Attr{{Local: "ns", Value: uri}},
		SourceURI: el.SourceURI,
		Bindings:  el.Bindings,
	}
	nameEl.AppendChild(&schema.Text{Value: local})
	return nameEl, nil
}

func removeAttr(el *schema.Element, local string) {
	out := el.Attrs[:0]
	for _, a := range el.Attrs {
		if a.URI == "" && a.Local == local {
			continue
		}
		out = append(out, a)
	}
	el.Attrs = out
}
