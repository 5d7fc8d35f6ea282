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

// Package schema implements the Relax NG schema parser of §4.D: it turns the host parser's
// SAX-style callbacks into the simplified-schema element tree described in §3, which the
// simplification pipeline (relaxng/simplify) then rewrites.
package schema

// Namespace is the Relax NG schema namespace. Every element in a schema document, before
// simplification strips the namespace distinction, must belong to it or be reported as a
// ForeignElement (§4.D).
const Namespace = "http://relaxng.org/ns/structure/1.0"

// Attr is a single attribute of an Element. Relax NG attributes are unprefixed (URI == ""); xml:*
// attributes retain the XML namespace per §4.D.
type Attr struct {
	URI   string
	Local string
	Value string
}

// Node is either an *Element or a *Text, the two shapes making up a schema tree (§3).
type Node interface {
	// Parent returns the enclosing Element, or nil for the tree root.
	Parent() *Element

	setParent(*Element)

	isNode()
}

// Element is one element of a schema tree: a local name, an attribute list, an ordered child
// list, a parent pointer, and the namespace bindings in scope at the point it was parsed (§3).
// After simplification, Name is always drawn from the simplified grammar's fixed vocabulary
// ("element", "attribute", "choice", "define", ...) and NS/Bindings are no longer consulted,
// because every QName has already been resolved to an expanded name by step 4.
type Element struct {
	// Name is the element's local name (e.g. "element", "define", "ref", "value").
	Name string

	// Attrs is the ordered attribute list. xmlns/xmlns:* declarations never appear here; they are
	// folded into Bindings instead (§4.D).
	Attrs []Attr

	// Children is the ordered child list: a mix of *Element and *Text.
	Children []Node

	// SourceURI is the full URL of the file this element was parsed from, used to resolve relative
	// href attributes (step 1) and to report ManifestEntry/error locations.
	SourceURI string

	// Bindings is an immutable snapshot, prefix -> URI, of the namespace bindings in scope when
	// this element was parsed (§3's "Elements expose resolve(prefix) -> uri"). The default
	// ("") prefix entry holds the element's default namespace, if any.
	Bindings map[string]string

	parent *Element
}

var _ Node = (*Element)(nil)

func (e *Element) isNode() {}

// Parent implements Node.
func (e *Element) Parent() *Element { return e.parent }

func (e *Element) setParent(p *Element) { e.parent = p }

// Text is a schema tree leaf carrying character data. Whitespace-only text is dropped everywhere
// except inside param/value, where it is preserved byte-for-byte (§4.D).
type Text struct {
	Value string

	parent *Element
}

var _ Node = (*Text)(nil)

func (t *Text) isNode() {}

// Parent implements Node.
func (t *Text) Parent() *Element { return t.parent }

func (t *Text) setParent(p *Element) { t.parent = p }

// Resolve looks up prefix in the element's namespace snapshot, per §3's "Elements expose
// resolve(prefix) -> uri".
func (e *Element) Resolve(prefix string) (string, bool) {
	uri, ok := e.Bindings[prefix]
	return uri, ok
}

// Attr returns the value of the unprefixed attribute named local, or ("", false) if absent.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.URI == "" && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets (adding or overwriting) the unprefixed attribute named local. Used by the
// simplification steps that synthesize attributes (e.g. step 4's ns inheritance, step 6's
// datatypeLibrary propagation).
func (e *Element) SetAttr(local, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].URI == "" && e.Attrs[i].Local == local {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Local: local, Value: value})
}

// AppendChild appends child to e's child list and sets its parent.
func (e *Element) AppendChild(child Node) {
	child.setParent(e)
	e.Children = append(e.Children, child)
}

// Reparent sets child's parent to e without touching e's child list, for callers (the
// simplification pipeline) that rebuild Children directly, e.g. splicing an externalRef's
// referenced tree into the position the externalRef element occupied.
func Reparent(child Node, e *Element) {
	child.setParent(e)
}

// ElementChildren returns the Element-typed children of e, skipping Text nodes, in document
// order.
func (e *Element) ElementChildren() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// TextContent concatenates every Text child's Value, in document order. Used for elements whose
// grammar only ever carries character data (name, value, param).
func (e *Element) TextContent() string {
	var b []byte
	for _, c := range e.Children {
		if t, ok := c.(*Text); ok {
			b = append(b, t.Value...)
		}
	}
	return string(b)
}

// Clone performs a deep copy of the subtree rooted at e, detaching it from e's parent. Used by
// simplification steps that must duplicate a subtree (e.g. inlining the same define at more than
// one ref site during grammar flattening).
func (e *Element) Clone() *Element {
	clone := &Element{
		Name:      e.Name,
		Attrs:     append([]Attr(nil), e.Attrs...),
		SourceURI: e.SourceURI,
		Bindings:  cloneBindings(e.Bindings),
	}
	for _, c := range e.Children {
		switch c := c.(type) {
		case *Element:
			clone.AppendChild(c.Clone())
		case *Text:
			clone.AppendChild(&Text{Value: c.Value})
		}
	}
	return clone
}

func cloneBindings(b map[string]string) map[string]string {
	if b == nil {
		return nil
	}
	out := make(map[string]string, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Path renders a dotted ancestor chain of element names, root first, for use in error messages
// (the "path describing the offending simplified-schema element" that §4.B and §4.F ask for).
func Path(e *Element) string {
	if e == nil {
		return ""
	}
	var names []string
	for cur := e; cur != nil; cur = cur.Parent() {
		names = append([]string{cur.Name}, names...)
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "/" + n
	}
	return out
}
