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

package schema

import (
	"strings"

	"github.com/botobag/relaxng"
)

// RawAttr is a single attribute exactly as the host parser reports it: unresolved local name
// still carrying its literal prefix (if any), since resolving xmlns:* declarations into the
// Bindings snapshot is this package's job, not the host parser's (§4.D).
type RawAttr struct {
	// Prefix is the literal prefix written in the document ("" if unprefixed).
	Prefix string

	// Local is the attribute's local name.
	Local string

	// Value is the attribute's literal string value.
	Value string
}

// Builder consumes the host parser's SAX-style callbacks (§1's "external XML parser" boundary)
// and assembles the schema tree of §3. It is driven by exactly one schema document; Parse drives
// a fresh Builder per file, and relaxng/simplify's step 1 stitches per-file trees together via
// include/externalRef.
type Builder struct {
	sourceURI string
	stack     []*Element
	bindings  []map[string]string
	root      *Element
	err       *relaxng.Error
}

// NewBuilder creates a Builder for a document that was loaded from sourceURI (used to resolve
// relative href attributes and to stamp Element.SourceURI).
func NewBuilder(sourceURI string) *Builder {
	return &Builder{
		sourceURI: sourceURI,
		bindings:  []map[string]string{{}},
	}
}

func (b *Builder) failed() bool { return b.err != nil }

func (b *Builder) currentBindings() map[string]string {
	return b.bindings[len(b.bindings)-1]
}

// StartElement is called by the host parser adapter for each element start tag. uri/local name
// the element's expanded name (already namespace-resolved, per §1); rawAttrs carries the
// attributes exactly as written, including any xmlns/xmlns:* declarations, which StartElement
// filters out of the final attribute list per §4.D ("xmlns/xmlns:* attributes populate the
// element's namespace snapshot but do not appear in the final attribute list").
func (b *Builder) StartElement(uri, local string, rawAttrs []RawAttr) {
	if b.failed() {
		return
	}

	bindings := cloneBindings(b.currentBindings())
	var attrs []Attr

	for _, a := range rawAttrs {
		switch {
		case a.Prefix == "" && a.Local == "xmlns":
			bindings[""] = a.Value
		case a.Prefix == "xmlns":
			bindings[a.Local] = a.Value
		default:
			attrURI := ""
			if a.Prefix != "" {
				if u, ok := bindings[a.Prefix]; ok {
					attrURI = u
				} else if u, ok := b.currentBindings()[a.Prefix]; ok {
					attrURI = u
				}
			}
			attrs = append(attrs, Attr{URI: attrURI, Local: a.Local, Value: a.Value})
		}
	}
	b.bindings = append(b.bindings, bindings)

	if uri != Namespace {
		b.err = relaxng.NewError(
			"foreign element "+describeName(uri, local)+" in Relax NG schema",
			relaxng.ErrKindForeignElement)
		return
	}

	el := &Element{
		Name:      local,
		Attrs:     attrs,
		SourceURI: b.sourceURI,
		Bindings:  bindings,
	}

	if len(b.stack) > 0 {
		b.stack[len(b.stack)-1].AppendChild(el)
	} else {
		b.root = el
	}
	b.stack = append(b.stack, el)
}

func describeName(uri, local string) string {
	if uri == "" {
		return local
	}
	return "{" + uri + "}" + local
}

// CharData is called by the host parser adapter for character data. Whitespace-only text is
// dropped unless the innermost open element is "param" or "value", where it is preserved
// byte-for-byte per §4.D.
func (b *Builder) CharData(text string) {
	if b.failed() || len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	if strings.TrimSpace(text) == "" && top.Name != "param" && top.Name != "value" {
		return
	}
	top.AppendChild(&Text{Value: text})
}

// EndElement is called by the host parser adapter for each element end tag.
func (b *Builder) EndElement() {
	if b.failed() {
		return
	}
	b.bindings = b.bindings[:len(b.bindings)-1]
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// Finish returns the assembled tree's root, or the first ForeignElement error encountered.
func (b *Builder) Finish() (*Element, *relaxng.Error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.root, nil
}
