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
	"encoding/xml"
	"strings"

	"github.com/botobag/relaxng"
	unsafeconv "github.com/botobag/relaxng/internal/unsafe"
)

// Parse drives a Builder from raw document bytes using Go's encoding/xml tokenizer as the "host
// SAX-style parser" that §1 places outside this library's scope (namespaces are resolved by the
// tokenizer itself, as the boundary contract requires). sourceURI stamps the resulting tree for
// href resolution and manifest/error reporting.
//
// This is the one adapter in the module built directly on the standard library rather than a
// retrieved third-party package: the retrieval pack carries no XML tokenizer (the teacher is a
// GraphQL engine; the sibling example repos are a container engine, a cloud CLI and a logic
// solver, none of which touch XML), and spec.md §1 explicitly treats the XML parser as an
// external collaborator rather than a component of this library.
func Parse(data []byte, sourceURI string) (*Element, *relaxng.Error) {
	builder := NewBuilder(sourceURI)
	// data is only read by the decoder below, never mutated, so reinterpreting it as a string
	// avoids the copy string(data) would make.
	decoder := xml.NewDecoder(strings.NewReader(unsafeconv.String(data)))

	for {
		tok, err := decoder.Token()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, relaxng.NewError(
				"malformed schema document at "+sourceURI,
				relaxng.ErrKindForeignElement, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			builder.StartElement(t.Name.Space, t.Name.Local, toRawAttrs(t.Attr))
			if builder.failed() {
				return builder.Finish()
			}
		case xml.EndElement:
			builder.EndElement()
		case xml.CharData:
			builder.CharData(string(t))
		}
	}

	return builder.Finish()
}

func toRawAttrs(attrs []xml.Attr) []RawAttr {
	out := make([]RawAttr, 0, len(attrs))
	for _, a := range attrs {
		prefix := ""
		local := a.Name.Local
		switch a.Name.Space {
		case "xmlns":
			prefix = "xmlns"
		case "":
			if local == "xmlns" {
				// bare xmlns="..." default-namespace declaration
			} else if idx := strings.IndexByte(local, ':'); idx >= 0 {
				prefix = local[:idx]
				local = local[idx+1:]
			}
		default:
			// encoding/xml already resolved a prefixed attribute's namespace URI into a.Name.Space for
			// xml:* style bindings known to it; fall back to treating it as unprefixed with that URI
			// recorded via the raw prefix lookup table built from bindings seen so far is unnecessary
			// here because Builder resolves prefixes itself from the xmlns attributes in this same
			// start tag.
		}
		out = append(out, RawAttr{Prefix: prefix, Local: local, Value: a.Value})
	}
	return out
}
