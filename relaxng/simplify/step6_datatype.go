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

// datatypeLibraryCarriers names the elements that consult an inherited datatypeLibrary attribute:
// value and data name a type in some library. Every other element only passes the inherited value
// down to the value/data nested beneath it.
var datatypeLibraryCarriers = map[string]bool{
	"value": true, "data": true,
}

// step6PropagateDatatypeLibrary implements §4.E step 6: it materializes the inherited
// datatypeLibrary attribute onto every value/data element lacking one, defaulting to "" (the
// built-in library) at the root, mirroring step 4's ns-inheritance materialization.
func (p *Pipeline) step6PropagateDatatypeLibrary(el *schema.Element, inherited string) {
	library := inherited
	if explicit, ok := el.Attr("datatypeLibrary"); ok {
		library = explicit
	}

	if datatypeLibraryCarriers[el.Name] {
		if _, ok := el.Attr("datatypeLibrary"); !ok {
			el.SetAttr("datatypeLibrary", library)
		}
	}

	for _, child := range el.ElementChildren() {
		p.step6PropagateDatatypeLibrary(child, library)
	}
}
