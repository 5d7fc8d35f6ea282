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

package xsd

import "github.com/botobag/relaxng/datatype"

// library wires URI to the type table Types() builds.
type library struct {
	types map[string]datatype.Type
}

var _ datatype.Library = (*library)(nil)

// Library returns the XML Schema datatypes library, ready to Register with a
// *datatype.Registry.
func Library() datatype.Library {
	return &library{types: Types()}
}

// URI implements datatype.Library.
func (lib *library) URI() string {
	return URI
}

// Type implements datatype.Library.
func (lib *library) Type(name string) (datatype.Type, bool) {
	t, ok := lib.types[name]
	return t, ok
}
