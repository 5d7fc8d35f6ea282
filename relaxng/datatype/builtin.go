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

package datatype

import (
	"fmt"
	"strings"

	"github.com/botobag/relaxng"
)

// builtinLibraryURI is the empty string, per §4.B and §8: "Two library URIs are recognized: the
// empty string (built-in library, with string and token) ...".
const builtinLibraryURI = ""

// builtinLibrary holds the two datatypes that every Relax NG implementation supports without a
// datatypeLibrary attribute.
type builtinLibrary struct {
	types map[string]Type
}

// BuiltinLibrary returns the empty-URI library exposing "string" and "token".
func BuiltinLibrary() Library {
	return &builtinLibrary{
		types: map[string]Type{
			"string": stringType{},
			"token":  tokenType{},
		},
	}
}

// URI implements Library.
func (lib *builtinLibrary) URI() string {
	return builtinLibraryURI
}

// Type implements Library.
func (lib *builtinLibrary) Type(name string) (Type, bool) {
	t, ok := lib.types[name]
	return t, ok
}

// noParams rejects any <param>, since neither built-in datatype accepts one.
func noParams(typeName, path string, params []Param) (interface{}, *relaxng.Error) {
	if len(params) != 0 {
		return nil, relaxng.NewError(
			fmt.Sprintf("%s takes no parameters at %s", typeName, path),
			relaxng.ErrKindParameterError)
	}
	return nil, nil
}

//===-----------------------------------------------------------------------------------------===//
// string
//===-----------------------------------------------------------------------------------------===//

// stringType is the built-in "string" datatype: any sequence of characters, compared verbatim
// (whitespace is preserved, per XML Schema's "preserve" facet).
type stringType struct{}

var _ Type = stringType{}

func (stringType) Name() string         { return "string" }
func (stringType) NeedsContext() bool   { return false }
func (stringType) Regexp() string       { return ".*" }
func (t stringType) ParseParams(path string, params []Param) (interface{}, *relaxng.Error) {
	return noParams(t.Name(), path, params)
}

func (stringType) ParseValue(path, value string, ctx Context) (interface{}, *relaxng.Error) {
	return value, nil
}

func (stringType) Equal(a, b interface{}, ctx Context) bool {
	return a.(string) == b.(string)
}

func (t stringType) Disallows(value string, params interface{}, ctx Context) bool {
	// Any string of characters is a legal "string" value.
	return false
}

//===-----------------------------------------------------------------------------------------===//
// token
//===-----------------------------------------------------------------------------------------===//

// tokenType is the built-in "token" datatype: like string, but leading/trailing whitespace is
// trimmed and internal whitespace runs collapse to a single space before comparison, matching XML
// Schema's "collapse" whiteSpace facet.
type tokenType struct{}

var _ Type = tokenType{}

func (tokenType) Name() string       { return "token" }
func (tokenType) NeedsContext() bool { return false }
func (tokenType) Regexp() string     { return `\S(.*\S)?` }

func (t tokenType) ParseParams(path string, params []Param) (interface{}, *relaxng.Error) {
	return noParams(t.Name(), path, params)
}

// collapseWhitespace implements XML Schema's "collapse" whiteSpace facet: CR/LF/TAB are treated
// as space, leading/trailing space is trimmed, and interior runs collapse to a single space.
func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func (tokenType) ParseValue(path, value string, ctx Context) (interface{}, *relaxng.Error) {
	return collapseWhitespace(value), nil
}

func (tokenType) Equal(a, b interface{}, ctx Context) bool {
	return a.(string) == b.(string)
}

func (tokenType) Disallows(value string, params interface{}, ctx Context) bool {
	return false
}
