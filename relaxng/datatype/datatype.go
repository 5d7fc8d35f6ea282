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

// Package datatype implements the datatype registry of §4.B: a library-by-URI lookup in which
// every registered Type exposes parseParams/parseValue/equal/disallows/needsContext/regexp. The
// registry itself only knows how to dispatch by URI; concrete libraries (the built-in library in
// this package, the XML Schema library in the xsd subpackage) supply the types.
package datatype

import (
	"fmt"

	"github.com/botobag/relaxng"
)

// Context supplies whatever a datatype needs beyond the lexical value to parse or compare it.
// Only QName and NOTATION ask for one (NeedsContext() == true); every other built-in and XSD type
// ignores a nil Context.
type Context interface {
	// ResolveQName splits a QName-shaped lexical value into its expanded (uri, local) form using
	// whatever namespace bindings are in scope at the value's location in the schema.
	ResolveQName(qname string) (uri, local string, err *relaxng.Error)
}

// Param is one (name, value) pair from a schema's <param> elements, as fed to ParseParams.
type Param struct {
	Name  string
	Value string
}

// Type is a single datatype exposed by a Library, per §4.B.
type Type interface {
	// Name is the datatype's local name within its library, e.g. "token" or "nonNegativeInteger".
	Name() string

	// NeedsContext reports whether ParseValue, Equal and Disallows require a non-nil Context. Only
	// QName and NOTATION answer true.
	NeedsContext() bool

	// ParseParams validates a <data>/<value> element's <param> children and returns an opaque
	// params value to pass back into ParseValue/Disallows, or a *relaxng.Error of kind
	// ErrKindParameterError if a parameter is malformed or not supported by this type.
	ParseParams(path string, params []Param) (interface{}, *relaxng.Error)

	// ParseValue parses a <value> element's lexical content into a typed value suitable for Equal,
	// or a *relaxng.Error of kind ErrKindValueValidationError if the text is not a legal lexical
	// representation of this type.
	ParseValue(path, value string, ctx Context) (interface{}, *relaxng.Error)

	// Equal compares two values produced by ParseValue for the value-space equality defined by
	// this type (not lexical equality: "1.0" and "1.00" are the same xsd:decimal).
	Equal(a, b interface{}, ctx Context) bool

	// Disallows reports whether value, a raw lexical string encountered while validating a
	// document, is rejected by this datatype under params (the result of a prior ParseParams). It
	// performs its own lexical parsing and facet checking; a value that fails to parse at all is
	// disallowed.
	Disallows(value string, params interface{}, ctx Context) bool

	// Regexp describes the type's possible lexical inputs. It is advisory only, used when
	// reporting an EventSet (§4.H); it need not be a precise characterization of the value space.
	Regexp() string
}

// Library is a named collection of Types reachable by the URI that a schema's datatypeLibrary
// attribute names.
type Library interface {
	URI() string
	Type(name string) (Type, bool)
}

// Registry dispatches (libraryURI, typeName) lookups to registered Libraries, raising the
// UnknownDatatypeLibrary/UnknownDatatype errors §4.B requires when a lookup misses.
type Registry struct {
	libraries map[string]Library
}

// NewRegistry builds a Registry preloaded with the built-in library (the empty URI). Callers
// register additional libraries, such as the XML Schema datatypes library, with Register.
func NewRegistry() *Registry {
	r := &Registry{libraries: map[string]Library{}}
	r.Register(BuiltinLibrary())
	return r
}

// Register adds or replaces the library keyed by lib.URI().
func (r *Registry) Register(lib Library) {
	r.libraries[lib.URI()] = lib
}

// Lookup resolves a (libraryURI, typeName) pair. path identifies the offending simplified-schema
// element for the error message when the lookup fails.
func (r *Registry) Lookup(libraryURI, typeName, path string) (Type, *relaxng.Error) {
	lib, ok := r.libraries[libraryURI]
	if !ok {
		return nil, relaxng.NewError(
			fmt.Sprintf("unknown datatype library %q at %s", libraryURI, path),
			relaxng.ErrKindUnknownDatatypeLibrary)
	}

	t, ok := lib.Type(typeName)
	if !ok {
		return nil, relaxng.NewError(
			fmt.Sprintf("unknown datatype %q in library %q at %s", typeName, libraryURI, path),
			relaxng.ErrKindUnknownDatatype)
	}
	return t, nil
}
