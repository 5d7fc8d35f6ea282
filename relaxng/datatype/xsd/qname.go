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

import (
	"fmt"
	"regexp"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
)

var qnameLexical = regexp.MustCompile(`^([A-Za-z_][-A-Za-z0-9_.]*:)?[A-Za-z_][-A-Za-z0-9_.]*$`)

// qnameValue is what QName and NOTATION's ParseValue produces: the expanded-name form that §8
// "S5. QName datatype rewrite" says a simplified schema's <value> element must carry after step
// 18, rather than the raw (unresolved) lexical prefix:local form.
type qnameValue struct {
	URI   string
	Local string
}

// contextType implements QName and NOTATION, the only two datatypes for which NeedsContext is
// true: resolving their lexical form into a value requires the namespace bindings in scope at the
// <value>/<data> element, per §4.B and §4.C.
type contextType struct {
	name    string
	lexical *regexp.Regexp
}

var _ datatype.Type = (*contextType)(nil)

func (t *contextType) Name() string       { return t.name }
func (t *contextType) NeedsContext() bool { return true }
func (t *contextType) Regexp() string     { return t.lexical.String() }

func (t *contextType) ParseParams(path string, params []datatype.Param) (interface{}, *relaxng.Error) {
	return parseConstraints(t.name, path, params, basicFacets)
}

func (t *contextType) ParseValue(path, value string, ctx datatype.Context) (interface{}, *relaxng.Error) {
	lexical := collapse.apply(value)
	if !t.lexical.MatchString(lexical) {
		return nil, relaxng.NewError(
			fmt.Sprintf("%q is not a legal lexical value of %s at %s", value, t.name, path),
			relaxng.ErrKindValueValidationError)
	}
	if ctx == nil {
		return nil, relaxng.NewError(
			fmt.Sprintf("%s requires a namespace context to resolve %q at %s", t.name, value, path),
			relaxng.ErrKindAPIMisuse)
	}
	uri, local, err := ctx.ResolveQName(lexical)
	if err != nil {
		return nil, err
	}
	return qnameValue{URI: uri, Local: local}, nil
}

func (t *contextType) Equal(a, b interface{}, ctx datatype.Context) bool {
	return a.(qnameValue) == b.(qnameValue)
}

func (t *contextType) Disallows(value string, params interface{}, ctx datatype.Context) bool {
	lexical := collapse.apply(value)
	if !t.lexical.MatchString(lexical) {
		return true
	}
	if c, ok := params.(*constraints); ok && c != nil {
		if checkPatternAndEnumeration(c, lexical) {
			return true
		}
		if checkLength(c, runeCount(lexical)) {
			return true
		}
	}
	if ctx == nil {
		return true
	}
	_, _, err := ctx.ResolveQName(lexical)
	return err != nil
}
