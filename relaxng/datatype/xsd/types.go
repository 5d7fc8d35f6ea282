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

// Package xsd implements the XML Schema datatypes library recognized by §4.B and §8 under the URI
// http://www.w3.org/2001/XMLSchema-datatypes. Every type in the committed set except QName and
// NOTATION is built from the same simpleType skeleton: a whitespace facet, an optional lexical-form
// regexp, an optional parse/compare pair for the ordering and digit-count facets, and the facet set
// it accepts. QName and NOTATION are contextType values (qname.go).
package xsd

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
)

// URI is the well-known identifier for this library, per §8: "http://www.w3.org/2001/XMLSchema-datatypes".
const URI = "http://www.w3.org/2001/XMLSchema-datatypes"

// simpleType implements datatype.Type for every XSD datatype in the committed set except QName
// and NOTATION, which need a Context and get their own type below.
type simpleType struct {
	name       string
	ws         whitespace
	lexical    *regexp.Regexp // nil: any string accepted lexically (still subject to facets)
	facets     facetSet
	listItem   bool // ENTITIES/IDREFS: space-separated list, length facets count items
	parse      func(lexical string) (interface{}, bool)
	compare    func(a, b interface{}) int // nil: type is not orderable
	digits     func(lexical string) (total, fraction int)
}

var _ datatype.Type = (*simpleType)(nil)

func (t *simpleType) Name() string       { return t.name }
func (t *simpleType) NeedsContext() bool { return false }

func (t *simpleType) Regexp() string {
	if t.lexical != nil {
		return t.lexical.String()
	}
	return ".*"
}

func (t *simpleType) ParseParams(path string, params []datatype.Param) (interface{}, *relaxng.Error) {
	return parseConstraints(t.name, path, params, t.facets)
}

// valid reports whether the normalized lexical form satisfies this type's fixed lexical pattern
// (if any) and the given constraints, and returns the parsed value when parse is defined.
func (t *simpleType) valid(lexical string, c *constraints) (interface{}, bool) {
	if t.lexical != nil && !t.lexical.MatchString(lexical) {
		return nil, false
	}

	if t.listItem {
		items := splitList(lexical)
		if c != nil && checkLength(c, len(items)) {
			return nil, false
		}
	} else if c != nil && checkLength(c, runeCount(lexical)) {
		return nil, false
	}

	if c != nil && checkPatternAndEnumeration(c, lexical) {
		return nil, false
	}

	var value interface{} = lexical
	if t.parse != nil {
		v, ok := t.parse(lexical)
		if !ok {
			return nil, false
		}
		value = v

		if c != nil && t.compare != nil {
			if c.hasMinInc {
				min, ok := t.parse(c.minInclusive)
				if !ok || t.compare(value, min) < 0 {
					return nil, false
				}
			}
			if c.hasMaxInc {
				max, ok := t.parse(c.maxInclusive)
				if !ok || t.compare(value, max) > 0 {
					return nil, false
				}
			}
			if c.hasMinExc {
				min, ok := t.parse(c.minExclusive)
				if !ok || t.compare(value, min) <= 0 {
					return nil, false
				}
			}
			if c.hasMaxExc {
				max, ok := t.parse(c.maxExclusive)
				if !ok || t.compare(value, max) >= 0 {
					return nil, false
				}
			}
		}

		if c != nil && t.digits != nil && (c.totalDigits != nil || c.fractionDigits != nil) {
			total, fraction := t.digits(lexical)
			if c.totalDigits != nil && total > *c.totalDigits {
				return nil, false
			}
			if c.fractionDigits != nil && fraction > *c.fractionDigits {
				return nil, false
			}
		}
	}

	return value, true
}

func (t *simpleType) ParseValue(path, value string, ctx datatype.Context) (interface{}, *relaxng.Error) {
	lexical := t.ws.apply(value)
	v, ok := t.valid(lexical, nil)
	if !ok {
		return nil, relaxng.NewError(
			fmt.Sprintf("%q is not a legal lexical value of %s at %s", value, t.name, path),
			relaxng.ErrKindValueValidationError)
	}
	return v, nil
}

func (t *simpleType) Equal(a, b interface{}, ctx datatype.Context) bool {
	if t.compare != nil {
		return t.compare(a, b) == 0
	}
	return a == b
}

func (t *simpleType) Disallows(value string, params interface{}, ctx datatype.Context) bool {
	lexical := t.ws.apply(value)
	var c *constraints
	if params != nil {
		c = params.(*constraints)
	}
	_, ok := t.valid(lexical, c)
	return !ok
}

func splitList(lexical string) []string {
	fields := []string{}
	start := -1
	for i, r := range lexical {
		if r == ' ' {
			if start >= 0 {
				fields = append(fields, lexical[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, lexical[start:])
	}
	return fields
}

var (
	basicFacets  = facetSet{length: true}
	orderFacets  = facetSet{length: true, ordering: true}
	digitFacets  = facetSet{length: true, ordering: true, digits: true}
)

// nameRe approximates XML's Name production (NCName-ish, ASCII-friendly) closely enough for
// NCName-derived datatypes without pulling in a full XML 1.0 character-class table.
var (
	nameRe    = regexp.MustCompile(`^[A-Za-z_:][-A-Za-z0-9_:.]*$`)
	ncNameRe  = regexp.MustCompile(`^[A-Za-z_][-A-Za-z0-9_.]*$`)
	nmtokenRe = regexp.MustCompile(`^[-A-Za-z0-9_:.]+$`)
	languageRe = regexp.MustCompile(`^[A-Za-z]{1,8}(-[A-Za-z0-9]{1,8})*$`)
	booleanRe = regexp.MustCompile(`^(true|false|0|1)$`)
	hexBinaryRe = regexp.MustCompile(`^([0-9A-Fa-f]{2})*$`)
	base64BinaryRe = regexp.MustCompile(`^[A-Za-z0-9+/=\s]*$`)
	anyURIRe  = regexp.MustCompile(`^\S*$`)
)

func integerBoundedType(name string, min, max *big.Int) *simpleType {
	t := &simpleType{
		name:    name,
		ws:      collapse,
		lexical: integerLexical,
		facets:  digitFacets,
		parse: func(lexical string) (interface{}, bool) {
			n, ok := parseInteger(lexical)
			if !ok {
				return nil, false
			}
			if min != nil && n.Cmp(min) < 0 {
				return nil, false
			}
			if max != nil && n.Cmp(max) > 0 {
				return nil, false
			}
			return n, true
		},
		compare: compareInt,
		digits: func(lexical string) (int, int) {
			total, _ := decimalDigits(lexical)
			return total, 0
		},
	}
	return t
}

func bigInt(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

// Types returns every datatype the library exposes, keyed by name.
func Types() map[string]datatype.Type {
	types := map[string]datatype.Type{
		"string": &simpleType{
			name: "string", ws: preserve, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"normalizedString": &simpleType{
			name: "normalizedString", ws: replace, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"token": &simpleType{
			name: "token", ws: collapse, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"language": &simpleType{
			name: "language", ws: collapse, lexical: languageRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"Name": &simpleType{
			name: "Name", ws: collapse, lexical: nameRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"NCName": &simpleType{
			name: "NCName", ws: collapse, lexical: ncNameRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"NMTOKEN": &simpleType{
			name: "NMTOKEN", ws: collapse, lexical: nmtokenRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"boolean": &simpleType{
			name: "boolean", ws: collapse, lexical: booleanRe,
			parse: func(l string) (interface{}, bool) {
				return l == "true" || l == "1", true
			},
		},
		"decimal": &simpleType{
			name: "decimal", ws: collapse, lexical: decimalLexical, facets: digitFacets,
			parse:   func(l string) (interface{}, bool) { return parseDecimal(l) },
			compare: compareRat,
			digits:  decimalDigits,
		},
		"float": &simpleType{
			name: "float", ws: collapse, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseXSDFloat(l, 32) },
			compare: compareFloat,
		},
		"double": &simpleType{
			name: "double", ws: collapse, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseXSDFloat(l, 64) },
			compare: compareFloat,
		},
		"integer": integerBoundedType("integer", nil, nil),
		"nonNegativeInteger": integerBoundedType("nonNegativeInteger", bigInt("0"), nil),
		"positiveInteger":    integerBoundedType("positiveInteger", bigInt("1"), nil),
		"nonPositiveInteger": integerBoundedType("nonPositiveInteger", nil, bigInt("0")),
		"negativeInteger":    integerBoundedType("negativeInteger", nil, bigInt("-1")),
		"long":               integerBoundedType("long", bigInt("-9223372036854775808"), bigInt("9223372036854775807")),
		"int":                integerBoundedType("int", bigInt("-2147483648"), bigInt("2147483647")),
		"short":              integerBoundedType("short", bigInt("-32768"), bigInt("32767")),
		"byte":               integerBoundedType("byte", bigInt("-128"), bigInt("127")),
		"unsignedLong":       integerBoundedType("unsignedLong", bigInt("0"), bigInt("18446744073709551615")),
		"unsignedInt":        integerBoundedType("unsignedInt", bigInt("0"), bigInt("4294967295")),
		"unsignedShort":      integerBoundedType("unsignedShort", bigInt("0"), bigInt("65535")),
		"unsignedByte":       integerBoundedType("unsignedByte", bigInt("0"), bigInt("255")),
		"duration": &simpleType{
			name: "duration", ws: collapse, lexical: durationRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return durationSeconds(l) },
			compare: compareFloat,
		},
		"dateTime": &simpleType{
			name: "dateTime", ws: collapse, lexical: dateTimeRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseDateTime(l) },
			compare: compareDateTime,
		},
		"date": &simpleType{
			name: "date", ws: collapse, lexical: dateRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseDate(l) },
			compare: compareDateTime,
		},
		"time": &simpleType{
			name: "time", ws: collapse, lexical: timeRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseTime(l) },
			compare: compareDateTime,
		},
		"gYear": &simpleType{
			name: "gYear", ws: collapse, lexical: gYearRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseGYear(l) },
			compare: compareDateTime,
		},
		"gYearMonth": &simpleType{
			name: "gYearMonth", ws: collapse, lexical: gYearMonthRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseGYearMonth(l) },
			compare: compareDateTime,
		},
		"gMonth": &simpleType{
			name: "gMonth", ws: collapse, lexical: gMonthRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseGMonth(l) },
			compare: compareDateTime,
		},
		"gMonthDay": &simpleType{
			name: "gMonthDay", ws: collapse, lexical: gMonthDayRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseGMonthDay(l) },
			compare: compareDateTime,
		},
		"gDay": &simpleType{
			name: "gDay", ws: collapse, lexical: gDayRe, facets: orderFacets,
			parse:   func(l string) (interface{}, bool) { return parseGDay(l) },
			compare: compareDateTime,
		},
		"hexBinary": &simpleType{
			name: "hexBinary", ws: collapse, lexical: hexBinaryRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"base64Binary": &simpleType{
			name: "base64Binary", ws: collapse, lexical: base64BinaryRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"anyURI": &simpleType{
			name: "anyURI", ws: collapse, lexical: anyURIRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"ENTITY": &simpleType{
			name: "ENTITY", ws: collapse, lexical: ncNameRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"ENTITIES": &simpleType{
			name: "ENTITIES", ws: collapse, lexical: nil, facets: basicFacets, listItem: true,
			parse: func(l string) (interface{}, bool) {
				for _, item := range splitList(l) {
					if !ncNameRe.MatchString(item) {
						return nil, false
					}
				}
				return l, true
			},
		},
		"IDREF": &simpleType{
			name: "IDREF", ws: collapse, lexical: ncNameRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
		"IDREFS": &simpleType{
			name: "IDREFS", ws: collapse, lexical: nil, facets: basicFacets, listItem: true,
			parse: func(l string) (interface{}, bool) {
				for _, item := range splitList(l) {
					if !ncNameRe.MatchString(item) {
						return nil, false
					}
				}
				return l, true
			},
		},
		"ID": &simpleType{
			name: "ID", ws: collapse, lexical: ncNameRe, facets: basicFacets,
			parse: func(l string) (interface{}, bool) { return l, true },
		},
	}

	types["QName"] = &contextType{name: "QName", lexical: qnameLexical}
	types["NOTATION"] = &contextType{name: "NOTATION", lexical: qnameLexical}

	return types
}
