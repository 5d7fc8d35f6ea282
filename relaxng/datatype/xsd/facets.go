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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
)

// whitespace is the XML Schema whiteSpace facet every built-in type fixes for its lexical space,
// applied before any other facet check or lexical parse.
type whitespace int

const (
	preserve whitespace = iota
	replace
	collapse
)

func (w whitespace) apply(value string) string {
	switch w {
	case replace:
		return strings.Map(func(r rune) rune {
			if r == '\t' || r == '\n' || r == '\r' {
				return ' '
			}
			return r
		}, value)
	case collapse:
		return strings.Join(strings.Fields(value), " ")
	default:
		return value
	}
}

// constraints is the parsed form of a <data>/<value> element's <param> children: the opaque
// "params" value ParseParams returns and Disallows/ParseValue later consult.
type constraints struct {
	pattern        *regexp.Regexp
	enumeration    []string
	length         *int
	minLength      *int
	maxLength      *int
	minInclusive   string
	maxInclusive   string
	minExclusive   string
	maxExclusive   string
	hasMinInc      bool
	hasMaxInc      bool
	hasMinExc      bool
	hasMaxExc      bool
	totalDigits    *int
	fractionDigits *int
}

// facetSet names which facets a given datatype accepts, per SPEC_FULL's commitment that "all
// types accept pattern, enumeration, length/minLength/maxLength where lexically meaningful" and
// only numeric/date/duration types additionally accept the ordering and digit-count facets.
type facetSet struct {
	length   bool
	ordering bool
	digits   bool
}

func parseIntFacet(typeName, path, name, value string) (int, *relaxng.Error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, relaxng.NewError(
			fmt.Sprintf("%s: %s facet %q is not a non-negative integer at %s", typeName, name, value, path),
			relaxng.ErrKindParameterError)
	}
	return n, nil
}

// parseConstraints builds a constraints value from a <data>/<value> element's raw <param> list,
// rejecting any facet name not present in allowed or any facet value that is itself malformed.
func parseConstraints(typeName, path string, params []datatype.Param, allowed facetSet) (*constraints, *relaxng.Error) {
	c := &constraints{}
	for _, p := range params {
		switch p.Name {
		case "pattern":
			re, err := regexp.Compile(p.Value)
			if err != nil {
				return nil, relaxng.NewError(
					fmt.Sprintf("%s: invalid pattern %q at %s: %s", typeName, p.Value, path, err),
					relaxng.ErrKindParameterError)
			}
			c.pattern = re

		case "enumeration":
			c.enumeration = append(c.enumeration, p.Value)

		case "length", "minLength", "maxLength":
			if !allowed.length {
				return nil, relaxng.NewError(
					fmt.Sprintf("%s: facet %q is not supported at %s", typeName, p.Name, path),
					relaxng.ErrKindParameterError)
			}
			n, err := parseIntFacet(typeName, path, p.Name, p.Value)
			if err != nil {
				return nil, err
			}
			switch p.Name {
			case "length":
				c.length = &n
			case "minLength":
				c.minLength = &n
			case "maxLength":
				c.maxLength = &n
			}

		case "minInclusive", "maxInclusive", "minExclusive", "maxExclusive":
			if !allowed.ordering {
				return nil, relaxng.NewError(
					fmt.Sprintf("%s: facet %q is not supported at %s", typeName, p.Name, path),
					relaxng.ErrKindParameterError)
			}
			switch p.Name {
			case "minInclusive":
				c.minInclusive, c.hasMinInc = p.Value, true
			case "maxInclusive":
				c.maxInclusive, c.hasMaxInc = p.Value, true
			case "minExclusive":
				c.minExclusive, c.hasMinExc = p.Value, true
			case "maxExclusive":
				c.maxExclusive, c.hasMaxExc = p.Value, true
			}

		case "totalDigits", "fractionDigits":
			if !allowed.digits {
				return nil, relaxng.NewError(
					fmt.Sprintf("%s: facet %q is not supported at %s", typeName, p.Name, path),
					relaxng.ErrKindParameterError)
			}
			n, err := parseIntFacet(typeName, path, p.Name, p.Value)
			if err != nil {
				return nil, err
			}
			if p.Name == "totalDigits" {
				if n == 0 {
					return nil, relaxng.NewError(
						fmt.Sprintf("%s: totalDigits must be positive at %s", typeName, path),
						relaxng.ErrKindParameterError)
				}
				c.totalDigits = &n
			} else {
				c.fractionDigits = &n
			}

		default:
			return nil, relaxng.NewError(
				fmt.Sprintf("%s: unrecognized facet %q at %s", typeName, p.Name, path),
				relaxng.ErrKindParameterError)
		}
	}
	return c, nil
}

// checkLength reports whether countable (the rune count of a string, or the item count of a list
// datatype) violates length/minLength/maxLength.
func checkLength(c *constraints, countable int) bool {
	if c.length != nil && countable != *c.length {
		return true
	}
	if c.minLength != nil && countable < *c.minLength {
		return true
	}
	if c.maxLength != nil && countable > *c.maxLength {
		return true
	}
	return false
}

// checkPatternAndEnumeration reports whether lexical violates the pattern or enumeration facets.
// Enumeration is matched against the normalized lexical form, per XML Schema.
func checkPatternAndEnumeration(c *constraints, lexical string) bool {
	if c.pattern != nil && !c.pattern.MatchString(lexical) {
		return true
	}
	if len(c.enumeration) > 0 {
		for _, e := range c.enumeration {
			if e == lexical {
				return false
			}
		}
		return true
	}
	return false
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
