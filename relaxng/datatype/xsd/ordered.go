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
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// decimalDigits counts the significant digits in a decimal lexical form for the totalDigits and
// fractionDigits facets: leading zeros in the integer part and a leading sign are not significant.
func decimalDigits(lexical string) (total, fraction int) {
	s := strings.TrimPrefix(strings.TrimPrefix(lexical, "+"), "-")
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	intPart = strings.TrimLeft(intPart, "0")
	fraction = len(fracPart)
	total = len(intPart) + fraction
	if total == 0 {
		total = 1
	}
	return total, fraction
}

// parseDecimal parses an xsd:decimal lexical form into an exact big.Rat, accepting an optional
// sign, digits, and an optional fractional part.
var decimalLexical = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)

func parseDecimal(lexical string) (*big.Rat, bool) {
	if !decimalLexical.MatchString(lexical) {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(lexical)
	return r, ok
}

func compareRat(a, b interface{}) int {
	return a.(*big.Rat).Cmp(b.(*big.Rat))
}

// parseInteger parses an xsd:integer (and derived types') lexical form into an exact big.Int.
var integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)

func parseInteger(lexical string) (*big.Int, bool) {
	if !integerLexical.MatchString(lexical) {
		return nil, false
	}
	n, ok := new(big.Int).SetString(lexical, 10)
	return n, ok
}

func compareInt(a, b interface{}) int {
	return a.(*big.Int).Cmp(b.(*big.Int))
}

// parseXSDFloat parses an xsd:float/xsd:double lexical form. The three special literal tokens
// ("INF", "-INF", "NaN") are matched explicitly; everything else goes to strconv.ParseFloat, which
// also accepts other spellings such as "inf", "+Inf" and "Infinity".
func parseXSDFloat(lexical string, bitSize int) (float64, bool) {
	switch lexical {
	case "INF":
		return math.Inf(1), true
	case "-INF":
		return math.Inf(-1), true
	case "NaN":
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(lexical, bitSize)
	if err != nil {
		return 0, false
	}
	return f, true
}

func compareFloat(a, b interface{}) int {
	x, y := a.(float64), b.(float64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
