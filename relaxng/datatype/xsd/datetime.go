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
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dtFields is a common decomposition for the dateTime/date/time/gYear/.../gDay family: each
// parser fills in only the components its lexical form carries and leaves the rest zero, which is
// sufficient for ordering and equality within a single type (min/maxInclusive never compares a
// gMonth against a gYear).
type dtFields struct {
	year        int64
	month, day  int
	hour, min   int
	sec         float64
	hasTZ       bool
	tzOffsetMin int
}

// key folds the fields into a single big.Int so that comparing two dtFields of the same type by
// key order matches chronological order, after normalizing a known time zone offset to UTC.
func (f dtFields) key() *big.Int {
	minute := f.min
	if f.hasTZ {
		minute -= f.tzOffsetMin
	}
	// time.Date rolls an out-of-range minute over into the hour, day, month and year.
	t := time.Date(int(f.year), time.Month(f.month), f.day, f.hour, minute, 0, 0, time.UTC)
	k := big.NewInt(t.Unix())
	k.Mul(k, big.NewInt(1000))
	k.Add(k, big.NewInt(int64(f.sec*1000)))
	return k
}

func compareDateTime(a, b interface{}) int {
	return a.(dtFields).key().Cmp(b.(dtFields).key())
}

func parseTZ(s string) (hasTZ bool, offsetMin int) {
	if s == "" {
		return false, 0
	}
	if s == "Z" {
		return true, 0
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	h, _ := strconv.Atoi(s[1:3])
	m, _ := strconv.Atoi(s[4:6])
	return true, sign * (h*60 + m)
}

var (
	dateTimeRe = regexp.MustCompile(
		`^(-?\d{4,})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)(Z|[+-]\d{2}:\d{2})?$`)
	dateRe = regexp.MustCompile(
		`^(-?\d{4,})-(\d{2})-(\d{2})(Z|[+-]\d{2}:\d{2})?$`)
	timeRe = regexp.MustCompile(
		`^(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)(Z|[+-]\d{2}:\d{2})?$`)
	gYearRe = regexp.MustCompile(
		`^(-?\d{4,})(Z|[+-]\d{2}:\d{2})?$`)
	gYearMonthRe = regexp.MustCompile(
		`^(-?\d{4,})-(\d{2})(Z|[+-]\d{2}:\d{2})?$`)
	gMonthRe = regexp.MustCompile(
		`^--(\d{2})(Z|[+-]\d{2}:\d{2})?$`)
	gMonthDayRe = regexp.MustCompile(
		`^--(\d{2})-(\d{2})(Z|[+-]\d{2}:\d{2})?$`)
	gDayRe = regexp.MustCompile(
		`^---(\d{2})(Z|[+-]\d{2}:\d{2})?$`)
	durationRe = regexp.MustCompile(
		`^-?P(?:\d+Y)?(?:\d+M)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+(?:\.\d+)?S)?)?$`)
	durationComponentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)([YMDHS])`)
)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseDateTime(lexical string) (dtFields, bool) {
	m := dateTimeRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	year, _ := strconv.ParseInt(m[1], 10, 64)
	sec, _ := strconv.ParseFloat(m[6], 64)
	hasTZ, off := parseTZ(m[7])
	return dtFields{year: year, month: atoi(m[2]), day: atoi(m[3]), hour: atoi(m[4]), min: atoi(m[5]),
		sec: sec, hasTZ: hasTZ, tzOffsetMin: off}, true
}

func parseDate(lexical string) (dtFields, bool) {
	m := dateRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	year, _ := strconv.ParseInt(m[1], 10, 64)
	hasTZ, off := parseTZ(m[4])
	return dtFields{year: year, month: atoi(m[2]), day: atoi(m[3]), hasTZ: hasTZ, tzOffsetMin: off}, true
}

func parseTime(lexical string) (dtFields, bool) {
	m := timeRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	sec, _ := strconv.ParseFloat(m[3], 64)
	hasTZ, off := parseTZ(m[4])
	return dtFields{hour: atoi(m[1]), min: atoi(m[2]), sec: sec, hasTZ: hasTZ, tzOffsetMin: off}, true
}

func parseGYear(lexical string) (dtFields, bool) {
	m := gYearRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	year, _ := strconv.ParseInt(m[1], 10, 64)
	hasTZ, off := parseTZ(m[2])
	return dtFields{year: year, hasTZ: hasTZ, tzOffsetMin: off}, true
}

func parseGYearMonth(lexical string) (dtFields, bool) {
	m := gYearMonthRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	year, _ := strconv.ParseInt(m[1], 10, 64)
	hasTZ, off := parseTZ(m[3])
	return dtFields{year: year, month: atoi(m[2]), hasTZ: hasTZ, tzOffsetMin: off}, true
}

func parseGMonth(lexical string) (dtFields, bool) {
	m := gMonthRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	hasTZ, off := parseTZ(m[2])
	return dtFields{month: atoi(m[1]), hasTZ: hasTZ, tzOffsetMin: off}, true
}

func parseGMonthDay(lexical string) (dtFields, bool) {
	m := gMonthDayRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	hasTZ, off := parseTZ(m[3])
	return dtFields{month: atoi(m[1]), day: atoi(m[2]), hasTZ: hasTZ, tzOffsetMin: off}, true
}

func parseGDay(lexical string) (dtFields, bool) {
	m := gDayRe.FindStringSubmatch(lexical)
	if m == nil {
		return dtFields{}, false
	}
	hasTZ, off := parseTZ(m[2])
	return dtFields{day: atoi(m[1]), hasTZ: hasTZ, tzOffsetMin: off}, true
}

// durationSeconds converts a duration lexical form into an approximate total-seconds figure
// (30-day months, 365-day years) good enough for the minInclusive/maxInclusive-style ordering
// facets; it does not attempt XML Schema's full partial-order duration comparison.
func durationSeconds(lexical string) (float64, bool) {
	if !durationRe.MatchString(lexical) {
		return 0, false
	}
	sign := 1.0
	if lexical[0] == '-' {
		sign = -1.0
	}
	tOffset := strings.IndexByte(lexical, 'T')
	total := 0.0

	for _, m := range durationComponentRe.FindAllStringSubmatchIndex(lexical, -1) {
		n, _ := strconv.ParseFloat(lexical[m[2]:m[3]], 64)
		unit := lexical[m[4]:m[5]]
		beforeT := tOffset < 0 || m[0] < tOffset
		switch unit {
		case "Y":
			total += n * 365 * 24 * 3600
		case "M":
			if beforeT {
				total += n * 30 * 24 * 3600
			} else {
				total += n * 60
			}
		case "D":
			total += n * 24 * 3600
		case "H":
			total += n * 3600
		case "S":
			total += n
		}
	}
	return sign * total, true
}
