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

// Package nameclass implements Relax NG name classes: the patterns over expanded XML names that
// appear as the "name", "nsName", "anyName" and name-class "choice" elements of a schema.
package nameclass

// Class is a Relax NG name class. The four concrete implementations are Name, NsName, AnyName and
// Choice; callers type-switch on Class the same way artemis's graphql.Type is type-switched in
// IsTypeSubTypeOf.
type Class interface {
	// Match reports whether the class matches the expanded name (ns, local).
	Match(ns, local string) bool

	// Simple reports whether the class involves no wildcard or except (i.e. it denotes a finite,
	// enumerable set of names all given explicitly as Name values).
	Simple() bool

	// ToArray returns the explicit Name values making up the class, or (nil, false) if the class is
	// not Simple (a wildcard or an except is involved and the set can't be enumerated).
	ToArray() ([]Name, bool)

	// isClass is unexported so Class can only be implemented within this package.
	isClass()
}

// Name matches a single expanded name exactly. A Name never carries an except; when a name class
// needs to exclude specific names it does so via NsName.Except or AnyName.Except.
type Name struct {
	NS    string
	Local string
}

var _ Class = Name{}

func (Name) isClass() {}

// Match implements Class.
func (n Name) Match(ns, local string) bool {
	return n.NS == ns && n.Local == local
}

// Simple implements Class.
func (Name) Simple() bool { return true }

// ToArray implements Class.
func (n Name) ToArray() ([]Name, bool) {
	return []Name{n}, true
}

// NsName matches any local name in a given namespace, except any name matched by Except (if
// non-nil).
type NsName struct {
	NS     string
	Except Class // may be nil
}

var _ Class = NsName{}

func (NsName) isClass() {}

// Match implements Class.
func (c NsName) Match(ns, local string) bool {
	if ns != c.NS {
		return false
	}
	if c.Except != nil && c.Except.Match(ns, local) {
		return false
	}
	return true
}

// Simple implements Class.
func (NsName) Simple() bool { return false }

// ToArray implements Class.
func (NsName) ToArray() ([]Name, bool) { return nil, false }

// AnyName matches any expanded name whatsoever, except any name matched by Except (if non-nil).
type AnyName struct {
	Except Class // may be nil
}

var _ Class = AnyName{}

func (AnyName) isClass() {}

// Match implements Class.
func (c AnyName) Match(ns, local string) bool {
	return c.Except == nil || !c.Except.Match(ns, local)
}

// Simple implements Class.
func (AnyName) Simple() bool { return false }

// ToArray implements Class.
func (AnyName) ToArray() ([]Name, bool) { return nil, false }

// Choice matches any name matched by either A or B.
type Choice struct {
	A, B Class
}

var _ Class = Choice{}

func (Choice) isClass() {}

// Match implements Class.
func (c Choice) Match(ns, local string) bool {
	return c.A.Match(ns, local) || c.B.Match(ns, local)
}

// Simple implements Class.
func (c Choice) Simple() bool {
	return c.A.Simple() && c.B.Simple()
}

// ToArray implements Class.
func (c Choice) ToArray() ([]Name, bool) {
	aNames, ok := c.A.ToArray()
	if !ok {
		return nil, false
	}
	bNames, ok := c.B.ToArray()
	if !ok {
		return nil, false
	}
	names := make([]Name, 0, len(aNames)+len(bNames))
	names = append(names, aNames...)
	for _, n := range bNames {
		dup := false
		for _, seen := range names {
			if seen == n {
				dup = true
				break
			}
		}
		if !dup {
			names = append(names, n)
		}
	}
	return names, true
}

// NewChoice builds a (possibly nested) Choice over two or more classes, right-folding the way
// simplify step 14 binarizes n-ary patterns.
func NewChoice(classes ...Class) Class {
	switch len(classes) {
	case 0:
		return nil
	case 1:
		return classes[0]
	default:
		result := classes[len(classes)-1]
		for i := len(classes) - 2; i >= 0; i-- {
			result = Choice{A: classes[i], B: result}
		}
		return result
	}
}

// Intersects reports whether X and Y share at least one matched name. It is symmetric (§8
// property 2) because it is derived directly from Intersection, which is itself commutative modulo
// representation.
func Intersects(x, y Class) bool {
	return Intersection(x, y) != nil
}
