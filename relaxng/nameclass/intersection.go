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

package nameclass

// Intersection forms the product of two name classes per §4.A. It returns nil when the two classes
// share no name. The newer (§4.A) treatment of except is used throughout, per the Open Question in
// spec.md §9 that flags the older source's divergent except handling as unintended.
func Intersection(x, y Class) Class {
	switch x := x.(type) {
	case Name:
		return intersectName(x, y)

	case NsName:
		return intersectNsName(x, y)

	case AnyName:
		return Subtract(y, orEmpty(x.Except))

	case Choice:
		return unionClass(Intersection(x.A, y), Intersection(x.B, y))

	default:
		return nil
	}
}

func intersectName(n Name, y Class) Class {
	switch y := y.(type) {
	case Name:
		if n == y {
			return n
		}
		return nil

	case NsName:
		if n.NS != y.NS {
			return nil
		}
		if y.Except != nil && y.Except.Match(n.NS, n.Local) {
			return nil
		}
		return n

	case AnyName:
		if y.Except != nil && y.Except.Match(n.NS, n.Local) {
			return nil
		}
		return n

	case Choice:
		return unionClass(intersectName(n, y.A), intersectName(n, y.B))

	default:
		return nil
	}
}

func intersectNsName(x NsName, y Class) Class {
	switch y := y.(type) {
	case Name:
		return intersectName(y, x)

	case NsName:
		if x.NS != y.NS {
			return nil
		}
		return NsName{NS: x.NS, Except: unionClass(orEmpty(x.Except), orEmpty(y.Except))}

	case AnyName:
		// AnyName(e) ∩ X = X - e.
		return Subtract(x, orEmpty(y.Except))

	case Choice:
		return unionClass(intersectNsName(x, y.A), intersectNsName(x, y.B))

	default:
		return nil
	}
}

// unionClass builds a deduplicated Choice of a and b, handling nil (empty) operands.
func unionClass(a, b Class) Class {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if equalClass(a, b) {
		return a
	}
	return Choice{A: a, B: b}
}

func orEmpty(c Class) Class {
	return c
}

// equalClass is a best-effort structural equality check, used only to avoid building redundant
// Choice wrappers; it is conservative (false negatives are harmless).
func equalClass(a, b Class) bool {
	an, aok := a.(Name)
	bn, bok := b.(Name)
	if aok && bok {
		return an == bn
	}
	return false
}

// Subtract removes every name matched by sub from base. Only NsName and AnyName support
// subtraction, as required by the Relax NG except grammar (§4.A); sub may be a Name, NsName, or a
// Choice of those.
func Subtract(base Class, sub Class) Class {
	if sub == nil {
		return base
	}

	switch base := base.(type) {
	case NsName:
		return NsName{NS: base.NS, Except: unionClass(orEmpty(base.Except), restrictToNamespace(sub, base.NS))}

	case AnyName:
		return AnyName{Except: unionClass(orEmpty(base.Except), sub)}

	case Choice:
		return unionClass(Subtract(base.A, sub), Subtract(base.B, sub))

	default:
		// Name has no meaningful subtraction target in the grammar; report empty if sub matches it.
		if n, ok := base.(Name); ok {
			if matchesAny(sub, n.NS, n.Local) {
				return nil
			}
			return n
		}
		return base
	}
}

// restrictToNamespace narrows sub (a Name/NsName/Choice of those) to the names it denotes within
// the given namespace, for merging into an NsName's except set.
func restrictToNamespace(sub Class, ns string) Class {
	switch sub := sub.(type) {
	case Name:
		if sub.NS == ns {
			return sub
		}
		return nil
	case NsName:
		if sub.NS == ns {
			return NsName{NS: ns, Except: sub.Except}
		}
		return nil
	case Choice:
		return unionClass(restrictToNamespace(sub.A, ns), restrictToNamespace(sub.B, ns))
	default:
		return sub
	}
}

func matchesAny(c Class, ns, local string) bool {
	return c != nil && c.Match(ns, local)
}

// GetNamespaces returns the set of namespaces referenced by the class. "::except" is included when
// an except constrains the class and "*" is included when an AnyName participates, matching §4.A.
func GetNamespaces(c Class) map[string]bool {
	out := map[string]bool{}
	collectNamespaces(c, out)
	return out
}

func collectNamespaces(c Class, out map[string]bool) {
	switch c := c.(type) {
	case Name:
		out[c.NS] = true
	case NsName:
		out[c.NS] = true
		if c.Except != nil {
			out["::except"] = true
		}
	case AnyName:
		out["*"] = true
		if c.Except != nil {
			out["::except"] = true
		}
	case Choice:
		collectNamespaces(c.A, out)
		collectNamespaces(c.B, out)
	}
}
