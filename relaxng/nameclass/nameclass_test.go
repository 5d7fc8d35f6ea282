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

package nameclass_test

import (
	"github.com/botobag/relaxng/nameclass"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Class", func() {
	a := nameclass.Name{NS: "urn:a", Local: "a"}
	b := nameclass.Name{NS: "urn:a", Local: "b"}
	c := nameclass.Name{NS: "urn:c", Local: "c"}

	Describe("Name", func() {
		It("matches only its own expanded name", func() {
			Expect(a.Match("urn:a", "a")).Should(BeTrue())
			Expect(a.Match("urn:a", "b")).Should(BeFalse())
			Expect(a.Match("urn:c", "a")).Should(BeFalse())
		})

		It("is simple and enumerates itself", func() {
			Expect(a.Simple()).Should(BeTrue())
			names, ok := a.ToArray()
			Expect(ok).Should(BeTrue())
			Expect(names).Should(ConsistOf(a))
		})
	})

	Describe("NsName", func() {
		ns := nameclass.NsName{NS: "urn:a"}

		It("matches any local name in the namespace", func() {
			Expect(ns.Match("urn:a", "anything")).Should(BeTrue())
			Expect(ns.Match("urn:c", "anything")).Should(BeFalse())
		})

		It("excludes names matched by Except", func() {
			excepting := nameclass.NsName{NS: "urn:a", Except: a}
			Expect(excepting.Match("urn:a", "a")).Should(BeFalse())
			Expect(excepting.Match("urn:a", "b")).Should(BeTrue())
		})

		It("is not simple", func() {
			Expect(ns.Simple()).Should(BeFalse())
			_, ok := ns.ToArray()
			Expect(ok).Should(BeFalse())
		})
	})

	Describe("AnyName", func() {
		any := nameclass.AnyName{}

		It("matches everything without an except", func() {
			Expect(any.Match("urn:a", "a")).Should(BeTrue())
			Expect(any.Match("urn:zzz", "zzz")).Should(BeTrue())
		})

		It("excludes names matched by Except", func() {
			excepting := nameclass.AnyName{Except: a}
			Expect(excepting.Match("urn:a", "a")).Should(BeFalse())
			Expect(excepting.Match("urn:a", "b")).Should(BeTrue())
		})
	})

	Describe("Choice", func() {
		choice := nameclass.Choice{A: a, B: c}

		It("matches names from either side", func() {
			Expect(choice.Match("urn:a", "a")).Should(BeTrue())
			Expect(choice.Match("urn:c", "c")).Should(BeTrue())
			Expect(choice.Match("urn:a", "b")).Should(BeFalse())
		})

		It("is simple when both sides are simple", func() {
			Expect(choice.Simple()).Should(BeTrue())
			names, ok := choice.ToArray()
			Expect(ok).Should(BeTrue())
			Expect(names).Should(ConsistOf(a, c))
		})
	})

	Describe("NewChoice", func() {
		It("right-folds more than two classes into binary Choice nodes", func() {
			got := nameclass.NewChoice(a, b, c)
			Expect(got).Should(Equal(nameclass.Choice{A: a, B: nameclass.Choice{A: b, B: c}}))
		})

		It("returns the sole class unwrapped", func() {
			Expect(nameclass.NewChoice(a)).Should(Equal(a))
		})
	})
})

var _ = Describe("Intersection", func() {
	a := nameclass.Name{NS: "urn:a", Local: "a"}
	b := nameclass.Name{NS: "urn:a", Local: "b"}
	c := nameclass.Name{NS: "urn:c", Local: "c"}

	It("of two equal names is that name", func() {
		Expect(nameclass.Intersection(a, a)).Should(Equal(nameclass.Class(a)))
	})

	It("of two distinct names is empty", func() {
		Expect(nameclass.Intersection(a, b)).Should(BeNil())
	})

	It("of a name and an NsName in the same namespace is the name", func() {
		ns := nameclass.NsName{NS: "urn:a"}
		Expect(nameclass.Intersection(a, ns)).Should(Equal(nameclass.Class(a)))
	})

	It("of a name and an NsName excepting it is empty", func() {
		ns := nameclass.NsName{NS: "urn:a", Except: a}
		Expect(nameclass.Intersection(a, ns)).Should(BeNil())
	})

	It("of two NsName in different namespaces is empty", func() {
		x := nameclass.NsName{NS: "urn:a"}
		y := nameclass.NsName{NS: "urn:c"}
		Expect(nameclass.Intersection(x, y)).Should(BeNil())
	})

	It("of two NsName in the same namespace merges their except sets", func() {
		x := nameclass.NsName{NS: "urn:a", Except: a}
		y := nameclass.NsName{NS: "urn:a", Except: b}
		got, ok := nameclass.Intersection(x, y).(nameclass.NsName)
		Expect(ok).Should(BeTrue())
		Expect(got.NS).Should(Equal("urn:a"))
		Expect(got.Except.Match("urn:a", "a")).Should(BeTrue())
		Expect(got.Except.Match("urn:a", "b")).Should(BeTrue())
	})

	It("AnyName ∩ X is X minus AnyName's except", func() {
		any := nameclass.AnyName{Except: a}
		Expect(nameclass.Intersection(any, b)).Should(Equal(nameclass.Class(b)))
		Expect(nameclass.Intersection(any, a)).Should(BeNil())
	})

	It("is symmetric for every pairing tested here", func() {
		pairs := []struct{ x, y nameclass.Class }{
			{a, b}, {a, nameclass.NsName{NS: "urn:a"}}, {nameclass.AnyName{}, c},
			{nameclass.Choice{A: a, B: b}, nameclass.NsName{NS: "urn:a"}},
		}
		for _, p := range pairs {
			Expect(nameclass.Intersects(p.x, p.y)).Should(Equal(nameclass.Intersects(p.y, p.x)))
		}
	})

	It("X.intersection(X) is non-empty for every X tested here", func() {
		classes := []nameclass.Class{a, nameclass.NsName{NS: "urn:a"}, nameclass.AnyName{}, nameclass.Choice{A: a, B: c}}
		for _, x := range classes {
			Expect(nameclass.Intersection(x, x)).ShouldNot(BeNil())
		}
	})
})

var _ = Describe("Subtract", func() {
	a := nameclass.Name{NS: "urn:a", Local: "a"}

	It("removes a Name from an NsName's matched set", func() {
		ns := nameclass.NsName{NS: "urn:a"}
		got := nameclass.Subtract(ns, a)
		Expect(got.Match("urn:a", "a")).Should(BeFalse())
		Expect(got.Match("urn:a", "b")).Should(BeTrue())
	})

	It("removes a Name from an AnyName's matched set", func() {
		any := nameclass.AnyName{}
		got := nameclass.Subtract(any, a)
		Expect(got.Match("urn:a", "a")).Should(BeFalse())
		Expect(got.Match("urn:zzz", "zzz")).Should(BeTrue())
	})
})

var _ = Describe("GetNamespaces", func() {
	It("reports * for AnyName and ::except when except constrains the class", func() {
		any := nameclass.AnyName{Except: nameclass.Name{NS: "urn:a", Local: "a"}}
		ns := nameclass.GetNamespaces(any)
		Expect(ns).Should(HaveKey("*"))
		Expect(ns).Should(HaveKey("::except"))
	})

	It("reports plain namespaces for Name and NsName without except", func() {
		c := nameclass.Choice{
			A: nameclass.Name{NS: "urn:a", Local: "a"},
			B: nameclass.NsName{NS: "urn:b"},
		}
		ns := nameclass.GetNamespaces(c)
		Expect(ns).Should(HaveKey("urn:a"))
		Expect(ns).Should(HaveKey("urn:b"))
		Expect(ns).ShouldNot(HaveKey("::except"))
	})
})
