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

package expandedname_test

import (
	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/expandedname"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver", func() {
	It("preloads the reserved xml and xmlns bindings", func() {
		r := expandedname.NewResolver()
		uri, ok := r.LookupURI("xml")
		Expect(ok).Should(BeTrue())
		Expect(uri).Should(Equal(expandedname.XMLNamespace))

		uri, ok = r.LookupURI("xmlns")
		Expect(ok).Should(BeTrue())
		Expect(uri).Should(Equal(expandedname.XMLNSNamespace))
	})

	It("forbids redefining xmlns", func() {
		r := expandedname.NewResolver()
		err := r.DefinePrefix("xmlns", "urn:whatever")
		Expect(err).ShouldNot(BeNil())
	})

	It("forbids redefining xml to a different URI", func() {
		r := expandedname.NewResolver()
		err := r.DefinePrefix("xml", "urn:whatever")
		Expect(err).ShouldNot(BeNil())
	})

	It("allows redefining xml to its own URI", func() {
		r := expandedname.NewResolver()
		err := r.DefinePrefix("xml", expandedname.XMLNamespace)
		Expect(err).Should(BeNil())
	})

	Describe("ResolveName", func() {
		It("resolves unprefixed attribute names to the empty namespace", func() {
			r := expandedname.NewResolver()
			name, err := r.ResolveName("attr", true)
			Expect(err).Should(BeNil())
			Expect(name).Should(Equal(expandedname.Name{URI: "", Local: "attr"}))
		})

		It("resolves unprefixed element names using the default namespace", func() {
			r := expandedname.NewResolver()
			Expect(r.DefinePrefix("", "urn:default")).Should(BeNil())
			name, err := r.ResolveName("elem", false)
			Expect(err).Should(BeNil())
			Expect(name).Should(Equal(expandedname.Name{URI: "urn:default", Local: "elem"}))
		})

		It("resolves prefixed names through the current context", func() {
			r := expandedname.NewResolver()
			Expect(r.DefinePrefix("foo", "urn:x")).Should(BeNil())
			name, err := r.ResolveName("foo:bar", false)
			Expect(err).Should(BeNil())
			Expect(name).Should(Equal(expandedname.Name{URI: "urn:x", Local: "bar"}))
		})

		It("rejects two colons as malformed", func() {
			r := expandedname.NewResolver()
			_, err := r.ResolveName("a:b:c", false)
			Expect(err).ShouldNot(BeNil())
			Expect(err.Kind).Should(Equal(relaxng.ErrKindMalformedQName))
		})
	})

	Describe("EnterContext / LeaveContext", func() {
		It("nested contexts inherit outer bindings without mutating them", func() {
			r := expandedname.NewResolver()
			Expect(r.DefinePrefix("foo", "urn:outer")).Should(BeNil())

			r.EnterContext()
			Expect(r.DefinePrefix("foo", "urn:inner")).Should(BeNil())
			uri, _ := r.LookupURI("foo")
			Expect(uri).Should(Equal("urn:inner"))

			Expect(r.LeaveContext()).Should(BeNil())
			uri, _ = r.LookupURI("foo")
			Expect(uri).Should(Equal("urn:outer"))
		})

		It("refuses to pop the default context", func() {
			r := expandedname.NewResolver()
			Expect(r.LeaveContext()).ShouldNot(BeNil())
		})
	})

	Describe("round trip (§8 property 4)", func() {
		It("resolving an unresolved name yields the same (uri, local)", func() {
			r := expandedname.NewResolver()
			Expect(r.DefinePrefix("foo", "urn:x")).Should(BeNil())

			qname, ok := r.UnresolveName("urn:x", "bar")
			Expect(ok).Should(BeTrue())

			name, err := r.ResolveName(qname, false)
			Expect(err).Should(BeNil())
			Expect(name.URI).Should(Equal("urn:x"))
			Expect(name.Local).Should(Equal("bar"))
		})
	})
})
