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

package datatype_test

import (
	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/datatype/xsd"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("builtin library", func() {
	lib := datatype.BuiltinLibrary()

	It("exposes string and token", func() {
		_, ok := lib.Type("string")
		Expect(ok).Should(BeTrue())
		_, ok = lib.Type("token")
		Expect(ok).Should(BeTrue())
	})

	It("string preserves whitespace, token collapses it", func() {
		str, _ := lib.Type("string")
		v, err := str.ParseValue("/schema", "  a  b  ", nil)
		Expect(err).Should(BeNil())
		Expect(v).Should(Equal("  a  b  "))

		tok, _ := lib.Type("token")
		v, err = tok.ParseValue("/schema", "  a  b  ", nil)
		Expect(err).Should(BeNil())
		Expect(v).Should(Equal("a b"))
	})

	It("rejects parameters on either built-in type", func() {
		tok, _ := lib.Type("token")
		_, err := tok.ParseParams("/schema", []datatype.Param{{Name: "pattern", Value: "x"}})
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindParameterError))
	})
})

var _ = Describe("Registry", func() {
	It("resolves the built-in library by the empty URI", func() {
		r := datatype.NewRegistry()
		_, err := r.Lookup("", "token", "/schema")
		Expect(err).Should(BeNil())
	})

	It("reports UnknownDatatypeLibrary for an unregistered URI", func() {
		r := datatype.NewRegistry()
		_, err := r.Lookup("urn:nope", "token", "/schema")
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindUnknownDatatypeLibrary))
	})

	It("reports UnknownDatatype for an unrecognized name within a known library", func() {
		r := datatype.NewRegistry()
		r.Register(xsd.Library())
		_, err := r.Lookup(xsd.URI, "doesNotExist", "/schema")
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindUnknownDatatype))
	})

	It("resolves an xsd type once the library is registered", func() {
		r := datatype.NewRegistry()
		r.Register(xsd.Library())
		_, err := r.Lookup(xsd.URI, "integer", "/schema")
		Expect(err).Should(BeNil())
	})
})
