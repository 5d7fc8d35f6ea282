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

package validate_test

import (
	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/event"
	"github.com/botobag/relaxng/pattern"
	"github.com/botobag/relaxng/schema"
	"github.com/botobag/relaxng/simplify"
	"github.com/botobag/relaxng/validate"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// buildGrammar runs src all the way through simplification and pattern construction, the same
// path relaxng.Compile takes, so these tests drive a Validator against exactly the kind of Grammar
// it's built to consume.
func buildGrammar(src string) *pattern.Grammar {
	tree, err := schema.Parse([]byte(src), "test://main.rng")
	Expect(err).Should(BeNil())

	registry := datatype.NewRegistry()
	p := simplify.NewPipeline(nil, registry, nil)
	partial, err := p.RunTo(tree, simplify.Step18TypeCheck)
	Expect(err).Should(BeNil())

	g, err := pattern.Build(partial.Tree, registry)
	Expect(err).Should(BeNil())
	return g
}

func noErrors(errs []*relaxng.Error) {
	ExpectWithOffset(1, errs).Should(BeEmpty())
}

var _ = Describe("well-formed documents", func() {
	It("validates a matching element/text structure with no errors", func() {
		g := buildGrammar(`
			<element xmlns="http://relaxng.org/ns/structure/1.0" name="root">
				<element name="child"><text/></element>
			</element>`)
		v := validate.New(g)

		v.EnterContext()
		noErrors(v.FireEvent(event.NewEnterStartTag("", "root")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		// Insignificant whitespace between the start tag and the child's start tag is suspended,
		// then discarded once the child's enterStartTag arrives.
		noErrors(v.FireEvent(event.NewText("\n  ")))
		noErrors(v.FireEvent(event.NewEnterStartTag("", "child")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		noErrors(v.FireEvent(event.NewText("hello")))
		noErrors(v.FireEvent(event.NewEndTag("", "child")))
		noErrors(v.FireEvent(event.NewText("\n")))
		noErrors(v.FireEvent(event.NewEndTag("", "root")))
		Expect(v.End()).Should(BeEmpty())
		Expect(v.LeaveContext()).Should(BeNil())
	})
})

var _ = Describe("text event misuse", func() {
	It("fails with ErrKindAPIMisuse on two consecutive text events", func() {
		g := buildGrammar(`<element xmlns="http://relaxng.org/ns/structure/1.0" name="root"><text/></element>`)
		v := validate.New(g)

		v.EnterContext()
		noErrors(v.FireEvent(event.NewEnterStartTag("", "root")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		noErrors(v.FireEvent(event.NewText("hello")))

		errs := v.FireEvent(event.NewText("world"))
		Expect(errs).Should(HaveLen(1))
		Expect(errs[0].Kind).Should(Equal(relaxng.ErrKindAPIMisuse))
	})
})

var _ = Describe("attribute name rejection", func() {
	It("reports an AttributeNameError and suppresses the following attribute value", func() {
		g := buildGrammar(`<element xmlns="http://relaxng.org/ns/structure/1.0" name="root"><text/></element>`)
		v := validate.New(g)

		v.EnterContext()
		noErrors(v.FireEvent(event.NewEnterStartTag("", "root")))

		errs := v.FireEvent(event.NewAttributeName("", "bogus"))
		Expect(errs).Should(HaveLen(1))
		Expect(errs[0].Kind).Should(Equal(relaxng.ErrKindAttributeNameError))

		// The value that inevitably follows the rejected name is dropped silently rather than
		// producing a second error.
		Expect(v.FireEvent(event.NewAttributeValue("oops"))).Should(BeEmpty())

		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		noErrors(v.FireEvent(event.NewText("hello")))
		noErrors(v.FireEvent(event.NewEndTag("", "root")))
		Expect(v.End()).Should(BeEmpty())
	})
})

var _ = Describe("misplaced element recovery", func() {
	const src = `
		<grammar xmlns="http://relaxng.org/ns/structure/1.0">
			<start>
				<element name="root">
					<element name="expected"><text/></element>
				</element>
			</start>
			<define name="oneCandidate">
				<element name="other"><text/></element>
			</define>
			<define name="twoCandidatesA">
				<element name="dup"><text/></element>
			</define>
			<define name="twoCandidatesB">
				<element name="dup"><text/></element>
			</define>
		</grammar>`

	It("routes a single-candidate unexpected element to a substitute walker", func() {
		g := buildGrammar(src)
		v := validate.New(g)

		v.EnterContext()
		noErrors(v.FireEvent(event.NewEnterStartTag("", "root")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))

		errs := v.FireEvent(event.NewEnterStartTag("", "other"))
		Expect(errs).Should(HaveLen(1))
		Expect(errs[0].Kind).Should(Equal(relaxng.ErrKindElementNameError))

		// The substitute walker still validates "other"'s own content model: its sole child is
		// <text/>, so a matching value and closing tag recover cleanly with no further errors.
		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		noErrors(v.FireEvent(event.NewText("stray")))
		noErrors(v.FireEvent(event.NewEndTag("", "other")))

		// Recovery is over; "expected" is still required and still honored by the real grammar.
		noErrors(v.FireEvent(event.NewEnterStartTag("", "expected")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		noErrors(v.FireEvent(event.NewText("hi")))
		noErrors(v.FireEvent(event.NewEndTag("", "expected")))
		noErrors(v.FireEvent(event.NewEndTag("", "root")))
		Expect(v.End()).Should(BeEmpty())
	})

	It("falls back to depth tracking when an unexpected name has more than one candidate", func() {
		g := buildGrammar(src)
		v := validate.New(g)

		v.EnterContext()
		noErrors(v.FireEvent(event.NewEnterStartTag("", "root")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))

		errs := v.FireEvent(event.NewEnterStartTag("", "dup"))
		Expect(errs).Should(HaveLen(1))
		Expect(errs[0].Kind).Should(Equal(relaxng.ErrKindElementNameError))

		// A same-named nested tag bumps the swallowed depth rather than being treated as the close.
		noErrors(v.FireEvent(event.NewEnterStartTag("", "dup")))
		noErrors(v.FireEvent(event.NewEndTag("", "dup")))
		noErrors(v.FireEvent(event.NewEndTag("", "dup")))

		noErrors(v.FireEvent(event.NewEnterStartTag("", "expected")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		noErrors(v.FireEvent(event.NewText("hi")))
		noErrors(v.FireEvent(event.NewEndTag("", "expected")))
		noErrors(v.FireEvent(event.NewEndTag("", "root")))
		Expect(v.End()).Should(BeEmpty())
	})

	It("falls back to depth tracking when an unexpected name has zero candidates", func() {
		g := buildGrammar(src)
		v := validate.New(g)

		v.EnterContext()
		noErrors(v.FireEvent(event.NewEnterStartTag("", "root")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))

		errs := v.FireEvent(event.NewEnterStartTag("", "nowhere"))
		Expect(errs).Should(HaveLen(1))
		Expect(errs[0].Kind).Should(Equal(relaxng.ErrKindElementNameError))
		noErrors(v.FireEvent(event.NewEndTag("", "nowhere")))

		noErrors(v.FireEvent(event.NewEnterStartTag("", "expected")))
		noErrors(v.FireEvent(event.NewLeaveStartTag()))
		noErrors(v.FireEvent(event.NewText("hi")))
		noErrors(v.FireEvent(event.NewEndTag("", "expected")))
		noErrors(v.FireEvent(event.NewEndTag("", "root")))
		Expect(v.End()).Should(BeEmpty())
	})
})
