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

package restrict_test

import (
	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/restrict"
	"github.com/botobag/relaxng/schema"
	"github.com/botobag/relaxng/simplify"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// simplifyToBinary runs src through the simplification pipeline far enough to produce the binary,
// canonically-ordered tree shape the restriction checker assumes (§4.E step 14 onward), without
// requiring step 18's datatype registration. A bare top-level pattern picks up an enclosing
// <grammar><start>...</start></grammar> along the way (step 10 wraps unconditionally), so every
// fixture below that cares about what sits directly under <start> spells that wrapping out
// explicitly rather than relying on it.
func simplifyToBinary(src string) *schema.Element {
	tree, err := schema.Parse([]byte(src), "test://main.rng")
	Expect(err).Should(BeNil())

	p := simplify.NewPipeline(nil, datatype.NewRegistry(), nil)
	partial, err := p.RunTo(tree, simplify.Step17OrderChoices)
	Expect(err).Should(BeNil())
	return partial.Tree
}

var _ = Describe("prohibited paths", func() {
	It("rejects an attribute nested inside another attribute", func() {
		tree := simplifyToBinary(`
			<element xmlns="http://relaxng.org/ns/structure/1.0" name="root">
				<attribute name="a">
					<attribute name="b"><text/></attribute>
				</attribute>
			</element>`)
		err := restrict.Check(tree)
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindProhibitedPath))
	})

	It("rejects oneOrMore wrapping a group containing an attribute", func() {
		tree := simplifyToBinary(`
			<element xmlns="http://relaxng.org/ns/structure/1.0" name="root">
				<oneOrMore>
					<group>
						<attribute name="a"><text/></attribute>
						<element name="e"><text/></element>
					</group>
				</oneOrMore>
			</element>`)
		err := restrict.Check(tree)
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindProhibitedPath))
	})

	It("allows oneOrMore wrapping a bare element with its own attribute", func() {
		tree := simplifyToBinary(`
			<element xmlns="http://relaxng.org/ns/structure/1.0" name="root">
				<oneOrMore>
					<element name="e">
						<attribute name="a"><text/></attribute>
					</element>
				</oneOrMore>
			</element>`)
		Expect(restrict.Check(tree)).Should(BeNil())
	})
})

var _ = Describe("name-class and interleave clashes", func() {
	It("rejects a group of two attributes sharing a name", func() {
		tree := simplifyToBinary(`
			<element xmlns="http://relaxng.org/ns/structure/1.0" name="root">
				<group>
					<attribute name="a"><text/></attribute>
					<attribute name="a"><value>x</value></attribute>
				</group>
			</element>`)
		err := restrict.Check(tree)
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindNameClassClash))
	})

	It("rejects an interleave of two text patterns", func() {
		tree := simplifyToBinary(`
			<element xmlns="http://relaxng.org/ns/structure/1.0" name="root">
				<interleave>
					<text/>
					<text/>
				</interleave>
			</element>`)
		err := restrict.Check(tree)
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindNameClassClash))
	})

	It("allows a group of two attributes with different names", func() {
		tree := simplifyToBinary(`
			<element xmlns="http://relaxng.org/ns/structure/1.0" name="root">
				<group>
					<attribute name="a"><text/></attribute>
					<attribute name="b"><text/></attribute>
				</group>
			</element>`)
		Expect(restrict.Check(tree)).Should(BeNil())
	})
})

var _ = Describe("string value constraint", func() {
	// These two fixtures keep the define under test out of <start>'s reach (an unreferenced
	// top-level <define>), since checkContentTypes inspects every collected define regardless of
	// reachability and a defined-but-unused name is enough to exercise it without also tripping
	// the path restrictions that a <start>-reachable bare <value>/<group> would hit first.
	It("rejects a define whose content type is none", func() {
		tree := simplifyToBinary(`
			<grammar xmlns="http://relaxng.org/ns/structure/1.0">
				<start><element name="doc"><text/></element></start>
				<define name="bad">
					<group>
						<value>a</value>
						<element name="x"><text/></element>
					</group>
				</define>
			</grammar>`)
		err := restrict.Check(tree)
		Expect(err).ShouldNot(BeNil())
		Expect(err.Kind).Should(Equal(relaxng.ErrKindStringValueConstraint))
	})

	It("allows a define whose content type is simple", func() {
		tree := simplifyToBinary(`
			<grammar xmlns="http://relaxng.org/ns/structure/1.0">
				<start><element name="doc"><text/></element></start>
				<define name="root"><value>a</value></define>
			</grammar>`)
		Expect(restrict.Check(tree)).Should(BeNil())
	})
})
