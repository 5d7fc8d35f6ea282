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

package simplify_test

import (
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/datatype/xsd"
	"github.com/botobag/relaxng/resource"
	"github.com/botobag/relaxng/schema"
	"github.com/botobag/relaxng/simplify"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func mustParse(src string) *schema.Element {
	el, err := schema.Parse([]byte(src), "test://main.rng")
	Expect(err).Should(BeNil())
	return el
}

func newPipeline(loader resource.Loader) *simplify.Pipeline {
	registry := datatype.NewRegistry()
	registry.Register(xsd.Library())
	return simplify.NewPipeline(loader, registry, nil)
}

func findFirst(el *schema.Element, name string) *schema.Element {
	if el.Name == name {
		return el
	}
	for _, child := range el.ElementChildren() {
		if found := findFirst(child, name); found != nil {
			return found
		}
	}
	return nil
}

func countAll(el *schema.Element, name string) int {
	n := 0
	if el.Name == name {
		n++
	}
	for _, child := range el.ElementChildren() {
		n += countAll(child, name)
	}
	return n
}

// startPattern finds the grammar's <start> and returns its sole pattern child. A single pattern
// fed to RunTo with no enclosing <grammar> gets wrapped into one by step 10 on its way through,
// so tests built around a single pattern fragment have to dig the resulting pattern back out
// rather than assuming it's still the document root.
func startPattern(tree *schema.Element) *schema.Element {
	start := findFirst(tree, "start")
	Expect(start).ShouldNot(BeNil())
	children := start.ElementChildren()
	Expect(children).Should(HaveLen(1))
	return children[0]
}

var _ = Describe("step 4: name normalization", func() {
	It("rewrites a shorthand element name into an explicit name child", func() {
		tree := mustParse(`<element name="foo" xmlns="http://relaxng.org/ns/structure/1.0"><text/></element>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step4NormalizeNames)
		Expect(err).Should(BeNil())

		nameEl := findFirst(partial.Tree, "name")
		Expect(nameEl).ShouldNot(BeNil())
		Expect(nameEl.TextContent()).Should(Equal("foo"))
		_, hasShorthand := partial.Tree.Attr("name")
		Expect(hasShorthand).Should(BeFalse())
	})
})

var _ = Describe("step 14: convenience-form desugaring and n-ary binarization", func() {
	It("desugars optional into choice(empty, p)", func() {
		tree := mustParse(`
			<optional xmlns="http://relaxng.org/ns/structure/1.0">
				<attribute name="a"><text/></attribute>
			</optional>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step14Binarize)
		Expect(err).Should(BeNil())

		choice := startPattern(partial.Tree)
		Expect(choice.Name).Should(Equal("choice"))
		children := choice.ElementChildren()
		Expect(children).Should(HaveLen(2))
		Expect(children[0].Name).Should(Equal("empty"))
		Expect(children[1].Name).Should(Equal("attribute"))
	})

	It("right-folds an n-ary choice into binary choices", func() {
		tree := mustParse(`
			<choice xmlns="http://relaxng.org/ns/structure/1.0">
				<value>a</value>
				<value>b</value>
				<value>c</value>
			</choice>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step14Binarize)
		Expect(err).Should(BeNil())

		choice := startPattern(partial.Tree)
		Expect(choice.Name).Should(Equal("choice"))
		top := choice.ElementChildren()
		Expect(top).Should(HaveLen(2))
		Expect(top[0].Name).Should(Equal("value"))
		Expect(top[1].Name).Should(Equal("choice"))
	})
})

var _ = Describe("step 15/16: notAllowed and empty propagation", func() {
	It("collapses group(empty, p) to p", func() {
		tree := mustParse(`
			<group xmlns="http://relaxng.org/ns/structure/1.0">
				<empty/>
				<text/>
			</group>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step16PropagateEmpty)
		Expect(err).Should(BeNil())
		Expect(startPattern(partial.Tree).Name).Should(Equal("text"))
	})

	It("collapses an attribute wrapping notAllowed to notAllowed", func() {
		tree := mustParse(`
			<attribute xmlns="http://relaxng.org/ns/structure/1.0" name="a">
				<notAllowed/>
			</attribute>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step15PropagateNotAllowed)
		Expect(err).Should(BeNil())
		Expect(startPattern(partial.Tree).Name).Should(Equal("notAllowed"))
	})
})

var _ = Describe("step 17: choice ordering", func() {
	It("puts the empty branch first regardless of source order", func() {
		tree := mustParse(`
			<choice xmlns="http://relaxng.org/ns/structure/1.0">
				<text/>
				<empty/>
			</choice>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step17OrderChoices)
		Expect(err).Should(BeNil())
		children := startPattern(partial.Tree).ElementChildren()
		Expect(children[0].Name).Should(Equal("empty"))
		Expect(children[1].Name).Should(Equal("text"))
	})

	It("orders name-class choice branches by a stable key", func() {
		tree := mustParse(`
			<choice xmlns="http://relaxng.org/ns/structure/1.0">
				<name>b</name>
				<name>a</name>
			</choice>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step17OrderChoices)
		Expect(err).Should(BeNil())
		children := startPattern(partial.Tree).ElementChildren()
		Expect(children[0].TextContent()).Should(Equal("a"))
		Expect(children[1].TextContent()).Should(Equal("b"))
	})
})

var _ = Describe("step 18: datatype type-checking", func() {
	It("accepts a value that parses under its declared type", func() {
		tree := mustParse(`
			<value xmlns="http://relaxng.org/ns/structure/1.0"
			       datatypeLibrary="http://www.w3.org/2001/XMLSchema-datatypes" type="integer">42</value>`)
		p := newPipeline(nil)
		_, err := p.RunTo(tree, simplify.Step18TypeCheck)
		Expect(err).Should(BeNil())
	})

	It("fails fast on an unknown datatype", func() {
		tree := mustParse(`<data xmlns="http://relaxng.org/ns/structure/1.0" type="doesNotExist"/>`)
		p := newPipeline(nil)
		_, err := p.RunTo(tree, simplify.Step18TypeCheck)
		Expect(err).ShouldNot(BeNil())
	})
})

var _ = Describe("step 9/10: scoping and grammar flattening", func() {
	It("hoists a nested grammar's defines into the single top-level grammar", func() {
		tree := mustParse(`
			<grammar xmlns="http://relaxng.org/ns/structure/1.0">
				<start><ref name="root"/></start>
				<define name="root">
					<element name="doc">
						<grammar>
							<start><ref name="inner"/></start>
							<define name="inner"><text/></define>
						</grammar>
					</element>
				</define>
			</grammar>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step10FlattenGrammar)
		Expect(err).Should(BeNil())

		// No nested <grammar> should survive flattening.
		Expect(countAll(partial.Tree, "grammar")).Should(Equal(1))
		// The inner grammar's sole define should have been hoisted to the top level and renamed
		// to a scope-unique name by step 9, still reachable via a <define>.
		Expect(countAll(partial.Tree, "define")).Should(BeNumerically(">=", 2))
	})

	It("merges repeated same-scope defines with combine=\"choice\"", func() {
		tree := mustParse(`
			<grammar xmlns="http://relaxng.org/ns/structure/1.0">
				<start><ref name="root"/></start>
				<define name="root" combine="choice"><value>a</value></define>
				<define name="root" combine="choice"><value>b</value></define>
			</grammar>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step9ScopeDefines)
		Expect(err).Should(BeNil())

		defines := 0
		for _, child := range partial.Tree.ElementChildren() {
			if child.Name == "define" {
				defines++
				Expect(findFirst(child, "choice")).ShouldNot(BeNil())
			}
		}
		Expect(defines).Should(Equal(1))
	})

	It("merges a combine-less define with a later combine=\"choice\" counterpart", func() {
		tree := mustParse(`
			<grammar xmlns="http://relaxng.org/ns/structure/1.0">
				<start><ref name="root"/></start>
				<define name="root"><value>a</value></define>
				<define name="root" combine="choice"><value>b</value></define>
			</grammar>`)
		p := newPipeline(nil)
		partial, err := p.RunTo(tree, simplify.Step9ScopeDefines)
		Expect(err).Should(BeNil())

		defines := 0
		for _, child := range partial.Tree.ElementChildren() {
			if child.Name == "define" {
				defines++
				Expect(findFirst(child, "choice")).ShouldNot(BeNil())
			}
		}
		Expect(defines).Should(Equal(1))
	})

	It("fails when two repeated defines both omit combine", func() {
		tree := mustParse(`
			<grammar xmlns="http://relaxng.org/ns/structure/1.0">
				<start><ref name="root"/></start>
				<define name="root"><value>a</value></define>
				<define name="root"><value>b</value></define>
			</grammar>`)
		p := newPipeline(nil)
		_, err := p.RunTo(tree, simplify.Step9ScopeDefines)
		Expect(err).ShouldNot(BeNil())
	})
})
