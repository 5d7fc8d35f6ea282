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

// Package pattern implements the canonical in-memory schema of §4.G/§3: a tree (with cycles
// mediated through Ref/Define) of typed pattern nodes built once from a simplified schema tree
// and then walked, read-only, by relaxng/walker for the lifetime of however many validation
// sessions share it.
//
// Per the Design Notes in spec.md §9 ("deeply recursive, sometimes cyclic pattern graph...
// represent the grammar as an arena of pattern nodes indexed by small integers"), the tree is
// stored as a flat Node slice inside a Grammar and addressed by ID, so a Ref can point at a
// Define that contains (directly or transitively) a Ref back to itself without Go's recursive
// struct ownership making that a cycle of *Node pointers.
package pattern

import "github.com/botobag/relaxng/nameclass"

// Kind enumerates the pattern node variants of §3's pattern-node table.
type Kind uint8

// Enumeration of Kind, one entry per simplified-grammar pattern class.
const (
	KindEmpty Kind = iota
	KindNotAllowed
	KindText
	KindRef
	KindDefine
	KindValue
	KindData
	KindList
	KindOneOrMore
	KindAttribute
	KindElement
	KindChoice
	KindGroup
	KindInterleave
	KindGrammar
)

var kindNames = [...]string{
	KindEmpty:      "empty",
	KindNotAllowed: "notAllowed",
	KindText:       "text",
	KindRef:        "ref",
	KindDefine:     "define",
	KindValue:      "value",
	KindData:       "data",
	KindList:       "list",
	KindOneOrMore:  "oneOrMore",
	KindAttribute:  "attribute",
	KindElement:    "element",
	KindChoice:     "choice",
	KindGroup:      "group",
	KindInterleave: "interleave",
	KindGrammar:    "grammar",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ID addresses a Node within a Grammar's arena. NoID (-1) means "absent" (e.g. a Data node with no
// except, or a Define not yet resolved); the zero value 0 is the first arena slot.
type ID int32

// NoID is the sentinel ID meaning "no node".
const NoID ID = -1

// Node is one arena slot. Only the fields relevant to Kind are meaningful; see §3's pattern-node
// table for the arity of each variant.
type Node struct {
	Kind Kind

	// Child is the single child of List/OneOrMore/Attribute/Element/Define. It is unused for other
	// kinds; a Data node's except pattern is in Except.
	Child ID

	// A, B are the two children of Choice/Group/Interleave.
	A, B ID

	// Except is the nested pattern of a Data node's <except>, or NoID if absent.
	Except ID

	// NameClass is populated for Attribute and Element.
	NameClass nameclass.Class

	// Name is the (globally unique, post step-9) define name for Define, or the referenced name for
	// Ref prior to resolution.
	Name string

	// Target is the Define this Ref resolves to, set during Build; NoID until resolved.
	Target ID

	// LibraryURI/TypeName/Params/Type name the datatype for Value/Data nodes. Type is the resolved
	// datatype.Type, stored as interface{}; walker does the type assertion it needs. Params is the
	// opaque value ParseParams returned.
	LibraryURI string
	TypeName   string
	Type       interface{}
	Params     interface{}

	// Value/NS hold a Value node's lexical text and (for QName/NOTATION, after step 18's rewrite)
	// the namespace URI the local name resolves into; ParsedValue is the typed value from
	// ParseValue, ready for Type.Equal.
	Value       string
	NS          string
	ParsedValue interface{}

	// Start is the Grammar's start pattern.
	Start ID

	// Defines maps every top-level define name to its Define node, for Ref resolution and for the
	// "by-name index of top-level element definitions" §4.G asks for.
	Defines map[string]ID
}

// Grammar is the immutable, arena-backed pattern tree built by Build. It is safe to share across
// threads and across concurrently running validation sessions (§5): nothing in a Grammar is ever
// mutated after Build returns.
type Grammar struct {
	nodes []Node

	// Root is the top-level Grammar node's ID (always KindGrammar).
	Root ID

	// Namespaces is the set of namespaces referenced anywhere in the grammar's element/attribute
	// name classes, for diagnostic use.
	Namespaces map[string]bool

	// ElementsByName indexes every Element pattern whose name class is Simple (a Name or a choice of
	// Names) under each expanded name the class lists, so the top-level validator's recovery mode
	// (§4.I) can look up "is there exactly one element definition with this tag name" in O(1).
	ElementsByName map[nameclass.Name][]ID

	// WhollyContextIndependent is true when every entry of ElementsByName maps to exactly one
	// pattern, i.e. an element's tag name alone determines which pattern governs it regardless of
	// where in the document it appears (§4.G).
	WhollyContextIndependent bool
}

// Node returns the node at id. Callers must not retain pointers into the arena across a Grammar's
// lifetime assumptions other than "the Grammar outlives it" (§4.G: "the pattern tree outlives all
// walkers derived from it").
func (g *Grammar) Node(id ID) *Node {
	return &g.nodes[id]
}

// Defines returns the grammar root's name -> Define-ID map.
func (g *Grammar) Defines() map[string]ID {
	return g.Node(g.Root).Defines
}
