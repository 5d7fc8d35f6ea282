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

package pattern

import (
	"fmt"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/nameclass"
	"github.com/botobag/relaxng/schema"
)

// builder accumulates arena nodes while Build walks a simplified schema tree.
type builder struct {
	registry *datatype.Registry
	nodes    []Node
}

func (b *builder) alloc(n Node) ID {
	id := ID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	return id
}

// Build converts a simplified, restriction-checked schema tree (§4.E/§4.F's output) into an
// immutable Grammar, per §4.G: one downward traversal emits one pattern node per element,
// resolves every Ref to its Define, and records the namespace/element-name indexes the top-level
// validator's recovery mode and diagnostics consult.
func Build(root *schema.Element, registry *datatype.Registry) (*Grammar, *relaxng.Error) {
	if root == nil || root.Name != "grammar" {
		return nil, relaxng.NewError("pattern.Build requires a top-level <grammar> element",
			relaxng.ErrKindInternal)
	}

	b := &builder{registry: registry}

	defineIDs := map[string]ID{}
	var defineElems []*schema.Element
	var startElem *schema.Element

	for _, child := range root.ElementChildren() {
		switch child.Name {
		case "define":
			name, _ := child.Attr("name")
			id := b.alloc(Node{Kind: KindDefine, Name: name, Child: NoID})
			defineIDs[name] = id
			defineElems = append(defineElems, child)
		case "start":
			startElem = child
		}
	}

	grammarID := b.alloc(Node{Kind: KindGrammar, Defines: defineIDs})

	for _, child := range defineElems {
		body := child.ElementChildren()
		if len(body) != 1 {
			return nil, relaxng.NewError(
				fmt.Sprintf("define %q must have exactly one child pattern after simplification",
					child.Name), relaxng.ErrKindInternal)
		}
		childID, err := b.buildPattern(body[0], defineIDs)
		if err != nil {
			return nil, err
		}
		name, _ := child.Attr("name")
		b.nodes[defineIDs[name]].Child = childID
	}

	if startElem == nil {
		return nil, relaxng.NewError("grammar has no <start>", relaxng.ErrKindInternal)
	}
	startBody := startElem.ElementChildren()
	if len(startBody) != 1 {
		return nil, relaxng.NewError("start must have exactly one child pattern after simplification",
			relaxng.ErrKindInternal)
	}
	startID, err := b.buildPattern(startBody[0], defineIDs)
	if err != nil {
		return nil, err
	}
	b.nodes[grammarID].Start = startID

	g := &Grammar{nodes: b.nodes, Root: grammarID}
	g.Namespaces, g.ElementsByName, g.WhollyContextIndependent = indexGrammar(g)
	return g, nil
}

// buildPattern dispatches on el.Name to build the corresponding pattern.Node, recursing into
// children as each variant's arity requires (§3's pattern-node table).
func (b *builder) buildPattern(el *schema.Element, defineIDs map[string]ID) (ID, *relaxng.Error) {
	switch el.Name {
	case "empty":
		return b.alloc(Node{Kind: KindEmpty}), nil

	case "notAllowed":
		return b.alloc(Node{Kind: KindNotAllowed}), nil

	case "text":
		return b.alloc(Node{Kind: KindText}), nil

	case "ref":
		name, _ := el.Attr("name")
		target, ok := defineIDs[name]
		if !ok {
			return NoID, relaxng.NewError(
				fmt.Sprintf("ref to undefined pattern %q at %s", name, schema.Path(el)),
				relaxng.ErrKindRefError)
		}
		return b.alloc(Node{Kind: KindRef, Name: name, Target: target}), nil

	case "list", "oneOrMore":
		kind := KindList
		if el.Name == "oneOrMore" {
			kind = KindOneOrMore
		}
		children := el.ElementChildren()
		if len(children) != 1 {
			return NoID, relaxng.NewError(
				fmt.Sprintf("%s must be unary after simplification at %s", el.Name, schema.Path(el)),
				relaxng.ErrKindInternal)
		}
		childID, err := b.buildPattern(children[0], defineIDs)
		if err != nil {
			return NoID, err
		}
		return b.alloc(Node{Kind: kind, Child: childID}), nil

	case "attribute", "element":
		kind := KindAttribute
		if el.Name == "element" {
			kind = KindElement
		}
		children := el.ElementChildren()
		if len(children) != 2 {
			return NoID, relaxng.NewError(
				fmt.Sprintf("%s must have a name class and a body after simplification at %s",
					el.Name, schema.Path(el)), relaxng.ErrKindInternal)
		}
		nc, err := buildNameClass(children[0])
		if err != nil {
			return NoID, err
		}
		childID, err := b.buildPattern(children[1], defineIDs)
		if err != nil {
			return NoID, err
		}
		return b.alloc(Node{Kind: kind, NameClass: nc, Child: childID}), nil

	case "choice", "group", "interleave":
		var kind Kind
		switch el.Name {
		case "choice":
			kind = KindChoice
		case "group":
			kind = KindGroup
		case "interleave":
			kind = KindInterleave
		}
		children := el.ElementChildren()
		if len(children) != 2 {
			return NoID, relaxng.NewError(
				fmt.Sprintf("%s must be binary after simplification at %s", el.Name, schema.Path(el)),
				relaxng.ErrKindInternal)
		}
		aID, err := b.buildPattern(children[0], defineIDs)
		if err != nil {
			return NoID, err
		}
		bID, err := b.buildPattern(children[1], defineIDs)
		if err != nil {
			return NoID, err
		}
		return b.alloc(Node{Kind: kind, A: aID, B: bID}), nil

	case "value":
		return b.buildValue(el)

	case "data":
		return b.buildData(el, defineIDs)

	default:
		return NoID, relaxng.NewError(
			fmt.Sprintf("unexpected element %q in simplified schema at %s", el.Name, schema.Path(el)),
			relaxng.ErrKindInternal)
	}
}

func (b *builder) buildValue(el *schema.Element) (ID, *relaxng.Error) {
	libURI, _ := el.Attr("datatypeLibrary")
	typeName, hasType := el.Attr("type")
	if !hasType {
		typeName = "token"
		libURI = ""
	}
	ns, _ := el.Attr("ns")

	t, err := b.registry.Lookup(libURI, typeName, schema.Path(el))
	if err != nil {
		return NoID, err
	}

	text := el.TextContent()
	var ctx datatype.Context
	if t.NeedsContext() {
		ctx = qnameContext{ns: ns}
	}
	parsed, verr := t.ParseValue(schema.Path(el), text, ctx)
	if verr != nil {
		return NoID, verr
	}

	return b.alloc(Node{
		Kind:        KindValue,
		Value:       text,
		NS:          ns,
		LibraryURI:  libURI,
		TypeName:    typeName,
		Type:        t,
		ParsedValue: parsed,
	}), nil
}

func (b *builder) buildData(el *schema.Element, defineIDs map[string]ID) (ID, *relaxng.Error) {
	libURI, _ := el.Attr("datatypeLibrary")
	typeName, _ := el.Attr("type")

	t, err := b.registry.Lookup(libURI, typeName, schema.Path(el))
	if err != nil {
		return NoID, err
	}

	var params []datatype.Param
	var exceptElem *schema.Element
	for _, child := range el.ElementChildren() {
		switch child.Name {
		case "param":
			name, _ := child.Attr("name")
			params = append(params, datatype.Param{Name: name, Value: child.TextContent()})
		case "except":
			exceptElem = child
		}
	}

	parsedParams, perr := t.ParseParams(schema.Path(el), params)
	if perr != nil {
		return NoID, perr
	}

	exceptID := NoID
	if exceptElem != nil {
		body := exceptElem.ElementChildren()
		if len(body) != 1 {
			return NoID, relaxng.NewError(
				fmt.Sprintf("data/except must be unary after simplification at %s", schema.Path(el)),
				relaxng.ErrKindInternal)
		}
		exceptID, err = b.buildPattern(body[0], defineIDs)
		if err != nil {
			return NoID, err
		}
	}

	return b.alloc(Node{
		Kind:       KindData,
		LibraryURI: libURI,
		TypeName:   typeName,
		Type:       t,
		Params:     parsedParams,
		Except:     exceptID,
	}), nil
}

// NameClass builds the nameclass.Class a simplified schema's name/nsName/anyName/choice element
// denotes. Exported for the restriction checker (§4.F), which needs name-class intersection tests
// before pattern.Build ever runs.
func NameClass(el *schema.Element) (nameclass.Class, *relaxng.Error) {
	return buildNameClass(el)
}

// buildNameClass converts a name-class element ("name", "nsName", "anyName" or name-class
// "choice") into a nameclass.Class, per §4.A.
func buildNameClass(el *schema.Element) (nameclass.Class, *relaxng.Error) {
	switch el.Name {
	case "name":
		ns, _ := el.Attr("ns")
		return nameclass.Name{NS: ns, Local: el.TextContent()}, nil

	case "anyName":
		except, err := buildExceptNameClass(el)
		if err != nil {
			return nil, err
		}
		return nameclass.AnyName{Except: except}, nil

	case "nsName":
		ns, _ := el.Attr("ns")
		except, err := buildExceptNameClass(el)
		if err != nil {
			return nil, err
		}
		return nameclass.NsName{NS: ns, Except: except}, nil

	case "choice":
		children := el.ElementChildren()
		if len(children) != 2 {
			return nil, relaxng.NewError(
				fmt.Sprintf("name-class choice must be binary after simplification at %s", schema.Path(el)),
				relaxng.ErrKindInvalidNameClass)
		}
		a, err := buildNameClass(children[0])
		if err != nil {
			return nil, err
		}
		bc, err := buildNameClass(children[1])
		if err != nil {
			return nil, err
		}
		return nameclass.Choice{A: a, B: bc}, nil

	default:
		return nil, relaxng.NewError(
			fmt.Sprintf("unexpected name-class element %q at %s", el.Name, schema.Path(el)),
			relaxng.ErrKindInvalidNameClass)
	}
}

func buildExceptNameClass(el *schema.Element) (nameclass.Class, *relaxng.Error) {
	for _, child := range el.ElementChildren() {
		if child.Name == "except" {
			body := child.ElementChildren()
			if len(body) != 1 {
				return nil, relaxng.NewError(
					fmt.Sprintf("name-class except must have one child at %s", schema.Path(child)),
					relaxng.ErrKindInvalidNameClass)
			}
			return buildNameClass(body[0])
		}
	}
	return nil, nil
}

// qnameContext resolves a QName lexical value that step 18 has already rewritten: the value
// element's ns attribute carries the target namespace URI directly and the text is the bare local
// name, so no prefix lookup is needed at pattern-build time (§6, §8 scenario S5).
type qnameContext struct {
	ns string
}

func (c qnameContext) ResolveQName(qname string) (uri, local string, err *relaxng.Error) {
	return c.ns, qname, nil
}

// indexGrammar computes Namespaces, ElementsByName and WhollyContextIndependent for g by walking
// every reachable Element pattern once.
func indexGrammar(g *Grammar) (map[string]bool, map[nameclass.Name][]ID, bool) {
	namespaces := map[string]bool{}
	byName := map[nameclass.Name][]ID{}
	visited := map[ID]bool{}

	var visit func(id ID)
	visit = func(id ID) {
		if id == NoID || visited[id] {
			return
		}
		visited[id] = true
		n := g.Node(id)
		switch n.Kind {
		case KindElement:
			for ns := range nameclass.GetNamespaces(n.NameClass) {
				namespaces[ns] = true
			}
			if names, ok := n.NameClass.ToArray(); ok {
				for _, name := range names {
					byName[name] = append(byName[name], id)
				}
			}
			visit(n.Child)
		case KindAttribute:
			for ns := range nameclass.GetNamespaces(n.NameClass) {
				namespaces[ns] = true
			}
			visit(n.Child)
		case KindDefine, KindList, KindOneOrMore:
			visit(n.Child)
		case KindChoice, KindGroup, KindInterleave:
			visit(n.A)
			visit(n.B)
		case KindData:
			visit(n.Except)
		case KindRef:
			visit(n.Target)
		}
	}

	visit(g.Node(g.Root).Start)
	for _, id := range g.Defines() {
		visit(id)
	}

	wholly := true
	for _, ids := range byName {
		if len(ids) != 1 {
			wholly = false
			break
		}
	}

	return namespaces, byName, wholly
}
