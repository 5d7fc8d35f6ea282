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

package simplify

import (
	"strings"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/schema"
)

// step18TypeCheck implements §4.E step 18: it resolves every value/data element's datatype
// against p.Registry, rewrites a value element whose type needs a QName context (step 18's
// groundwork for pattern.Build's qnameContext, which assumes this already happened) so its text
// is a bare local name and its ns attribute names the resolved target namespace, then eagerly
// parses every value/param against its type. Running this during simplification rather than
// leaving it to pattern.Build surfaces datatype errors even for callers who only ask the pipeline
// to simplify a schema without building a pattern tree from it.
func (p *Pipeline) step18TypeCheck(root *schema.Element) *relaxng.Error {
	return typeCheck(root, p.Registry, p)
}

func typeCheck(el *schema.Element, registry *datatype.Registry, p *Pipeline) *relaxng.Error {
	switch el.Name {
	case "value":
		if err := typeCheckValue(el, registry, p); err != nil {
			return err
		}
	case "data":
		if err := typeCheckData(el, registry, p); err != nil {
			return err
		}
	}
	for _, child := range el.ElementChildren() {
		if err := typeCheck(child, registry, p); err != nil {
			return err
		}
	}
	return nil
}

func typeCheckValue(el *schema.Element, registry *datatype.Registry, p *Pipeline) *relaxng.Error {
	libURI, _ := el.Attr("datatypeLibrary")
	typeName, hasType := el.Attr("type")
	if !hasType {
		typeName, libURI = "token", ""
	}

	t, err := registry.Lookup(libURI, typeName, schema.Path(el))
	if err != nil {
		return err
	}

	if warnOnEntityUsage(typeName) {
		p.warn(schema.Path(el) + " uses the ENTITY/ENTITIES datatype, which has no meaning outside a DTD-validated document")
	}

	var ctx datatype.Context
	if t.NeedsContext() {
		if err := rewriteQNameValue(el); err != nil {
			return err
		}
	}

	text := el.TextContent()
	ns, _ := el.Attr("ns")
	if t.NeedsContext() {
		ctx = qnameContext{ns: ns}
	}
	if _, err := t.ParseValue(schema.Path(el), text, ctx); err != nil {
		return err
	}
	return nil
}

func typeCheckData(el *schema.Element, registry *datatype.Registry, p *Pipeline) *relaxng.Error {
	libURI, _ := el.Attr("datatypeLibrary")
	typeName, _ := el.Attr("type")

	t, err := registry.Lookup(libURI, typeName, schema.Path(el))
	if err != nil {
		return err
	}

	if warnOnEntityUsage(typeName) {
		p.warn(schema.Path(el) + " uses the ENTITY/ENTITIES datatype, which has no meaning outside a DTD-validated document")
	}

	var params []datatype.Param
	for _, child := range el.ElementChildren() {
		if child.Name == "param" {
			name, _ := child.Attr("name")
			params = append(params, datatype.Param{Name: name, Value: child.TextContent()})
		}
	}
	if _, err := t.ParseParams(schema.Path(el), params); err != nil {
		return err
	}
	return nil
}

func warnOnEntityUsage(typeName string) bool {
	return typeName == "ENTITY" || typeName == "ENTITIES"
}

// qnameContext mirrors pattern.Build's own qnameContext: by the time this runs, rewriteQNameValue
// has already resolved any prefix, so resolution is just handing back the value's own ns attribute.
type qnameContext struct {
	ns string
}

func (c qnameContext) ResolveQName(qname string) (uri, local string, err *relaxng.Error) {
	return c.ns, qname, nil
}

// rewriteQNameValue resolves a QName-valued value element's (possibly prefixed) text against the
// element's own namespace-binding snapshot, replacing the text with the bare local name and
// setting ns to the resolved target namespace, overriding whatever inherited default step 4 set.
func rewriteQNameValue(el *schema.Element) *relaxng.Error {
	text := strings.TrimSpace(el.TextContent())
	var uri, local string
	if idx := strings.IndexByte(text, ':'); idx >= 0 {
		prefix := text[:idx]
		local = text[idx+1:]
		resolved, ok := el.Resolve(prefix)
		if !ok {
			return relaxng.NewError(
				"unbound namespace prefix in QName value: "+prefix, relaxng.ErrKindMalformedQName)
		}
		uri = resolved
	} else {
		local = text
		uri, _ = el.Resolve("")
	}

	el.SetAttr("ns", uri)
	el.Children = nil
	el.AppendChild(&schema.Text{Value: local})
	return nil
}
