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

// Package expandedname implements Relax NG's expanded names and the stackable namespace-prefix
// resolver (§4.C) that the top-level validator threads through enterContext/leaveContext/
// definePrefix pseudo-events while consuming a document.
package expandedname

import (
	"strings"

	"github.com/botobag/relaxng"
)

// XMLNamespace and XMLNSNamespace are the two namespaces every resolver context preloads, per
// §4.C.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Name is an immutable (namespace URI, local name) pair, the canonical identity of an XML element
// or attribute. Two Names compare equal with ==.
type Name struct {
	URI   string
	Local string
}

// context is one entry of the resolver's stack: an injective prefix→URI mapping plus its reverse
// URI→prefixes mapping, matching §4.C.
type context struct {
	prefixToURI map[string]string
	uriToPrefix map[string][]string
}

func newContext() *context {
	return &context{
		prefixToURI: map[string]string{},
		uriToPrefix: map[string][]string{},
	}
}

func (c *context) clone() *context {
	clone := newContext()
	for prefix, uri := range c.prefixToURI {
		clone.prefixToURI[prefix] = uri
	}
	for uri, prefixes := range c.uriToPrefix {
		clone.uriToPrefix[uri] = append([]string(nil), prefixes...)
	}
	return clone
}

func (c *context) define(prefix, uri string) {
	if old, ok := c.prefixToURI[prefix]; ok && old != uri {
		c.removePrefix(old, prefix)
	}
	c.prefixToURI[prefix] = uri
	c.uriToPrefix[uri] = append(c.uriToPrefix[uri], prefix)
}

func (c *context) removePrefix(uri, prefix string) {
	prefixes := c.uriToPrefix[uri]
	for i, p := range prefixes {
		if p == prefix {
			c.uriToPrefix[uri] = append(prefixes[:i], prefixes[i+1:]...)
			break
		}
	}
}

// Resolver is a single-thread-use stack of namespace-prefix contexts, as described in §4.C. The
// top of the stack is the current context; EnterContext pushes a clone of it (so nested scopes
// inherit outer bindings without mutating them), LeaveContext pops.
type Resolver struct {
	stack []*context
}

// NewResolver builds a Resolver with the default context preloaded with the reserved "xml" and
// "xmlns" bindings required by §4.C.
func NewResolver() *Resolver {
	root := newContext()
	root.define("xml", XMLNamespace)
	root.define("xmlns", XMLNSNamespace)
	return &Resolver{stack: []*context{root}}
}

func (r *Resolver) top() *context {
	return r.stack[len(r.stack)-1]
}

// EnterContext pushes a new scope that inherits the current bindings.
func (r *Resolver) EnterContext() {
	r.stack = append(r.stack, r.top().clone())
}

// LeaveContext pops the current scope. It fails (returns an *relaxng.Error of kind
// ErrKindInternal) if called when only the default context remains, since the default context may
// never be popped.
func (r *Resolver) LeaveContext() *relaxng.Error {
	if len(r.stack) <= 1 {
		return relaxng.NewError("cannot leave the default namespace context", relaxng.ErrKindInternal)
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// DefinePrefix binds prefix to uri in the current context. Defining "xmlns" is forbidden, and
// redefining "xml" to any URI other than the XML 1.0 namespace is forbidden, per §4.C.
func (r *Resolver) DefinePrefix(prefix, uri string) *relaxng.Error {
	if prefix == "xmlns" {
		return relaxng.NewError(`cannot redefine reserved prefix "xmlns"`, relaxng.ErrKindMalformedQName)
	}
	if prefix == "xml" && uri != XMLNamespace {
		return relaxng.NewError(`cannot redefine reserved prefix "xml" to a different namespace`, relaxng.ErrKindMalformedQName)
	}
	r.top().define(prefix, uri)
	return nil
}

// LookupURI returns the URI bound to prefix in the current context, or ("", false) if unbound.
func (r *Resolver) LookupURI(prefix string) (string, bool) {
	uri, ok := r.top().prefixToURI[prefix]
	return uri, ok
}

// LookupPrefixes returns every prefix currently bound to uri, in binding order.
func (r *Resolver) LookupPrefixes(uri string) []string {
	return append([]string(nil), r.top().uriToPrefix[uri]...)
}

// ResolveName splits qname on its single ':' and resolves the prefix half through the current
// context, per §4.C. Unprefixed attribute names resolve to the empty namespace; unprefixed
// non-attribute names use the default ("") prefix binding. Two colons is a MalformedQName.
func (r *Resolver) ResolveName(qname string, isAttribute bool) (Name, *relaxng.Error) {
	first := strings.IndexByte(qname, ':')
	if first < 0 {
		if isAttribute {
			return Name{URI: "", Local: qname}, nil
		}
		uri, _ := r.LookupURI("")
		return Name{URI: uri, Local: qname}, nil
	}

	rest := qname[first+1:]
	if strings.IndexByte(rest, ':') >= 0 {
		return Name{}, relaxng.NewError(
			"malformed QName: "+qname, relaxng.ErrKindMalformedQName)
	}

	prefix := qname[:first]
	uri, ok := r.LookupURI(prefix)
	if !ok {
		return Name{}, relaxng.NewError(
			"unbound namespace prefix: "+prefix, relaxng.ErrKindMalformedQName)
	}
	return Name{URI: uri, Local: rest}, nil
}

// UnresolveName picks a prefix currently bound to uri (any one, if several alias it) and joins it
// with local into a QName; used by §8 property 4's resolver round-trip check. It returns ("", false)
// if no prefix is bound to uri in the current context and uri is not the default namespace.
func (r *Resolver) UnresolveName(uri, local string) (string, bool) {
	if defaultURI, ok := r.LookupURI(""); ok && defaultURI == uri {
		return local, true
	}
	prefixes := r.LookupPrefixes(uri)
	if len(prefixes) == 0 {
		return "", false
	}
	return prefixes[0] + ":" + local, true
}
