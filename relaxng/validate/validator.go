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

// Package validate implements the top-level document validator (§4.I): the session object a
// caller feeds a stream of parse events (plus the enterContext/leaveContext/definePrefix
// pseudo-events that thread namespace bindings through) to check a document against a Grammar's
// pattern tree. It owns the one piece of state the walker engine (§4.H) deliberately has no
// notion of: namespace-prefix resolution, whitespace-text suspension, and misplaced-element
// recovery.
package validate

import (
	"fmt"
	"strings"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/event"
	"github.com/botobag/relaxng/expandedname"
	"github.com/botobag/relaxng/internal/util"
	"github.com/botobag/relaxng/nameclass"
	"github.com/botobag/relaxng/pattern"
	"github.com/botobag/relaxng/walker"
)

// Event is the parse event a caller fires at a Validator.
type Event = event.Event

// EventSet mirrors walker.EventSet so this package can name a Possible() result without importing
// walker just for its type alias.
type EventSet = event.Set

// misplacedFrame is one level of the recovery stack §4.I describes: when an enterStartTag isn't
// accepted anywhere in the live walker tree, the unexpected subtree is diverted here instead of
// being offered to the grammar's real walkers, so one bad tag produces one error instead of a
// cascade of NotMatched results from every enclosing pattern.
//
// sub is non-nil when exactly one element definition matches the unexpected tag's name: events
// are routed to a fresh walker for that definition (so the misplaced subtree is still validated
// against its own content model) until it reports its closing endTag. sub is nil when the tag
// name has zero or more than one matching definition: there's nothing sound to validate against,
// so only the nesting depth is tracked and events are swallowed until the tag closes.
type misplacedFrame struct {
	sub   walker.Walker
	depth int
}

// docContext resolves QName-valued datatypes (§4.B) against the validator's live namespace-prefix
// state, per §4.C: the bindings in scope at the moment the value's text is seen in the document,
// not whatever was in scope when the schema was compiled.
type docContext struct {
	resolver *expandedname.Resolver
}

func (c docContext) ResolveQName(qname string) (uri, local string, err *relaxng.Error) {
	idx := strings.IndexByte(qname, ':')
	if idx < 0 {
		uri, _ = c.resolver.LookupURI("")
		return uri, qname, nil
	}
	prefix, rest := qname[:idx], qname[idx+1:]
	uri, ok := c.resolver.LookupURI(prefix)
	if !ok {
		return "", "", relaxng.NewError(
			"unbound namespace prefix in QName value: "+prefix, relaxng.ErrKindMalformedQName)
	}
	return uri, rest, nil
}

// Validator drives a single document through a Grammar's pattern tree. It is not safe for
// concurrent use by multiple goroutines; per §5, each validating session owns its own Validator,
// resolver and walker tree, all derived from the one immutable, freely-shared Grammar.
type Validator struct {
	grammar  *pattern.Grammar
	resolver *expandedname.Resolver
	root     walker.Walker

	// pendingWhitespace holds a whitespace-only text event until either another event flushes it
	// or an enterStartTag discards it, per §4.I's whitespace-suspension rule.
	pendingWhitespace *string

	// lastWasText guards against firing two text events back to back with no intervening event;
	// a conformant event source always coalesces adjacent character data into a single event, so
	// this can only happen through caller misuse.
	lastWasText bool

	// suppressNextAttributeValue is set after an attributeName is rejected, so the attributeValue
	// that inevitably follows it (the caller doesn't know the name was bad) is silently dropped
	// instead of producing a second, confusing error.
	suppressNextAttributeValue bool

	// misplaced is the recovery stack for unexpected elements (§4.I). Events are routed to its top
	// frame instead of the real grammar while it is non-empty.
	misplaced []misplacedFrame
}

// New builds a Validator for g, starting at the document root.
func New(g *pattern.Grammar) *Validator {
	resolver := expandedname.NewResolver()
	v := &Validator{grammar: g, resolver: resolver}
	v.root = walker.New(g, g.Node(g.Root).Start, docContext{resolver})
	return v
}

// EnterContext, LeaveContext and DefinePrefix are the §4.C pseudo-events: they only mutate the
// validator's namespace-prefix resolver and never touch the walker tree.
func (v *Validator) EnterContext() { v.resolver.EnterContext() }

// LeaveContext pops the current namespace-prefix scope.
func (v *Validator) LeaveContext() *relaxng.Error { return v.resolver.LeaveContext() }

// DefinePrefix binds prefix to uri in the current namespace-prefix scope.
func (v *Validator) DefinePrefix(prefix, uri string) *relaxng.Error {
	return v.resolver.DefinePrefix(prefix, uri)
}

// Resolver exposes the validator's namespace-prefix resolver, so a caller parsing QName-shaped
// attribute values of its own (outside the schema's data/value machinery) can resolve them the
// same way the validator does.
func (v *Validator) Resolver() *expandedname.Resolver { return v.resolver }

// FireEvent feeds one parse event to the validator, applying whitespace suspension before
// dispatching to the live walker tree (or the recovery stack). The returned errors, if any, are
// non-fatal per §7: validation continues regardless of what FireEvent returns.
func (v *Validator) FireEvent(ev Event) []*relaxng.Error {
	if ev.Kind == event.Text {
		if v.lastWasText {
			return []*relaxng.Error{relaxng.NewError(
				"two consecutive text events fired with no intervening event; adjacent character "+
					"data must be coalesced into a single text event before calling FireEvent",
				relaxng.ErrKindAPIMisuse)}
		}
		v.lastWasText = true

		if strings.TrimSpace(ev.Text) == "" {
			text := ev.Text
			v.pendingWhitespace = &text
			return nil
		}
		return v.dispatch(ev)
	}

	v.lastWasText = false

	if ev.Kind == event.EnterStartTag {
		// A held whitespace run immediately followed by a new element's start tag was insignificant
		// inter-element indentation; discard it rather than feeding it to the grammar.
		v.pendingWhitespace = nil
		return v.dispatch(ev)
	}

	var errs []*relaxng.Error
	if v.pendingWhitespace != nil {
		text := *v.pendingWhitespace
		v.pendingWhitespace = nil
		// The held whitespace is fired first; where the content model has no place for text, the
		// root walker's NotMatched is absorbed rather than reported.
		if len(v.misplaced) > 0 {
			errs = append(errs, v.dispatch(event.NewText(text))...)
		} else if result := v.root.FireEvent(event.NewText(text)); result.HasErrors() {
			errs = append(errs, result.Errors...)
		}
	}
	errs = append(errs, v.dispatch(ev)...)
	return errs
}

// End signals end of document: the root walker must be in an accepting state. Any error is
// reported the same way document-validation errors always are (§7), non-fatal to the Validator
// itself.
func (v *Validator) End() []*relaxng.Error {
	if len(v.misplaced) > 0 {
		return []*relaxng.Error{relaxng.NewError(
			"document ended while still recovering from an unexpected element", relaxng.ErrKindValidationError)}
	}
	result := v.root.End(false)
	if result.HasErrors() {
		return result.Errors
	}
	return nil
}

// dispatch routes ev to the recovery stack if one is active, otherwise to the root walker,
// entering recovery mode on a top-level NotMatched.
func (v *Validator) dispatch(ev Event) []*relaxng.Error {
	if ev.Kind == event.AttributeValue && v.suppressNextAttributeValue {
		v.suppressNextAttributeValue = false
		return nil
	}

	if len(v.misplaced) > 0 {
		return v.dispatchRecovery(ev)
	}

	var expected []string
	if ev.Kind == event.EnterStartTag {
		expected = expectedElementNames(v.root.Possible())
	}

	result := v.root.FireEvent(ev)
	if result.IsNotMatched() {
		return v.enterRecovery(ev, expected)
	}
	if result.HasErrors() {
		return result.Errors
	}
	return nil
}

// expectedElementNames extracts the local names of every enterStartTag event in possible, the set
// a walker reports just before rejecting the tag that sent it into recovery. This is how scenario
// S3's "one ChoiceError listing the candidate names" gets produced here: a choice of elements
// returns NotMatched as soon as the offending tag fails every branch, well before any walker's End
// is called, so the choice.go End-time ChoiceError merge never runs for this case and the
// candidate list has to be read off Possible() instead. A wildcard entry ("*", from an anyName
// content model) contributes nothing countable, so it's dropped rather than listed as a name.
func expectedElementNames(possible *EventSet) []string {
	var names []string
	seen := map[string]bool{}
	for _, e := range possible.ToSlice() {
		if e.Kind != event.EnterStartTag || e.Name.Local == "*" {
			continue
		}
		if !seen[e.Name.Local] {
			seen[e.Name.Local] = true
			names = append(names, e.Name.Local)
		}
	}
	return names
}

// enterRecovery synthesizes the error for an event the real grammar rejected outright and, for an
// unexpected start tag, pushes a recovery frame so the misplaced subtree doesn't cascade further
// errors into the enclosing content. expected carries the candidate element names read off the
// walker's Possible() immediately before it rejected ev (§4.I, scenario S3); it is nil for events
// other than enterStartTag.
func (v *Validator) enterRecovery(ev Event, expected []string) []*relaxng.Error {
	switch ev.Kind {
	case event.EnterStartTag:
		message := fmt.Sprintf("element %q not allowed here", ev.Name.Local)
		args := []interface{}{relaxng.ErrKindElementNameError, []string{ev.Name.Local}}

		if len(expected) > 0 {
			var b util.StringBuilder
			b.WriteString(message)
			b.WriteString("; expected ")
			util.OrList(&b, expected, 5, true)
			message = b.String()
			args = append(args, relaxng.ErrorExtensions{"expected": expected})
		} else if suggestions := v.elementNameSuggestions(ev.Name.Local); len(suggestions) > 0 {
			var b util.StringBuilder
			b.WriteString(message)
			b.WriteString("; did you mean ")
			util.OrList(&b, suggestions, 5, true)
			b.WriteString("?")
			message = b.String()
			args = append(args, relaxng.ErrorExtensions{"suggestions": suggestions})
		}
		err := relaxng.NewError(message, args...)

		candidates := v.grammar.ElementsByName[nameclass.Name{NS: ev.Name.URI, Local: ev.Name.Local}]
		if len(candidates) == 1 {
			sub := walker.New(v.grammar, candidates[0], docContext{v.resolver})
			sub.FireEvent(ev)
			v.misplaced = append(v.misplaced, misplacedFrame{sub: sub})
		} else {
			v.misplaced = append(v.misplaced, misplacedFrame{depth: 1})
		}
		return []*relaxng.Error{err}

	case event.AttributeName:
		v.suppressNextAttributeValue = true
		return []*relaxng.Error{relaxng.NewError(
			"attribute not allowed here", relaxng.ErrKindAttributeNameError, []string{ev.Name.Local})}

	default:
		return []*relaxng.Error{relaxng.NewError("event not allowed here", relaxng.ErrKindValidationError)}
	}
}

// elementNameSuggestions returns the grammar's known element local names that are lexically close
// to local, for the "did you mean" hint on an ElementNameError. local itself (and any name more
// than half its own length away) is excluded, matching util.SuggestionList's own threshold.
func (v *Validator) elementNameSuggestions(local string) []string {
	names := make([]string, 0, len(v.grammar.ElementsByName))
	for name := range v.grammar.ElementsByName {
		if name.Local != local {
			names = append(names, name.Local)
		}
	}
	return util.SuggestionList(local, names)
}

// dispatchRecovery routes ev to the top recovery frame, popping it once its misplaced element's
// own matching endTag is seen.
func (v *Validator) dispatchRecovery(ev Event) []*relaxng.Error {
	top := &v.misplaced[len(v.misplaced)-1]

	if top.sub == nil {
		switch ev.Kind {
		case event.EnterStartTag:
			top.depth++
		case event.EndTag:
			top.depth--
			if top.depth == 0 {
				v.misplaced = v.misplaced[:len(v.misplaced)-1]
			}
		}
		return nil
	}

	result := top.sub.FireEvent(ev)
	var errs []*relaxng.Error
	if result.HasErrors() {
		errs = result.Errors
	}

	if ev.Kind == event.EndTag && top.sub.CanEnd(false) {
		if endResult := top.sub.End(false); endResult.HasErrors() {
			errs = append(errs, endResult.Errors...)
		}
		v.misplaced = v.misplaced[:len(v.misplaced)-1]
	}
	return errs
}
