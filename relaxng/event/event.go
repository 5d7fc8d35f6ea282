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

// Package event defines the parse events that drive the Relax NG walker engine (§4.H) and the
// unordered EventSet the walkers report as "possible next events". Events are immutable value
// types compared by kind plus stringified parameter, per the Design Notes in spec.md §9 ("Event
// objects... comparing by name + param stringification is sufficient").
package event

import "github.com/botobag/relaxng/expandedname"

// Kind enumerates the six parse event kinds §6 names.
type Kind uint8

// Enumeration of Kind.
const (
	EnterStartTag Kind = iota
	LeaveStartTag
	EndTag
	AttributeName
	AttributeValue
	Text
)

var kindNames = [...]string{
	EnterStartTag:  "enterStartTag",
	LeaveStartTag:  "leaveStartTag",
	EndTag:         "endTag",
	AttributeName:  "attributeName",
	AttributeValue: "attributeValue",
	Text:           "text",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one parse event in the stream the validator consumes. Name is meaningful for
// EnterStartTag/EndTag/AttributeName; Text is meaningful for AttributeValue/Text.
type Event struct {
	Kind Kind
	Name expandedname.Name
	Text string
}

// NewEnterStartTag builds an enterStartTag(uri, local) event.
func NewEnterStartTag(uri, local string) Event {
	return Event{Kind: EnterStartTag, Name: expandedname.Name{URI: uri, Local: local}}
}

// NewLeaveStartTag builds a leaveStartTag event.
func NewLeaveStartTag() Event {
	return Event{Kind: LeaveStartTag}
}

// NewEndTag builds an endTag(uri, local) event.
func NewEndTag(uri, local string) Event {
	return Event{Kind: EndTag, Name: expandedname.Name{URI: uri, Local: local}}
}

// NewAttributeName builds an attributeName(uri, local) event.
func NewAttributeName(uri, local string) Event {
	return Event{Kind: AttributeName, Name: expandedname.Name{URI: uri, Local: local}}
}

// NewAttributeValue builds an attributeValue(text) event.
func NewAttributeValue(text string) Event {
	return Event{Kind: AttributeValue, Text: text}
}

// NewText builds a text(text) event.
func NewText(text string) Event {
	return Event{Kind: Text, Text: text}
}

// AsText reinterprets an AttributeValue event as the equivalent Text event, used by the Attribute
// walker (§4.H) to feed its value pattern the same way a child element's text content would be
// fed.
func (e Event) AsText() Event {
	return Event{Kind: Text, Text: e.Text}
}

// key renders the event the way §8 property 8 and the Design Notes require: kind name plus
// stringified parameter, used both for Set membership and error-message rendering.
func (e Event) key() string {
	switch e.Kind {
	case EnterStartTag, EndTag, AttributeName:
		return e.Kind.String() + "(" + e.Name.URI + "," + e.Name.Local + ")"
	case AttributeValue, Text:
		return e.Kind.String() + "(" + e.Text + ")"
	default:
		return e.Kind.String()
	}
}

// Equal reports whether two events carry the same kind and parameter.
func (e Event) Equal(other Event) bool {
	return e.key() == other.key()
}

// String implements fmt.Stringer, rendering the event for diagnostics.
func (e Event) String() string {
	return e.key()
}

// Set is an unordered collection of Events, as returned by a walker's Possible() and documented in
// §4.H as "the returned set may be consumed or modified by the caller".
type Set struct {
	members map[string]Event
}

// NewSet builds an empty Set.
func NewSet() *Set {
	return &Set{members: map[string]Event{}}
}

// Add inserts e into the set, a no-op if already present.
func (s *Set) Add(e Event) {
	if s.members == nil {
		s.members = map[string]Event{}
	}
	s.members[e.key()] = e
}

// AddAll inserts every member of other into s.
func (s *Set) AddAll(other *Set) {
	if other == nil {
		return
	}
	for _, e := range other.members {
		s.Add(e)
	}
}

// Contains reports whether e is a member of s.
func (s *Set) Contains(e Event) bool {
	if s == nil || s.members == nil {
		return false
	}
	_, ok := s.members[e.key()]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// ToSlice returns the members in unspecified order.
func (s *Set) ToSlice() []Event {
	if s == nil {
		return nil
	}
	out := make([]Event, 0, len(s.members))
	for _, e := range s.members {
		out = append(out, e)
	}
	return out
}
