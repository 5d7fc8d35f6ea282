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

package relaxng

import (
	"fmt"
	"log"
	"reflect"
	"runtime"

	"github.com/botobag/relaxng/internal/util"
	"github.com/botobag/relaxng/jsonwriter"
)

// Op describes an operation, usually as the package and method, such as "simplify.Step1".
type Op string

// ErrKind classifies an Error. The enumeration matches the error kinds in the Relax NG validation
// core specification: some are fatal to schema compilation, others are per-event validation
// findings that never abort the walker.
type ErrKind uint8

// Enumeration of ErrKind.
const (
	// ErrKindOther is an unclassified error. It is not printed in the error message.
	ErrKindOther ErrKind = iota

	// Compile-time (fatal) kinds.
	ErrKindResourceLoadFailure
	ErrKindForeignElement
	ErrKindMalformedQName
	ErrKindUnknownDatatype
	ErrKindUnknownDatatypeLibrary
	ErrKindParameterError
	ErrKindValueValidationError
	ErrKindProhibitedPath
	ErrKindNameClassClash
	ErrKindStringValueConstraint
	ErrKindRefError
	ErrKindInvalidNameClass

	// Document-validation (non-fatal) kinds.
	ErrKindElementNameError
	ErrKindAttributeNameError
	ErrKindAttributeValueError
	ErrKindChoiceError
	ErrKindValidationError

	// ErrKindAPIMisuse flags a caller protocol violation (e.g. firing two text events in a row).
	ErrKindAPIMisuse

	// ErrKindInternal is an implementation invariant violation.
	ErrKindInternal
)

var errKindNames = [...]string{
	ErrKindOther:                  "",
	ErrKindResourceLoadFailure:    "resource load failure",
	ErrKindForeignElement:         "foreign element",
	ErrKindMalformedQName:         "malformed QName",
	ErrKindUnknownDatatype:        "unknown datatype",
	ErrKindUnknownDatatypeLibrary: "unknown datatype library",
	ErrKindParameterError:         "parameter error",
	ErrKindValueValidationError:   "value validation error",
	ErrKindProhibitedPath:         "prohibited path",
	ErrKindNameClassClash:         "name class clash",
	ErrKindStringValueConstraint:  "string value constraint",
	ErrKindRefError:               "ref error",
	ErrKindInvalidNameClass:       "invalid name class",
	ErrKindElementNameError:       "element name error",
	ErrKindAttributeNameError:     "attribute name error",
	ErrKindAttributeValueError:    "attribute value error",
	ErrKindChoiceError:            "choice error",
	ErrKindValidationError:        "validation error",
	ErrKindAPIMisuse:              "api misuse",
	ErrKindInternal:               "internal error",
}

// String implements fmt.Stringer.
func (k ErrKind) String() string {
	if int(k) < len(errKindNames) {
		if name := errKindNames[k]; name != "" || k == ErrKindOther {
			return name
		}
	}
	return "unknown error kind"
}

// Fatal reports whether an error of this kind terminates schema compilation rather than being
// accumulated as a per-event validation finding.
func (k ErrKind) Fatal() bool {
	switch k {
	case ErrKindElementNameError, ErrKindAttributeNameError, ErrKindAttributeValueError,
		ErrKindChoiceError, ErrKindValidationError:
		return false
	default:
		return true
	}
}

// ErrorExtensions provides an additional entry to an Error with key "extensions", useful for
// attaching vendor-specific error data such as the offending names in a ChoiceError.
type ErrorExtensions map[string]interface{}

// An Error describes a failure found during schema simplification, restriction checking, or
// document validation. It can be serialized to JSON for inclusion in a diagnostic report.
//
// Error is designed the way upspin.io/errors builds layered errors [0]: you can construct an Error
// wrapping an underlying error, and unspecified fields (Kind, Extensions) propagate up from the
// wrapped Error so intermediate call sites don't need to repeat context they didn't add.
//
// [0]: https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html
type Error struct {
	// Message describes the error for human consumption.
	Message string

	// Names lists the expanded or qualified names implicated in the error (e.g. the two candidate
	// element names of a ChoiceError, or the missing attribute name of an AttributeNameError).
	Names []string

	// Extensions contains vendor-specific data to attach to the error (e.g. "suggestions").
	Extensions ErrorExtensions

	// Err is the underlying error that triggered this one, if any.
	Err error

	// Op is the operation being performed, usually the package and function name.
	Op Op

	// Kind classifies the error.
	Kind ErrKind
}

var _ error = (*Error)(nil)

// NewError builds an Error value from arguments, in the style of upspin.io/errors.Error: pass a
// message string followed by any mix of Op, ErrKind, ErrorExtensions, []string (for Names), and a
// wrapped error.
func NewError(message string, args ...interface{}) *Error {
	e := &Error{Message: message}

	for _, arg := range args {
		switch arg := arg.(type) {
		case []string:
			e.Names = arg
		case ErrorExtensions:
			e.Extensions = arg
		case error:
			e.Err = arg
		case Op:
			e.Op = arg
		case ErrKind:
			e.Kind = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("relaxng.NewError: bad call from %s:%d: %v", file, line, args)
		}
	}

	if prev, ok := e.Err.(*Error); ok {
		if e.Kind == ErrKindOther {
			e.Kind = prev.Kind
		}
		if e.Extensions == nil {
			e.Extensions = prev.Extensions
		}
	}

	return e
}

// WrapError is a convenience wrapper to build an Error from an underlying error with a message.
func WrapError(err error, message string) *Error {
	return NewError(message, err)
}

// WrapErrorf is WrapError with a format specifier.
func WrapErrorf(err error, format string, args ...interface{}) *Error {
	return NewError(fmt.Sprintf(format, args...), err)
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b util.StringBuilder
	e.printError(&b, nil)
	return b.String()
}

func (e *Error) printError(b *util.StringBuilder, next *Error) {
	initialLen := b.Len()

	pad := func(str string) {
		if b.Len() != initialLen {
			b.WriteString(str)
		}
	}

	if len(e.Op) > 0 {
		b.WriteString(string(e.Op))
	}

	if len(e.Message) > 0 {
		pad(": ")
		b.WriteString(e.Message)
	}

	if len(e.Names) > 0 {
		if next == nil || !reflect.DeepEqual(next.Names, e.Names) {
			pad(" ")
			b.WriteString(fmt.Sprintf("%v", e.Names))
		}
	}

	if e.Kind != ErrKindOther {
		if next == nil || next.Kind != e.Kind {
			pad(": ")
			b.WriteString(e.Kind.String())
		}
	}

	if len(e.Extensions) > 0 {
		if next == nil || !reflect.DeepEqual(next.Extensions, e.Extensions) {
			pad(" (additional info: ")
			b.WriteString(fmt.Sprintf("%v)", e.Extensions))
		}
	}

	if e.Err != nil {
		if prev, ok := e.Err.(*Error); ok {
			pad(":\n  ")
			prev.printError(b, e)
		} else {
			pad(": ")
			b.WriteString(e.Err.Error())
		}
	}
}

// MarshalJSON implements json.Marshaler by way of jsonwriter.Marshal, the streaming encoder the
// rest of this corpus uses for its own wire types.
func (e *Error) MarshalJSON() ([]byte, error) {
	return jsonwriter.Marshal(e)
}

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (e *Error) MarshalJSONTo(stream *jsonwriter.Stream) error {
	stream.WriteObjectStart()
	stream.WriteObjectField("message")
	stream.WriteInterface(e.Message)
	stream.WriteMore()
	stream.WriteObjectField("names")
	stream.WriteInterface(e.Names)
	stream.WriteMore()
	stream.WriteObjectField("kind")
	stream.WriteInterface(e.Kind.String())
	stream.WriteMore()
	stream.WriteObjectField("extensions")
	stream.WriteInterface(e.Extensions)
	stream.WriteObjectEnd()
	return stream.Error()
}

// Equal implements the §8 property-8 error equality: two validation errors compare equal iff their
// rendered messages (with names substituted) are equal.
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Error() == other.Error()
}

// Errors wraps a list of *Error. It is intentionally wrapped instead of being a plain []*Error so
// that callers check HaveOccurred() instead of (errs != nil), since an empty (but non-nil) slice
// must still mean "no error".
type Errors struct {
	Errors []*Error
}

// NoErrors constructs an empty Errors.
func NoErrors() Errors {
	return Errors{}
}

// Emplace constructs an Error from arguments and appends it.
func (errs *Errors) Emplace(message string, args ...interface{}) {
	errs.Errors = append(errs.Errors, NewError(message, args...))
}

// Append appends already-constructed Errors to the list.
func (errs *Errors) Append(e ...*Error) {
	errs.Errors = append(errs.Errors, e...)
}

// AppendErrors appends every Error in each given Errors.
func (errs *Errors) AppendErrors(others ...Errors) {
	for _, other := range others {
		errs.Errors = append(errs.Errors, other.Errors...)
	}
}

// HaveOccurred reports whether any error has been recorded.
func (errs Errors) HaveOccurred() bool {
	return len(errs.Errors) > 0
}

// Dedupe removes errors that compare Equal to an earlier one in the list, preserving the original
// order of first occurrence (§8 property 8 — callers may deduplicate on rendered-message equality).
func (errs Errors) Dedupe() Errors {
	if len(errs.Errors) == 0 {
		return errs
	}
	out := make([]*Error, 0, len(errs.Errors))
	for _, e := range errs.Errors {
		dup := false
		for _, seen := range out {
			if seen.Equal(e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return Errors{Errors: out}
}
