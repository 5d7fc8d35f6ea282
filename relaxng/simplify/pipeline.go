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

// Package simplify implements the §4.E simplification pipeline: the ordered sequence of rewrites
// that reduces a parsed Relax NG schema tree to the canonical simplified form pattern.Build
// consumes. Only the numbered steps spec.md calls out are implemented (1, 4, 6, 9, 10, 14, 15, 16,
// 17, 18); the gaps in the numbering are steps of the full Relax NG simplification algorithm this
// core does not need because earlier steps already produce their precondition (e.g. the original
// algorithm's steps 2-3 fold whitespace/annotation handling into the schema parser, §4.D).
package simplify

import (
	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/resource"
	"github.com/botobag/relaxng/schema"
)

// Step is one of the pipeline's numbered stop points, per §4.E and §6's
// simplify_to: integer-stop-point-∈{1,4,6,9,10,14,15,16,17,18}.
type Step int

// Enumeration of Step, in pipeline order.
const (
	Step1LoadAndInline            Step = 1
	Step4NormalizeNames           Step = 4
	Step6PropagateDatatypeLibrary Step = 6
	Step9ScopeDefines             Step = 9
	Step10FlattenGrammar          Step = 10
	Step14Binarize                Step = 14
	Step15PropagateNotAllowed     Step = 15
	Step16PropagateEmpty          Step = 16
	Step17OrderChoices            Step = 17
	Step18TypeCheck               Step = 18
)

// steps lists every stop point in execution order, the table RunTo/Resume walk.
var steps = []Step{
	Step1LoadAndInline,
	Step4NormalizeNames,
	Step6PropagateDatatypeLibrary,
	Step9ScopeDefines,
	Step10FlattenGrammar,
	Step14Binarize,
	Step15PropagateNotAllowed,
	Step16PropagateEmpty,
	Step17OrderChoices,
	Step18TypeCheck,
}

// Pipeline holds the collaborators every step may need: the resource loader and cache for step 1,
// and the datatype registry for step 18's type-checking pass.
type Pipeline struct {
	Loader   resource.Loader
	Cache    *resource.Cache
	Registry *datatype.Registry

	// Validate requests that the restriction checker (§4.F) run once step 18 completes, per §4.E's
	// "after step 18, the restriction checker runs once." A caller stopping before 18 never runs it,
	// matching "stopping before 18 skips restriction checks."
	Validate func(*schema.Element) *relaxng.Error

	warnings []string
}

// NewPipeline builds a Pipeline. validate may be nil if the caller never intends to run the
// pipeline to Step18TypeCheck with restriction checking enabled.
func NewPipeline(loader resource.Loader, registry *datatype.Registry, validate func(*schema.Element) *relaxng.Error) *Pipeline {
	return &Pipeline{
		Loader:   loader,
		Cache:    resource.NewCache(),
		Registry: registry,
		Validate: validate,
	}
}

// Partial is the intermediate tree produced by stopping the pipeline at a boundary, together with
// enough bookkeeping to resume from it. SPEC_FULL's "simplifyTo boundary re-entry" supplement: it
// makes every numbered stop point independently re-enterable so that simplify(simplify(S)) (§8
// property 1) can be expressed as two calls without re-running steps that already ran.
type Partial struct {
	Tree     *schema.Element
	At       Step
	Warnings []string
}

// Result is the pipeline's terminal output, per §6: "{simplified: tree, warnings: [string],
// manifest: [ManifestEntry]}".
type Result struct {
	Simplified *schema.Element
	Warnings   []string
	Manifest   []resource.Entry
}

// stepIndex returns the position of s within steps, or -1 if s is not a recognized stop point.
func stepIndex(s Step) int {
	for i, st := range steps {
		if st == s {
			return i
		}
	}
	return -1
}

// RunTo runs the pipeline from a freshly parsed tree through step `to`, inclusive, per §4.E's
// "callers may stop the pipeline at any numbered boundary."
func (p *Pipeline) RunTo(tree *schema.Element, to Step) (*Partial, *relaxng.Error) {
	return p.Resume(&Partial{Tree: tree, At: 0}, to)
}

// Resume continues a Partial produced by an earlier RunTo/Resume call through step `to`,
// inclusive. Calling Resume with `to` no later than partial.At is a no-op that returns partial
// unchanged.
func (p *Pipeline) Resume(partial *Partial, to Step) (*Partial, *relaxng.Error) {
	fromIdx := stepIndex(partial.At)
	toIdx := stepIndex(to)
	if toIdx < 0 {
		return nil, relaxng.NewError("unknown simplification stop point", relaxng.ErrKindInternal)
	}
	if toIdx <= fromIdx {
		return partial, nil
	}

	tree := partial.Tree
	p.warnings = append([]string(nil), partial.Warnings...)

	for i := fromIdx + 1; i <= toIdx; i++ {
		step := steps[i]
		var err *relaxng.Error
		switch step {
		case Step1LoadAndInline:
			tree, err = p.step1LoadAndInline(tree)
		case Step4NormalizeNames:
			err = p.step4NormalizeNames(tree)
		case Step6PropagateDatatypeLibrary:
			p.step6PropagateDatatypeLibrary(tree, "")
		case Step9ScopeDefines:
			err = p.step9ScopeDefines(tree)
		case Step10FlattenGrammar:
			tree, err = p.step10FlattenGrammar(tree)
		case Step14Binarize:
			p.step14Binarize(tree)
		case Step15PropagateNotAllowed:
			tree = p.step15PropagateNotAllowed(tree)
		case Step16PropagateEmpty:
			tree = p.step16PropagateEmpty(tree)
		case Step17OrderChoices:
			p.step17OrderChoices(tree)
		case Step18TypeCheck:
			err = p.step18TypeCheck(tree)
			if err == nil && p.Validate != nil {
				err = p.Validate(tree)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	return &Partial{Tree: tree, At: to, Warnings: p.warnings}, nil
}

// Simplify runs the full pipeline (through Step18TypeCheck) and returns the simplified tree plus
// warnings. The caller builds the §6 manifest separately via p.Cache.Manifest(algo), since only
// the caller's Config knows which digest algorithm to use.
func (p *Pipeline) Simplify(tree *schema.Element) (*Result, *relaxng.Error) {
	partial, err := p.RunTo(tree, Step18TypeCheck)
	if err != nil {
		return nil, err
	}
	return &Result{Simplified: partial.Tree, Warnings: partial.Warnings}, nil
}

func (p *Pipeline) warn(format string) {
	p.warnings = append(p.warnings, format)
}
