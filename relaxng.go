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
	"crypto"

	"github.com/botobag/relaxng/datatype"
	"github.com/botobag/relaxng/pattern"
	"github.com/botobag/relaxng/resource"
	"github.com/botobag/relaxng/restrict"
	"github.com/botobag/relaxng/schema"
	"github.com/botobag/relaxng/simplify"
)

// Config gathers the external knobs §6 names for a single schema-processing run. The zero Config
// is not ready to use; call NewConfig to get one with §9's documented defaults (verbose=false,
// timing=false, simplify_to=18, validate=true, create_manifest=false).
type Config struct {
	// Verbose is carried for the caller's own driver. Simplify and Compile do not read it and print
	// nothing.
	Verbose bool

	// Timing is carried for the caller's own driver. Simplify and Compile do not read it and do not
	// measure step durations.
	Timing bool

	// KeepTemp is carried for the caller's own driver. Simplify and Compile do not read it and keep
	// no intermediate trees or temporary files.
	KeepTemp bool

	// SimplifyTo is the last numbered step to run, one of simplify.Step1LoadAndInline through
	// simplify.Step18TypeCheck. Defaults to Step18TypeCheck (full simplification).
	SimplifyTo simplify.Step

	// Validate requests that the restriction checker (§4.F) run once simplification reaches step
	// 18. It has no effect if SimplifyTo stops earlier than Step18TypeCheck.
	Validate bool

	// CreateManifest requests that Simplify populate Result.Manifest from every resource the run's
	// loader fetched.
	CreateManifest bool

	// ManifestHashAlgorithm selects the digest algorithm for manifest entries' hash field, per §6's
	// minimum set (SHA-1/256/384/512). Ignored unless CreateManifest is true.
	ManifestHashAlgorithm crypto.Hash
}

// NewConfig builds a Config with §9's documented defaults.
func NewConfig() *Config {
	return &Config{
		SimplifyTo:            simplify.Step18TypeCheck,
		Validate:              true,
		CreateManifest:        false,
		ManifestHashAlgorithm: crypto.SHA256,
	}
}

// ManifestEntry is one §6 manifest record: a loaded file's path (or URL) and its content hash,
// formatted "<algo>-<hex>".
type ManifestEntry = resource.Entry

// Result is the outcome of running Simplify: the simplified tree, any non-fatal warnings
// accumulated along the way, and (if requested) the manifest of every resource loaded.
type Result struct {
	Simplified *schema.Element
	Warnings   []string
	Manifest   []ManifestEntry
}

// Simplify parses data as a Relax NG schema (sourceURI identifies it for diagnostics and relative
// resource resolution), runs the simplification pipeline through cfg.SimplifyTo, and — if cfg
// reaches step 18 and cfg.Validate is set — runs the restriction checker over the result. It
// returns a *relaxng.Error on the first fatal failure, per §7's propagation policy.
func Simplify(data []byte, sourceURI string, loader resource.Loader, registry *datatype.Registry, cfg *Config) (*Result, *Error) {
	tree, err := schema.Parse(data, sourceURI)
	if err != nil {
		return nil, err
	}

	var validate func(*schema.Element) *Error
	if cfg.Validate {
		validate = restrict.Check
	}

	pipeline := simplify.NewPipeline(loader, registry, validate)
	partial, err := pipeline.RunTo(tree, cfg.SimplifyTo)
	if err != nil {
		return nil, err
	}

	result := &Result{Simplified: partial.Tree, Warnings: partial.Warnings}
	if cfg.CreateManifest {
		manifest, err := pipeline.Cache.Manifest(cfg.ManifestHashAlgorithm)
		if err != nil {
			return nil, err
		}
		result.Manifest = manifest
	}
	return result, nil
}

// Compile is Simplify followed by pattern.Build: it produces a ready-to-validate *pattern.Grammar
// instead of a simplified tree. cfg.SimplifyTo is forced to simplify.Step18TypeCheck regardless of
// its configured value, since pattern.Build requires the fully simplified, type-checked form.
func Compile(data []byte, sourceURI string, loader resource.Loader, registry *datatype.Registry, cfg *Config) (*pattern.Grammar, []string, *Error) {
	full := *cfg
	full.SimplifyTo = simplify.Step18TypeCheck

	result, err := Simplify(data, sourceURI, loader, registry, &full)
	if err != nil {
		return nil, nil, err
	}

	grammar, err := pattern.Build(result.Simplified, registry)
	if err != nil {
		return nil, nil, err
	}
	return grammar, result.Warnings, nil
}
