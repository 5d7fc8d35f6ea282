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

package resource

import (
	"fmt"
	"io/ioutil"
	"net/url"
	"strings"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/concurrent/future"
)

// MapLoader is a Loader backed by an in-memory url -> content map, used by tests and by
// embedders that have already gathered every schema file (e.g. from a bundle or a VCS checkout)
// before invoking the simplifier.
type MapLoader map[string][]byte

var _ Loader = MapLoader{}

// Load implements Loader. It resolves immediately via future.Ready/future.Err since no I/O is
// involved.
func (l MapLoader) Load(u string) future.Future {
	data, ok := l[u]
	if !ok {
		return future.Err(relaxng.NewError(
			fmt.Sprintf("resource not found: %s", u), relaxng.ErrKindResourceLoadFailure))
	}
	return future.Ready(NewResource(data))
}

// FileLoader is a Loader that reads file: URLs from the local filesystem, the simplest real
// collaborator for the §6 resource-loader boundary ("a function (URL) -> Future<Resource>").
type FileLoader struct{}

var _ Loader = FileLoader{}

// Load implements Loader.
func (FileLoader) Load(u string) future.Future {
	path := u
	if parsed, err := url.Parse(u); err == nil && parsed.Scheme == "file" {
		path = parsed.Path
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return future.Err(relaxng.NewError(
			fmt.Sprintf("failed to load %s", u), relaxng.ErrKindResourceLoadFailure, err))
	}
	return future.Ready(NewResource(data))
}

// ResolveURL resolves href relative to base, per §6's "URLs must resolve relative to the
// enclosing document". base and href are treated as opaque net/url-compatible references; a bare
// filesystem path with no scheme is treated as relative to base's directory.
func ResolveURL(base, href string) (string, *relaxng.Error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", relaxng.NewError(fmt.Sprintf("malformed base URL %q", base), relaxng.ErrKindResourceLoadFailure, err)
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return "", relaxng.NewError(fmt.Sprintf("malformed href %q", href), relaxng.ErrKindResourceLoadFailure, err)
	}
	if refURL.IsAbs() {
		return refURL.String(), nil
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// StripFragment removes a trailing "#fragment" from a URL, since Relax NG href/externalRef
// fragments have no meaning for whole-document fetches.
func StripFragment(u string) string {
	if idx := strings.IndexByte(u, '#'); idx >= 0 {
		return u[:idx]
	}
	return u
}
