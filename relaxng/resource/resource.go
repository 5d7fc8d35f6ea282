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

// Package resource implements the §5/§6 resource-loader boundary: a Loader fetches a URL and
// returns a Future<Resource>, the simplification pipeline's step 1 awaits one file at a time, and
// a per-session Cache memoizes fetches so that two include/externalRef branches referencing the
// same file only fetch (and hash) it once (§8 property 7).
package resource

import (
	"crypto"
	_ "crypto/sha1"   // registers crypto.SHA1
	_ "crypto/sha256" // registers crypto.SHA256
	_ "crypto/sha512" // registers crypto.SHA384 and crypto.SHA512
	"encoding/hex"
	"fmt"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/concurrent/future"
	unsafeconv "github.com/botobag/relaxng/internal/unsafe"
)

// Resource is a fetched document: its text and a digest of its bytes under a caller-chosen
// algorithm, per §6 ("Resource exposes get_text() -> Future<string> and may be hashed").
type Resource interface {
	// Text returns the fetched document's content.
	Text() string

	// Hash returns the manifest hash string "<algo>-<hex>" for the configured algorithm, computed
	// lazily and cached on first call.
	Hash(algo crypto.Hash) (string, *relaxng.Error)
}

// Loader fetches a resource by URL, asynchronously. A Loader implementation resolves URLs however
// it sees fit (file:, http(s):, an in-memory map for tests); §5 places no concurrency requirement
// on it beyond returning a Future the pipeline can poll to completion.
type Loader interface {
	Load(url string) future.Future
}

// bytesResource is the concrete Resource most Loader implementations hand back: raw bytes plus a
// small memoized-digest cache.
type bytesResource struct {
	data   []byte
	hashes map[crypto.Hash]string
}

var _ Resource = (*bytesResource)(nil)

// NewResource wraps raw document bytes into a Resource.
func NewResource(data []byte) Resource {
	return &bytesResource{data: data}
}

// Text implements Resource. It reinterprets r.data's bytes as a string rather than copying them;
// safe because r.data is never written to after NewResource constructs it.
func (r *bytesResource) Text() string {
	return unsafeconv.String(r.data)
}

// Hash implements Resource. The digest is formatted per §6: lowercase hex, bytes < 0x10
// zero-padded (hex.EncodeToString already zero-pads every byte), prefixed with the algorithm name
// and a dash.
func (r *bytesResource) Hash(algo crypto.Hash) (string, *relaxng.Error) {
	if r.hashes == nil {
		r.hashes = map[crypto.Hash]string{}
	}
	if h, ok := r.hashes[algo]; ok {
		return h, nil
	}
	if !algo.Available() {
		return "", relaxng.NewError(
			fmt.Sprintf("manifest hash algorithm %v is not registered", algo),
			relaxng.ErrKindInternal)
	}
	digest := algo.New()
	digest.Write(r.data)
	rendered := algoName(algo) + "-" + hex.EncodeToString(digest.Sum(nil))
	r.hashes[algo] = rendered
	return rendered, nil
}

// algoName renders the crypto.Hash the way §6's manifest format names it ("SHA-1", "SHA-256",
// ...), falling back to crypto.Hash's own String() for algorithms SPEC_FULL didn't enumerate.
func algoName(algo crypto.Hash) string {
	switch algo {
	case crypto.MD5:
		return "MD5"
	case crypto.SHA1:
		return "SHA-1"
	case crypto.SHA256:
		return "SHA-256"
	case crypto.SHA384:
		return "SHA-384"
	case crypto.SHA512:
		return "SHA-512"
	default:
		return algo.String()
	}
}

// Await polls f to completion, synchronously, the way §5 describes the pipeline awaiting "one
// file at a time (no concurrent fetching is required for correctness)". It uses future.NopWaker
// since there is never more than one outstanding poll.
func Await(f future.Future) (Resource, *relaxng.Error) {
	for {
		result, err := f.Poll(future.NopWaker)
		if err != nil {
			if rerr, ok := err.(*relaxng.Error); ok {
				return nil, rerr
			}
			return nil, relaxng.WrapError(err, "resource load failed")
		}
		if result == future.PollResultPending {
			continue
		}
		res, ok := result.(Resource)
		if !ok {
			return nil, relaxng.NewError("loader returned a non-Resource value", relaxng.ErrKindInternal)
		}
		return res, nil
	}
}
