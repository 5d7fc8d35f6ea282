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
	"crypto"

	"github.com/botobag/relaxng"
)

// Cache memoizes fetched resources by resolved URL for the lifetime of a single simplification
// session, the same role dataloader.CacheMap plays for batched field resolution in the teacher:
// the cache is keyed by request identity (there, a dataloader.Key; here, a URL) so that two
// concurrent requesters of the same key share one fetch instead of issuing it twice.
//
// Here that translates directly into §8 property 7 ("every file opened by the loader during step
// 1 appears exactly once in the manifest, in read order"): the simplifier consults the Cache
// before calling Loader.Load, and only a cache miss appends a ManifestEntry.
type Cache struct {
	entries map[string]*cacheEntry
	order   []string
}

type cacheEntry struct {
	resource Resource
	err      *relaxng.Error
}

// NewCache builds an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]*cacheEntry{}}
}

// Get returns the cached Resource for url, or (nil, nil, false) on a miss.
func (c *Cache) Get(url string) (Resource, *relaxng.Error, bool) {
	e, ok := c.entries[url]
	if !ok {
		return nil, nil, false
	}
	return e.resource, e.err, true
}

// Set records the outcome of fetching url, in first-fetch order (§8 property 7's "read order").
// Calling Set twice for the same url is a no-op on the second call: the first fetch's outcome
// wins, matching dataloader.CacheMap.Set's "if the key exists, return the task that was
// previously set" behavior.
func (c *Cache) Set(url string, res Resource, err *relaxng.Error) (Resource, *relaxng.Error) {
	if e, ok := c.entries[url]; ok {
		return e.resource, e.err
	}
	c.entries[url] = &cacheEntry{resource: res, err: err}
	c.order = append(c.order, url)
	return res, err
}

// Manifest builds the ManifestEntry-shaped (path, hash) pairs in read order, hashing every
// successfully fetched resource under algo. A file that failed to load is skipped: the fetch
// already raised a fatal ResourceLoadFailure that aborted the pipeline before a manifest could be
// requested.
func (c *Cache) Manifest(algo crypto.Hash) ([]Entry, *relaxng.Error) {
	entries := make([]Entry, 0, len(c.order))
	for _, url := range c.order {
		e := c.entries[url]
		if e.err != nil || e.resource == nil {
			continue
		}
		hash, herr := e.resource.Hash(algo)
		if herr != nil {
			return nil, herr
		}
		entries = append(entries, Entry{FilePath: url, Hash: hash})
	}
	return entries, nil
}

// Entry is one manifest record, per §6's ManifestEntry layout.
type Entry struct {
	FilePath string
	Hash     string
}
