/**
 * Copyright (c) 2019, The Artemis Authors.
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

package future

// readyFuture is a Future that resolves immediately, used by resource.Loader implementations
// (e.g. an in-memory test loader, or a loader serving an already-cached file) that have no actual
// asynchronous work to do.
type readyFuture struct {
	value interface{}
	err   error
}

var _ Future = readyFuture{}

// Ready builds a Future that resolves to value on its first Poll.
func Ready(value interface{}) Future {
	return readyFuture{value: value}
}

// Err builds a Future that resolves to err (possibly nil, in which case Poll reports an empty,
// non-nil error per this package's "always return a non-nil error value" convention for Err)
// on its first Poll.
func Err(err error) Future {
	if err == nil {
		err = emptyError{}
	}
	return readyFuture{err: err}
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

// Poll implements Future.
func (f readyFuture) Poll(waker Waker) (PollResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.value, nil
}
