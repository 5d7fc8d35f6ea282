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

package relaxng_test

import (
	"encoding/json"

	"github.com/botobag/relaxng"
	"github.com/botobag/relaxng/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error JSON encoding", func() {
	It("round-trips through jsonwriter the same as encoding/json would produce", func() {
		err := relaxng.NewError(
			"element not allowed here",
			relaxng.ErrKindElementNameError,
			[]string{"foo"},
			relaxng.ErrorExtensions{"suggestions": []string{"bar", "baz"}},
		)

		// anonStruct mirrors Error's exported, JSON-relevant shape: SerializeToJSONAs needs a concrete
		// type to decode both sides into, since Error itself only round-trips through MarshalJSON, not
		// json.Unmarshal.
		type anonStruct struct {
			Message    string
			Names      []string
			Kind       string
			Extensions relaxng.ErrorExtensions
		}

		Expect(err).Should(testutil.SerializeToJSONAs(anonStruct{
			Message:    "element not allowed here",
			Names:      []string{"foo"},
			Kind:       relaxng.ErrKindElementNameError.String(),
			Extensions: relaxng.ErrorExtensions{"suggestions": []string{"bar", "baz"}},
		}))
	})

	It("produces the same bytes via MarshalJSON and the stdlib encoding/json entry point", func() {
		err := relaxng.NewError("bad value", relaxng.ErrKindValueValidationError)

		direct, marshalErr := err.MarshalJSON()
		Expect(marshalErr).Should(BeNil())

		viaStdlib, stdlibErr := json.Marshal(err)
		Expect(stdlibErr).Should(BeNil())

		Expect(direct).Should(MatchJSON(viaStdlib))
	})
})
