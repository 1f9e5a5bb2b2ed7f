// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	"errors"

	group "github.com/bytemare/crypto"
	"github.com/bytemare/hash"

	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/internal/tag"
)

// ErrInputIdentity indicates the input hashed to the identity element and cannot be blinded.
var ErrInputIdentity = errors.New("OPRF input maps to the identity element")

// Blind maps the input to the group and masks it with blind.
func (i Identifier) Blind(input []byte, blind *group.Scalar) (*group.Element, error) {
	p := i.Group().HashToGroup(input, i.dst(tag.OPRFPointPrefix))
	if p.IsIdentity() {
		return nil, ErrInputIdentity
	}

	return p.Multiply(blind), nil
}

// Finalize unblinds the evaluation and hashes it together with the input into the OPRF output.
func (i Identifier) Finalize(blind *group.Scalar, input []byte, evaluation *group.Element) []byte {
	inverse := blind.Copy().Invert()
	unblinded := evaluation.Copy().Multiply(inverse).Encode()
	inverse.Zero()

	h := hash.FromCrypto(i.Hash()).GetHashFunction()
	_, _ = h.Write(encoding.EncodeVector(input))
	_, _ = h.Write(encoding.EncodeVector(unblinded))
	_, _ = h.Write([]byte(tag.OPRFFinalize))

	return h.Sum(nil)
}
