// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package masking encrypts and decrypts the server public key and client envelope carried in the credential
// response, so that responses for known and unknown identifiers look alike.
package masking

import (
	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/internal/tag"
)

// Key derives the masking key from the randomized password.
func Key(conf *internal.Configuration, randomizedPassword []byte) []byte {
	return conf.KDF.Expand(randomizedPassword, []byte(tag.MaskingKey), conf.HashSize())
}

func xorResponse(conf *internal.Configuration, maskingKey, nonce, in []byte) []byte {
	pad := conf.KDF.Expand(
		maskingKey,
		encoding.SuffixString(nonce, tag.CredentialResponsePad),
		conf.MaskedResponseLength(),
	)
	defer internal.ClearSlice(&pad)

	return encoding.Xor(pad, in)
}

// Mask encrypts the server public key and the envelope under the masking key and nonce.
func Mask(conf *internal.Configuration, maskingKey, nonce, serverPublicKey, envelope []byte) []byte {
	return xorResponse(conf, maskingKey, nonce, encoding.Concat(serverPublicKey, envelope))
}

// Unmask decrypts the masked response into the raw server public key and envelope bytes. It assumes
// maskedResponse has been checked to be of length conf.MaskedResponseLength().
func Unmask(conf *internal.Configuration, maskingKey, nonce, maskedResponse []byte) (serverPublicKey, envelope []byte) {
	plain := xorResponse(conf, maskingKey, nonce, maskedResponse)

	return plain[:conf.AkePointLength()], plain[conf.AkePointLength():]
}
