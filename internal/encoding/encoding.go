// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides the byte-level encoding helpers shared by messages, states and transcripts.
package encoding

import (
	"errors"
)

var (
	// ErrVectorHeader indicates a length-prefixed vector is shorter than its header.
	ErrVectorHeader = errors.New("vector is shorter than its length header")

	// ErrVectorLength indicates a length-prefixed vector is shorter than announced.
	ErrVectorLength = errors.New("vector is shorter than the announced length")
)

// EncodeVectorLen returns the input prepended with its byte length encoded on length bytes (1 or 2).
func EncodeVectorLen(in []byte, length uint16) []byte {
	return append(I2OSP(len(in), length), in...)
}

// EncodeVector returns the input with a two-byte big-endian length prefix.
func EncodeVector(in []byte) []byte {
	return EncodeVectorLen(in, 2)
}

// DecodeVector reads a two-byte length-prefixed vector from the head of in, and returns the vector
// and the total number of bytes consumed.
func DecodeVector(in []byte) ([]byte, int, error) {
	if len(in) < 2 {
		return nil, 0, ErrVectorHeader
	}

	dataLen := OS2IP(in[0:2])
	offset := 2 + dataLen

	if len(in) < offset {
		return nil, 0, ErrVectorLength
	}

	return in[2:offset], offset, nil
}

// Xor returns a new slice holding a XOR b. Both inputs must have the same length.
func Xor(a, b []byte) []byte {
	if len(a) != len(b) {
		panic("xoring slices of different length")
	}

	dst := make([]byte, len(a))

	for i := range a {
		dst[i] = a[i] ^ b[i]
	}

	return dst
}
