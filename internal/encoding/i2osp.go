// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import (
	"encoding/binary"
	"errors"
)

var (
	errInputNegative = errors.New("negative input")
	errInputLarge    = errors.New("input is too high for length")
	errLengthZero    = errors.New("length is 0")
	errLengthTooBig  = errors.New("requested length is > 4")
	errInputEmpty    = errors.New("nil or empty input")
	errInputTooLarge = errors.New("input too large for integer")
)

// I2OSP 32-bit Integer to Octet Stream Primitive on maximum 4 bytes.
func I2OSP(value int, length uint16) []byte {
	switch {
	case length == 0:
		panic(errLengthZero)
	case length > 4:
		panic(errLengthTooBig)
	case value < 0:
		panic(errInputNegative)
	case uint64(value) >= 1<<(8*uint64(length)):
		panic(errInputLarge)
	}

	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, uint32(value))

	return out[4-length:]
}

// OS2IP Octet Stream to Integer Primitive on maximum 4 bytes / 32 bits.
func OS2IP(input []byte) int {
	switch length := len(input); {
	case length == 0:
		panic(errInputEmpty)
	case length > 4:
		panic(errInputTooLarge)
	default:
		b := make([]byte, 4)
		copy(b[4-length:], input)

		return int(binary.BigEndian.Uint32(b))
	}
}
