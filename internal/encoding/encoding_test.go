// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squirrelchat/opaque-go/internal/encoding"
)

func TestI2OSP(t *testing.T) {
	tests := []struct {
		value  int
		length uint16
		want   []byte
	}{
		{0, 1, []byte{0x00}},
		{255, 1, []byte{0xff}},
		{256, 2, []byte{0x01, 0x00}},
		{64, 2, []byte{0x00, 0x40}},
		{1 << 16, 3, []byte{0x01, 0x00, 0x00}},
		{1<<32 - 1, 4, []byte{0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		got := encoding.I2OSP(tt.value, tt.length)
		require.Equal(t, tt.want, got)
		require.Equal(t, tt.value, encoding.OS2IP(got))
	}
}

func TestI2OSP_Panics(t *testing.T) {
	require.Panics(t, func() { encoding.I2OSP(1, 0) })
	require.Panics(t, func() { encoding.I2OSP(1, 5) })
	require.Panics(t, func() { encoding.I2OSP(-1, 2) })
	require.Panics(t, func() { encoding.I2OSP(256, 1) })
	require.Panics(t, func() { encoding.OS2IP(nil) })
	require.Panics(t, func() { encoding.OS2IP(make([]byte, 5)) })
}

func TestVector(t *testing.T) {
	in := []byte("identifier")
	encoded := encoding.EncodeVector(in)
	require.Len(t, encoded, len(in)+2)

	decoded, n, err := encoding.DecodeVector(append(encoded, 0x01, 0x02))
	require.NoError(t, err)
	require.Equal(t, in, decoded)
	require.Equal(t, len(encoded), n)

	_, _, err = encoding.DecodeVector([]byte{0x00})
	require.ErrorIs(t, err, encoding.ErrVectorHeader)

	_, _, err = encoding.DecodeVector([]byte{0x00, 0x05, 0x01})
	require.ErrorIs(t, err, encoding.ErrVectorLength)

	require.Equal(t, []byte{0x01, 'a'}, encoding.EncodeVectorLen([]byte("a"), 1))
}

func TestSplitterAndXor(t *testing.T) {
	s := encoding.NewSplitter([]byte{1, 2, 3, 4, 5})
	require.Equal(t, []byte{1, 2}, s.Next(2))
	require.Equal(t, []byte{3}, s.Next(1))
	require.Equal(t, []byte{4, 5}, s.Rest())

	require.Equal(t, []byte{0, 3}, encoding.Xor([]byte{1, 2}, []byte{1, 1}))
	require.Panics(t, func() { encoding.Xor([]byte{1}, nil) })
	require.Equal(t, []byte("ab"), encoding.Concatenate([]byte("a"), nil, []byte("b")))
	require.Equal(t, []byte("xyz"), encoding.SuffixString([]byte("x"), "yz"))
}
