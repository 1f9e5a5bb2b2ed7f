// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

// Concat returns the concatenation of a and b in a new slice.
func Concat(a, b []byte) []byte {
	e := make([]byte, 0, len(a)+len(b))
	e = append(e, a...)
	e = append(e, b...)

	return e
}

// SuffixString returns a new slice holding a followed by the bytes of b.
func SuffixString(a []byte, b string) []byte {
	e := make([]byte, 0, len(a)+len(b))
	e = append(e, a...)
	e = append(e, b...)

	return e
}

// Concatenate takes the variadic array of input and returns a concatenation of it.
func Concatenate(input ...[]byte) []byte {
	length := 0
	for _, b := range input {
		length += len(b)
	}

	buf := make([]byte, 0, length)

	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// Splitter cuts a fixed-layout byte string into consecutive fields.
type Splitter struct {
	data   []byte
	offset int
}

// NewSplitter returns a Splitter reading from data.
func NewSplitter(data []byte) *Splitter {
	return &Splitter{data: data}
}

// Next returns the next n bytes. The caller must have verified the total length beforehand.
func (s *Splitter) Next(n int) []byte {
	out := s.data[s.offset : s.offset+n]
	s.offset += n

	return out
}

// Rest returns all remaining bytes.
func (s *Splitter) Rest() []byte {
	out := s.data[s.offset:]
	s.offset = len(s.data)

	return out
}
