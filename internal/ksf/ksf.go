// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ksf wraps the Key Stretching Functions used to harden the OPRF output.
package ksf

import (
	"errors"
	"fmt"

	"github.com/bytemare/ksf"
)

var (
	// ErrParameters indicates an invalid amount of KSF parameters.
	ErrParameters = errors.New("invalid number of KSF parameters")

	// ErrNegativeLength indicates a negative KSF output length.
	ErrNegativeLength = errors.New("the KSF output length must not be negative")
)

// KSF wraps a key stretching function together with the salt and output length it runs with. Its parameters are
// fixed at construction, so it can be shared read-only between concurrent flows.
type KSF struct {
	ksfInterface
	salt   []byte
	length int
}

// NewKSF returns a newly instantiated KSF. A zero identifier yields the identity function. If parameters are
// provided, they must match the amount of canonical parameters of the function.
func NewKSF(id ksf.Identifier, salt []byte, parameters []int, length int) (*KSF, error) {
	var f ksfInterface = IdentityKSF{}
	if id != 0 {
		f = id.Get()
	}

	if len(parameters) != 0 {
		if len(parameters) != len(f.Params()) {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrParameters, len(f.Params()), len(parameters))
		}

		f.Parameterize(parameters...)
	}

	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}

	return &KSF{
		ksfInterface: f,
		salt:         salt,
		length:       length,
	}, nil
}

// Stretch hardens the input with the configured salt and output length.
func (k *KSF) Stretch(input []byte) []byte {
	return k.Harden(input, k.salt, k.length)
}

type ksfInterface interface {
	// Harden uses default parameters for the key derivation function over the input password and salt.
	Harden(password, salt []byte, length int) []byte

	// Parameterize replaces the functions parameters with the new ones.
	// Must match the amount of parameters for the KSF.
	Parameterize(parameters ...int)

	// Params returns the list of internal parameters. If none were provided or modified,
	// the recommended defaults values are used.
	Params() []int
}

// IdentityKSF represents a KSF with no operations.
type IdentityKSF struct{}

// Harden returns the password as is.
func (i IdentityKSF) Harden(password, _ []byte, _ int) []byte {
	return password
}

// Parameterize is a no-op.
func (i IdentityKSF) Parameterize(_ ...int) {}

// Params returns nil, the identity function has no parameters.
func (i IdentityKSF) Params() []int {
	return nil
}
