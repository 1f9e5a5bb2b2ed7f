// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate OPAQUE that are not part of the public API.
package internal

import (
	"crypto"
	"fmt"
	"io"
	"log/slog"

	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal/ksf"
	"github.com/squirrelchat/opaque-go/internal/oprf"
)

const (
	// NonceLength is the default length used for nonces.
	NonceLength = 32

	// SeedLength is the default length used for seeds.
	SeedLength = 32
)

// Configuration is the internal representation of the instance runtime parameters. It is immutable once built and
// shared read-only by all flows of a Client or Server.
type Configuration struct {
	KDF          *KDF
	MAC          *Mac
	KSF          *ksf.KSF
	Random       io.Reader
	Logger       *slog.Logger
	OPRF         oprf.Identifier
	Context      []byte
	NonceLen     int
	EnvelopeSize int
	Hash         crypto.Hash
	Group        group.Group
}

// NewHash returns a fresh transcript hash for a single flow.
func (c *Configuration) NewHash() *Hash {
	return NewHash(c.Hash)
}

// HashSize returns the output length of the configured hash function.
func (c *Configuration) HashSize() int {
	return c.Hash.Size()
}

// RandomBytes returns length bytes read from the configured randomness source.
func (c *Configuration) RandomBytes(length int) ([]byte, error) {
	r := make([]byte, length)
	if _, err := io.ReadFull(c.Random, r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	return r, nil
}

// RandomScalar returns a non-zero scalar in the OPRF group derived from fresh randomness.
func (c *Configuration) RandomScalar(g group.Group) (*group.Scalar, error) {
	seed, err := c.RandomBytes(SeedLength)
	if err != nil {
		return nil, err
	}
	defer ClearSlice(&seed)

	s, err := oprf.IDFromGroup(g).DeriveKey(seed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyDerivation, err)
	}

	return s, nil
}

// OPRFPointLength returns the encoding length of OPRF group elements.
func (c *Configuration) OPRFPointLength() int {
	return c.OPRF.Group().ElementLength()
}

// OPRFScalarLength returns the encoding length of OPRF group scalars.
func (c *Configuration) OPRFScalarLength() int {
	return c.OPRF.Group().ScalarLength()
}

// AkePointLength returns the encoding length of AKE group elements.
func (c *Configuration) AkePointLength() int {
	return c.Group.ElementLength()
}

// AkeScalarLength returns the encoding length of AKE group scalars.
func (c *Configuration) AkeScalarLength() int {
	return c.Group.ScalarLength()
}

// MaskedResponseLength returns the length of the masked server public key and envelope.
func (c *Configuration) MaskedResponseLength() int {
	return c.AkePointLength() + c.EnvelopeSize
}

// ClearSlice attempts to zero out the slice and sets it to nil.
func ClearSlice(b *[]byte) {
	if b == nil || *b == nil {
		return
	}

	clear(*b)
	*b = nil
}

// ClearScalar attempts to zero out the scalar and sets it to nil.
func ClearScalar(s **group.Scalar) {
	if s == nil || *s == nil {
		return
	}

	(*s).Zero()
	*s = nil
}
