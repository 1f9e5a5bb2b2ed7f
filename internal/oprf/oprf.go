// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements the base mode of the Oblivious Pseudorandom Function over prime-order groups
// (RFC 9497), with stateless client and server operations.
package oprf

import (
	"crypto"
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/internal/tag"
)

// mode distinguishes between the OPRF base mode and the Verifiable modes. Only the base mode is used.
const modeOPRF byte = 0x00

// maxDeriveKeyPairCounter bounds the rejection loop in DeriveKeyPair.
const maxDeriveKeyPairCounter = 255

// ErrDeriveKeyPair indicates that DeriveKeyPair exhausted its counter without producing a non-zero scalar.
var ErrDeriveKeyPair = errors.New("DeriveKeyPair failed to produce a valid scalar")

// Identifier of the OPRF compatible cipher suites.
type Identifier string

const (
	// Ristretto255Sha512 is the OPRF cipher suite of the Ristretto255 group and SHA-512.
	Ristretto255Sha512 Identifier = "ristretto255-SHA512"

	// P256Sha256 is the OPRF cipher suite of the NIST P-256 group and SHA-256.
	P256Sha256 Identifier = "P256-SHA256"

	// P384Sha384 is the OPRF cipher suite of the NIST P-384 group and SHA-384.
	P384Sha384 Identifier = "P384-SHA384"

	// P521Sha512 is the OPRF cipher suite of the NIST P-512 group and SHA-512.
	P521Sha512 Identifier = "P521-SHA512"
)

type suite struct {
	group group.Group
	hash  crypto.Hash
}

var suites = map[Identifier]suite{
	Ristretto255Sha512: {group.Ristretto255Sha512, crypto.SHA512},
	P256Sha256:         {group.P256Sha256, crypto.SHA256},
	P384Sha384:         {group.P384Sha384, crypto.SHA384},
	P521Sha512:         {group.P521Sha512, crypto.SHA512},
}

// IDFromGroup returns the OPRF identifier corresponding to the input group, or the empty identifier.
func IDFromGroup(g group.Group) Identifier {
	for id, s := range suites {
		if s.group == g {
			return id
		}
	}

	return ""
}

// Available returns whether the Identifier is registered.
func (i Identifier) Available() bool {
	_, ok := suites[i]
	return ok
}

// Group returns the group of the cipher suite.
func (i Identifier) Group() group.Group {
	return suites[i].group
}

// Hash returns the hash function of the cipher suite.
func (i Identifier) Hash() crypto.Hash {
	return suites[i].hash
}

func (i Identifier) contextString() []byte {
	return encoding.Concatenate([]byte(tag.OPRFVersionPrefix), []byte{modeOPRF, '-'}, []byte(i))
}

func (i Identifier) dst(prefix string) []byte {
	return encoding.Concat([]byte(prefix), i.contextString())
}

// DeriveKey returns the secret scalar deterministically derived from seed and info.
func (i Identifier) DeriveKey(seed, info []byte) (*group.Scalar, error) {
	deriveInput := encoding.Concat(seed, encoding.EncodeVector(info))
	dst := i.dst(tag.DeriveKeyPairInternal)

	for counter := 0; counter <= maxDeriveKeyPairCounter; counter++ {
		sk := i.Group().HashToScalar(encoding.Concat(deriveInput, encoding.I2OSP(counter, 1)), dst)
		if !sk.IsZero() {
			return sk, nil
		}
	}

	return nil, ErrDeriveKeyPair
}

// DeriveKeyPair returns the key pair deterministically derived from seed and info.
func (i Identifier) DeriveKeyPair(seed, info []byte) (*group.Scalar, *group.Element, error) {
	sk, err := i.DeriveKey(seed, info)
	if err != nil {
		return nil, nil, err
	}

	return sk, i.Group().Base().Multiply(sk), nil
}
