// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto/subtle"
	"encoding/hex"
	"io"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/ake"
	"github.com/squirrelchat/opaque-go/internal/encoding"
)

// ServerSetup holds the server's long-term key material: its AKE key pair and the seed the per-client OPRF keys are
// derived from. It is created once, persisted by the caller, and shared read-only by all flows.
type ServerSetup struct {
	// The server's long-term AKE secret key.
	PrivateKey *group.Scalar

	// The server's long-term AKE public key.
	PublicKey *group.Element

	// The seed to derive the per-client OPRF keys with.
	OPRFSeed []byte
}

// NewServerSetup returns fresh server key material for the configuration, drawn from rand. A nil rand uses the
// configuration's randomness source.
func NewServerSetup(c *Configuration, rand io.Reader) (*ServerSetup, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	if rand != nil {
		conf.Random = rand
	}

	return newServerSetup(conf)
}

func newServerSetup(conf *internal.Configuration) (*ServerSetup, error) {
	sk, pk, err := ake.KeyGen(conf)
	if err != nil {
		return nil, protocolError(err)
	}

	seed, err := conf.RandomBytes(conf.HashSize())
	if err != nil {
		sk.Zero()
		return nil, protocolError(err)
	}

	return &ServerSetup{
		PrivateKey: sk,
		PublicKey:  pk,
		OPRFSeed:   seed,
	}, nil
}

// Serialize returns the persisted form of the setup: private key, public key, then OPRF seed.
func (s *ServerSetup) Serialize() []byte {
	return encoding.Concatenate(s.PrivateKey.Encode(), s.PublicKey.Encode(), s.OPRFSeed)
}

// Hex returns the hexadecimal encoding of Serialize.
func (s *ServerSetup) Hex() string {
	return hex.EncodeToString(s.Serialize())
}

// Flush does a best-effort attempt to clear the server key material from memory. It is not guaranteed that the
// contents are correctly wiped from memory.
func (s *ServerSetup) Flush() {
	internal.ClearScalar(&s.PrivateKey)
	internal.ClearSlice(&s.OPRFSeed)
	s.PublicKey = nil
}

func (s *ServerSetup) flushed() bool {
	return s == nil || s.PrivateKey == nil || s.PublicKey == nil || s.OPRFSeed == nil
}

// LoadServerSetup decodes a persisted server setup. It fails if the encoding has the wrong length, if the private
// key is not a canonical non-zero scalar, if the public key is not a valid non-identity element, or if the public
// key does not belong to the private key.
func (c *Configuration) LoadServerSetup(data []byte) (*ServerSetup, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return loadServerSetup(conf, data)
}

// LoadServerSetupHex decodes a hex encoded server setup, as returned by ServerSetup.Hex.
func (c *Configuration) LoadServerSetupHex(data string) (*ServerSetup, error) {
	decoded, err := hex.DecodeString(data)
	if err != nil {
		return nil, ErrServerSetup.Wrap(internal.ErrInvalidEncodingLength, err)
	}

	return c.LoadServerSetup(decoded)
}

func loadServerSetup(conf *internal.Configuration, data []byte) (*ServerSetup, error) {
	nsk, npk := conf.AkeScalarLength(), conf.AkePointLength()

	if len(data) != nsk+npk+conf.HashSize() {
		return nil, ErrServerSetup.Wrap(internal.ErrInvalidEncodingLength)
	}

	split := encoding.NewSplitter(data)
	skBytes, pkBytes, seed := split.Next(nsk), split.Next(npk), split.Rest()

	sk, err := decodeScalar(conf.Group, skBytes)
	if err != nil {
		return nil, ErrServerSetup.Wrap(internal.ErrInvalidPrivateKey, err)
	}

	pk, err := decodeElement(conf.Group, pkBytes)
	if err != nil {
		sk.Zero()
		return nil, ErrServerSetup.Wrap(internal.ErrInvalidServerPublicKey, err)
	}

	if subtle.ConstantTimeCompare(conf.Group.Base().Multiply(sk).Encode(), pkBytes) != 1 {
		sk.Zero()
		return nil, ErrServerSetup.Wrap(internal.ErrServerKeyMismatch)
	}

	return &ServerSetup{
		PrivateKey: sk,
		PublicKey:  pk,
		OPRFSeed:   slices.Clone(seed),
	}, nil
}
