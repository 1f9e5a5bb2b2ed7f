// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"math"

	group "github.com/bytemare/crypto"
	"github.com/bytemare/ksf"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	iKSF "github.com/squirrelchat/opaque-go/internal/ksf"
	"github.com/squirrelchat/opaque-go/internal/oprf"
)

// Group identifies the prime-order group with hash-to-curve capability to use in OPRF and AKE.
type Group byte

const (
	// RistrettoSha512 identifies the Ristretto255 group and SHA2-512 hash-to-group hashing.
	RistrettoSha512 = Group(group.Ristretto255Sha512)

	// P256Sha256 identifies the NIST P-256 group and SHA-256 hash-to-group hashing.
	P256Sha256 = Group(group.P256Sha256)

	// P384Sha384 identifies the NIST P-384 group and SHA-384 hash-to-group hashing.
	P384Sha384 = Group(group.P384Sha384)

	// P521Sha512 identifies the NIST P-521 group and SHA-512 hash-to-group hashing.
	P521Sha512 = Group(group.P521Sha512)
)

// Available returns whether the Group byte is recognized in this implementation.
func (g Group) Available() bool {
	switch g {
	case RistrettoSha512, P256Sha256, P384Sha384, P521Sha512:
		return true
	default:
		return false
	}
}

// Group returns the group identifier used in the cryptographic library.
func (g Group) Group() group.Group {
	return group.Group(g)
}

// OPRF returns the OPRF suite identifier corresponding to the Group.
func (g Group) OPRF() oprf.Identifier {
	return oprf.IDFromGroup(g.Group())
}

func hashAvailable(h crypto.Hash) bool {
	switch h { //nolint:exhaustive // only the fixed-output hash functions are supported
	case crypto.SHA256, crypto.SHA384, crypto.SHA512, crypto.SHA3_256, crypto.SHA3_512:
		return true
	default:
		return false
	}
}

// Configuration represents an OPAQUE configuration. Note that OprfGroup and AKEGroup are recommended to be the same,
// as well as KDF, MAC, Hash should be the same.
type Configuration struct {
	// Random is the source of randomness of all protocol steps. It defaults to crypto/rand. It is not serialized.
	Random io.Reader `json:"-"`

	// Logger receives debug records describing the internal reason of protocol failures. It defaults to a logger
	// discarding everything, and is not serialized.
	Logger *slog.Logger `json:"-"`

	// Context is optional shared information to include in the AKE transcript.
	Context []byte `json:"context"`

	// KSFSalt is the salt given to the key stretching function. Local to the client.
	KSFSalt []byte `json:"ksfSalt,omitempty"`

	// KSFParameters overrides the key stretching function's default parameters. Local to the client.
	KSFParameters []int `json:"ksfParameters,omitempty"`

	// KSFLength is the output length of the key stretching function. Zero means the OPRF output length.
	KSFLength int `json:"ksfLength,omitempty"`

	// KDF identifies the hash function to be used for key derivation (e.g. HKDF).
	KDF crypto.Hash `json:"kdf"`

	// MAC identifies the hash function to be used for message authentication (e.g. HMAC).
	MAC crypto.Hash `json:"mac"`

	// Hash identifies the hash function to be used for hashing, as defined in github.com/bytemare/hash.
	Hash crypto.Hash `json:"hash"`

	// KSF identifies the key stretching function for expensive key derivation on the client.
	KSF ksf.Identifier `json:"ksf"`

	// OPRF identifies the group to use for the OPRF.
	OPRF Group `json:"oprf"`

	// AKE identifies the group to use for the AKE.
	AKE Group `json:"group"`
}

// DefaultConfiguration returns a default configuration with strong parameters.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		OPRF:    RistrettoSha512,
		KDF:     crypto.SHA512,
		MAC:     crypto.SHA512,
		Hash:    crypto.SHA512,
		KSF:     ksf.Argon2id,
		AKE:     RistrettoSha512,
		Context: nil,
	}
}

const configurationHeaderLength = 6

// Serialize returns the byte encoding of the configuration's suite and context. The local fields (randomness,
// logger, and KSF parameters) are not encoded.
func (c *Configuration) Serialize() []byte {
	return encoding.Concat([]byte{
		byte(c.OPRF),
		byte(c.AKE),
		byte(c.KSF),
		byte(c.KDF),
		byte(c.MAC),
		byte(c.Hash),
	}, encoding.EncodeVector(c.Context))
}

// DeserializeConfiguration decodes the input and returns a Parameter structure.
func DeserializeConfiguration(encoded []byte) (*Configuration, error) {
	if len(encoded) < configurationHeaderLength+2 {
		return nil, ErrConfiguration.Wrap(internal.ErrConfigurationInvalidLength)
	}

	ctx, offset, err := encoding.DecodeVector(encoded[configurationHeaderLength:])
	if err != nil {
		return nil, ErrConfiguration.Wrap(internal.ErrInvalidContextEncoding, err)
	}

	if configurationHeaderLength+offset != len(encoded) {
		return nil, ErrConfiguration.Wrap(internal.ErrConfigurationInvalidLength)
	}

	c := &Configuration{
		OPRF:    Group(encoded[0]),
		AKE:     Group(encoded[1]),
		KSF:     ksf.Identifier(encoded[2]),
		KDF:     crypto.Hash(encoded[3]),
		MAC:     crypto.Hash(encoded[4]),
		Hash:    crypto.Hash(encoded[5]),
		Context: ctx,
	}

	if err = c.verify(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Configuration) verify() error {
	switch {
	case !c.OPRF.Available() || !c.OPRF.OPRF().Available():
		return ErrConfiguration.Wrap(internal.ErrInvalidOPRFid)
	case !c.AKE.Available():
		return ErrConfiguration.Wrap(internal.ErrInvalidAKEid)
	case !hashAvailable(c.KDF):
		return ErrConfiguration.Wrap(internal.ErrInvalidKDFid)
	case !hashAvailable(c.MAC):
		return ErrConfiguration.Wrap(internal.ErrInvalidMACid)
	case !hashAvailable(c.Hash):
		return ErrConfiguration.Wrap(internal.ErrInvalidHASHid)
	case c.KDF.Size() > c.MAC.Size():
		return ErrConfiguration.Wrap(internal.ErrMACKeyLength)
	case c.KSF != 0 && !c.KSF.Available():
		return ErrConfiguration.Wrap(internal.ErrInvalidKSFid)
	case len(c.Context) > math.MaxUint16:
		return ErrConfiguration.Wrap(internal.ErrInvalidContextEncoding)
	}

	return nil
}

func (c *Configuration) toInternal() (*internal.Configuration, error) {
	if err := c.verify(); err != nil {
		return nil, err
	}

	o := c.OPRF.OPRF()

	ksfLength := c.KSFLength
	if ksfLength == 0 {
		ksfLength = o.Hash().Size()
	}

	stretch, err := iKSF.NewKSF(c.KSF, c.KSFSalt, c.KSFParameters, ksfLength)
	if err != nil {
		return nil, ErrConfiguration.Wrap(internal.ErrInvalidKSFid, err)
	}

	random := c.Random
	if random == nil {
		random = rand.Reader
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mac := internal.NewMac(c.MAC)

	return &internal.Configuration{
		OPRF:         o,
		Group:        c.AKE.Group(),
		KSF:          stretch,
		KDF:          internal.NewKDF(c.KDF),
		MAC:          mac,
		Hash:         c.Hash,
		Random:       random,
		Logger:       logger,
		Context:      c.Context,
		NonceLen:     internal.NonceLength,
		EnvelopeSize: internal.NonceLength + mac.Size(),
	}, nil
}

// Client returns a newly instantiated Client from the Configuration.
func (c *Configuration) Client() (*Client, error) {
	return NewClient(c)
}

// Server returns a newly instantiated Server from the Configuration.
func (c *Configuration) Server() (*Server, error) {
	return NewServer(c)
}

// String returns a compact description of the suite.
func (c *Configuration) String() string {
	return fmt.Sprintf("%d-%d-%d-%s-%s-%s",
		c.OPRF, c.AKE, c.KSF, c.KDF, c.MAC, c.Hash)
}

// MessageSizes holds the byte lengths of every protocol message, persisted value, and fixed-size state for a
// configuration. Client states also carry the password, whose length is not included.
type MessageSizes struct {
	RegistrationRequest    int
	RegistrationResponse   int
	RegistrationRecord     int
	ServerSetup            int
	CredentialRequest      int
	CredentialResponse     int
	CredentialFinalization int
	ClientRegistration     int
	ClientLogin            int
	ServerLogin            int
	SessionKey             int
	ExportKey              int
}

// MessageSizes returns the sizes of the messages and states for this configuration.
func (c *Configuration) MessageSizes() (*MessageSizes, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return newMessageSizes(conf), nil
}

func newMessageSizes(conf *internal.Configuration) *MessageSizes {
	noe := conf.OPRFPointLength()
	npk := conf.AkePointLength()
	nsk := conf.AkeScalarLength()
	nh := conf.HashSize()
	nm := conf.MAC.Size()
	nn := conf.NonceLen
	ke1 := noe + nn + npk

	return &MessageSizes{
		RegistrationRequest:    noe,
		RegistrationResponse:   noe + npk,
		RegistrationRecord:     npk + nh + conf.EnvelopeSize,
		ServerSetup:            nsk + npk + nh,
		CredentialRequest:      ke1,
		CredentialResponse:     noe + nn + conf.MaskedResponseLength() + nn + npk + nm,
		CredentialFinalization: nm,
		ClientRegistration:     conf.OPRFScalarLength(),
		ClientLogin:            conf.OPRFScalarLength() + nsk + ke1,
		ServerLogin:            nm + conf.KDF.Size(),
		SessionKey:             conf.KDF.Size(),
		ExportKey:              conf.KDF.Size(),
	}
}
