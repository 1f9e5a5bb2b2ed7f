// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package keyrecovery seals and opens the client envelope from which the client's long-term key pair and the
// export key are recovered.
package keyrecovery

import (
	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/ake"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/internal/tag"
)

// Identities holds the optional client and server identities bound into the envelope and the AKE transcript.
// A nil identity defaults to the corresponding public key.
type Identities struct {
	ClientIdentity []byte
	ServerIdentity []byte
}

// Resolve returns the identities with defaults applied.
func (id *Identities) Resolve(clientPublicKey, serverPublicKey []byte) (clientIdentity, serverIdentity []byte) {
	clientIdentity, serverIdentity = clientPublicKey, serverPublicKey

	if id == nil {
		return clientIdentity, serverIdentity
	}

	if id.ClientIdentity != nil {
		clientIdentity = id.ClientIdentity
	}

	if id.ServerIdentity != nil {
		serverIdentity = id.ServerIdentity
	}

	return clientIdentity, serverIdentity
}

// Envelope represents the OPAQUE envelope.
type Envelope struct {
	Nonce   []byte
	AuthTag []byte
}

// Serialize returns the byte serialization of the envelope.
func (e *Envelope) Serialize() []byte {
	return encoding.Concat(e.Nonce, e.AuthTag)
}

// DeserializeEnvelope splits input into nonce and tag. It assumes len(input) == conf.EnvelopeSize.
func DeserializeEnvelope(conf *internal.Configuration, input []byte) *Envelope {
	return &Envelope{
		Nonce:   input[:conf.NonceLen],
		AuthTag: input[conf.NonceLen:],
	}
}

func exportKey(conf *internal.Configuration, randomizedPassword, nonce []byte) []byte {
	return conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.ExportKey), conf.KDF.Size())
}

func authTag(conf *internal.Configuration, randomizedPassword, nonce, ctc []byte) []byte {
	authKey := conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.AuthKey), conf.KDF.Size())
	defer internal.ClearSlice(&authKey)

	return conf.MAC.MAC(authKey, encoding.Concat(nonce, ctc))
}

func cleartextCredentials(serverPublicKey, clientIdentity, serverIdentity []byte) []byte {
	return encoding.Concatenate(
		serverPublicKey,
		encoding.EncodeVector(serverIdentity),
		encoding.EncodeVector(clientIdentity),
	)
}

func deriveClientKeyPair(
	conf *internal.Configuration,
	randomizedPassword, nonce []byte,
) (*group.Scalar, *group.Element, error) {
	seed := conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.ExpandPrivateKey), internal.SeedLength)
	defer internal.ClearSlice(&seed)

	return ake.DeriveKeyPair(conf.Group, seed)
}

// Store returns the client's Envelope, its public key, and the export key.
func Store(
	conf *internal.Configuration,
	randomizedPassword, serverPublicKey, nonce []byte,
	identities *Identities,
) (env *Envelope, clientPublicKey *group.Element, export []byte, err error) {
	sk, clientPublicKey, err := deriveClientKeyPair(conf, randomizedPassword, nonce)
	if err != nil {
		return nil, nil, nil, err
	}

	sk.Zero()

	clientIdentity, serverIdentity := identities.Resolve(clientPublicKey.Encode(), serverPublicKey)
	ctc := cleartextCredentials(serverPublicKey, clientIdentity, serverIdentity)

	env = &Envelope{
		Nonce:   nonce,
		AuthTag: authTag(conf, randomizedPassword, nonce, ctc),
	}

	return env, clientPublicKey, exportKey(conf, randomizedPassword, nonce), nil
}

// Recover returns the client's private and public key, as well as the secret export key, if the envelope
// authenticates under the randomized password and the server public key.
func Recover(
	conf *internal.Configuration,
	randomizedPassword, serverPublicKey []byte,
	envelope *Envelope,
	identities *Identities,
) (clientSecretKey *group.Scalar, clientPublicKey *group.Element, export []byte, err error) {
	clientSecretKey, clientPublicKey, err = deriveClientKeyPair(conf, randomizedPassword, envelope.Nonce)
	if err != nil {
		return nil, nil, nil, err
	}

	clientIdentity, serverIdentity := identities.Resolve(clientPublicKey.Encode(), serverPublicKey)
	ctc := cleartextCredentials(serverPublicKey, clientIdentity, serverIdentity)

	expectedTag := authTag(conf, randomizedPassword, envelope.Nonce, ctc)
	if !conf.MAC.Equal(expectedTag, envelope.AuthTag) {
		clientSecretKey.Zero()
		return nil, nil, nil, internal.ErrEnvelopeInvalidMac
	}

	return clientSecretKey, clientPublicKey, exportKey(conf, randomizedPassword, envelope.Nonce), nil
}
