// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ake implements the 3DH authenticated key exchange used in the login flow.
package ake

import (
	"crypto/subtle"

	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/internal/oprf"
	"github.com/squirrelchat/opaque-go/internal/tag"
	"github.com/squirrelchat/opaque-go/message"
)

// DeriveKeyPair returns the AKE key pair deterministically derived from seed.
func DeriveKeyPair(g group.Group, seed []byte) (*group.Scalar, *group.Element, error) {
	return oprf.IDFromGroup(g).DeriveKeyPair(seed, []byte(tag.DeriveDiffieHellmanKeyPair))
}

// KeyGen returns a fresh key pair in the AKE group, derived from a seed read from the configured randomness.
func KeyGen(conf *internal.Configuration) (*group.Scalar, *group.Element, error) {
	seed, err := conf.RandomBytes(internal.SeedLength)
	if err != nil {
		return nil, nil, err
	}
	defer internal.ClearSlice(&seed)

	return DeriveKeyPair(conf.Group, seed)
}

// Transcript holds the context and the resolved identities bound into the key exchange transcript.
type Transcript struct {
	Context        []byte
	ClientIdentity []byte
	ServerIdentity []byte
}

// IsReflected returns whether the server's ephemeral public key equals the client's, in constant time.
func IsReflected(ke1 *message.CredentialRequest, ke2 *message.CredentialResponse) bool {
	return subtle.ConstantTimeCompare(ke1.ClientKeyShare.Encode(), ke2.ServerKeyShare.Encode()) == 1
}

func diffieHellman(s *group.Scalar, e *group.Element) []byte {
	return e.Copy().Multiply(s).Encode()
}

func k3dh(
	p1 *group.Element,
	s1 *group.Scalar,
	p2 *group.Element,
	s2 *group.Scalar,
	p3 *group.Element,
	s3 *group.Scalar,
) []byte {
	return encoding.Concatenate(diffieHellman(s1, p1), diffieHellman(s2, p2), diffieHellman(s3, p3))
}

// keys holds the output of the 3DH key schedule.
type keys struct {
	sessionKey, serverMac, clientMac []byte
}

func (k *keys) flush() {
	internal.ClearSlice(&k.sessionKey)
	internal.ClearSlice(&k.serverMac)
	internal.ClearSlice(&k.clientMac)
}

func core3DH(
	conf *internal.Configuration,
	transcript *Transcript,
	ikm []byte,
	ke1 *message.CredentialRequest,
	ke2 *message.CredentialResponse,
) *keys {
	h := conf.NewHash()
	h.Write(
		[]byte(tag.VersionTag),
		encoding.EncodeVector(transcript.Context),
		encoding.EncodeVector(transcript.ClientIdentity),
		ke1.Serialize(),
		encoding.EncodeVector(transcript.ServerIdentity),
		ke2.CredentialPart(),
		ke2.ServerNonce,
		ke2.ServerKeyShare.Encode(),
	)

	preamble := h.Sum()
	serverMacKey, clientMacKey, sessionKey := deriveKeys(conf.KDF, ikm, preamble)

	defer internal.ClearSlice(&serverMacKey)
	defer internal.ClearSlice(&clientMacKey)

	serverMac := conf.MAC.MAC(serverMacKey, preamble)
	h.Write(serverMac)
	clientMac := conf.MAC.MAC(clientMacKey, h.Sum())

	return &keys{
		sessionKey: sessionKey,
		serverMac:  serverMac,
		clientMac:  clientMac,
	}
}

func buildLabel(length int, label, context []byte) []byte {
	return encoding.Concatenate(
		encoding.I2OSP(length, 2),
		encoding.EncodeVectorLen(append([]byte(tag.LabelPrefix), label...), 1),
		encoding.EncodeVectorLen(context, 1))
}

func expandLabel(h *internal.KDF, secret, label, context []byte) []byte {
	return h.Expand(secret, buildLabel(h.Size(), label, context), h.Size())
}

func deriveKeys(h *internal.KDF, ikm, context []byte) (serverMacKey, clientMacKey, sessionSecret []byte) {
	prk := h.Extract(nil, ikm)
	defer internal.ClearSlice(&prk)

	handshakeSecret := expandLabel(h, prk, []byte(tag.Handshake), context)
	defer internal.ClearSlice(&handshakeSecret)

	sessionSecret = expandLabel(h, prk, []byte(tag.SessionKey), context)
	serverMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacServer), nil)
	clientMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacClient), nil)

	return serverMacKey, clientMacKey, sessionSecret
}
