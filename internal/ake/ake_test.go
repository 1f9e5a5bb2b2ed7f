// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake_test

import (
	"crypto"
	"crypto/rand"
	"log/slog"
	"testing"

	group "github.com/bytemare/crypto"
	"github.com/stretchr/testify/require"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/ake"
	"github.com/squirrelchat/opaque-go/internal/oprf"
	"github.com/squirrelchat/opaque-go/message"
)

func testConfiguration() *internal.Configuration {
	mac := internal.NewMac(crypto.SHA512)

	return &internal.Configuration{
		KDF:          internal.NewKDF(crypto.SHA512),
		MAC:          mac,
		Random:       rand.Reader,
		Logger:       slog.New(slog.DiscardHandler),
		OPRF:         oprf.Ristretto255Sha512,
		NonceLen:     internal.NonceLength,
		EnvelopeSize: internal.NonceLength + mac.Size(),
		Hash:         crypto.SHA512,
		Group:        group.Ristretto255Sha512,
	}
}

type exchange struct {
	conf            *internal.Configuration
	transcript      *ake.Transcript
	serverSecretKey *group.Scalar
	serverPublicKey *group.Element
	clientSecretKey *group.Scalar
	clientPublicKey *group.Element
	esk             *group.Scalar
	ke1             *message.CredentialRequest
	ke2             *message.CredentialResponse
}

func newExchange(t *testing.T) *exchange {
	t.Helper()

	conf := testConfiguration()

	ssk, spk, err := ake.KeyGen(conf)
	require.NoError(t, err)

	csk, cpk, err := ake.KeyGen(conf)
	require.NoError(t, err)

	esk, epk, err := ake.KeyGen(conf)
	require.NoError(t, err)

	nonce, err := conf.RandomBytes(conf.NonceLen)
	require.NoError(t, err)

	maskingNonce, err := conf.RandomBytes(conf.NonceLen)
	require.NoError(t, err)

	masked, err := conf.RandomBytes(conf.MaskedResponseLength())
	require.NoError(t, err)

	return &exchange{
		conf: conf,
		transcript: &ake.Transcript{
			Context:        []byte("context"),
			ClientIdentity: []byte("client"),
			ServerIdentity: []byte("server"),
		},
		serverSecretKey: ssk,
		serverPublicKey: spk,
		clientSecretKey: csk,
		clientPublicKey: cpk,
		esk:             esk,
		ke1: &message.CredentialRequest{
			BlindedMessage: conf.Group.Base(),
			ClientNonce:    nonce,
			ClientKeyShare: epk,
		},
		ke2: &message.CredentialResponse{
			EvaluatedMessage: conf.Group.Base(),
			MaskingNonce:     maskingNonce,
			MaskedResponse:   masked,
		},
	}
}

func (e *exchange) respond(t *testing.T) *ake.ServerOutput {
	t.Helper()

	out, err := ake.Response(e.conf, e.transcript, e.serverSecretKey, e.clientPublicKey, e.ke1, e.ke2)
	require.NoError(t, err)

	return out
}

func TestKeyExchange(t *testing.T) {
	e := newExchange(t)
	out := e.respond(t)

	require.Len(t, e.ke2.ServerNonce, e.conf.NonceLen)
	require.Len(t, e.ke2.ServerMac, e.conf.MAC.Size())
	require.False(t, ake.IsReflected(e.ke1, e.ke2))

	clientMac, sessionKey, err := ake.Finalize(
		e.conf, e.transcript, e.clientSecretKey, e.esk, e.serverPublicKey, e.ke1, e.ke2)
	require.NoError(t, err)

	require.Equal(t, out.SessionKey, sessionKey)
	require.Equal(t, out.ExpectedClientMac, clientMac)
	require.Len(t, sessionKey, e.conf.KDF.Size())
}

func TestKeyExchange_TranscriptMismatch(t *testing.T) {
	tests := map[string]func(e *exchange){
		"context":         func(e *exchange) { e.transcript.Context = []byte("other") },
		"client identity": func(e *exchange) { e.transcript.ClientIdentity = []byte("mallory") },
		"server identity": func(e *exchange) { e.transcript.ServerIdentity = []byte("mallory") },
		"client nonce":    func(e *exchange) { e.ke1.ClientNonce[0] ^= 1 },
		"masked response": func(e *exchange) { e.ke2.MaskedResponse[0] ^= 1 },
		"server mac":      func(e *exchange) { e.ke2.ServerMac[0] ^= 1 },
	}

	for name, tamper := range tests {
		t.Run(name, func(t *testing.T) {
			e := newExchange(t)
			e.respond(t)
			tamper(e)

			_, _, err := ake.Finalize(
				e.conf, e.transcript, e.clientSecretKey, e.esk, e.serverPublicKey, e.ke1, e.ke2)
			require.ErrorIs(t, err, internal.ErrInvalidServerMac)
		})
	}
}

func TestKeyExchange_WrongClientKey(t *testing.T) {
	e := newExchange(t)
	e.respond(t)

	other, _, err := ake.KeyGen(e.conf)
	require.NoError(t, err)

	_, _, err = ake.Finalize(e.conf, e.transcript, other, e.esk, e.serverPublicKey, e.ke1, e.ke2)
	require.ErrorIs(t, err, internal.ErrInvalidServerMac)
}

func TestIsReflected(t *testing.T) {
	e := newExchange(t)
	e.respond(t)

	e.ke2.ServerKeyShare = e.ke1.ClientKeyShare.Copy()
	require.True(t, ake.IsReflected(e.ke1, e.ke2))
}

func TestDeriveKeyPair(t *testing.T) {
	seed := make([]byte, internal.SeedLength)

	sk1, pk1, err := ake.DeriveKeyPair(group.Ristretto255Sha512, seed)
	require.NoError(t, err)

	sk2, pk2, err := ake.DeriveKeyPair(group.Ristretto255Sha512, seed)
	require.NoError(t, err)

	require.Equal(t, sk1.Encode(), sk2.Encode())
	require.Equal(t, pk1.Encode(), pk2.Encode())
}
