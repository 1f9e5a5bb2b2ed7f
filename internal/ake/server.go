// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/message"
)

// ServerOutput holds the secrets the server keeps between its two login steps.
type ServerOutput struct {
	ExpectedClientMac []byte
	SessionKey        []byte
}

// Response completes ke2 with the server nonce, ephemeral public key and MAC, and returns the values expected at
// login finish. ke2 must already carry the credential response fields.
func Response(
	conf *internal.Configuration,
	transcript *Transcript,
	serverSecretKey *group.Scalar,
	clientPublicKey *group.Element,
	ke1 *message.CredentialRequest,
	ke2 *message.CredentialResponse,
) (*ServerOutput, error) {
	nonce, err := conf.RandomBytes(conf.NonceLen)
	if err != nil {
		return nil, err
	}

	esk, epk, err := KeyGen(conf)
	if err != nil {
		return nil, err
	}
	defer esk.Zero()

	ke2.ServerNonce = nonce
	ke2.ServerKeyShare = epk

	ikm := k3dh(ke1.ClientKeyShare, esk, ke1.ClientKeyShare, serverSecretKey, clientPublicKey, esk)
	defer internal.ClearSlice(&ikm)

	k := core3DH(conf, transcript, ikm, ke1, ke2)
	ke2.ServerMac = k.serverMac

	return &ServerOutput{
		ExpectedClientMac: k.clientMac,
		SessionKey:        k.sessionKey,
	}, nil
}
