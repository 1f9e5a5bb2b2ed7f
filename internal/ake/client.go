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

// Finalize verifies the server MAC in ke2 and returns the client MAC and the session key.
func Finalize(
	conf *internal.Configuration,
	transcript *Transcript,
	clientSecretKey, ephemeralSecretKey *group.Scalar,
	serverPublicKey *group.Element,
	ke1 *message.CredentialRequest,
	ke2 *message.CredentialResponse,
) (clientMac, sessionKey []byte, err error) {
	ikm := k3dh(
		ke2.ServerKeyShare, ephemeralSecretKey,
		serverPublicKey, ephemeralSecretKey,
		ke2.ServerKeyShare, clientSecretKey,
	)
	defer internal.ClearSlice(&ikm)

	k := core3DH(conf, transcript, ikm, ke1, ke2)

	if !conf.MAC.Equal(k.serverMac, ke2.ServerMac) {
		k.flush()
		return nil, nil, internal.ErrInvalidServerMac
	}

	return k.clientMac, k.sessionKey, nil
}
