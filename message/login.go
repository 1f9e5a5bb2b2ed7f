// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package message

import (
	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal/encoding"
)

// CredentialRequest is the first message of the login flow, created by the client and sent to the server. It
// carries the blinded password and the client's ephemeral AKE material.
type CredentialRequest struct {
	BlindedMessage *group.Element `json:"blindedMessage"`
	ClientNonce    []byte         `json:"clientNonce"`
	ClientKeyShare *group.Element `json:"clientKeyShare"`
}

// Serialize returns the byte encoding of CredentialRequest.
func (c *CredentialRequest) Serialize() []byte {
	return encoding.Concatenate(c.BlindedMessage.Encode(), c.ClientNonce, c.ClientKeyShare.Encode())
}

// CredentialResponse is the second message of the login flow, created by the server and sent to the client. It
// combines the OPRF evaluation, the masked server public key and envelope, and the server's AKE material.
type CredentialResponse struct {
	EvaluatedMessage *group.Element `json:"evaluatedMessage"`
	MaskingNonce     []byte         `json:"maskingNonce"`
	MaskedResponse   []byte         `json:"maskedResponse"`
	ServerNonce      []byte         `json:"serverNonce"`
	ServerKeyShare   *group.Element `json:"serverKeyShare"`
	ServerMac        []byte         `json:"serverMac"`
}

// CredentialPart returns the encoding of the OPRF and masking fields, as bound into the AKE transcript.
func (c *CredentialResponse) CredentialPart() []byte {
	return encoding.Concatenate(c.EvaluatedMessage.Encode(), c.MaskingNonce, c.MaskedResponse)
}

// Serialize returns the byte encoding of CredentialResponse.
func (c *CredentialResponse) Serialize() []byte {
	return encoding.Concatenate(c.CredentialPart(), c.ServerNonce, c.ServerKeyShare.Encode(), c.ServerMac)
}

// CredentialFinalization is the third and last message of the login flow, created by the client and sent to the
// server.
type CredentialFinalization struct {
	ClientMac []byte `json:"clientMac"`
}

// Serialize returns the byte encoding of CredentialFinalization.
func (c *CredentialFinalization) Serialize() []byte {
	return c.ClientMac
}
