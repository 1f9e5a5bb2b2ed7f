// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/message"
)

// ClientRegistration is the client state kept between RegistrationStart and RegistrationFinish. It contains the
// password and must never leave the client.
type ClientRegistration struct {
	blind    *group.Scalar
	password []byte
}

// Serialize returns the byte encoding of the state: the blind followed by the password.
func (s *ClientRegistration) Serialize() []byte {
	return encoding.Concat(s.blind.Encode(), s.password)
}

// Flush does a best-effort attempt to clear the state from memory.
func (s *ClientRegistration) Flush() {
	internal.ClearScalar(&s.blind)
	internal.ClearSlice(&s.password)
}

func (s *ClientRegistration) flushed() bool {
	return s == nil || s.blind == nil
}

// ClientLogin is the client state kept between LoginStart and LoginFinish. It contains the password and must never
// leave the client.
type ClientLogin struct {
	blind              *group.Scalar
	ephemeralSecretKey *group.Scalar
	request            *message.CredentialRequest
	password           []byte
}

// Serialize returns the byte encoding of the state: the blind, the ephemeral secret key, the credential request
// sent to the server, then the password.
func (s *ClientLogin) Serialize() []byte {
	return encoding.Concatenate(
		s.blind.Encode(),
		s.ephemeralSecretKey.Encode(),
		s.request.Serialize(),
		s.password,
	)
}

// Flush does a best-effort attempt to clear the state from memory.
func (s *ClientLogin) Flush() {
	internal.ClearScalar(&s.blind)
	internal.ClearScalar(&s.ephemeralSecretKey)
	internal.ClearSlice(&s.password)
	s.request = nil
}

func (s *ClientLogin) flushed() bool {
	return s == nil || s.blind == nil || s.ephemeralSecretKey == nil || s.request == nil
}

// ServerLogin is the server state kept between LoginStart and LoginFinish.
type ServerLogin struct {
	expectedClientMac []byte
	sessionKey        []byte
}

// Serialize returns the byte encoding of the state: the expected client MAC followed by the session key.
func (s *ServerLogin) Serialize() []byte {
	return encoding.Concat(s.expectedClientMac, s.sessionKey)
}

// Flush does a best-effort attempt to clear the state from memory.
func (s *ServerLogin) Flush() {
	internal.ClearSlice(&s.expectedClientMac)
	internal.ClearSlice(&s.sessionKey)
}

func (s *ServerLogin) flushed() bool {
	return s == nil || s.expectedClientMac == nil || s.sessionKey == nil
}
