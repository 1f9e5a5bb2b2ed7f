// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"crypto"
	"encoding/hex"
	"math/rand/v2"
	"testing"

	"github.com/bytemare/ksf"

	"github.com/squirrelchat/opaque-go"
	"github.com/squirrelchat/opaque-go/message"
)

const dbgErr = "%+v"

type configuration struct {
	conf *opaque.Configuration
	name string
}

// Most configurations leave the key stretching function out to keep the suite fast. TestFull runs the default
// configuration with Argon2id.
var configurationTable = []*configuration{
	{
		name: "Ristretto255",
		conf: &opaque.Configuration{
			OPRF: opaque.RistrettoSha512,
			KDF:  crypto.SHA512,
			MAC:  crypto.SHA512,
			Hash: crypto.SHA512,
			AKE:  opaque.RistrettoSha512,
		},
	},
	{
		name: "P256Sha256",
		conf: &opaque.Configuration{
			OPRF: opaque.P256Sha256,
			KDF:  crypto.SHA256,
			MAC:  crypto.SHA256,
			Hash: crypto.SHA256,
			AKE:  opaque.P256Sha256,
		},
	},
	{
		name: "P384Sha384",
		conf: &opaque.Configuration{
			OPRF:    opaque.P384Sha384,
			KDF:     crypto.SHA384,
			MAC:     crypto.SHA384,
			Hash:    crypto.SHA384,
			AKE:     opaque.P384Sha384,
			Context: []byte("OPAQUE-P384"),
		},
	},
	{
		name: "P521Sha512",
		conf: &opaque.Configuration{
			OPRF: opaque.P521Sha512,
			KDF:  crypto.SHA512,
			MAC:  crypto.SHA512,
			Hash: crypto.SHA512,
			KSF:  ksf.PBKDF2Sha512,
			AKE:  opaque.P521Sha512,
		},
	},
}

func testAll(t *testing.T, f func(*testing.T, *configuration)) {
	for _, test := range configurationTable {
		t.Run(test.name, func(t *testing.T) {
			f(t, test)
		})
	}
}

// deterministicReader returns a reproducible randomness source.
func deterministicReader(seed byte) *rand.ChaCha8 {
	var s [32]byte
	s[0] = seed

	return rand.NewChaCha8(s)
}

func getBadRistrettoScalar() []byte {
	a := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	decoded, _ := hex.DecodeString(a)

	return decoded
}

func getBadRistrettoElement() []byte {
	a := "2a292df7e32cababbd9de088d1d1abec9fc0440f637ed2fba145094dc14bea08"
	decoded, _ := hex.DecodeString(a)

	return decoded
}

func flipBit(input []byte, i int) []byte {
	out := append([]byte{}, input...)
	out[i/8] ^= 1 << (i % 8)

	return out
}

// session bundles one client, one server and their setup for a single configuration.
type session struct {
	t          *testing.T
	client     *opaque.Client
	server     *opaque.Server
	setup      *opaque.ServerSetup
	identifier []byte
}

func newSession(t *testing.T, conf *opaque.Configuration) *session {
	t.Helper()

	client, err := conf.Client()
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	server, err := conf.Server()
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	setup, err := opaque.NewServerSetup(conf, nil)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	return &session{
		t:          t,
		client:     client,
		server:     server,
		setup:      setup,
		identifier: []byte("client@example.com"),
	}
}

// registrationResponse runs the first two registration steps.
func (s *session) registrationResponse(password []byte) (*opaque.ClientRegistration, []byte) {
	s.t.Helper()

	state, request, err := s.client.RegistrationStart(password)
	if err != nil {
		s.t.Fatalf(dbgErr, err)
	}

	response, err := s.server.RegistrationStart(s.setup, request.Serialize(), s.identifier)
	if err != nil {
		s.t.Fatalf(dbgErr, err)
	}

	return state, response.Serialize()
}

// register runs the full registration and returns the stored record and the export key.
func (s *session) register(password []byte, options ...opaque.ClientOptions) ([]byte, []byte) {
	s.t.Helper()

	state, response := s.registrationResponse(password)

	result, err := s.client.RegistrationFinish(state, response, options...)
	if err != nil {
		s.t.Fatalf(dbgErr, err)
	}

	record, err := s.server.RegistrationFinish(result.Record.Serialize())
	if err != nil {
		s.t.Fatalf(dbgErr, err)
	}

	return record, result.ExportKey
}

// credentialResponse runs the first two login steps.
func (s *session) credentialResponse(
	password, record []byte,
	options ...opaque.ServerLoginOptions,
) (*opaque.ClientLogin, *opaque.ServerLogin, *message.CredentialRequest, []byte) {
	s.t.Helper()

	clientState, ke1, err := s.client.LoginStart(password)
	if err != nil {
		s.t.Fatalf(dbgErr, err)
	}

	serverState, ke2, err := s.server.LoginStart(s.setup, record, ke1.Serialize(), s.identifier, options...)
	if err != nil {
		s.t.Fatalf(dbgErr, err)
	}

	return clientState, serverState, ke1, ke2.Serialize()
}
