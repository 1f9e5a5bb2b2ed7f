// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"log/slog"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/ake"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/internal/masking"
	"github.com/squirrelchat/opaque-go/internal/tag"
	"github.com/squirrelchat/opaque-go/message"
)

// Server represents an OPAQUE Server, exposing its functions. It holds no per-flow state and is safe for
// concurrent use.
type Server struct {
	Deserialize *Deserializer
	conf        *internal.Configuration
}

// NewServer returns a Server instantiation given the application Configuration.
func NewServer(c *Configuration) (*Server, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Server{
		Deserialize: newDeserializer(conf),
		conf:        conf,
	}, nil
}

func (s *Server) fail(step string, err error) error {
	s.conf.Logger.Debug("opaque server step failed", slog.String("step", step), slog.Any("error", err))
	return err
}

// NewServerSetup returns fresh key material for this server, drawn from its randomness source.
func (s *Server) NewServerSetup() (*ServerSetup, error) {
	setup, err := newServerSetup(s.conf)
	if err != nil {
		return nil, s.fail("NewServerSetup", err)
	}

	return setup, nil
}

// LoadServerSetup decodes a persisted server setup for this server's configuration.
func (s *Server) LoadServerSetup(data []byte) (*ServerSetup, error) {
	setup, err := loadServerSetup(s.conf, data)
	if err != nil {
		return nil, s.fail("LoadServerSetup", err)
	}

	return setup, nil
}

// oprfKey derives the OPRF key dedicated to the identifier.
func (s *Server) oprfKey(setup *ServerSetup, identifier []byte) (*group.Scalar, error) {
	seed := s.conf.KDF.Expand(
		setup.OPRFSeed,
		encoding.SuffixString(identifier, tag.ExpandOPRF),
		internal.SeedLength,
	)
	defer internal.ClearSlice(&seed)

	ku, err := s.conf.OPRF.DeriveKey(seed, []byte(tag.DeriveKeyPair))
	if err != nil {
		return nil, ErrOPRFEvaluation.Wrap(internal.ErrKeyDerivation, err)
	}

	return ku, nil
}

func (s *Server) evaluate(setup *ServerSetup, identifier []byte, blinded *group.Element) (*group.Element, error) {
	ku, err := s.oprfKey(setup, identifier)
	if err != nil {
		return nil, err
	}
	defer ku.Zero()

	z := s.conf.OPRF.Evaluate(ku, blinded)
	if z.IsIdentity() {
		return nil, ErrOPRFEvaluation.Wrap(internal.ErrInvalidEvaluatedMessage)
	}

	return z, nil
}

// dummyRecord returns a record for an unknown identifier. It is derived from the OPRF seed and the identifier so
// that repeated attempts against the same identifier see the same server behavior.
func (s *Server) dummyRecord(setup *ServerSetup, identifier []byte) (*message.RegistrationRecord, error) {
	seed := s.conf.KDF.Expand(
		setup.OPRFSeed,
		encoding.SuffixString(identifier, tag.DummyClientKey),
		internal.SeedLength,
	)
	defer internal.ClearSlice(&seed)

	sk, pk, err := ake.DeriveKeyPair(s.conf.Group, seed)
	if err != nil {
		return nil, ErrProtocol.Wrap(internal.ErrKeyDerivation, err)
	}

	sk.Zero()

	return &message.RegistrationRecord{
		PublicKey: pk,
		MaskingKey: s.conf.KDF.Expand(
			setup.OPRFSeed,
			encoding.SuffixString(identifier, tag.DummyMaskingKey),
			s.conf.HashSize(),
		),
		Envelope: make([]byte, s.conf.EnvelopeSize),
	}, nil
}

// RegistrationStart evaluates the client's blinded password with the OPRF key of the identifier, and returns the
// response to send back.
func (s *Server) RegistrationStart(
	setup *ServerSetup,
	request, identifier []byte,
) (*message.RegistrationResponse, error) {
	if setup.flushed() {
		return nil, s.fail("RegistrationStart", ErrServerSetup.Wrap(internal.ErrStateFlushed))
	}

	req, err := s.Deserialize.RegistrationRequest(request)
	if err != nil {
		return nil, s.fail("RegistrationStart", err)
	}

	z, err := s.evaluate(setup, identifier, req.BlindedMessage)
	if err != nil {
		return nil, s.fail("RegistrationStart", err)
	}

	return &message.RegistrationResponse{
		EvaluatedMessage: z,
		Pks:              setup.PublicKey.Copy(),
	}, nil
}

// RegistrationFinish validates the client's upload and returns the canonical record to store for the identifier.
func (s *Server) RegistrationFinish(upload []byte) ([]byte, error) {
	record, err := s.Deserialize.RegistrationRecord(upload)
	if err != nil {
		return nil, s.fail("RegistrationFinish", err)
	}

	return record.Serialize(), nil
}

// LoginStart answers a credential request. An empty record designates an unknown identifier, for which a dummy record
// is used so that the response has the same length and structure. It returns the state to keep until LoginFinish
// and the response to send to the client.
func (s *Server) LoginStart(
	setup *ServerSetup,
	record, request, identifier []byte,
	options ...ServerLoginOptions,
) (*ServerLogin, *message.CredentialResponse, error) {
	if setup.flushed() {
		return nil, nil, s.fail("LoginStart", ErrServerSetup.Wrap(internal.ErrStateFlushed))
	}

	ke1, err := s.Deserialize.CredentialRequest(request)
	if err != nil {
		return nil, nil, s.fail("LoginStart", err)
	}

	var rec *message.RegistrationRecord
	if len(record) == 0 {
		rec, err = s.dummyRecord(setup, identifier)
	} else {
		rec, err = s.Deserialize.RegistrationRecord(record)
	}

	if err != nil {
		return nil, nil, s.fail("LoginStart", err)
	}

	z, err := s.evaluate(setup, identifier, ke1.BlindedMessage)
	if err != nil {
		return nil, nil, s.fail("LoginStart", err)
	}

	maskingNonce, err := s.conf.RandomBytes(s.conf.NonceLen)
	if err != nil {
		return nil, nil, s.fail("LoginStart", protocolError(err))
	}

	serverPublicKey := setup.PublicKey.Encode()
	ke2 := &message.CredentialResponse{
		EvaluatedMessage: z,
		MaskingNonce:     maskingNonce,
		MaskedResponse:   masking.Mask(s.conf, rec.MaskingKey, maskingNonce, serverPublicKey, rec.Envelope),
	}

	o, err := s.parseOptions(options)
	if err != nil {
		return nil, nil, s.fail("LoginStart", err)
	}

	clientIdentity, serverIdentity := o.identities.Resolve(rec.PublicKey.Encode(), serverPublicKey)

	out, err := ake.Response(
		s.conf,
		&ake.Transcript{
			Context:        o.context,
			ClientIdentity: clientIdentity,
			ServerIdentity: serverIdentity,
		},
		setup.PrivateKey,
		rec.PublicKey,
		ke1,
		ke2,
	)
	if err != nil {
		return nil, nil, s.fail("LoginStart", protocolError(err))
	}

	return &ServerLogin{
		expectedClientMac: out.ExpectedClientMac,
		sessionKey:        out.SessionKey,
	}, ke2, nil
}

// LoginFinish authenticates the client's finalization against the state and returns the session key. The state is
// consumed and flushed, and the session key is never returned on failure.
func (s *Server) LoginFinish(state *ServerLogin, finalization []byte) ([]byte, error) {
	if state.flushed() {
		return nil, s.fail("LoginFinish", ErrServerState.Wrap(internal.ErrStateFlushed))
	}

	defer state.Flush()

	ke3, err := s.Deserialize.CredentialFinalization(finalization)
	if err != nil {
		return nil, s.fail("LoginFinish", err)
	}

	if !s.conf.MAC.Equal(state.expectedClientMac, ke3.ClientMac) {
		return nil, s.fail("LoginFinish", ErrAuthentication.Wrap(internal.ErrInvalidClientMac))
	}

	return slices.Clone(state.sessionKey), nil
}
