// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"errors"
	"math"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/message"
)

// Deserializer exposes the message and state deserialization functions. Every input must have the exact length
// reported by MessageSizes, and every group element and scalar in it must be canonically encoded, non-identity,
// and non-zero. No cryptographic operation runs before these checks pass.
type Deserializer struct {
	conf  *internal.Configuration
	sizes *MessageSizes
}

// Deserializer returns a pointer to a Deserializer structure.
func (c *Configuration) Deserializer() (*Deserializer, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return newDeserializer(conf), nil
}

func newDeserializer(conf *internal.Configuration) *Deserializer {
	return &Deserializer{conf: conf, sizes: newMessageSizes(conf)}
}

func decodeElement(g group.Group, input []byte) (*group.Element, error) {
	e := g.NewElement()
	if err := e.Decode(input); err != nil {
		return nil, errors.Join(internal.ErrInvalidElement, err)
	}

	if e.IsIdentity() {
		return nil, internal.ErrElementIsIdentity
	}

	return e, nil
}

func decodeScalar(g group.Group, input []byte) (*group.Scalar, error) {
	s := g.NewScalar()
	if err := s.Decode(input); err != nil {
		return nil, errors.Join(internal.ErrInvalidScalar, err)
	}

	if s.IsZero() {
		return nil, internal.ErrScalarIsZero
	}

	return s, nil
}

// RegistrationRequest takes a serialized RegistrationRequest message and returns a deserialized
// RegistrationRequest structure.
func (d *Deserializer) RegistrationRequest(registrationRequest []byte) (*message.RegistrationRequest, error) {
	if len(registrationRequest) != d.sizes.RegistrationRequest {
		return nil, ErrRegistrationRequest.Wrap(internal.ErrInvalidEncodingLength)
	}

	blinded, err := decodeElement(d.conf.OPRF.Group(), registrationRequest)
	if err != nil {
		return nil, ErrRegistrationRequest.Wrap(internal.ErrInvalidBlindedMessage, err)
	}

	return &message.RegistrationRequest{BlindedMessage: blinded}, nil
}

// RegistrationResponse takes a serialized RegistrationResponse message and returns a deserialized
// RegistrationResponse structure.
func (d *Deserializer) RegistrationResponse(registrationResponse []byte) (*message.RegistrationResponse, error) {
	if len(registrationResponse) != d.sizes.RegistrationResponse {
		return nil, ErrRegistrationResponse.Wrap(internal.ErrInvalidEncodingLength)
	}

	split := encoding.NewSplitter(registrationResponse)

	evaluated, err := decodeElement(d.conf.OPRF.Group(), split.Next(d.conf.OPRFPointLength()))
	if err != nil {
		return nil, ErrRegistrationResponse.Wrap(internal.ErrInvalidEvaluatedMessage, err)
	}

	pks, err := decodeElement(d.conf.Group, split.Rest())
	if err != nil {
		return nil, ErrRegistrationResponse.Wrap(internal.ErrInvalidServerPublicKey, err)
	}

	return &message.RegistrationResponse{
		EvaluatedMessage: evaluated,
		Pks:              pks,
	}, nil
}

// RegistrationRecord takes a serialized RegistrationRecord message and returns a deserialized
// RegistrationRecord structure.
func (d *Deserializer) RegistrationRecord(record []byte) (*message.RegistrationRecord, error) {
	if len(record) != d.sizes.RegistrationRecord {
		return nil, ErrRegistrationRecord.Wrap(internal.ErrInvalidEncodingLength)
	}

	split := encoding.NewSplitter(record)

	pk, err := decodeElement(d.conf.Group, split.Next(d.conf.AkePointLength()))
	if err != nil {
		return nil, ErrRegistrationRecord.Wrap(internal.ErrInvalidClientPublicKey, err)
	}

	return &message.RegistrationRecord{
		PublicKey:  pk,
		MaskingKey: slices.Clone(split.Next(d.conf.HashSize())),
		Envelope:   slices.Clone(split.Rest()),
	}, nil
}

func (d *Deserializer) credentialRequest(input []byte) (*message.CredentialRequest, error) {
	split := encoding.NewSplitter(input)

	blinded, err := decodeElement(d.conf.OPRF.Group(), split.Next(d.conf.OPRFPointLength()))
	if err != nil {
		return nil, errors.Join(internal.ErrInvalidBlindedMessage, err)
	}

	nonce := slices.Clone(split.Next(d.conf.NonceLen))

	epk, err := decodeElement(d.conf.Group, split.Rest())
	if err != nil {
		return nil, errors.Join(internal.ErrInvalidClientKeyShare, err)
	}

	return &message.CredentialRequest{
		BlindedMessage: blinded,
		ClientNonce:    nonce,
		ClientKeyShare: epk,
	}, nil
}

// CredentialRequest takes a serialized CredentialRequest message and returns a deserialized
// CredentialRequest structure.
func (d *Deserializer) CredentialRequest(request []byte) (*message.CredentialRequest, error) {
	if len(request) != d.sizes.CredentialRequest {
		return nil, ErrCredentialRequest.Wrap(internal.ErrInvalidEncodingLength)
	}

	ke1, err := d.credentialRequest(request)
	if err != nil {
		return nil, ErrCredentialRequest.Wrap(err)
	}

	return ke1, nil
}

// CredentialResponse takes a serialized CredentialResponse message and returns a deserialized
// CredentialResponse structure. The masked server public key and envelope are not checked here.
func (d *Deserializer) CredentialResponse(response []byte) (*message.CredentialResponse, error) {
	if len(response) != d.sizes.CredentialResponse {
		return nil, ErrCredentialResponse.Wrap(internal.ErrInvalidEncodingLength)
	}

	split := encoding.NewSplitter(response)

	evaluated, err := decodeElement(d.conf.OPRF.Group(), split.Next(d.conf.OPRFPointLength()))
	if err != nil {
		return nil, ErrCredentialResponse.Wrap(internal.ErrInvalidEvaluatedMessage, err)
	}

	maskingNonce := slices.Clone(split.Next(d.conf.NonceLen))
	masked := slices.Clone(split.Next(d.conf.MaskedResponseLength()))
	serverNonce := slices.Clone(split.Next(d.conf.NonceLen))

	epk, err := decodeElement(d.conf.Group, split.Next(d.conf.AkePointLength()))
	if err != nil {
		return nil, ErrCredentialResponse.Wrap(internal.ErrInvalidServerKeyShare, err)
	}

	return &message.CredentialResponse{
		EvaluatedMessage: evaluated,
		MaskingNonce:     maskingNonce,
		MaskedResponse:   masked,
		ServerNonce:      serverNonce,
		ServerKeyShare:   epk,
		ServerMac:        slices.Clone(split.Rest()),
	}, nil
}

// CredentialFinalization takes a serialized CredentialFinalization message and returns a deserialized
// CredentialFinalization structure.
func (d *Deserializer) CredentialFinalization(finalization []byte) (*message.CredentialFinalization, error) {
	if len(finalization) != d.sizes.CredentialFinalization {
		return nil, ErrCredentialFinalization.Wrap(internal.ErrInvalidEncodingLength)
	}

	return &message.CredentialFinalization{ClientMac: slices.Clone(finalization)}, nil
}

// ClientRegistration decodes a client registration state, as returned by ClientRegistration.Serialize.
func (d *Deserializer) ClientRegistration(state []byte) (*ClientRegistration, error) {
	if len(state) < d.sizes.ClientRegistration {
		return nil, ErrClientState.Wrap(internal.ErrInvalidEncodingLength)
	}

	if len(state) > d.sizes.ClientRegistration+math.MaxUint16 {
		return nil, ErrClientState.Wrap(internal.ErrInputTooLong)
	}

	split := encoding.NewSplitter(state)

	blind, err := decodeScalar(d.conf.OPRF.Group(), split.Next(d.conf.OPRFScalarLength()))
	if err != nil {
		return nil, ErrClientState.Wrap(err)
	}

	return &ClientRegistration{
		blind:    blind,
		password: slices.Clone(split.Rest()),
	}, nil
}

// ClientLogin decodes a client login state, as returned by ClientLogin.Serialize.
func (d *Deserializer) ClientLogin(state []byte) (*ClientLogin, error) {
	if len(state) < d.sizes.ClientLogin {
		return nil, ErrClientState.Wrap(internal.ErrInvalidEncodingLength)
	}

	if len(state) > d.sizes.ClientLogin+math.MaxUint16 {
		return nil, ErrClientState.Wrap(internal.ErrInputTooLong)
	}

	split := encoding.NewSplitter(state)

	blind, err := decodeScalar(d.conf.OPRF.Group(), split.Next(d.conf.OPRFScalarLength()))
	if err != nil {
		return nil, ErrClientState.Wrap(err)
	}

	esk, err := decodeScalar(d.conf.Group, split.Next(d.conf.AkeScalarLength()))
	if err != nil {
		blind.Zero()
		return nil, ErrClientState.Wrap(internal.ErrInvalidPrivateKey, err)
	}

	ke1, err := d.credentialRequest(split.Next(d.sizes.CredentialRequest))
	if err != nil {
		blind.Zero()
		esk.Zero()

		return nil, ErrClientState.Wrap(err)
	}

	return &ClientLogin{
		blind:              blind,
		ephemeralSecretKey: esk,
		request:            ke1,
		password:           slices.Clone(split.Rest()),
	}, nil
}

// ServerLogin decodes a server login state, as returned by ServerLogin.Serialize.
func (d *Deserializer) ServerLogin(state []byte) (*ServerLogin, error) {
	if len(state) != d.sizes.ServerLogin {
		return nil, ErrServerState.Wrap(internal.ErrInvalidEncodingLength)
	}

	split := encoding.NewSplitter(state)

	return &ServerLogin{
		expectedClientMac: slices.Clone(split.Next(d.conf.MAC.Size())),
		sessionKey:        slices.Clone(split.Rest()),
	}, nil
}
