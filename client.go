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
	"log/slog"
	"math"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/ake"
	"github.com/squirrelchat/opaque-go/internal/encoding"
	"github.com/squirrelchat/opaque-go/internal/keyrecovery"
	"github.com/squirrelchat/opaque-go/internal/masking"
	"github.com/squirrelchat/opaque-go/message"
)

// Client represents an OPAQUE Client, exposing its functions and holding its state. It holds no per-flow state
// and is safe for concurrent use.
type Client struct {
	Deserialize *Deserializer
	conf        *internal.Configuration
}

// NewClient returns a new Client instantiation given the application Configuration.
func NewClient(c *Configuration) (*Client, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Client{
		Deserialize: newDeserializer(conf),
		conf:        conf,
	}, nil
}

func (c *Client) fail(step string, err error) error {
	c.conf.Logger.Debug("opaque client step failed", slog.String("step", step), slog.Any("error", err))
	return err
}

// RegistrationResult is the output of the client's last registration step.
type RegistrationResult struct {
	// Record is the upload to send to the server.
	Record *message.RegistrationRecord

	// ExportKey is an application key that only the client can recompute at login.
	ExportKey []byte

	// ServerPublicKey is the server public key the record was sealed for.
	ServerPublicKey []byte
}

// LoginResult is the output of the client's last login step.
type LoginResult struct {
	// Message is the finalization to send to the server.
	Message *message.CredentialFinalization

	// ServerPublicKey is the server public key recovered from the credential response.
	ServerPublicKey []byte

	// SessionKey is the key shared with the server once it accepts Message.
	SessionKey []byte

	// ExportKey is the same export key as returned at registration.
	ExportKey []byte
}

func (c *Client) blind(password []byte) (*group.Scalar, *group.Element, error) {
	if len(password) > math.MaxUint16 {
		return nil, nil, internal.ErrInputTooLong
	}

	blind, err := c.conf.RandomScalar(c.conf.OPRF.Group())
	if err != nil {
		return nil, nil, err
	}

	blinded, err := c.conf.OPRF.Blind(password, blind)
	if err != nil {
		blind.Zero()
		return nil, nil, errors.Join(internal.ErrOPRFInputIdentity, err)
	}

	return blind, blinded, nil
}

// randomizedPassword finalizes the OPRF and hardens its output.
func (c *Client) randomizedPassword(password []byte, blind *group.Scalar, evaluation *group.Element) []byte {
	output := c.conf.OPRF.Finalize(blind, password, evaluation)
	defer internal.ClearSlice(&output)

	stretched := c.conf.KSF.Stretch(output)
	ikm := encoding.Concat(output, stretched)

	defer internal.ClearSlice(&ikm)

	return c.conf.KDF.Extract(nil, ikm)
}

// RegistrationStart blinds the password and returns the state to keep and the request to send to the server.
func (c *Client) RegistrationStart(password []byte) (*ClientRegistration, *message.RegistrationRequest, error) {
	blind, blinded, err := c.blind(password)
	if err != nil {
		return nil, nil, c.fail("RegistrationStart", protocolError(err))
	}

	return &ClientRegistration{
			blind:    blind,
			password: slices.Clone(password),
		}, &message.RegistrationRequest{
			BlindedMessage: blinded,
		}, nil
}

// RegistrationFinish seals a new envelope with the server's response and returns the record to upload, together
// with the export key. The state is consumed and flushed.
func (c *Client) RegistrationFinish(
	state *ClientRegistration,
	response []byte,
	options ...ClientOptions,
) (*RegistrationResult, error) {
	if state.flushed() {
		return nil, c.fail("RegistrationFinish", ErrClientState.Wrap(internal.ErrStateFlushed))
	}

	defer state.Flush()

	resp, err := c.Deserialize.RegistrationResponse(response)
	if err != nil {
		return nil, c.fail("RegistrationFinish", err)
	}

	o, err := c.parseOptions(options)
	if err != nil {
		return nil, c.fail("RegistrationFinish", err)
	}

	serverPublicKey := resp.Pks.Encode()

	randomizedPassword := c.randomizedPassword(state.password, state.blind, resp.EvaluatedMessage)
	defer internal.ClearSlice(&randomizedPassword)

	nonce, err := c.conf.RandomBytes(c.conf.NonceLen)
	if err != nil {
		return nil, c.fail("RegistrationFinish", protocolError(err))
	}

	envelope, clientPublicKey, exportKey, err := keyrecovery.Store(
		c.conf,
		randomizedPassword,
		serverPublicKey,
		nonce,
		&o.identities,
	)
	if err != nil {
		return nil, c.fail("RegistrationFinish", protocolError(err))
	}

	return &RegistrationResult{
		Record: &message.RegistrationRecord{
			PublicKey:  clientPublicKey,
			MaskingKey: masking.Key(c.conf, randomizedPassword),
			Envelope:   envelope.Serialize(),
		},
		ExportKey:       exportKey,
		ServerPublicKey: serverPublicKey,
	}, nil
}

// LoginStart blinds the password and generates the ephemeral key exchange values. It returns the state to keep
// and the request to send to the server.
func (c *Client) LoginStart(password []byte) (*ClientLogin, *message.CredentialRequest, error) {
	blind, blinded, err := c.blind(password)
	if err != nil {
		return nil, nil, c.fail("LoginStart", protocolError(err))
	}

	nonce, err := c.conf.RandomBytes(c.conf.NonceLen)
	if err != nil {
		blind.Zero()
		return nil, nil, c.fail("LoginStart", protocolError(err))
	}

	esk, epk, err := ake.KeyGen(c.conf)
	if err != nil {
		blind.Zero()
		return nil, nil, c.fail("LoginStart", protocolError(err))
	}

	ke1 := &message.CredentialRequest{
		BlindedMessage: blinded,
		ClientNonce:    nonce,
		ClientKeyShare: epk,
	}

	return &ClientLogin{
		blind:              blind,
		ephemeralSecretKey: esk,
		request:            ke1,
		password:           slices.Clone(password),
	}, ke1, nil
}

// LoginFinish recovers the client's credentials from the server's response, authenticates the server, and returns
// the finalization message together with the session key and the export key. Any failure to authenticate yields
// ErrAuthentication. The state is consumed and flushed.
func (c *Client) LoginFinish(state *ClientLogin, response []byte, options ...ClientOptions) (*LoginResult, error) {
	if state.flushed() {
		return nil, c.fail("LoginFinish", ErrClientState.Wrap(internal.ErrStateFlushed))
	}

	defer state.Flush()

	ke2, err := c.Deserialize.CredentialResponse(response)
	if err != nil {
		return nil, c.fail("LoginFinish", err)
	}

	if ake.IsReflected(state.request, ke2) {
		return nil, c.fail("LoginFinish", ErrReflectedValue.Wrap(internal.ErrReflectedKeyShare))
	}

	o, err := c.parseOptions(options)
	if err != nil {
		return nil, c.fail("LoginFinish", err)
	}

	randomizedPassword := c.randomizedPassword(state.password, state.blind, ke2.EvaluatedMessage)
	defer internal.ClearSlice(&randomizedPassword)

	maskingKey := masking.Key(c.conf, randomizedPassword)
	defer internal.ClearSlice(&maskingKey)

	serverPublicKeyBytes, envelopeBytes := masking.Unmask(c.conf, maskingKey, ke2.MaskingNonce, ke2.MaskedResponse)

	serverPublicKey, err := decodeElement(c.conf.Group, serverPublicKeyBytes)
	if err != nil {
		return nil, c.fail("LoginFinish", ErrAuthentication.Wrap(internal.ErrInvalidServerPublicKey, err))
	}

	clientSecretKey, clientPublicKey, exportKey, err := keyrecovery.Recover(
		c.conf,
		randomizedPassword,
		serverPublicKeyBytes,
		keyrecovery.DeserializeEnvelope(c.conf, envelopeBytes),
		&o.identities,
	)
	if err != nil {
		return nil, c.fail("LoginFinish", ErrAuthentication.Wrap(err))
	}

	defer clientSecretKey.Zero()

	clientIdentity, serverIdentity := o.identities.Resolve(clientPublicKey.Encode(), serverPublicKeyBytes)

	clientMac, sessionKey, err := ake.Finalize(
		c.conf,
		&ake.Transcript{
			Context:        o.context,
			ClientIdentity: clientIdentity,
			ServerIdentity: serverIdentity,
		},
		clientSecretKey,
		state.ephemeralSecretKey,
		serverPublicKey,
		state.request,
		ke2,
	)
	if err != nil {
		internal.ClearSlice(&exportKey)
		return nil, c.fail("LoginFinish", ErrAuthentication.Wrap(err))
	}

	return &LoginResult{
		Message:         &message.CredentialFinalization{ClientMac: clientMac},
		ServerPublicKey: serverPublicKeyBytes,
		SessionKey:      sessionKey,
		ExportKey:       exportKey,
	}, nil
}
