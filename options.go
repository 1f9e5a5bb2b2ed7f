// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"math"

	"github.com/squirrelchat/opaque-go/internal"
	"github.com/squirrelchat/opaque-go/internal/keyrecovery"
)

// ClientOptions carry the optional identities bound into the envelope and the key exchange. Nil identities default
// to the corresponding public keys, and both parties must use the same values at registration and at login.
// Context overrides the configuration's context in the login key exchange only; registration ignores it.
// Each field is limited to 65535 bytes.
type ClientOptions struct {
	Context        []byte
	ClientIdentity []byte
	ServerIdentity []byte
}

// ServerLoginOptions carry the server side counterpart of ClientOptions for LoginStart.
type ServerLoginOptions struct {
	Context        []byte
	ClientIdentity []byte
	ServerIdentity []byte
}

type flowOptions struct {
	identities keyrecovery.Identities
	context    []byte
}

func parseOptions(defaultContext, context, clientIdentity, serverIdentity []byte) (*flowOptions, error) {
	if len(context) > math.MaxUint16 || len(clientIdentity) > math.MaxUint16 || len(serverIdentity) > math.MaxUint16 {
		return nil, ErrConfiguration.Wrap(internal.ErrInputTooLong)
	}

	o := &flowOptions{
		identities: keyrecovery.Identities{
			ClientIdentity: clientIdentity,
			ServerIdentity: serverIdentity,
		},
		context: defaultContext,
	}

	if context != nil {
		o.context = context
	}

	return o, nil
}

func (c *Client) parseOptions(options []ClientOptions) (*flowOptions, error) {
	if len(options) == 0 {
		return parseOptions(c.conf.Context, nil, nil, nil)
	}

	return parseOptions(c.conf.Context, options[0].Context, options[0].ClientIdentity, options[0].ServerIdentity)
}

func (s *Server) parseOptions(options []ServerLoginOptions) (*flowOptions, error) {
	if len(options) == 0 {
		return parseOptions(s.conf.Context, nil, nil, nil)
	}

	return parseOptions(s.conf.Context, options[0].Context, options[0].ClientIdentity, options[0].ServerIdentity)
}
