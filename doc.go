// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package opaque implements the OPAQUE asymmetric password-authenticated key exchange protocol.
//
// OPAQUE lets a client holding a password and a server holding only a password-derived record establish a shared
// session key. The server never sees the password, and a stolen record does not allow offline guessing without
// the server's OPRF seed.
//
// The protocol runs in two flows, each made of four steps alternating between the parties:
//
//	Registration: Client.RegistrationStart, Server.RegistrationStart, Client.RegistrationFinish,
//	Server.RegistrationFinish.
//	Login: Client.LoginStart, Server.LoginStart, Client.LoginFinish, Server.LoginFinish.
//
// Intermediate states (ClientRegistration, ClientLogin, ServerLogin) are plain values that can be serialized and
// handed back later with the Deserializer. Client and Server hold no per-flow state and are safe for concurrent use.
//
// Every authentication failure surfaces as ErrAuthentication. The precise internal reason is kept in the error
// chain and logged at debug level through Configuration.Logger.
package opaque
