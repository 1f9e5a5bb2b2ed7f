// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

// Causes behind the public error codes. They are kept in the unwrap chain of the returned errors so that operators
// can log the exact reason, while the public message stays undifferentiated.
var (
	// ErrConfigurationInvalidLength happens when deserializing a configuration of invalid length.
	ErrConfigurationInvalidLength = errors.New("invalid encoded configuration length")

	// ErrInvalidOPRFid indicates an unavailable or unsupported OPRF group.
	ErrInvalidOPRFid = errors.New("invalid OPRF group id")

	// ErrInvalidAKEid indicates an unavailable or unsupported AKE group.
	ErrInvalidAKEid = errors.New("invalid AKE group id")

	// ErrInvalidKDFid indicates an unavailable hash function for the KDF.
	ErrInvalidKDFid = errors.New("invalid KDF id")

	// ErrInvalidMACid indicates an unavailable hash function for the MAC.
	ErrInvalidMACid = errors.New("invalid MAC id")

	// ErrInvalidHASHid indicates an unavailable hash function.
	ErrInvalidHASHid = errors.New("invalid Hash id")

	// ErrMACKeyLength indicates the KDF output, used as MAC key, is longer than the MAC output.
	ErrMACKeyLength = errors.New("KDF output length exceeds MAC output length")

	// ErrInvalidKSFid indicates an unavailable key stretching function.
	ErrInvalidKSFid = errors.New("invalid KSF id")

	// ErrInvalidContextEncoding indicates the configuration context header is malformed.
	ErrInvalidContextEncoding = errors.New("invalid context encoding")

	// ErrInvalidEncodingLength indicates the input does not have the expected length.
	ErrInvalidEncodingLength = errors.New("invalid encoding length")

	// ErrInvalidElement indicates the input is not a valid group element encoding.
	ErrInvalidElement = errors.New("invalid group element encoding")

	// ErrElementIsIdentity indicates a group element is the identity element.
	ErrElementIsIdentity = errors.New("group element is the identity element")

	// ErrInvalidScalar indicates the input is not a valid scalar encoding.
	ErrInvalidScalar = errors.New("invalid scalar encoding")

	// ErrScalarIsZero indicates a scalar is zero.
	ErrScalarIsZero = errors.New("scalar is zero")

	// ErrInvalidServerPublicKey indicates the server public key is invalid.
	ErrInvalidServerPublicKey = errors.New("invalid server public key")

	// ErrInvalidClientPublicKey indicates the client public key is invalid.
	ErrInvalidClientPublicKey = errors.New("invalid client public key")

	// ErrInvalidBlindedMessage indicates the blinded OPRF element is invalid.
	ErrInvalidBlindedMessage = errors.New("invalid blinded message")

	// ErrInvalidEvaluatedMessage indicates the evaluated OPRF element is invalid.
	ErrInvalidEvaluatedMessage = errors.New("invalid OPRF evaluation")

	// ErrInvalidClientKeyShare indicates the client's ephemeral public key is invalid.
	ErrInvalidClientKeyShare = errors.New("invalid client ephemeral public key")

	// ErrInvalidServerKeyShare indicates the server's ephemeral public key is invalid.
	ErrInvalidServerKeyShare = errors.New("invalid server ephemeral public key")

	// ErrInvalidPrivateKey indicates a private key is invalid.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrServerKeyMismatch indicates the server public key does not match its private key.
	ErrServerKeyMismatch = errors.New("server public key does not match the private key")

	// ErrRandomSource indicates the randomness source failed.
	ErrRandomSource = errors.New("randomness source failure")

	// ErrOPRFInputIdentity indicates the password hashed to the identity element.
	ErrOPRFInputIdentity = errors.New("OPRF input maps to the identity element")

	// ErrKeyDerivation indicates a key derivation did not yield a valid scalar.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrEnvelopeInvalidMac indicates the envelope's authentication tag is invalid.
	ErrEnvelopeInvalidMac = errors.New("invalid envelope authentication tag")

	// ErrInvalidServerMac indicates the server's AKE MAC is invalid.
	ErrInvalidServerMac = errors.New("invalid server mac")

	// ErrInvalidClientMac indicates the client's AKE MAC is invalid.
	ErrInvalidClientMac = errors.New("invalid client mac")

	// ErrReflectedKeyShare indicates the server's ephemeral public key equals the client's.
	ErrReflectedKeyShare = errors.New("server ephemeral public key equals the client's")

	// ErrInputTooLong indicates an input exceeds the 65535 bytes a length prefix can encode.
	ErrInputTooLong = errors.New("input is longer than 65535 bytes")

	// ErrStateFlushed indicates a state value was used after being consumed.
	ErrStateFlushed = errors.New("state has already been consumed")
)
