// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/squirrelchat/opaque-go"
	"github.com/squirrelchat/opaque-go/internal"
)

func TestServerSetup_Persistence(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		s := newSession(t, c.conf)

		sizes, _ := c.conf.MessageSizes()
		encoded := s.setup.Serialize()

		if len(encoded) != sizes.ServerSetup {
			t.Fatalf("setup length %d, expected %d", len(encoded), sizes.ServerSetup)
		}

		loaded, err := c.conf.LoadServerSetup(encoded)
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		if !bytes.Equal(loaded.Serialize(), encoded) {
			t.Fatal("setup does not round trip")
		}

		fromHex, err := c.conf.LoadServerSetupHex(s.setup.Hex())
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		if !bytes.Equal(fromHex.Serialize(), encoded) {
			t.Fatal("setup does not round trip through hex")
		}

		// Registration responses are deterministic given the request.
		_, request, err := s.client.RegistrationStart([]byte("password"))
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		r1, err := s.server.RegistrationStart(s.setup, request.Serialize(), s.identifier)
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		r2, err := s.server.RegistrationStart(loaded, request.Serialize(), s.identifier)
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		if !bytes.Equal(r1.Serialize(), r2.Serialize()) {
			t.Fatal("a reloaded setup answers differently")
		}

		// Login responses are identical under the same randomness.
		record, _ := s.register([]byte("password"))
		state, ke1, err := s.client.LoginStart([]byte("password"))
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		respond := func(setup *opaque.ServerSetup) []byte {
			conf := *c.conf
			conf.Random = deterministicReader(1)

			server, err := conf.Server()
			if err != nil {
				t.Fatalf(dbgErr, err)
			}

			_, ke2, err := server.LoginStart(setup, record, ke1.Serialize(), s.identifier)
			if err != nil {
				t.Fatalf(dbgErr, err)
			}

			return ke2.Serialize()
		}

		ke2 := respond(loaded)
		if !bytes.Equal(respond(s.setup), ke2) {
			t.Fatal("a reloaded setup answers differently")
		}

		if _, err = s.client.LoginFinish(state, ke2); err != nil {
			t.Fatalf(dbgErr, err)
		}
	})
}

func TestServerSetup_Deterministic(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		s1, err := opaque.NewServerSetup(c.conf, deterministicReader(2))
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		s2, err := opaque.NewServerSetup(c.conf, deterministicReader(2))
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		if !bytes.Equal(s1.Serialize(), s2.Serialize()) {
			t.Fatal("setups differ under the same randomness")
		}

		server, err := c.conf.Server()
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		s3, err := server.NewServerSetup()
		if err != nil {
			t.Fatalf(dbgErr, err)
		}

		if bytes.Equal(s1.Serialize(), s3.Serialize()) {
			t.Fatal("setups collide under different randomness")
		}

		if _, err = server.LoadServerSetup(s3.Serialize()); err != nil {
			t.Fatalf(dbgErr, err)
		}
	})
}

func TestServerSetup_Invalid(t *testing.T) {
	conf := configurationTable[0].conf

	valid, err := opaque.NewServerSetup(conf, nil)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	other, err := opaque.NewServerSetup(conf, nil)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	encoded := valid.Serialize()

	compose := func(sk, pk, seed []byte) []byte {
		return append(append(append([]byte{}, sk...), pk...), seed...)
	}

	tests := map[string]struct {
		input []byte
		cause error
	}{
		"short":      {encoded[:127], internal.ErrInvalidEncodingLength},
		"long":       {append(append([]byte{}, encoded...), 0), internal.ErrInvalidEncodingLength},
		"bad scalar": {compose(getBadRistrettoScalar(), encoded[32:64], encoded[64:]), internal.ErrInvalidPrivateKey},
		"zero scalar": {
			compose(make([]byte, 32), encoded[32:64], encoded[64:]),
			internal.ErrInvalidPrivateKey,
		},
		"bad element": {
			compose(encoded[:32], getBadRistrettoElement(), encoded[64:]),
			internal.ErrInvalidServerPublicKey,
		},
		"identity": {compose(encoded[:32], make([]byte, 32), encoded[64:]), internal.ErrInvalidServerPublicKey},
		"mismatch": {
			compose(encoded[:32], other.PublicKey.Encode(), encoded[64:]),
			internal.ErrServerKeyMismatch,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := conf.LoadServerSetup(tt.input)
			if !errors.Is(err, opaque.ErrServerSetup) || !errors.Is(err, tt.cause) {
				t.Fatalf("expected %v, got %+v", tt.cause, err)
			}
		})
	}

	if _, err = conf.LoadServerSetupHex("not hex"); !errors.Is(err, opaque.ErrServerSetup) {
		t.Fatalf("expected %v, got %+v", opaque.ErrServerSetup, err)
	}
}

func TestServerSetup_RandomnessFailure(t *testing.T) {
	_, err := opaque.NewServerSetup(configurationTable[0].conf, iotest.ErrReader(errors.New("entropy exhausted")))
	if !errors.Is(err, opaque.ErrRandomness) || !errors.Is(err, internal.ErrRandomSource) {
		t.Fatalf("expected %v, got %+v", opaque.ErrRandomness, err)
	}

	conf := *configurationTable[0].conf
	conf.Random = iotest.ErrReader(errors.New("entropy exhausted"))

	client, err := conf.Client()
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	if _, _, err = client.LoginStart([]byte("password")); !errors.Is(err, opaque.ErrRandomness) {
		t.Fatalf("expected %v, got %+v", opaque.ErrRandomness, err)
	}
}
