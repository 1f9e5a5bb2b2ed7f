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
	"crypto"
	"errors"
	"fmt"
	"log"

	"github.com/squirrelchat/opaque-go"
)

// Example_configuration shows how to compose a configuration and share it between parties.
func Example_configuration() {
	customConf := &opaque.Configuration{
		OPRF:    opaque.RistrettoSha512,
		KDF:     crypto.SHA512,
		MAC:     crypto.SHA512,
		Hash:    crypto.SHA512,
		KSF:     opaque.DefaultConfiguration().KSF,
		AKE:     opaque.RistrettoSha512,
		Context: []byte("my application"),
	}

	// The encoding can be stored in the application and compared between client and server.
	encoded := customConf.Serialize()

	decodedConf, err := opaque.DeserializeConfiguration(encoded)
	if err != nil {
		log.Fatalf("Oh no! Decoding the configurations failed! %v", err)
	}

	fmt.Println(bytes.Equal(encoded, decodedConf.Serialize()))
	// Output: true
}

// Example_serverSetup creates the server's long-term key material once, persists it, and reloads it.
func Example_serverSetup() {
	conf := opaque.DefaultConfiguration()

	setup, err := opaque.NewServerSetup(conf, nil)
	if err != nil {
		log.Fatalln(err)
	}

	// Store this value securely. It must be reloaded with the same configuration.
	persisted := setup.Serialize()

	loaded, err := conf.LoadServerSetup(persisted)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println(bytes.Equal(loaded.Serialize(), persisted))
	// Output: true
}

// Example_registrationAndLogin runs both flows in a single function. In a real deployment, the client and the
// server run separately and exchange the serialized messages over the network.
func Example_registrationAndLogin() {
	conf := opaque.DefaultConfiguration()
	password := []byte("password")
	identifier := []byte("alice@example.com")

	client, err := conf.Client()
	if err != nil {
		log.Fatalln(err)
	}

	server, err := conf.Server()
	if err != nil {
		log.Fatalln(err)
	}

	setup, err := server.NewServerSetup()
	if err != nil {
		log.Fatalln(err)
	}

	// Registration.
	regState, regRequest, err := client.RegistrationStart(password)
	if err != nil {
		log.Fatalln(err)
	}

	regResponse, err := server.RegistrationStart(setup, regRequest.Serialize(), identifier)
	if err != nil {
		log.Fatalln(err)
	}

	registration, err := client.RegistrationFinish(regState, regResponse.Serialize())
	if err != nil {
		log.Fatalln(err)
	}

	record, err := server.RegistrationFinish(registration.Record.Serialize())
	if err != nil {
		log.Fatalln(err)
	}

	// Login.
	clientState, ke1, err := client.LoginStart(password)
	if err != nil {
		log.Fatalln(err)
	}

	serverState, ke2, err := server.LoginStart(setup, record, ke1.Serialize(), identifier)
	if err != nil {
		log.Fatalln(err)
	}

	login, err := client.LoginFinish(clientState, ke2.Serialize())
	if err != nil {
		log.Fatalln(err)
	}

	sessionKey, err := server.LoginFinish(serverState, login.Message.Serialize())
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println(bytes.Equal(sessionKey, login.SessionKey))
	fmt.Println(bytes.Equal(registration.ExportKey, login.ExportKey))
	// Output:
	// true
	// true
}

// Example_errors shows how to branch on the error categories.
func Example_errors() {
	server, err := opaque.DefaultConfiguration().Server()
	if err != nil {
		log.Fatalln(err)
	}

	setup, err := server.NewServerSetup()
	if err != nil {
		log.Fatalln(err)
	}

	_, err = server.RegistrationStart(setup, []byte("too short"), []byte("alice"))

	switch {
	case errors.Is(err, opaque.ErrDeserialization):
		fmt.Println("malformed input:", err)
	case errors.Is(err, opaque.ErrAuthentication):
		fmt.Println("authentication failed")
	}
	// Output: malformed input: invalid registration request
}
