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
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/squirrelchat/opaque-go/internal"
)

var (
	// ErrConfiguration indicates that the configuration is invalid.
	ErrConfiguration = ErrCodeConfiguration.New("")

	// ErrDeserialization indicates that an input could not be decoded. Every per-message error below shares its code.
	ErrDeserialization = ErrCodeDeserialization.New("")

	// ErrRegistrationRequest indicates an error with a registration request.
	ErrRegistrationRequest = ErrCodeDeserialization.New("invalid registration request")

	// ErrRegistrationResponse indicates an error with a registration response.
	ErrRegistrationResponse = ErrCodeDeserialization.New("invalid registration response")

	// ErrRegistrationRecord indicates an error with a registration record.
	ErrRegistrationRecord = ErrCodeDeserialization.New("invalid registration record")

	// ErrCredentialRequest indicates an error with a credential request.
	ErrCredentialRequest = ErrCodeDeserialization.New("invalid credential request")

	// ErrCredentialResponse indicates an error with a credential response.
	ErrCredentialResponse = ErrCodeDeserialization.New("invalid credential response")

	// ErrCredentialFinalization indicates an error with a credential finalization.
	ErrCredentialFinalization = ErrCodeDeserialization.New("invalid credential finalization")

	// ErrServerSetup indicates that the server setup is invalid.
	ErrServerSetup = ErrCodeDeserialization.New("invalid server setup")

	// ErrClientState indicates that a client state is invalid.
	ErrClientState = ErrCodeDeserialization.New("invalid client state")

	// ErrServerState indicates that a server state is invalid.
	ErrServerState = ErrCodeDeserialization.New("invalid server state")

	// ErrProtocol indicates that a protocol step failed.
	ErrProtocol = ErrCodeProtocol.New("")

	// ErrAuthentication indicates that authentication failed, whatever the underlying reason.
	ErrAuthentication = ErrCodeProtocol.New("authentication failed")

	// ErrReflectedValue indicates that the server sent back the client's own ephemeral public key.
	ErrReflectedValue = ErrCodeProtocol.New("reflected value")

	// ErrOPRFEvaluation indicates that an OPRF operation failed.
	ErrOPRFEvaluation = ErrCodeProtocol.New("OPRF evaluation failed")

	// ErrRandomness indicates that the randomness source failed.
	ErrRandomness = ErrCodeProtocol.New("randomness failure")
)

// ErrorCode represents the category of an error. It is used to categorize errors and provide a consistent way to
// handle error conditions.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConfiguration represents an error related to the configuration.
	ErrCodeConfiguration

	// ErrCodeDeserialization represents an error related to decoding messages, states, or the server setup.
	ErrCodeDeserialization

	// ErrCodeProtocol represents an error raised by a protocol step.
	ErrCodeProtocol
)

// New creates a new Error with the given message and causes. An empty message defaults to the code's name.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = c.defaultMessage()
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

func (c ErrorCode) defaultMessage() string {
	return strings.ReplaceAll(c.String(), "_", " ")
}

// String returns the string representation of the ErrorCode. If the code is not recognized, it returns "unknown_error".
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeConfiguration:
		return "configuration_error"
	case ErrCodeDeserialization:
		return "deserialization_error"
	case ErrCodeProtocol:
		return "protocol_error"
	case ErrCodeUnknown:
		fallthrough
	default:
		return "unknown_error"
	}
}

// Error implements the error interface for the ErrorCode type.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is reports whether target carries the same code.
func (c ErrorCode) Is(target error) bool {
	var errCode ErrorCode
	if errors.As(target, &errCode) {
		return c == errCode
	}

	return false
}

// Error represents an error returned by this package. Its message is deliberately concise: the distinguished cause,
// if any, is only reachable through Unwrap, errors.Is against the internal causes, %+v, or the slog value.
type Error struct {
	Err     error
	Message string
	Code    ErrorCode
}

// Error returns only the concise form of the current error, without the cause.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Wrap returns a copy of e carrying the given causes.
func (e *Error) Wrap(errs ...error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     errors.Join(errs...),
	}
}

// Is reports whether target designates this error. A category error, like ErrDeserialization, matches every error
// of its code, and an ErrorCode matches on the code alone.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.Code == t
	case *Error:
		if e.Code != t.Code {
			return false
		}

		return t.Message == t.Code.defaultMessage() || strings.EqualFold(e.Message, t.Message)
	default:
		return false
	}
}

// As implements the errors.As method for the Error type.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	default:
		return false
	}
}

// LogValue implements the slog.LogValuer interface, exposing the cause to operators.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("code_name", e.Code.String()),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// Format implements the fmt.Formatter interface. The %+v verb prints the code and the cause chain.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			e.formatV(f)
			return
		}

		fallthrough
	case 's':
		_, _ = io.WriteString(f, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	default:
		_, _ = io.WriteString(f, e.Error())
	}
}

func printV(f fmt.State, err error, depth int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", depth)
	_, _ = fmt.Fprintf(f, "\n%s↳ %v", prefix, err)

	switch u := err.(type) { //nolint:errorlint // walking the tree by hand
	case interface{ Unwrap() []error }:
		for _, child := range u.Unwrap() {
			printV(f, child, depth+1)
		}
	case interface{ Unwrap() error }:
		printV(f, u.Unwrap(), depth+1)
	}
}

func (e *Error) formatV(f fmt.State) {
	_, _ = fmt.Fprintf(f, "code=%d(%s) message=%q", e.Code, e.Code.String(), e.Message)

	if e.Err != nil {
		printV(f, e.Err, 0)
	}
}

// protocolError classifies a failure of a protocol step that is not an authentication failure.
func protocolError(err error) *Error {
	switch {
	case errors.Is(err, internal.ErrRandomSource):
		return ErrRandomness.Wrap(err)
	case errors.Is(err, internal.ErrOPRFInputIdentity):
		return ErrOPRFEvaluation.Wrap(err)
	default:
		return ErrProtocol.Wrap(err)
	}
}
