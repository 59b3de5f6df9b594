// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package protoerr defines the typed error taxonomy every swarm component
// classifies its failures into, and the JSON-RPC/HTTP codes each kind maps
// to at the boundary where it is (or is not) surfaced to a caller.
package protoerr

import "fmt"

// Kind is one of the fixed error classes a component raises.
type Kind int

const (
	// Parse marks malformed inbound JSON; logged and dropped, never
	// surfaced with an RPC code of its own payload.
	Parse Kind = iota
	// Validation marks missing/invalid RPC handler params.
	Validation
	// Protocol marks task/epoch mismatch, duplicate commit, hash
	// mismatch, or an unknown method.
	Protocol
	// Participation marks a message from a non-participating member;
	// dropped silently since peers are untrusted and best-effort.
	Participation
	// Transport marks a publish/dial failure handled via periodic retry.
	Transport
	// Authorization marks a missing/bad operator token on the admin
	// channel.
	Authorization
	// Reputation marks an injector that lacks the standing required for
	// the action it attempted.
	Reputation
	// Replay marks a message whose (nonce, timestamp) pair was already
	// seen within the replay window, or whose timestamp falls outside
	// the tolerance around now.
	Replay
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "ParseError"
	case Validation:
		return "ValidationError"
	case Protocol:
		return "ProtocolError"
	case Participation:
		return "ParticipationError"
	case Transport:
		return "TransportError"
	case Authorization:
		return "AuthorizationError"
	case Reputation:
		return "ReputationError"
	case Replay:
		return "ReplayError"
	default:
		return "UnknownError"
	}
}

// RPCCode is the JSON-RPC 2.0 error code (or HTTP status for
// Authorization) this kind is reported under when it does surface.
func (k Kind) RPCCode() int {
	switch k {
	case Validation:
		return -32602
	case Protocol, Reputation, Replay:
		return -32000
	case Authorization:
		return 401
	default:
		return 0
	}
}

// Surfaces reports whether errors of this kind are visible to an external
// RPC caller. Protocol/Participation/Transport errors are peer-level and
// logged locally only; the peer ecosystem is best-effort and receives no
// visible ACK for them.
func (k Kind) Surfaces() bool {
	switch k {
	case Parse, Validation, Authorization:
		return true
	default:
		return false
	}
}

// Error is a classified failure carrying its Kind alongside the usual
// wrapped cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified Error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// As reports whether err (or something it wraps) is a *Error and, if so,
// returns it.
func As(err error) (*Error, bool) {
	for err != nil {
		if pe, ok := err.(*Error); ok {
			return pe, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
