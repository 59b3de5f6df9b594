// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package protocol

import (
	"encoding/json"
	"time"
)

// JSONRPCVersion is the envelope version every swarm message declares.
const JSONRPCVersion = "2.0"

// Message is the top-level JSON-RPC 2.0 envelope every swarm communication
// is wrapped in: method-dispatched, Ed25519-signed over (method, params).
// ID doubles as the replay nonce: paired with Timestamp it lets a receiver
// enforce the replay window (spec invariant P9).
type Message struct {
	JSONRPC   string          `json:"jsonrpc"`
	Method    string          `json:"method"`
	ID        string          `json:"id,omitempty"`
	Params    json.RawMessage `json:"params"`
	Signature string          `json:"signature"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage builds an envelope for method with params already marshaled
// to JSON and signature computed over SigningPayload(method, params).
func NewMessage(id, method string, params json.RawMessage, signature string, ts time.Time) Message {
	return Message{
		JSONRPC:   JSONRPCVersion,
		Method:    method,
		ID:        id,
		Params:    params,
		Signature: signature,
		Timestamp: ts,
	}
}

// SigningPayload returns the canonical bytes signed for a message: the
// JSON object {"method": method, "params": params}. Both sides must
// marshal params identically (Go's encoding/json sorts map keys, matching
// serde_json's BTreeMap-free but field-ordered struct encoding for the
// fixed param structs this package defines).
func SigningPayload(method string, params json.RawMessage) ([]byte, error) {
	return json.Marshal(struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}{Method: method, Params: params})
}

// Response is the JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Success builds a successful Response.
func Success(id string, result json.RawMessage) Response {
	return Response{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

// Error builds an error Response.
func Error(id string, code int, message string) Response {
	return Response{JSONRPC: JSONRPCVersion, ID: id, Error: &RPCError{Code: code, Message: message}}
}
