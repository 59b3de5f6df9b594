// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package transport defines the outbound network interface the Connector
// Core drives (gossip publish/subscribe, DHT records, dialing, bootstrap)
// and the inbound event shape a concrete implementation feeds back in,
// mirroring the teacher's networking/sender split between a synchronous
// caller-facing interface and an asynchronous event stream.
package transport

import "context"

// Transport is the outbound network interface the Connector Core depends
// on. Implementations are internally synchronized and safe to share across
// goroutines; the core never holds its state lock across a call to any of
// these methods.
type Transport interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) error
	Dial(ctx context.Context, addr string) error
	PutDHTRecord(ctx context.Context, key string, value []byte) error
	Bootstrap(ctx context.Context) error
	EstimatedSwarmSize() uint64
	LocalPeerID() string
}

// EventKind discriminates NetworkEvent payloads.
type EventKind int

const (
	MessageReceived EventKind = iota
	PeerConnected
	PeerDisconnected
	PingRTT
	Listening
)

// NetworkEvent is one inbound occurrence the transport layer surfaces to
// the Connector Core's selection loop over a bounded channel.
type NetworkEvent struct {
	Kind EventKind

	// MessageReceived fields.
	Topic  string
	Data   []byte
	Source string

	// PeerConnected/PeerDisconnected field.
	PeerID string

	// PingRTT field, in milliseconds.
	RTTMillis int64

	// Listening field.
	ListenAddr string
}

// BootstrapList is a list of bootstrap peer addresses. Nothing in this
// module uses it; the bootstrap-retry tick reads
// swarmconfig.TransportConfig.BootstrapPeers instead.
type BootstrapList []string
