// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package transport

import (
	"context"
	"sync"

	"github.com/luxfi/log"
)

// Bus is a process-wide in-memory broker shared by every Loopback
// transport registered against it: Publish on one peer fans out to every
// other peer subscribed to the same topic. It stands in for a gossip
// overlay in single-process swarms (local dev, integration tests).
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan NetworkEvent
	dht  map[string][]byte
}

// NewBus creates an empty shared bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]map[string]chan NetworkEvent),
		dht:  make(map[string][]byte),
	}
}

func (b *Bus) subscribe(peerID, topic string, events chan NetworkEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]chan NetworkEvent)
	}
	b.subs[topic][peerID] = events
}

func (b *Bus) publish(from, topic string, payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for peerID, ch := range b.subs[topic] {
		if peerID == from {
			continue
		}
		select {
		case ch <- NetworkEvent{Kind: MessageReceived, Topic: topic, Data: payload, Source: from}:
		default:
		}
	}
}

func (b *Bus) putDHT(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dht[key] = value
}

// Loopback is a Transport backed by a shared in-process Bus. Every node
// in a local swarm constructs its own Loopback against the same Bus.
type Loopback struct {
	bus    *Bus
	peerID string
	log    log.Logger
	events chan NetworkEvent

	mu    sync.Mutex
	peers []string
}

// NewLoopback creates a Loopback transport for peerID against bus. events
// is the channel the caller should drain for inbound NetworkEvents; it is
// buffered to survive bursts without blocking a publishing peer.
func NewLoopback(bus *Bus, peerID string, logger log.Logger) *Loopback {
	return &Loopback{
		bus:    bus,
		peerID: peerID,
		log:    logger,
		events: make(chan NetworkEvent, 256),
	}
}

// Events returns the channel the caller should range over for inbound
// NetworkEvents.
func (l *Loopback) Events() <-chan NetworkEvent {
	return l.events
}

func (l *Loopback) Publish(_ context.Context, topic string, payload []byte) error {
	l.bus.publish(l.peerID, topic, payload)
	return nil
}

func (l *Loopback) Subscribe(_ context.Context, topic string) error {
	l.bus.subscribe(l.peerID, topic, l.events)
	return nil
}

func (l *Loopback) Dial(_ context.Context, addr string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.peers = append(l.peers, addr)
	if l.log != nil {
		l.log.Debug("loopback dial", "peer", l.peerID, "addr", addr)
	}
	return nil
}

func (l *Loopback) PutDHTRecord(_ context.Context, key string, value []byte) error {
	l.bus.putDHT(key, value)
	return nil
}

func (l *Loopback) Bootstrap(_ context.Context) error {
	return nil
}

func (l *Loopback) EstimatedSwarmSize() uint64 {
	l.bus.mu.RLock()
	defer l.bus.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, peers := range l.bus.subs {
		for peerID := range peers {
			seen[peerID] = struct{}{}
		}
	}
	return uint64(len(seen))
}

func (l *Loopback) LocalPeerID() string {
	return l.peerID
}

var _ Transport = (*Loopback)(nil)
