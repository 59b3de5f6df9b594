// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openswarm/swarmcore/identity"
	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/transport"
)

// Publisher signs and ships the Outbound/DHTWrite values a handler or tick
// returned, closing the acquire->mutate->release->publish loop the core
// itself never performs directly (no exported Core method holds mu across
// a network call).
type Publisher struct {
	t      transport.Transport
	key    *identity.SigningKey
	nextID func() string
	now    func() time.Time
}

// NewPublisher builds a Publisher that signs every outbound message with
// key and ships it over t. nextID mints each message's JSON-RPC id; pass
// nil to leave messages unidentified (fire-and-forget notifications).
func NewPublisher(t transport.Transport, key *identity.SigningKey, nextID func() string) *Publisher {
	return &Publisher{t: t, key: key, nextID: nextID, now: time.Now}
}

// Publish signs and publishes every Outbound message in order, stopping at
// the first error.
func (p *Publisher) Publish(ctx context.Context, outbound []Outbound) error {
	for _, ob := range outbound {
		raw, err := p.sign(ob.Method, ob.Params)
		if err != nil {
			return fmt.Errorf("connector: sign %s: %w", ob.Method, err)
		}
		if err := p.t.Publish(ctx, ob.Topic, raw); err != nil {
			return fmt.Errorf("connector: publish %s to %s: %w", ob.Method, ob.Topic, err)
		}
	}
	return nil
}

// PutDHTRecords applies every DHTWrite in order, stopping at the first
// error.
func (p *Publisher) PutDHTRecords(ctx context.Context, writes []DHTWrite) error {
	for _, w := range writes {
		value, err := json.Marshal(w.Value)
		if err != nil {
			return fmt.Errorf("connector: marshal dht value for %s: %w", w.Key, err)
		}
		if err := p.t.PutDHTRecord(ctx, w.Key, value); err != nil {
			return fmt.Errorf("connector: put dht record %s: %w", w.Key, err)
		}
	}
	return nil
}

func (p *Publisher) sign(method protocol.Method, params interface{}) ([]byte, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	payload, err := protocol.SigningPayload(string(method), paramsJSON)
	if err != nil {
		return nil, err
	}
	id := ""
	if p.nextID != nil {
		id = p.nextID()
	}
	sig := p.key.Sign(payload)
	msg := protocol.NewMessage(id, string(method), paramsJSON, hex.EncodeToString(sig), p.now())
	return json.Marshal(msg)
}
