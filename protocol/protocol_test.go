// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCriticScoreAggregateWeighting(t *testing.T) {
	perfect := CriticScore{Feasibility: 1, Parallelism: 1, Completeness: 1, Risk: 0}
	require.InDelta(t, 1.0, perfect.Aggregate(), 1e-9)

	worst := CriticScore{Feasibility: 0, Parallelism: 0, Completeness: 0, Risk: 1}
	require.InDelta(t, 0.0, worst.Aggregate(), 1e-9)

	mixed := CriticScore{Feasibility: 0.8, Parallelism: 0.5, Completeness: 0.9, Risk: 0.2}
	want := 0.30*0.8 + 0.25*0.5 + 0.30*0.9 + 0.15*(1-0.2)
	require.InDelta(t, want, mixed.Aggregate(), 1e-9)
}

func TestSigningPayloadDeterministicForSameInput(t *testing.T) {
	params, err := json.Marshal(KeepAliveParams{AgentID: "did:swarm:abc", Epoch: 3})
	require.NoError(t, err)

	p1, err := SigningPayload(string(MethodKeepAlive), params)
	require.NoError(t, err)
	p2, err := SigningPayload(string(MethodKeepAlive), params)
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}

func TestSigningPayloadDiffersByMethod(t *testing.T) {
	params, _ := json.Marshal(struct{}{})
	a, _ := SigningPayload(string(MethodHandshake), params)
	b, _ := SigningPayload(string(MethodKeepAlive), params)
	require.NotEqual(t, a, b)
}

func TestMessageRoundTripsThroughJSON(t *testing.T) {
	params, _ := json.Marshal(KeepAliveParams{AgentID: "did:swarm:abc", Epoch: 1})
	ts := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	msg := NewMessage("req-1", string(MethodKeepAlive), params, "deadbeef", ts)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, msg, decoded)
}

func TestIsKnownRejectsUnrecognizedMethod(t *testing.T) {
	require.True(t, IsKnown(MethodTaskInjection))
	require.False(t, IsKnown(Method("task.does_not_exist")))
}

func TestTopicsAreNamespacedBySwarm(t *testing.T) {
	a := ProposalsTopic("public", "task-1")
	b := ProposalsTopic("private-swarm", "task-1")
	require.NotEqual(t, a, b)
	require.Contains(t, a, "public")
	require.Contains(t, b, "private-swarm")
}
