// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openswarm/swarmcore/crdt"
	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/swarmconfig"
)

func TestAgentScoresAwardPenalizeAndValue(t *testing.T) {
	s := NewAgentScores("agent-0")
	require.Equal(t, int64(0), s.Value("agent-1"))

	s.Award("agent-1", 150)
	require.Equal(t, int64(150), s.Value("agent-1"))

	s.Penalize("agent-1", 40)
	require.Equal(t, int64(110), s.Value("agent-1"))
}

func TestAgentScoresMergeIsIdempotent(t *testing.T) {
	s := NewAgentScores("agent-0")
	s.Award("agent-1", 100)

	remote := crdt.NewPNCounter("agent-2")
	remote.Increment(300)

	s.Merge("agent-1", remote)
	require.Equal(t, int64(400), s.Value("agent-1"))

	// Merging the same snapshot again must not double-count.
	s.Merge("agent-1", remote)
	require.Equal(t, int64(400), s.Value("agent-1"))
}

func TestReputationGateRejectsLowStandingInjector(t *testing.T) {
	scores := NewAgentScores("agent-0")
	gate := NewReputationGate(scores)

	require.Error(t, gate.Allow("stranger", 6))

	scores.Award("stranger", 1000)
	require.NoError(t, gate.Allow("stranger", 6))
}

func TestHandleTaskInjectionRejectedByGateIsNotInserted(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)
	c.WithInjectionGate(NewReputationGate(c.Scores()))

	task := protocol.NewTask("task-1", "build the thing", 1, 0, now())
	task.CapabilitiesRequired = []string{"gpu", "rust", "ml"}
	c.HandleTaskInjection(protocol.TaskInjectionParams{Task: task, Originator: "stranger"})

	_, ok := c.Task("task-1")
	require.False(t, ok)
}

func TestHandleTaskInjectionAllowedByGateIsInserted(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)
	c.WithInjectionGate(NewReputationGate(c.Scores()))
	c.Scores().Award("trusted-agent", 2000)

	task := protocol.NewTask("task-1", "build the thing", 1, 0, now())
	task.CapabilitiesRequired = []string{"gpu", "rust", "ml"}
	c.HandleTaskInjection(protocol.TaskInjectionParams{Task: task, Originator: "trusted-agent"})

	_, ok := c.Task("task-1")
	require.True(t, ok)
}
