// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/rfp"
	"github.com/openswarm/swarmcore/swarmconfig"
)

func clock(start time.Time) (func() time.Time, *time.Time) {
	cur := start
	return func() time.Time { return cur }, &cur
}

func TestNewCoreSelfAssignsSoleExecutorTier(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	tier := c.MyTier()
	require.True(t, tier.IsExecutor)
	require.Equal(t, uint32(1), tier.Depth)
	_, hasParent := c.ParentID()
	require.False(t, hasParent)
}

func TestHandleKeepAliveGrowsMembershipAndRecomputesHierarchy(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	for _, id := range []string{"agent-1", "agent-2", "agent-3"} {
		c.HandleKeepAlive(protocol.KeepAliveParams{AgentID: id})
	}
	require.Equal(t, 3, c.MemberCount())

	// 4 total agents at branching factor 3 form two tiers of two; agent-0
	// sorts first and lands on Tier1 as a non-executor coordinator.
	tier := c.MyTier()
	require.False(t, tier.IsExecutor)
	require.Equal(t, uint32(1), tier.Depth)
}

func TestTickKeepAlivePrunesStaleMembers(t *testing.T) {
	now, cur := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	cfg := swarmconfig.Local()
	c := New(cfg, "agent-0", now, nil)

	c.HandleKeepAlive(protocol.KeepAliveParams{AgentID: "agent-1"})
	require.Equal(t, 1, c.MemberCount())

	*cur = cur.Add(time.Duration(cfg.Timers.MemberPruneMultiple) * cfg.Timers.KeepAliveInterval * 2)
	c.TickKeepAlive()
	require.Equal(t, 0, c.MemberCount())
}

// buildCoordinatorCore wires up a 4-agent swarm where "agent-0" (self)
// lands on the non-executor Tier1, matching the branching-factor math
// documented in TestHandleKeepAliveGrowsMembershipAndRecomputesHierarchy.
func buildCoordinatorCore(t *testing.T, now func() time.Time) *Core {
	t.Helper()
	c := New(swarmconfig.Local(), "agent-0", now, nil)
	for _, id := range []string{"agent-1", "agent-2", "agent-3"} {
		c.HandleKeepAlive(protocol.KeepAliveParams{AgentID: id})
	}
	require.False(t, c.MyTier().IsExecutor)
	return c
}

func TestTaskInjectionCreatesRFPForCoordinatorTier(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := buildCoordinatorCore(t, now)

	task := protocol.NewTask("task-1", "build the thing", 1, 0, now())
	c.HandleTaskInjection(protocol.TaskInjectionParams{Task: task, Originator: "external"})

	got, ok := c.Task("task-1")
	require.True(t, ok)
	require.Equal(t, "task-1", got.TaskID)

	c.mu.RLock()
	_, hasRFP := c.rfps["task-1"]
	_, hasHolon := c.holons["task-1"]
	c.mu.RUnlock()
	require.True(t, hasRFP)
	require.True(t, hasHolon)
}

func TestFullCommitRevealVoteAssignmentFlow(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := buildCoordinatorCore(t, now)

	task := protocol.NewTask("task-1", "build the thing", 1, 0, now())
	c.HandleTaskInjection(protocol.TaskInjectionParams{Task: task, Originator: "external"})

	planA := protocol.Plan{
		PlanID: "plan-a", TaskID: "task-1", Proposer: "agent-0", Epoch: 0,
		Subtasks: []protocol.PlanSubtask{{Index: 0, Description: "part one", EstimatedComplexity: 0.1}},
	}
	planB := protocol.Plan{
		PlanID: "plan-b", TaskID: "task-1", Proposer: "agent-1", Epoch: 0,
		Subtasks: []protocol.PlanSubtask{{Index: 0, Description: "part one", EstimatedComplexity: 0.1}},
	}
	hashA, err := rfp.ComputePlanHash(planA)
	require.NoError(t, err)
	hashB, err := rfp.ComputePlanHash(planB)
	require.NoError(t, err)

	require.NoError(t, c.HandleProposalCommit(protocol.ProposalCommitParams{TaskID: "task-1", Proposer: "agent-0", Epoch: 0, PlanHash: hashA}))
	require.NoError(t, c.HandleProposalCommit(protocol.ProposalCommitParams{TaskID: "task-1", Proposer: "agent-1", Epoch: 0, PlanHash: hashB}))

	require.NoError(t, c.HandleProposalReveal(protocol.ProposalRevealParams{TaskID: "task-1", Plan: planA}))
	require.NoError(t, c.HandleProposalReveal(protocol.ProposalRevealParams{TaskID: "task-1", Plan: planB}))

	require.NoError(t, c.HandleConsensusVote(protocol.ConsensusVoteParams{TaskID: "task-1", Epoch: 0, Voter: "agent-2", Rankings: []string{"plan-a", "plan-b"}}))
	require.NoError(t, c.HandleConsensusVote(protocol.ConsensusVoteParams{TaskID: "task-1", Epoch: 0, Voter: "agent-3", Rankings: []string{"plan-a", "plan-b"}}))

	task1, _ := c.Task("task-1")
	require.Equal(t, protocol.TaskVotingPhase, task1.Status)

	outbound := c.TickVotingCheck()
	require.NotEmpty(t, outbound)

	task1, ok := c.Task("task-1")
	require.True(t, ok)
	require.Equal(t, protocol.TaskInProgress, task1.Status)
	require.Len(t, task1.Subtasks, 1)

	_, ok = c.Task("task-1-st-1")
	require.True(t, ok)
}

func TestAssignSubtasksFromPlanIsIdempotentAcrossRace(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := buildCoordinatorCore(t, now)

	task := protocol.NewTask("task-1", "build the thing", 1, 0, now())
	c.graph.Insert(task)

	plan := protocol.Plan{
		PlanID: "plan-a", TaskID: "task-1", Proposer: "agent-0",
		Subtasks: []protocol.PlanSubtask{{Index: 0, Description: "part", EstimatedComplexity: 0.1}},
	}

	c.mu.Lock()
	first := c.assignSubtasksFromPlanLocked("task-1", plan)
	second := c.assignSubtasksFromPlanLocked("task-1", plan)
	c.mu.Unlock()

	require.NotEmpty(t, first)
	require.Empty(t, second)
}

func TestHandleProposalCommitDropsNonParticipatingProposer(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	err := c.HandleProposalCommit(protocol.ProposalCommitParams{TaskID: "task-x", Proposer: "ghost", Epoch: 0, PlanHash: "abc"})
	require.NoError(t, err)

	c.mu.RLock()
	_, exists := c.rfps["task-x"]
	c.mu.RUnlock()
	require.False(t, exists)
}

func TestHandleProposalRevealBuffersBeforeCommitReachesRevealPhase(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := buildCoordinatorCore(t, now)

	task := protocol.NewTask("task-1", "build the thing", 1, 0, now())
	c.HandleTaskInjection(protocol.TaskInjectionParams{Task: task, Originator: "external"})

	plan := protocol.Plan{PlanID: "plan-a", TaskID: "task-1", Proposer: "agent-0", Subtasks: []protocol.PlanSubtask{{Description: "x"}}}
	hash, err := rfp.ComputePlanHash(plan)
	require.NoError(t, err)

	// Reveal arrives before any commit: must buffer, not error.
	require.NoError(t, c.HandleProposalReveal(protocol.ProposalRevealParams{TaskID: "task-1", Plan: plan}))

	c.mu.RLock()
	_, buffered := c.pendingReveals["task-1"]["agent-0"]
	c.mu.RUnlock()
	require.True(t, buffered)

	require.NoError(t, c.HandleProposalCommit(protocol.ProposalCommitParams{TaskID: "task-1", Proposer: "agent-0", Epoch: 0, PlanHash: hash}))
	require.NoError(t, c.HandleProposalCommit(protocol.ProposalCommitParams{TaskID: "task-1", Proposer: "agent-1", Epoch: 0, PlanHash: "irrelevant-never-revealed"}))

	c.mu.RLock()
	revealed := c.rfps["task-1"].RevealCount()
	c.mu.RUnlock()
	require.Equal(t, 1, revealed)
}
