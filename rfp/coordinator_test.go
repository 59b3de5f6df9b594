// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rfp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openswarm/swarmcore/protocol"
)

func makePlan(taskID, proposer string, epoch uint64) protocol.Plan {
	return protocol.Plan{
		PlanID:   proposer + "-plan",
		TaskID:   taskID,
		Proposer: proposer,
		Epoch:    epoch,
		Subtasks: []protocol.PlanSubtask{
			{Index: 0, Description: "Subtask A", RequiredCapabilities: []string{"python"}, EstimatedComplexity: 0.5},
		},
	}
}

func commitFor(t *testing.T, plan protocol.Plan) protocol.ProposalCommitParams {
	t.Helper()
	hash, err := ComputePlanHash(plan)
	require.NoError(t, err)
	return protocol.ProposalCommitParams{
		TaskID:   plan.TaskID,
		Proposer: plan.Proposer,
		Epoch:    plan.Epoch,
		PlanHash: hash,
	}
}

func TestFullCommitRevealLifecycle(t *testing.T) {
	c := New("task-1", 1, 2, time.Minute, func() time.Time { return time.Unix(0, 0) })

	require.NoError(t, c.InjectTask(protocol.Task{TaskID: "task-1"}))
	require.Equal(t, CommitPhase, c.Phase())

	planA := makePlan("task-1", "agent-a", 1)
	planB := makePlan("task-1", "agent-b", 1)

	require.NoError(t, c.RecordCommit(commitFor(t, planA)))
	require.Equal(t, CommitPhase, c.Phase())
	require.NoError(t, c.RecordCommit(commitFor(t, planB)))
	require.Equal(t, RevealPhase, c.Phase(), "phase should auto-advance once expected commits arrive")

	require.NoError(t, c.RecordReveal(protocol.ProposalRevealParams{TaskID: "task-1", Plan: planA}))
	require.Equal(t, RevealPhase, c.Phase())
	require.NoError(t, c.RecordReveal(protocol.ProposalRevealParams{TaskID: "task-1", Plan: planB}))
	require.Equal(t, ReadyForVoting, c.Phase())

	proposals, err := c.Finalize()
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	require.Equal(t, Completed, c.Phase())
	require.Equal(t, "agent-a", proposals[0].Proposer)
	require.Equal(t, "agent-b", proposals[1].Proposer)
}

func TestRecordCommitRejectsDuplicateProposer(t *testing.T) {
	c := New("task-1", 1, 2, time.Minute, nil)
	require.NoError(t, c.InjectTask(protocol.Task{TaskID: "task-1"}))

	plan := makePlan("task-1", "agent-a", 1)
	require.NoError(t, c.RecordCommit(commitFor(t, plan)))
	err := c.RecordCommit(commitFor(t, plan))
	require.ErrorIs(t, err, ErrDuplicateCommit)
}

func TestRecordRevealRejectsHashMismatch(t *testing.T) {
	c := New("task-1", 1, 1, time.Minute, nil)
	require.NoError(t, c.InjectTask(protocol.Task{TaskID: "task-1"}))

	plan := makePlan("task-1", "agent-a", 1)
	require.NoError(t, c.RecordCommit(commitFor(t, plan)))
	require.Equal(t, RevealPhase, c.Phase())

	tampered := plan
	tampered.Rationale = "swapped after commit"
	err := c.RecordReveal(protocol.ProposalRevealParams{TaskID: "task-1", Plan: tampered})
	require.ErrorIs(t, err, ErrHashMismatch)
}

func TestRecordCommitReopensCommitPhaseForLateProposer(t *testing.T) {
	c := New("task-1", 1, 3, time.Minute, nil)
	require.NoError(t, c.InjectTask(protocol.Task{TaskID: "task-1"}))

	planA := makePlan("task-1", "agent-a", 1)
	require.NoError(t, c.RecordCommit(commitFor(t, planA)))
	require.NoError(t, c.TransitionToReveal())
	require.Equal(t, RevealPhase, c.Phase())

	planB := makePlan("task-1", "agent-b", 1)
	require.NoError(t, c.RecordCommit(commitFor(t, planB)), "a late commit should reopen the phase since fewer than expected arrived")
	require.Equal(t, CommitPhase, c.Phase())
}

func TestFinalizeRequiresAtLeastOneReveal(t *testing.T) {
	c := New("task-1", 1, 1, time.Minute, nil)
	require.NoError(t, c.InjectTask(protocol.Task{TaskID: "task-1"}))
	require.NoError(t, c.RecordCommit(commitFor(t, makePlan("task-1", "agent-a", 1))))

	_, err := c.Finalize()
	require.ErrorIs(t, err, ErrNoProposals)
}

func TestComputePlanHashIsDeterministic(t *testing.T) {
	plan := makePlan("task-1", "agent-a", 1)
	h1, err := ComputePlanHash(plan)
	require.NoError(t, err)
	h2, err := ComputePlanHash(plan)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}
