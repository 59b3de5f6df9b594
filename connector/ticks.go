// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"sort"
	"time"

	"github.com/openswarm/swarmcore/epoch"
	"github.com/openswarm/swarmcore/hierarchy"
	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/rfp"
)

// TickKeepAlive publishes this node's own liveness ping and prunes members
// that have gone quiet for longer than MemberPruneMultiple keepalive
// intervals.
func (c *Core) TickKeepAlive() []Outbound {
	c.mu.Lock()
	now := c.now()
	staleness := time.Duration(c.cfg.Timers.MemberPruneMultiple) * c.cfg.Timers.KeepAliveInterval
	pruned := false
	for id, m := range c.members {
		if now.Sub(m.lastSeen) > staleness {
			delete(c.members, id)
			pruned = true
		}
	}
	if pruned {
		c.recomputeHierarchyLocked()
	}
	swarmID := protocol.SwarmID(c.cfg.Transport.SwarmID)
	topic := protocol.SwarmAnnounceTopic(swarmID)
	c.mu.Unlock()

	return []Outbound{{
		Topic:  topic,
		Method: protocol.MethodKeepAlive,
		Params: protocol.KeepAliveParams{
			AgentID:   c.self,
			Epoch:     c.epochMgr.CurrentEpoch(),
			Timestamp: now,
		},
	}}
}

// TickEpoch advances the epoch clock and reacts to boundary crossings.
func (c *Core) TickEpoch() []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	swarmSize := uint64(len(c.members) + 1)
	action := c.epochMgr.Tick(swarmSize)
	if action == nil {
		return nil
	}

	switch a := action.(type) {
	case epoch.TriggerElection:
		return c.applyTriggerElectionLocked(a)
	case epoch.FinalizeTransition:
		c.logf("epoch transition finalized", "epoch", a.Epoch)
	}
	return nil
}

// applyTriggerElectionLocked reacts to an epoch.TriggerElection action
// from either the periodic epoch tick or an operator-forced election:
// recomputes the pyramid and announces this node's candidacy. Callers
// must hold mu for writing.
func (c *Core) applyTriggerElectionLocked(a epoch.TriggerElection) []Outbound {
	c.recomputeHierarchyLocked()
	c.observeElection()
	c.logf("epoch election triggered", "epoch", a.NewEpoch, "swarm_size", a.EstimatedSwarmSize)
	return []Outbound{{
		Topic:  protocol.ElectionTier1Topic(protocol.SwarmID(c.cfg.Transport.SwarmID)),
		Method: protocol.MethodCandidacy,
		Params: protocol.CandidacyParams{AgentID: c.self, Epoch: a.NewEpoch},
	}}
}

// TickSwarmAnnounce publishes this node's swarm membership on both the
// global discovery topic and the swarm-specific topic, and returns the
// matching DHT registry write.
func (c *Core) TickSwarmAnnounce() ([]Outbound, []DHTWrite) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	swarmID := protocol.SwarmID(c.cfg.Transport.SwarmID)
	params := protocol.SwarmAnnounceParams{
		SwarmID:    swarmID,
		Name:       protocol.DefaultSwarmName,
		IsPublic:   swarmID.IsPublic(),
		AgentID:    c.self,
		AgentCount: uint64(len(c.members) + 1),
		Timestamp:  c.now(),
	}

	outbound := []Outbound{
		{Topic: protocol.SwarmDiscoveryTopic(), Method: protocol.MethodSwarmAnnounce, Params: params},
		{Topic: protocol.SwarmAnnounceTopic(swarmID), Method: protocol.MethodSwarmAnnounce, Params: params},
	}
	writes := []DHTWrite{{Key: "registry/" + string(swarmID), Value: params}}
	return outbound, writes
}

// TickBootstrapRetry returns the configured bootstrap peer addresses the
// caller should re-dial and re-bootstrap the DHT against.
func (c *Core) TickBootstrapRetry() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.cfg.Transport.BootstrapPeers...)
}

// TickVotingCheck applies the proposal-stage and voting-stage timeouts to
// every active RFP round and, once a task's proposals and ballots both
// reach their expected counts, runs IRV and triggers subtask assignment.
func (c *Core) TickVotingCheck() []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	var outbound []Outbound
	for taskID, coord := range c.rfps {
		task, ok := c.graph.Get(taskID)
		if !ok {
			continue
		}
		age := c.now().Sub(task.CreatedAt)
		expectedProposers := c.countMembersAtTierLocked(task.TierLevel)
		expectedVoters := expectedProposers

		if coord.Phase() == rfp.CommitPhase && age >= c.cfg.Timers.ProposalStageTimeout && coord.CommitCount() >= 1 {
			if err := coord.ForceAdvanceToReveal(); err == nil {
				c.drainPendingRevealsLocked(coord, taskID)
				expectedProposers = coord.ExpectedProposers()
			}
		}

		session, hasSession := c.votes[taskID]
		if !hasSession {
			continue
		}

		ballotCount := 0
		if session.engine != nil {
			ballotCount = session.engine.BallotCount()
		}
		votingAge := c.now().Sub(session.createdAt)
		if votingAge >= c.cfg.Timers.VotingStageTimeout && ballotCount < expectedVoters {
			if ballotCount < 1 {
				expectedVoters = 1
			} else {
				expectedVoters = ballotCount
			}
		}

		proposalCount := coord.RevealCount()

		if ballotCount == 0 && proposalCount == 1 && votingAge >= c.cfg.Timers.VotingStageTimeout {
			if winner, ok := solePlanID(coord); ok {
				outbound = append(outbound, c.finalizeWinnerLocked(taskID, coord, winner)...)
				continue
			}
		}

		if proposalCount > 0 && proposalCount >= expectedProposers && ballotCount >= expectedVoters && ballotCount > 0 {
			result, err := session.engine.RunIRV()
			c.observeIRVRun()
			if err != nil {
				c.logf("irv run failed", "task", taskID, "err", err.Error())
				continue
			}
			outbound = append(outbound, c.finalizeWinnerLocked(taskID, coord, result.Winner)...)
		}
	}
	c.refreshGaugesLocked()
	return outbound
}

// solePlanID returns the single revealed plan's id when exactly one
// proposal has been revealed.
func solePlanID(coord *rfp.Coordinator) (string, bool) {
	reveals := coord.Reveals()
	if len(reveals) != 1 {
		return "", false
	}
	for _, r := range reveals {
		return r.Plan.PlanID, true
	}
	return "", false
}

// finalizeWinnerLocked looks up the winning plan's full body and runs
// subtask assignment against it. Callers must hold mu for writing.
func (c *Core) finalizeWinnerLocked(taskID string, coord *rfp.Coordinator, winnerPlanID string) []Outbound {
	var winnerPlan *protocol.Plan
	for _, r := range coord.Reveals() {
		if r.Plan.PlanID == winnerPlanID {
			p := r.Plan
			winnerPlan = &p
			break
		}
	}
	if winnerPlan == nil {
		return nil
	}

	task, ok := c.graph.Get(taskID)
	if ok && task.Status != protocol.TaskCompleted && task.Status != protocol.TaskInProgress {
		task.Status = protocol.TaskInProgress
		c.graph.Insert(task)
	}

	delete(c.rfps, taskID)
	delete(c.votes, taskID)

	return c.assignSubtasksFromPlanLocked(taskID, *winnerPlan)
}

// TickExecutionTimeout reassigns InProgress subtasks whose deadline has
// passed to another of this node's subordinates.
func (c *Core) TickExecutionTimeout() []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	overdue := c.graph.OverdueInProgress(c.now())
	if len(overdue) == 0 {
		return nil
	}

	subordinates := c.subordinatesLocked()
	if len(subordinates) == 0 {
		return nil
	}

	var outbound []Outbound
	for _, task := range overdue {
		replacement := pickReplacement(subordinates, task.AssignedTo)
		if replacement == "" {
			continue
		}
		deadline := c.now().Add(c.cfg.Timers.ExecutionAssignmentTimeout)
		task.AssignedTo = replacement
		task.Deadline = &deadline
		c.graph.Insert(task)

		outbound = append(outbound, Outbound{
			Topic:  protocol.ResultsTopic(protocol.SwarmID(c.cfg.Transport.SwarmID), task.TaskID),
			Method: protocol.MethodTaskAssignment,
			Params: protocol.TaskAssignmentParams{Task: task, Assignee: replacement, ParentTaskID: task.ParentTaskID},
		})
	}
	return outbound
}

// subordinatesLocked returns the active participating members this node
// is the parent of, per the current hierarchy layout.
func (c *Core) subordinatesLocked() []string {
	k := hierarchy.DynamicBranchingFactor(len(c.members) + 1)
	children := c.hierarchy.Children(c.self, k)
	out := make([]string, 0, len(children))
	for _, child := range children {
		if c.isParticipatingLocked(child) {
			out = append(out, child)
		}
	}
	sort.Strings(out)
	return out
}

// pickReplacement deterministically chooses the lexicographically first
// subordinate other than excluded.
func pickReplacement(subordinates []string, excluded string) string {
	for _, s := range subordinates {
		if s != excluded {
			return s
		}
	}
	return ""
}
