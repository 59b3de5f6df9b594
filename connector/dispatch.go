// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"fmt"
	"sort"

	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/rfp"
)

// resultAcceptedAward is the reputation bump an agent earns for a result
// the task graph accepts, an objective event submitted at full weight
// (see reputation.ObserverContribution).
const resultAcceptedAward = 10

// HandleKeepAlive updates a member's liveness and recomputes the pyramid
// from the resulting active set.
func (c *Core) HandleKeepAlive(params protocol.KeepAliveParams) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.members[params.AgentID]
	if !ok {
		m = &member{}
		c.members[params.AgentID] = m
	}
	m.lastSeen = c.now()
	if !params.LastTaskPollAt.IsZero() {
		m.lastTaskPoll = params.LastTaskPollAt
	}
	if !params.LastResultAt.IsZero() {
		m.lastResult = params.LastResultAt
	}
	c.recomputeHierarchyLocked()
	c.logf("keepalive received", "agent", params.AgentID)
}

// markSeenLocked refreshes an already-known agentID's liveness the same
// way HandleKeepAlive does: any protocol message is evidence the sender
// is alive, not just a keepalive ping. Unlike HandleKeepAlive, it never
// vivifies a brand-new member — bootstrapping membership is KeepAlive's
// job, not a side effect of a proposal/reveal/vote. Callers mark seen
// before gating on isParticipatingLocked, per the "mark proposer
// seen/polled (pre-check)" step proposal/reveal handling requires.
func (c *Core) markSeenLocked(agentID string) {
	if m, ok := c.members[agentID]; ok {
		m.lastSeen = c.now()
	}
}

// HandleTierAssignment applies a tier/parent assignment addressed to this
// node and subscribes to that tier's task topic.
func (c *Core) HandleTierAssignment(params protocol.TierAssignmentParams) []Outbound {
	if params.AssignedAgent != c.self {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.myTier = params.Tier
	c.parentID = params.ParentID
	c.hasParent = params.ParentID != ""
	topic := fmt.Sprintf("%s/s/%s/tasks/tier%d", protocol.TopicPrefix, protocol.SwarmID(c.cfg.Transport.SwarmID), params.Tier.Depth)
	c.subscribeLocked(topic)
	return []Outbound{{Topic: topic, Method: protocol.MethodTierAssignment}}
}

// HandleTaskInjection records a newly injected task if it belongs to this
// node's tier (Executors accept any task; coordinators accept only tasks
// addressed to their own tier), creates the RFP round when this node acts
// as coordinator, and subscribes to the task's proposal/voting/result
// topics.
func (c *Core) HandleTaskInjection(params protocol.TaskInjectionParams) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.myTier.IsExecutor && params.Task.TierLevel != c.myTier.Depth {
		return nil
	}

	if params.Originator != "" && params.Originator != c.self {
		// CapabilitiesRequired count stands in for the task's declared
		// complexity: the richer the requirement list, the more standing
		// the injector needs.
		complexity := uint32(len(params.Task.CapabilitiesRequired))
		if err := c.gate.Allow(params.Originator, complexity); err != nil {
			c.logf("task injection rejected", "task", params.Task.TaskID, "originator", params.Originator, "err", err.Error())
			return nil
		}
	}

	c.graph.Insert(params.Task)

	swarmID := protocol.SwarmID(c.cfg.Transport.SwarmID)
	var outbound []Outbound

	if !c.myTier.IsExecutor {
		expected := c.countMembersAtTierLocked(c.myTier.Depth)
		coord := rfp.New(params.Task.TaskID, params.Task.Epoch, expected, c.cfg.RFP.CommitRevealTimeout, c.now)
		_ = coord.InjectTask(params.Task)
		c.rfps[params.Task.TaskID] = coord
	}

	c.holons[params.Task.TaskID] = &protocol.HolonState{
		TaskID:    params.Task.TaskID,
		Chair:     c.self,
		Status:    protocol.HolonForming,
		CreatedAt: c.now(),
	}

	for _, topic := range []string{
		protocol.ProposalsTopic(swarmID, params.Task.TaskID),
		protocol.VotingTopic(swarmID, params.Task.TaskID),
		protocol.ResultsTopic(swarmID, params.Task.TaskID),
	} {
		c.subscribeLocked(topic)
		outbound = append(outbound, Outbound{Topic: topic, Method: protocol.MethodTaskInjection})
	}
	return outbound
}

// countMembersAtTierLocked counts the active participating members at
// depth, self included, matching spec's "recomputed on every tick from
// the live active-participating set" for expected_proposers/voters.
func (c *Core) countMembersAtTierLocked(depth uint32) int {
	count := 0
	if c.myTier.Depth == depth {
		count++
	}
	for id, m := range c.members {
		if m.tier.Depth == depth && c.isParticipatingLocked(id) {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// HandleProposalCommit auto-creates the task/RFP if missing, records the
// commit, and drains any buffered reveals once the round reaches
// RevealPhase.
func (c *Core) HandleProposalCommit(params protocol.ProposalCommitParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.markSeenLocked(params.Proposer)
	if !c.isParticipatingLocked(params.Proposer) {
		c.logf("dropping commit from non-participating proposer", "proposer", params.Proposer)
		return nil
	}

	if _, exists := c.graph.Get(params.TaskID); !exists {
		c.graph.Insert(protocol.NewTask(params.TaskID, "", c.myTier.Depth, params.Epoch, c.now()))
	}
	coord, ok := c.rfps[params.TaskID]
	if !ok {
		coord = rfp.New(params.TaskID, params.Epoch, 1, c.cfg.RFP.CommitRevealTimeout, c.now)
		c.rfps[params.TaskID] = coord
	}
	if coord.Phase() == rfp.Idle {
		_ = coord.InjectTask(protocol.Task{TaskID: params.TaskID, Epoch: params.Epoch})
	}

	if err := coord.RecordCommit(params); err != nil {
		return err
	}

	if coord.Phase() == rfp.RevealPhase {
		c.drainPendingRevealsLocked(coord, params.TaskID)
	}
	return nil
}

// HandleProposalReveal records a reveal if the RFP can currently accept
// one, or buffers it for the later drain otherwise.
func (c *Core) HandleProposalReveal(params protocol.ProposalRevealParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.markSeenLocked(params.Plan.Proposer)
	if !c.isParticipatingLocked(params.Plan.Proposer) {
		c.logf("dropping reveal from non-participating proposer", "proposer", params.Plan.Proposer)
		return nil
	}

	coord, ok := c.rfps[params.TaskID]
	if !ok || (coord.Phase() != rfp.RevealPhase && coord.Phase() != rfp.ReadyForVoting) {
		if _, ok := c.pendingReveals[params.TaskID]; !ok {
			c.pendingReveals[params.TaskID] = make(map[string]protocol.Plan)
		}
		c.pendingReveals[params.TaskID][params.Plan.Proposer] = params.Plan
		return nil
	}

	if err := coord.RecordReveal(params); err != nil {
		return err
	}
	c.mirrorRevealsIntoVotingLocked(params.TaskID, coord)
	return nil
}

// drainPendingRevealsLocked applies every buffered reveal for taskID, in
// proposer-id-sorted order, now that the round accepts them.
func (c *Core) drainPendingRevealsLocked(coord *rfp.Coordinator, taskID string) {
	buffered, ok := c.pendingReveals[taskID]
	if !ok || len(buffered) == 0 {
		return
	}
	proposers := make([]string, 0, len(buffered))
	for p := range buffered {
		proposers = append(proposers, p)
	}
	sort.Strings(proposers)

	for _, proposer := range proposers {
		plan := buffered[proposer]
		if err := coord.RecordReveal(protocol.ProposalRevealParams{TaskID: taskID, Plan: plan}); err == nil {
			delete(buffered, proposer)
		}
	}
	if len(buffered) == 0 {
		delete(c.pendingReveals, taskID)
	}
	c.mirrorRevealsIntoVotingLocked(taskID, coord)
}

// mirrorRevealsIntoVotingLocked keeps the task's voting engine's proposal
// set in sync with every plan revealed so far.
func (c *Core) mirrorRevealsIntoVotingLocked(taskID string, coord *rfp.Coordinator) {
	session, ok := c.votes[taskID]
	if !ok {
		session = &votingSession{createdAt: c.now()}
		c.votes[taskID] = session
	}
	task, _ := c.graph.Get(taskID)
	session.engine = newVotingEngineLocked(c.cfg, taskID, task.Epoch)

	proposals := make(map[string]string)
	for proposer, plan := range coord.Reveals() {
		proposals[plan.PlanID] = proposer
	}
	session.engine.SetProposals(proposals)
}

// HandleConsensusVote records a ranked ballot from a participating voter.
// The owning task's status only advances to VotingPhase from a
// pre-voting state; InProgress/Completed/Failed are never downgraded.
func (c *Core) HandleConsensusVote(params protocol.ConsensusVoteParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isParticipatingLocked(params.Voter) {
		c.logf("dropping vote from non-participating voter", "voter", params.Voter)
		return nil
	}

	session, ok := c.votes[params.TaskID]
	if !ok {
		session = &votingSession{engine: newVotingEngineLocked(c.cfg, params.TaskID, params.Epoch), createdAt: c.now()}
		c.votes[params.TaskID] = session
	}

	vote := protocol.RankedVote{
		Voter: params.Voter, TaskID: params.TaskID, Epoch: params.Epoch,
		Rankings: params.Rankings, CriticScores: params.CriticScores,
	}
	if err := session.engine.RecordVote(vote); err != nil {
		return err
	}

	if task, ok := c.graph.Get(params.TaskID); ok {
		switch task.Status {
		case protocol.TaskPending, protocol.TaskProposalPhase:
			task.Status = protocol.TaskVotingPhase
			c.graph.Insert(task)
		}
	}
	return nil
}

// HandleResultSubmission records an executor's result and triggers
// bottom-up aggregation; the caller is responsible for publishing the
// returned Outbound messages once the lock is released.
func (c *Core) HandleResultSubmission(params protocol.ResultSubmissionParams) ([]Outbound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.graph.SubmitResult(params.TaskID, params.AgentID, params.Artifact); err != nil {
		return nil, err
	}
	c.scores.Award(params.AgentID, resultAcceptedAward)
	if len(params.Content) > 0 {
		if err := c.store.Put(params.Artifact.ContentCID, params.Content); err != nil {
			c.logf("artifact store failed", "cid", params.Artifact.ContentCID, "err", err.Error())
		}
	}

	task, ok := c.graph.Get(params.TaskID)
	if !ok || task.ParentTaskID == "" {
		return nil, nil
	}

	parent, ok := c.graph.Get(task.ParentTaskID)
	if !ok || parent.Status != protocol.TaskCompleted {
		return nil, nil
	}

	return []Outbound{{
		Topic:  protocol.ResultsTopic(protocol.SwarmID(c.cfg.Transport.SwarmID), task.ParentTaskID),
		Method: protocol.MethodResultSubmission,
		Params: protocol.ResultSubmissionParams{
			TaskID:      parent.TaskID,
			AgentID:     c.self,
			IsSynthesis: true,
		},
	}}, nil
}

// HandleBoardInvite records an invitation's holon-forming state.
func (c *Core) HandleBoardInvite(params protocol.BoardInviteParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.holons[params.TaskID]
	if !ok {
		h = &protocol.HolonState{TaskID: params.TaskID, CreatedAt: c.now()}
		c.holons[params.TaskID] = h
	}
	h.Chair = params.Chair
	h.Depth = params.Depth
	h.Status = protocol.HolonForming
}

// HandleBoardAccept adds an accepting agent to the holon's member list.
func (c *Core) HandleBoardAccept(params protocol.BoardAcceptParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.holons[params.TaskID]
	if !ok {
		return
	}
	for _, existing := range h.Members {
		if existing == params.AgentID {
			return
		}
	}
	h.Members = append(h.Members, params.AgentID)
}

// HandleBoardDecline is a no-op beyond logging: a decline never mutates
// holon membership.
func (c *Core) HandleBoardDecline(params protocol.BoardDeclineParams) {
	c.logf("board invite declined", "task", params.TaskID, "agent", params.AgentID)
}

// HandleBoardReady finalizes holon membership and marks it Deliberating.
func (c *Core) HandleBoardReady(params protocol.BoardReadyParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.holons[params.TaskID]
	if !ok {
		h = &protocol.HolonState{TaskID: params.TaskID, CreatedAt: c.now()}
		c.holons[params.TaskID] = h
	}
	h.Members = params.Members
	h.AdversarialCritic = params.AdversarialCritic
	h.Status = protocol.HolonDeliberating
}

// HandleBoardDissolve marks a holon Done.
func (c *Core) HandleBoardDissolve(params protocol.BoardDissolveParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.holons[params.TaskID]; ok {
		h.Status = protocol.HolonDone
	}
}

// HandleDiscussionCritique records a board member's critique scores and
// content into the RFP's critique store, keyed by voter. It keeps no
// separate per-voter ballot record.
func (c *Core) HandleDiscussionCritique(params protocol.DiscussionCritiqueParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if coord, ok := c.rfps[params.TaskID]; ok {
		coord.RecordCritique(params.VoterID, params.PlanScores, params.Content)
	}
}

// HandleSwarmAnnounce updates the known-swarms registry.
func (c *Core) HandleSwarmAnnounce(params protocol.SwarmAnnounceParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.knownSwarms[string(params.SwarmID)] = protocol.SwarmInfo{
		SwarmID: params.SwarmID, Name: params.Name, IsPublic: params.IsPublic,
		AgentCount: params.AgentCount, Description: params.Description, CreatedAt: params.Timestamp,
	}
}

// HandleSwarmJoin accepts or rejects a join request. It rejects only a
// join to a swarm already known to be private when the request carries no
// token; joins to public or not-yet-known swarms are accepted. The token's
// value is not verified, only its presence.
func (c *Core) HandleSwarmJoin(params protocol.SwarmJoinParams) protocol.SwarmJoinResponseParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, known := c.knownSwarms[string(params.SwarmID)]
	if known && !info.IsPublic && params.Token == "" {
		return protocol.SwarmJoinResponseParams{SwarmID: params.SwarmID, AgentID: params.AgentID, Accepted: false, Reason: "missing token"}
	}
	return protocol.SwarmJoinResponseParams{SwarmID: params.SwarmID, AgentID: params.AgentID, Accepted: true}
}

// HandleSwarmLeave removes an agent's membership record.
func (c *Core) HandleSwarmLeave(params protocol.SwarmLeaveParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.members, params.AgentID)
	c.recomputeHierarchyLocked()
}
