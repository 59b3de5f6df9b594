// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package protocol

import "time"

// HandshakeParams is sent on peer connection to establish identity and
// admission (proof-of-work gated).
type HandshakeParams struct {
	AgentID         string      `json:"agent_id"`
	PubKey          string      `json:"pub_key"`
	Capabilities    []string    `json:"capabilities,omitempty"`
	ProofOfWork     ProofOfWork `json:"proof_of_work"`
	ProtocolVersion string      `json:"protocol_version"`
}

// CandidacyParams announces a Tier1 election candidacy.
type CandidacyParams struct {
	AgentID string  `json:"agent_id"`
	Epoch   uint64  `json:"epoch"`
	Score   float64 `json:"score"`
}

// ElectionVoteParams is a ranked vote for Tier1 candidates.
type ElectionVoteParams struct {
	Voter             string   `json:"voter"`
	Epoch             uint64   `json:"epoch"`
	CandidateRankings []string `json:"candidate_rankings"`
}

// TierAssignmentParams notifies a subordinate of its assigned tier.
type TierAssignmentParams struct {
	AssignedAgent string `json:"assigned_agent"`
	Tier          Tier   `json:"tier"`
	ParentID      string `json:"parent_id"`
	Epoch         uint64 `json:"epoch"`
	BranchSize    uint64 `json:"branch_size"`
}

// TaskInjectionParams introduces a new task from an external source or a
// parent agent.
type TaskInjectionParams struct {
	Task       Task   `json:"task"`
	Originator string `json:"originator"`
}

// ProposalCommitParams is the commit phase of a proposal: only the plan
// hash is disclosed.
type ProposalCommitParams struct {
	TaskID   string `json:"task_id"`
	Proposer string `json:"proposer"`
	Epoch    uint64 `json:"epoch"`
	PlanHash string `json:"plan_hash"`
}

// ProposalRevealParams is the reveal phase: the full plan is disclosed.
type ProposalRevealParams struct {
	TaskID string `json:"task_id"`
	Plan   Plan   `json:"plan"`
}

// ConsensusVoteParams is a ranked-choice ballot for plan selection.
type ConsensusVoteParams struct {
	TaskID       string                 `json:"task_id"`
	Epoch        uint64                 `json:"epoch"`
	Voter        string                 `json:"voter"`
	Rankings     []string               `json:"rankings"`
	CriticScores map[string]CriticScore `json:"critic_scores,omitempty"`
}

// TaskAssignmentParams assigns a (sub)task to an agent.
type TaskAssignmentParams struct {
	Task           Task   `json:"task"`
	Assignee       string `json:"assignee"`
	ParentTaskID   string `json:"parent_task_id"`
	WinningPlanID  string `json:"winning_plan_id"`
}

// ResultSubmissionParams carries an executed task's artifact back to its
// coordinator.
type ResultSubmissionParams struct {
	TaskID      string   `json:"task_id"`
	AgentID     string   `json:"agent_id"`
	Artifact    Artifact `json:"artifact"`
	MerkleProof []string `json:"merkle_proof,omitempty"`
	IsSynthesis bool     `json:"is_synthesis,omitempty"`
	// Content carries the artifact's raw bytes inline when small enough
	// to ship with the submission; larger artifacts are expected to be
	// fetched out of band via their ContentCID.
	Content []byte `json:"content,omitempty"`
}

// VerificationResultParams is the coordinator's accept/reject decision on
// a submitted result.
type VerificationResultParams struct {
	TaskID   string `json:"task_id"`
	AgentID  string `json:"agent_id"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// KeepAliveParams is a periodic liveness ping.
type KeepAliveParams struct {
	AgentID        string    `json:"agent_id"`
	AgentName      string    `json:"agent_name,omitempty"`
	LastTaskPollAt time.Time `json:"last_task_poll_at,omitempty"`
	LastResultAt   time.Time `json:"last_result_at,omitempty"`
	Epoch          uint64    `json:"epoch"`
	Timestamp      time.Time `json:"timestamp"`
}

// SuccessionParams announces a replacement coordinator when a tier leader
// stops responding.
type SuccessionParams struct {
	FailedLeader  string   `json:"failed_leader"`
	NewLeader     string   `json:"new_leader"`
	Epoch         uint64   `json:"epoch"`
	BranchAgents  []string `json:"branch_agents"`
}

// SwarmAnnounceParams advertises a swarm's existence over the DHT and
// GossipSub.
type SwarmAnnounceParams struct {
	SwarmID     SwarmID   `json:"swarm_id"`
	Name        string    `json:"name"`
	IsPublic    bool      `json:"is_public"`
	AgentID     string    `json:"agent_id"`
	AgentCount  uint64    `json:"agent_count"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// SwarmJoinParams requests membership in a swarm, with a token required
// for private swarms.
type SwarmJoinParams struct {
	SwarmID   SwarmID   `json:"swarm_id"`
	AgentID   string    `json:"agent_id"`
	Token     SwarmToken `json:"token,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SwarmJoinResponseParams answers a join request.
type SwarmJoinResponseParams struct {
	SwarmID  SwarmID `json:"swarm_id"`
	AgentID  string  `json:"agent_id"`
	Accepted bool    `json:"accepted"`
	Reason   string  `json:"reason,omitempty"`
}

// SwarmLeaveParams announces departure from a swarm.
type SwarmLeaveParams struct {
	SwarmID   SwarmID   `json:"swarm_id"`
	AgentID   string    `json:"agent_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BoardInviteParams invites local cluster members onto a holonic board.
type BoardInviteParams struct {
	TaskID               string   `json:"task_id"`
	TaskDigest           string   `json:"task_digest"`
	ComplexityEstimate   float64  `json:"complexity_estimate"`
	Depth                uint32   `json:"depth"`
	RequiredCapabilities []string `json:"required_capabilities,omitempty"`
	Capacity             int      `json:"capacity"`
	Chair                string   `json:"chair"`
}

// BoardAcceptParams accepts a board invitation.
type BoardAcceptParams struct {
	TaskID       string   `json:"task_id"`
	AgentID      string   `json:"agent_id"`
	ActiveTasks  uint32   `json:"active_tasks"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// BoardDeclineParams declines a board invitation.
type BoardDeclineParams struct {
	TaskID  string `json:"task_id"`
	AgentID string `json:"agent_id"`
}

// BoardReadyParams announces final board membership.
type BoardReadyParams struct {
	TaskID            string   `json:"task_id"`
	ChairID           string   `json:"chair_id"`
	Members           []string `json:"members"`
	AdversarialCritic string   `json:"adversarial_critic,omitempty"`
}

// BoardDissolveParams dissolves a board after task completion.
type BoardDissolveParams struct {
	TaskID string `json:"task_id"`
}

// DiscussionCritiqueParams is a board member's critique of proposed plans.
type DiscussionCritiqueParams struct {
	TaskID     string                 `json:"task_id"`
	VoterID    string                 `json:"voter_id"`
	Round      uint32                 `json:"round"`
	PlanScores map[string]CriticScore `json:"plan_scores,omitempty"`
	Content    string                 `json:"content"`
}
