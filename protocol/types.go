// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package protocol defines the wire types, JSON-RPC envelope, method
// constants, and pub/sub topic builders shared by every swarm node: the
// domain vocabulary the Connector Core, RFP, voting, and task graph
// packages exchange over the transport layer.
package protocol

import "time"

// Tier identifies an agent's position in the dynamic pyramid hierarchy.
// Depth 1 is Tier1 (root); Executor is always the deepest tier.
type Tier struct {
	Depth      uint32
	IsExecutor bool
}

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	TaskPending       TaskStatus = "pending"
	TaskProposalPhase TaskStatus = "proposal_phase"
	TaskVotingPhase   TaskStatus = "voting_phase"
	TaskInProgress    TaskStatus = "in_progress"
	TaskCompleted     TaskStatus = "completed"
	TaskFailed        TaskStatus = "failed"
	TaskRejected      TaskStatus = "rejected"
)

// Task is a unit of work in the swarm hierarchy, possibly decomposed into
// subtasks by a winning Plan.
type Task struct {
	TaskID              string     `json:"task_id"`
	ParentTaskID        string     `json:"parent_task_id,omitempty"`
	Epoch               uint64     `json:"epoch"`
	Status              TaskStatus `json:"status"`
	Description         string     `json:"description"`
	AssignedTo          string     `json:"assigned_to,omitempty"`
	TierLevel           uint32     `json:"tier_level"`
	Subtasks            []string   `json:"subtasks,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	Deadline            *time.Time `json:"deadline,omitempty"`
	TaskType            string     `json:"task_type,omitempty"`
	Horizon             string     `json:"horizon,omitempty"`
	CapabilitiesRequired []string  `json:"capabilities_required,omitempty"`
	BacktrackAllowed    bool       `json:"backtrack_allowed,omitempty"`
	KnowledgeDomains    []string   `json:"knowledge_domains,omitempty"`
	ToolsAvailable      []string   `json:"tools_available,omitempty"`
}

// NewTask builds a Pending task at the given tier and epoch. Callers supply
// taskID (typically a UUID minted by the caller) since the package avoids a
// hidden random-ID dependency.
func NewTask(taskID, description string, tierLevel uint32, epoch uint64, now time.Time) Task {
	return Task{
		TaskID:      taskID,
		Epoch:       epoch,
		Status:      TaskPending,
		Description: description,
		TierLevel:   tierLevel,
		CreatedAt:   now,
	}
}

// PlanSubtask is one proposed decomposition unit within a Plan.
type PlanSubtask struct {
	Index                int      `json:"index"`
	Description          string   `json:"description"`
	RequiredCapabilities []string `json:"required_capabilities,omitempty"`
	EstimatedComplexity  float64  `json:"estimated_complexity"`
}

// Plan is a proposer's decomposition of a task, committed and revealed
// through the RFP state machine before being voted on.
type Plan struct {
	PlanID               string        `json:"plan_id"`
	TaskID               string        `json:"task_id"`
	Proposer             string        `json:"proposer"`
	Epoch                uint64        `json:"epoch"`
	Subtasks             []PlanSubtask `json:"subtasks"`
	Rationale            string        `json:"rationale"`
	EstimatedParallelism uint32        `json:"estimated_parallelism"`
	CreatedAt            time.Time     `json:"created_at"`
}

// Artifact is the result of executing a task: content plus the hashes that
// let a parent verify and fold it into the task graph's Merkle structure.
type Artifact struct {
	ArtifactID  string    `json:"artifact_id"`
	TaskID      string    `json:"task_id"`
	Producer    string    `json:"producer"`
	ContentCID  string    `json:"content_cid"`
	MerkleHash  string    `json:"merkle_hash"`
	ContentType string    `json:"content_type"`
	SizeBytes   uint64    `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// CriticScore is a board member's multi-dimensional appraisal of a plan,
// folded into a single weighted score for IRV elimination ordering.
type CriticScore struct {
	Feasibility  float64 `json:"feasibility"`
	Parallelism  float64 `json:"parallelism"`
	Completeness float64 `json:"completeness"`
	Risk         float64 `json:"risk"`
}

// Aggregate folds the four dimensions into one score in [0, 1], weighting
// feasibility and completeness highest and treating risk as a penalty.
func (c CriticScore) Aggregate() float64 {
	return 0.30*c.Feasibility + 0.25*c.Parallelism + 0.30*c.Completeness + 0.15*(1-c.Risk)
}

// RankedVote is one voter's instant-runoff ballot over competing plans.
type RankedVote struct {
	Voter        string                 `json:"voter"`
	TaskID       string                 `json:"task_id"`
	Epoch        uint64                 `json:"epoch"`
	Rankings     []string               `json:"rankings"`
	CriticScores map[string]CriticScore `json:"critic_scores,omitempty"`
}

// Epoch describes one coordinator-election period.
type Epoch struct {
	EpochNumber        uint64    `json:"epoch_number"`
	StartedAt          time.Time `json:"started_at"`
	DurationSecs       uint64    `json:"duration_secs"`
	Tier1Leaders       []string  `json:"tier1_leaders,omitempty"`
	EstimatedSwarmSize uint64    `json:"estimated_swarm_size"`
}

// NetworkStats is the snapshot a node reports about its place in the swarm.
type NetworkStats struct {
	TotalAgents       uint64 `json:"total_agents"`
	HierarchyDepth    int    `json:"hierarchy_depth"`
	BranchingFactor   int    `json:"branching_factor"`
	CurrentEpoch      uint64 `json:"current_epoch"`
	MyTier            Tier   `json:"my_tier"`
	SubordinateCount  int    `json:"subordinate_count"`
	ParentID          string `json:"parent_id,omitempty"`
}

// ProofOfWork is the handshake admission ticket: a nonce whose hash over
// the handshake payload has at least Difficulty leading zero bits.
type ProofOfWork struct {
	Nonce      uint64 `json:"nonce"`
	Hash       string `json:"hash"`
	Difficulty uint32 `json:"difficulty"`
}

// SwarmID identifies a swarm namespace; only the default swarm,
// DefaultSwarmID ("public"), is public.
type SwarmID string

// IsPublic reports whether id is the default public swarm.
func (id SwarmID) IsPublic() bool { return string(id) == DefaultSwarmID }

// SwarmToken authenticates joins to a private swarm.
type SwarmToken string

// SwarmInfo is the metadata a swarm advertises over the DHT.
type SwarmInfo struct {
	SwarmID     SwarmID   `json:"swarm_id"`
	Name        string    `json:"name"`
	IsPublic    bool      `json:"is_public"`
	AgentCount  uint64    `json:"agent_count"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description"`
}

// HolonStatus is the lifecycle state of a dynamic holonic board.
type HolonStatus string

const (
	HolonForming       HolonStatus = "forming"
	HolonDeliberating  HolonStatus = "deliberating"
	HolonVoting        HolonStatus = "voting"
	HolonExecuting     HolonStatus = "executing"
	HolonSynthesizing  HolonStatus = "synthesizing"
	HolonDone          HolonStatus = "done"
)

// HolonState is the state of a dynamic board formed around one task.
type HolonState struct {
	TaskID               string            `json:"task_id"`
	Chair                string            `json:"chair"`
	Members              []string          `json:"members"`
	AdversarialCritic    string            `json:"adversarial_critic,omitempty"`
	Depth                uint32            `json:"depth"`
	ParentHolon          string            `json:"parent_holon,omitempty"`
	ChildHolons          []string          `json:"child_holons,omitempty"`
	SubtaskAssignments   map[string]string `json:"subtask_assignments,omitempty"`
	Status               HolonStatus       `json:"status"`
	CreatedAt            time.Time         `json:"created_at"`
}

// DeliberationType classifies a DeliberationMessage.
type DeliberationType string

const (
	DeliberationProposalSubmission DeliberationType = "proposal_submission"
	DeliberationCritiqueFeedback   DeliberationType = "critique_feedback"
	DeliberationRebuttal           DeliberationType = "rebuttal"
	DeliberationSynthesisResult    DeliberationType = "synthesis_result"
)

// DeliberationMessage is one entry in a holon board's discussion thread.
type DeliberationMessage struct {
	ID               string                 `json:"id"`
	TaskID           string                 `json:"task_id"`
	Timestamp        time.Time              `json:"timestamp"`
	Speaker          string                 `json:"speaker"`
	Round            uint32                 `json:"round"`
	MessageType      DeliberationType       `json:"message_type"`
	Content          string                 `json:"content"`
	ReferencedPlanID string                 `json:"referenced_plan_id,omitempty"`
	CriticScores     map[string]CriticScore `json:"critic_scores,omitempty"`
}

// BallotRecord is a full per-voter ballot kept for deliberation visibility,
// independent of the IRV tallying state.
type BallotRecord struct {
	TaskID                string                 `json:"task_id"`
	Voter                 string                 `json:"voter"`
	Rankings              []string               `json:"rankings"`
	CriticScores          map[string]CriticScore `json:"critic_scores"`
	Timestamp             time.Time              `json:"timestamp"`
	IRVRoundWhenEliminated *uint32               `json:"irv_round_when_eliminated,omitempty"`
}

// IRVRound records one elimination round of instant-runoff tallying, kept
// for debugging and UI/audit purposes.
type IRVRound struct {
	TaskID               string         `json:"task_id"`
	RoundNumber          uint32         `json:"round_number"`
	Tallies              map[string]int `json:"tallies"`
	Eliminated           string         `json:"eliminated,omitempty"`
	ContinuingCandidates []string       `json:"continuing_candidates"`
}
