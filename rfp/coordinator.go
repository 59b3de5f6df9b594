// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package rfp coordinates the commit-reveal Request-for-Proposal round for
// a single task: Tier-1 agents commit a plan hash, then reveal the full
// plan once every expected commit has arrived, producing the verified
// proposal set voting runs over.
package rfp

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/openswarm/swarmcore/identity"
	"github.com/openswarm/swarmcore/protocol"
)

// Phase is the state of an RFP round.
type Phase int

const (
	Idle Phase = iota
	CommitPhase
	RevealPhase
	CritiquePhase
	ReadyForVoting
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case CommitPhase:
		return "CommitPhase"
	case RevealPhase:
		return "RevealPhase"
	case CritiquePhase:
		return "CritiquePhase"
	case ReadyForVoting:
		return "ReadyForVoting"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

var (
	ErrWrongPhase      = errors.New("rfp: operation not valid in current phase")
	ErrTaskMismatch    = errors.New("rfp: task id does not match this coordinator")
	ErrEpochMismatch   = errors.New("rfp: epoch does not match this coordinator")
	ErrDuplicateCommit = errors.New("rfp: proposer already committed")
	ErrNoProposals     = errors.New("rfp: no proposals available")
	ErrNoCommit        = errors.New("rfp: no commit found for proposer")
	ErrHashMismatch    = errors.New("rfp: revealed plan hash does not match commit")
)

// pendingCommit is a committed but not-yet-revealed plan hash.
type pendingCommit struct {
	planHash    string
	committedAt time.Time
}

// RevealedProposal is a verified, fully revealed plan.
type RevealedProposal struct {
	Proposer string
	Plan     protocol.Plan
	PlanHash string
}

// Coordinator drives the commit-reveal RFP round for one task.
type Coordinator struct {
	taskID             string
	epoch              uint64
	phase              Phase
	commits            map[string]pendingCommit
	reveals            map[string]RevealedProposal
	commitStartedAt    time.Time
	commitTimeout      time.Duration
	expectedProposers  int
	critiqueScores     map[string]map[string]protocol.CriticScore
	critiqueContent    map[string]string
	now                func() time.Time
}

// New creates a Coordinator for taskID at epoch, expecting expectedProposers
// commits before auto-transitioning to the reveal phase.
func New(taskID string, epoch uint64, expectedProposers int, commitTimeout time.Duration, now func() time.Time) *Coordinator {
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		taskID:            taskID,
		epoch:             epoch,
		phase:             Idle,
		commits:           make(map[string]pendingCommit),
		reveals:           make(map[string]RevealedProposal),
		commitTimeout:     commitTimeout,
		expectedProposers: expectedProposers,
		critiqueScores:    make(map[string]map[string]protocol.CriticScore),
		critiqueContent:   make(map[string]string),
		now:               now,
	}
}

// Phase returns the coordinator's current phase.
func (c *Coordinator) Phase() Phase { return c.phase }

// TaskID returns the task this coordinator is running an RFP round for.
func (c *Coordinator) TaskID() string { return c.taskID }

// CommitCount returns the number of commits received so far.
func (c *Coordinator) CommitCount() int { return len(c.commits) }

// RevealCount returns the number of reveals received so far.
func (c *Coordinator) RevealCount() int { return len(c.reveals) }

// InjectTask starts the RFP round, moving Idle -> CommitPhase.
func (c *Coordinator) InjectTask(task protocol.Task) error {
	if c.phase != Idle {
		return fmt.Errorf("%w: inject_task in %s", ErrWrongPhase, c.phase)
	}
	if task.TaskID != c.taskID {
		return fmt.Errorf("%w: got %s want %s", ErrTaskMismatch, task.TaskID, c.taskID)
	}
	c.phase = CommitPhase
	c.commitStartedAt = c.now()
	return nil
}

// RecordCommit records a proposer's plan-hash commit. If a commit arrives
// while in RevealPhase/ReadyForVoting and fewer commits than expected have
// been recorded, the round reopens to CommitPhase — the original
// prototype's accommodation for late-arriving Tier-1 members.
func (c *Coordinator) RecordCommit(params protocol.ProposalCommitParams) error {
	if (c.phase == RevealPhase || c.phase == ReadyForVoting) && len(c.commits) < c.expectedProposers {
		c.phase = CommitPhase
	}
	if c.phase != CommitPhase {
		return fmt.Errorf("%w: record_commit in %s", ErrWrongPhase, c.phase)
	}
	if params.TaskID != c.taskID {
		return fmt.Errorf("%w: got %s want %s", ErrTaskMismatch, params.TaskID, c.taskID)
	}
	if params.Epoch != c.epoch {
		return fmt.Errorf("%w: got %d want %d", ErrEpochMismatch, params.Epoch, c.epoch)
	}
	if _, exists := c.commits[params.Proposer]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommit, params.Proposer)
	}

	c.commits[params.Proposer] = pendingCommit{planHash: params.PlanHash, committedAt: c.now()}

	if len(c.commits) >= c.expectedProposers {
		c.phase = RevealPhase
	}
	return nil
}

// TransitionToReveal manually advances CommitPhase -> RevealPhase, e.g. on
// a commit-window timeout with fewer than expectedProposers commits.
func (c *Coordinator) TransitionToReveal() error {
	if c.phase != CommitPhase {
		return fmt.Errorf("%w: transition_to_reveal from %s", ErrWrongPhase, c.phase)
	}
	if len(c.commits) == 0 {
		return fmt.Errorf("%w: %s", ErrNoProposals, c.taskID)
	}
	c.phase = RevealPhase
	return nil
}

// IsCommitTimedOut reports whether the commit phase has been open at least
// commitTimeout.
func (c *Coordinator) IsCommitTimedOut() bool {
	if c.commitStartedAt.IsZero() {
		return false
	}
	return c.now().Sub(c.commitStartedAt) >= c.commitTimeout
}

// ForceAdvanceToReveal is the commit-window timeout path: it narrows
// expectedProposers down to however many commits actually arrived, then
// advances CommitPhase -> RevealPhase the normal way.
func (c *Coordinator) ForceAdvanceToReveal() error {
	if len(c.commits) < c.expectedProposers {
		c.expectedProposers = len(c.commits)
	}
	return c.TransitionToReveal()
}

// ExpectedProposers returns the number of commits currently expected
// before the round auto-advances to RevealPhase.
func (c *Coordinator) ExpectedProposers() int { return c.expectedProposers }

// RecordReveal verifies and records a proposer's revealed plan. The
// computed SHA-256 of the plan's canonical JSON must match the hash
// committed earlier.
func (c *Coordinator) RecordReveal(params protocol.ProposalRevealParams) error {
	if c.phase != RevealPhase {
		return fmt.Errorf("%w: record_reveal in %s", ErrWrongPhase, c.phase)
	}
	if params.TaskID != c.taskID {
		return fmt.Errorf("%w: got %s want %s", ErrTaskMismatch, params.TaskID, c.taskID)
	}

	proposer := params.Plan.Proposer
	commit, ok := c.commits[proposer]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCommit, proposer)
	}

	computed, err := ComputePlanHash(params.Plan)
	if err != nil {
		return err
	}
	if computed != commit.planHash {
		return fmt.Errorf("%w: expected %s got %s", ErrHashMismatch, commit.planHash, computed)
	}

	c.reveals[proposer] = RevealedProposal{Proposer: proposer, Plan: params.Plan, PlanHash: computed}

	if len(c.reveals) >= len(c.commits) {
		c.phase = ReadyForVoting
	}
	return nil
}

// TransitionToCritique advances RevealPhase/ReadyForVoting -> CritiquePhase.
func (c *Coordinator) TransitionToCritique() error {
	if c.phase != RevealPhase && c.phase != ReadyForVoting {
		return fmt.Errorf("%w: transition_to_critique from %s", ErrWrongPhase, c.phase)
	}
	c.phase = CritiquePhase
	return nil
}

// RecordCritique records a board member's critique of the revealed plans.
func (c *Coordinator) RecordCritique(voter string, scores map[string]protocol.CriticScore, content string) {
	c.critiqueScores[voter] = scores
	c.critiqueContent[voter] = content
}

// Reveals returns every plan revealed so far, keyed by proposer.
func (c *Coordinator) Reveals() map[string]RevealedProposal {
	return c.reveals
}

// CritiqueScores returns the recorded critique scores, keyed by voter.
func (c *Coordinator) CritiqueScores() map[string]map[string]protocol.CriticScore {
	return c.critiqueScores
}

// TransitionToVoting advances CritiquePhase/RevealPhase/ReadyForVoting ->
// ReadyForVoting.
func (c *Coordinator) TransitionToVoting() error {
	if c.phase != CritiquePhase && c.phase != RevealPhase && c.phase != ReadyForVoting {
		return fmt.Errorf("%w: transition_to_voting from %s", ErrWrongPhase, c.phase)
	}
	c.phase = ReadyForVoting
	return nil
}

// Finalize closes the round and returns every verified proposal, sorted by
// proposer id for deterministic downstream processing.
func (c *Coordinator) Finalize() ([]RevealedProposal, error) {
	if c.phase != ReadyForVoting && c.phase != RevealPhase {
		return nil, fmt.Errorf("%w: finalize in %s", ErrWrongPhase, c.phase)
	}
	if len(c.reveals) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoProposals, c.taskID)
	}
	c.phase = Completed

	out := make([]RevealedProposal, 0, len(c.reveals))
	for _, r := range c.reveals {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Proposer < out[j].Proposer })
	return out, nil
}

// ComputePlanHash is the SHA-256 hex digest of plan's canonical JSON
// encoding, used both by proposers computing their commit and by
// RecordReveal verifying it.
func ComputePlanHash(plan protocol.Plan) (string, error) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	return identity.SHA256Hex(raw), nil
}
