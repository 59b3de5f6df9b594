// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"sync"

	"github.com/openswarm/swarmcore/crdt"
	"github.com/openswarm/swarmcore/protoerr"
	"github.com/openswarm/swarmcore/reputation"
)

// InjectionGate decides whether an externally originated task may be
// admitted into the graph. Reputation is hookable policy, not a
// correctness invariant: the default gate admits everything.
type InjectionGate interface {
	Allow(agentID string, complexity uint32) error
}

// AllowAllGate is the zero-value InjectionGate every Core starts with.
type AllowAllGate struct{}

// Allow always admits.
func (AllowAllGate) Allow(string, uint32) error { return nil }

// ReputationGate enforces reputation.CheckInjectionPermission against each
// agent's tracked score.
type ReputationGate struct {
	scores *AgentScores
}

// NewReputationGate builds a gate backed by scores.
func NewReputationGate(scores *AgentScores) *ReputationGate {
	return &ReputationGate{scores: scores}
}

// Allow reports a *protoerr.Error of Kind Reputation when agentID's
// current score falls below the minimum the complexity requires.
func (g *ReputationGate) Allow(agentID string, complexity uint32) error {
	if err := reputation.CheckInjectionPermission(g.scores.Value(agentID), complexity); err != nil {
		return protoerr.New(protoerr.Reputation, "task.inject", err)
	}
	return nil
}

// AgentScores tracks every known agent's reputation as a PN-counter, so a
// score observed locally (objective events this node witnessed) merges
// cleanly with the same agent's counter gossiped in from another
// coordinator without double-counting either replica's contribution.
type AgentScores struct {
	mu      sync.Mutex
	self    string
	byAgent map[string]*crdt.PNCounter
}

// NewAgentScores returns an empty score table attributing this node's own
// awards/penalties to self.
func NewAgentScores(self string) *AgentScores {
	return &AgentScores{self: self, byAgent: make(map[string]*crdt.PNCounter)}
}

func (a *AgentScores) counterLocked(agentID string) *crdt.PNCounter {
	c, ok := a.byAgent[agentID]
	if !ok {
		c = crdt.NewPNCounter(a.self)
		a.byAgent[agentID] = c
	}
	return c
}

// Award adds amount to agentID's locally-attributed score.
func (a *AgentScores) Award(agentID string, amount uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counterLocked(agentID).Increment(amount)
}

// Penalize subtracts amount from agentID's locally-attributed score.
func (a *AgentScores) Penalize(agentID string, amount uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counterLocked(agentID).Decrement(amount)
}

// Value returns agentID's current merged score (zero for an unseen agent,
// which reputation.CheckInjectionPermission treats as Newcomer-and-below).
func (a *AgentScores) Value(agentID string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.byAgent[agentID]
	if !ok {
		return 0
	}
	return c.Value()
}

// Merge folds a counter snapshot gossiped in for agentID (e.g. from
// another coordinator's own AgentScores) into this replica's view.
func (a *AgentScores) Merge(agentID string, other *crdt.PNCounter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counterLocked(agentID).Merge(other)
}
