// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package connector implements the single-writer Connector Core: the
// coordinator that owns every other component (hierarchy, epoch, RFP,
// voting, task graph) behind one read/write lock, dispatches inbound
// protocol messages, and drives the periodic ticks that make forward
// progress even in the absence of further messages.
package connector

import (
	"sync"
	"time"

	"github.com/luxfi/log"

	"github.com/openswarm/swarmcore/adminauth"
	"github.com/openswarm/swarmcore/artifactstore"
	"github.com/openswarm/swarmcore/epoch"
	"github.com/openswarm/swarmcore/hierarchy"
	"github.com/openswarm/swarmcore/identity"
	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/rfp"
	"github.com/openswarm/swarmcore/swarmconfig"
	"github.com/openswarm/swarmcore/taskgraph"
	"github.com/openswarm/swarmcore/voting"
)

// complexityRecurseThreshold is the subtask complexity above which
// assignSubtasksFromPlanLocked spawns a sub-holon instead of direct assignment.
const complexityRecurseThreshold = 0.4

// Outbound is one message the caller should publish after a handler
// releases the state lock, per the acquire->mutate->snapshot->release->
// publish discipline the core never violates.
type Outbound struct {
	Topic  string
	Method protocol.Method
	Params interface{}
}

// DHTWrite is a deferred DHT record write a handler or tick wants applied
// after the lock is released.
type DHTWrite struct {
	Key   string
	Value interface{}
}

// member tracks one known agent's liveness and placement.
type member struct {
	lastSeen     time.Time
	lastTaskPoll time.Time
	lastResult   time.Time
	tier         protocol.Tier
}

// votingSession pairs a task's voting engine with the bookkeeping the
// voting-check tick needs to apply timeouts.
type votingSession struct {
	engine    *voting.Engine
	createdAt time.Time
}

// Core is the single-writer connector. All mutable state lives behind mu;
// no exported method holds it across a network publish.
type Core struct {
	mu sync.RWMutex

	cfg  swarmconfig.Config
	self string
	now  func() time.Time
	log  log.Logger

	epochMgr  *epoch.Manager
	hierarchy *hierarchy.Layout
	myTier    protocol.Tier
	parentID  string
	hasParent bool

	members map[string]*member

	graph *taskgraph.Graph
	rfps  map[string]*rfp.Coordinator
	votes map[string]*votingSession
	holons map[string]*protocol.HolonState

	pendingReveals map[string]map[string]protocol.Plan
	knownSwarms    map[string]protocol.SwarmInfo

	subscribed map[string]bool

	metrics *Metrics
	gate    InjectionGate
	scores  *AgentScores
	store   artifactstore.Store
	admin   *adminauth.Checker
	replay  *identity.ReplayGuard
}

// New creates a Core for self (this node's AgentID), seeded with an empty
// member set and an idle epoch clock.
func New(cfg swarmconfig.Config, self string, now func() time.Time, logger log.Logger) *Core {
	if now == nil {
		now = time.Now
	}
	return &Core{
		cfg:            cfg,
		self:           self,
		now:            now,
		log:            logger,
		epochMgr:       epoch.New(cfg.Epoch.Duration, cfg.Epoch.SettlingWindow, now),
		hierarchy:      hierarchy.Allocate([]string{self}, hierarchy.DynamicBranchingFactor(1)),
		myTier:         protocol.Tier{Depth: 1, IsExecutor: true},
		members:        make(map[string]*member),
		graph:          taskgraph.New(),
		rfps:           make(map[string]*rfp.Coordinator),
		votes:          make(map[string]*votingSession),
		holons:         make(map[string]*protocol.HolonState),
		pendingReveals: make(map[string]map[string]protocol.Plan),
		knownSwarms:    make(map[string]protocol.SwarmInfo),
		subscribed:     make(map[string]bool),
		gate:           AllowAllGate{},
		scores:         NewAgentScores(self),
		store:          artifactstore.NewMemoryStore(),
		replay:         identity.NewReplayGuard(now),
	}
}

// WithArtifactStore replaces the default in-memory artifactstore.Store
// backing this node's submitted artifact content.
func (c *Core) WithArtifactStore(s artifactstore.Store) *Core {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = s
	return c
}

// WithAdminAuth enables the operator admin channel, gated by token. The
// admin channel is disabled (every admin call rejected) until this is
// called.
func (c *Core) WithAdminAuth(token string) *Core {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.admin = adminauth.NewChecker(token)
	return c
}

// Artifact retrieves previously stored content for cid, for admin
// tooling and tests.
func (c *Core) Artifact(cid string) ([]byte, error) {
	return c.store.Get(cid)
}

// WithInjectionGate replaces the default always-allow InjectionGate.
// Safe to call once before the core starts serving traffic.
func (c *Core) WithInjectionGate(g InjectionGate) *Core {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gate = g
	return c
}

// Scores returns this node's agent reputation table, for callers that
// want to award/penalize standing (e.g. on result acceptance/rejection)
// or merge in a snapshot gossiped from another coordinator.
func (c *Core) Scores() *AgentScores {
	return c.scores
}

// recomputeHierarchyLocked recomputes the pyramid layout from the current
// active member set (self included) and refreshes this node's tier and
// parent. Callers must hold mu for writing.
func (c *Core) recomputeHierarchyLocked() {
	agents := make([]string, 0, len(c.members)+1)
	agents = append(agents, c.self)
	for id := range c.members {
		agents = append(agents, id)
	}
	k := hierarchy.DynamicBranchingFactor(len(agents))
	c.hierarchy = hierarchy.Allocate(agents, k)

	if tier, ok := c.hierarchy.TierOf(c.self); ok {
		c.myTier = protocol.Tier{Depth: uint32(tier.Depth), IsExecutor: tier.IsExecutor}
	}
	if parent, ok := c.hierarchy.Parent(c.self, k); ok {
		c.parentID = parent
		c.hasParent = true
	} else {
		c.parentID = ""
		c.hasParent = false
	}

	for id, m := range c.members {
		if tier, ok := c.hierarchy.TierOf(id); ok {
			m.tier = protocol.Tier{Depth: uint32(tier.Depth), IsExecutor: tier.IsExecutor}
		}
	}
}

// isParticipatingLocked reports whether agentID is a known, non-stale
// member (or self). Callers must hold mu for reading.
func (c *Core) isParticipatingLocked(agentID string) bool {
	if agentID == c.self {
		return true
	}
	m, ok := c.members[agentID]
	if !ok {
		return false
	}
	staleness := time.Duration(c.cfg.Timers.MemberPruneMultiple) * c.cfg.Timers.KeepAliveInterval
	return c.now().Sub(m.lastSeen) <= staleness
}

// MyTier returns this node's current tier assignment.
func (c *Core) MyTier() protocol.Tier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.myTier
}

// ParentID returns this node's current parent, if any.
func (c *Core) ParentID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parentID, c.hasParent
}

// MemberCount returns the number of known members, self excluded.
func (c *Core) MemberCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}

// Task returns the task graph's record for taskID, for external
// inspection (tests, admin tooling).
func (c *Core) Task(taskID string) (protocol.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graph.Get(taskID)
}

// Subscriptions returns the topics this node has marked as subscribed so
// far. The core only records them; it makes no transport call itself.
func (c *Core) Subscriptions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.subscribed))
	for t := range c.subscribed {
		out = append(out, t)
	}
	return out
}

func (c *Core) subscribeLocked(topic string) {
	c.subscribed[topic] = true
}

func (c *Core) logf(msg string, kv ...interface{}) {
	if c.log == nil {
		return
	}
	c.log.Debug(msg, kv...)
}

// newVotingEngineLocked builds a fresh voting engine from this node's
// configured voting profile. No senate is selected, so the engine accepts
// a ballot from any voter. Callers must hold mu for writing.
func newVotingEngineLocked(cfg swarmconfig.Config, taskID string, taskEpoch uint64) *voting.Engine {
	vc := voting.Config{
		SenateSize:       cfg.Voting.SenateSize,
		ProhibitSelfVote: cfg.Voting.ProhibitSelfVote,
		MinVotes:         cfg.Voting.MinVotes,
	}
	return voting.New(vc, taskID, taskEpoch)
}
