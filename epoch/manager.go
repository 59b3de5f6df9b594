// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package epoch ticks the swarm's epoch clock and emits the transition
// actions the Connector Core reacts to: triggering an election when an
// epoch's duration elapses, and finalizing the transition once the
// election-settling window passes.
package epoch

import "time"

// Action is emitted by Manager.Tick when the epoch clock crosses a
// boundary.
type Action interface{ isEpochAction() }

// TriggerElection signals that a new epoch's coordinator election should
// begin.
type TriggerElection struct {
	NewEpoch            uint64
	EstimatedSwarmSize  uint64
}

func (TriggerElection) isEpochAction() {}

// FinalizeTransition signals that the election-settling window has
// elapsed and the epoch counter should advance.
type FinalizeTransition struct {
	Epoch uint64
}

func (FinalizeTransition) isEpochAction() {}

// Manager holds epoch clock state: the current epoch, when it started,
// its configured duration, and whether an election is currently in flight.
type Manager struct {
	currentEpoch    uint64
	epochStartedAt  time.Time
	duration        time.Duration
	settlingWindow  time.Duration
	electionInFlight bool
	triggeredAt     time.Time
	now             func() time.Time
}

// New creates a Manager starting at epoch 0, ticking with the given
// duration and election-settling window.
func New(duration, settlingWindow time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		duration:       duration,
		settlingWindow: settlingWindow,
		epochStartedAt: now(),
		now:            now,
	}
}

// CurrentEpoch returns the manager's current epoch number.
func (m *Manager) CurrentEpoch() uint64 { return m.currentEpoch }

// ElectionInFlight reports whether a TriggerElection has fired without a
// matching FinalizeTransition yet.
func (m *Manager) ElectionInFlight() bool { return m.electionInFlight }

// Tick advances the clock and returns an Action if a boundary was
// crossed, or nil if nothing changed. swarmSize is the node's current
// estimate of the live swarm population, attached to TriggerElection for
// the hierarchy recomputation that follows it.
func (m *Manager) Tick(swarmSize uint64) Action {
	now := m.now()

	if !m.electionInFlight {
		if now.Sub(m.epochStartedAt) >= m.duration {
			m.electionInFlight = true
			m.triggeredAt = now
			return TriggerElection{
				NewEpoch:           m.currentEpoch + 1,
				EstimatedSwarmSize: swarmSize,
			}
		}
		return nil
	}

	if now.Sub(m.triggeredAt) >= m.settlingWindow {
		m.electionInFlight = false
		m.currentEpoch++
		m.epochStartedAt = now
		return FinalizeTransition{Epoch: m.currentEpoch}
	}
	return nil
}

// ForceElection triggers an election immediately regardless of how much
// of the current epoch's duration has elapsed, for an operator-initiated
// override. Returns nil if an election is already in flight.
func (m *Manager) ForceElection(swarmSize uint64) Action {
	if m.electionInFlight {
		return nil
	}
	m.electionInFlight = true
	m.triggeredAt = m.now()
	return TriggerElection{
		NewEpoch:           m.currentEpoch + 1,
		EstimatedSwarmSize: swarmSize,
	}
}
