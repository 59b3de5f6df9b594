// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package swarmconfig collects the plain-struct configuration every
// component of a swarm node is built from, with Default/Mainnet/Local
// constructors matching the teacher's parameter-profile convention.
package swarmconfig

import (
	"errors"
	"time"
)

var (
	ErrInvalidBranchingFactor = errors.New("swarmconfig: branching factor must be between 3 and 10")
	ErrInvalidSenateSize      = errors.New("swarmconfig: senate size must be >= 1")
	ErrInvalidEpochDuration   = errors.New("swarmconfig: epoch duration must be positive")
)

// IdentityConfig locates the node's durable keypair.
type IdentityConfig struct {
	SeedPath         string
	ProofOfWorkBits  uint32
}

// HierarchyConfig holds the pyramid allocator's settings. MaxDepth is only
// reported by `swarmnode check`; the allocator uses the fixed
// hierarchy.MaxHierarchyDepth and does not read it.
type HierarchyConfig struct {
	MaxDepth int
}

// EpochConfig tunes the epoch clock.
type EpochConfig struct {
	Duration       time.Duration
	SettlingWindow time.Duration
}

// RFPConfig tunes the commit-reveal round.
type RFPConfig struct {
	CommitRevealTimeout time.Duration
}

// VotingConfig tunes the IRV engine.
type VotingConfig struct {
	SenateSize        int
	ProhibitSelfVote  bool
	MinVotes          int
}

// TimersConfig holds every periodic-tick cadence the Connector Core's
// selection loop drives.
type TimersConfig struct {
	KeepAliveInterval          time.Duration
	EpochTick                  time.Duration
	SwarmAnnounceInterval      time.Duration
	BootstrapRetryInterval     time.Duration
	VotingCheckInterval        time.Duration
	ExecutionTimeoutTick       time.Duration
	ProposalStageTimeout       time.Duration
	VotingStageTimeout         time.Duration
	ExecutionAssignmentTimeout time.Duration
	MemberPruneMultiple        int
}

// TransportConfig configures the outbound transport layer.
type TransportConfig struct {
	ListenAddr    string
	BootstrapPeers []string
	SwarmID       string
}

// Config is the complete configuration for one swarm node.
type Config struct {
	Identity  IdentityConfig
	Hierarchy HierarchyConfig
	Epoch     EpochConfig
	RFP       RFPConfig
	Voting    VotingConfig
	Timers    TimersConfig
	Transport TransportConfig
}

// Default returns the reference parameter profile matching the original
// prototype's constants.
func Default() Config {
	return Config{
		Identity: IdentityConfig{
			SeedPath:        "./data/identity.seed",
			ProofOfWorkBits: 16,
		},
		Hierarchy: HierarchyConfig{MaxDepth: 12},
		Epoch: EpochConfig{
			Duration:       10 * time.Minute,
			SettlingWindow: 30 * time.Second,
		},
		RFP: RFPConfig{CommitRevealTimeout: 30 * time.Second},
		Voting: VotingConfig{
			SenateSize:       100,
			ProhibitSelfVote: true,
			MinVotes:         1,
		},
		Timers: TimersConfig{
			KeepAliveInterval:          10 * time.Second,
			EpochTick:                  1 * time.Second,
			SwarmAnnounceInterval:      60 * time.Second,
			BootstrapRetryInterval:     20 * time.Second,
			VotingCheckInterval:        5 * time.Second,
			ExecutionTimeoutTick:       10 * time.Second,
			ProposalStageTimeout:       30 * time.Second,
			VotingStageTimeout:         30 * time.Second,
			ExecutionAssignmentTimeout: 420 * time.Second,
			MemberPruneMultiple:        3,
		},
		Transport: TransportConfig{
			ListenAddr: "/ip4/0.0.0.0/tcp/4001",
			SwarmID:    "public",
		},
	}
}

// Mainnet widens the senate cap and lengthens the epoch for a large,
// production-scale swarm.
func Mainnet() Config {
	c := Default()
	c.Epoch.Duration = 30 * time.Minute
	c.Voting.SenateSize = 250
	return c
}

// Local shortens the epoch, commit-reveal and periodic-tick timers for fast
// iteration in a single-process test swarm; the 1s epoch tick is unchanged.
func Local() Config {
	c := Default()
	c.Epoch.Duration = 20 * time.Second
	c.Epoch.SettlingWindow = 3 * time.Second
	c.RFP.CommitRevealTimeout = 5 * time.Second
	c.Timers.KeepAliveInterval = 2 * time.Second
	c.Timers.SwarmAnnounceInterval = 5 * time.Second
	c.Timers.BootstrapRetryInterval = 5 * time.Second
	c.Timers.VotingCheckInterval = 1 * time.Second
	c.Timers.ExecutionTimeoutTick = 2 * time.Second
	c.Timers.ProposalStageTimeout = 5 * time.Second
	c.Timers.VotingStageTimeout = 5 * time.Second
	c.Timers.ExecutionAssignmentTimeout = 30 * time.Second
	return c
}

// Validate checks the subset of fields whose constraints are enforced
// outside their owning component's constructor.
func (c Config) Validate() error {
	if c.Voting.SenateSize < 1 {
		return ErrInvalidSenateSize
	}
	if c.Epoch.Duration <= 0 {
		return ErrInvalidEpochDuration
	}
	return nil
}
