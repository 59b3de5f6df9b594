// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package voting runs instant-runoff elections over the plans an RFP round
// reveals: senate sampling caps voter overhead on large swarms, then
// repeated elimination rounds narrow the field to a majority winner.
package voting

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/openswarm/swarmcore/protocol"
)

var (
	ErrFinalized          = errors.New("voting: engine already finalized")
	ErrTaskMismatch       = errors.New("voting: task id does not match this engine")
	ErrEpochMismatch      = errors.New("voting: epoch does not match this engine")
	ErrNotInSenate        = errors.New("voting: voter is not in the senate")
	ErrSelfVoteProhibited = errors.New("voting: voter ranked their own plan first")
	ErrNoValidRankings    = errors.New("voting: no valid proposals in rankings")
	ErrNoVotes            = errors.New("voting: fewer ballots than the configured minimum")
	ErrNoWinner           = errors.New("voting: all proposals eliminated with no winner")
)

// Config tunes one voting engine instance.
type Config struct {
	// SenateSize caps the number of voters sampled when the eligible pool
	// exceeds it.
	SenateSize int
	// ProhibitSelfVote rejects a ballot whose first choice is the voter's
	// own plan, when more than one proposal is in play.
	ProhibitSelfVote bool
	// MinVotes is the fewest ballots required for RunIRV to proceed.
	MinVotes int
	// SenateSeed seeds the senate sampler when DeterministicSeed is true;
	// otherwise the sampler is not reproducible and SenateSeed is unused.
	SenateSeed     int64
	DeterministicSeed bool
}

// DefaultConfig matches the reference engine's defaults: a 100-voter
// senate cap, self-vote prohibited, at least one ballot required.
func DefaultConfig() Config {
	return Config{SenateSize: 100, ProhibitSelfVote: true, MinVotes: 1}
}

// ballot is one voter's ranked choices, mutated as IRV eliminates plans.
type ballot struct {
	voter             string
	remainingChoices  []string
	originalRankings  []string
	criticScores      map[string]protocol.CriticScore
}

// Result is the outcome of a completed IRV election.
type Result struct {
	Winner            string
	Rounds            int
	EliminationOrder  []string
	FinalTallies      map[string]int
	TotalVotes        int
	WinnerCriticScore *protocol.CriticScore
}

// Engine coordinates ranked-choice voting with instant runoff for one
// task/epoch's plan selection.
type Engine struct {
	config        Config
	taskID        string
	epoch         uint64
	proposalIDs   map[string]struct{}
	planProposers map[string]string
	ballots       []ballot
	senate        map[string]struct{}
	finalized     bool
	irvRounds     []protocol.IRVRound
}

// New creates an Engine for taskID at epoch.
func New(config Config, taskID string, epoch uint64) *Engine {
	return &Engine{
		config:        config,
		taskID:        taskID,
		epoch:         epoch,
		proposalIDs:   make(map[string]struct{}),
		planProposers: make(map[string]string),
	}
}

// SetProposals registers the plan ids in play and their proposers, keyed
// by plan id.
func (e *Engine) SetProposals(proposals map[string]string) {
	for planID, proposer := range proposals {
		e.proposalIDs[planID] = struct{}{}
		e.planProposers[planID] = proposer
	}
}

// SelectSenate picks the voting population. If the eligible pool is at
// most SenateSize, everyone votes; otherwise SenateSize voters are sampled
// without replacement using the configured (optionally seeded) RNG.
func (e *Engine) SelectSenate(eligibleVoters []string) {
	if len(eligibleVoters) <= e.config.SenateSize {
		e.senate = make(map[string]struct{}, len(eligibleVoters))
		for _, v := range eligibleVoters {
			e.senate[v] = struct{}{}
		}
		return
	}

	var rng *rand.Rand
	if e.config.DeterministicSeed {
		rng = rand.New(rand.NewSource(e.config.SenateSeed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	shuffled := append([]string(nil), eligibleVoters...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	e.senate = make(map[string]struct{}, e.config.SenateSize)
	for _, v := range shuffled[:e.config.SenateSize] {
		e.senate[v] = struct{}{}
	}
}

// RecordVote validates and stores a ranked ballot.
func (e *Engine) RecordVote(vote protocol.RankedVote) error {
	if e.finalized {
		return ErrFinalized
	}
	if vote.TaskID != e.taskID {
		return fmt.Errorf("%w: got %s want %s", ErrTaskMismatch, vote.TaskID, e.taskID)
	}
	if vote.Epoch != e.epoch {
		return fmt.Errorf("%w: got %d want %d", ErrEpochMismatch, vote.Epoch, e.epoch)
	}
	if e.senate != nil {
		if _, ok := e.senate[vote.Voter]; !ok {
			return fmt.Errorf("%w: %s", ErrNotInSenate, vote.Voter)
		}
	}

	if e.config.ProhibitSelfVote && len(e.proposalIDs) > 1 && len(vote.Rankings) > 0 {
		if proposer, ok := e.planProposers[vote.Rankings[0]]; ok && proposer == vote.Voter {
			return fmt.Errorf("%w: %s", ErrSelfVoteProhibited, vote.Voter)
		}
	}

	valid := make([]string, 0, len(vote.Rankings))
	for _, id := range vote.Rankings {
		if _, ok := e.proposalIDs[id]; ok {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return ErrNoValidRankings
	}

	e.ballots = append(e.ballots, ballot{
		voter:            vote.Voter,
		originalRankings: valid,
		remainingChoices: append([]string(nil), valid...),
		criticScores:     vote.CriticScores,
	})
	return nil
}

// RunIRV executes the instant-runoff algorithm to a majority winner (or
// the last remaining proposal), recording a round history as it goes.
func (e *Engine) RunIRV() (Result, error) {
	if len(e.ballots) < e.config.MinVotes {
		return Result{}, fmt.Errorf("%w: %s", ErrNoVotes, e.taskID)
	}

	active := make([]ballot, len(e.ballots))
	copy(active, e.ballots)
	eliminated := make(map[string]struct{})
	var eliminationOrder []string
	round := 0

	for {
		round++

		tallies := make(map[string]int)
		for id := range e.proposalIDs {
			if _, out := eliminated[id]; !out {
				tallies[id] = 0
			}
		}

		validBallots := 0
		for _, b := range active {
			for _, choice := range b.remainingChoices {
				if _, out := eliminated[choice]; !out {
					tallies[choice]++
					validBallots++
					break
				}
			}
		}

		if len(tallies) == 0 || validBallots == 0 {
			return Result{}, ErrNoWinner
		}

		threshold := validBallots/2 + 1

		winner, winCount := argmax(tallies)
		if winCount >= threshold || len(tallies) == 1 {
			e.irvRounds = append(e.irvRounds, protocol.IRVRound{
				TaskID:               e.taskID,
				RoundNumber:          uint32(round),
				Tallies:              cloneTallies(tallies),
				ContinuingCandidates: sortedKeys(tallies),
			})

			winnerScore := e.aggregateCriticScores(winner)
			e.finalized = true

			return Result{
				Winner:            winner,
				Rounds:            round,
				EliminationOrder:  eliminationOrder,
				FinalTallies:      tallies,
				TotalVotes:        len(e.ballots),
				WinnerCriticScore: winnerScore,
			}, nil
		}

		toEliminate, _ := argmin(tallies)

		continuing := make([]string, 0, len(tallies)-1)
		for id := range tallies {
			if id != toEliminate {
				continuing = append(continuing, id)
			}
		}
		sort.Strings(continuing)

		e.irvRounds = append(e.irvRounds, protocol.IRVRound{
			TaskID:               e.taskID,
			RoundNumber:          uint32(round),
			Tallies:              cloneTallies(tallies),
			Eliminated:           toEliminate,
			ContinuingCandidates: continuing,
		})

		eliminated[toEliminate] = struct{}{}
		eliminationOrder = append(eliminationOrder, toEliminate)

		for i := range active {
			active[i].remainingChoices = stripEliminated(active[i].remainingChoices, eliminated)
		}
	}
}

// IRVRounds returns the round history populated by the most recent RunIRV.
func (e *Engine) IRVRounds() []protocol.IRVRound { return e.irvRounds }

// BallotCount returns the number of ballots recorded so far.
func (e *Engine) BallotCount() int { return len(e.ballots) }

func (e *Engine) aggregateCriticScores(planID string) *protocol.CriticScore {
	var feasibility, parallelism, completeness, risk float64
	var count float64

	for _, b := range e.ballots {
		if score, ok := b.criticScores[planID]; ok {
			feasibility += score.Feasibility
			parallelism += score.Parallelism
			completeness += score.Completeness
			risk += score.Risk
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return &protocol.CriticScore{
		Feasibility:  feasibility / count,
		Parallelism:  parallelism / count,
		Completeness: completeness / count,
		Risk:         risk / count,
	}
}

// argmax returns the key with the highest tally, breaking ties
// deterministically on the lexicographically smallest key.
func argmax(tallies map[string]int) (string, int) {
	keys := sortedKeys(tallies)
	best := keys[0]
	for _, k := range keys[1:] {
		if tallies[k] > tallies[best] {
			best = k
		}
	}
	return best, tallies[best]
}

// argmin returns the key with the lowest tally, breaking ties
// deterministically on the lexicographically smallest key.
func argmin(tallies map[string]int) (string, int) {
	keys := sortedKeys(tallies)
	worst := keys[0]
	for _, k := range keys[1:] {
		if tallies[k] < tallies[worst] {
			worst = k
		}
	}
	return worst, tallies[worst]
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneTallies(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func stripEliminated(choices []string, eliminated map[string]struct{}) []string {
	out := choices[:0:0]
	for _, c := range choices {
		if _, out2 := eliminated[c]; !out2 {
			out = append(out, c)
		}
	}
	return out
}
