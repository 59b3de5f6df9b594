// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package reputation scores agent standing: a decaying point total maps
// to a tier, gates task-injection permission by complexity, and weighs
// peer-submitted ratings by the rater's own standing.
package reputation

import (
	"fmt"
	"math"
)

// Tier buckets a score into the standing levels the rest of the system
// reasons about (injection gating, board seating).
type Tier int

const (
	Suspended Tier = iota
	Newcomer
	Member
	Trusted
	Established
	Veteran
)

func (t Tier) String() string {
	switch t {
	case Suspended:
		return "suspended"
	case Newcomer:
		return "newcomer"
	case Member:
		return "member"
	case Trusted:
		return "trusted"
	case Established:
		return "established"
	case Veteran:
		return "veteran"
	default:
		return "unknown"
	}
}

// TierForScore buckets a raw score into its Tier.
func TierForScore(score int64) Tier {
	switch {
	case score < 0:
		return Suspended
	case score <= 99:
		return Newcomer
	case score <= 499:
		return Member
	case score <= 999:
		return Trusted
	case score <= 4999:
		return Established
	default:
		return Veteran
	}
}

// graceDays is how long a score holds steady before decay begins.
const graceDays = 2

// decayRate is the fractional daily decay applied once past the grace
// period.
const decayRate = 0.005

// EffectiveScore applies time-decay to a raw score: unchanged within the
// grace period, then decaying 0.5% per day floored at half the agent's
// lifetime peak so a long-inactive veteran never falls below a permanent
// reputation floor.
func EffectiveScore(raw int64, daysInactive uint32, peak int64) int64 {
	if daysInactive <= graceDays {
		return raw
	}
	decayDays := float64(daysInactive - graceDays)
	decayed := int64(float64(raw) * math.Pow(1-decayRate, decayDays))
	floor := peak / 2
	if decayed < floor {
		return floor
	}
	return decayed
}

// ObserverContribution scales a rating's base points by the observer's own
// standing: objective events are submitted with full weight, subjective
// peer ratings are scaled 0.0-1.0 by observerScore/1000.
func ObserverContribution(basePoints int64, observerScore int64) int64 {
	weight := float64(observerScore) / 1000.0
	if weight > 1.0 {
		weight = 1.0
	}
	if weight < 0.0 {
		weight = 0.0
	}
	return int64(float64(basePoints) * weight)
}

// CheckInjectionPermission reports whether an agent with callerScore may
// inject a task of the given complexity, per a complexity-scaled minimum
// reputation requirement.
func CheckInjectionPermission(callerScore int64, complexity uint32) error {
	var minScore int64
	switch {
	case complexity <= 1:
		minScore = 100
	case complexity <= 5:
		minScore = 500
	default:
		minScore = 1000
	}
	if callerScore < minScore {
		return fmt.Errorf("insufficient reputation: need %d, have %d", minScore, callerScore)
	}
	return nil
}
