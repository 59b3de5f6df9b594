// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package hierarchy computes the dynamic pyramid allocation that maps a
// swarm's active member set onto tiers and parent/child links, the way
// the teacher's validators.Set snapshots an active validator population
// for sampling. Recomputation is driven externally (whenever the active
// member set changes) via Allocate.
package hierarchy

import (
	"math"
	"sort"
)

// MaxHierarchyDepth bounds how many tiers Allocate will ever produce. It is
// a fixed constant; swarmconfig's HierarchyConfig.MaxDepth does not change
// it.
const MaxHierarchyDepth = 12

// Tier identifies a level in the pyramid. Tier1 is root, Executor is leaf.
type Tier struct {
	// Depth is 1 for Tier1, increasing toward the leaves. The deepest
	// tier is always the Executor tier.
	Depth int
	// IsExecutor is true iff this is the leaf (deepest) tier.
	IsExecutor bool
}

func (t Tier) String() string {
	if t.IsExecutor {
		return "Executor"
	}
	if t.Depth == 1 {
		return "Tier1"
	}
	if t.Depth == 2 {
		return "Tier2"
	}
	return "TierN"
}

// Layout is the computed pyramid for one snapshot of the active member set.
type Layout struct {
	// TierSizes[i] is the population of tier i+1 (depth i+1).
	TierSizes []int
	// Members is the full active set, sorted lexicographically — the
	// same order tier partitioning and parent lookups are computed over.
	Members []string
	// tierOf maps agent id -> tier index (0-based into TierSizes).
	tierOf map[string]int
	// tierStart[i] is the offset into Members where tier i begins.
	tierStart []int
}

// DynamicBranchingFactor implements spec.md §4.3:
// clamp(round(sqrt(N)), 3, 10).
func DynamicBranchingFactor(n int) int {
	k := int(math.Round(math.Sqrt(float64(n))))
	if k < 3 {
		return 3
	}
	if k > 10 {
		return 10
	}
	return k
}

// Allocate computes tier populations and the parent/child mapping for the
// given active member set and branching factor k, per spec.md §4.3.
//
// Invariants held by the returned Layout: (1) sum of tier sizes == len(members),
// (2) each non-leaf tier size <= k * next tier size is targeted on a
// best-effort basis by construction, (3) depth is bounded by MaxHierarchyDepth.
func Allocate(members []string, k int) *Layout {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	n := len(sorted)

	if n == 0 {
		return &Layout{Members: sorted, tierOf: map[string]int{}, tierStart: []int{0}}
	}
	if n == 1 {
		return &Layout{
			TierSizes: []int{1},
			Members:   sorted,
			tierOf:    map[string]int{sorted[0]: 0},
			tierStart: []int{0, 1},
		}
	}
	if k < 1 {
		k = 1
	}

	sizes := computeTierSizes(n, k)

	l := &Layout{TierSizes: sizes, Members: sorted, tierOf: make(map[string]int, n)}
	l.tierStart = make([]int, len(sizes)+1)
	offset := 0
	for i, size := range sizes {
		l.tierStart[i] = offset
		for j := 0; j < size; j++ {
			l.tierOf[sorted[offset+j]] = i
		}
		offset += size
	}
	l.tierStart[len(sizes)] = offset
	return l
}

// computeTierSizes walks from the top: tier 1 has ceil(N / k^(depth-1)) for
// the smallest depth making that population <= k, then each subsequent
// tier multiplies the previous population by k (capped to what remains)
// until the full population is allocated or MaxHierarchyDepth is reached,
// at which point the final tier absorbs any remainder.
func computeTierSizes(n, k int) []int {
	depth := 1
	tier1 := n
	for depth < MaxHierarchyDepth {
		candidate := ceilDiv(n, pow(k, depth-1))
		if candidate <= k {
			tier1 = candidate
			break
		}
		depth++
		tier1 = ceilDiv(n, pow(k, depth-1))
	}
	if tier1 < 1 {
		tier1 = 1
	}
	if tier1 > n {
		tier1 = n
	}

	sizes := []int{tier1}
	remaining := n - tier1
	prev := tier1
	for remaining > 0 {
		if len(sizes) >= MaxHierarchyDepth {
			sizes[len(sizes)-1] += remaining
			remaining = 0
			break
		}
		next := prev * k
		if next <= 0 || next > remaining {
			next = remaining
		}
		sizes = append(sizes, next)
		remaining -= next
		prev = next
	}
	return sizes
}

func pow(base, exp int) int {
	if exp <= 0 {
		return 1
	}
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// TierOf returns the Tier assignment for agent, and whether it is present
// in this layout.
func (l *Layout) TierOf(agent string) (Tier, bool) {
	idx, ok := l.tierOf[agent]
	if !ok {
		return Tier{}, false
	}
	return Tier{Depth: idx + 1, IsExecutor: idx == len(l.TierSizes)-1}, true
}

// Parent returns the parent agent id of agent, per spec.md §4.3: "agent at
// index i in tier t+1 has parent at index floor(local_i/k) of tier t".
// Tier1 agents (and unknown agents) have no parent.
func (l *Layout) Parent(agent string, k int) (string, bool) {
	idx, ok := l.tierOf[agent]
	if !ok || idx == 0 {
		return "", false
	}
	localI := sort.SearchStrings(l.Members[l.tierStart[idx]:l.tierStart[idx+1]], agent)
	parentIdx := localI / k
	parentTierStart := l.tierStart[idx-1]
	parentTierSize := l.tierStart[idx] - parentTierStart
	if parentIdx >= parentTierSize {
		parentIdx = parentTierSize - 1
	}
	return l.Members[parentTierStart+parentIdx], true
}

// Children returns the agent ids whose parent (per Parent) is agent.
func (l *Layout) Children(agent string, k int) []string {
	idx, ok := l.tierOf[agent]
	if !ok || idx == len(l.TierSizes)-1 {
		return nil
	}
	localI := sort.SearchStrings(l.Members[l.tierStart[idx]:l.tierStart[idx+1]], agent)
	childStart := l.tierStart[idx+1]
	childEnd := l.tierStart[idx+2]
	var out []string
	for i := childStart; i < childEnd; i++ {
		childLocal := i - childStart
		if childLocal/k == localI {
			out = append(out, l.Members[i])
		}
	}
	return out
}

// TierSize returns the population of the tier at the given 0-based index.
func (l *Layout) TierSize(idx int) int {
	if idx < 0 || idx >= len(l.TierSizes) {
		return 0
	}
	return l.TierSizes[idx]
}

// Depth returns the number of tiers in this layout.
func (l *Layout) Depth() int {
	return len(l.TierSizes)
}
