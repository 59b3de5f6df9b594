// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package crdt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestORSetAddContainsRemove(t *testing.T) {
	s := NewORSet[string]()
	require.False(t, s.Contains("a"))

	s.Add("a")
	require.True(t, s.Contains("a"))
	require.Equal(t, 1, s.Len())

	s.Remove("a")
	require.False(t, s.Contains("a"))
}

func TestORSetMergeIsIdempotentCommutativeAssociative(t *testing.T) {
	a := NewORSet[string]()
	a.Add("x")
	b := NewORSet[string]()
	b.Add("y")
	c := NewORSet[string]()
	c.Add("z")

	ab := a.Clone()
	ab.Merge(b)
	abc := ab.Clone()
	abc.Merge(c)

	ba := b.Clone()
	ba.Merge(a)
	cba := c.Clone()
	cba.Merge(ba)

	require.ElementsMatch(t, abc.List(), cba.List())

	// merge(merge(a,b), b) == merge(a,b) — idempotence (P5).
	twice := ab.Clone()
	twice.Merge(b)
	require.ElementsMatch(t, ab.List(), twice.List())
}

func TestORSetRemoveOnlyAffectsObservedTags(t *testing.T) {
	replicaA := NewORSet[string]()
	replicaA.Add("task-1")

	replicaB := replicaA.Clone()
	replicaB.Remove("task-1")

	// A concurrent add on replica A (not yet observed by B) must survive
	// the merge: remove only deletes tags that replica B has seen.
	replicaA.Add("task-1")

	merged := replicaB.Clone()
	merged.Merge(replicaA)
	require.True(t, merged.Contains("task-1"))
}

func TestPNCounterValueAndMerge(t *testing.T) {
	nodeA := NewPNCounter("a")
	nodeA.Increment(5)
	nodeA.Decrement(2)
	require.Equal(t, int64(3), nodeA.Value())

	nodeB := NewPNCounter("b")
	nodeB.Increment(10)

	merged := nodeA.Clone()
	merged.Merge(nodeB)
	require.Equal(t, int64(13), merged.Value())
}

func TestPNCounterMergeIdempotentCommutativeAssociative(t *testing.T) {
	a := NewPNCounter("a")
	a.Increment(5)
	b := NewPNCounter("b")
	b.Increment(3)
	b.Decrement(1)
	c := NewPNCounter("c")
	c.Increment(7)

	ab := a.Clone()
	ab.Merge(b)
	abc := ab.Clone()
	abc.Merge(c)

	ba := b.Clone()
	ba.Merge(a)
	cba := c.Clone()
	cba.Merge(ba)

	require.Equal(t, abc.Value(), cba.Value())

	twice := ab.Clone()
	twice.Merge(b)
	require.Equal(t, ab.Value(), twice.Value())
}
