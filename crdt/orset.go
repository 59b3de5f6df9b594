// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package crdt provides the Observed-Remove set and PN-counter CRDTs the
// coordination core uses for its task/agent/member registries and
// reputation-style counters. Merge is commutative, associative, and
// idempotent for both types (spec invariant P5).
package crdt

import (
	"crypto/rand"
	"encoding/hex"
	"sort"

	"golang.org/x/exp/maps"
)

// tag is a unique token attached to every add(), so remove() can delete
// only the tags it has actually observed rather than racing a concurrent add.
type tag string

func newTag() tag {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return tag(hex.EncodeToString(b[:]))
}

// ORSet is an Observed-Remove Set of comparable elements. add(x) stores
// (x, fresh_tag); remove(x) deletes only the tags that have been merged
// into this replica, so an add racing a remove on a different replica is
// never silently dropped.
type ORSet[T comparable] struct {
	tags map[T]map[tag]struct{}
}

// NewORSet returns an empty OR-Set.
func NewORSet[T comparable]() *ORSet[T] {
	return &ORSet[T]{tags: make(map[T]map[tag]struct{})}
}

// Add tags x with a fresh token and records it as present.
func (s *ORSet[T]) Add(x T) {
	if s.tags[x] == nil {
		s.tags[x] = make(map[tag]struct{})
	}
	s.tags[x][newTag()] = struct{}{}
}

// Remove deletes every tag currently observed for x. If a concurrent
// replica has an add for x not yet merged in, that add will resurrect x
// once merged — this is the standard OR-Set add-wins semantics.
func (s *ORSet[T]) Remove(x T) {
	delete(s.tags, x)
}

// Contains reports whether any tag remains for x.
func (s *ORSet[T]) Contains(x T) bool {
	tags, ok := s.tags[x]
	return ok && len(tags) > 0
}

// Len returns the number of distinct elements currently present.
func (s *ORSet[T]) Len() int {
	return len(s.tags)
}

// List returns the elements currently present, in no particular order.
func (s *ORSet[T]) List() []T {
	return maps.Keys(s.tags)
}

// SortedList returns the elements currently present in ascending order.
// T must be a sortable scalar (used here with string-typed sets).
func SortedList[T ~string](s *ORSet[T]) []T {
	out := s.List()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Merge unions the tag sets of other into s, the token-union defined in
// spec.md §4.2. Merge is commutative, associative, and idempotent.
func (s *ORSet[T]) Merge(other *ORSet[T]) {
	for elt, tags := range other.tags {
		if s.tags[elt] == nil {
			s.tags[elt] = make(map[tag]struct{})
		}
		for t := range tags {
			s.tags[elt][t] = struct{}{}
		}
	}
}

// Clone returns a deep copy, useful for snapshotting under a read lock.
func (s *ORSet[T]) Clone() *ORSet[T] {
	out := NewORSet[T]()
	for elt, tags := range s.tags {
		cp := make(map[tag]struct{}, len(tags))
		for t := range tags {
			cp[t] = struct{}{}
		}
		out.tags[elt] = cp
	}
	return out
}
