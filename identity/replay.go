// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package identity

import (
	"fmt"
	"sync"
	"time"
)

// Replay window bounds, matching the original prototype's
// wws-protocol/src/replay.rs constants.
const (
	ReplayWindow       = 10 * time.Minute
	TimestampTolerance = 5 * time.Minute
)

// ReplayGuard tracks (nonce, timestamp) pairs seen within a rolling
// window, rejecting any nonce replayed inside it. It implements spec
// invariant P9: the same (nonce, timestamp) pair is accepted at most once
// within the window.
type ReplayGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewReplayGuard returns an empty guard. now defaults to time.Now if nil;
// tests may override it for deterministic eviction checks.
func NewReplayGuard(now func() time.Time) *ReplayGuard {
	if now == nil {
		now = time.Now
	}
	return &ReplayGuard{seen: make(map[string]time.Time), now: now}
}

// CheckAndInsert evicts expired entries, verifies the timestamp falls
// within tolerance of the current time, and rejects a nonce already seen
// within the window. On success the nonce is recorded.
func (g *ReplayGuard) CheckAndInsert(nonce string, ts time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for n, seenAt := range g.seen {
		if now.Sub(seenAt) >= ReplayWindow {
			delete(g.seen, n)
		}
	}

	diff := now.Sub(ts)
	if diff < 0 {
		diff = -diff
	}
	if diff > TimestampTolerance {
		return fmt.Errorf("identity: timestamp %s outside %s tolerance", diff, TimestampTolerance)
	}

	if _, ok := g.seen[nonce]; ok {
		return fmt.Errorf("identity: replay detected for nonce %q", nonce)
	}

	g.seen[nonce] = now
	return nil
}

// Size returns the number of tracked nonces, for monitoring/tests.
func (g *ReplayGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
