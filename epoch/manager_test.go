// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package epoch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickTriggersElectionAfterDuration(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	m := New(10*time.Second, 5*time.Second, now)

	require.Nil(t, m.Tick(10))

	cur = cur.Add(10 * time.Second)
	action := m.Tick(10)
	trigger, ok := action.(TriggerElection)
	require.True(t, ok)
	require.Equal(t, uint64(1), trigger.NewEpoch)
	require.True(t, m.ElectionInFlight())
}

func TestTickFinalizesAfterSettlingWindow(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	m := New(10*time.Second, 5*time.Second, now)

	cur = cur.Add(10 * time.Second)
	_ = m.Tick(3)
	require.True(t, m.ElectionInFlight())

	cur = cur.Add(5 * time.Second)
	action := m.Tick(3)
	final, ok := action.(FinalizeTransition)
	require.True(t, ok)
	require.Equal(t, uint64(1), final.Epoch)
	require.False(t, m.ElectionInFlight())
	require.Equal(t, uint64(1), m.CurrentEpoch())
}

func TestTickNoopBetweenBoundaries(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	m := New(10*time.Second, 5*time.Second, now)

	cur = cur.Add(2 * time.Second)
	require.Nil(t, m.Tick(3))
}

func TestForceElectionBypassesDuration(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	m := New(10*time.Minute, 5*time.Second, now)

	action := m.ForceElection(7)
	trigger, ok := action.(TriggerElection)
	require.True(t, ok)
	require.Equal(t, uint64(1), trigger.NewEpoch)
	require.Equal(t, uint64(7), trigger.EstimatedSwarmSize)
	require.True(t, m.ElectionInFlight())
}

func TestForceElectionNoopWhenAlreadyInFlight(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	m := New(10*time.Minute, 5*time.Second, now)

	require.NotNil(t, m.ForceElection(3))
	require.Nil(t, m.ForceElection(3))
}
