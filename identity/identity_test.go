// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package identity

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateIsDurable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed")

	k1, err := LoadOrCreate(path)
	require.NoError(t, err)

	k2, err := LoadOrCreate(path)
	require.NoError(t, err)

	require.Equal(t, k1.AgentID(), k2.AgentID())
}

func TestAgentIDFormat(t *testing.T) {
	k, err := Generate()
	require.NoError(t, err)

	id := k.AgentID()
	require.Contains(t, string(id), DIDPrefix)
	require.Len(t, string(id), len(DIDPrefix)+64)
}

func TestSignAndVerify(t *testing.T) {
	k, err := Generate()
	require.NoError(t, err)

	msg := []byte("hello swarm")
	sig := k.Sign(msg)
	require.NoError(t, Verify(k.PublicKey(), msg, sig))
	require.Error(t, Verify(k.PublicKey(), []byte("tampered"), sig))
}

func TestMnemonicRoundTrip(t *testing.T) {
	k, err := Generate()
	require.NoError(t, err)

	phrase := k.Mnemonic()
	restored, err := FromMnemonic(phrase)
	require.NoError(t, err)
	require.Equal(t, k.AgentID(), restored.AgentID())
}

func TestRecoveryKeyDiffersFromPrimary(t *testing.T) {
	k, err := Generate()
	require.NoError(t, err)
	require.NotEqual(t, k.AgentID(), k.RecoveryKey().AgentID())
}

func TestProofOfWork(t *testing.T) {
	data := []byte("test data")
	nonce, _ := ProofOfWork(data, 8)
	require.True(t, VerifyPoW(data, nonce, 8))
	require.False(t, VerifyPoW(data, nonce+1, 8))
}

func TestReplayGuardRejectsRepeat(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	g := NewReplayGuard(func() time.Time { return now })

	require.NoError(t, g.CheckAndInsert("n1", now))
	require.Error(t, g.CheckAndInsert("n1", now))
}

func TestReplayGuardRejectsStaleTimestamp(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	g := NewReplayGuard(func() time.Time { return now })

	require.Error(t, g.CheckAndInsert("n1", now.Add(-time.Hour)))
}

func TestReplayGuardEvictsExpired(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	g := NewReplayGuard(func() time.Time { return cur })

	require.NoError(t, g.CheckAndInsert("n1", cur))
	require.Equal(t, 1, g.Size())

	cur = cur.Add(ReplayWindow + time.Second)
	require.NoError(t, g.CheckAndInsert("n2", cur))
	require.Equal(t, 1, g.Size())
}
