// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package swarmconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestMainnetWidensEpochAndSenate(t *testing.T) {
	d := Default()
	m := Mainnet()
	require.Greater(t, m.Epoch.Duration, d.Epoch.Duration)
	require.Greater(t, m.Voting.SenateSize, d.Voting.SenateSize)
	require.NoError(t, m.Validate())
}

func TestLocalShortensEveryTimer(t *testing.T) {
	d := Default()
	l := Local()
	require.Less(t, l.Epoch.Duration, d.Epoch.Duration)
	require.Less(t, l.Timers.KeepAliveInterval, d.Timers.KeepAliveInterval)
	require.NoError(t, l.Validate())
}

func TestValidateRejectsZeroSenateSize(t *testing.T) {
	c := Default()
	c.Voting.SenateSize = 0
	require.ErrorIs(t, c.Validate(), ErrInvalidSenateSize)
}
