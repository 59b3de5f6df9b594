// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/swarmconfig"
)

func keepAliveMessage(t *testing.T, id string, ts time.Time) protocol.Message {
	t.Helper()
	params, err := json.Marshal(protocol.KeepAliveParams{AgentID: "agent-1", Epoch: 1})
	require.NoError(t, err)
	return protocol.NewMessage(id, string(protocol.MethodKeepAlive), params, "deadbeef", ts)
}

func TestDispatchRejectsReplayedNonce(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	msg := keepAliveMessage(t, "req-1", cur)
	_, err := c.Dispatch(msg)
	require.NoError(t, err)

	_, err = c.Dispatch(msg)
	require.Error(t, err)
}

func TestDispatchRejectsStaleTimestamp(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	msg := keepAliveMessage(t, "req-1", cur.Add(-1*time.Hour))
	_, err := c.Dispatch(msg)
	require.Error(t, err)
}

func TestDispatchAllowsUnidentifiedNotifications(t *testing.T) {
	cur := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	msg := keepAliveMessage(t, "", cur)
	_, err := c.Dispatch(msg)
	require.NoError(t, err)
	_, err = c.Dispatch(msg)
	require.NoError(t, err)
}
