// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openswarm/swarmcore/swarmconfig"
)

func TestAdminForceElectionRejectedWhenChannelDisabled(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	_, err := c.AdminForceElection("anything")
	require.ErrorIs(t, err, ErrAdminChannelDisabled)
}

func TestAdminForceElectionRejectedWithBadToken(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)
	c.WithAdminAuth("s3cr3t")

	_, err := c.AdminForceElection("wrong")
	require.Error(t, err)
}

func TestAdminForceElectionTriggersImmediately(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)
	c.WithAdminAuth("s3cr3t")

	outbound, err := c.AdminForceElection("s3cr3t")
	require.NoError(t, err)
	require.NotEmpty(t, outbound)
	require.Equal(t, "election.candidacy", string(outbound[0].Method))
}

func TestAdminForceElectionNoOpWhenAlreadyInFlight(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)
	c.WithAdminAuth("s3cr3t")

	_, err := c.AdminForceElection("s3cr3t")
	require.NoError(t, err)

	outbound, err := c.AdminForceElection("s3cr3t")
	require.NoError(t, err)
	require.Empty(t, outbound)
}
