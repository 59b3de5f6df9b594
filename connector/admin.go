// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"errors"

	"github.com/openswarm/swarmcore/epoch"
	"github.com/openswarm/swarmcore/protoerr"
)

var errAdminDisabled = errors.New("admin channel not configured")

// ErrAdminChannelDisabled is returned by every admin call until
// WithAdminAuth has been called once at startup.
var ErrAdminChannelDisabled = protoerr.New(protoerr.Authorization, "admin", errAdminDisabled)

// AdminForceElection authorizes token against the configured operator
// checker and, if valid, triggers an election immediately regardless of
// how much of the current epoch has elapsed. Returns nil, nil if an
// election was already in flight.
func (c *Core) AdminForceElection(token string) ([]Outbound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.admin == nil {
		return nil, ErrAdminChannelDisabled
	}
	if err := c.admin.Check(token); err != nil {
		return nil, protoerr.New(protoerr.Authorization, "admin.force_election", err)
	}

	action := c.epochMgr.ForceElection(uint64(len(c.members) + 1))
	trigger, ok := action.(epoch.TriggerElection)
	if !ok {
		return nil, nil
	}
	return c.applyTriggerElectionLocked(trigger), nil
}
