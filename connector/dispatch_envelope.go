// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"encoding/json"
	"fmt"

	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/protoerr"
)

// ErrUnroutableMethod is returned by Dispatch for a method the connector
// has no handler for (known to the protocol package but not acted on by
// this node, e.g. methods only a hierarchy-election layer above the core
// consumes).
var ErrUnroutableMethod = fmt.Errorf("connector: no handler for method")

// Dispatch decodes msg.Params per msg.Method and routes to the matching
// Handle* method, centralizing the envelope-unwrapping boilerplate a
// transport pump would otherwise repeat at every call site. It reports
// into Metrics when one is attached.
func (c *Core) Dispatch(msg protocol.Message) ([]Outbound, error) {
	if msg.ID != "" {
		if err := c.replay.CheckAndInsert(msg.ID, msg.Timestamp); err != nil {
			c.observeDispatchError()
			return nil, protoerr.New(protoerr.Replay, msg.Method, err)
		}
	}

	out, err := c.dispatch(msg)
	if err != nil {
		c.observeDispatchError()
	} else {
		c.observeDispatched()
	}
	c.mu.Lock()
	c.refreshGaugesLocked()
	c.mu.Unlock()
	return out, err
}

func (c *Core) dispatch(msg protocol.Message) ([]Outbound, error) {
	switch protocol.Method(msg.Method) {
	case protocol.MethodKeepAlive, protocol.MethodAgentKeepAlive:
		var p protocol.KeepAliveParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleKeepAlive(p)
		return nil, nil

	case protocol.MethodTierAssignment:
		var p protocol.TierAssignmentParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		return c.HandleTierAssignment(p), nil

	case protocol.MethodTaskInjection:
		var p protocol.TaskInjectionParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		return c.HandleTaskInjection(p), nil

	case protocol.MethodProposalCommit:
		var p protocol.ProposalCommitParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		return nil, c.HandleProposalCommit(p)

	case protocol.MethodProposalReveal:
		var p protocol.ProposalRevealParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		return nil, c.HandleProposalReveal(p)

	case protocol.MethodConsensusVote:
		var p protocol.ConsensusVoteParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		return nil, c.HandleConsensusVote(p)

	case protocol.MethodResultSubmission:
		var p protocol.ResultSubmissionParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		return c.HandleResultSubmission(p)

	case protocol.MethodBoardInvite:
		var p protocol.BoardInviteParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleBoardInvite(p)
		return nil, nil

	case protocol.MethodBoardAccept:
		var p protocol.BoardAcceptParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleBoardAccept(p)
		return nil, nil

	case protocol.MethodBoardDecline:
		var p protocol.BoardDeclineParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleBoardDecline(p)
		return nil, nil

	case protocol.MethodBoardReady:
		var p protocol.BoardReadyParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleBoardReady(p)
		return nil, nil

	case protocol.MethodBoardDissolve:
		var p protocol.BoardDissolveParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleBoardDissolve(p)
		return nil, nil

	case protocol.MethodDiscussionCritique:
		var p protocol.DiscussionCritiqueParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleDiscussionCritique(p)
		return nil, nil

	case protocol.MethodSwarmAnnounce:
		var p protocol.SwarmAnnounceParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleSwarmAnnounce(p)
		return nil, nil

	case protocol.MethodSwarmJoin:
		var p protocol.SwarmJoinParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		resp := c.HandleSwarmJoin(p)
		return []Outbound{{
			Topic:  protocol.SwarmAnnounceTopic(protocol.SwarmID(c.cfg.Transport.SwarmID)),
			Method: protocol.MethodSwarmJoinResponse,
			Params: resp,
		}}, nil

	case protocol.MethodSwarmLeave:
		var p protocol.SwarmLeaveParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			return nil, err
		}
		c.HandleSwarmLeave(p)
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnroutableMethod, msg.Method)
	}
}
