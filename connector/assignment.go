// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"fmt"

	"github.com/openswarm/swarmcore/hierarchy"
	"github.com/openswarm/swarmcore/protocol"
)

// assignSubtasksFromPlanLocked materializes a winning plan's subtasks:
// simple ones go straight to a subordinate one tier down, complex ones
// spawn a sub-holon at the parent's own tier. Callers must hold mu for
// writing.
func (c *Core) assignSubtasksFromPlanLocked(taskID string, plan protocol.Plan) []Outbound {
	firstSubtaskID := fmt.Sprintf("%s-st-1", taskID)
	if _, exists := c.graph.Get(firstSubtaskID); exists {
		return nil
	}

	parent, ok := c.graph.Get(taskID)
	if !ok {
		return nil
	}

	subordinates := c.subordinatesLocked()
	if len(subordinates) == 0 {
		if len(c.members) == 0 {
			subordinates = []string{c.self}
		} else {
			return nil
		}
	}

	swarmID := protocol.SwarmID(c.cfg.Transport.SwarmID)
	now := c.now()
	subtaskIDs := make([]string, 0, len(plan.Subtasks))
	var outbound []Outbound

	for i, st := range plan.Subtasks {
		subtaskID := fmt.Sprintf("%s-st-%d", taskID, i+1)
		subtaskIDs = append(subtaskIDs, subtaskID)

		if st.EstimatedComplexity > complexityRecurseThreshold {
			child := protocol.NewTask(subtaskID, st.Description, parent.TierLevel, parent.Epoch, now)
			child.ParentTaskID = taskID
			child.CapabilitiesRequired = st.RequiredCapabilities
			c.graph.Insert(child)

			c.holons[subtaskID] = &protocol.HolonState{
				TaskID:      subtaskID,
				Chair:       c.self,
				Status:      protocol.HolonForming,
				ParentHolon: taskID,
				Depth:       parent.TierLevel,
				CreatedAt:   now,
			}
			if parentHolon, ok := c.holons[taskID]; ok {
				parentHolon.ChildHolons = append(parentHolon.ChildHolons, subtaskID)
			}

			topic := protocol.ResultsTopic(swarmID, subtaskID)
			c.subscribeLocked(topic)
			outbound = append(outbound, Outbound{
				Topic:  protocol.ProposalsTopic(swarmID, taskID),
				Method: protocol.MethodTaskInjection,
				Params: protocol.TaskInjectionParams{Task: child, Originator: c.self},
			})
			continue
		}

		assignee := subordinates[i%len(subordinates)]
		tierLevel := parent.TierLevel + 1
		if tierLevel > uint32(hierarchy.MaxHierarchyDepth) {
			tierLevel = uint32(hierarchy.MaxHierarchyDepth)
		}
		deadline := now.Add(c.cfg.Timers.ExecutionAssignmentTimeout)

		child := protocol.NewTask(subtaskID, st.Description, tierLevel, parent.Epoch, now)
		child.ParentTaskID = taskID
		child.AssignedTo = assignee
		child.Status = protocol.TaskInProgress
		child.Deadline = &deadline
		child.CapabilitiesRequired = st.RequiredCapabilities
		c.graph.Insert(child)

		resultsTopic := protocol.ResultsTopic(swarmID, subtaskID)
		c.subscribeLocked(resultsTopic)
		outbound = append(outbound, Outbound{
			Topic:  resultsTopic,
			Method: protocol.MethodTaskAssignment,
			Params: protocol.TaskAssignmentParams{Task: child, Assignee: assignee, ParentTaskID: taskID, WinningPlanID: plan.PlanID},
		})
	}

	parent.Subtasks = append(append([]string(nil), parent.Subtasks...), subtaskIDs...)
	if parent.Status != protocol.TaskCompleted {
		parent.Status = protocol.TaskInProgress
	}
	c.graph.Insert(parent)

	return outbound
}
