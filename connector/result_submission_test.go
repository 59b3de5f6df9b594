// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/swarmconfig"
)

func TestHandleResultSubmissionStoresInlineContentAndAwardsReputation(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	task := protocol.NewTask("task-1", "leaf work", 1, 0, now())
	task.ParentTaskID = "root-task"
	task.AssignedTo = "agent-1"
	c.graph.Insert(task)

	artifact := protocol.Artifact{ArtifactID: "art-1", TaskID: "task-1", Producer: "agent-1", ContentCID: "cid-1"}
	_, err := c.HandleResultSubmission(protocol.ResultSubmissionParams{
		TaskID:   "task-1",
		AgentID:  "agent-1",
		Artifact: artifact,
		Content:  []byte("payload"),
	})
	require.NoError(t, err)

	got, err := c.Artifact("cid-1")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
	require.Equal(t, int64(resultAcceptedAward), c.Scores().Value("agent-1"))
}

func TestHandleResultSubmissionWithoutContentSkipsStore(t *testing.T) {
	now, _ := clock(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	c := New(swarmconfig.Local(), "agent-0", now, nil)

	task := protocol.NewTask("task-1", "leaf work", 1, 0, now())
	task.ParentTaskID = "root-task"
	task.AssignedTo = "agent-1"
	c.graph.Insert(task)

	artifact := protocol.Artifact{ArtifactID: "art-1", TaskID: "task-1", Producer: "agent-1", ContentCID: "cid-1"}
	_, err := c.HandleResultSubmission(protocol.ResultSubmissionParams{
		TaskID: "task-1", AgentID: "agent-1", Artifact: artifact,
	})
	require.NoError(t, err)

	_, err = c.Artifact("cid-1")
	require.Error(t, err)
}
