// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package taskgraph tracks task lifecycle and recursively aggregates
// results bottom-up: a completed leaf folds into its parent's aggregated
// artifact once every sibling has completed, all the way to the root.
// Every accepted result appends a Merkle leaf to the package's append-only
// DAG, mirroring the teacher's block DAG but keyed on task completions
// instead of chain blocks.
package taskgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openswarm/swarmcore/identity"
	"github.com/openswarm/swarmcore/protocol"
)

var (
	ErrSubmitterMismatch  = errors.New("taskgraph: submitter does not match task.assigned_to")
	ErrRootWithoutSubtasks = errors.New("taskgraph: root task with no subtasks cannot receive a direct result")
	ErrUnknownTask        = errors.New("taskgraph: unknown task id")
)

// node is the graph's internal record for one task.
type node struct {
	task     protocol.Task
	artifact *protocol.Artifact
}

// leaf is one entry in the Merkle DAG: a completed task's content hash.
type leaf struct {
	taskID     string
	contentCID []byte
}

// Graph holds every task the local node has observed and the append-only
// Merkle leaf log their completions have produced.
type Graph struct {
	mu    sync.RWMutex
	tasks map[string]*node
	leaves []leaf
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{tasks: make(map[string]*node)}
}

// Insert records task without duplicating it: re-inserting an existing
// task_id replaces its record, except that a Completed task is never
// replaced.
func (g *Graph) Insert(task protocol.Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.tasks[task.TaskID]; ok {
		if existing.task.Status == protocol.TaskCompleted {
			return
		}
		existing.task = task
		return
	}
	g.tasks[task.TaskID] = &node{task: task}
}

// Get returns the task recorded for taskID.
func (g *Graph) Get(taskID string) (protocol.Task, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.tasks[taskID]
	if !ok {
		return protocol.Task{}, false
	}
	return n.task, true
}

// NodeCount returns the number of Merkle leaves appended so far.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.leaves)
}

// OverdueInProgress returns every InProgress task whose deadline has
// passed as of now, for the execution-timeout tick's reassignment sweep.
func (g *Graph) OverdueInProgress(now time.Time) []protocol.Task {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []protocol.Task
	for _, n := range g.tasks {
		if n.task.Status != protocol.TaskInProgress {
			continue
		}
		if n.task.Deadline != nil && !n.task.Deadline.After(now) {
			out = append(out, n.task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

// AllTasks returns every task currently recorded, for metrics and admin
// inspection.
func (g *Graph) AllTasks() []protocol.Task {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]protocol.Task, 0, len(g.tasks))
	for _, n := range g.tasks {
		out = append(out, n.task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

// SubmitResult records an executor's artifact for taskID, then recursively
// aggregates up the parent chain as far as completion allows. submitter
// must match the task's assigned_to, and a parentless, subtask-less task
// cannot receive a direct result — only aggregation can complete a root.
func (g *Graph) SubmitResult(taskID, submitter string, artifact protocol.Artifact) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}
	if n.task.Status == protocol.TaskCompleted {
		return nil
	}
	if n.task.AssignedTo != submitter {
		return fmt.Errorf("%w: task %s assigned to %q, got %q", ErrSubmitterMismatch, taskID, n.task.AssignedTo, submitter)
	}
	if n.task.ParentTaskID == "" && len(n.task.Subtasks) == 0 {
		return fmt.Errorf("%w: %s", ErrRootWithoutSubtasks, taskID)
	}

	g.completeLocked(n, artifact)
	g.aggregateUpLocked(n.task.ParentTaskID)
	return nil
}

// completeLocked marks n Completed with the given artifact and appends its
// Merkle leaf. Callers must hold g.mu.
func (g *Graph) completeLocked(n *node, artifact protocol.Artifact) {
	n.task.Status = protocol.TaskCompleted
	n.artifact = &artifact
	cid := []byte(artifact.ContentCID)
	g.leaves = append(g.leaves, leaf{taskID: n.task.TaskID, contentCID: cid})
}

// aggregateUpLocked folds a completed child's result into its parent once
// every sibling subtask is Completed, recursing toward the root until it
// reaches a task with no parent or one not yet fully satisfied. Callers
// must hold g.mu.
func (g *Graph) aggregateUpLocked(parentID string) {
	if parentID == "" {
		return
	}
	parent, ok := g.tasks[parentID]
	if !ok || parent.task.Status == protocol.TaskCompleted {
		return
	}
	if len(parent.task.Subtasks) == 0 {
		return
	}

	// parent.task.Subtasks is already the ordered list of child task ids;
	// preserve that order rather than re-sorting it lexicographically,
	// which would scramble it once a task has 10+ subtasks (-st-10 sorts
	// before -st-2).
	subtaskIDs := parent.task.Subtasks

	var lines []string
	var merkleInputs [][]byte
	for _, subID := range subtaskIDs {
		sub, ok := g.tasks[subID]
		if !ok || sub.task.Status != protocol.TaskCompleted || sub.artifact == nil {
			return // not yet fully satisfied
		}
		lines = append(lines, fmt.Sprintf("subtask:%s -> cid:%s", subID, sub.artifact.ContentCID))
		merkleInputs = append(merkleInputs, []byte(sub.artifact.MerkleHash))
	}

	content := strings.Join(lines, "\n")
	contentCID := identity.SHA256Hex([]byte(content))

	var concatenated []byte
	for _, m := range merkleInputs {
		concatenated = append(concatenated, m...)
	}
	merkleHash := identity.SHA256Hex(concatenated)

	artifact := protocol.Artifact{
		ArtifactID:  parentID + "-aggregate",
		TaskID:      parentID,
		Producer:    "taskgraph.aggregate",
		ContentCID:  contentCID,
		MerkleHash:  merkleHash,
		ContentType: "application/x-aggregate",
	}

	g.completeLocked(parent, artifact)
	g.aggregateUpLocked(parent.task.ParentTaskID)
}
