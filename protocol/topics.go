// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package protocol

import "fmt"

// TopicPrefix namespaces every GossipSub topic this protocol publishes.
const TopicPrefix = "openswarm"

// DefaultSwarmID is the well-known public swarm every node joins absent an
// explicit private swarm_id.
const DefaultSwarmID = "public"

// DefaultSwarmName labels the default public swarm in SwarmInfo.
const DefaultSwarmName = "Public Swarm"

// SwarmDiscoveryTopic is the global topic every node subscribes to for
// swarm-existence announcements, independent of swarm membership.
func SwarmDiscoveryTopic() string {
	return fmt.Sprintf("%s/swarm/discovery", TopicPrefix)
}

// SwarmAnnounceTopic is the per-swarm announcement topic.
func SwarmAnnounceTopic(swarmID SwarmID) string {
	return fmt.Sprintf("%s/swarm/%s/announce", TopicPrefix, swarmID)
}

// ElectionTier1Topic is the per-swarm Tier1 candidacy/vote topic.
func ElectionTier1Topic(swarmID SwarmID) string {
	return fmt.Sprintf("%s/s/%s/election/tier1", TopicPrefix, swarmID)
}

// ProposalsTopic is the per-task commit-reveal proposal topic.
func ProposalsTopic(swarmID SwarmID, taskID string) string {
	return fmt.Sprintf("%s/s/%s/proposals/%s", TopicPrefix, swarmID, taskID)
}

// VotingTopic is the per-task ranked-choice voting topic.
func VotingTopic(swarmID SwarmID, taskID string) string {
	return fmt.Sprintf("%s/s/%s/voting/%s", TopicPrefix, swarmID, taskID)
}

// ResultsTopic is the per-task result-submission topic.
func ResultsTopic(swarmID SwarmID, taskID string) string {
	return fmt.Sprintf("%s/s/%s/results/%s", TopicPrefix, swarmID, taskID)
}
