// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command swarmnode runs one node of a swarm coordination core: identity
// management, the connector's event loop and periodic ticks, and
// parameter sanity checking, through the run/keygen/check subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swarmnode",
	Short: "Swarm coordination core node",
	Long: `swarmnode runs a single agent's coordination core: hierarchy
placement, epoch-driven elections, commit-reveal task proposals,
instant-runoff voting, and task-graph result aggregation.`,
}

func main() {
	rootCmd.AddCommand(runCmd(), keygenCmd(), checkCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
