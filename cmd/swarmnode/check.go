// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openswarm/swarmcore/swarmconfig"
)

func checkCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a swarm node's parameter profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProfile(profile)
			if err != nil {
				return err
			}

			fmt.Printf("profile: %s\n", profile)
			fmt.Printf("  epoch duration:        %s\n", cfg.Epoch.Duration)
			fmt.Printf("  epoch settling window: %s\n", cfg.Epoch.SettlingWindow)
			fmt.Printf("  senate size:           %d\n", cfg.Voting.SenateSize)
			fmt.Printf("  prohibit self vote:    %t\n", cfg.Voting.ProhibitSelfVote)
			fmt.Printf("  commit/reveal timeout: %s\n", cfg.RFP.CommitRevealTimeout)
			fmt.Printf("  hierarchy max depth:   %d\n", cfg.Hierarchy.MaxDepth)

			if err := cfg.Validate(); err != nil {
				fmt.Printf("\nINVALID: %v\n", err)
				return err
			}
			fmt.Println("\nvalid")
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "local", "parameter profile: default, mainnet, or local")
	return cmd
}

func loadProfile(profile string) (swarmconfig.Config, error) {
	switch profile {
	case "default":
		return swarmconfig.Default(), nil
	case "mainnet":
		return swarmconfig.Mainnet(), nil
	case "local":
		return swarmconfig.Local(), nil
	default:
		return swarmconfig.Config{}, fmt.Errorf("unknown profile %q: want default, mainnet, or local", profile)
	}
}
