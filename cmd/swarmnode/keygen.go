// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openswarm/swarmcore/identity"
)

func keygenCmd() *cobra.Command {
	var seedPath string
	var showMnemonic bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate or load this node's durable identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := identity.LoadOrCreate(seedPath)
			if err != nil {
				return fmt.Errorf("load or create identity: %w", err)
			}
			fmt.Printf("agent id: %s\n", key.AgentID())
			fmt.Printf("seed file: %s\n", seedPath)
			if showMnemonic {
				fmt.Printf("mnemonic: %s\n", key.Mnemonic())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "seed-path", "./data/identity.seed", "path to the Ed25519 seed file")
	cmd.Flags().BoolVar(&showMnemonic, "show-mnemonic", false, "also print the hex-encoded seed export (not a word list) for this seed")
	return cmd
}
