// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openswarm/swarmcore/connector"
	"github.com/openswarm/swarmcore/identity"
	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/swarmconfig"
	"github.com/openswarm/swarmcore/transport"
)

func runCmd() *cobra.Command {
	var profile string
	var seedPath string
	var swarmID string
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run this node's connector event loop and periodic ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProfile(profile)
			if err != nil {
				return err
			}
			cfg.Identity.SeedPath = seedPath
			cfg.Transport.SwarmID = swarmID
			cfg.Transport.ListenAddr = listenAddr

			startupLog, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("build startup logger: %w", err)
			}
			defer startupLog.Sync()

			key, err := identity.LoadOrCreate(cfg.Identity.SeedPath)
			if err != nil {
				return fmt.Errorf("load identity: %w", err)
			}
			startupLog.Info("identity loaded", zap.String("agent_id", string(key.AgentID())))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runNode(ctx, cfg, key, startupLog)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "local", "parameter profile: default, mainnet, or local")
	cmd.Flags().StringVar(&seedPath, "seed-path", "./data/identity.seed", "path to the Ed25519 seed file")
	cmd.Flags().StringVar(&swarmID, "swarm-id", "public", "swarm to join")
	cmd.Flags().StringVar(&listenAddr, "listen", "/ip4/0.0.0.0/tcp/4001", "local listen address, stored in the transport config (not announced)")
	return cmd
}

func runNode(ctx context.Context, cfg swarmconfig.Config, key *identity.SigningKey, zlog *zap.Logger) error {
	self := string(key.AgentID())

	bus := transport.NewBus()
	tp := transport.NewLoopback(bus, self, nil)

	reg := prometheus.NewRegistry()
	metrics, err := connector.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	core := connector.New(cfg, self, time.Now, nil).WithMetrics(metrics)

	var reqSeq uint64
	pub := connector.NewPublisher(tp, key, func() string {
		return strconv.FormatUint(atomic.AddUint64(&reqSeq, 1), 10)
	})

	swarmID := protocol.SwarmID(cfg.Transport.SwarmID)
	for _, topic := range []string{
		protocol.SwarmDiscoveryTopic(),
		protocol.SwarmAnnounceTopic(swarmID),
		protocol.ElectionTier1Topic(swarmID),
	} {
		if err := tp.Subscribe(ctx, topic); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	if err := tp.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return pumpEvents(gctx, core, tp, pub) })
	g.Go(func() error { return runTick(gctx, cfg.Timers.KeepAliveInterval, func() { apply(gctx, pub, core.TickKeepAlive(), nil) }) })
	g.Go(func() error { return runTick(gctx, cfg.Timers.EpochTick, func() { apply(gctx, pub, core.TickEpoch(), nil) }) })
	g.Go(func() error {
		return runTick(gctx, cfg.Timers.SwarmAnnounceInterval, func() {
			outbound, writes := core.TickSwarmAnnounce()
			apply(gctx, pub, outbound, writes)
		})
	})
	g.Go(func() error {
		return runTick(gctx, cfg.Timers.BootstrapRetryInterval, func() {
			for _, addr := range core.TickBootstrapRetry() {
				_ = tp.Dial(gctx, addr)
			}
		})
	})
	g.Go(func() error { return runTick(gctx, cfg.Timers.VotingCheckInterval, func() { apply(gctx, pub, core.TickVotingCheck(), nil) }) })
	g.Go(func() error { return runTick(gctx, cfg.Timers.ExecutionTimeoutTick, func() { apply(gctx, pub, core.TickExecutionTimeout(), nil) }) })

	zlog.Info("node running", zap.String("agent_id", self), zap.String("swarm_id", string(swarmID)))
	err = g.Wait()
	if err != nil && ctx.Err() != nil {
		// Shutdown was requested; the context cancellation is expected.
		return nil
	}
	return err
}

// runTick calls fn every interval until ctx is done.
func runTick(ctx context.Context, interval time.Duration, fn func()) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn()
		}
	}
}

// pumpEvents drains inbound network events, dispatches them into core, and
// publishes whatever outbound messages the dispatch produces.
func pumpEvents(ctx context.Context, core *connector.Core, tp *transport.Loopback, pub *connector.Publisher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-tp.Events():
			if ev.Kind != transport.MessageReceived {
				continue
			}
			var msg protocol.Message
			if err := json.Unmarshal(ev.Data, &msg); err != nil {
				continue
			}
			outbound, _ := core.Dispatch(msg)
			apply(ctx, pub, outbound, nil)
		}
	}
}

func apply(ctx context.Context, pub *connector.Publisher, outbound []connector.Outbound, writes []connector.DHTWrite) {
	_ = pub.Publish(ctx, outbound)
	_ = pub.PutDHTRecords(ctx, writes)
}
