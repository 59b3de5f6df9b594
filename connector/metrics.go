// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openswarm/swarmcore/protocol"
)

// Metrics are the prometheus collectors the connector's event loop and
// periodic ticks update, following the registerer-injection pattern the
// teacher's protocol packages use for their own per-round counters.
type Metrics struct {
	messagesDispatched prometheus.Counter
	dispatchErrors     prometheus.Counter
	electionsTriggered prometheus.Counter
	rfpsActive         prometheus.Gauge
	tasksInProgress    prometheus.Gauge
	irvRoundsRun       prometheus.Counter
}

// NewMetrics builds and registers the connector's collectors against reg.
// Pass nil for reg in tests and short-lived tooling to skip registration
// (the collectors still work, just ungathered).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messagesDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swarmcore_messages_dispatched_total",
			Help: "Inbound protocol messages successfully dispatched.",
		}),
		dispatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swarmcore_dispatch_errors_total",
			Help: "Inbound protocol messages that returned an error from their handler.",
		}),
		electionsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swarmcore_elections_triggered_total",
			Help: "Epoch-boundary coordinator elections triggered.",
		}),
		rfpsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swarmcore_rfps_active",
			Help: "RFP rounds currently open for this node's coordinated tasks.",
		}),
		tasksInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swarmcore_tasks_in_progress",
			Help: "Tasks in the local task graph with status in_progress.",
		}),
		irvRoundsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swarmcore_irv_rounds_run_total",
			Help: "Instant-runoff tallies run by the voting-check tick, including ones that found no winner.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.messagesDispatched, m.dispatchErrors, m.electionsTriggered,
		m.rfpsActive, m.tasksInProgress, m.irvRoundsRun,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WithMetrics attaches m to the core; subsequent dispatch and ticks report
// into it. Safe to call once before the core starts serving traffic.
func (c *Core) WithMetrics(m *Metrics) *Core {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
	return c
}

func (c *Core) observeDispatched() {
	if c.metrics != nil {
		c.metrics.messagesDispatched.Inc()
	}
}

func (c *Core) observeDispatchError() {
	if c.metrics != nil {
		c.metrics.dispatchErrors.Inc()
	}
}

func (c *Core) observeElection() {
	if c.metrics != nil {
		c.metrics.electionsTriggered.Inc()
	}
}

func (c *Core) observeIRVRun() {
	if c.metrics != nil {
		c.metrics.irvRoundsRun.Inc()
	}
}

// refreshGaugesLocked recomputes the point-in-time gauges from current
// state. Callers must hold mu (read or write).
func (c *Core) refreshGaugesLocked() {
	if c.metrics == nil {
		return
	}
	c.metrics.rfpsActive.Set(float64(len(c.rfps)))
	inProgress := 0
	for _, t := range c.graph.AllTasks() {
		if t.Status == protocol.TaskInProgress {
			inProgress++
		}
	}
	c.metrics.tasksInProgress.Set(float64(inProgress))
}
