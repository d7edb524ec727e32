// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package system holds the learnable parameters of a layer topology —
// weights, biases and gaussian log-variances — together with the unit
// transfer semantics used to propagate observations through them.
//
// Updates commit atomically: a delta producing non-finite values is
// rejected as an *InstabilityError and leaves every parameter
// untouched. Snapshots are deep copies, safe against later training.
package system

import (
	"github.com/boltz-ml/boltz/internal/system"
	"github.com/boltz-ml/boltz/internal/topology"
)

// ParameterStore owns the parameters of one topology.
type ParameterStore = system.ParameterStore

// InitConfig configures parameter initialization.
type InitConfig = system.InitConfig

// Snapshot is a deep copy of a store's parameters.
type Snapshot = system.Snapshot

// NamedArray is one block of the portable parameter representation.
type NamedArray = system.NamedArray

// InstabilityError reports a rejected non-finite update, naming the
// affected layer pair.
type InstabilityError = system.InstabilityError

// New allocates a freshly initialized store for a topology.
func New(topo *topology.Topology, cfg InitConfig) *ParameterStore {
	return system.New(topo, cfg)
}

// FromPortable rebuilds a store from its portable representation,
// validating the presence and shape of every parameter block.
func FromPortable(topo *topology.Topology, arrays []NamedArray) (*ParameterStore, error) {
	return system.FromPortable(topo, arrays)
}
