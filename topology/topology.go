// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package topology describes layered unit architectures: an ordered
// stack of named layers, each with a size and an activation kind.
// Adjacent layers form the trainable adjacencies.
package topology

import (
	"github.com/boltz-ml/boltz/internal/topology"
)

// Kind is a layer activation kind.
type Kind = topology.Kind

// Activation kinds.
const (
	Sigmoid   = topology.Sigmoid
	Tanh      = topology.Tanh
	TanhLecun = topology.TanhLecun
	Gauss     = topology.Gauss
	Linear    = topology.Linear
)

// LayerSpec declares one layer of a topology.
type LayerSpec = topology.LayerSpec

// Pair addresses one adjacency by its lower and upper layer index.
type Pair = topology.Pair

// Topology is a validated, immutable layer stack.
type Topology = topology.Topology

// ConfigError reports an invalid topology or a dataset/topology
// mismatch, naming the offending layer.
type ConfigError = topology.ConfigError

// New validates and builds a topology from layer specifications.
//
// Example:
//
//	topo, err := topology.New(
//	    topology.LayerSpec{Name: "visible", Size: 8, Activation: topology.Gauss},
//	    topology.LayerSpec{Name: "hidden", Size: 4, Activation: topology.Sigmoid},
//	)
func New(specs ...LayerSpec) (*Topology, error) {
	return topology.New(specs...)
}

// ParseKind resolves an activation kind from its name, accepting the
// aliases "tanh-efficient" and "gaussian".
func ParseKind(name string) (Kind, error) {
	return topology.ParseKind(name)
}
