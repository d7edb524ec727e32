// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model composes a topology, its learnable parameters and a
// dataset into one trainable, analyzable unit under an explicit
// session context.
//
// # Basic Usage
//
//	import (
//	    "github.com/boltz-ml/boltz/dataset"
//	    "github.com/boltz-ml/boltz/model"
//	    "github.com/boltz-ml/boltz/optim"
//	    "github.com/boltz-ml/boltz/system"
//	    "github.com/boltz-ml/boltz/topology"
//	)
//
//	func main() {
//	    topo, _ := topology.New(
//	        topology.LayerSpec{Name: "visible", Size: 8, Activation: topology.Gauss},
//	        topology.LayerSpec{Name: "hidden", Size: 4, Activation: topology.Sigmoid},
//	    )
//	    data, _ := dataset.New(cols, rows)
//	    sess := model.NewSession(model.SessionConfig{Seed: 1})
//
//	    m, _ := model.New(topo, data, sess, system.InitConfig{Seed: 1})
//	    res, _ := m.Optimize(optim.Config{Updates: 10000, Rate: 0.1})
//	    score, _ := m.Evaluate("error")
//	    fmt.Println(res.State, score.Scalar)
//	}
package model

import (
	"github.com/boltz-ml/boltz/internal/model"
	"github.com/boltz-ml/boltz/internal/session"
	"github.com/boltz-ml/boltz/internal/system"
	"github.com/boltz-ml/boltz/internal/table"
	"github.com/boltz-ml/boltz/internal/topology"
)

// Model binds a topology, parameters, a dataset and a session.
type Model = model.Model

// Session is the explicit context of a training or analysis run:
// random source, verbosity and a unique run identifier.
type Session = session.Session

// SessionConfig configures a Session.
type SessionConfig = session.Config

// NewSession creates an independent run context.
func NewSession(cfg SessionConfig) *Session {
	return session.New(cfg)
}

// New builds a model with freshly initialized parameters. Dataset
// columns must match the visible layer.
func New(topo *topology.Topology, data *table.Table, sess *Session, init system.InitConfig) (*Model, error) {
	return model.New(topo, data, sess, init)
}

// FromPortable restores a model from a portable parameter
// representation.
func FromPortable(topo *topology.Topology, data *table.Table, sess *Session, arrays []system.NamedArray) (*Model, error) {
	return model.FromPortable(topo, data, sess, arrays)
}
