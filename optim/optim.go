// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/boltz-ml/boltz/internal/optim"
	"github.com/boltz-ml/boltz/internal/session"
	"github.com/boltz-ml/boltz/internal/system"
	"github.com/boltz-ml/boltz/internal/table"
)

// Trainer drives one training run over a parameter store.
type Trainer = optim.Trainer

// Config holds the hyperparameters of a training run. Zero values fall
// back to documented defaults.
type Config = optim.Config

// Noise configures minibatch corruption for denoising runs.
type Noise = optim.Noise

// State is the lifecycle state of a run.
type State = optim.State

// Trainer states.
const (
	Initialized   = optim.Initialized
	Running       = optim.Running
	Converged     = optim.Converged
	MaxIterations = optim.MaxIterations
	Failed        = optim.Failed
)

// Result reports the outcome of one run.
type Result = optim.Result

// HistoryPoint is one tracked objective evaluation.
type HistoryPoint = optim.HistoryPoint

// NewTrainer binds a parameter store, its training data and a session
// to a configuration.
func NewTrainer(store *system.ParameterStore, data *table.Table, sess *session.Session, cfg Config) (*Trainer, error) {
	return optim.NewTrainer(store, data, sess, cfg)
}

// ScheduleFromYAML decodes named training configurations from YAML.
//
// Example:
//
//	sched, err := optim.ScheduleFromYAML(raw)
//	res, err := m.Optimize(sched["coarse"])
//	res, err = m.Optimize(sched["fine"])
func ScheduleFromYAML(data []byte) (map[string]Config, error) {
	return optim.ScheduleFromYAML(data)
}
