// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim trains the parameters of a layered unit system against
// a dataset.
//
// # Overview
//
// This package contains:
//   - Trainer: the training state machine driving one run
//   - Config: hyperparameters with documented zero-value defaults
//   - update schemes "cd", "pretrain", "finetune" and "dbn"
//   - YAML decoding of named training schedules
//
// # Basic Usage
//
//	import (
//	    "github.com/boltz-ml/boltz/model"
//	    "github.com/boltz-ml/boltz/optim"
//	)
//
//	func main() {
//	    m, _ := model.New(topo, data, sess, system.InitConfig{Seed: 1})
//
//	    // Greedy pretraining followed by fine-tuning.
//	    res, err := m.Optimize(optim.Config{
//	        Algorithm: "dbn",
//	        Updates:   10000,
//	        Rate:      0.1,
//	        Threshold: 0.05,
//	    })
//	    if err != nil {
//	        // A Failed run keeps the last stable parameters.
//	    }
//	    fmt.Println(res.State, res.Objective)
//	}
//
// A run ends in one of three terminal states: Converged when the
// reconstruction error falls below the configured threshold,
// MaxIterations when the iteration or wall-time budget is exhausted
// (a valid outcome, not an error), or Failed when an update was
// rejected as numerically unstable.
package optim
