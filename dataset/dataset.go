// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset holds immutable rectangular tables of numeric
// observations over named columns, with minibatch sampling and
// optional corruption noise for denoising training.
package dataset

import (
	"github.com/boltz-ml/boltz/internal/table"
)

// Table is an immutable rectangular dataset. Column names are unique
// and every row carries one value per column.
type Table = table.Table

// NoiseKind selects a corruption scheme for denoising training.
type NoiseKind = table.NoiseKind

// Corruption schemes.
const (
	NoiseNone  = table.NoiseNone
	NoiseMask  = table.NoiseMask
	NoiseGauss = table.NoiseGauss
)

// New builds a table from column names and rows.
//
// Example:
//
//	data, err := dataset.New(
//	    []string{"x", "y"},
//	    [][]float64{{0, 1}, {1, 0}},
//	)
func New(cols []string, rows [][]float64) (*Table, error) {
	return table.New(cols, rows)
}
