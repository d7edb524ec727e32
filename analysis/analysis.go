// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package analysis evaluates statistical metrics over a trained model:
// samplers, per-unit statistics, scalar objectives and pairwise
// association matrices.
//
// # Metric Categories
//
//   - Sampler: one row per observation, one column per observed unit
//     ("expect", "values", "samples", "residuals")
//   - Statistic: one aggregate row ("mean", "variance")
//   - Objective: a scalar with an optimum direction ("error",
//     "accuracy", "precision")
//   - Association: a square matrix of pairwise unit relations
//     ("correlation", "connectionweight", "knockout")
//
// # Basic Usage
//
//	res, err := m.Evaluate("knockout")
//	if err != nil {
//	    // *analysis.UnknownMetricError for unregistered names
//	}
//	analysis.Intensify(res.Matrix, 10, 1)
package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/analysis"
)

// Subject is the trained model surface metrics evaluate against;
// model.Model implements it.
type Subject = analysis.Subject

// Metric describes one registered evaluation function.
type Metric = analysis.Metric

// Result is one tagged metric evaluation.
type Result = analysis.Result

// Category classifies a metric by the shape of its result.
type Category = analysis.Category

// Metric categories.
const (
	Sampler     = analysis.Sampler
	Statistic   = analysis.Statistic
	Objective   = analysis.Objective
	Association = analysis.Association
)

// Optimum tags the preferred direction of an objective.
type Optimum = analysis.Optimum

// Optimum directions.
const (
	None = analysis.None
	Min  = analysis.Min
	Max  = analysis.Max
)

// Args is the target argument policy of a metric.
type Args = analysis.Args

// Target argument policies.
const (
	AllUnits   = analysis.AllUnits
	UnitSubset = analysis.UnitSubset
)

// UnknownMetricError reports a lookup of an unregistered metric name.
type UnknownMetricError = analysis.UnknownMetricError

// ErrUnknown is the sentinel matched by errors.Is for unknown metrics.
var ErrUnknown = analysis.ErrUnknown

// Register adds a metric to the registry at startup.
func Register(m Metric) {
	analysis.Register(m)
}

// Lookup returns a registered metric by name.
func Lookup(name string) (Metric, error) {
	return analysis.Lookup(name)
}

// List returns all registered metric descriptors sorted by name.
func List() []Metric {
	return analysis.List()
}

// Evaluate runs one registered metric against a subject.
func Evaluate(sub Subject, name string) (*Result, error) {
	return analysis.Evaluate(sub, name)
}

// EvaluateUnits runs a metric restricted to the named units. Only
// metrics with the UnitSubset policy accept a subset.
func EvaluateUnits(sub Subject, name string, units []string) (*Result, error) {
	return analysis.EvaluateUnits(sub, name, units)
}

// Intensify sharpens association values in place toward their sign.
func Intensify(m *mat.Dense, factor, bound float64) {
	analysis.Intensify(m, factor, bound)
}
