// Copyright 2025 Boltz ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package curve provides the transfer functions used by unit layers:
// logistic, tanh, the efficient LeCun tanh and the intensify contrast
// mapping.
package curve

import (
	"github.com/boltz-ml/boltz/internal/curve"
)

// Logistic is the standard sigmoid 1 / (1 + exp(-x)).
func Logistic(x float64) float64 { return curve.Logistic(x) }

// DLogistic is the derivative of Logistic.
func DLogistic(x float64) float64 { return curve.DLogistic(x) }

// Tanh is the hyperbolic tangent.
func Tanh(x float64) float64 { return curve.Tanh(x) }

// DTanh is the derivative of Tanh.
func DTanh(x float64) float64 { return curve.DTanh(x) }

// TanhLecun is the scaled tanh 1.7159·tanh(2x/3), which keeps unit
// activations near unit variance (LeCun et al., "Efficient BackProp").
func TanhLecun(x float64) float64 { return curve.TanhLecun(x) }

// DTanhLecun is the derivative of TanhLecun.
func DTanhLecun(x float64) float64 { return curve.DTanhLecun(x) }

// Elliot is a fast sigmoid approximation x / (1 + |x|).
func Elliot(x float64) float64 { return curve.Elliot(x) }

// DElliot is the derivative of Elliot.
func DElliot(x float64) float64 { return curve.DElliot(x) }

// Intensify sharpens x toward its sign with the given contrast factor
// and saturation bound. It is odd-symmetric, fixes ±bound and clamps
// factor to a small positive minimum.
func Intensify(x, factor, bound float64) float64 {
	return curve.Intensify(x, factor, bound)
}
