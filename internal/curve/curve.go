// Package curve implements the sigmoidal and bell shaped transfer
// functions used by unit layers and by statistical post-processing.
//
// All functions are pure and elementwise. Non-finite inputs propagate
// to the output unchanged in kind; callers validate upstream.
package curve

import "math"

// Logistic computes the standard logistic function 1 / (1 + exp(-x)).
func Logistic(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// DLogistic computes the derivative of the standard logistic function,
// logistic(x) * (1 - logistic(x)).
func DLogistic(x float64) float64 {
	f := Logistic(x)
	return f * (1.0 - f)
}

// Tanh computes the hyperbolic tangent.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// DTanh computes the derivative of the hyperbolic tangent, 1 - tanh(x)².
func DTanh(x float64) float64 {
	t := math.Tanh(x)
	return 1.0 - t*t
}

// lecunScale and lecunSlope are the constants of the rescaled hyperbolic
// tangent proposed in Y. LeCun, L. Bottou, G. B. Orr, K. Müller,
// "Efficient BackProp" (1998). The rescaling keeps unit activations away
// from the saturated tails during training.
const (
	lecunScale = 1.7159
	lecunSlope = 2.0 / 3.0
)

// TanhLecun computes 1.7159 * tanh(2/3 * x), the LeCun efficient tanh.
func TanhLecun(x float64) float64 {
	return lecunScale * math.Tanh(lecunSlope*x)
}

// DTanhLecun computes the derivative of TanhLecun.
func DTanhLecun(x float64) float64 {
	t := math.Tanh(lecunSlope * x)
	return lecunScale * lecunSlope * (1.0 - t*t)
}

// DLogisticFromValue computes the logistic derivative given the
// already computed activation value f = logistic(x).
func DLogisticFromValue(f float64) float64 {
	return f * (1.0 - f)
}

// DTanhFromValue computes the tanh derivative given t = tanh(x).
func DTanhFromValue(t float64) float64 {
	return 1.0 - t*t
}

// DTanhLecunFromValue computes the TanhLecun derivative given the
// already computed activation value v = TanhLecun(x).
func DTanhLecunFromValue(v float64) float64 {
	t := v / lecunScale
	return lecunScale * lecunSlope * (1.0 - t*t)
}

// Elliot computes the Elliot activation x / (1 + |x|), a cheap
// saturating alternative to the logistic function.
func Elliot(x float64) float64 {
	return x / (1.0 + math.Abs(x))
}

// DElliot computes the derivative of the Elliot activation.
func DElliot(x float64) float64 {
	d := 1.0 + math.Abs(x)
	return 1.0 / (d * d)
}

// minIntensifyFactor is the lower clamp for the sharpness parameter of
// Intensify. The normalization divides by a difference of logistics that
// degenerates to zero as the factor approaches zero.
const minIntensifyFactor = 1e-6

// Intensify sharpens near-threshold values by combining two shifted
// logistic curves:
//
//	m(x) = |x| * (logistic(factor*(x - bound/2)) + logistic(factor*(x + bound/2)) - 1)
//
// normalized so that Intensify(±bound) = ±bound. The function is odd
// symmetric. factor is clamped to a minimum of 1e-6.
func Intensify(x, factor, bound float64) float64 {
	if factor < minIntensifyFactor {
		factor = minIntensifyFactor
	}

	ma := Logistic(factor * (x - 0.5*bound))
	mb := Logistic(factor * (x + 0.5*bound))
	m := math.Abs(x) * (ma + mb - 1.0)

	na := Logistic(factor * 0.5 * bound)
	nb := Logistic(factor * 1.5 * bound)
	n := math.Abs(na + nb - 1.0)

	return m / n
}

// Map applies f elementwise, writing results into dst. dst and src must
// have equal length; dst may alias src.
func Map(f func(float64) float64, dst, src []float64) {
	if len(dst) != len(src) {
		panic("curve: dst and src length mismatch")
	}
	for i, v := range src {
		dst[i] = f(v)
	}
}
