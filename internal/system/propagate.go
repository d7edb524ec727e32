package system

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/curve"
	"github.com/boltz-ml/boltz/internal/topology"
)

// activation returns the elementwise transfer function of a layer kind.
// Gaussian and linear layers are linear in their expectation.
func activation(k topology.Kind) func(float64) float64 {
	switch k {
	case topology.Sigmoid:
		return curve.Logistic
	case topology.Tanh:
		return curve.Tanh
	case topology.TanhLecun:
		return curve.TanhLecun
	}
	return nil
}

// DerivativeFromActivation returns the derivative of a layer's
// transfer function expressed through the already computed activation
// value, used by backpropagation fine-tuning. Linear kinds have unit
// derivative.
func DerivativeFromActivation(k topology.Kind, a float64) float64 {
	switch k {
	case topology.Sigmoid:
		return curve.DLogisticFromValue(a)
	case topology.Tanh:
		return curve.DTanhFromValue(a)
	case topology.TanhLecun:
		return curve.DTanhLecunFromValue(a)
	}
	return 1
}

// sdev returns per-unit standard deviations sqrt(exp(logvar)) of a
// gaussian layer, or nil for other kinds.
func (s *ParameterStore) sdev(layer int) []float64 {
	lv := s.logvar[layer]
	if lv == nil {
		return nil
	}
	out := make([]float64, lv.Len())
	for i := range out {
		out[i] = math.Sqrt(math.Exp(lv.AtVec(i)))
	}
	return out
}

// Expect propagates expectation values between two adjacent layers.
// data has one column per unit of the source layer. Rows from a
// gaussian source layer are standardized by the source deviations
// before the weighted sum, and the target layer's transfer function is
// applied on top of its bias.
func (s *ParameterStore) Expect(data *mat.Dense, from, to int) *mat.Dense {
	rows, cols := data.Dims()
	if cols != s.topo.Layer(from).Size {
		panic(fmt.Sprintf("system: data has %d columns, layer %d has %d units", cols, from, s.topo.Layer(from).Size))
	}

	in := data
	if sd := s.sdev(from); sd != nil {
		in = mat.DenseCopyOf(data)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				in.Set(r, c, in.At(r, c)/sd[c])
			}
		}
	}

	target := s.topo.Layer(to)
	out := mat.NewDense(rows, target.Size, nil)
	switch {
	case to == from+1:
		out.Mul(in, s.weights[from])
	case to == from-1:
		out.Mul(in, s.weights[to].T())
	default:
		panic(fmt.Sprintf("system: layers %d and %d are not connected", from, to))
	}

	bias := s.bias[to]
	f := activation(target.Activation)
	for r := 0; r < rows; r++ {
		for c := 0; c < target.Size; c++ {
			v := out.At(r, c) + bias.AtVec(c)
			if f != nil {
				v = f(v)
			}
			out.Set(r, c, v)
		}
	}
	return out
}

// PropagateExpect chains Expect along a path of layer indices. A path
// of length one returns a copy of the input.
func (s *ParameterStore) PropagateExpect(data *mat.Dense, path []int) *mat.Dense {
	if len(path) == 0 {
		panic("system: empty propagation path")
	}
	out := mat.DenseCopyOf(data)
	for i := 0; i+1 < len(path); i++ {
		out = s.Expect(out, path[i], path[i+1])
	}
	return out
}

// Sample draws stochastic unit states from expectation values:
// bernoulli for sigmoid layers, normal with the layer deviation for
// gaussian layers, and the expectations themselves for deterministic
// kinds.
func (s *ParameterStore) Sample(expect *mat.Dense, layer int, rng *rand.Rand) *mat.Dense {
	rows, cols := expect.Dims()
	out := mat.DenseCopyOf(expect)
	switch s.topo.Layer(layer).Activation {
	case topology.Sigmoid:
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if rng.Float64() < expect.At(r, c) {
					out.Set(r, c, 1)
				} else {
					out.Set(r, c, 0)
				}
			}
		}
	case topology.Gauss:
		sd := s.sdev(layer)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				out.Set(r, c, expect.At(r, c)+rng.NormFloat64()*sd[c])
			}
		}
	}
	return out
}

// Values returns maximum likelihood unit states: the bernoulli median
// (threshold 0.5) for sigmoid layers, expectations for all other
// kinds.
func (s *ParameterStore) Values(expect *mat.Dense, layer int) *mat.Dense {
	out := mat.DenseCopyOf(expect)
	if s.topo.Layer(layer).Activation != topology.Sigmoid {
		return out
	}
	rows, cols := expect.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if expect.At(r, c) > 0.5 {
				out.Set(r, c, 1)
			} else {
				out.Set(r, c, 0)
			}
		}
	}
	return out
}

// Energy returns the local unit energies for data clamped to a layer:
// -x·b for bernoulli type units, (x-b)²/2var for gaussian units.
func (s *ParameterStore) Energy(data *mat.Dense, layer int) *mat.Dense {
	rows, cols := data.Dims()
	out := mat.NewDense(rows, cols, nil)
	bias := s.bias[layer]

	if lv := s.logvar[layer]; lv != nil {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				d := data.At(r, c) - bias.AtVec(c)
				out.Set(r, c, 0.5*d*d/math.Exp(lv.AtVec(c)))
			}
		}
		return out
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, -data.At(r, c)*bias.AtVec(c))
		}
	}
	return out
}

// ReconstructPath returns the layer index path used to reconstruct
// visible data: a single forward pass for mirrored stacks, an
// up-and-back-down pass otherwise.
func ReconstructPath(topo *topology.Topology) []int {
	n := topo.Len()
	if topo.Mirrored() {
		path := make([]int, n)
		for i := range path {
			path[i] = i
		}
		return path
	}
	path := make([]int, 0, 2*n-1)
	for i := 0; i < n; i++ {
		path = append(path, i)
	}
	for i := n - 2; i >= 0; i-- {
		path = append(path, i)
	}
	return path
}

// Reconstruct propagates visible data through the full stack and back
// to the visible layer.
func (s *ParameterStore) Reconstruct(data *mat.Dense) *mat.Dense {
	return s.PropagateExpect(data, ReconstructPath(s.topo))
}
