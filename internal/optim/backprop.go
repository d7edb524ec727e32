package optim

import (
	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/system"
)

// bpStep performs one full-gradient backpropagation update of a
// mirrored stack. The target of the output layer is the input batch
// itself, so the step minimizes the squared reconstruction error.
// Errors are pushed down with the pre-update weights; all adjacency
// updates derive from the same forward pass.
func (t *Trainer) bpStep(batch *mat.Dense) error {
	store := t.store
	topo := store.Topology()
	layers := topo.Len()
	rows, _ := batch.Dims()

	// Forward pass, keeping every layer activation.
	acts := make([]*mat.Dense, layers)
	acts[0] = batch
	for l := 1; l < layers; l++ {
		acts[l] = store.Expect(acts[l-1], l-1, l)
	}

	// Output error times the activation derivative.
	out := acts[layers-1]
	_, osize := out.Dims()
	delta := mat.NewDense(rows, osize, nil)
	outKind := topo.Layer(layers - 1).Activation
	for i := 0; i < rows; i++ {
		for j := 0; j < osize; j++ {
			a := out.At(i, j)
			delta.Set(i, j, (a-batch.At(i, j))*system.DerivativeFromActivation(outKind, a))
		}
	}

	rw := t.cfg.Rate * t.cfg.FactorWeights
	rb := t.cfg.Rate * t.cfg.FactorHBias

	for l := layers - 1; l >= 1; l-- {
		pair := l - 1
		w, _, _ := store.Get(pair)

		// Propagate the error one layer down before the pair is
		// updated.
		var below *mat.Dense
		if l > 1 {
			_, lsize := acts[l-1].Dims()
			below = mat.NewDense(rows, lsize, nil)
			below.Mul(delta, w.T())
			kind := topo.Layer(l - 1).Activation
			for i := 0; i < rows; i++ {
				for j := 0; j < lsize; j++ {
					a := acts[l-1].At(i, j)
					below.Set(i, j, below.At(i, j)*system.DerivativeFromActivation(kind, a))
				}
			}
		}

		_, lsize := acts[l-1].Dims()
		_, usize := delta.Dims()

		dW := mat.NewDense(lsize, usize, nil)
		dW.Mul(acts[l-1].T(), delta)
		dW.Scale(-rw/float64(rows), dW)

		db := mat.NewVecDense(usize, nil)
		for j := 0; j < usize; j++ {
			var sum float64
			for i := 0; i < rows; i++ {
				sum += delta.At(i, j)
			}
			db.SetVec(j, -rb*sum/float64(rows))
		}

		if err := store.ApplyUpdate(pair, dW, nil, db); err != nil {
			return err
		}
		delta = below
	}
	return nil
}
