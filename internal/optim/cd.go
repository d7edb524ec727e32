package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// cdStep performs one contrastive divergence update of the adjacency
// addressed by its lower layer index. The positive phase clamps the
// given data to the lower layer; the negative phase reconstructs it
// through a k-step sampling chain averaged over m iterations. Reference:
// G. E. Hinton, "A Practical Guide to Training Restricted Boltzmann
// Machines" (2010); gaussian lower layers use the variance-scaled
// gradients of Cho, Ilin, Raiko (ICANN 2011).
func (t *Trainer) cdStep(pair int, vdata *mat.Dense) error {
	store := t.store
	lower, upper := pair, pair+1

	hdata := store.Expect(vdata, lower, upper)
	vmodel, hmodel := t.cdChain(pair, vdata, hdata)

	rows, vsize := vdata.Dims()
	_, hsize := hdata.Dims()

	// Per-unit variance of a gaussian lower layer scales every
	// gradient touching it.
	var variance []float64
	if lv := store.LogVar(lower); lv != nil {
		variance = make([]float64, vsize)
		for i := range variance {
			variance[i] = math.Exp(lv.AtVec(i))
		}
	}

	// Weight gradient: (⟨v·hᵀ⟩_data - ⟨v·hᵀ⟩_model) / |v|.
	size := float64(rows * vsize)
	pos := mat.NewDense(vsize, hsize, nil)
	pos.Mul(vdata.T(), hdata)
	neg := mat.NewDense(vsize, hsize, nil)
	neg.Mul(vmodel.T(), hmodel)

	rw := t.cfg.Rate * t.cfg.FactorWeights
	dW := mat.NewDense(vsize, hsize, nil)
	for i := 0; i < vsize; i++ {
		scale := rw / size
		if variance != nil {
			scale /= variance[i]
		}
		for j := 0; j < hsize; j++ {
			dW.Set(i, j, scale*(pos.At(i, j)-neg.At(i, j)))
		}
	}

	// Bias gradients: column means of the phase differences.
	rv := t.cfg.Rate * t.cfg.FactorVBias
	dvb := mat.NewVecDense(vsize, nil)
	for j := 0; j < vsize; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += vdata.At(i, j) - vmodel.At(i, j)
		}
		d := rv * sum / float64(rows)
		if variance != nil {
			d /= variance[j]
		}
		dvb.SetVec(j, d)
	}

	rh := t.cfg.Rate * t.cfg.FactorHBias
	dhb := mat.NewVecDense(hsize, nil)
	for j := 0; j < hsize; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += hdata.At(i, j) - hmodel.At(i, j)
		}
		dhb.SetVec(j, rh*sum/float64(rows))
	}

	if err := store.ApplyUpdate(pair, dW, dvb, dhb); err != nil {
		return err
	}

	if variance != nil {
		return store.UpdateLogVar(lower, t.cdLogVarDelta(pair, vdata, hdata, vmodel, hmodel, variance))
	}
	return nil
}

// cdChain runs the negative phase sampling chain and returns the model
// expectations of the lower and upper layer.
func (t *Trainer) cdChain(pair int, vdata, hdata *mat.Dense) (vmodel, hmodel *mat.Dense) {
	store := t.store
	rng := t.sess.RNG()
	lower, upper := pair, pair+1
	k, m := t.cfg.CDSteps, t.cfg.CDIterations

	if k == 1 && m == 1 {
		hsample := store.Sample(hdata, upper, rng)
		vmodel = store.Expect(hsample, upper, lower)
		hmodel = store.Expect(vmodel, lower, upper)
		return vmodel, hmodel
	}

	rows, vsize := vdata.Dims()
	_, hsize := hdata.Dims()
	vmodel = mat.NewDense(rows, vsize, nil)
	hmodel = mat.NewDense(rows, hsize, nil)

	for i := 0; i < m; i++ {
		var vexpect, hexpect *mat.Dense
		for j := 0; j < k; j++ {
			var hsample *mat.Dense
			if j == 0 {
				hsample = store.Sample(hdata, upper, rng)
			} else {
				hsample = store.Sample(hexpect, upper, rng)
			}
			vexpect = store.Expect(hsample, upper, lower)

			// The final step feeds the expectation instead of a
			// sample to reduce chain noise.
			if j+1 == k {
				hexpect = store.Expect(vexpect, lower, upper)
			} else {
				hexpect = store.Expect(store.Sample(vexpect, lower, rng), lower, upper)
			}
		}

		inv := 1.0 / float64(m)
		scaled := mat.NewDense(rows, vsize, nil)
		scaled.Scale(inv, vexpect)
		vmodel.Add(vmodel, scaled)

		scaledH := mat.NewDense(rows, hsize, nil)
		scaledH.Scale(inv, hexpect)
		hmodel.Add(hmodel, scaledH)
	}
	return vmodel, hmodel
}

// cdLogVarDelta computes the log-variance gradient of a gaussian lower
// layer from the modified energy difference of the two phases.
func (t *Trainer) cdLogVarDelta(pair int, vdata, hdata, vmodel, hmodel *mat.Dense, variance []float64) *mat.VecDense {
	store := t.store
	rows, vsize := vdata.Dims()
	w, biasLower, _ := store.Get(pair)

	// hW[i][j] = (h · Wᵀ)_ij, the weighted input arriving at lower
	// unit j.
	hWdata := mat.NewDense(rows, vsize, nil)
	hWdata.Mul(hdata, w.T())
	hWmodel := mat.NewDense(rows, vsize, nil)
	hWmodel.Mul(hmodel, w.T())

	rl := t.cfg.Rate * t.cfg.FactorLogVar
	delta := mat.NewVecDense(vsize, nil)
	for j := 0; j < vsize; j++ {
		b := biasLower.AtVec(j)
		var dpos, dneg float64
		for i := 0; i < rows; i++ {
			vd := vdata.At(i, j)
			vm := vmodel.At(i, j)
			dpos += 0.5*(vd-b)*(vd-b) - vd*hWdata.At(i, j)
			dneg += 0.5*(vm-b)*(vm-b) - vm*hWmodel.At(i, j)
		}
		delta.SetVec(j, rl*(dpos-dneg)/float64(rows)/variance[j])
	}
	return delta
}
