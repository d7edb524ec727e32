package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/boltz-ml/boltz/internal/curve"
	"github.com/boltz-ml/boltz/internal/parallel"
	"github.com/boltz-ml/boltz/internal/system"
)

func init() {
	Register(Metric{Name: "expect", Title: "Reconstruction Expectation",
		Category: Sampler, Args: UnitSubset, Func: metricExpect})
	Register(Metric{Name: "values", Title: "Reconstruction Values",
		Category: Sampler, Args: UnitSubset, Func: metricValues})
	Register(Metric{Name: "samples", Title: "Reconstruction Samples",
		Category: Sampler, Args: UnitSubset, Func: metricSamples})
	Register(Metric{Name: "residuals", Title: "Reconstruction Residuals",
		Category: Sampler, Args: UnitSubset, Func: metricResiduals})

	Register(Metric{Name: "mean", Title: "Reconstruction Mean",
		Category: Statistic, Args: UnitSubset, Format: "%.4f", Func: metricMean})
	Register(Metric{Name: "variance", Title: "Reconstruction Variance",
		Category: Statistic, Args: UnitSubset, Format: "%.4f", Func: metricVariance})

	Register(Metric{Name: "error", Title: "Mean Squared Reconstruction Error",
		Category: Objective, Args: AllUnits, Optimum: Min, Format: "%.6f", Func: metricError})
	Register(Metric{Name: "accuracy", Title: "Reconstruction Accuracy",
		Category: Objective, Args: AllUnits, Optimum: Max, Format: "%.4f", Func: metricAccuracy})
	Register(Metric{Name: "precision", Title: "Reconstruction Precision",
		Category: Objective, Args: AllUnits, Optimum: Max, Format: "%.4f", Func: metricPrecision})

	Register(Metric{Name: "correlation", Title: "Unit Correlation",
		Category: Association, Args: AllUnits, Format: "%.4f", Func: metricCorrelation})
	Register(Metric{Name: "connectionweight", Title: "Connection Weight Sum",
		Category: Association, Args: AllUnits, Format: "%.4f", Func: metricConnectionWeight})
	Register(Metric{Name: "knockout", Title: "Knockout Error Gain",
		Category: Association, Args: AllUnits, Format: "%.6f", Func: metricKnockout})
}

// outputLayer returns the layer index the reconstruction lands in.
func outputLayer(store *system.ParameterStore) int {
	path := system.ReconstructPath(store.Topology())
	return path[len(path)-1]
}

// reconstruct propagates the full dataset through the parameters and
// returns both the observations and their reconstruction expectations.
func reconstruct(sub Subject) (data, expect *mat.Dense) {
	data = sub.Data().Rows()
	return data, sub.Store().Reconstruct(data)
}

// residuals returns data minus its reconstruction expectation.
func residuals(sub Subject) (data, res *mat.Dense) {
	data, expect := reconstruct(sub)
	r, c := data.Dims()
	res = mat.NewDense(r, c, nil)
	res.Sub(data, expect)
	return data, res
}

func samplerResult(name string, sub Subject, m *mat.Dense) *Result {
	return &Result{
		Metric:   name,
		Category: Sampler,
		Matrix:   m,
		Columns:  sub.Data().Columns(),
	}
}

func metricExpect(sub Subject) (*Result, error) {
	_, expect := reconstruct(sub)
	return samplerResult("expect", sub, expect), nil
}

func metricValues(sub Subject) (*Result, error) {
	store := sub.Store()
	_, expect := reconstruct(sub)
	return samplerResult("values", sub, store.Values(expect, outputLayer(store))), nil
}

func metricSamples(sub Subject) (*Result, error) {
	store := sub.Store()
	_, expect := reconstruct(sub)
	return samplerResult("samples", sub, store.Sample(expect, outputLayer(store), sub.RNG())), nil
}

func metricResiduals(sub Subject) (*Result, error) {
	_, res := residuals(sub)
	return samplerResult("residuals", sub, res), nil
}

// columnStatistic reduces the reconstruction expectation column-wise.
func columnStatistic(name string, sub Subject, f func(col []float64) float64) *Result {
	_, expect := reconstruct(sub)
	rows, cols := expect.Dims()
	out := mat.NewDense(1, cols, nil)
	buf := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(buf, j, expect)
		out.Set(0, j, f(buf))
	}
	return &Result{
		Metric:   name,
		Category: Statistic,
		Matrix:   out,
		Columns:  sub.Data().Columns(),
	}
}

func metricMean(sub Subject) (*Result, error) {
	return columnStatistic("mean", sub, func(col []float64) float64 {
		return stat.Mean(col, nil)
	}), nil
}

func metricVariance(sub Subject) (*Result, error) {
	return columnStatistic("variance", sub, func(col []float64) float64 {
		return stat.Variance(col, nil)
	}), nil
}

// metricError is the training objective: the mean over units of the
// per-unit mean squared residual, which for a rectangular residual
// block equals the global mean of squared residuals.
func metricError(sub Subject) (*Result, error) {
	_, res := residuals(sub)
	raw := res.RawMatrix().Data
	return &Result{
		Metric:   "error",
		Category: Objective,
		Optimum:  Min,
		Scalar:   floats.Dot(raw, raw) / float64(len(raw)),
	}, nil
}

// metricAccuracy relates the residual magnitude to the signal
// magnitude: 1 - ||residuals|| / ||data||.
func metricAccuracy(sub Subject) (*Result, error) {
	data, res := residuals(sub)
	return &Result{
		Metric:   "accuracy",
		Category: Objective,
		Optimum:  Max,
		Scalar:   1 - floats.Norm(res.RawMatrix().Data, 2)/floats.Norm(data.RawMatrix().Data, 2),
	}, nil
}

// metricPrecision relates the residual spread to the signal spread:
// 1 - sdev(residuals) / sdev(data).
func metricPrecision(sub Subject) (*Result, error) {
	data, res := residuals(sub)
	return &Result{
		Metric:   "precision",
		Category: Objective,
		Optimum:  Max,
		Scalar:   1 - stat.StdDev(res.RawMatrix().Data, nil)/stat.StdDev(data.RawMatrix().Data, nil),
	}, nil
}

// metricCorrelation is the symmetric Pearson correlation matrix of the
// observed columns. It depends on the data only, not the parameters.
func metricCorrelation(sub Subject) (*Result, error) {
	data := sub.Data().Rows()
	_, cols := data.Dims()

	sym := mat.NewSymDense(cols, nil)
	stat.CorrelationMatrix(sym, data, nil)

	out := mat.NewDense(cols, cols, nil)
	for i := 0; i < cols; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, sym.At(i, j))
		}
	}
	return &Result{
		Metric:   "correlation",
		Category: Association,
		Matrix:   out,
		Columns:  sub.Data().Columns(),
	}, nil
}

// metricConnectionWeight chains the weight matrices along the
// reconstruction path, yielding the summed multiplicative influence of
// each observed unit on each other through the hidden layers.
func metricConnectionWeight(sub Subject) (*Result, error) {
	store := sub.Store()
	path := system.ReconstructPath(store.Topology())

	var acc *mat.Dense
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		var step mat.Matrix
		if to == from+1 {
			w, _, _ := store.Get(from)
			step = w
		} else {
			w, _, _ := store.Get(to)
			step = w.T()
		}
		if acc == nil {
			r, c := step.Dims()
			acc = mat.NewDense(r, c, nil)
			acc.Copy(step)
			continue
		}
		ar, _ := acc.Dims()
		_, sc := step.Dims()
		next := mat.NewDense(ar, sc, nil)
		next.Mul(acc, step)
		acc = next
	}
	return &Result{
		Metric:   "connectionweight",
		Category: Association,
		Matrix:   acc,
		Columns:  sub.Data().Columns(),
	}, nil
}

// metricKnockout measures directed influence: entry (i, j) is the
// increase of unit j's reconstruction error when unit i's observations
// are blocked to their column mean. No retraining takes place.
func metricKnockout(sub Subject) (*Result, error) {
	store := sub.Store()
	data := sub.Data().Rows()
	rows, cols := data.Dims()

	perUnit := func(d *mat.Dense) []float64 {
		recon := store.Reconstruct(d)
		errs := make([]float64, cols)
		for j := 0; j < cols; j++ {
			var sum float64
			for i := 0; i < rows; i++ {
				r := data.At(i, j) - recon.At(i, j)
				sum += r * r
			}
			errs[j] = sum / float64(rows)
		}
		return errs
	}
	base := perUnit(data)

	// Blocked reconstructions are independent and read the parameters
	// only, so they fan out per knocked unit.
	out := mat.NewDense(cols, cols, nil)
	parallel.For(cols, func(i int) {
		col := make([]float64, rows)
		mat.Col(col, i, data)
		mean := stat.Mean(col, nil)

		blocked := mat.NewDense(rows, cols, nil)
		blocked.Copy(data)
		for r := 0; r < rows; r++ {
			blocked.Set(r, i, mean)
		}

		knocked := perUnit(blocked)
		for j := 0; j < cols; j++ {
			out.Set(i, j, knocked[j]-base[j])
		}
	}, parallel.DefaultConfig())
	return &Result{
		Metric:   "knockout",
		Category: Association,
		Matrix:   out,
		Columns:  sub.Data().Columns(),
	}, nil
}

// Intensify sharpens association values in place toward their sign,
// suppressing near-zero entries. The factor controls the contrast and
// bound the saturation point.
func Intensify(m *mat.Dense, factor, bound float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, curve.Intensify(m.At(i, j), factor, bound))
		}
	}
}
