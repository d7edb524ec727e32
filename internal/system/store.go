// Package system owns the learnable parameters of a layered unit
// system: one weight matrix per adjacency pair, one bias vector per
// layer, and a log-variance vector per gaussian layer.
//
// All mutation goes through ApplyUpdate and UpdateLogVar, which are
// atomic per call: an update that would introduce non-finite values is
// rejected as an *InstabilityError and leaves the prior state
// untouched. Snapshots are deep copies, safe against later training.
package system

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/table"
	"github.com/boltz-ml/boltz/internal/topology"
)

// defaultSigma is the standard deviation of initial weights and the
// variance scale of freshly initialized gaussian units.
const defaultSigma = 0.1

// InstabilityError reports an update that would produce non-finite
// parameter values. The store state is unchanged when it is returned.
type InstabilityError struct {
	Pair  topology.Pair
	Field string // "W", "bias", "logvar"
}

// Error implements the error interface.
func (e *InstabilityError) Error() string {
	return fmt.Sprintf("system: non-finite %s update for layer pair (%d, %d)",
		e.Field, e.Pair.Lower, e.Pair.Upper)
}

// InitConfig configures parameter initialization.
type InitConfig struct {
	Seed  int64   // random seed for weight initialization
	Sigma float64 // standard deviation of initial weights (default 0.1)
}

// ParameterStore holds the mutable learnable state of a system.
type ParameterStore struct {
	topo    *topology.Topology
	weights []*mat.Dense    // per adjacency: lower size × upper size
	bias    []*mat.VecDense // per layer
	logvar  []*mat.VecDense // per layer, nil unless the layer is gaussian
}

// New allocates a ParameterStore for the topology. Weights are drawn
// from N(0, sigma), sigmoid biases start at 0.5, gaussian layers at
// zero mean and log-variance log(sigma).
func New(topo *topology.Topology, cfg InitConfig) *ParameterStore {
	if cfg.Sigma == 0 {
		cfg.Sigma = defaultSigma
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	s := &ParameterStore{
		topo:    topo,
		weights: make([]*mat.Dense, topo.NumPairs()),
		bias:    make([]*mat.VecDense, topo.Len()),
		logvar:  make([]*mat.VecDense, topo.Len()),
	}

	for _, pair := range topo.Pairs() {
		lower := topo.Layer(pair.Lower).Size
		upper := topo.Layer(pair.Upper).Size
		w := mat.NewDense(lower, upper, nil)
		for i := 0; i < lower; i++ {
			for j := 0; j < upper; j++ {
				w.Set(i, j, rng.NormFloat64()*cfg.Sigma)
			}
		}
		s.weights[pair.Lower] = w
	}

	for i := 0; i < topo.Len(); i++ {
		layer := topo.Layer(i)
		b := mat.NewVecDense(layer.Size, nil)
		switch layer.Activation {
		case topology.Sigmoid:
			for j := 0; j < layer.Size; j++ {
				b.SetVec(j, 0.5)
			}
		case topology.Gauss:
			lv := mat.NewVecDense(layer.Size, nil)
			for j := 0; j < layer.Size; j++ {
				lv.SetVec(j, math.Log(cfg.Sigma))
			}
			s.logvar[i] = lv
		}
		s.bias[i] = b
	}

	return s
}

// InitFromTable seeds the visible layer from column statistics: for a
// gaussian visible layer, bias takes the column mean and log-variance
// log(sigma·sd²). Column order must match unit order; the column count
// must equal the visible layer size.
func (s *ParameterStore) InitFromTable(tbl *table.Table) error {
	visible := s.topo.Layer(0)
	cols := tbl.Columns()
	if len(cols) != visible.Size {
		return &topology.ConfigError{
			Layer:  visible.Name,
			Detail: fmt.Sprintf("dataset has %d columns, visible layer has %d units", len(cols), visible.Size),
		}
	}
	if visible.Activation != topology.Gauss {
		return nil
	}

	for j, name := range cols {
		mean, sdev, err := tbl.ColumnStats(name)
		if err != nil {
			return err
		}
		s.bias[0].SetVec(j, mean)
		if sdev <= 0 {
			sdev = 1
		}
		s.logvar[0].SetVec(j, math.Log(defaultSigma*sdev*sdev))
	}
	return nil
}

// Topology returns the topology the store was allocated for.
func (s *ParameterStore) Topology() *topology.Topology {
	return s.topo
}

// Get returns read-only views of the weight matrix and the two bias
// vectors of the adjacency pair addressed by its lower layer index.
func (s *ParameterStore) Get(pair int) (w mat.Matrix, biasLower, biasUpper mat.Vector) {
	return s.weights[pair], s.bias[pair], s.bias[pair+1]
}

// LogVar returns the log-variance vector of a gaussian layer, or nil
// for other layer kinds.
func (s *ParameterStore) LogVar(layer int) mat.Vector {
	if s.logvar[layer] == nil {
		return nil
	}
	return s.logvar[layer]
}

func finiteDense(m *mat.Dense) bool {
	for _, v := range m.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteVec(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		x := v.AtVec(i)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// ApplyUpdate adds the deltas to the pair's weight matrix and bias
// vectors. Nil deltas skip the respective field. The call is atomic:
// every staged result is checked for finiteness before any field is
// committed, and an *InstabilityError leaves the store unchanged.
func (s *ParameterStore) ApplyUpdate(pair int, dW mat.Matrix, dbLower, dbUpper mat.Vector) error {
	p := topology.Pair{Lower: pair, Upper: pair + 1}

	var stagedW *mat.Dense
	if dW != nil {
		stagedW = mat.DenseCopyOf(s.weights[pair])
		stagedW.Add(stagedW, dW)
		if !finiteDense(stagedW) {
			return &InstabilityError{Pair: p, Field: "W"}
		}
	}

	var stagedLower, stagedUpper *mat.VecDense
	if dbLower != nil {
		stagedLower = mat.VecDenseCopyOf(s.bias[pair])
		stagedLower.AddVec(stagedLower, dbLower)
		if !finiteVec(stagedLower) {
			return &InstabilityError{Pair: p, Field: "bias"}
		}
	}
	if dbUpper != nil {
		stagedUpper = mat.VecDenseCopyOf(s.bias[pair+1])
		stagedUpper.AddVec(stagedUpper, dbUpper)
		if !finiteVec(stagedUpper) {
			return &InstabilityError{Pair: p, Field: "bias"}
		}
	}

	if stagedW != nil {
		s.weights[pair] = stagedW
	}
	if stagedLower != nil {
		s.bias[pair] = stagedLower
	}
	if stagedUpper != nil {
		s.bias[pair+1] = stagedUpper
	}
	return nil
}

// UpdateLogVar adds a delta to a gaussian layer's log-variance vector
// under the same atomicity contract as ApplyUpdate.
func (s *ParameterStore) UpdateLogVar(layer int, delta mat.Vector) error {
	if s.logvar[layer] == nil || delta == nil {
		return nil
	}
	staged := mat.VecDenseCopyOf(s.logvar[layer])
	staged.AddVec(staged, delta)
	if !finiteVec(staged) {
		return &InstabilityError{Pair: topology.Pair{Lower: layer, Upper: layer}, Field: "logvar"}
	}
	s.logvar[layer] = staged
	return nil
}

// Snapshot is a deep copy of the store state, detached from later
// updates.
type Snapshot struct {
	weights []*mat.Dense
	bias    []*mat.VecDense
	logvar  []*mat.VecDense
}

// Snapshot returns a deep copy of the current parameter state.
func (s *ParameterStore) Snapshot() *Snapshot {
	snap := &Snapshot{
		weights: make([]*mat.Dense, len(s.weights)),
		bias:    make([]*mat.VecDense, len(s.bias)),
		logvar:  make([]*mat.VecDense, len(s.logvar)),
	}
	for i, w := range s.weights {
		snap.weights[i] = mat.DenseCopyOf(w)
	}
	for i, b := range s.bias {
		snap.bias[i] = mat.VecDenseCopyOf(b)
	}
	for i, lv := range s.logvar {
		if lv != nil {
			snap.logvar[i] = mat.VecDenseCopyOf(lv)
		}
	}
	return snap
}

// Restore replaces the store state with a deep copy of the snapshot.
func (s *ParameterStore) Restore(snap *Snapshot) {
	for i, w := range snap.weights {
		s.weights[i] = mat.DenseCopyOf(w)
	}
	for i, b := range snap.bias {
		s.bias[i] = mat.VecDenseCopyOf(b)
	}
	for i, lv := range snap.logvar {
		if lv != nil {
			s.logvar[i] = mat.VecDenseCopyOf(lv)
		} else {
			s.logvar[i] = nil
		}
	}
}
