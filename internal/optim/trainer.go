// Package optim drives iterative parameter refinement of a layered
// unit system against a dataset.
//
// A Trainer walks the state machine
//
//	Initialized → Running → {Converged, MaxIterations, Failed}
//
// Each iteration draws a minibatch, runs the selected update scheme
// and commits deltas through the parameter store. A rejected
// (non-finite) update halts the run in Failed with the last stable
// parameters restored; it is never retried, since a diverging step
// points at the configuration, not at transient state. Runs are
// re-entrant: calling Run on a terminal trainer resumes from the
// current parameters with a fresh iteration budget.
//
// Update schemes form a closed registration table; there is no dynamic
// lookup by type name.
package optim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/session"
	"github.com/boltz-ml/boltz/internal/system"
	"github.com/boltz-ml/boltz/internal/table"
	"github.com/boltz-ml/boltz/internal/topology"
)

// algorithm is one training scheme of the closed dispatch table.
type algorithm func(t *Trainer) (*Result, error)

var algorithms = map[string]algorithm{
	"cd":       (*Trainer).runCD,
	"pretrain": (*Trainer).runPretrain,
	"finetune": (*Trainer).runFinetune,
	"dbn":      (*Trainer).runDBN,
}

// HistoryPoint is one tracked objective evaluation.
type HistoryPoint struct {
	Epoch     int
	Objective float64
}

// Result reports the outcome of one Run call.
type Result struct {
	State     State
	Epochs    int     // cumulative epoch count after the run
	Objective float64 // final reconstruction error
	History   []HistoryPoint
	// FailedPair names the layer pair whose update was rejected when
	// State is Failed.
	FailedPair *topology.Pair
}

// Trainer owns one training run over a parameter store. It is not safe
// for concurrent use; callers serialize access.
type Trainer struct {
	store *system.ParameterStore
	data  *table.Table
	sess  *session.Session
	cfg   Config

	state State
	epoch int
}

// NewTrainer binds a parameter store, its training data and a session
// to a configuration. The data column count must match the visible
// layer; violations surface as *topology.ConfigError.
func NewTrainer(store *system.ParameterStore, data *table.Table, sess *session.Session, cfg Config) (*Trainer, error) {
	cfg = cfg.withDefaults()

	if _, ok := algorithms[cfg.Algorithm]; !ok {
		return nil, fmt.Errorf("optim: unknown algorithm %q", cfg.Algorithm)
	}
	if _, err := cfg.Noise.kind(); err != nil {
		return nil, err
	}

	visible := store.Topology().Visible()
	if data.NumCols() != visible.Size {
		return nil, &topology.ConfigError{
			Layer:  visible.Name,
			Detail: fmt.Sprintf("dataset has %d columns, visible layer has %d units", data.NumCols(), visible.Size),
		}
	}

	return &Trainer{store: store, data: data, sess: sess, cfg: cfg, state: Initialized}, nil
}

// State returns the trainer's current lifecycle state.
func (t *Trainer) State() State {
	return t.state
}

// Epoch returns the cumulative iteration count across Run calls.
func (t *Trainer) Epoch() int {
	return t.epoch
}

// Run executes one training run under the configured scheme and
// returns its Result. On a numerical failure both the Result and the
// *system.InstabilityError are returned.
func (t *Trainer) Run() (*Result, error) {
	return algorithms[t.cfg.Algorithm](t)
}

// Objective computes the reconstruction error of the current
// parameters over the full dataset: the mean over output units of the
// per-unit mean squared residual, which for a rectangular residual
// block equals the global mean of squared residuals.
func (t *Trainer) Objective() float64 {
	rows := t.data.Rows()
	recon := t.store.Reconstruct(rows)

	r, c := rows.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := rows.At(i, j) - recon.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(r*c)
}

// loop is the shared iteration engine: minibatch handling, objective
// tracking, convergence and budget checks, failure handling.
func (t *Trainer) loop(step func(batch *mat.Dense) error) (*Result, error) {
	t.state = Running
	start := time.Now()
	rng := t.sess.RNG()
	noiseKind, _ := t.cfg.Noise.kind()

	res := &Result{}
	var batch *mat.Dense
	var best *system.Snapshot
	bestObj := math.Inf(1)

	for i := 0; i < t.cfg.Updates; i++ {
		if t.cfg.MaxTime > 0 && time.Since(start) >= t.cfg.MaxTime {
			t.state = MaxIterations
			break
		}

		if batch == nil || i%t.cfg.BatchInterval == 0 {
			batch = t.data.Batch(t.cfg.BatchSize, rng)
			if noiseKind != table.NoiseNone {
				table.Corrupt(batch, noiseKind, t.cfg.Noise.Factor, rng)
			}
		}

		lastGood := t.store.Snapshot()
		if err := step(batch); err != nil {
			var ierr *system.InstabilityError
			if !errors.As(err, &ierr) {
				return nil, err
			}
			t.store.Restore(lastGood)
			t.state = Failed
			t.epoch++
			res.State = Failed
			res.Epochs = t.epoch
			res.Objective = t.Objective()
			res.FailedPair = &ierr.Pair
			t.sess.Logf("optimization failed at epoch %d: %v", t.epoch, err)
			return res, err
		}
		t.epoch++

		if t.epoch%t.cfg.EvalInterval == 0 {
			obj := t.Objective()
			res.History = append(res.History, HistoryPoint{Epoch: t.epoch, Objective: obj})
			t.sess.Debugf("epoch %d: reconstruction error %.6f", t.epoch, obj)

			if t.cfg.KeepOptimum && obj < bestObj {
				bestObj = obj
				best = t.store.Snapshot()
			}
			if t.cfg.Threshold > 0 && obj <= t.cfg.Threshold {
				t.state = Converged
				break
			}
		}
	}

	if t.state == Running {
		t.state = MaxIterations
	}

	final := t.Objective()
	if t.cfg.KeepOptimum && best != nil && bestObj < final {
		t.store.Restore(best)
		final = bestObj
	}

	res.State = t.state
	res.Epochs = t.epoch
	res.Objective = final
	t.sess.Logf("optimization %s after %d epochs, reconstruction error %.6f",
		t.state, t.epoch, final)
	return res, nil
}

func (t *Trainer) runCD() (*Result, error) {
	if t.store.Topology().NumPairs() != 1 {
		return nil, fmt.Errorf("optim: cd operates on a single adjacency; use pretrain or dbn for deep stacks")
	}
	return t.loop(func(batch *mat.Dense) error {
		return t.cdStep(0, batch)
	})
}

// runPretrain trains each adjacency in order with contrastive
// divergence, feeding the expectations of the trained lower layers
// forward, as in greedy deep belief network pretraining. Each
// adjacency receives the full configured iteration budget.
func (t *Trainer) runPretrain() (*Result, error) {
	topo := t.store.Topology()
	combined := &Result{}

	for _, pair := range topo.Pairs() {
		p := pair.Lower
		t.sess.Logf("pretraining layer pair (%s, %s)",
			topo.Layer(pair.Lower).Name, topo.Layer(pair.Upper).Name)

		path := make([]int, p+1)
		for i := range path {
			path[i] = i
		}

		res, err := t.loop(func(batch *mat.Dense) error {
			in := batch
			if p > 0 {
				in = t.store.PropagateExpect(batch, path)
			}
			return t.cdStep(p, in)
		})
		if err != nil {
			return res, err
		}
		combined.State = res.State
		combined.Epochs = res.Epochs
		combined.Objective = res.Objective
		combined.History = append(combined.History, res.History...)
	}
	return combined, nil
}

func (t *Trainer) runFinetune() (*Result, error) {
	topo := t.store.Topology()
	if !topo.Mirrored() {
		return nil, fmt.Errorf("optim: finetune requires a mirrored stack reconstructing by forward pass")
	}
	for _, layer := range topo.Layers() {
		if layer.Activation == topology.Gauss {
			return nil, fmt.Errorf("optim: finetune does not support gaussian layer %q", layer.Name)
		}
	}
	return t.loop(t.bpStep)
}

// runDBN is the composite schedule: greedy pretraining followed by
// backprop fine-tuning when the stack is mirrored.
func (t *Trainer) runDBN() (*Result, error) {
	res, err := t.runPretrain()
	if err != nil {
		return res, err
	}
	if !t.store.Topology().Mirrored() {
		return res, nil
	}

	fres, err := t.runFinetune()
	if err != nil {
		return fres, err
	}
	fres.History = append(res.History, fres.History...)
	return fres, nil
}
