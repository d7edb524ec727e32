// Package model binds a layer topology, its learnable parameters and a
// dataset into one trainable, analyzable unit. A Model owns nothing
// global: randomness and output go through its Session.
package model

import (
	"fmt"
	"math/rand"

	"github.com/boltz-ml/boltz/internal/analysis"
	"github.com/boltz-ml/boltz/internal/optim"
	"github.com/boltz-ml/boltz/internal/session"
	"github.com/boltz-ml/boltz/internal/system"
	"github.com/boltz-ml/boltz/internal/table"
	"github.com/boltz-ml/boltz/internal/topology"
)

// Model is the composition queried by training and analysis. It is not
// safe for concurrent use; callers serialize access, and the dataset
// may be shared read-only across models.
type Model struct {
	topo  *topology.Topology
	store *system.ParameterStore
	data  *table.Table
	sess  *session.Session
}

// New builds a model with freshly initialized parameters. The dataset
// column count must match the visible layer; the mismatch surfaces at
// construction as a *topology.ConfigError, never later. Gaussian
// visible parameters are seeded from the column statistics.
func New(topo *topology.Topology, data *table.Table, sess *session.Session, init system.InitConfig) (*Model, error) {
	visible := topo.Visible()
	if data.NumCols() != visible.Size {
		return nil, &topology.ConfigError{
			Layer:  visible.Name,
			Detail: fmt.Sprintf("dataset has %d columns, visible layer has %d units", data.NumCols(), visible.Size),
		}
	}

	store := system.New(topo, init)
	if err := store.InitFromTable(data); err != nil {
		return nil, err
	}
	return &Model{topo: topo, store: store, data: data, sess: sess}, nil
}

// FromPortable restores a model from a portable parameter
// representation, for use by persistence collaborators.
func FromPortable(topo *topology.Topology, data *table.Table, sess *session.Session, arrays []system.NamedArray) (*Model, error) {
	visible := topo.Visible()
	if data.NumCols() != visible.Size {
		return nil, &topology.ConfigError{
			Layer:  visible.Name,
			Detail: fmt.Sprintf("dataset has %d columns, visible layer has %d units", data.NumCols(), visible.Size),
		}
	}

	store, err := system.FromPortable(topo, arrays)
	if err != nil {
		return nil, err
	}
	return &Model{topo: topo, store: store, data: data, sess: sess}, nil
}

// Topology returns the model's layer topology.
func (m *Model) Topology() *topology.Topology {
	return m.topo
}

// Store returns the model's parameter store.
func (m *Model) Store() *system.ParameterStore {
	return m.store
}

// Data returns the model's dataset.
func (m *Model) Data() *table.Table {
	return m.data
}

// RNG returns the session random source.
func (m *Model) RNG() *rand.Rand {
	return m.sess.RNG()
}

// Session returns the model's run context.
func (m *Model) Session() *session.Session {
	return m.sess
}

// Optimize runs one training schedule against the model's parameters.
// Calls are re-entrant: each one resumes from the current parameters
// with a fresh iteration budget, so coarse and fine schedules chain
// naturally. On a Failed outcome the parameters hold the last stable
// state.
func (m *Model) Optimize(cfg optim.Config) (*optim.Result, error) {
	tr, err := optim.NewTrainer(m.store, m.data, m.sess, cfg)
	if err != nil {
		return nil, err
	}
	return tr.Run()
}

// Evaluate computes one registered metric against the model. It never
// mutates the parameters; an unknown name returns
// *analysis.UnknownMetricError and leaves the model untouched.
func (m *Model) Evaluate(name string) (*analysis.Result, error) {
	return analysis.Evaluate(m, name)
}

// EvaluateUnits computes one registered metric restricted to the named
// observed units. Only metrics carrying the UnitSubset policy accept a
// subset.
func (m *Model) EvaluateUnits(name string, units []string) (*analysis.Result, error) {
	return analysis.EvaluateUnits(m, name, units)
}

// Metrics lists the registered metric descriptors sorted by name.
func (m *Model) Metrics() []analysis.Metric {
	return analysis.List()
}

// Portable exports the parameters as named arrays for persistence
// collaborators. The arrays are copies; later training does not touch
// them.
func (m *Model) Portable() []system.NamedArray {
	return m.store.Portable()
}
