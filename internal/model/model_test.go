package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boltz-ml/boltz/internal/analysis"
	"github.com/boltz-ml/boltz/internal/optim"
	"github.com/boltz-ml/boltz/internal/session"
	"github.com/boltz-ml/boltz/internal/system"
	"github.com/boltz-ml/boltz/internal/table"
	"github.com/boltz-ml/boltz/internal/topology"
)

func fixture(t *testing.T) *Model {
	t.Helper()
	topo, err := topology.New(
		topology.LayerSpec{Name: "visible", Size: 4, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "hidden", Size: 2, Activation: topology.Sigmoid},
	)
	require.NoError(t, err)

	rows := make([][]float64, 0, 16)
	for i := 0; i < 8; i++ {
		rows = append(rows, []float64{1, 1, 0, 0}, []float64{0, 0, 1, 1})
	}
	data, err := table.New([]string{"a", "b", "c", "d"}, rows)
	require.NoError(t, err)

	sess := session.New(session.Config{Seed: 21, Silent: true})
	m, err := New(topo, data, sess, system.InitConfig{Seed: 21})
	require.NoError(t, err)
	return m
}

func TestNewRejectsColumnMismatch(t *testing.T) {
	topo, err := topology.New(
		topology.LayerSpec{Name: "visible", Size: 3, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "hidden", Size: 2, Activation: topology.Sigmoid},
	)
	require.NoError(t, err)

	data, err := table.New([]string{"a", "b"}, [][]float64{{0, 1}})
	require.NoError(t, err)

	_, err = New(topo, data, session.New(session.Config{Silent: true}), system.InitConfig{})
	var cerr *topology.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "visible", cerr.Layer)
}

func TestOptimizeReducesError(t *testing.T) {
	m := fixture(t)

	before, err := m.Evaluate("error")
	require.NoError(t, err)

	res, err := m.Optimize(optim.Config{Algorithm: "cd", Updates: 2000, Rate: 0.2})
	require.NoError(t, err)
	assert.True(t, res.State.Terminal())

	after, err := m.Evaluate("error")
	require.NoError(t, err)
	assert.Less(t, after.Scalar, before.Scalar)
}

func TestOptimizeIsReentrant(t *testing.T) {
	m := fixture(t)
	cfg := optim.Config{Algorithm: "cd", Updates: 100, Rate: 0.1}

	res1, err := m.Optimize(cfg)
	require.NoError(t, err)
	obj1 := res1.Objective

	// The second schedule resumes from the trained parameters, not
	// from scratch.
	res2, err := m.Optimize(optim.Config{Algorithm: "cd", Updates: 2000, Rate: 0.2})
	require.NoError(t, err)
	assert.LessOrEqual(t, res2.Objective, obj1)
}

func TestOptimizeRejectsUnknownAlgorithm(t *testing.T) {
	m := fixture(t)
	_, err := m.Optimize(optim.Config{Algorithm: "genetic"})
	assert.Error(t, err)
}

func TestEvaluateUnknownMetricLeavesModelUntouched(t *testing.T) {
	m := fixture(t)
	before := m.Portable()

	_, err := m.Evaluate("free-energy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, analysis.ErrUnknown))
	assert.Equal(t, before, m.Portable())
}

func TestEvaluateNeverMutatesParameters(t *testing.T) {
	m := fixture(t)
	before := m.Portable()

	for _, metric := range m.Metrics() {
		_, err := m.Evaluate(metric.Name)
		require.NoError(t, err)
	}
	assert.Equal(t, before, m.Portable())
}

func TestMetricsListsRegistry(t *testing.T) {
	m := fixture(t)
	names := make([]string, 0)
	for _, metric := range m.Metrics() {
		names = append(names, metric.Name)
	}
	assert.Contains(t, names, "error")
	assert.Contains(t, names, "correlation")
}

func TestPortableRoundTripThroughModel(t *testing.T) {
	m := fixture(t)
	_, err := m.Optimize(optim.Config{Algorithm: "cd", Updates: 50, Rate: 0.1})
	require.NoError(t, err)

	arrays := m.Portable()
	restored, err := FromPortable(m.Topology(), m.Data(), session.New(session.Config{Silent: true}), arrays)
	require.NoError(t, err)
	assert.Equal(t, arrays, restored.Portable())

	// Exported arrays are copies: training the restored model must
	// not reach back into them.
	_, err = restored.Optimize(optim.Config{Algorithm: "cd", Updates: 50, Rate: 0.1})
	require.NoError(t, err)
	assert.Equal(t, arrays, m.Portable())
}
