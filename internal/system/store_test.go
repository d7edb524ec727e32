package system

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/table"
	"github.com/boltz-ml/boltz/internal/topology"
)

func newTopo(t *testing.T, specs ...topology.LayerSpec) *topology.Topology {
	t.Helper()
	topo, err := topology.New(specs...)
	require.NoError(t, err)
	return topo
}

func TestNew_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		specs []topology.LayerSpec
	}{
		{"rbm", []topology.LayerSpec{
			{Name: "v", Size: 5, Activation: topology.Sigmoid},
			{Name: "h", Size: 3, Activation: topology.Sigmoid},
		}},
		{"dbn", []topology.LayerSpec{
			{Name: "v", Size: 6, Activation: topology.Gauss},
			{Name: "h1", Size: 4, Activation: topology.Sigmoid},
			{Name: "h2", Size: 2, Activation: topology.Sigmoid},
		}},
		{"autoencoder", []topology.LayerSpec{
			{Name: "in", Size: 4, Activation: topology.Sigmoid},
			{Name: "code", Size: 2, Activation: topology.Sigmoid},
			{Name: "out", Size: 4, Activation: topology.Sigmoid},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo := newTopo(t, tt.specs...)
			s := New(topo, InitConfig{Seed: 1})

			assert.Len(t, s.weights, topo.NumPairs())
			for _, pair := range topo.Pairs() {
				w, bl, bu := s.Get(pair.Lower)
				r, c := w.Dims()
				assert.Equal(t, topo.Layer(pair.Lower).Size, r)
				assert.Equal(t, topo.Layer(pair.Upper).Size, c)
				assert.Equal(t, topo.Layer(pair.Lower).Size, bl.Len())
				assert.Equal(t, topo.Layer(pair.Upper).Size, bu.Len())
			}
		})
	}
}

func TestNew_SigmoidBiasAndGaussLogVar(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 3, Activation: topology.Gauss},
		topology.LayerSpec{Name: "h", Size: 2, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 1})

	_, bl, bu := s.Get(0)
	assert.Equal(t, 0.0, bl.AtVec(0), "gauss bias starts at zero")
	assert.Equal(t, 0.5, bu.AtVec(0), "sigmoid bias starts at 0.5")

	require.NotNil(t, s.LogVar(0))
	assert.Nil(t, s.LogVar(1))
}

func TestApplyUpdate_Atomic(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 2, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "h", Size: 2, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 3})

	before := s.Portable()

	// A delta carrying a NaN must be rejected without touching any
	// field, including the finite ones in the same call.
	dW := mat.NewDense(2, 2, []float64{0.1, math.NaN(), 0.1, 0.1})
	db := mat.NewVecDense(2, []float64{0.5, 0.5})
	err := s.ApplyUpdate(0, dW, db, db)

	var ierr *InstabilityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "W", ierr.Field)
	assert.Equal(t, topology.Pair{Lower: 0, Upper: 1}, ierr.Pair)

	assert.Equal(t, before, s.Portable(), "store must be unchanged after failed update")
}

func TestApplyUpdate_Commits(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 2, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "h", Size: 1, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 3})
	w0, _, bu0 := s.Get(0)
	old := w0.At(0, 0)
	oldBias := bu0.AtVec(0)

	dW := mat.NewDense(2, 1, []float64{1, 0})
	dbu := mat.NewVecDense(1, []float64{-0.25})
	require.NoError(t, s.ApplyUpdate(0, dW, nil, dbu))

	w, _, bu := s.Get(0)
	assert.InDelta(t, old+1, w.At(0, 0), 1e-12)
	assert.InDelta(t, oldBias-0.25, bu.AtVec(0), 1e-12)
}

func TestSnapshot_Isolation(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 2, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "h", Size: 2, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 9})

	snap := s.Snapshot()
	before := s.Portable()

	dW := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	require.NoError(t, s.ApplyUpdate(0, dW, nil, nil))
	assert.NotEqual(t, before, s.Portable())

	s.Restore(snap)
	assert.Equal(t, before, s.Portable(), "restore must bring back the snapshot state")
}

func TestPortable_RoundTrip(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 3, Activation: topology.Gauss},
		topology.LayerSpec{Name: "h1", Size: 2, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "h2", Size: 2, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 11})

	restored, err := FromPortable(topo, s.Portable())
	require.NoError(t, err)
	assert.Equal(t, s.Portable(), restored.Portable())
}

func TestFromPortable_Invalid(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 2, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "h", Size: 2, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 1})

	arrays := s.Portable()[1:] // drop the weight block
	_, err := FromPortable(topo, arrays)
	assert.Error(t, err)

	bad := s.Portable()
	bad[0].Shape = []int{3, 3}
	_, err = FromPortable(topo, bad)
	assert.Error(t, err)
}

func TestInitFromTable_Gauss(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 2, Activation: topology.Gauss},
		topology.LayerSpec{Name: "h", Size: 2, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 1})

	tbl, err := table.New([]string{"x", "y"}, [][]float64{{1, 10}, {3, 30}})
	require.NoError(t, err)
	require.NoError(t, s.InitFromTable(tbl))

	_, bl, _ := s.Get(0)
	assert.InDelta(t, 2.0, bl.AtVec(0), 1e-12)
	assert.InDelta(t, 20.0, bl.AtVec(1), 1e-12)

	wrong, err := table.New([]string{"x"}, [][]float64{{1}})
	require.NoError(t, err)
	err = s.InitFromTable(wrong)
	var cerr *topology.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestSample_Deterministic(t *testing.T) {
	topo := newTopo(t,
		topology.LayerSpec{Name: "v", Size: 2, Activation: topology.Sigmoid},
		topology.LayerSpec{Name: "h", Size: 2, Activation: topology.Sigmoid},
	)
	s := New(topo, InitConfig{Seed: 5})
	expect := mat.NewDense(2, 2, []float64{0.9, 0.1, 0.5, 0.5})

	a := s.Sample(expect, 0, rand.New(rand.NewSource(17)))
	b := s.Sample(expect, 0, rand.New(rand.NewSource(17)))
	assert.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)

	for _, v := range a.RawMatrix().Data {
		assert.True(t, v == 0 || v == 1, "bernoulli sample must be binary")
	}
}
