package table

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"a", "b", "c"},
		[][]float64{
			{1, 2, 3},
			{4, 5, 6},
			{7, 8, 9},
			{10, 11, 12},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cols []string
		rows [][]float64
	}{
		{"no columns", nil, [][]float64{{1}}},
		{"no rows", []string{"a"}, nil},
		{"duplicate column", []string{"a", "a"}, [][]float64{{1, 2}}},
		{"ragged row", []string{"a", "b"}, [][]float64{{1, 2}, {3}}},
		{"unnamed column", []string{"a", ""}, [][]float64{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cols, tt.rows); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSelect(t *testing.T) {
	tbl := newTestTable(t)

	sub, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sub.Columns())
	assert.Equal(t, 4, sub.NumRows())

	rows := sub.Rows()
	assert.Equal(t, 3.0, rows.At(0, 0))
	assert.Equal(t, 1.0, rows.At(0, 1))

	_, err = tbl.Select("nope")
	assert.Error(t, err)

	_, err = tbl.Select("a", "a")
	assert.Error(t, err)
}

func TestRows_Copy(t *testing.T) {
	tbl := newTestTable(t)
	rows := tbl.Rows()
	rows.Set(0, 0, 99)
	assert.Equal(t, 1.0, tbl.Rows().At(0, 0), "Rows must return a copy")
}

func TestBatch(t *testing.T) {
	tbl := newTestTable(t)
	rng := rand.New(rand.NewSource(7))

	full := tbl.Batch(0, rng)
	r, c := full.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)

	mini := tbl.Batch(2, rng)
	r, c = mini.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
}

func TestBatch_Deterministic(t *testing.T) {
	tbl := newTestTable(t)
	a := tbl.Batch(3, rand.New(rand.NewSource(42)))
	b := tbl.Batch(3, rand.New(rand.NewSource(42)))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, a.At(i, j), b.At(i, j))
		}
	}
}

func TestColumnStats(t *testing.T) {
	tbl := newTestTable(t)
	mean, sdev, err := tbl.ColumnStats("a")
	require.NoError(t, err)
	assert.InDelta(t, 5.5, mean, 1e-12)
	assert.Greater(t, sdev, 0.0)

	_, _, err = tbl.ColumnStats("zzz")
	assert.Error(t, err)
}

func TestCorrupt(t *testing.T) {
	tbl := newTestTable(t)
	rng := rand.New(rand.NewSource(1))

	masked := tbl.Rows()
	Corrupt(masked, NoiseMask, 1.0, rng)
	r, c := masked.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, 0.0, masked.At(i, j))
		}
	}

	noisy := tbl.Rows()
	Corrupt(noisy, NoiseGauss, 0.5, rng)
	changed := false
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if noisy.At(i, j) != tbl.Rows().At(i, j) {
				changed = true
			}
		}
	}
	assert.True(t, changed)

	untouched := tbl.Rows()
	Corrupt(untouched, NoiseNone, 1.0, rng)
	assert.Equal(t, 1.0, untouched.At(0, 0))
}
