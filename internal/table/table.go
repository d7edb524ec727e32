// Package table implements the in-memory rectangular dataset consumed
// by training and analysis.
//
// A Table is an immutable rows × named-columns block of float64 values.
// Sub-tables select column groups for asymmetric architectures, and
// Batch draws training minibatches. File parsing lives outside the
// core; constructors take already decoded values.
package table

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Table is an immutable rectangular block of observations over named
// columns.
type Table struct {
	cols  []string
	index map[string]int
	data  *mat.Dense
}

// New constructs a Table from column names and row records. Column
// names must be unique, at least one row is required, and every row
// must have exactly one value per column.
func New(cols []string, rows [][]float64) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("table: no columns")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table: no rows")
	}

	index := make(map[string]int, len(cols))
	for i, name := range cols {
		if name == "" {
			return nil, fmt.Errorf("table: column %d has no name", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", name)
		}
		index[name] = i
	}

	data := mat.NewDense(len(rows), len(cols), nil)
	for r, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("table: row %d has %d values, want %d", r, len(row), len(cols))
		}
		data.SetRow(r, row)
	}

	names := make([]string, len(cols))
	copy(names, cols)

	return &Table{cols: names, index: index, data: data}, nil
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// NumRows returns the number of observations.
func (t *Table) NumRows() int {
	r, _ := t.data.Dims()
	return r
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Rows returns a copy of all observations as a dense matrix of shape
// (rows × columns).
func (t *Table) Rows() *mat.Dense {
	return mat.DenseCopyOf(t.data)
}

// Select returns the sub-table holding the named column group, in the
// given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("table: empty column selection")
	}

	rows := t.NumRows()
	data := mat.NewDense(rows, len(cols), nil)
	index := make(map[string]int, len(cols))
	for j, name := range cols {
		src, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("table: unknown column %q", name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("table: duplicate column %q in selection", name)
		}
		index[name] = j
		for r := 0; r < rows; r++ {
			data.Set(r, j, t.data.At(r, src))
		}
	}

	names := make([]string, len(cols))
	copy(names, cols)

	return &Table{cols: names, index: index, data: data}, nil
}

// Batch draws n rows with replacement using rng. n < 1 or n >= NumRows
// returns a copy of the full table in original order, so a zero-value
// batch size means full-batch training.
func (t *Table) Batch(n int, rng *rand.Rand) *mat.Dense {
	rows := t.NumRows()
	if n < 1 || n >= rows {
		return t.Rows()
	}

	out := mat.NewDense(n, len(t.cols), nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, t.data.RawRowView(rng.Intn(rows)))
	}
	return out
}

// ColumnStats returns the mean and standard deviation of the named
// column, used to seed gaussian visible units from data.
func (t *Table) ColumnStats(name string) (mean, sdev float64, err error) {
	j, ok := t.index[name]
	if !ok {
		return 0, 0, fmt.Errorf("table: unknown column %q", name)
	}
	col := make([]float64, t.NumRows())
	mat.Col(col, j, t.data)
	mean = stat.Mean(col, nil)
	sdev = math.Sqrt(stat.Variance(col, nil))
	return mean, sdev, nil
}

// NoiseKind selects a corruption model for denoising training.
type NoiseKind int

// Supported corruption models.
const (
	NoiseNone  NoiseKind = iota
	NoiseMask            // zero a random fraction of values
	NoiseGauss           // add gaussian noise scaled by factor
)

// Corrupt applies the corruption model in place to a minibatch. With
// NoiseMask, factor is the fraction of values zeroed; with NoiseGauss,
// factor scales the standard deviation of the additive noise.
func Corrupt(batch *mat.Dense, kind NoiseKind, factor float64, rng *rand.Rand) {
	if kind == NoiseNone || factor <= 0 {
		return
	}
	rows, cols := batch.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			switch kind {
			case NoiseMask:
				if rng.Float64() < factor {
					batch.Set(r, c, 0)
				}
			case NoiseGauss:
				batch.Set(r, c, batch.At(r, c)+rng.NormFloat64()*factor)
			}
		}
	}
}
