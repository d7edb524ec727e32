// Package analysis computes statistical metrics over a trained unit
// system: samplers propagating observations through the parameters,
// per-unit sample statistics, scalar objectives and pairwise
// association matrices between observed units.
//
// Metrics live in a registry populated by static Register calls at
// startup. Evaluation is read only: no metric mutates the subject's
// parameters.
package analysis

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/system"
	"github.com/boltz-ml/boltz/internal/table"
)

// Subject is the trained model surface metrics evaluate against.
type Subject interface {
	Store() *system.ParameterStore
	Data() *table.Table
	RNG() *rand.Rand
}

// Category classifies a metric by the shape of its result.
type Category int

const (
	// Sampler metrics return one row per observation and one column
	// per observed unit.
	Sampler Category = iota
	// Statistic metrics aggregate sampler output to one row.
	Statistic
	// Objective metrics reduce to a single scalar with an optimum
	// direction.
	Objective
	// Association metrics return a square matrix of pairwise
	// relations between observed units.
	Association
)

// String returns a readable category tag.
func (c Category) String() string {
	switch c {
	case Sampler:
		return "sampler"
	case Statistic:
		return "statistic"
	case Objective:
		return "objective"
	case Association:
		return "association"
	}
	return "unknown"
}

// Optimum tags the preferred direction of an objective.
type Optimum int

const (
	// None marks metrics without an optimum direction.
	None Optimum = iota
	// Min marks error-type objectives.
	Min
	// Max marks score-type objectives.
	Max
)

// Args is the target argument policy of a metric: whether it always
// evaluates every observed unit or accepts a named unit subset.
type Args int

const (
	// AllUnits metrics evaluate every observed unit; a requested
	// subset is rejected.
	AllUnits Args = iota
	// UnitSubset metrics restrict their result to a requested subset
	// of observed units.
	UnitSubset
)

// String returns a readable policy tag.
func (a Args) String() string {
	switch a {
	case AllUnits:
		return "all"
	case UnitSubset:
		return "subset"
	}
	return "unknown"
}

// Metric describes one registered evaluation function.
type Metric struct {
	Name     string
	Title    string
	Category Category
	Args     Args
	Optimum  Optimum
	// Format is the printf verb used when rendering scalar results.
	Format string

	Func func(sub Subject) (*Result, error)
}

// Result is one tagged metric evaluation. Objective metrics fill
// Scalar; all other categories fill Matrix, with Columns naming the
// observed units along the column (and, for associations, row) axis.
type Result struct {
	Metric   string
	Category Category
	Optimum  Optimum
	Scalar   float64
	Matrix   *mat.Dense
	Columns  []string
}

// ErrUnknown is the sentinel wrapped by UnknownMetricError.
var ErrUnknown = errors.New("analysis: unknown metric")

// UnknownMetricError reports a lookup of an unregistered metric name.
type UnknownMetricError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("analysis: unknown metric %q", e.Name)
}

// Unwrap makes the error match ErrUnknown under errors.Is.
func (e *UnknownMetricError) Unwrap() error {
	return ErrUnknown
}

var registry = map[string]Metric{}

// Register adds a metric to the registry. It panics on duplicate or
// empty names, since registration happens once at startup.
func Register(m Metric) {
	if m.Name == "" {
		panic("analysis: metric with empty name")
	}
	if m.Func == nil {
		panic(fmt.Sprintf("analysis: metric %q without function", m.Name))
	}
	if _, dup := registry[m.Name]; dup {
		panic(fmt.Sprintf("analysis: duplicate metric %q", m.Name))
	}
	registry[m.Name] = m
}

// Lookup returns a registered metric by name.
func Lookup(name string) (Metric, error) {
	m, ok := registry[name]
	if !ok {
		return Metric{}, &UnknownMetricError{Name: name}
	}
	return m, nil
}

// List returns descriptors of all registered metrics sorted by name.
func List() []Metric {
	out := make([]Metric, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Evaluate looks a metric up and runs it against the subject.
func Evaluate(sub Subject, name string) (*Result, error) {
	m, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return m.Func(sub)
}

// EvaluateUnits runs a metric restricted to the named units. Only
// metrics with the UnitSubset policy accept a subset; AllUnits metrics
// reject the call. An empty subset evaluates all units.
func EvaluateUnits(sub Subject, name string, units []string) (*Result, error) {
	m, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return m.Func(sub)
	}
	if m.Args != UnitSubset {
		return nil, fmt.Errorf("analysis: metric %q evaluates all units, subset not supported", name)
	}

	res, err := m.Func(sub)
	if err != nil {
		return nil, err
	}
	return restrict(res, units)
}

// restrict filters a result's columns to the requested units, in the
// requested order.
func restrict(res *Result, units []string) (*Result, error) {
	index := make(map[string]int, len(res.Columns))
	for j, name := range res.Columns {
		index[name] = j
	}

	rows, _ := res.Matrix.Dims()
	out := mat.NewDense(rows, len(units), nil)
	col := make([]float64, rows)
	for j, name := range units {
		src, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("analysis: unknown unit %q", name)
		}
		mat.Col(col, src, res.Matrix)
		out.SetCol(j, col)
	}

	names := make([]string, len(units))
	copy(names, units)
	res.Matrix = out
	res.Columns = names
	return res, nil
}
