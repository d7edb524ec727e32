package system

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/boltz-ml/boltz/internal/topology"
)

// NamedArray is one shaped parameter block of the portable
// representation. The persistence collaborator serializes these to
// whatever archive format it owns; the core only defines the mapping.
type NamedArray struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

func weightKey(pair int) string  { return fmt.Sprintf("links.%d.W", pair) }
func biasKey(layer int) string   { return fmt.Sprintf("layer.%d.bias", layer) }
func logvarKey(layer int) string { return fmt.Sprintf("layer.%d.logvar", layer) }

// Portable returns the full parameter state as named shaped arrays.
// The returned slices are copies; mutating them does not touch the
// store.
func (s *ParameterStore) Portable() []NamedArray {
	out := make([]NamedArray, 0, len(s.weights)+len(s.bias))

	for i, w := range s.weights {
		r, c := w.Dims()
		data := make([]float64, r*c)
		copy(data, w.RawMatrix().Data)
		out = append(out, NamedArray{Name: weightKey(i), Shape: []int{r, c}, Data: data})
	}
	for i, b := range s.bias {
		data := make([]float64, b.Len())
		for j := range data {
			data[j] = b.AtVec(j)
		}
		out = append(out, NamedArray{Name: biasKey(i), Shape: []int{b.Len()}, Data: data})
	}
	for i, lv := range s.logvar {
		if lv == nil {
			continue
		}
		data := make([]float64, lv.Len())
		for j := range data {
			data[j] = lv.AtVec(j)
		}
		out = append(out, NamedArray{Name: logvarKey(i), Shape: []int{lv.Len()}, Data: data})
	}
	return out
}

// FromPortable reconstructs a ParameterStore for the topology from a
// portable representation. Every weight and bias block of the topology
// must be present with a matching shape.
func FromPortable(topo *topology.Topology, arrays []NamedArray) (*ParameterStore, error) {
	byName := make(map[string]NamedArray, len(arrays))
	for _, a := range arrays {
		byName[a.Name] = a
	}

	s := New(topo, InitConfig{})

	for _, pair := range topo.Pairs() {
		a, ok := byName[weightKey(pair.Lower)]
		if !ok {
			return nil, fmt.Errorf("system: missing array %q", weightKey(pair.Lower))
		}
		lower := topo.Layer(pair.Lower).Size
		upper := topo.Layer(pair.Upper).Size
		if len(a.Shape) != 2 || a.Shape[0] != lower || a.Shape[1] != upper || len(a.Data) != lower*upper {
			return nil, fmt.Errorf("system: array %q has shape %v, want [%d %d]", a.Name, a.Shape, lower, upper)
		}
		w := mat.NewDense(lower, upper, nil)
		copy(w.RawMatrix().Data, a.Data)
		s.weights[pair.Lower] = w
	}

	for i := 0; i < topo.Len(); i++ {
		size := topo.Layer(i).Size

		a, ok := byName[biasKey(i)]
		if !ok {
			return nil, fmt.Errorf("system: missing array %q", biasKey(i))
		}
		if len(a.Data) != size {
			return nil, fmt.Errorf("system: array %q has %d values, want %d", a.Name, len(a.Data), size)
		}
		b := mat.NewVecDense(size, nil)
		for j, v := range a.Data {
			b.SetVec(j, v)
		}
		s.bias[i] = b

		if topo.Layer(i).Activation == topology.Gauss {
			a, ok := byName[logvarKey(i)]
			if !ok {
				return nil, fmt.Errorf("system: missing array %q", logvarKey(i))
			}
			if len(a.Data) != size {
				return nil, fmt.Errorf("system: array %q has %d values, want %d", a.Name, len(a.Data), size)
			}
			lv := mat.NewVecDense(size, nil)
			for j, v := range a.Data {
				lv.SetVec(j, v)
			}
			s.logvar[i] = lv
		}
	}

	return s, nil
}
