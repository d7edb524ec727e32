// Package topology describes the layered connectivity of a unit system.
//
// A Topology is an ordered sequence of layer specifications. Adjacent
// layers are fully connected. The first layer is the visible (data
// facing) layer; all following layers are hidden, except that in a
// mirrored stack the final layer faces the data again. Topologies are
// immutable after construction.
package topology

import (
	"fmt"
)

// Kind identifies the activation and sampling behavior of a unit layer.
type Kind int

// Supported unit layer kinds.
const (
	Sigmoid Kind = iota // logistic activation, bernoulli sampling
	Tanh                // hyperbolic tangent activation
	TanhLecun           // 1.7159 * tanh(2/3 x), LeCun (1998)
	Gauss               // linear activation, gaussian sampling
	Linear              // linear activation, deterministic
)

// String returns the canonical tag of the kind.
func (k Kind) String() string {
	switch k {
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case TanhLecun:
		return "tanh-lecun"
	case Gauss:
		return "gauss"
	case Linear:
		return "linear"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves an activation tag to its Kind. The aliases
// "tanh-efficient" and "gaussian" are accepted.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "sigmoid":
		return Sigmoid, nil
	case "tanh":
		return Tanh, nil
	case "tanh-lecun", "tanh-efficient":
		return TanhLecun, nil
	case "gauss", "gaussian":
		return Gauss, nil
	case "linear":
		return Linear, nil
	}
	return 0, &ConfigError{Detail: fmt.Sprintf("unknown activation kind %q", tag)}
}

// ConfigError reports an invalid topology or an invalid binding of a
// topology to a dataset.
type ConfigError struct {
	Layer  string // offending layer name, if any
	Detail string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Layer != "" {
		return fmt.Sprintf("topology: layer %q: %s", e.Layer, e.Detail)
	}
	return "topology: " + e.Detail
}

// LayerSpec describes one unit layer.
type LayerSpec struct {
	Name       string
	Size       int
	Activation Kind
}

// Pair identifies the fully connected links between two adjacent layers,
// addressed by the index of the lower layer.
type Pair struct {
	Lower, Upper int
}

// Topology is an immutable ordered sequence of unit layers.
type Topology struct {
	layers []LayerSpec
	index  map[string]int
}

// New constructs a Topology from ordered layer specifications.
//
// At least two layers are required (one visible, one hidden), layer
// names must be unique and sizes positive. Returns a *ConfigError on
// violation.
func New(specs ...LayerSpec) (*Topology, error) {
	if len(specs) < 2 {
		return nil, &ConfigError{Detail: "at least one visible and one hidden layer required"}
	}

	index := make(map[string]int, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, &ConfigError{Detail: fmt.Sprintf("layer %d has no name", i)}
		}
		if _, dup := index[spec.Name]; dup {
			return nil, &ConfigError{Layer: spec.Name, Detail: "duplicate layer name"}
		}
		if spec.Size < 1 {
			return nil, &ConfigError{Layer: spec.Name, Detail: fmt.Sprintf("invalid size %d", spec.Size)}
		}
		index[spec.Name] = i
	}

	layers := make([]LayerSpec, len(specs))
	copy(layers, specs)

	return &Topology{layers: layers, index: index}, nil
}

// Len returns the number of layers.
func (t *Topology) Len() int {
	return len(t.layers)
}

// Layer returns the specification of the layer at index i.
func (t *Topology) Layer(i int) LayerSpec {
	return t.layers[i]
}

// Layers returns a copy of the ordered layer specifications.
func (t *Topology) Layers() []LayerSpec {
	out := make([]LayerSpec, len(t.layers))
	copy(out, t.layers)
	return out
}

// Index returns the position of the named layer.
func (t *Topology) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Pairs returns the adjacency pairs of consecutive layers in order.
func (t *Topology) Pairs() []Pair {
	pairs := make([]Pair, len(t.layers)-1)
	for i := range pairs {
		pairs[i] = Pair{Lower: i, Upper: i + 1}
	}
	return pairs
}

// NumPairs returns the number of adjacency pairs.
func (t *Topology) NumPairs() int {
	return len(t.layers) - 1
}

// Visible returns the specification of the visible (first) layer.
func (t *Topology) Visible() LayerSpec {
	return t.layers[0]
}

// Mirrored reports whether the stack ends in a layer of the same size as
// the visible layer, as in an unrolled autoencoder. A mirrored stack
// reconstructs by a single forward pass; an unmirrored stack
// reconstructs by propagating up and back down.
func (t *Topology) Mirrored() bool {
	return len(t.layers) > 2 && t.layers[len(t.layers)-1].Size == t.layers[0].Size
}
