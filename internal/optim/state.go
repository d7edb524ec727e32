package optim

// State is the lifecycle state of a training run.
type State int

// Trainer states. MaxIterations is a valid terminal state, not an
// error: callers distinguish it from Converged when deciding whether
// to continue training.
const (
	Initialized State = iota
	Running
	Converged
	MaxIterations
	Failed
)

// String returns a readable state tag.
func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Converged:
		return "converged"
	case MaxIterations:
		return "max-iterations"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == Converged || s == MaxIterations || s == Failed
}
