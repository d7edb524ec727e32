// Package session carries the explicit per-run context shared by
// training and analysis: the random source, verbosity flags, and a run
// identifier for artifact tagging. It replaces any global mutable
// logging or mode state; every Session is independent.
package session

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/google/uuid"
)

// Config configures a Session. The zero value is a usable quiet-ish
// default: seed 0, progress lines on, debug lines off, stdout output.
type Config struct {
	Seed    int64
	Verbose bool      // emit debug lines
	Silent  bool      // suppress all output
	Out     io.Writer // defaults to os.Stdout
}

// Session is the context of a single training or analysis run.
type Session struct {
	cfg   Config
	rng   *rand.Rand
	runID uuid.UUID
}

// New creates a Session with a freshly minted run identifier and a
// deterministic random source derived from the configured seed.
func New(cfg Config) *Session {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Session{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		runID: uuid.New(),
	}
}

// RNG returns the session's random source. All stochastic steps of a
// run draw from it, so a fixed seed reproduces the run exactly.
func (s *Session) RNG() *rand.Rand {
	return s.rng
}

// RunID returns the unique identifier of this run.
func (s *Session) RunID() uuid.UUID {
	return s.runID
}

// Seed returns the configured random seed.
func (s *Session) Seed() int64 {
	return s.cfg.Seed
}

// Logf writes a progress line unless the session is silent.
func (s *Session) Logf(format string, args ...any) {
	if s.cfg.Silent {
		return
	}
	fmt.Fprintf(s.cfg.Out, format+"\n", args...)
}

// Debugf writes a debug line when the session is verbose and not
// silent.
func (s *Session) Debugf(format string, args ...any) {
	if !s.cfg.Verbose || s.cfg.Silent {
		return
	}
	fmt.Fprintf(s.cfg.Out, format+"\n", args...)
}
